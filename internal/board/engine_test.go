package board_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/embudo/internal/board"
	"github.com/thenoetrevino/embudo/internal/events"
	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/testutil"
	"github.com/thenoetrevino/embudo/internal/types"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type harness struct {
	engine    *board.Engine[string]
	source    *testutil.StaticSource[string]
	updater   *testutil.FakeUpdater[string]
	notifier  *testutil.RecordingNotifier
	publisher *testutil.RecordingPublisher
	clock     *fakeClock
}

func record(id, value string) models.Record[string] {
	return models.Record[string]{ID: types.RecordID(id), StageValue: value, Payload: "card " + id}
}

// setupEngine builds a loaded engine over the opportunity stages
func setupEngine(t *testing.T, updater *testutil.FakeUpdater[string], records []models.Record[string], opts ...board.Option) *harness {
	t.Helper()

	reg, err := board.NewRegistry([]models.Stage{
		{ID: "prospeccion", Label: "Prospección", MemberValues: []string{"prospeccion"}},
		{ID: "negociacion", Label: "Negociación", MemberValues: []string{"negociacion"}},
		{ID: "cerrada", Label: "Cerrada", MemberValues: []string{"cerrada_ganada", "cerrada_perdida"}},
	})
	require.NoError(t, err)

	h := &harness{
		source:    &testutil.StaticSource[string]{Records: records},
		updater:   updater,
		notifier:  &testutil.RecordingNotifier{},
		publisher: testutil.NewRecordingPublisher(),
		clock:     newFakeClock(),
	}

	all := append([]board.Option{
		board.WithNotifier(h.notifier),
		board.WithPublisher(h.publisher),
		board.WithClock(h.clock.Now),
	}, opts...)

	h.engine = board.New[string]("oportunidades", reg, h.source, updater, all...)
	t.Cleanup(func() { _ = h.engine.Close() })

	require.NoError(t, h.engine.Load(context.Background()))
	return h
}

func (h *harness) stageOf(t *testing.T, id string) types.StageID {
	t.Helper()
	stage, ok := h.engine.StageOf(types.RecordID(id))
	require.True(t, ok)
	return stage
}

func (h *harness) rawValue(t *testing.T, id string) string {
	t.Helper()
	r, ok := h.engine.Record(types.RecordID(id))
	require.True(t, ok)
	return r.StageValue
}

func columnIDs(b board.Board[string], stage types.StageID) []types.RecordID {
	for _, col := range b.Columns {
		if col.Stage.ID != stage {
			continue
		}
		out := []types.RecordID{}
		for _, r := range col.Records {
			out = append(out, r.ID)
		}
		return out
	}
	return nil
}

func waitStarted(t *testing.T, u *testutil.FakeUpdater[string]) {
	t.Helper()
	select {
	case <-u.Started():
	case <-time.After(2 * time.Second):
		t.Fatal("updater was never called")
	}
}

// ============================================================================
// LOADING
// ============================================================================

func TestEngine_LoadGroupsRecords(t *testing.T) {
	h := setupEngine(t, &testutil.FakeUpdater[string]{}, []models.Record[string]{
		record("1", "prospeccion"),
		record("2", "negociacion"),
	})

	snap := h.engine.Snapshot()

	require.Len(t, snap.Columns, 3)
	assert.Equal(t, []types.RecordID{"1"}, columnIDs(snap, "prospeccion"))
	assert.Equal(t, []types.RecordID{"2"}, columnIDs(snap, "negociacion"))
	assert.Empty(t, columnIDs(snap, "cerrada"))
	assert.Equal(t, 1, h.publisher.Count(events.EventBoardChanged))
}

func TestEngine_LoadErrorKeepsPreviousBoard(t *testing.T) {
	h := setupEngine(t, &testutil.FakeUpdater[string]{}, []models.Record[string]{record("1", "prospeccion")})
	h.source.Err = errors.New("connection refused")

	err := h.engine.Refresh(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, types.StageID("prospeccion"), h.stageOf(t, "1"))
}

func TestEngine_LoadWithoutSource(t *testing.T) {
	reg, err := board.NewRegistry([]models.Stage{{ID: "a", MemberValues: []string{"a"}}})
	require.NoError(t, err)

	e := board.New[string]("p", reg, nil, &testutil.FakeUpdater[string]{})
	defer e.Close()

	assert.ErrorIs(t, e.Load(context.Background()), board.ErrNoRecordSource)
}

func TestEngine_UnroutedRecordsLandInUnclassifiedColumn(t *testing.T) {
	h := setupEngine(t, &testutil.FakeUpdater[string]{}, []models.Record[string]{
		record("1", "prospeccion"),
		record("2", "archivada"),
	})

	snap := h.engine.Snapshot()

	require.Len(t, snap.Columns, 4)
	last := snap.Columns[3]
	assert.True(t, last.Stage.ID.IsUnclassified())
	assert.Equal(t, []types.RecordID{"2"}, columnIDs(snap, types.Unclassified))
}

// ============================================================================
// STAGE CHANGES
// ============================================================================

func TestEngine_ExampleScenario_DragConfirmed(t *testing.T) {
	updater := testutil.NewGatedUpdater[string]()
	h := setupEngine(t, updater, []models.Record[string]{
		record("1", "prospeccion"),
		record("2", "negociacion"),
	})

	out := h.engine.RequestStageChange(context.Background(), "1", "negociacion")
	require.True(t, out.Accepted())
	assert.Equal(t, "negociacion", out.Value)
	assert.Equal(t, types.StageID("prospeccion"), out.From)
	assert.NotEmpty(t, out.RequestID)

	// Optimistic: the card moved before the updater answered
	waitStarted(t, updater)
	snap := h.engine.Snapshot()
	assert.Empty(t, columnIDs(snap, "prospeccion"))
	assert.Equal(t, []types.RecordID{"1", "2"}, columnIDs(snap, "negociacion"), "board order is preserved")
	assert.Equal(t, board.CardUpdating, snap.Status("1"))

	updater.Release(nil)
	h.engine.Wait()

	assert.Equal(t, types.StageID("negociacion"), h.stageOf(t, "1"))
	assert.Equal(t, board.CardIdle, h.engine.Snapshot().Status("1"))
	assert.Equal(t, []testutil.UpdateCall{{ID: "1", Value: "negociacion"}}, updater.Calls())
	assert.Equal(t, 0, h.notifier.Count(board.NotifyError))
	assert.Equal(t, 1, h.publisher.Count(events.EventUpdateSucceeded))
}

func TestEngine_SameStageDropIsNoop(t *testing.T) {
	updater := &testutil.FakeUpdater[string]{}
	h := setupEngine(t, updater, []models.Record[string]{record("1", "cerrada_perdida")})
	before := len(h.publisher.Events())

	out := h.engine.RequestStageChange(context.Background(), "1", "cerrada")
	h.engine.Wait()

	assert.Equal(t, board.OutcomeNoOp, out.Kind)
	assert.ErrorIs(t, out.Err, models.ErrSameStage)
	assert.Empty(t, updater.Calls())
	assert.Equal(t, "cerrada_perdida", h.rawValue(t, "1"), "alias value is untouched")
	assert.Len(t, h.publisher.Events(), before)
	assert.Empty(t, h.notifier.All())
}

func TestEngine_FailureRollsBackWithOneNotification(t *testing.T) {
	updater := &testutil.FakeUpdater[string]{Err: errors.New("validation failed")}
	h := setupEngine(t, updater, []models.Record[string]{record("1", "cerrada_perdida")})

	out := h.engine.RequestStageChange(context.Background(), "1", "prospeccion")
	require.True(t, out.Accepted())
	h.engine.Wait()

	assert.Equal(t, "cerrada_perdida", h.rawValue(t, "1"), "exact prior value restored")
	assert.Equal(t, types.StageID("cerrada"), h.stageOf(t, "1"))
	assert.Equal(t, 0, h.engine.InFlight())

	require.Len(t, h.notifier.All(), 1)
	note := h.notifier.All()[0]
	assert.Equal(t, board.NotifyError, note.Kind)
	assert.Contains(t, note.Message, "validation failed")
	assert.Equal(t, 1, h.publisher.Count(events.EventUpdateFailed))
}

func TestEngine_SecondChangeWhileInFlightIsRejected(t *testing.T) {
	updater := testutil.NewGatedUpdater[string]()
	h := setupEngine(t, updater, []models.Record[string]{record("1", "prospeccion")},
		board.WithBusyFlash(2*time.Second))

	first := h.engine.RequestStageChange(context.Background(), "1", "negociacion")
	require.True(t, first.Accepted())
	waitStarted(t, updater)

	second := h.engine.RequestStageChange(context.Background(), "1", "cerrada")

	assert.Equal(t, board.OutcomeBusy, second.Kind)
	assert.ErrorIs(t, second.Err, models.ErrConcurrentUpdateRejected)
	assert.Len(t, updater.Calls(), 1)
	assert.Equal(t, types.StageID("negociacion"), h.stageOf(t, "1"))
	assert.Equal(t, board.CardBusy, h.engine.Snapshot().Status("1"))
	assert.Equal(t, 1, h.publisher.Count(events.EventRecordBusy))

	// The flash fades but the original update is still pending
	h.clock.Advance(3 * time.Second)
	assert.Equal(t, board.CardUpdating, h.engine.Snapshot().Status("1"))

	updater.Release(nil)
	h.engine.Wait()

	assert.Equal(t, types.StageID("negociacion"), h.stageOf(t, "1"))
	assert.Len(t, updater.Calls(), 1)

	// Once resolved the record accepts changes again
	third := h.engine.RequestStageChange(context.Background(), "1", "cerrada")
	assert.True(t, third.Accepted())
	updater.Release(nil)
	h.engine.Wait()
}

func TestEngine_ConcurrentRequestsAcceptExactlyOne(t *testing.T) {
	updater := testutil.NewGatedUpdater[string]()
	h := setupEngine(t, updater, []models.Record[string]{record("1", "prospeccion")})

	var wg sync.WaitGroup
	var mu sync.Mutex
	kinds := map[board.OutcomeKind]int{}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := h.engine.RequestStageChange(context.Background(), "1", "negociacion")
			mu.Lock()
			kinds[out.Kind]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, kinds[board.OutcomeAccepted])
	assert.Equal(t, 19, kinds[board.OutcomeBusy])
	assert.Equal(t, 19, h.publisher.Count(events.EventRecordBusy))

	waitStarted(t, updater)
	updater.Release(nil)
	h.engine.Wait()
	assert.Len(t, updater.Calls(), 1)
}

func TestEngine_DropIntoAliasedStageWritesPrimaryValue(t *testing.T) {
	updater := &testutil.FakeUpdater[string]{}
	h := setupEngine(t, updater, []models.Record[string]{
		record("1", "negociacion"),
		record("2", "cerrada_perdida"),
	})

	// Grouping: the lost deal sits in the closed column
	assert.Equal(t, []types.RecordID{"2"}, columnIDs(h.engine.Snapshot(), "cerrada"))

	out := h.engine.RequestStageChange(context.Background(), "1", "cerrada")
	require.True(t, out.Accepted())
	h.engine.Wait()

	assert.Equal(t, []testutil.UpdateCall{{ID: "1", Value: "cerrada_ganada"}}, updater.Calls())
	assert.Equal(t, "cerrada_ganada", h.rawValue(t, "1"))
}

func TestEngine_TimeoutRollsBackEvenIfUpdaterHangs(t *testing.T) {
	updater := testutil.NewGatedUpdater[string]()
	updater.IgnoreCtx = true
	h := setupEngine(t, updater, []models.Record[string]{record("1", "prospeccion")},
		board.WithTimeout(20*time.Millisecond))

	out := h.engine.RequestStageChange(context.Background(), "1", "negociacion")
	require.True(t, out.Accepted())
	h.engine.Wait()

	assert.Equal(t, "prospeccion", h.rawValue(t, "1"))
	assert.Equal(t, 0, h.engine.InFlight())
	require.Equal(t, 1, h.notifier.Count(board.NotifyError))
	assert.Contains(t, h.notifier.All()[0].Message, models.ErrUpdateTimedOut.Error())

	// A late answer from the stuck call resolves into nothing
	updater.Release(nil)
	assert.Equal(t, "prospeccion", h.rawValue(t, "1"))
	assert.Equal(t, 1, h.notifier.Count(board.NotifyError))

	// The record is movable again
	again := h.engine.RequestStageChange(context.Background(), "1", "cerrada")
	assert.True(t, again.Accepted())
	h.engine.Wait()
	assert.Equal(t, 2, h.notifier.Count(board.NotifyError))
	updater.Release(nil)
}

func TestEngine_ConfirmedRecordIsReconciled(t *testing.T) {
	updater := &testutil.FakeUpdater[string]{
		Confirm: func(id types.RecordID, value string) *models.Record[string] {
			return &models.Record[string]{ID: id, StageValue: value, Payload: "stamped by server"}
		},
	}
	h := setupEngine(t, updater, []models.Record[string]{record("1", "prospeccion")})

	h.engine.RequestStageChange(context.Background(), "1", "negociacion")
	h.engine.Wait()

	got, ok := h.engine.Record("1")
	require.True(t, ok)
	assert.Equal(t, "stamped by server", got.Payload)
	assert.Equal(t, "negociacion", got.StageValue)
}

func TestEngine_SuccessNotificationIsOptIn(t *testing.T) {
	updater := &testutil.FakeUpdater[string]{}
	h := setupEngine(t, updater, []models.Record[string]{record("1", "prospeccion")},
		board.WithNotifyOnSuccess(true))

	h.engine.RequestStageChange(context.Background(), "1", "negociacion")
	h.engine.Wait()

	require.Equal(t, 1, h.notifier.Count(board.NotifySuccess))
	assert.Contains(t, h.notifier.All()[0].Message, "Negociación")
}

func TestEngine_RejectsMissingRecordAndUnknownStage(t *testing.T) {
	updater := &testutil.FakeUpdater[string]{}
	h := setupEngine(t, updater, []models.Record[string]{record("1", "prospeccion")})

	missing := h.engine.RequestStageChange(context.Background(), "ghost", "negociacion")
	assert.Equal(t, board.OutcomeMissing, missing.Kind)
	assert.ErrorIs(t, missing.Err, models.ErrMissingRecord)

	unknown := h.engine.RequestStageChange(context.Background(), "1", "perdida")
	assert.Equal(t, board.OutcomeInvalidTarget, unknown.Kind)
	assert.ErrorIs(t, unknown.Err, models.ErrUnknownStage)

	unclassified := h.engine.RequestStageChange(context.Background(), "1", types.Unclassified)
	assert.Equal(t, board.OutcomeInvalidTarget, unclassified.Kind)

	h.engine.Wait()
	assert.Empty(t, updater.Calls())
	assert.Empty(t, h.notifier.All())
}

func TestEngine_UnclassifiedRecordCanBeMovedOut(t *testing.T) {
	updater := &testutil.FakeUpdater[string]{}
	h := setupEngine(t, updater, []models.Record[string]{record("1", "legacy")})

	out := h.engine.RequestStageChange(context.Background(), "1", "prospeccion")
	require.True(t, out.Accepted())
	assert.True(t, out.From.IsUnclassified())
	h.engine.Wait()

	assert.Equal(t, types.StageID("prospeccion"), h.stageOf(t, "1"))
}

func TestEngine_RefreshDuringFlightKeepsOptimisticValue(t *testing.T) {
	updater := testutil.NewGatedUpdater[string]()
	h := setupEngine(t, updater, []models.Record[string]{record("1", "prospeccion")})

	h.engine.RequestStageChange(context.Background(), "1", "negociacion")
	waitStarted(t, updater)

	require.NoError(t, h.engine.Refresh(context.Background()))
	assert.Equal(t, types.StageID("negociacion"), h.stageOf(t, "1"))

	updater.Release(errors.New("conflict"))
	h.engine.Wait()
	assert.Equal(t, "prospeccion", h.rawValue(t, "1"))
}

func TestEngine_RemoveDuringFlightDiscardsResult(t *testing.T) {
	updater := testutil.NewGatedUpdater[string]()
	h := setupEngine(t, updater, []models.Record[string]{record("1", "prospeccion"), record("2", "prospeccion")})

	h.engine.RequestStageChange(context.Background(), "1", "negociacion")
	waitStarted(t, updater)
	h.engine.Remove("1")

	updater.Release(errors.New("gone"))
	h.engine.Wait()

	_, ok := h.engine.Record("1")
	assert.False(t, ok)
	assert.Empty(t, h.notifier.All())
	assert.Equal(t, 0, h.engine.InFlight())
}

func TestEngine_PatchUpsertsRecords(t *testing.T) {
	h := setupEngine(t, &testutil.FakeUpdater[string]{}, []models.Record[string]{record("1", "prospeccion")})

	h.engine.Patch(record("1", "negociacion"), record("2", "cerrada_perdida"))

	assert.Equal(t, types.StageID("negociacion"), h.stageOf(t, "1"))
	assert.Equal(t, types.StageID("cerrada"), h.stageOf(t, "2"))
}

func TestEngine_CloseRollsBackInFlightChanges(t *testing.T) {
	updater := testutil.NewGatedUpdater[string]()
	h := setupEngine(t, updater, []models.Record[string]{record("1", "prospeccion")})

	h.engine.RequestStageChange(context.Background(), "1", "negociacion")
	waitStarted(t, updater)

	require.NoError(t, h.engine.Close())

	assert.Equal(t, "prospeccion", h.rawValue(t, "1"))
	assert.Equal(t, 0, h.engine.InFlight())
}

func TestEngine_RequestContextCancelDoesNotAbortUpdate(t *testing.T) {
	updater := testutil.NewGatedUpdater[string]()
	h := setupEngine(t, updater, []models.Record[string]{record("1", "prospeccion")})

	ctx, cancel := context.WithCancel(context.Background())
	h.engine.RequestStageChange(ctx, "1", "negociacion")
	waitStarted(t, updater)
	cancel()

	updater.Release(nil)
	h.engine.Wait()
	assert.Equal(t, "negociacion", h.rawValue(t, "1"))
}

func TestEngine_RepeatedTargetWhileInFlightIsBusy(t *testing.T) {
	updater := testutil.NewGatedUpdater[string]()
	h := setupEngine(t, updater, []models.Record[string]{record("1", "negociacion")})

	first := h.engine.RequestStageChange(context.Background(), "1", "cerrada")
	require.True(t, first.Accepted())

	second := h.engine.RequestStageChange(context.Background(), "1", "cerrada")
	assert.Equal(t, board.OutcomeBusy, second.Kind)
	assert.ErrorIs(t, second.Err, models.ErrConcurrentUpdateRejected)
	assert.Equal(t, 1, h.publisher.Count(events.EventRecordBusy))
	assert.Equal(t, board.CardBusy, h.engine.Snapshot().Status("1"))

	waitStarted(t, updater)
	updater.Release(nil)
	h.engine.Wait()
	assert.Len(t, updater.Calls(), 1)
}

func TestEngine_RequestAfterCloseIsRejected(t *testing.T) {
	updater := &testutil.FakeUpdater[string]{}
	h := setupEngine(t, updater, []models.Record[string]{record("1", "prospeccion")})

	require.NoError(t, h.engine.Close())
	require.NoError(t, h.engine.Close())

	out := h.engine.RequestStageChange(context.Background(), "1", "negociacion")

	assert.Equal(t, board.OutcomeClosed, out.Kind)
	assert.ErrorIs(t, out.Err, board.ErrEngineClosed)
	assert.Empty(t, updater.Calls())
	assert.Equal(t, types.StageID("prospeccion"), h.stageOf(t, "1"))
}

// blockingSource holds FetchRecords until released and reports whether
// the fetch context was cancelled
type blockingSource struct {
	entered chan struct{}
	release chan struct{}
}

func (s *blockingSource) FetchRecords(ctx context.Context) ([]models.Record[string], error) {
	s.entered <- struct{}{}
	<-s.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []models.Record[string]{record("1", "prospeccion")}, nil
}

func TestEngine_SharedLoadSurvivesFirstCallerCancel(t *testing.T) {
	reg, err := board.NewRegistry([]models.Stage{
		{ID: "prospeccion", MemberValues: []string{"prospeccion"}},
	})
	require.NoError(t, err)

	source := &blockingSource{entered: make(chan struct{}, 1), release: make(chan struct{})}
	engine := board.New[string]("oportunidades", reg, source, &testutil.FakeUpdater[string]{})
	t.Cleanup(func() { _ = engine.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() { firstErr <- engine.Load(ctx) }()
	<-source.entered

	secondErr := make(chan error, 1)
	go func() { secondErr <- engine.Refresh(context.Background()) }()

	cancel()
	close(source.release)

	require.NoError(t, <-firstErr)
	require.NoError(t, <-secondErr)
	_, ok := engine.Record("1")
	assert.True(t, ok)
}
