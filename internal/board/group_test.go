package board

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/types"
)

func rec(id, value string) models.Record[string] {
	return models.Record[string]{ID: types.RecordID(id), StageValue: value, Payload: "card " + id}
}

func ids(records []models.Record[string]) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, string(r.ID))
	}
	return out
}

// TestGroup_ExampleScenario is the two-record board with an empty closing column
func TestGroup_ExampleScenario(t *testing.T) {
	reg := newSalesRegistry(t)
	records := []models.Record[string]{rec("1", "prospeccion"), rec("2", "negociacion")}

	buckets := Group(records, reg)

	require.Len(t, buckets, 3)
	assert.Equal(t, []string{"1"}, ids(buckets["prospeccion"]))
	assert.Equal(t, []string{"2"}, ids(buckets["negociacion"]))
	assert.NotNil(t, buckets["cerrada"], "empty stages still get a bucket")
	assert.Empty(t, buckets["cerrada"])
}

func TestGroup_CompletenessAndNoDuplication(t *testing.T) {
	reg := newSalesRegistry(t)
	values := []string{"prospeccion", "negociacion", "cerrada_ganada", "cerrada_perdida", "legacy", ""}

	var records []models.Record[string]
	for i := 0; i < 60; i++ {
		records = append(records, rec(fmt.Sprintf("r%02d", i), values[i%len(values)]))
	}

	buckets := Group(records, reg)

	// One bucket per configured stage plus the unclassified one
	for _, s := range reg.Stages() {
		_, ok := buckets[s.ID]
		assert.True(t, ok, "missing bucket for %s", s.ID)
	}
	assert.Len(t, buckets, reg.Len()+1)

	seen := map[types.RecordID]int{}
	total := 0
	for _, bucket := range buckets {
		for _, r := range bucket {
			seen[r.ID]++
			total++
		}
	}
	assert.Equal(t, len(records), total)
	for _, r := range records {
		assert.Equal(t, 1, seen[r.ID], "record %s should appear exactly once", r.ID)
	}
}

func TestGroup_StablePartition(t *testing.T) {
	reg := newSalesRegistry(t)
	records := []models.Record[string]{
		rec("c", "cerrada_perdida"),
		rec("a", "prospeccion"),
		rec("d", "cerrada_ganada"),
		rec("b", "prospeccion"),
		rec("e", "cerrada_perdida"),
	}

	first := Group(records, reg)
	second := Group(records, reg)

	assert.Equal(t, []string{"a", "b"}, ids(first["prospeccion"]))
	assert.Equal(t, []string{"c", "d", "e"}, ids(first["cerrada"]))
	assert.Equal(t, first, second)
}

func TestGroup_UnroutedRecordsAreNeverDropped(t *testing.T) {
	reg := newSalesRegistry(t)
	records := []models.Record[string]{rec("1", "prospeccion"), rec("2", "archivada")}

	buckets := Group(records, reg)

	assert.Equal(t, []string{"2"}, ids(buckets[types.Unclassified]))
	assert.Equal(t, []string{"2"}, ids(Unrouted(records, reg)))
}

func TestGroup_NoUnclassifiedBucketWhenEverythingRoutes(t *testing.T) {
	reg := newSalesRegistry(t)

	buckets := Group([]models.Record[string]{rec("1", "prospeccion")}, reg)

	_, ok := buckets[types.Unclassified]
	assert.False(t, ok)
}

func TestGroup_EmptyInput(t *testing.T) {
	reg := newSalesRegistry(t)

	buckets := Group[string](nil, reg)

	assert.Len(t, buckets, 3)
	for id, bucket := range buckets {
		assert.Empty(t, bucket, "bucket %s", id)
	}
}

func TestColumns_Order(t *testing.T) {
	reg := newSalesRegistry(t)
	records := []models.Record[string]{rec("1", "cerrada_ganada"), rec("2", "???")}

	columns := Columns(records, reg)

	require.Len(t, columns, 4)
	assert.Equal(t, types.StageID("prospeccion"), columns[0].Stage.ID)
	assert.Empty(t, columns[0].Records)
	assert.Equal(t, types.StageID("cerrada"), columns[2].Stage.ID)
	assert.Equal(t, []string{"1"}, ids(columns[2].Records))
	assert.True(t, columns[3].Stage.ID.IsUnclassified())
	assert.Equal(t, []string{"2"}, ids(columns[3].Records))
}
