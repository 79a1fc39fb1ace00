package record

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/thenoetrevino/embudo/internal/board"
	"github.com/thenoetrevino/embudo/internal/database"
	"github.com/thenoetrevino/embudo/internal/events"
	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/types"
)

// Service defines all record-related business operations
type Service interface {
	// Read operations
	ListRecords(ctx context.Context, pipeline types.PipelineID) ([]models.CardRecord, error)
	GetRecord(ctx context.Context, id types.RecordID) (*models.CardRecord, error)
	CountRecords(ctx context.Context, pipeline types.PipelineID) (int, error)
	History(ctx context.Context, id types.RecordID) ([]*models.StageChange, error)

	// Write operations
	CreateRecord(ctx context.Context, req CreateRecordRequest) (*models.CardRecord, error)
	UpdateStage(ctx context.Context, id types.RecordID, value string) (*models.CardRecord, error)
	DeleteRecord(ctx context.Context, id types.RecordID) error

	// Collaborators returns the board engine's source and updater for one pipeline
	Collaborators(pipeline types.PipelineID) (*Collaborators, error)
}

// RegistryProvider resolves the stage registry of a pipeline
type RegistryProvider interface {
	Registry(pipeline types.PipelineID) (*board.Registry, error)
}

// Registries is a fixed RegistryProvider
type Registries map[types.PipelineID]*board.Registry

// Registry returns the registry for pipeline or ErrUnknownPipeline
func (r Registries) Registry(pipeline types.PipelineID) (*board.Registry, error) {
	reg, ok := r[pipeline]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPipeline, pipeline)
	}
	return reg, nil
}

// CreateRecordRequest encapsulates all data needed to create a record
type CreateRecordRequest struct {
	Pipeline   types.PipelineID
	Title      string
	StageValue string // Optional: empty means the first stage's primary value
	Company    string
	Owner      string
	Amount     float64
	Currency   string // Optional: empty means models.DefaultCurrency
	Notes      string
}

// service implements Service interface
type service struct {
	repo        database.DataStore
	registries  RegistryProvider
	eventClient events.Publisher
}

// NewService creates a new record service
func NewService(repo database.DataStore, registries RegistryProvider, eventClient events.Publisher) Service {
	return &service{
		repo:        repo,
		registries:  registries,
		eventClient: eventClient,
	}
}

// ListRecords returns a pipeline's records in board order
func (s *service) ListRecords(ctx context.Context, pipeline types.PipelineID) ([]models.CardRecord, error) {
	if _, err := s.registries.Registry(pipeline); err != nil {
		return nil, err
	}

	rows, err := s.repo.GetRecordsByPipeline(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	records := make([]models.CardRecord, 0, len(rows))
	for _, rec := range rows {
		records = append(records, *rec)
	}
	return records, nil
}

// CountRecords returns how many records a pipeline holds
func (s *service) CountRecords(ctx context.Context, pipeline types.PipelineID) (int, error) {
	if _, err := s.registries.Registry(pipeline); err != nil {
		return 0, err
	}
	return s.repo.CountRecords(ctx, pipeline)
}

// GetRecord retrieves one record
func (s *service) GetRecord(ctx context.Context, id types.RecordID) (*models.CardRecord, error) {
	if strings.TrimSpace(string(id)) == "" {
		return nil, ErrInvalidRecordID
	}

	rec, err := s.repo.GetRecord(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return rec, nil
}

// History returns a record's stage changes, oldest first
func (s *service) History(ctx context.Context, id types.RecordID) ([]*models.StageChange, error) {
	if _, err := s.GetRecord(ctx, id); err != nil {
		return nil, err
	}

	history, err := s.repo.GetStageHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return history, nil
}

// CreateRecord validates and stores a new record with a generated id
func (s *service) CreateRecord(ctx context.Context, req CreateRecordRequest) (*models.CardRecord, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validateCreateRecord(req); err != nil {
		return nil, err
	}

	reg, err := s.registries.Registry(req.Pipeline)
	if err != nil {
		return nil, err
	}

	value := req.StageValue
	if value == "" {
		value, _ = reg.Primary(reg.Stages()[0].ID)
	} else if reg.Resolve(value).ID.IsUnclassified() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStageValue, value)
	}

	rec, err := s.repo.CreateRecord(ctx, &models.CardRecord{
		ID:         types.RecordID(uuid.NewString()),
		StageValue: value,
		Payload: models.Card{
			Pipeline: req.Pipeline,
			Title:    req.Title,
			Company:  req.Company,
			Owner:    req.Owner,
			Amount:   req.Amount,
			Currency: req.Currency,
			Notes:    req.Notes,
			Position: models.DefaultRecordPosition,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	slog.Info("record created", "record_id", rec.ID, "pipeline", req.Pipeline, "stage", value)
	s.publishBoardEvent(req.Pipeline, rec.ID)
	return rec, nil
}

// UpdateStage persists a raw stage value. Values outside the record's
// pipeline are rejected as a business rule.
func (s *service) UpdateStage(ctx context.Context, id types.RecordID, value string) (*models.CardRecord, error) {
	current, err := s.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	reg, err := s.registries.Registry(current.Payload.Pipeline)
	if err != nil {
		return nil, err
	}
	if reg.Resolve(value).ID.IsUnclassified() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStageValue, value)
	}

	rec, err := s.repo.UpdateRecordStage(ctx, id, value)
	if err != nil {
		return nil, mapNotFound(err)
	}

	slog.Debug("record stage persisted", "record_id", id, "from", current.StageValue, "to", value)
	return rec, nil
}

// DeleteRecord removes a record and its history
func (s *service) DeleteRecord(ctx context.Context, id types.RecordID) error {
	current, err := s.GetRecord(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteRecord(ctx, id); err != nil {
		return mapNotFound(err)
	}

	s.publishBoardEvent(current.Payload.Pipeline, id)
	return nil
}

// Collaborators binds the service to one pipeline for the board engine
func (s *service) Collaborators(pipeline types.PipelineID) (*Collaborators, error) {
	if _, err := s.registries.Registry(pipeline); err != nil {
		return nil, err
	}
	return &Collaborators{svc: s, pipeline: pipeline}, nil
}

func (s *service) validateCreateRecord(req CreateRecordRequest) error {
	if req.Title == "" {
		return ErrEmptyTitle
	}
	if len(req.Title) > 255 {
		return ErrTitleTooLong
	}
	if req.Amount < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// publishBoardEvent publishes a board change if an event client exists
func (s *service) publishBoardEvent(pipeline types.PipelineID, id types.RecordID) {
	if s.eventClient == nil {
		return
	}
	if err := events.PublishWithRetry(s.eventClient, events.Event{
		Type:     events.EventBoardChanged,
		Pipeline: pipeline,
		RecordID: id,
	}, 3); err != nil {
		slog.Warn("failed to publish board change", "pipeline", pipeline, "record_id", id, "error", err)
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrRecordNotFound, err)
	}
	return err
}
