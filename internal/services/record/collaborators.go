package record

import (
	"context"

	"github.com/thenoetrevino/embudo/internal/board"
	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/types"
)

var (
	_ board.RecordSource[models.Card] = (*Collaborators)(nil)
	_ board.StageUpdater[models.Card] = (*Collaborators)(nil)
)

// Collaborators is the record service seen from one pipeline board: it
// lists the board's records and persists its stage changes.
type Collaborators struct {
	svc      *service
	pipeline types.PipelineID
}

// Pipeline returns the bound pipeline
func (c *Collaborators) Pipeline() types.PipelineID {
	return c.pipeline
}

// FetchRecords lists the pipeline's records
func (c *Collaborators) FetchRecords(ctx context.Context) ([]models.CardRecord, error) {
	return c.svc.ListRecords(ctx, c.pipeline)
}

// UpdateStage persists value and returns the stored record
func (c *Collaborators) UpdateStage(ctx context.Context, id types.RecordID, value string) (*models.CardRecord, error) {
	return c.svc.UpdateStage(ctx, id, value)
}
