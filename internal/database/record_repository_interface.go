package database

import (
	"context"

	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/types"
)

// RecordReader defines read operations for board records.
type RecordReader interface {
	GetRecord(ctx context.Context, id types.RecordID) (*models.CardRecord, error)
	GetRecordsByPipeline(ctx context.Context, pipeline types.PipelineID) ([]*models.CardRecord, error)
	CountRecords(ctx context.Context, pipeline types.PipelineID) (int, error)
}

// RecordWriter defines write operations for board records.
type RecordWriter interface {
	CreateRecord(ctx context.Context, rec *models.CardRecord) (*models.CardRecord, error)
	DeleteRecord(ctx context.Context, id types.RecordID) error
}

// StageMover persists stage changes together with their history entry.
type StageMover interface {
	UpdateRecordStage(ctx context.Context, id types.RecordID, value string) (*models.CardRecord, error)
}

// HistoryReader defines read operations for the stage history ledger.
type HistoryReader interface {
	GetStageHistory(ctx context.Context, id types.RecordID) ([]*models.StageChange, error)
}

// RecordRepository combines every record operation.
type RecordRepository interface {
	RecordReader
	RecordWriter
	StageMover
	HistoryReader
}
