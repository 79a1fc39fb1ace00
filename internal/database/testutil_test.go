package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/types"
)

// ============================================================================
// DATABASE SETUP HELPERS
// ============================================================================

// setupTestDB creates an in-memory database and runs migrations
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(context.Background(), MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// createTestRecord inserts a record and fails the test on error
func createTestRecord(t *testing.T, repo *Repository, id, pipeline, stage, title string) *models.CardRecord {
	t.Helper()
	rec, err := repo.CreateRecord(context.Background(), &models.CardRecord{
		ID:         types.RecordID(id),
		StageValue: stage,
		Payload: models.Card{
			Pipeline: types.PipelineID(pipeline),
			Title:    title,
		},
	})
	require.NoError(t, err)
	return rec
}
