package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/types"
)

// RecordRepo handles all record-related database operations.
type RecordRepo struct {
	db *sql.DB
}

const recordColumns = `id, pipeline, stage_value, position, title, company, owner,
	amount, currency, notes, created_at, updated_at`

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.CardRecord, error) {
	var (
		rec       models.CardRecord
		id        string
		pipeline  string
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)
	err := s.Scan(&id, &pipeline, &rec.StageValue, &rec.Payload.Position,
		&rec.Payload.Title, &rec.Payload.Company, &rec.Payload.Owner,
		&rec.Payload.Amount, &rec.Payload.Currency, &rec.Payload.Notes,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	rec.ID = types.RecordID(id)
	rec.Payload.Pipeline = types.PipelineID(pipeline)
	rec.Payload.CreatedAt = createdAt.Time
	rec.Payload.UpdatedAt = updatedAt.Time
	return &rec, nil
}

// ============================================================================
// CRUD OPERATIONS
// ============================================================================

// CreateRecord inserts a record at the end of its pipeline. Position, when
// left at the default, is assigned as one past the current last card.
func (r *RecordRepo) CreateRecord(ctx context.Context, rec *models.CardRecord) (*models.CardRecord, error) {
	now := time.Now().UTC()
	var created *models.CardRecord

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		position := rec.Payload.Position
		if position == 0 || position == models.DefaultRecordPosition {
			err := tx.QueryRowContext(ctx,
				`SELECT COALESCE(MAX(position), -1) + 1 FROM records WHERE pipeline = ?`,
				string(rec.Payload.Pipeline),
			).Scan(&position)
			if err != nil {
				return fmt.Errorf("failed to compute position for pipeline %s: %w", rec.Payload.Pipeline, err)
			}
		}

		currency := rec.Payload.Currency
		if currency == "" {
			currency = models.DefaultCurrency
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO records (id, pipeline, stage_value, position, title, company, owner,
				amount, currency, notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			string(rec.ID), string(rec.Payload.Pipeline), rec.StageValue, position,
			rec.Payload.Title, rec.Payload.Company, rec.Payload.Owner,
			rec.Payload.Amount, currency, rec.Payload.Notes, now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert record '%s': %w", rec.Payload.Title, err)
		}

		created, err = getRecord(ctx, tx, rec.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetRecord retrieves a record by its ID
func (r *RecordRepo) GetRecord(ctx context.Context, id types.RecordID) (*models.CardRecord, error) {
	return getRecord(ctx, r.db, id)
}

func getRecord(ctx context.Context, q queryer, id types.RecordID) (*models.CardRecord, error) {
	rec, err := scanRecord(q.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE id = ?`, string(id)))
	if err != nil {
		return nil, notFound(err, "failed to get record %s", id)
	}
	return rec, nil
}

// GetRecordsByPipeline retrieves every record of a pipeline in board order
func (r *RecordRepo) GetRecordsByPipeline(ctx context.Context, pipeline types.PipelineID) ([]*models.CardRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE pipeline = ? ORDER BY position, created_at, id`,
		string(pipeline))
	if err != nil {
		return nil, fmt.Errorf("failed to query records for pipeline %s: %w", pipeline, err)
	}
	defer closeRows(rows)

	records := make([]*models.CardRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return records, nil
}

// CountRecords returns the number of records in a pipeline
func (r *RecordRepo) CountRecords(ctx context.Context, pipeline types.PipelineID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE pipeline = ?`, string(pipeline),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count records for pipeline %s: %w", pipeline, err)
	}
	return count, nil
}

// DeleteRecord removes a record and, by cascade, its stage history
func (r *RecordRepo) DeleteRecord(ctx context.Context, id types.RecordID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete record %s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for record %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("failed to delete record %s: %w", id, ErrNotFound)
	}
	return nil
}

// ============================================================================
// STAGE CHANGES
// ============================================================================

// UpdateRecordStage writes a new raw stage value and appends the change to
// the history ledger in one transaction. Writing the value a record already
// holds succeeds without a history entry.
func (r *RecordRepo) UpdateRecordStage(ctx context.Context, id types.RecordID, value string) (*models.CardRecord, error) {
	now := time.Now().UTC()
	var updated *models.CardRecord

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var prior string
		err := tx.QueryRowContext(ctx,
			`SELECT stage_value FROM records WHERE id = ?`, string(id),
		).Scan(&prior)
		if err != nil {
			return notFound(err, "failed to get stage of record %s", id)
		}

		if prior != value {
			_, err = tx.ExecContext(ctx,
				`UPDATE records SET stage_value = ?, updated_at = ? WHERE id = ?`,
				value, now, string(id))
			if err != nil {
				return fmt.Errorf("failed to update stage of record %s: %w", id, err)
			}

			_, err = tx.ExecContext(ctx,
				`INSERT INTO stage_history (record_id, from_value, to_value, changed_at) VALUES (?, ?, ?, ?)`,
				string(id), prior, value, now)
			if err != nil {
				return fmt.Errorf("failed to record stage history for %s: %w", id, err)
			}
		}

		updated, err = getRecord(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetStageHistory returns a record's stage changes, oldest first
func (r *RecordRepo) GetStageHistory(ctx context.Context, id types.RecordID) ([]*models.StageChange, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, record_id, from_value, to_value, changed_at
		FROM stage_history WHERE record_id = ? ORDER BY id`, string(id))
	if err != nil {
		return nil, fmt.Errorf("failed to query stage history for %s: %w", id, err)
	}
	defer closeRows(rows)

	history := make([]*models.StageChange, 0)
	for rows.Next() {
		var (
			change    models.StageChange
			recordID  string
			changedAt sql.NullTime
		)
		if err := rows.Scan(&change.ID, &recordID, &change.FromValue, &change.ToValue, &changedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stage change: %w", err)
		}
		change.RecordID = types.RecordID(recordID)
		change.ChangedAt = changedAt.Time
		history = append(history, &change)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stage history: %w", err)
	}
	return history, nil
}
