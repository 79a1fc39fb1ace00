package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/thenoetrevino/embudo/internal/board"
	"github.com/thenoetrevino/embudo/internal/models"
)

// RecordView is the JSON shape of a record
type RecordView struct {
	ID         string    `json:"id"`
	Pipeline   string    `json:"pipeline"`
	Stage      string    `json:"stage"`
	StageLabel string    `json:"stage_label"`
	StageValue string    `json:"stage_value"`
	Title      string    `json:"title"`
	Company    string    `json:"company,omitempty"`
	Owner      string    `json:"owner,omitempty"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GetID implements IDGetter
func (v RecordView) GetID() string {
	return v.ID
}

// ColumnView is the JSON shape of a board column
type ColumnView struct {
	Stage   string       `json:"stage"`
	Label   string       `json:"label"`
	Records []RecordView `json:"records"`
}

// NewRecordView resolves a record's stage through reg
func NewRecordView(rec models.CardRecord, reg *board.Registry) RecordView {
	stage := reg.Resolve(rec.StageValue)
	return RecordView{
		ID:         string(rec.ID),
		Pipeline:   string(rec.Payload.Pipeline),
		Stage:      string(stage.ID),
		StageLabel: stage.Label,
		StageValue: rec.StageValue,
		Title:      rec.Payload.Title,
		Company:    rec.Payload.Company,
		Owner:      rec.Payload.Owner,
		Amount:     rec.Payload.Amount,
		Currency:   rec.Payload.Currency,
		Notes:      rec.Payload.Notes,
		CreatedAt:  rec.Payload.CreatedAt,
		UpdatedAt:  rec.Payload.UpdatedAt,
	}
}

// NewColumnViews groups records into board columns
func NewColumnViews(records []models.CardRecord, reg *board.Registry) []ColumnView {
	columns := board.Columns(records, reg)
	views := make([]ColumnView, 0, len(columns))
	for _, col := range columns {
		cv := ColumnView{
			Stage:   string(col.Stage.ID),
			Label:   col.Stage.Label,
			Records: make([]RecordView, 0, len(col.Records)),
		}
		for _, rec := range col.Records {
			cv.Records = append(cv.Records, NewRecordView(rec, reg))
		}
		views = append(views, cv)
	}
	return views
}

// FormatAmount renders an amount with its currency, e.g. "USD 12,500.00"
func FormatAmount(amount float64, currency string) string {
	if currency == "" {
		currency = models.DefaultCurrency
	}
	return fmt.Sprintf("%s %s", currency, humanize.FormatFloat("#,###.##", amount))
}
