package models

import (
	"time"

	"github.com/thenoetrevino/embudo/internal/types"
)

// Card is the CRM payload stored for every record on a board
type Card struct {
	Pipeline  types.PipelineID
	Title     string
	Company   string
	Owner     string
	Amount    float64
	Currency  string
	Notes     string // Markdown, rendered in the detail view
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CardRecord is a board record carrying a CRM card
type CardRecord = Record[Card]

// StageChange is one entry of a record's stage history ledger
type StageChange struct {
	ID        int
	RecordID  types.RecordID
	FromValue string
	ToValue   string
	ChangedAt time.Time
}
