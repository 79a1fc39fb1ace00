package record

import (
	"errors"

	"github.com/thenoetrevino/embudo/internal/models"
)

// Record-related errors
var (
	// Validation errors
	ErrEmptyTitle        = errors.New("record title cannot be empty")
	ErrTitleTooLong      = errors.New("record title cannot exceed 255 characters")
	ErrInvalidRecordID   = errors.New("invalid record ID")
	ErrNegativeAmount    = errors.New("amount cannot be negative")
	ErrUnknownPipeline   = models.ErrUnknownPipeline
	ErrInvalidStageValue = errors.New("stage value is not valid for this pipeline")

	// Business logic errors
	ErrRecordNotFound = errors.New("record not found")
)
