package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventTypes(t *testing.T) {
	tests := []struct {
		eventType EventType
		expected  string
	}{
		{EventBoardChanged, "board_changed"},
		{EventRecordBusy, "record_busy"},
		{EventUpdateSucceeded, "update_succeeded"},
		{EventUpdateFailed, "update_failed"},
		{EventOpenDetail, "open_detail"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, string(tt.eventType))
	}
}
