package drag

import "errors"

var (
	// ErrDragInProgress indicates a new gesture started while another is active
	ErrDragInProgress = errors.New("a drag is already in progress")

	// ErrNotDragging indicates a drag end for a record that is not being dragged
	ErrNotDragging = errors.New("record is not being dragged")
)
