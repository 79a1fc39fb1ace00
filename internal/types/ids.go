package types

// ID types give semantic meaning to the strings that flow through the board.
// Records and stages are keyed by strings owned by the external data layer,
// so the engine never assumes a numeric shape.

// RecordID identifies a unique business record (opportunity, risk analysis, ...)
type RecordID string

// StageID identifies a stage-column within a pipeline
type StageID string

// PipelineID identifies a configured pipeline board (e.g. "oportunidades")
type PipelineID string

// Unclassified is the sentinel stage for records whose raw stage value
// matches no configured stage.
const Unclassified StageID = "__unclassified__"

func (id RecordID) String() string {
	return string(id)
}

func (id StageID) String() string {
	return string(id)
}

func (id PipelineID) String() string {
	return string(id)
}

// IsUnclassified reports whether the stage is the unclassified sentinel
func (id StageID) IsUnclassified() bool {
	return id == Unclassified
}
