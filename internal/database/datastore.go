package database

// DataStore defines the unified interface for all data operations needed by
// the services. Consumers can depend on the smaller interfaces (RecordReader,
// StageMover, ...) for clearer dependencies.
type DataStore interface {
	RecordRepository
}

var _ DataStore = (*Repository)(nil)
