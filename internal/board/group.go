package board

import (
	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/types"
)

// Group partitions records into per-stage buckets in a single pass.
//
// Every configured stage gets a bucket, empty ones included. Records keep
// their input order inside a bucket. Records whose raw value matches no
// stage land in the types.Unclassified bucket, which is only present when
// it is non-empty.
func Group[P any](records []models.Record[P], reg *Registry) map[types.StageID][]models.Record[P] {
	buckets := make(map[types.StageID][]models.Record[P], reg.Len()+1)
	for _, s := range reg.stages {
		buckets[s.ID] = []models.Record[P]{}
	}

	for _, rec := range records {
		id := reg.ResolveID(rec.StageValue)
		buckets[id] = append(buckets[id], rec)
	}

	return buckets
}

// Columns returns the grouping as an ordered board: configured stages in
// registry order followed by the unclassified column when it has records.
func Columns[P any](records []models.Record[P], reg *Registry) []models.Column[P] {
	buckets := Group(records, reg)

	columns := make([]models.Column[P], 0, reg.Len()+1)
	for _, s := range reg.Stages() {
		columns = append(columns, models.Column[P]{Stage: s, Records: buckets[s.ID]})
	}

	if unrouted := buckets[types.Unclassified]; len(unrouted) > 0 {
		columns = append(columns, models.Column[P]{Stage: UnclassifiedStage(), Records: unrouted})
	}

	return columns
}

// Unrouted returns the records whose raw stage value matches no stage
func Unrouted[P any](records []models.Record[P], reg *Registry) []models.Record[P] {
	var out []models.Record[P]
	for _, rec := range records {
		if reg.ResolveID(rec.StageValue).IsUnclassified() {
			out = append(out, rec)
		}
	}
	return out
}
