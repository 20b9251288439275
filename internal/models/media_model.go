package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	AspectSquare    = "square"
	AspectPortrait  = "portrait"
	AspectLandscape = "landscape"
)

// MediaItem is a curated asset produced by the upstream ingest pipeline.
// Records are immutable once curated; this service only reads them.
type MediaItem struct {
	ID           string         `db:"id" json:"id"`
	ProjectID    string         `db:"project_id" json:"project_id"`
	Path         string         `db:"path" json:"path"`
	CuratedScore float64        `db:"curated_score" json:"curated_score"`
	Aspect       string         `db:"aspect" json:"aspect"`
	Tags         pq.StringArray `db:"tags" json:"tags"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}
