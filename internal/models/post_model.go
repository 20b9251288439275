package models

import (
	"time"

	"github.com/lib/pq"
)

type Post struct {
	ID            int64          `db:"id" json:"id"`
	CarouselID    string         `db:"carousel_id" json:"carousel_id"`
	PostType      string         `db:"post_type" json:"post_type"`
	Caption       string         `db:"caption" json:"caption"`
	Hashtags      pq.StringArray `db:"hashtags" json:"hashtags"`
	MediaURLs     pq.StringArray `db:"media_urls" json:"media_urls"`
	Platforms     pq.StringArray `db:"platforms" json:"platforms"`
	ScheduledTime time.Time      `db:"scheduled_time" json:"scheduled_time"`
	Status        string         `db:"status" json:"status"` // posted, scheduled, failed, draft
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

const (
	PostStatusScheduled = "scheduled"
	PostStatusPosted    = "posted"
	PostStatusFailed    = "failed"
	PostStatusDraft     = "draft"
)
