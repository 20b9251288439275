package models

import "time"

// PlatformConstraints describes what a platform accepts in a single
// multi-image post.
type PlatformConstraints struct {
	MaxAssets         int  `json:"max_assets"`
	MinAssets         int  `json:"min_assets"`
	SupportsCarousel  bool `json:"supports_carousel"`
	PrefersSameAspect bool `json:"prefers_same_aspect"`
}

// CarouselPlan is an ordered grouping of curated media forming one
// swipeable post. Plans are rebuilt from the media pool on every
// planning run and are not persisted; the ID is a content hash so the
// same media always yields the same plan id.
type CarouselPlan struct {
	ID        string   `json:"id"`
	ProjectID string   `json:"project_id"`
	MediaIDs  []string `json:"media_ids"`
	CoverID   string   `json:"cover_id"`
	Aspect    string   `json:"aspect"`
}

// CarouselUsage records one commitment of a carousel to a platform.
type CarouselUsage struct {
	ID         int64     `db:"id" json:"id"`
	CarouselID string    `db:"carousel_id" json:"carousel_id"`
	Theme      string    `db:"theme" json:"theme"`
	Platform   string    `db:"platform" json:"platform"`
	UsedAt     time.Time `db:"used_at" json:"used_at"`
	UsageCount int       `db:"usage_count" json:"usage_count"`
	LastUsed   time.Time `db:"last_used" json:"last_used"`
}

// CarouselDetail is the presentation payload for a selected plan:
// public media URLs plus generated caption and hashtags.
type CarouselDetail struct {
	CarouselID string   `json:"carousel_id"`
	MediaURLs  []string `json:"media_urls"`
	Caption    string   `json:"caption"`
	Hashtags   []string `json:"hashtags"`
}
