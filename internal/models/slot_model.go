package models

import "time"

const (
	ContentTypeCarousel = "carousel"
	ContentTypeSingle   = "single"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// WeeklySlot is one concrete posting opportunity, derived by resolving a
// weekday template against a calendar date. Reason is set whenever
// Available is false.
type WeeklySlot struct {
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	ContentType string    `json:"content_type"`
	Platforms   []string  `json:"platforms"`
	Priority    string    `json:"priority"`
	Available   bool      `json:"available"`
	Reason      string    `json:"reason,omitempty"`
}

// Instant resolves the slot's HH:MM time against its calendar date.
func (s *WeeklySlot) Instant() time.Time {
	t, err := time.Parse("15:04", s.Time)
	if err != nil {
		return s.Date
	}
	return time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), t.Hour(), t.Minute(), 0, 0, s.Date.Location())
}
