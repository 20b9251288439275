package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SlotTemplate is one recurring posting opportunity on a weekday.
type SlotTemplate struct {
	Time        string   `yaml:"time"`
	ContentType string   `yaml:"content_type"`
	Platforms   []string `yaml:"platforms"`
	Priority    string   `yaml:"priority"`
}

type PlatformRule struct {
	CarouselSupport   bool `yaml:"carousel_support"`
	MinCarouselImages int  `yaml:"min_carousel_images"`
	MaxCarouselImages int  `yaml:"max_carousel_images"`
}

type DuplicatePrevention struct {
	MinDaysBetweenSimilar      int `yaml:"min_days_between_similar"`
	MaxCarouselReusePerQuarter int `yaml:"max_carousel_reuse_per_quarter"`
}

// QuietHours is a local-time window during which nothing is scheduled.
// The window may wrap midnight (e.g. 22:00-07:00).
type QuietHours struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type Constraints struct {
	MaxPostsPerDayPerPlatform      int        `yaml:"max_posts_per_day_per_platform"`
	MaxCarouselsPerWeekPerPlatform int        `yaml:"max_carousels_per_week_per_platform"`
	RespectQuietHours              bool       `yaml:"respect_quiet_hours"`
	QuietHours                     QuietHours `yaml:"quiet_hours"`
}

// ScheduleConfig is the typed weekly-schedule document. It is loaded
// once at startup, validated, and treated as immutable afterwards.
type ScheduleConfig struct {
	WeeklySchedule      map[string][]SlotTemplate `yaml:"weekly_schedule"`
	PlatformRules       map[string]PlatformRule   `yaml:"platform_rules"`
	DuplicatePrevention DuplicatePrevention       `yaml:"duplicate_prevention"`
	Constraints         Constraints               `yaml:"constraints"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// WeekdayName returns the lowercase weekday key used in the document.
func WeekdayName(d time.Weekday) string {
	return strings.ToLower(d.String())
}

// LoadScheduleConfig reads and strictly decodes the schedule document.
// A malformed document is a fatal startup error; nothing is defaulted
// silently.
func LoadScheduleConfig(path string) (*ScheduleConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("schedule config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var sc ScheduleConfig
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("schedule config: %w", err)
	}

	if err := sc.checkShape(); err != nil {
		return nil, fmt.Errorf("schedule config: %w", err)
	}

	return &sc, nil
}

func (c *ScheduleConfig) checkShape() error {
	if len(c.WeeklySchedule) == 0 {
		return fmt.Errorf("weekly_schedule is empty")
	}

	for day, slots := range c.WeeklySchedule {
		if _, ok := weekdayNames[day]; !ok {
			return fmt.Errorf("unknown weekday %q", day)
		}
		for i, slot := range slots {
			if _, err := time.Parse("15:04", slot.Time); err != nil {
				return fmt.Errorf("%s slot %d: invalid time %q", day, i, slot.Time)
			}
			if slot.ContentType != "carousel" && slot.ContentType != "single" {
				return fmt.Errorf("%s slot %d: invalid content_type %q", day, i, slot.ContentType)
			}
			switch slot.Priority {
			case "low", "medium", "high":
			default:
				return fmt.Errorf("%s slot %d: invalid priority %q", day, i, slot.Priority)
			}
			if len(slot.Platforms) == 0 {
				return fmt.Errorf("%s slot %d: no platforms configured", day, i)
			}
			for _, p := range slot.Platforms {
				if _, ok := c.PlatformRules[p]; !ok {
					return fmt.Errorf("%s slot %d: platform %q has no platform_rules entry", day, i, p)
				}
			}
		}
	}

	if c.DuplicatePrevention.MinDaysBetweenSimilar < 0 {
		return fmt.Errorf("duplicate_prevention.min_days_between_similar must not be negative")
	}
	if c.DuplicatePrevention.MaxCarouselReusePerQuarter < 1 {
		return fmt.Errorf("duplicate_prevention.max_carousel_reuse_per_quarter must be at least 1")
	}

	if c.Constraints.RespectQuietHours {
		for _, v := range []string{c.Constraints.QuietHours.Start, c.Constraints.QuietHours.End} {
			if _, err := time.Parse("15:04", v); err != nil {
				return fmt.Errorf("invalid quiet_hours time %q", v)
			}
		}
	}

	return nil
}

// Validate re-runs the consistency checks that do not depend on document
// shape: carousel slots must only target carousel-capable platforms, and
// every configured image range must satisfy min <= max. Used both at
// planner construction (fatal) and on demand for health reporting.
func (c *ScheduleConfig) Validate() []string {
	var errs []string

	for day, slots := range c.WeeklySchedule {
		for i, slot := range slots {
			if slot.ContentType != "carousel" {
				continue
			}
			for _, p := range slot.Platforms {
				rule, ok := c.PlatformRules[p]
				if !ok || !rule.CarouselSupport {
					errs = append(errs, fmt.Sprintf("%s slot %d: carousel scheduled on %q which does not support carousels", day, i, p))
				}
			}
		}
	}

	for name, rule := range c.PlatformRules {
		if !rule.CarouselSupport {
			continue
		}
		if rule.MinCarouselImages < 1 {
			errs = append(errs, fmt.Sprintf("platform %q: min_carousel_images must be at least 1", name))
		}
		if rule.MinCarouselImages > rule.MaxCarouselImages {
			errs = append(errs, fmt.Sprintf("platform %q: min_carousel_images %d exceeds max_carousel_images %d", name, rule.MinCarouselImages, rule.MaxCarouselImages))
		}
	}

	return errs
}

// InQuietHours reports whether the local time of t falls inside the
// configured quiet window.
func (c *ScheduleConfig) InQuietHours(t time.Time) bool {
	if !c.Constraints.RespectQuietHours {
		return false
	}

	start, err := time.Parse("15:04", c.Constraints.QuietHours.Start)
	if err != nil {
		return false
	}
	end, err := time.Parse("15:04", c.Constraints.QuietHours.End)
	if err != nil {
		return false
	}

	minutes := t.Hour()*60 + t.Minute()
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()

	if startMin <= endMin {
		return minutes >= startMin && minutes < endMin
	}
	// window wraps midnight
	return minutes >= startMin || minutes < endMin
}
