package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const validDoc = `
weekly_schedule:
  monday:
    - time: "09:00"
      content_type: carousel
      platforms: [instagram]
      priority: high
  friday:
    - time: "19:00"
      content_type: single
      platforms: [tiktok]
      priority: low

platform_rules:
  instagram:
    carousel_support: true
    min_carousel_images: 2
    max_carousel_images: 10
  tiktok:
    carousel_support: true
    min_carousel_images: 2
    max_carousel_images: 35

duplicate_prevention:
  min_days_between_similar: 30
  max_carousel_reuse_per_quarter: 2

constraints:
  max_posts_per_day_per_platform: 3
  max_carousels_per_week_per_platform: 4
  respect_quiet_hours: true
  quiet_hours:
    start: "22:00"
    end: "07:00"
`

func writeDoc(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schedule.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScheduleConfig(t *testing.T) {
	sc, err := LoadScheduleConfig(writeDoc(t, validDoc))
	if err != nil {
		t.Fatalf("LoadScheduleConfig: %v", err)
	}

	want := []SlotTemplate{
		{Time: "09:00", ContentType: "carousel", Platforms: []string{"instagram"}, Priority: "high"},
	}
	if diff := cmp.Diff(want, sc.WeeklySchedule["monday"]); diff != "" {
		t.Errorf("monday slots mismatch (-want +got):\n%s", diff)
	}

	if got := sc.DuplicatePrevention.MinDaysBetweenSimilar; got != 30 {
		t.Errorf("MinDaysBetweenSimilar = %d, want 30", got)
	}
	if !sc.Constraints.RespectQuietHours {
		t.Error("RespectQuietHours = false, want true")
	}
}

func TestLoadScheduleConfigRejectsMalformedDocs(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "empty document",
			doc:  "weekly_schedule: {}\n",
		},
		{
			name: "unknown weekday",
			doc: `
weekly_schedule:
  someday:
    - time: "09:00"
      content_type: carousel
      platforms: [instagram]
      priority: high
platform_rules:
  instagram: {carousel_support: true, min_carousel_images: 2, max_carousel_images: 10}
duplicate_prevention: {min_days_between_similar: 30, max_carousel_reuse_per_quarter: 2}
constraints: {max_posts_per_day_per_platform: 3, max_carousels_per_week_per_platform: 4, respect_quiet_hours: false}
`,
		},
		{
			name: "bad time",
			doc: `
weekly_schedule:
  monday:
    - time: "9am"
      content_type: carousel
      platforms: [instagram]
      priority: high
platform_rules:
  instagram: {carousel_support: true, min_carousel_images: 2, max_carousel_images: 10}
duplicate_prevention: {min_days_between_similar: 30, max_carousel_reuse_per_quarter: 2}
constraints: {max_posts_per_day_per_platform: 3, max_carousels_per_week_per_platform: 4, respect_quiet_hours: false}
`,
		},
		{
			name: "unknown content type",
			doc: `
weekly_schedule:
  monday:
    - time: "09:00"
      content_type: story
      platforms: [instagram]
      priority: high
platform_rules:
  instagram: {carousel_support: true, min_carousel_images: 2, max_carousel_images: 10}
duplicate_prevention: {min_days_between_similar: 30, max_carousel_reuse_per_quarter: 2}
constraints: {max_posts_per_day_per_platform: 3, max_carousels_per_week_per_platform: 4, respect_quiet_hours: false}
`,
		},
		{
			name: "platform without rules entry",
			doc: `
weekly_schedule:
  monday:
    - time: "09:00"
      content_type: carousel
      platforms: [myspace]
      priority: high
platform_rules:
  instagram: {carousel_support: true, min_carousel_images: 2, max_carousel_images: 10}
duplicate_prevention: {min_days_between_similar: 30, max_carousel_reuse_per_quarter: 2}
constraints: {max_posts_per_day_per_platform: 3, max_carousels_per_week_per_platform: 4, respect_quiet_hours: false}
`,
		},
		{
			name: "unknown field",
			doc:  validDoc + "\nsurprise_field: 1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadScheduleConfig(writeDoc(t, tt.doc)); err == nil {
				t.Error("LoadScheduleConfig succeeded, want error")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	sc, err := LoadScheduleConfig(writeDoc(t, validDoc))
	if err != nil {
		t.Fatal(err)
	}
	if errs := sc.Validate(); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors", errs)
	}

	sc.PlatformRules["instagram"] = PlatformRule{CarouselSupport: false}
	errs := sc.Validate()
	if len(errs) == 0 {
		t.Error("Validate() found no errors for carousel slot on unsupported platform")
	}

	sc.PlatformRules["instagram"] = PlatformRule{CarouselSupport: true, MinCarouselImages: 10, MaxCarouselImages: 2}
	errs = sc.Validate()
	if len(errs) == 0 {
		t.Error("Validate() found no errors for min > max")
	}
}

func TestInQuietHours(t *testing.T) {
	sc := &ScheduleConfig{
		Constraints: Constraints{
			RespectQuietHours: true,
			QuietHours:        QuietHours{Start: "22:00", End: "07:00"},
		},
	}

	tests := []struct {
		name string
		hour int
		want bool
	}{
		{"late evening", 23, true},
		{"early morning", 6, true},
		{"start boundary", 22, true},
		{"end boundary", 7, false},
		{"midday", 12, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at := time.Date(2026, 3, 2, tt.hour, 0, 0, 0, time.UTC)
			if got := sc.InQuietHours(at); got != tt.want {
				t.Errorf("InQuietHours(%02d:00) = %v, want %v", tt.hour, got, tt.want)
			}
		})
	}

	sc.Constraints.RespectQuietHours = false
	if sc.InQuietHours(time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)) {
		t.Error("InQuietHours = true with respect_quiet_hours disabled")
	}
}
