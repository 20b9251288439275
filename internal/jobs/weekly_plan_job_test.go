package job

import (
	"testing"
	"time"
)

func TestNextWeekStart(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		want time.Time
	}{
		{
			name: "from a sunday",
			from: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
			want: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "from a monday jumps a full week",
			from: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			want: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "midweek",
			from: time.Date(2026, 3, 4, 23, 59, 0, 0, time.UTC),
			want: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextWeekStart(tt.from)
			if !got.Equal(tt.want) {
				t.Errorf("NextWeekStart(%v) = %v, want %v", tt.from, got, tt.want)
			}
		})
	}
}
