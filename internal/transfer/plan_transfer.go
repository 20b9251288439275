package transfer

import (
	"time"

	"github.com/altamedia/contentflow/internal/models"
)

type WeeklyPlan struct {
	WeekStart time.Time           `json:"week_start"`
	Slots     []models.WeeklySlot `json:"slots"`
}

type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

type OptimalTime struct {
	Hour   int     `json:"hour"`
	Minute int     `json:"minute"`
	Score  float64 `json:"score"`
}

type SchedulePlanRequest struct {
	WeekStart string `json:"week_start"`
}
