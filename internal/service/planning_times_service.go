package service

import "github.com/altamedia/contentflow/internal/transfer"

// PlanningTimesService scores posting times per platform. The scores
// are informational; slot placement comes from the schedule document.
type PlanningTimesService interface {
	GetOptimalTimes(platform string) []transfer.OptimalTime
}

type planningTimesService struct{}

func NewPlanningTimesService() PlanningTimesService {
	return &planningTimesService{}
}

// Engagement heuristics per platform, hour-of-day local time.
var optimalTimes = map[string][]transfer.OptimalTime{
	"instagram": {
		{Hour: 9, Minute: 0, Score: 0.82},
		{Hour: 12, Minute: 30, Score: 0.74},
		{Hour: 17, Minute: 30, Score: 0.91},
		{Hour: 20, Minute: 0, Score: 0.88},
	},
	"facebook": {
		{Hour: 10, Minute: 0, Score: 0.77},
		{Hour: 13, Minute: 0, Score: 0.85},
		{Hour: 19, Minute: 0, Score: 0.8},
	},
	"tiktok": {
		{Hour: 7, Minute: 0, Score: 0.72},
		{Hour: 16, Minute: 0, Score: 0.84},
		{Hour: 21, Minute: 0, Score: 0.93},
	},
	"twitter": {
		{Hour: 8, Minute: 0, Score: 0.81},
		{Hour: 12, Minute: 0, Score: 0.86},
		{Hour: 18, Minute: 0, Score: 0.75},
	},
}

func (s *planningTimesService) GetOptimalTimes(platform string) []transfer.OptimalTime {
	times, ok := optimalTimes[platform]
	if !ok {
		return []transfer.OptimalTime{}
	}
	out := make([]transfer.OptimalTime, len(times))
	copy(out, times)
	return out
}
