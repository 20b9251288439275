package queue

import (
	"github.com/altamedia/contentflow/internal/service"
)

type Queue struct {
	ps service.PlannerService
}

func NewQueue(ps service.PlannerService) *Queue {
	return &Queue{ps: ps}
}

const TaskTypePlanWeek = "plan:week"

// PlanWeekPayload names the Monday the planning run covers, formatted
// as 2006-01-02.
type PlanWeekPayload struct {
	WeekStart string `json:"week_start"`
}
