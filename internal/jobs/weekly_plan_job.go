package job

import (
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/altamedia/contentflow/internal/queue"
)

type WeeklyPlanJob struct {
	client *asynq.Client
}

func NewWeeklyPlanJob(client *asynq.Client) *WeeklyPlanJob {
	return &WeeklyPlanJob{client: client}
}

// EnqueueNextWeek queues a planning run for the upcoming week. Wired to
// cron so drafts exist before the week begins.
func (c *WeeklyPlanJob) EnqueueNextWeek() {
	weekStart := NextWeekStart(time.Now())

	payload := queue.PlanWeekPayload{WeekStart: weekStart.Format("2006-01-02")}
	if err := queue.EnqueuePlanWeek(c.client, payload); err != nil {
		slog.Info(err.Error())
	}
}

// NextWeekStart returns the Monday strictly after t.
func NextWeekStart(t time.Time) time.Time {
	date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	days := (int(time.Monday) - int(date.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return date.AddDate(0, 0, days)
}
