package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

func (j *Queue) HandlePlanWeekTask(ctx context.Context, task *asynq.Task) error {
	var payload PlanWeekPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	weekStart, err := time.ParseInLocation("2006-01-02", payload.WeekStart, time.Local)
	if err != nil {
		return fmt.Errorf("invalid week_start %q: %w", payload.WeekStart, err)
	}

	posts, err := j.ps.ScheduleWeeklyPosts(ctx, weekStart)
	if err != nil {
		log.Printf("Error scheduling week %s: %v", payload.WeekStart, err)
		return err
	}

	log.Printf("Scheduled %d draft posts for week %s", len(posts), payload.WeekStart)
	return nil
}
