package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	job "github.com/altamedia/contentflow/internal/jobs"
)

// ParseWeekStart reads the week_start query parameter (2006-01-02),
// defaulting to the upcoming Monday.
func ParseWeekStart(c *fiber.Ctx) (time.Time, error) {
	v := c.Query("week_start")
	if v == "" {
		return ParseWeekStartDefault(), nil
	}
	return time.ParseInLocation("2006-01-02", v, time.Local)
}

func ParseWeekStartDefault() time.Time {
	return job.NextWeekStart(time.Now())
}
