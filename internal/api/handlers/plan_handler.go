package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"github.com/altamedia/contentflow/internal/queue"
	"github.com/altamedia/contentflow/internal/service"
	"github.com/altamedia/contentflow/internal/transfer"
)

type PlanHandler struct {
	s           service.PlannerService
	pt          service.PlanningTimesService
	AsynqClient *asynq.Client
}

func NewPlanHandler(s service.PlannerService, pt service.PlanningTimesService, asynqClient *asynq.Client) *PlanHandler {
	return &PlanHandler{s: s, pt: pt, AsynqClient: asynqClient}
}

func (h *PlanHandler) PreviewWeeklyPlan(c *fiber.Ctx) error {
	weekStart, err := ParseWeekStart(c)
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid week_start, expected YYYY-MM-DD",
		})
	}

	plan := h.s.GenerateWeeklyPlan(weekStart)
	return c.Status(fiber.StatusOK).JSON(plan)
}

func (h *PlanHandler) ValidateSchedule(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.s.ValidateConfiguration())
}

func (h *PlanHandler) ScheduleWeek(c *fiber.Ctx) error {
	var req transfer.SchedulePlanRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}

	weekStart := req.WeekStart
	if weekStart == "" {
		weekStart = ParseWeekStartDefault().Format("2006-01-02")
	} else if _, err := time.ParseInLocation("2006-01-02", weekStart, time.Local); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid week_start, expected YYYY-MM-DD",
		})
	}

	err := queue.EnqueuePlanWeek(h.AsynqClient, queue.PlanWeekPayload{WeekStart: weekStart})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error scheduling planning run",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":    "Planning run scheduled",
		"week_start": weekStart,
	})
}

func (h *PlanHandler) OptimalTimes(c *fiber.Ctx) error {
	platform := c.Query("platform")
	if platform == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "platform is required",
		})
	}
	return c.Status(fiber.StatusOK).JSON(h.pt.GetOptimalTimes(platform))
}
