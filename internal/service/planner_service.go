package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	config "github.com/altamedia/contentflow/configs"
	"github.com/altamedia/contentflow/internal/models"
	"github.com/altamedia/contentflow/internal/repository"
	"github.com/altamedia/contentflow/internal/transfer"
)

type PlannerService interface {
	ValidateConfiguration() *transfer.ValidationResult
	GenerateWeeklyPlan(weekStart time.Time) *transfer.WeeklyPlan
	SelectCarouselForSlot(ctx context.Context, slot *models.WeeklySlot) (string, error)
	ScheduleWeeklyPosts(ctx context.Context, weekStart time.Time) ([]*models.Post, error)
}

type plannerService struct {
	sc  *config.ScheduleConfig
	cm  repository.CuratedMediaRepository
	cu  repository.CarouselUsageRepository
	pr  repository.PostRepository
	cs  CarouselService
	pt  PlanningTimesService
	now func() time.Time
}

// NewPlannerService validates the schedule document and fails
// construction if a carousel slot targets a platform without carousel
// support or any configured image range is inconsistent.
func NewPlannerService(
	sc *config.ScheduleConfig,
	cm repository.CuratedMediaRepository,
	cu repository.CarouselUsageRepository,
	pr repository.PostRepository,
	cs CarouselService,
	pt PlanningTimesService) (PlannerService, error) {

	if errs := sc.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid schedule configuration: %s", strings.Join(errs, "; "))
	}

	return &plannerService{
		sc:  sc,
		cm:  cm,
		cu:  cu,
		pr:  pr,
		cs:  cs,
		pt:  pt,
		now: time.Now,
	}, nil
}

// ValidateConfiguration re-runs the schedule consistency checks for
// operational health reporting.
func (s *plannerService) ValidateConfiguration() *transfer.ValidationResult {
	errs := s.sc.Validate()
	if errs == nil {
		errs = []string{}
	}
	return &transfer.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// GenerateWeeklyPlan expands the weekday template onto the 7 calendar
// days starting at weekStart. Slots come back in ascending (day, time)
// order; unavailable slots carry a reason.
func (s *plannerService) GenerateWeeklyPlan(weekStart time.Time) *transfer.WeeklyPlan {
	now := s.now()
	start := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())

	var slots []models.WeeklySlot
	for offset := 0; offset < 7; offset++ {
		date := start.AddDate(0, 0, offset)
		templates := s.sc.WeeklySchedule[config.WeekdayName(date.Weekday())]
		if len(templates) == 0 {
			continue
		}

		day := make([]models.WeeklySlot, 0, len(templates))
		for _, tpl := range templates {
			slot := models.WeeklySlot{
				Date:        date,
				Time:        tpl.Time,
				ContentType: tpl.ContentType,
				Platforms:   append([]string(nil), tpl.Platforms...),
				Priority:    tpl.Priority,
			}
			s.checkSlotAvailability(&slot, now)
			day = append(day, slot)
		}
		sort.SliceStable(day, func(i, j int) bool { return day[i].Time < day[j].Time })
		slots = append(slots, day...)
	}

	return &transfer.WeeklyPlan{WeekStart: start, Slots: slots}
}

func (s *plannerService) checkSlotAvailability(slot *models.WeeklySlot, now time.Time) {
	instant := slot.Instant()

	if !instant.After(now) {
		slot.Available = false
		slot.Reason = "Slot is in the past"
		return
	}

	if s.sc.InQuietHours(instant) {
		slot.Available = false
		slot.Reason = "Slot falls within quiet hours"
		return
	}

	if slot.ContentType == models.ContentTypeCarousel {
		for _, p := range slot.Platforms {
			rule, ok := s.sc.PlatformRules[p]
			if !ok || !rule.CarouselSupport {
				slot.Available = false
				slot.Reason = fmt.Sprintf("Platform %s does not support carousels", p)
				return
			}
		}
	}

	slot.Available = true
	slot.Reason = ""
}

// SelectCarouselForSlot picks the carousel to fill a slot, or returns
// "" when the slot is not a carousel slot or nothing eligible remains
// after duplicate prevention. An empty result is not an error.
func (s *plannerService) SelectCarouselForSlot(ctx context.Context, slot *models.WeeklySlot) (string, error) {
	plan, err := s.selectCandidate(ctx, slot)
	if err != nil || plan == nil {
		return "", err
	}
	return plan.ID, nil
}

func (s *plannerService) selectCandidate(ctx context.Context, slot *models.WeeklySlot) (*models.CarouselPlan, error) {
	if slot.ContentType != models.ContentTypeCarousel {
		return nil, nil
	}

	media, err := s.cm.ListCurated(ctx)
	if err != nil {
		return nil, err
	}

	candidates, err := s.carouselCandidates(media, slot.Platforms)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	recent, err := s.cu.GetRecentlyUsed(ctx, s.sc.DuplicatePrevention.MinDaysBetweenSimilar)
	if err != nil {
		return nil, err
	}
	recentThemes := make(map[string]struct{}, len(recent))
	for _, u := range recent {
		recentThemes[u.Theme+"\x00"+u.Platform] = struct{}{}
	}

	qStart, qEnd := quarterBounds(s.now())
	quarterUses := make(map[string]int)
	for _, p := range slot.Platforms {
		used, err := s.cu.GetUsedInPeriod(ctx, p, qStart, qEnd)
		if err != nil {
			return nil, err
		}
		for _, u := range used {
			quarterUses[u.CarouselID+"\x00"+p]++
		}
	}

	maxReuse := s.sc.DuplicatePrevention.MaxCarouselReusePerQuarter
	for i := range candidates {
		cand := &candidates[i]
		eligible := true
		for _, p := range slot.Platforms {
			if _, ok := recentThemes[cand.ProjectID+"\x00"+p]; ok {
				eligible = false
				break
			}
			if quarterUses[cand.ID+"\x00"+p] >= maxReuse {
				eligible = false
				break
			}
		}
		if eligible {
			return cand, nil
		}
	}
	return nil, nil
}

// carouselCandidates builds plans satisfying every platform of the slot
// at once, ordered by average curated score descending with lexical
// plan-id tie-break so selection is deterministic.
func (s *plannerService) carouselCandidates(media []models.MediaItem, platforms []string) ([]models.CarouselPlan, error) {
	if len(platforms) == 0 {
		return nil, nil
	}

	override := s.combinedConstraints(platforms)
	plans, err := s.cs.BuildCarouselPlans(media, platforms[0], &override)
	if err != nil {
		return nil, err
	}

	scores := make(map[string]float64, len(media))
	for _, m := range media {
		scores[m.ID] = m.CuratedScore
	}
	avg := func(plan models.CarouselPlan) float64 {
		total := 0.0
		for _, id := range plan.MediaIDs {
			total += scores[id]
		}
		return total / float64(len(plan.MediaIDs))
	}

	sort.SliceStable(plans, func(i, j int) bool {
		si, sj := avg(plans[i]), avg(plans[j])
		if si != sj {
			return si > sj
		}
		return plans[i].ID < plans[j].ID
	})
	return plans, nil
}

// combinedConstraints merges the static platform table with the
// schedule document's platform_rules across every platform of a slot:
// the tightest min/max wins, same-aspect preference is sticky.
func (s *plannerService) combinedConstraints(platforms []string) models.PlatformConstraints {
	combined := models.PlatformConstraints{SupportsCarousel: true}
	for i, p := range platforms {
		static, _ := PlatformConstraintsFor(p)
		minAssets, maxAssets := static.MinAssets, static.MaxAssets
		supports := static.SupportsCarousel

		if rule, ok := s.sc.PlatformRules[p]; ok {
			supports = rule.CarouselSupport
			if rule.MinCarouselImages > 0 {
				minAssets = rule.MinCarouselImages
			}
			if rule.MaxCarouselImages > 0 {
				maxAssets = rule.MaxCarouselImages
			}
		}

		if i == 0 {
			combined.MinAssets = minAssets
			combined.MaxAssets = maxAssets
		} else {
			if minAssets > combined.MinAssets {
				combined.MinAssets = minAssets
			}
			if maxAssets < combined.MaxAssets {
				combined.MaxAssets = maxAssets
			}
		}
		combined.SupportsCarousel = combined.SupportsCarousel && supports
		combined.PrefersSameAspect = combined.PrefersSameAspect || static.PrefersSameAspect
	}
	return combined
}

// ScheduleWeeklyPosts runs the full weekly planning pass: expand the
// template, walk available slots strictly in order, commit a carousel
// to each slot that has one, and persist the draft posts. Slots are
// processed sequentially because usage recorded for one slot must be
// visible to the candidate query of the next.
func (s *plannerService) ScheduleWeeklyPosts(ctx context.Context, weekStart time.Time) ([]*models.Post, error) {
	runID, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	plan := s.GenerateWeeklyPlan(weekStart)
	logger := slog.With("run_id", runID, "week_start", plan.WeekStart.Format("2006-01-02"))

	weekCarousels := make(map[string]int)
	dayPosts := make(map[string]int)

	var posts []*models.Post
	for i := range plan.Slots {
		slot := &plan.Slots[i]
		if !slot.Available {
			logger.Info("skipping slot", "date", slot.Date.Format("2006-01-02"), "time", slot.Time, "reason", slot.Reason)
			continue
		}
		if slot.ContentType != models.ContentTypeCarousel {
			continue
		}
		if reason := s.slotCapped(slot, weekCarousels, dayPosts); reason != "" {
			logger.Info("skipping slot", "date", slot.Date.Format("2006-01-02"), "time", slot.Time, "reason", reason)
			continue
		}

		cand, err := s.selectCandidate(ctx, slot)
		if err != nil {
			return posts, err
		}
		if cand == nil {
			logger.Info("no carousel available for slot", "date", slot.Date.Format("2006-01-02"), "time", slot.Time)
			continue
		}

		detail, err := s.cs.GetCarouselDetail(ctx, cand)
		if err != nil {
			return posts, err
		}

		for _, p := range slot.Platforms {
			if err := s.cu.TrackUsage(ctx, cand.ID, cand.ProjectID, p); err != nil {
				return posts, err
			}
		}

		post := &models.Post{
			CarouselID:    cand.ID,
			PostType:      models.ContentTypeCarousel,
			Caption:       detail.Caption,
			Hashtags:      detail.Hashtags,
			MediaURLs:     detail.MediaURLs,
			Platforms:     slot.Platforms,
			ScheduledTime: slot.Instant(),
			Status:        models.PostStatusDraft,
		}
		postID, err := s.pr.Create(ctx, nil, post)
		if err != nil {
			return posts, err
		}
		post.ID = postID
		posts = append(posts, post)

		day := slot.Date.Format("2006-01-02")
		for _, p := range slot.Platforms {
			weekCarousels[p]++
			dayPosts[day+"\x00"+p]++
		}

		logger.Info("scheduled carousel",
			"post_id", postID,
			"carousel_id", cand.ID,
			"date", day,
			"time", slot.Time,
			"time_score", s.slotTimeScore(slot))
	}

	return posts, nil
}

func (s *plannerService) slotCapped(slot *models.WeeklySlot, weekCarousels, dayPosts map[string]int) string {
	weekCap := s.sc.Constraints.MaxCarouselsPerWeekPerPlatform
	dayCap := s.sc.Constraints.MaxPostsPerDayPerPlatform
	day := slot.Date.Format("2006-01-02")

	for _, p := range slot.Platforms {
		if weekCap > 0 && weekCarousels[p] >= weekCap {
			return fmt.Sprintf("Weekly carousel limit reached for %s", p)
		}
		if dayCap > 0 && dayPosts[day+"\x00"+p] >= dayCap {
			return fmt.Sprintf("Daily post limit reached for %s", p)
		}
	}
	return ""
}

// slotTimeScore reports how well the slot matches the platform's
// optimal posting hours. Informational only.
func (s *plannerService) slotTimeScore(slot *models.WeeklySlot) float64 {
	if s.pt == nil || len(slot.Platforms) == 0 {
		return 0
	}
	instant := slot.Instant()
	best := 0.0
	for _, t := range s.pt.GetOptimalTimes(slot.Platforms[0]) {
		if t.Hour == instant.Hour() && t.Score > best {
			best = t.Score
		}
	}
	return best
}

func quarterBounds(t time.Time) (time.Time, time.Time) {
	month := ((int(t.Month())-1)/3)*3 + 1
	start := time.Date(t.Year(), time.Month(month), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 3, 0)
}
