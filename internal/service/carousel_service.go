package service

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	config "github.com/altamedia/contentflow/configs"
	"github.com/altamedia/contentflow/internal/models"
	"github.com/altamedia/contentflow/internal/repository"
)

var ErrUnsupportedPlatform = errors.New("unsupported platform")

// defaultConstraints is the static per-platform constraint table. The
// schedule document's platform_rules can tighten min/max at planning
// time via the override parameter.
var defaultConstraints = map[string]models.PlatformConstraints{
	"instagram": {MaxAssets: 10, MinAssets: 2, SupportsCarousel: true, PrefersSameAspect: true},
	"facebook":  {MaxAssets: 10, MinAssets: 2, SupportsCarousel: true, PrefersSameAspect: false},
	"tiktok":    {MaxAssets: 35, MinAssets: 2, SupportsCarousel: true, PrefersSameAspect: false},
	"twitter":   {MaxAssets: 4, MinAssets: 2, SupportsCarousel: true, PrefersSameAspect: false},
	"pinterest": {MaxAssets: 5, MinAssets: 2, SupportsCarousel: true, PrefersSameAspect: true},
	"youtube":   {SupportsCarousel: false},
}

// PlatformConstraintsFor looks up the static constraint table.
func PlatformConstraintsFor(platform string) (models.PlatformConstraints, bool) {
	c, ok := defaultConstraints[platform]
	return c, ok
}

type CarouselService interface {
	BuildCarouselPlans(media []models.MediaItem, platform string, override *models.PlatformConstraints) ([]models.CarouselPlan, error)
	GetCarouselDetail(ctx context.Context, plan *models.CarouselPlan) (*models.CarouselDetail, error)
}

type carouselService struct {
	cm           repository.CuratedMediaRepository
	mediaBaseURL string
}

func NewCarouselService(cfg config.Config, cm repository.CuratedMediaRepository) CarouselService {
	return &carouselService{
		cm:           cm,
		mediaBaseURL: strings.TrimRight(cfg.MediaBaseURL, "/"),
	}
}

// BuildCarouselPlans groups curated media into platform-compliant
// carousel plans. It is pure: no I/O, no shared state, and identical
// input always yields identical output.
func (s *carouselService) BuildCarouselPlans(media []models.MediaItem, platform string, override *models.PlatformConstraints) ([]models.CarouselPlan, error) {
	constraints, ok := defaultConstraints[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, platform)
	}
	if override != nil {
		constraints = *override
	}

	if !constraints.SupportsCarousel {
		return []models.CarouselPlan{}, nil
	}

	var plans []models.CarouselPlan
	for _, group := range groupByProject(media) {
		if len(group.items) < constraints.MinAssets {
			continue
		}

		sorted := sortByScore(group.items)

		if constraints.PrefersSameAspect {
			for _, partition := range partitionByAspect(sorted) {
				if len(partition.items) < constraints.MinAssets {
					continue
				}
				plans = appendChunks(plans, group.projectID, partition.aspect, partition.items, constraints)
			}
		} else {
			aspect := majorityAspect(sorted)
			plans = appendChunks(plans, group.projectID, aspect, sorted, constraints)
		}
	}

	if plans == nil {
		plans = []models.CarouselPlan{}
	}
	return plans, nil
}

// GetCarouselDetail resolves a plan into its presentation payload:
// public media URLs plus a caption and hashtags derived from the
// project and the media tags.
func (s *carouselService) GetCarouselDetail(ctx context.Context, plan *models.CarouselPlan) (*models.CarouselDetail, error) {
	items, err := s.cm.GetByIDs(ctx, plan.MediaIDs)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(items))
	seenTags := make(map[string]struct{})
	var hashtags []string
	for _, item := range items {
		urls = append(urls, fmt.Sprintf("%s/%s", s.mediaBaseURL, strings.TrimLeft(item.Path, "/")))
		for _, tag := range item.Tags {
			if _, ok := seenTags[tag]; ok {
				continue
			}
			seenTags[tag] = struct{}{}
			hashtags = append(hashtags, "#"+tag)
		}
	}

	return &models.CarouselDetail{
		CarouselID: plan.ID,
		MediaURLs:  urls,
		Caption:    strings.ReplaceAll(plan.ProjectID, "-", " "),
		Hashtags:   hashtags,
	}, nil
}

type projectGroup struct {
	projectID string
	items     []models.MediaItem
}

// groupByProject partitions media by project id, preserving first-seen
// project order.
func groupByProject(media []models.MediaItem) []projectGroup {
	index := make(map[string]int)
	var groups []projectGroup
	for _, item := range media {
		i, ok := index[item.ProjectID]
		if !ok {
			i = len(groups)
			index[item.ProjectID] = i
			groups = append(groups, projectGroup{projectID: item.ProjectID})
		}
		groups[i].items = append(groups[i].items, item)
	}
	return groups
}

// sortByScore orders media by curated score descending, ties broken by
// creation time descending (more recent wins). The stable sort keeps
// the result deterministic for full ties.
func sortByScore(items []models.MediaItem) []models.MediaItem {
	sorted := make([]models.MediaItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CuratedScore != sorted[j].CuratedScore {
			return sorted[i].CuratedScore > sorted[j].CuratedScore
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

type aspectPartition struct {
	aspect string
	items  []models.MediaItem
}

// partitionByAspect splits a score-sorted sequence into per-aspect
// partitions, keeping relative order inside each. Partitions appear in
// first-encounter order.
func partitionByAspect(sorted []models.MediaItem) []aspectPartition {
	index := make(map[string]int)
	var partitions []aspectPartition
	for _, item := range sorted {
		i, ok := index[item.Aspect]
		if !ok {
			i = len(partitions)
			index[item.Aspect] = i
			partitions = append(partitions, aspectPartition{aspect: item.Aspect})
		}
		partitions[i].items = append(partitions[i].items, item)
	}
	return partitions
}

// majorityAspect returns the most frequent aspect in the sequence; ties
// go to the aspect encountered first while scanning in order.
func majorityAspect(sorted []models.MediaItem) string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, item := range sorted {
		if _, ok := firstSeen[item.Aspect]; !ok {
			firstSeen[item.Aspect] = i
		}
		counts[item.Aspect]++
	}

	best := ""
	for aspect, n := range counts {
		if best == "" {
			best = aspect
			continue
		}
		if n > counts[best] || (n == counts[best] && firstSeen[aspect] < firstSeen[best]) {
			best = aspect
		}
	}
	return best
}

// appendChunks splits a sequence into consecutive windows of at most
// MaxAssets items and appends one plan per window. An undersized
// trailing window (fewer than 2 items) is discarded when earlier
// windows were already produced for this sequence.
func appendChunks(plans []models.CarouselPlan, projectID, aspect string, items []models.MediaItem, constraints models.PlatformConstraints) []models.CarouselPlan {
	var chunks [][]models.MediaItem
	for start := 0; start < len(items); start += constraints.MaxAssets {
		end := start + constraints.MaxAssets
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}

	if len(chunks) > 1 && len(chunks[len(chunks)-1]) < 2 {
		chunks = chunks[:len(chunks)-1]
	}

	for _, chunk := range chunks {
		plan := models.CarouselPlan{
			ProjectID: projectID,
			MediaIDs:  mediaIDs(chunk),
			CoverID:   chunk[0].ID,
			Aspect:    aspect,
		}
		plan.ID = planID(projectID, plan.MediaIDs)

		if reason := invalidPlanReason(&plan, constraints); reason != "" {
			slog.Warn("dropping invalid carousel plan",
				"project_id", projectID,
				"media_count", len(plan.MediaIDs),
				"reason", reason)
			continue
		}
		plans = append(plans, plan)
	}
	return plans
}

func mediaIDs(items []models.MediaItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

// planID derives a stable id from the plan contents so repeated builds
// over the same media pool always name the same carousel.
func planID(projectID string, mediaIDs []string) string {
	sum := sha256.Sum256([]byte(projectID + "\x00" + strings.Join(mediaIDs, "\x00")))
	return fmt.Sprintf("%x", sum[:8])
}

func invalidPlanReason(plan *models.CarouselPlan, constraints models.PlatformConstraints) string {
	if len(plan.MediaIDs) == 0 {
		return "no media"
	}
	if len(plan.MediaIDs) < constraints.MinAssets {
		return fmt.Sprintf("fewer than %d assets", constraints.MinAssets)
	}
	if len(plan.MediaIDs) > constraints.MaxAssets {
		return fmt.Sprintf("more than %d assets", constraints.MaxAssets)
	}
	if plan.CoverID != plan.MediaIDs[0] {
		return "cover is not the first asset"
	}
	seen := make(map[string]struct{}, len(plan.MediaIDs))
	for _, id := range plan.MediaIDs {
		if _, ok := seen[id]; ok {
			return "duplicate media id"
		}
		seen[id] = struct{}{}
	}
	return ""
}
