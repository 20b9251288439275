package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	config "github.com/altamedia/contentflow/configs"
	"github.com/altamedia/contentflow/internal/models"
)

func mediaItem(id, projectID string, score float64, aspect string, createdAt time.Time) models.MediaItem {
	return models.MediaItem{
		ID:           id,
		ProjectID:    projectID,
		Path:         "curated/" + projectID + "/" + id + ".jpg",
		CuratedScore: score,
		Aspect:       aspect,
		CreatedAt:    createdAt,
	}
}

// projectAMedia mirrors a small shoot: five assets with mixed aspects.
func projectAMedia() []models.MediaItem {
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	return []models.MediaItem{
		mediaItem("m1", "project-a", 0.95, models.AspectSquare, base),
		mediaItem("m2", "project-a", 0.88, models.AspectPortrait, base.Add(1*time.Hour)),
		mediaItem("m3", "project-a", 0.92, models.AspectSquare, base.Add(2*time.Hour)),
		mediaItem("m4", "project-a", 0.85, models.AspectLandscape, base.Add(3*time.Hour)),
		mediaItem("m5", "project-a", 0.78, models.AspectSquare, base.Add(4*time.Hour)),
	}
}

func newTestCarouselService(media []models.MediaItem) CarouselService {
	return NewCarouselService(config.Config{MediaBaseURL: "https://cdn.example.com"}, &fakeMediaRepo{items: media})
}

func TestBuildCarouselPlansUnknownPlatform(t *testing.T) {
	s := newTestCarouselService(nil)
	_, err := s.BuildCarouselPlans(projectAMedia(), "myspace", nil)
	if !errors.Is(err, ErrUnsupportedPlatform) {
		t.Fatalf("err = %v, want ErrUnsupportedPlatform", err)
	}
}

func TestBuildCarouselPlansNoCarouselSupport(t *testing.T) {
	s := newTestCarouselService(nil)
	plans, err := s.BuildCarouselPlans(projectAMedia(), "youtube", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(plans) != 0 {
		t.Errorf("got %d plans for a platform without carousel support, want 0", len(plans))
	}
}

func TestBuildCarouselPlansSameAspect(t *testing.T) {
	s := newTestCarouselService(nil)
	plans, err := s.BuildCarouselPlans(projectAMedia(), "instagram", nil)
	if err != nil {
		t.Fatal(err)
	}

	// Only the square partition has enough assets; portrait and
	// landscape (one item each) cannot form a carousel.
	if len(plans) != 1 {
		t.Fatalf("got %d plans, want 1", len(plans))
	}

	plan := plans[0]
	if diff := cmp.Diff([]string{"m1", "m3", "m5"}, plan.MediaIDs); diff != "" {
		t.Errorf("media order mismatch (-want +got):\n%s", diff)
	}
	if plan.Aspect != models.AspectSquare {
		t.Errorf("aspect = %q, want square", plan.Aspect)
	}
	if plan.CoverID != "m1" {
		t.Errorf("cover = %q, want m1", plan.CoverID)
	}
	if plan.ProjectID != "project-a" {
		t.Errorf("project = %q, want project-a", plan.ProjectID)
	}
}

func TestBuildCarouselPlansMixedAspect(t *testing.T) {
	s := newTestCarouselService(nil)
	plans, err := s.BuildCarouselPlans(projectAMedia(), "facebook", nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(plans) != 1 {
		t.Fatalf("got %d plans, want 1", len(plans))
	}

	plan := plans[0]
	if diff := cmp.Diff([]string{"m1", "m3", "m2", "m4", "m5"}, plan.MediaIDs); diff != "" {
		t.Errorf("media order mismatch (-want +got):\n%s", diff)
	}
	// square is the majority aspect (3 of 5)
	if plan.Aspect != models.AspectSquare {
		t.Errorf("aspect = %q, want square", plan.Aspect)
	}
}

func TestBuildCarouselPlansMajorityAspectTie(t *testing.T) {
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	media := []models.MediaItem{
		mediaItem("p1", "project-b", 0.9, models.AspectPortrait, base),
		mediaItem("s1", "project-b", 0.8, models.AspectSquare, base),
		mediaItem("p2", "project-b", 0.7, models.AspectPortrait, base),
		mediaItem("s2", "project-b", 0.6, models.AspectSquare, base),
	}

	s := newTestCarouselService(nil)
	plans, err := s.BuildCarouselPlans(media, "facebook", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(plans) != 1 {
		t.Fatalf("got %d plans, want 1", len(plans))
	}
	// 2-2 tie: portrait is encountered first in the sorted sequence
	if plans[0].Aspect != models.AspectPortrait {
		t.Errorf("aspect = %q, want portrait", plans[0].Aspect)
	}
}

func TestBuildCarouselPlansChunking(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	var media []models.MediaItem
	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("c%02d", i)
		media = append(media, mediaItem(id, "project-c", 1.0-float64(i)*0.01, models.AspectSquare, base.Add(time.Duration(i)*time.Minute)))
	}

	s := newTestCarouselService(nil)
	plans, err := s.BuildCarouselPlans(media, "instagram", nil)
	if err != nil {
		t.Fatal(err)
	}

	var sizes []int
	for _, p := range plans {
		sizes = append(sizes, len(p.MediaIDs))
	}
	if diff := cmp.Diff([]int{10, 10, 5}, sizes); diff != "" {
		t.Errorf("chunk sizes mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCarouselPlansDropsUndersizedTrailingChunk(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	var media []models.MediaItem
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("t%d", i)
		media = append(media, mediaItem(id, "project-t", 0.9-float64(i)*0.1, models.AspectSquare, base))
	}

	// twitter allows at most 4 assets, so 5 items chunk into [4, 1]
	// and the single-item remainder is discarded.
	s := newTestCarouselService(nil)
	plans, err := s.BuildCarouselPlans(media, "twitter", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(plans) != 1 {
		t.Fatalf("got %d plans, want 1", len(plans))
	}
	if len(plans[0].MediaIDs) != 4 {
		t.Errorf("plan size = %d, want 4", len(plans[0].MediaIDs))
	}
}

func TestBuildCarouselPlansSkipsSmallProjects(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	media := []models.MediaItem{
		mediaItem("only", "project-tiny", 0.99, models.AspectSquare, base),
	}

	s := newTestCarouselService(nil)
	plans, err := s.BuildCarouselPlans(media, "instagram", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(plans) != 0 {
		t.Errorf("got %d plans for a project below min assets, want 0", len(plans))
	}
}

func TestBuildCarouselPlansOrderingInvariant(t *testing.T) {
	s := newTestCarouselService(nil)
	plans, err := s.BuildCarouselPlans(projectAMedia(), "facebook", nil)
	if err != nil {
		t.Fatal(err)
	}

	byID := make(map[string]models.MediaItem)
	for _, m := range projectAMedia() {
		byID[m.ID] = m
	}

	for _, plan := range plans {
		if plan.CoverID != plan.MediaIDs[0] {
			t.Errorf("cover %q is not the first media id %q", plan.CoverID, plan.MediaIDs[0])
		}
		for i := 1; i < len(plan.MediaIDs); i++ {
			a, b := byID[plan.MediaIDs[i-1]], byID[plan.MediaIDs[i]]
			if a.CuratedScore < b.CuratedScore {
				t.Errorf("plan %s: %q (%.2f) ordered before %q (%.2f)", plan.ID, a.ID, a.CuratedScore, b.ID, b.CuratedScore)
			}
			if a.CuratedScore == b.CuratedScore && a.CreatedAt.Before(b.CreatedAt) {
				t.Errorf("plan %s: tie between %q and %q not broken by recency", plan.ID, a.ID, b.ID)
			}
		}
	}
}

func TestBuildCarouselPlansDeterministic(t *testing.T) {
	s := newTestCarouselService(nil)

	first, err := s.BuildCarouselPlans(projectAMedia(), "instagram", nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := s.BuildCarouselPlans(projectAMedia(), "instagram", nil)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("output changed between identical calls (-first +again):\n%s", diff)
		}
	}
}

func TestBuildCarouselPlansProjectOrder(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	var media []models.MediaItem
	// project-z arrives first in the pool despite sorting later
	// alphabetically; output must keep first-seen project order.
	for i := 0; i < 2; i++ {
		media = append(media, mediaItem(fmt.Sprintf("z%d", i), "project-z", 0.5, models.AspectSquare, base))
	}
	for i := 0; i < 2; i++ {
		media = append(media, mediaItem(fmt.Sprintf("a%d", i), "project-a", 0.9, models.AspectSquare, base))
	}

	s := newTestCarouselService(nil)
	plans, err := s.BuildCarouselPlans(media, "instagram", nil)
	if err != nil {
		t.Fatal(err)
	}

	var projects []string
	for _, p := range plans {
		projects = append(projects, p.ProjectID)
	}
	if diff := cmp.Diff([]string{"project-z", "project-a"}, projects); diff != "" {
		t.Errorf("project order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCarouselPlansConstraintsOverride(t *testing.T) {
	s := newTestCarouselService(nil)
	override := &models.PlatformConstraints{
		MaxAssets:         3,
		MinAssets:         2,
		SupportsCarousel:  true,
		PrefersSameAspect: false,
	}

	plans, err := s.BuildCarouselPlans(projectAMedia(), "instagram", override)
	if err != nil {
		t.Fatal(err)
	}

	var sizes []int
	for _, p := range plans {
		sizes = append(sizes, len(p.MediaIDs))
	}
	if diff := cmp.Diff([]int{3, 2}, sizes); diff != "" {
		t.Errorf("chunk sizes mismatch (-want +got):\n%s", diff)
	}
}

func TestGetCarouselDetail(t *testing.T) {
	media := projectAMedia()
	media[0].Tags = []string{"sunset", "city"}
	media[2].Tags = []string{"city", "rooftop"}

	s := newTestCarouselService(media)
	plans, err := s.BuildCarouselPlans(media, "instagram", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(plans) == 0 {
		t.Fatal("no plans built")
	}

	detail, err := s.GetCarouselDetail(context.Background(), &plans[0])
	if err != nil {
		t.Fatal(err)
	}

	if detail.CarouselID != plans[0].ID {
		t.Errorf("detail carousel id = %q, want %q", detail.CarouselID, plans[0].ID)
	}
	if len(detail.MediaURLs) != len(plans[0].MediaIDs) {
		t.Fatalf("got %d media urls, want %d", len(detail.MediaURLs), len(plans[0].MediaIDs))
	}
	wantURL := "https://cdn.example.com/curated/project-a/m1.jpg"
	if detail.MediaURLs[0] != wantURL {
		t.Errorf("first media url = %q, want %q", detail.MediaURLs[0], wantURL)
	}
	if detail.Caption != "project a" {
		t.Errorf("caption = %q, want %q", detail.Caption, "project a")
	}
	if diff := cmp.Diff([]string{"#sunset", "#city", "#rooftop"}, detail.Hashtags); diff != "" {
		t.Errorf("hashtags mismatch (-want +got):\n%s", diff)
	}
}
