package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/altamedia/contentflow/internal/models"
)

type CarouselUsageRepository interface {
	GetRecentlyUsed(ctx context.Context, windowDays int) ([]*models.CarouselUsage, error)
	GetUsedInPeriod(ctx context.Context, platform string, start, end time.Time) ([]*models.CarouselUsage, error)
	TrackUsage(ctx context.Context, carouselID, theme, platform string) error
}

type carouselUsageRepository struct {
	db *sql.DB
}

func NewCarouselUsageRepository(db *sql.DB) CarouselUsageRepository {
	return &carouselUsageRepository{db: db}
}

// TrackUsage appends one usage row. A planning run is single-writer, so
// no locking happens here; if concurrent overlapping runs ever become a
// deployment reality, the check-and-record pair must be made atomic at
// this boundary (transaction or unique constraint per assignment window).
func (r *carouselUsageRepository) TrackUsage(ctx context.Context, carouselID, theme, platform string) error {
	query := `
		INSERT INTO carousel_usage (carousel_id, theme, platform, used_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err := r.db.ExecContext(ctx, query, carouselID, theme, platform)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *carouselUsageRepository) GetRecentlyUsed(ctx context.Context, windowDays int) ([]*models.CarouselUsage, error) {
	query := `
		SELECT id, carousel_id, theme, platform, used_at,
		       COUNT(*) OVER (PARTITION BY carousel_id, platform) AS usage_count,
		       MAX(used_at) OVER (PARTITION BY carousel_id, platform) AS last_used
		FROM carousel_usage
		WHERE used_at >= $1
		ORDER BY used_at DESC
	`

	cutoff := time.Now().AddDate(0, 0, -windowDays)
	return r.queryUsage(ctx, query, cutoff)
}

func (r *carouselUsageRepository) GetUsedInPeriod(ctx context.Context, platform string, start, end time.Time) ([]*models.CarouselUsage, error) {
	query := `
		SELECT id, carousel_id, theme, platform, used_at,
		       COUNT(*) OVER (PARTITION BY carousel_id, platform) AS usage_count,
		       MAX(used_at) OVER (PARTITION BY carousel_id, platform) AS last_used
		FROM carousel_usage
		WHERE platform = $1 AND used_at >= $2 AND used_at < $3
		ORDER BY used_at DESC
	`

	return r.queryUsage(ctx, query, platform, start, end)
}

func (r *carouselUsageRepository) queryUsage(ctx context.Context, query string, args ...any) ([]*models.CarouselUsage, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var usages []*models.CarouselUsage
	for rows.Next() {
		var u models.CarouselUsage
		err := rows.Scan(&u.ID, &u.CarouselID, &u.Theme, &u.Platform, &u.UsedAt, &u.UsageCount, &u.LastUsed)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		usages = append(usages, &u)
	}
	return usages, rows.Err()
}
