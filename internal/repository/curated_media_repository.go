package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/lib/pq"

	"github.com/altamedia/contentflow/internal/models"
)

type CuratedMediaRepository interface {
	ListCurated(ctx context.Context) ([]models.MediaItem, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.MediaItem, error)
}

type curatedMediaRepository struct {
	db *sql.DB
}

func NewCuratedMediaRepository(db *sql.DB) CuratedMediaRepository {
	return &curatedMediaRepository{db: db}
}

// ListCurated returns the whole curated pool in ingest order, so that
// project grouping downstream sees projects in first-seen order.
func (r *curatedMediaRepository) ListCurated(ctx context.Context) ([]models.MediaItem, error) {
	query := `
		SELECT id, project_id, path, curated_score, aspect, tags, created_at
		FROM curated_media
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var items []models.MediaItem
	for rows.Next() {
		var m models.MediaItem
		err := rows.Scan(&m.ID, &m.ProjectID, &m.Path, &m.CuratedScore, &m.Aspect, &m.Tags, &m.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// GetByIDs fetches the given media items, preserving the order of ids.
func (r *curatedMediaRepository) GetByIDs(ctx context.Context, ids []string) ([]models.MediaItem, error) {
	query := `
		SELECT id, project_id, path, curated_score, aspect, tags, created_at
		FROM curated_media
		WHERE id = ANY($1)
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]models.MediaItem, len(ids))
	for rows.Next() {
		var m models.MediaItem
		err := rows.Scan(&m.ID, &m.ProjectID, &m.Path, &m.CuratedScore, &m.Aspect, &m.Tags, &m.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		byID[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items := make([]models.MediaItem, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			items = append(items, m)
		}
	}
	return items, nil
}
