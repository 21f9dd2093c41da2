package repository

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"learnhub-backend/internal/models"
)

type VideoRepo struct {
	pool *pgxpool.Pool
}

func NewVideoRepo(pool *pgxpool.Pool) *VideoRepo {
	return &VideoRepo{pool: pool}
}

// UpsertBatch writes fetched videos. Volatile fields (title, counts,
// thumbnails, duration) are refreshed on conflict along with last_synced_at;
// imported_at keeps its original value.
func (r *VideoRepo) UpsertBatch(ctx context.Context, videos []models.YouTubeVideo, syncedAt time.Time) error {
	if len(videos) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `INSERT INTO youtube_videos
			(id, title, description, thumbnail, thumbnail_high, published_at, duration,
			 duration_seconds, view_count, like_count, comment_count, channel_title,
			 tags, category_id, imported_at, last_synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			thumbnail = EXCLUDED.thumbnail,
			thumbnail_high = EXCLUDED.thumbnail_high,
			duration = EXCLUDED.duration,
			duration_seconds = EXCLUDED.duration_seconds,
			view_count = EXCLUDED.view_count,
			like_count = EXCLUDED.like_count,
			comment_count = EXCLUDED.comment_count,
			tags = EXCLUDED.tags,
			category_id = EXCLUDED.category_id,
			last_synced_at = EXCLUDED.last_synced_at`

	for _, v := range videos {
		batch.Queue(query,
			v.ID, v.Title, v.Description, v.Thumbnail, v.ThumbnailHigh, v.PublishedAt,
			v.Duration, durationSeconds(v.Duration),
			v.ViewCount, v.LikeCount, v.CommentCount, v.ChannelTitle,
			v.Tags, v.CategoryID, syncedAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range videos {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (r *VideoRepo) GetByID(ctx context.Context, id string) (*models.StoredVideo, error) {
	v := &models.StoredVideo{}
	query := `SELECT id, title, description, thumbnail, thumbnail_high, published_at,
			duration, duration_seconds, view_count, like_count, comment_count,
			channel_title, tags, category_id, imported_at, last_synced_at, is_active
		FROM youtube_videos WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.Title, &v.Description, &v.Thumbnail, &v.ThumbnailHigh, &v.PublishedAt,
		&v.Duration, &v.DurationSeconds, &v.ViewCount, &v.LikeCount, &v.CommentCount,
		&v.ChannelTitle, &v.Tags, &v.CategoryID, &v.ImportedAt, &v.LastSyncedAt, &v.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// List returns imported videos newest-first with the total count for paging.
func (r *VideoRepo) List(ctx context.Context, limit, offset int) ([]*models.StoredVideo, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM youtube_videos WHERE is_active = TRUE").Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, title, description, thumbnail, thumbnail_high, published_at,
			duration, duration_seconds, view_count, like_count, comment_count,
			channel_title, tags, category_id, imported_at, last_synced_at, is_active
		FROM youtube_videos
		WHERE is_active = TRUE
		ORDER BY published_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	videos := make([]*models.StoredVideo, 0)
	for rows.Next() {
		v := &models.StoredVideo{}
		if err := rows.Scan(
			&v.ID, &v.Title, &v.Description, &v.Thumbnail, &v.ThumbnailHigh, &v.PublishedAt,
			&v.Duration, &v.DurationSeconds, &v.ViewCount, &v.LikeCount, &v.CommentCount,
			&v.ChannelTitle, &v.Tags, &v.CategoryID, &v.ImportedAt, &v.LastSyncedAt, &v.IsActive,
		); err != nil {
			return nil, 0, err
		}
		videos = append(videos, v)
	}

	return videos, total, rows.Err()
}

func (r *VideoRepo) Deactivate(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, "UPDATE youtube_videos SET is_active = FALSE WHERE id = $1", id)
	return err
}

// durationSeconds decodes the formatted "H:MM:SS" / "M:SS" duration for the
// duration_seconds column.
func durationSeconds(duration string) int {
	total := 0
	for _, part := range strings.Split(duration, ":") {
		n, _ := strconv.Atoi(part)
		total = total*60 + n
	}
	return total
}
