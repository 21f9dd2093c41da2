package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"learnhub-backend/internal/models"
)

const commentInsertBatchSize = 100

type CommentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{pool: pool}
}

// InsertBatch writes comments in batches of 100, skipping ids that already
// exist. Returns how many rows were attempted.
func (r *CommentRepo) InsertBatch(ctx context.Context, comments []models.StoredComment) (int, error) {
	query := `INSERT INTO youtube_comments
			(id, video_id, parent_id, author_name, author_profile_image, author_channel_id,
			 text, text_display, like_count, reply_count, published_at, updated_at, imported_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO NOTHING`

	for start := 0; start < len(comments); start += commentInsertBatchSize {
		end := start + commentInsertBatchSize
		if end > len(comments) {
			end = len(comments)
		}

		batch := &pgx.Batch{}
		for _, c := range comments[start:end] {
			batch.Queue(query,
				c.ID, c.VideoID, c.ParentID, c.AuthorName, c.AuthorProfileImage,
				c.AuthorChannelID, c.Text, c.TextDisplay, c.LikeCount, c.ReplyCount,
				c.PublishedAt, c.UpdatedAt, c.ImportedAt,
			)
		}

		results := r.pool.SendBatch(ctx, batch)
		for i := start; i < end; i++ {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return start, err
			}
		}
		if err := results.Close(); err != nil {
			return start, err
		}
	}

	return len(comments), nil
}

// ListByVideo returns a video's comments by descending like count.
func (r *CommentRepo) ListByVideo(ctx context.Context, videoID string, limit, offset int) ([]*models.StoredComment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM youtube_comments WHERE video_id = $1", videoID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, video_id, parent_id, author_name, author_profile_image, author_channel_id,
			text, text_display, like_count, reply_count, published_at, updated_at, imported_at
		FROM youtube_comments
		WHERE video_id = $1
		ORDER BY like_count DESC, published_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, videoID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	comments := make([]*models.StoredComment, 0)
	for rows.Next() {
		c := &models.StoredComment{}
		if err := rows.Scan(
			&c.ID, &c.VideoID, &c.ParentID, &c.AuthorName, &c.AuthorProfileImage,
			&c.AuthorChannelID, &c.Text, &c.TextDisplay, &c.LikeCount, &c.ReplyCount,
			&c.PublishedAt, &c.UpdatedAt, &c.ImportedAt,
		); err != nil {
			return nil, 0, err
		}
		comments = append(comments, c)
	}

	return comments, total, rows.Err()
}

func (r *CommentRepo) CountByVideo(ctx context.Context, videoID string) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM youtube_comments WHERE video_id = $1", videoID,
	).Scan(&total)
	return total, err
}
