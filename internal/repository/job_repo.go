package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"learnhub-backend/internal/models"
)

type JobRepo struct {
	pool *pgxpool.Pool
}

func NewJobRepo(pool *pgxpool.Pool) *JobRepo {
	return &JobRepo{pool: pool}
}

func (r *JobRepo) Create(ctx context.Context, j *models.Job) error {
	j.ID = uuid.New()
	j.Status = "pending"

	payload := j.PayloadJSON
	if payload == nil {
		payload = json.RawMessage("{}")
	}

	query := `INSERT INTO jobs (id, user_id, type, payload_json, status)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		j.ID, j.UserID, j.Type, payload, j.Status,
	).Scan(&j.CreatedAt)
}

func (r *JobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	j := &models.Job{}
	query := `SELECT id, user_id, type, payload_json, result_json, status, error_message, created_at, completed_at
		FROM jobs WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&j.ID, &j.UserID, &j.Type, &j.PayloadJSON, &j.ResultJSON,
		&j.Status, &j.ErrorMessage, &j.CreatedAt, &j.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (r *JobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := "UPDATE jobs SET status = $1 WHERE id = $2"
	if status == "completed" || status == "failed" {
		now := time.Now()
		query = "UPDATE jobs SET status = $1, completed_at = $2 WHERE id = $3"
		_, err := r.pool.Exec(ctx, query, status, now, id)
		return err
	}
	_, err := r.pool.Exec(ctx, query, status, id)
	return err
}

// Complete stores the job result and stamps completion in one update.
func (r *JobRepo) Complete(ctx context.Context, id uuid.UUID, result json.RawMessage) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE jobs SET status = 'completed', result_json = $1, completed_at = $2 WHERE id = $3",
		result, time.Now(), id,
	)
	return err
}

func (r *JobRepo) Fail(ctx context.Context, id uuid.UUID, errMsg string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE jobs SET status = 'failed', error_message = $1, completed_at = $2 WHERE id = $3",
		errMsg, time.Now(), id,
	)
	return err
}

// ListByUser returns a user's recent jobs newest-first.
func (r *JobRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Job, error) {
	query := `SELECT id, user_id, type, payload_json, result_json, status, error_message, created_at, completed_at
		FROM jobs WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]*models.Job, 0)
	for rows.Next() {
		j := &models.Job{}
		if err := rows.Scan(
			&j.ID, &j.UserID, &j.Type, &j.PayloadJSON, &j.ResultJSON,
			&j.Status, &j.ErrorMessage, &j.CreatedAt, &j.CompletedAt,
		); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}

	return jobs, rows.Err()
}
