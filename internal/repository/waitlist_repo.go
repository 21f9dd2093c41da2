package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"learnhub-backend/internal/models"
)

// ErrDuplicateEmail is returned when the waitlist already has the address.
var ErrDuplicateEmail = errors.New("email already on waitlist")

type WaitlistRepo struct {
	pool *pgxpool.Pool
}

func NewWaitlistRepo(pool *pgxpool.Pool) *WaitlistRepo {
	return &WaitlistRepo{pool: pool}
}

func (r *WaitlistRepo) Add(ctx context.Context, email string, name *string) (*models.WaitlistEntry, error) {
	entry := &models.WaitlistEntry{
		ID:    uuid.New(),
		Email: email,
		Name:  name,
	}

	err := r.pool.QueryRow(ctx,
		"INSERT INTO waitlist (id, email, name) VALUES ($1, $2, $3) RETURNING created_at",
		entry.ID, entry.Email, entry.Name,
	).Scan(&entry.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return entry, nil
}

func (r *WaitlistRepo) List(ctx context.Context, limit, offset int) ([]*models.WaitlistEntry, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM waitlist").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		"SELECT id, email, name, created_at FROM waitlist ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]*models.WaitlistEntry, 0)
	for rows.Next() {
		e := &models.WaitlistEntry{}
		if err := rows.Scan(&e.ID, &e.Email, &e.Name, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}

	return entries, total, rows.Err()
}
