package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"learnhub-backend/internal/models"
)

type InstructorRepo struct {
	pool *pgxpool.Pool
}

func NewInstructorRepo(pool *pgxpool.Pool) *InstructorRepo {
	return &InstructorRepo{pool: pool}
}

// UpsertByName creates the instructor or returns the existing row for the
// name. Profile fields are only filled when the row is new; repeat imports
// never overwrite an instructor someone may have edited.
func (r *InstructorRepo) UpsertByName(ctx context.Context, name string, title, bio, avatar *string) (*models.Instructor, error) {
	inst := &models.Instructor{Name: name}

	query := `INSERT INTO instructors (id, name, title, bio, avatar)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, title, bio, avatar, created_at`

	err := r.pool.QueryRow(ctx, query, uuid.New(), name, title, bio, avatar).Scan(
		&inst.ID, &inst.Name, &inst.Title, &inst.Bio, &inst.Avatar, &inst.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return inst, nil
}

func (r *InstructorRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Instructor, error) {
	inst := &models.Instructor{}
	query := `SELECT id, name, title, bio, avatar, created_at FROM instructors WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&inst.ID, &inst.Name, &inst.Title, &inst.Bio, &inst.Avatar, &inst.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return inst, nil
}
