package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"learnhub-backend/internal/models"
)

type CourseRepo struct {
	pool *pgxpool.Pool
}

func NewCourseRepo(pool *pgxpool.Pool) *CourseRepo {
	return &CourseRepo{pool: pool}
}

// CreateTx inserts the course inside the caller's transaction so a failed
// module or lesson insert rolls the whole import back.
func (r *CourseRepo) CreateTx(ctx context.Context, tx pgx.Tx, c *models.Course) error {
	c.ID = uuid.New()

	query := `INSERT INTO courses
			(id, slug, title, description, short_description, thumbnail, instructor_id,
			 category, level, duration, total_lessons, status, is_featured, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`

	return tx.QueryRow(ctx, query,
		c.ID, c.Slug, c.Title, c.Description, c.ShortDescription, c.Thumbnail,
		c.InstructorID, c.Category, c.Level, c.Duration, c.TotalLessons,
		c.Status, c.IsFeatured, c.PublishedAt,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *CourseRepo) CreateModuleTx(ctx context.Context, tx pgx.Tx, m *models.Module) error {
	m.ID = uuid.New()

	query := `INSERT INTO modules (id, course_id, title, description, sort_order)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at`

	return tx.QueryRow(ctx, query,
		m.ID, m.CourseID, m.Title, m.Description, m.SortOrder,
	).Scan(&m.CreatedAt)
}

func (r *CourseRepo) CreateLessonsTx(ctx context.Context, tx pgx.Tx, lessons []models.Lesson) error {
	query := `INSERT INTO lessons
			(id, module_id, youtube_video_id, title, description, video_url,
			 duration, duration_seconds, sort_order, is_free, is_locked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	batch := &pgx.Batch{}
	for i := range lessons {
		lessons[i].ID = uuid.New()
		l := lessons[i]
		batch.Queue(query,
			l.ID, l.ModuleID, l.YouTubeVideoID, l.Title, l.Description, l.VideoURL,
			l.Duration, l.DurationSeconds, l.SortOrder, l.IsFree, l.IsLocked,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for range lessons {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// List returns courses filtered by status ("" means all), with optional
// title/description search, sorted and paged. Valid sortBy values are
// "newest", "oldest", "title" and "featured"; anything else means newest.
func (r *CourseRepo) List(ctx context.Context, status, search, sortBy string, limit, offset int) ([]*models.Course, int, error) {
	var args []interface{}
	argIdx := 1

	where := "WHERE 1=1"
	if status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}
	if search != "" {
		where += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+search+"%")
		argIdx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM courses "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "created_at DESC"
	switch sortBy {
	case "oldest":
		orderBy = "created_at ASC"
	case "title":
		orderBy = "title ASC"
	case "featured":
		orderBy = "is_featured DESC, created_at DESC"
	}

	query := fmt.Sprintf(`SELECT id, slug, title, description, short_description, thumbnail,
			instructor_id, category, level, duration, total_lessons, status, is_featured,
			published_at, created_at, updated_at
		FROM courses %s ORDER BY %s LIMIT $%d OFFSET $%d`, where, orderBy, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		c := &models.Course{}
		if err := scanCourse(rows, c); err != nil {
			return nil, 0, err
		}
		courses = append(courses, c)
	}

	return courses, total, rows.Err()
}

// GetBySlug loads the full course page payload: course, instructor and the
// module tree with lessons in sort order.
func (r *CourseRepo) GetBySlug(ctx context.Context, slug string) (*models.CourseDetail, error) {
	detail := &models.CourseDetail{}

	query := `SELECT id, slug, title, description, short_description, thumbnail,
			instructor_id, category, level, duration, total_lessons, status, is_featured,
			published_at, created_at, updated_at
		FROM courses WHERE slug = $1`

	if err := scanCourse(r.pool.QueryRow(ctx, query, slug), &detail.Course); err != nil {
		return nil, err
	}

	if detail.InstructorID != nil {
		inst := &models.Instructor{}
		err := r.pool.QueryRow(ctx,
			"SELECT id, name, title, bio, avatar, created_at FROM instructors WHERE id = $1",
			*detail.InstructorID,
		).Scan(&inst.ID, &inst.Name, &inst.Title, &inst.Bio, &inst.Avatar, &inst.CreatedAt)
		if err != nil && err != pgx.ErrNoRows {
			return nil, err
		}
		if err == nil {
			detail.Instructor = inst
		}
	}

	modules, err := r.loadModules(ctx, detail.ID)
	if err != nil {
		return nil, err
	}
	detail.Modules = modules

	return detail, nil
}

func (r *CourseRepo) loadModules(ctx context.Context, courseID uuid.UUID) ([]models.ModuleWithLessons, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, course_id, title, description, sort_order, created_at
		 FROM modules WHERE course_id = $1 ORDER BY sort_order`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	modules := make([]models.ModuleWithLessons, 0)
	for rows.Next() {
		var m models.ModuleWithLessons
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Title, &m.Description, &m.SortOrder, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Lessons = make([]models.Lesson, 0)
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range modules {
		lessonRows, err := r.pool.Query(ctx,
			`SELECT id, module_id, youtube_video_id, title, description, video_url,
				duration, duration_seconds, sort_order, is_free, is_locked, created_at
			 FROM lessons WHERE module_id = $1 ORDER BY sort_order`, modules[i].ID)
		if err != nil {
			return nil, err
		}
		for lessonRows.Next() {
			var l models.Lesson
			if err := lessonRows.Scan(
				&l.ID, &l.ModuleID, &l.YouTubeVideoID, &l.Title, &l.Description, &l.VideoURL,
				&l.Duration, &l.DurationSeconds, &l.SortOrder, &l.IsFree, &l.IsLocked, &l.CreatedAt,
			); err != nil {
				lessonRows.Close()
				return nil, err
			}
			modules[i].Lessons = append(modules[i].Lessons, l)
		}
		lessonRows.Close()
		if err := lessonRows.Err(); err != nil {
			return nil, err
		}
	}

	return modules, nil
}

func (r *CourseRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	var publishedAt *time.Time
	if status == "published" {
		now := time.Now()
		publishedAt = &now
	}

	_, err := r.pool.Exec(ctx,
		`UPDATE courses SET status = $1,
			published_at = COALESCE($2, published_at),
			updated_at = NOW()
		 WHERE id = $3`,
		status, publishedAt, id)
	return err
}

func (r *CourseRepo) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE courses SET is_featured = $1, updated_at = NOW() WHERE id = $2", featured, id)
	return err
}

// Delete removes the course; modules and lessons go with it via cascade.
func (r *CourseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM courses WHERE id = $1", id)
	return err
}

func scanCourse(row pgx.Row, c *models.Course) error {
	return row.Scan(
		&c.ID, &c.Slug, &c.Title, &c.Description, &c.ShortDescription, &c.Thumbnail,
		&c.InstructorID, &c.Category, &c.Level, &c.Duration, &c.TotalLessons,
		&c.Status, &c.IsFeatured, &c.PublishedAt, &c.CreatedAt, &c.UpdatedAt,
	)
}
