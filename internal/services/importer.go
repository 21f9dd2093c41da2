package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"learnhub-backend/internal/models"
	"learnhub-backend/internal/repository"
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

// ImportService promotes a selection of fetched videos into a published
// course: one module, one lesson per video, instructor resolved by name.
type ImportService struct {
	pool        *pgxpool.Pool
	videos      *repository.VideoRepo
	comments    *repository.CommentRepo
	instructors *repository.InstructorRepo
	courses     *repository.CourseRepo
	now         func() time.Time
}

func NewImportService(
	pool *pgxpool.Pool,
	videos *repository.VideoRepo,
	comments *repository.CommentRepo,
	instructors *repository.InstructorRepo,
	courses *repository.CourseRepo,
) *ImportService {
	return &ImportService{
		pool:        pool,
		videos:      videos,
		comments:    comments,
		instructors: instructors,
		courses:     courses,
		now:         time.Now,
	}
}

// CreateCourseFromVideos builds a course out of the requested video ids.
// Video rows and the instructor are upserted first; the course, its single
// module and its lessons are created inside one transaction so a partial
// course can never be observed.
func (s *ImportService) CreateCourseFromVideos(ctx context.Context, req models.CourseImportRequest, available []models.YouTubeVideo) (*models.CourseImportResult, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &ValidationError{Fields: map[string]string{"title": "Title is required"}}
	}
	if len(req.VideoIDs) == 0 {
		return nil, &ValidationError{Fields: map[string]string{"video_ids": "At least one video is required"}}
	}

	selected := selectVideos(req.VideoIDs, available)
	if len(selected) == 0 {
		return nil, &NotFoundError{Message: "None of the requested videos are in the current channel snapshot"}
	}

	syncedAt := s.now()
	if err := s.videos.UpsertBatch(ctx, selected, syncedAt); err != nil {
		return nil, fmt.Errorf("failed to store videos: %w", err)
	}

	instructorName := req.InstructorName
	if instructorName == "" {
		instructorName = selected[0].ChannelTitle
	}
	if instructorName == "" {
		instructorName = "Unknown Instructor"
	}

	avatar := selected[0].ThumbnailHigh
	instructor, err := s.instructors.UpsertByName(ctx, instructorName,
		optional(req.InstructorTitle), optional(req.InstructorBio), optional(avatar))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve instructor: %w", err)
	}

	totalSeconds := 0
	for _, v := range selected {
		totalSeconds += DurationToSeconds(v.Duration)
	}
	duration := FormatCourseDuration(totalSeconds)
	slug := Slugify(req.Title) + "-" + strconv.FormatInt(syncedAt.UnixMilli(), 36)
	publishedAt := syncedAt

	course := &models.Course{
		Slug:         slug,
		Title:        req.Title,
		Description:  optional(req.Description),
		Thumbnail:    optional(selected[0].ThumbnailHigh),
		InstructorID: &instructor.ID,
		Category:     optional(req.Category),
		Level:        optional(req.Level),
		Duration:     &duration,
		TotalLessons: len(selected),
		Status:       "published",
		PublishedAt:  &publishedAt,
	}
	if req.ShortDescription != "" {
		course.ShortDescription = optional(req.ShortDescription)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.courses.CreateTx(ctx, tx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	module := &models.Module{
		CourseID:  course.ID,
		Title:     "Course Content",
		SortOrder: 0,
	}
	if err := s.courses.CreateModuleTx(ctx, tx, module); err != nil {
		return nil, fmt.Errorf("failed to create module: %w", err)
	}

	lessons := buildLessons(module.ID, selected)
	if err := s.courses.CreateLessonsTx(ctx, tx, lessons); err != nil {
		return nil, fmt.Errorf("failed to create lessons: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}

	log.Printf("Imported course %q (%s) with %d lessons", course.Title, course.Slug, len(lessons))

	return &models.CourseImportResult{
		CourseID:       course.ID,
		CourseSlug:     course.Slug,
		LessonsCreated: len(lessons),
	}, nil
}

// ImportVideoComments flattens fetched threads into rows and inserts them,
// skipping comments that were imported before.
func (s *ImportService) ImportVideoComments(ctx context.Context, videoID string, threads []models.YouTubeCommentThread) (int, error) {
	rows := flattenThreads(threads, s.now())
	if len(rows) == 0 {
		return 0, nil
	}

	inserted, err := s.comments.InsertBatch(ctx, rows)
	if err != nil {
		return inserted, fmt.Errorf("failed to store comments for video %s: %w", videoID, err)
	}
	return inserted, nil
}

// buildLessons maps selected videos onto lessons in selection order. Sort
// order is dense and zero-based; only the first lesson is a free preview,
// the rest stay locked.
func buildLessons(moduleID uuid.UUID, videos []models.YouTubeVideo) []models.Lesson {
	lessons := make([]models.Lesson, len(videos))
	for i, v := range videos {
		videoID := v.ID
		videoURL := watchURLPrefix + v.ID
		duration := v.Duration
		lessons[i] = models.Lesson{
			ModuleID:        moduleID,
			YouTubeVideoID:  &videoID,
			Title:           v.Title,
			Description:     optional(v.Description),
			VideoURL:        &videoURL,
			Duration:        &duration,
			DurationSeconds: DurationToSeconds(v.Duration),
			SortOrder:       i,
			IsFree:          i == 0,
			IsLocked:        i != 0,
		}
	}
	return lessons
}

// selectVideos keeps only the requested ids, in the order they were
// requested. Unknown ids are dropped silently; the operator picked them
// from a snapshot that may have refreshed since.
func selectVideos(ids []string, available []models.YouTubeVideo) []models.YouTubeVideo {
	byID := make(map[string]models.YouTubeVideo, len(available))
	for _, v := range available {
		byID[v.ID] = v
	}

	selected := make([]models.YouTubeVideo, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			selected = append(selected, v)
		}
	}
	return selected
}

// flattenThreads turns threads into insertable rows: the top-level comment
// first, then its replies carrying the parent id.
func flattenThreads(threads []models.YouTubeCommentThread, importedAt time.Time) []models.StoredComment {
	var rows []models.StoredComment
	for _, t := range threads {
		parentID := t.TopLevelComment.ID
		rows = append(rows, models.StoredComment{
			YouTubeComment: t.TopLevelComment,
			ImportedAt:     importedAt,
		})
		for _, reply := range t.Replies {
			pid := parentID
			rows = append(rows, models.StoredComment{
				YouTubeComment: reply,
				ParentID:       &pid,
				ImportedAt:     importedAt,
			})
		}
	}
	return rows
}

// FormatCourseDuration renders total seconds as "2h 5m", or "45 minutes"
// for sub-hour courses.
func FormatCourseDuration(totalSeconds int) string {
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%d minutes", minutes)
}

var slugCleanup = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the title and collapses non-alphanumeric runs into
// single hyphens. Callers append a uniqueness suffix.
func Slugify(title string) string {
	slug := slugCleanup.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
