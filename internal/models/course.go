package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID               uuid.UUID  `json:"id"`
	Slug             string     `json:"slug"`
	Title            string     `json:"title"`
	Description      *string    `json:"description"`
	ShortDescription *string    `json:"short_description"`
	Thumbnail        *string    `json:"thumbnail"`
	InstructorID     *uuid.UUID `json:"instructor_id"`
	Category         *string    `json:"category"`
	Level            *string    `json:"level"` // Beginner | Intermediate | Advanced
	Duration         *string    `json:"duration"`
	TotalLessons     int        `json:"total_lessons"`
	Status           string     `json:"status"` // draft | published | archived
	IsFeatured       bool       `json:"is_featured"`
	PublishedAt      *time.Time `json:"published_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type Module struct {
	ID          uuid.UUID `json:"id"`
	CourseID    uuid.UUID `json:"course_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}

type Lesson struct {
	ID              uuid.UUID `json:"id"`
	ModuleID        uuid.UUID `json:"module_id"`
	YouTubeVideoID  *string   `json:"youtube_video_id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description"`
	VideoURL        *string   `json:"video_url"`
	Duration        *string   `json:"duration"`
	DurationSeconds int       `json:"duration_seconds"`
	SortOrder       int       `json:"sort_order"`
	IsFree          bool      `json:"is_free"`
	IsLocked        bool      `json:"is_locked"`
	CreatedAt       time.Time `json:"created_at"`
}

type ModuleWithLessons struct {
	Module
	Lessons []Lesson `json:"lessons"`
}

// CourseDetail is the learner-facing course page payload.
type CourseDetail struct {
	Course
	Instructor *Instructor         `json:"instructor,omitempty"`
	Modules    []ModuleWithLessons `json:"modules"`
}

// CourseImportRequest is the admin payload for promoting a selected video
// set into a published course.
type CourseImportRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"short_description,omitempty"`
	Category         string   `json:"category,omitempty"`
	Level            string   `json:"level,omitempty"`
	InstructorName   string   `json:"instructor_name,omitempty"`
	InstructorTitle  string   `json:"instructor_title,omitempty"`
	InstructorBio    string   `json:"instructor_bio,omitempty"`
	VideoIDs         []string `json:"video_ids"`
	ImportComments   bool     `json:"import_comments,omitempty"`
}

type CourseImportResult struct {
	CourseID       uuid.UUID `json:"course_id"`
	CourseSlug     string    `json:"course_slug"`
	LessonsCreated int       `json:"lessons_created"`
}
