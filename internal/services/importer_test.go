package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"learnhub-backend/internal/models"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Leadership Fundamentals", "leadership-fundamentals"},
		{"  Money & Mindset!  ", "money-mindset"},
		{"C++ for Managers?!", "c-for-managers"},
		{"---", ""},
		{"Уже не latin", "latin"},
	}

	for _, tt := range tests {
		got := Slugify(tt.input)
		if got != tt.expected {
			t.Errorf("Slugify(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatCourseDuration(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "0 minutes"},
		{45 * 60, "45 minutes"},
		{3600, "1h 0m"},
		{2*3600 + 5*60, "2h 5m"},
		{2*3600 + 5*60 + 59, "2h 5m"},
	}

	for _, tt := range tests {
		got := FormatCourseDuration(tt.seconds)
		if got != tt.expected {
			t.Errorf("FormatCourseDuration(%d) = %q, expected %q", tt.seconds, got, tt.expected)
		}
	}
}

func TestSelectVideos(t *testing.T) {
	available := []models.YouTubeVideo{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}

	selected := selectVideos([]string{"c", "missing", "a"}, available)

	if len(selected) != 2 {
		t.Fatalf("Expected 2 selected videos, got %d", len(selected))
	}
	// Request order wins, unknown ids are dropped
	if selected[0].ID != "c" || selected[1].ID != "a" {
		t.Errorf("Selection order wrong: %q, %q", selected[0].ID, selected[1].ID)
	}
}

func TestBuildLessons(t *testing.T) {
	moduleID := uuid.New()
	videos := []models.YouTubeVideo{
		{ID: "v1", Title: "Intro", Description: "Start here", Duration: "10:00"},
		{ID: "v2", Title: "Deep dive", Duration: "1:02:03"},
		{ID: "v3", Title: "Wrap up", Duration: "0:45"},
	}

	lessons := buildLessons(moduleID, videos)

	if len(lessons) != 3 {
		t.Fatalf("Expected 3 lessons, got %d", len(lessons))
	}

	expectedSeconds := []int{600, 3723, 45}
	for i, lesson := range lessons {
		if lesson.ModuleID != moduleID {
			t.Errorf("Lesson %d has wrong module id", i)
		}
		if lesson.SortOrder != i {
			t.Errorf("Lesson %d: expected sort order %d, got %d", i, i, lesson.SortOrder)
		}
		if lesson.YouTubeVideoID == nil || *lesson.YouTubeVideoID != videos[i].ID {
			t.Errorf("Lesson %d not linked to video %q", i, videos[i].ID)
		}
		if lesson.VideoURL == nil || *lesson.VideoURL != watchURLPrefix+videos[i].ID {
			t.Errorf("Lesson %d missing watch url for %q", i, videos[i].ID)
		}
		if lesson.Duration == nil || *lesson.Duration != videos[i].Duration {
			t.Errorf("Lesson %d: duration not carried over", i)
		}
		if lesson.DurationSeconds != expectedSeconds[i] {
			t.Errorf("Lesson %d: expected %d seconds, got %d", i, expectedSeconds[i], lesson.DurationSeconds)
		}
		if lesson.IsFree != (i == 0) {
			t.Errorf("Lesson %d: only the first lesson may be free", i)
		}
		if lesson.IsLocked != (i != 0) {
			t.Errorf("Lesson %d: every lesson but the first must be locked", i)
		}
	}

	if lessons[0].Description == nil || *lessons[0].Description != "Start here" {
		t.Error("Non-empty description must be carried over")
	}
	if lessons[1].Description != nil {
		t.Error("Empty description must map to nil")
	}
}

func TestBuildLessons_Empty(t *testing.T) {
	if lessons := buildLessons(uuid.New(), nil); len(lessons) != 0 {
		t.Errorf("Expected no lessons for no videos, got %d", len(lessons))
	}
}

func TestFlattenThreads(t *testing.T) {
	importedAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	threads := []models.YouTubeCommentThread{
		{
			ID: "t1",
			TopLevelComment: models.YouTubeComment{
				ID: "top1", VideoID: "vid1", Text: "first",
			},
			Replies: []models.YouTubeComment{
				{ID: "r1", VideoID: "vid1", Text: "reply one"},
				{ID: "r2", VideoID: "vid1", Text: "reply two"},
			},
		},
		{
			ID: "t2",
			TopLevelComment: models.YouTubeComment{
				ID: "top2", VideoID: "vid1", Text: "second",
			},
		},
	}

	rows := flattenThreads(threads, importedAt)

	if len(rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(rows))
	}
	if rows[0].ID != "top1" || rows[0].ParentID != nil {
		t.Errorf("Top-level comment must come first without a parent: %+v", rows[0])
	}
	if rows[1].ID != "r1" || rows[1].ParentID == nil || *rows[1].ParentID != "top1" {
		t.Errorf("Reply must carry its thread's top-level id: %+v", rows[1])
	}
	if rows[3].ID != "top2" || rows[3].ParentID != nil {
		t.Errorf("Second thread mapped wrong: %+v", rows[3])
	}
	for i, row := range rows {
		if !row.ImportedAt.Equal(importedAt) {
			t.Errorf("Row %d missing import timestamp", i)
		}
	}
}

func TestFlattenThreads_Empty(t *testing.T) {
	if rows := flattenThreads(nil, time.Now()); len(rows) != 0 {
		t.Errorf("Expected no rows for no threads, got %d", len(rows))
	}
}
