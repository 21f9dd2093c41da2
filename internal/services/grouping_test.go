package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"learnhub-backend/internal/models"
)

func TestBuildGroupingPrompt(t *testing.T) {
	videos := []models.YouTubeVideo{
		{
			ID:          "vid1",
			Title:       "Negotiation Tactics",
			Description: strings.Repeat("x", 500),
			Duration:    "12:34",
			ViewCount:   9000,
		},
		{ID: "vid2", Title: "Budgeting 101", Duration: "5:00", ViewCount: 100},
	}

	prompt := buildGroupingPrompt(videos)

	if !strings.Contains(prompt, "Analyze 2 YouTube videos") {
		t.Error("Prompt missing video count")
	}
	if !strings.Contains(prompt, `vid1: "Negotiation Tactics"`) {
		t.Error("Prompt missing video line")
	}
	if !strings.Contains(prompt, "12:34 | 9000 views") {
		t.Error("Prompt missing duration and views")
	}
	if strings.Contains(prompt, strings.Repeat("x", 101)) {
		t.Error("Description excerpt not truncated")
	}
	if !strings.Contains(prompt, "Each video in ONE course only") {
		t.Error("Prompt missing grouping rules")
	}
	if !strings.Contains(prompt, "Personal Development, Psychology, Business, Leadership, Finance, Health & Wellness, Technology") {
		t.Error("Prompt missing category vocabulary")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"short string untouched", "hello", 10, "hello"},
		{"exact length untouched", "hello", 5, "hello"},
		{"ascii cut", "hello world", 5, "hello"},
		{"cyrillic cut counts runes", strings.Repeat("ф", 120), 100, strings.Repeat("ф", 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.max)
			if got != tt.expected {
				t.Errorf("truncate(%q, %d) = %q, expected %q", tt.input, tt.max, got, tt.expected)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate produced invalid UTF-8: %q", got)
			}
		})
	}
}

func TestBuildGroupingPrompt_MultibyteDescription(t *testing.T) {
	videos := []models.YouTubeVideo{
		{
			ID:          "vid1",
			Title:       "Переговоры",
			Description: strings.Repeat("ж", 200),
			Duration:    "8:00",
			ViewCount:   500,
		},
	}

	prompt := buildGroupingPrompt(videos)

	if !utf8.ValidString(prompt) {
		t.Fatal("Prompt contains invalid UTF-8")
	}
	if !strings.Contains(prompt, strings.Repeat("ж", 100)+"...") {
		t.Error("Description excerpt not cut at 100 characters")
	}
	if strings.Contains(prompt, strings.Repeat("ж", 101)) {
		t.Error("Description excerpt exceeds the 100 character limit")
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare json", `{"courses":[]}`, `{"courses":[]}`},
		{"json fence", "```json\n{\"courses\":[]}\n```", `{"courses":[]}`},
		{"plain fence", "```\n{\"courses\":[]}\n```", `{"courses":[]}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripCodeFence(tt.input)
			if got != tt.expected {
				t.Errorf("stripCodeFence(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestReconcileGrouping(t *testing.T) {
	analyzed := []models.YouTubeVideo{
		{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"},
	}

	result := &models.AIGroupingResult{
		Courses: []models.SuggestedCourse{
			{
				Title:    "Course One",
				VideoIDs: []string{"a", "b", "ghost"},
				Videos: []models.SuggestedVideo{
					{ID: "a"}, {ID: "b"}, {ID: "ghost"},
				},
			},
			{
				Title:    "Course Two",
				VideoIDs: []string{"b", "c"},
				Videos: []models.SuggestedVideo{
					{ID: "b"}, {ID: "c"},
				},
			},
			{
				Title:    "All Duplicates",
				VideoIDs: []string{"a"},
				Videos:   []models.SuggestedVideo{{ID: "a"}},
			},
		},
		UngroupedVideos: []string{"c", "d", "ghost2"},
	}

	reconcileGrouping(result, analyzed)

	if len(result.Courses) != 2 {
		t.Fatalf("Expected empty course to be dropped, got %d courses", len(result.Courses))
	}
	if got := result.Courses[0].VideoIDs; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Course one ids wrong: %v", got)
	}
	// "b" already taken by course one, only "c" survives
	if got := result.Courses[1].VideoIDs; len(got) != 1 || got[0] != "c" {
		t.Errorf("Course two ids wrong: %v", got)
	}

	// "c" is grouped, "ghost2" unknown, "e" never mentioned by the model
	if len(result.UngroupedVideos) != 2 || result.UngroupedVideos[0] != "d" || result.UngroupedVideos[1] != "e" {
		t.Errorf("Ungrouped ids wrong: %v", result.UngroupedVideos)
	}

	// Every analyzed id lands in exactly one place
	placed := make(map[string]int)
	for _, c := range result.Courses {
		for _, id := range c.VideoIDs {
			placed[id]++
		}
	}
	for _, id := range result.UngroupedVideos {
		placed[id]++
	}
	for _, v := range analyzed {
		if placed[v.ID] != 1 {
			t.Errorf("Video %q placed %d times, expected exactly once", v.ID, placed[v.ID])
		}
	}
}
