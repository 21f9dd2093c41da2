package services

import (
	"testing"
	"time"

	"learnhub-backend/internal/models"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"hours minutes seconds", "PT1H2M3S", "1:02:03"},
		{"minutes seconds", "PT4M5S", "4:05"},
		{"seconds only", "PT45S", "0:45"},
		{"minutes only", "PT10M", "10:00"},
		{"hours only", "PT2H", "2:00:00"},
		{"long video", "PT12H34M56S", "12:34:56"},
		{"zero", "PT0S", "0:00"},
		{"garbage input", "not-a-duration", "0:00"},
		{"empty input", "", "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDuration(tt.input)
			if got != tt.expected {
				t.Errorf("FormatDuration(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDurationToSeconds(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"1:02:03", 3723},
		{"4:05", 245},
		{"0:45", 45},
		{"10:00", 600},
		{"0:00", 0},
	}

	for _, tt := range tests {
		got := DurationToSeconds(tt.input)
		if got != tt.expected {
			t.Errorf("DurationToSeconds(%q) = %d, expected %d", tt.input, got, tt.expected)
		}
	}
}

func TestFormatViewCount(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{3400, "3.4K"},
		{999999, "1000.0K"},
		{1200000, "1.2M"},
	}

	for _, tt := range tests {
		got := FormatViewCount(tt.input)
		if got != tt.expected {
			t.Errorf("FormatViewCount(%d) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		at       time.Time
		expected string
	}{
		{"seconds", now.Add(-30 * time.Second), "just now"},
		{"future", now.Add(time.Hour), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5 minutes ago"},
		{"single hour", now.Add(-90 * time.Minute), "1 hour ago"},
		{"days", now.Add(-3 * 24 * time.Hour), "3 days ago"},
		{"weeks", now.Add(-2 * 7 * 24 * time.Hour), "2 weeks ago"},
		{"months", now.Add(-65 * 24 * time.Hour), "2 months ago"},
		{"years", now.Add(-800 * 24 * time.Hour), "2 years ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TimeAgo(tt.at, now)
			if got != tt.expected {
				t.Errorf("TimeAgo(%v) = %q, expected %q", tt.at, got, tt.expected)
			}
		})
	}
}

func sampleVideos() []models.YouTubeVideo {
	return []models.YouTubeVideo{
		{
			ID:           "a",
			Title:        "Banana basics",
			Description:  "Intro to bananas",
			PublishedAt:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Duration:     "10:00",
			ViewCount:    500,
			LikeCount:    50,
			CommentCount: 5,
			Tags:         []string{"fruit"},
		},
		{
			ID:           "b",
			Title:        "Apple advanced",
			Description:  "Deep dive",
			PublishedAt:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Duration:     "1:00:00",
			ViewCount:    2000,
			LikeCount:    10,
			CommentCount: 40,
			Tags:         []string{"fruit", "advanced"},
		},
		{
			ID:           "c",
			Title:        "Cherry crash course",
			Description:  "Quick one",
			PublishedAt:  time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC),
			Duration:     "2:30",
			ViewCount:    2000,
			LikeCount:    300,
			CommentCount: 1,
		},
	}
}

func TestSortVideos(t *testing.T) {
	tests := []struct {
		name     string
		sortBy   SortOption
		expected []string
	}{
		{"date desc", SortDateDesc, []string{"b", "a", "c"}},
		{"date asc", SortDateAsc, []string{"c", "a", "b"}},
		{"views desc keeps input order on ties", SortViewsDesc, []string{"b", "c", "a"}},
		{"views asc keeps input order on ties", SortViewsAsc, []string{"a", "b", "c"}},
		{"likes desc", SortLikesDesc, []string{"c", "a", "b"}},
		{"likes asc", SortLikesAsc, []string{"b", "a", "c"}},
		{"comments desc", SortCommentsDesc, []string{"b", "a", "c"}},
		{"duration desc", SortDurationDesc, []string{"b", "a", "c"}},
		{"duration asc", SortDurationAsc, []string{"c", "a", "b"}},
		{"title asc", SortTitleAsc, []string{"b", "a", "c"}},
		{"title desc", SortTitleDesc, []string{"c", "a", "b"}},
		{"unknown key preserves order", SortOption("bogus"), []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := sampleVideos()
			got := SortVideos(input, tt.sortBy)

			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d videos, got %d", len(tt.expected), len(got))
			}
			for i, id := range tt.expected {
				if got[i].ID != id {
					t.Errorf("Position %d: expected %q, got %q", i, id, got[i].ID)
				}
			}
			// Input must be untouched
			if input[0].ID != "a" || input[1].ID != "b" || input[2].ID != "c" {
				t.Error("SortVideos mutated its input slice")
			}
		})
	}
}

func TestFilterVideos(t *testing.T) {
	minViews := int64(1000)
	maxViews := int64(1500)
	minDur := 60 * 5
	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		filters  VideoFilters
		expected []string
	}{
		{"no filters returns everything", VideoFilters{}, []string{"a", "b", "c"}},
		{"search matches title", VideoFilters{SearchQuery: "apple"}, []string{"b"}},
		{"search matches description", VideoFilters{SearchQuery: "intro"}, []string{"a"}},
		{"search matches tags", VideoFilters{SearchQuery: "advanced"}, []string{"b"}},
		{"min views", VideoFilters{MinViews: &minViews}, []string{"b", "c"}},
		{"max views", VideoFilters{MaxViews: &maxViews}, []string{"a"}},
		{"min duration", VideoFilters{MinDurationSeconds: &minDur}, []string{"a", "b"}},
		{"published after", VideoFilters{PublishedAfter: &after}, []string{"a", "b"}},
		{"conjunction", VideoFilters{MinViews: &minViews, PublishedAfter: &after}, []string{"b"}},
		{"no match", VideoFilters{SearchQuery: "durian"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterVideos(sampleVideos(), tt.filters)

			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d videos, got %d", len(tt.expected), len(got))
			}
			for i, id := range tt.expected {
				if got[i].ID != id {
					t.Errorf("Position %d: expected %q, got %q", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestFilterVideos_InclusiveBounds(t *testing.T) {
	exact := int64(500)

	got := FilterVideos(sampleVideos(), VideoFilters{MinViews: &exact, MaxViews: &exact})
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("Expected exactly video 'a' at the inclusive boundary, got %d results", len(got))
	}
}

func TestCalculateVideoStats(t *testing.T) {
	stats := CalculateVideoStats(sampleVideos())

	if stats.TotalVideos != 3 {
		t.Errorf("Expected 3 total videos, got %d", stats.TotalVideos)
	}
	if stats.TotalViews != 4500 {
		t.Errorf("Expected 4500 total views, got %d", stats.TotalViews)
	}
	if stats.TotalLikes != 360 {
		t.Errorf("Expected 360 total likes, got %d", stats.TotalLikes)
	}
	if stats.TotalComments != 46 {
		t.Errorf("Expected 46 total comments, got %d", stats.TotalComments)
	}
	if stats.AvgViews != 1500 {
		t.Errorf("Expected avg views 1500, got %d", stats.AvgViews)
	}
	if stats.AvgLikes != 120 {
		t.Errorf("Expected avg likes 120, got %d", stats.AvgLikes)
	}
	if stats.AvgComments != 15 {
		t.Errorf("Expected avg comments 15 (rounded), got %d", stats.AvgComments)
	}
	if stats.TopVideo == nil {
		t.Fatal("Expected a top video")
	}
	// b and c tie on views; first occurrence wins
	if stats.TopVideo.ID != "b" {
		t.Errorf("Expected top video 'b' (first at max views), got %q", stats.TopVideo.ID)
	}
}

func TestCalculateVideoStats_Empty(t *testing.T) {
	stats := CalculateVideoStats(nil)

	if stats.TotalVideos != 0 || stats.TotalViews != 0 || stats.AvgViews != 0 {
		t.Errorf("Expected zeroed stats for empty input, got %+v", stats)
	}
	if stats.TopVideo != nil {
		t.Errorf("Expected nil top video for empty input, got %q", stats.TopVideo.ID)
	}
}

func thread(id, text string, likes int64) models.YouTubeCommentThread {
	return models.YouTubeCommentThread{
		ID: id,
		TopLevelComment: models.YouTubeComment{
			ID:        id,
			Text:      text,
			LikeCount: likes,
		},
	}
}

func TestAnalyzeCommentSentiment(t *testing.T) {
	threads := []models.YouTubeCommentThread{
		thread("c1", "This was a great lesson, thanks!", 40),
		thread("c2", "Terrible audio quality", 2),
		thread("c3", "How do I apply this at work?", 10),
		thread("c4", "Watched it twice", 5),
	}

	result := AnalyzeCommentSentiment(threads)

	if result.TotalComments != 4 {
		t.Errorf("Expected 4 total comments, got %d", result.TotalComments)
	}
	if result.Positive != 1 {
		t.Errorf("Expected 1 positive, got %d", result.Positive)
	}
	if result.Negative != 1 {
		t.Errorf("Expected 1 negative, got %d", result.Negative)
	}
	if result.Questions != 1 {
		t.Errorf("Expected 1 question, got %d", result.Questions)
	}
	if result.Neutral != 2 {
		t.Errorf("Expected 2 neutral, got %d", result.Neutral)
	}
	if result.TotalLikes != 57 {
		t.Errorf("Expected 57 total likes, got %d", result.TotalLikes)
	}
	if len(result.TopComments) != 4 {
		t.Fatalf("Expected 4 top comments, got %d", len(result.TopComments))
	}
	if result.TopComments[0].ID != "c1" {
		t.Errorf("Expected most liked comment first, got %q", result.TopComments[0].ID)
	}
}

func TestAnalyzeCommentSentiment_Empty(t *testing.T) {
	result := AnalyzeCommentSentiment(nil)

	if result.TotalComments != 0 || result.PositivePercent != 0 || result.AvgLikesPerComment != 0 {
		t.Errorf("Expected zeroed sentiment for empty input, got %+v", result)
	}
	if result.Neutral != 0 {
		t.Errorf("Expected 0 neutral comments for empty input, got %d", result.Neutral)
	}
	if len(result.TopComments) != 0 {
		t.Errorf("Expected no top comments, got %d", len(result.TopComments))
	}
}
