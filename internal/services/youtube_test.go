package services

import (
	"fmt"
	"testing"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"
)

func TestChunkIDs(t *testing.T) {
	ids := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("vid%d", i)
		}
		return out
	}

	tests := []struct {
		name     string
		count    int
		size     int
		expected []int
	}{
		{"empty", 0, 50, nil},
		{"single partial chunk", 3, 50, []int{3}},
		{"exact chunk", 50, 50, []int{50}},
		{"one over", 51, 50, []int{50, 1}},
		{"several chunks", 120, 50, []int{50, 50, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := chunkIDs(ids(tt.count), tt.size)
			if len(chunks) != len(tt.expected) {
				t.Fatalf("Expected %d chunks, got %d", len(tt.expected), len(chunks))
			}
			for i, size := range tt.expected {
				if len(chunks[i]) != size {
					t.Errorf("Chunk %d: expected %d ids, got %d", i, size, len(chunks[i]))
				}
			}
		})
	}
}

func TestProgressEstimate(t *testing.T) {
	tests := []struct {
		name             string
		loaded           int
		more             bool
		expectedLoaded   int
		expectedEstimate int
	}{
		{"mid-pagination", 50, true, 50, 100},
		{"last page", 137, false, 137, 137},
		{"empty channel", 0, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loaded, estimate := progressEstimate(tt.loaded, 50, tt.more)
			if loaded != tt.expectedLoaded || estimate != tt.expectedEstimate {
				t.Errorf("progressEstimate(%d, 50, %v) = (%d, %d), expected (%d, %d)",
					tt.loaded, tt.more, loaded, estimate, tt.expectedLoaded, tt.expectedEstimate)
			}
		})
	}
}

func TestPickThumbnails(t *testing.T) {
	thumbs := &youtube.ThumbnailDetails{
		Default: &youtube.Thumbnail{Url: "default.jpg"},
		Medium:  &youtube.Thumbnail{Url: "medium.jpg"},
		High:    &youtube.Thumbnail{Url: "high.jpg"},
	}

	medium, high := pickThumbnails(thumbs)
	if medium != "medium.jpg" || high != "high.jpg" {
		t.Errorf("Expected (medium.jpg, high.jpg), got (%s, %s)", medium, high)
	}

	// Missing sizes fall back to the next best available
	medium, high = pickThumbnails(&youtube.ThumbnailDetails{Default: &youtube.Thumbnail{Url: "default.jpg"}})
	if medium != "default.jpg" || high != "default.jpg" {
		t.Errorf("Expected default fallbacks, got (%s, %s)", medium, high)
	}

	medium, high = pickThumbnails(nil)
	if medium != "" || high != "" {
		t.Errorf("Expected empty urls for nil thumbnails, got (%s, %s)", medium, high)
	}
}

func TestIsCommentsDisabled(t *testing.T) {
	disabled := &googleapi.Error{
		Code: 403,
		Errors: []googleapi.ErrorItem{
			{Reason: "commentsDisabled"},
		},
	}
	if !isCommentsDisabled(disabled) {
		t.Error("Expected commentsDisabled 403 to be detected")
	}

	quota := &googleapi.Error{
		Code: 403,
		Errors: []googleapi.ErrorItem{
			{Reason: "quotaExceeded"},
		},
	}
	if isCommentsDisabled(quota) {
		t.Error("quotaExceeded must not be treated as disabled comments")
	}

	if isCommentsDisabled(fmt.Errorf("connection reset")) {
		t.Error("Plain errors must not be treated as disabled comments")
	}
	if isCommentsDisabled(fmt.Errorf("wrapped: %w", disabled)) != true {
		t.Error("Expected wrapped googleapi error to be unwrapped")
	}
}

func TestCommentOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"time", "time"},
		{"relevance", "relevance"},
		{"", "relevance"},
		{"likes", "relevance"},
	}

	for _, tt := range tests {
		if got := commentOrder(tt.input); got != tt.expected {
			t.Errorf("commentOrder(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildVideo_MissingDetail(t *testing.T) {
	snippet := &youtube.PlaylistItemSnippet{
		Title:        "Orphan video",
		Description:  "Stats batch failed for this one",
		ChannelTitle: "Some Channel",
		PublishedAt:  "2024-05-01T10:00:00Z",
	}

	video := buildVideo("vid1", snippet, nil)

	if video.ID != "vid1" || video.Title != "Orphan video" {
		t.Errorf("Snippet fields not mapped: %+v", video)
	}
	if video.Duration != "0:00" {
		t.Errorf("Expected default duration 0:00, got %q", video.Duration)
	}
	if video.ViewCount != 0 || video.LikeCount != 0 || video.CommentCount != 0 {
		t.Errorf("Expected zero counts without detail, got %+v", video)
	}
	if video.PublishedAt.IsZero() {
		t.Error("Expected published date to be parsed")
	}
}

func TestBuildVideo_WithDetail(t *testing.T) {
	snippet := &youtube.PlaylistItemSnippet{Title: "Full video"}
	detail := &youtube.Video{
		Id:             "vid2",
		ContentDetails: &youtube.VideoContentDetails{Duration: "PT1H2M3S"},
		Statistics: &youtube.VideoStatistics{
			ViewCount:    1500,
			LikeCount:    120,
			CommentCount: 14,
		},
		Snippet: &youtube.VideoSnippet{
			Tags:       []string{"go", "tutorial"},
			CategoryId: "27",
		},
	}

	video := buildVideo("vid2", snippet, detail)

	if video.Duration != "1:02:03" {
		t.Errorf("Expected formatted duration 1:02:03, got %q", video.Duration)
	}
	if video.ViewCount != 1500 || video.LikeCount != 120 || video.CommentCount != 14 {
		t.Errorf("Statistics not merged: %+v", video)
	}
	if len(video.Tags) != 2 || video.CategoryID != "27" {
		t.Errorf("Detail snippet not merged: %+v", video)
	}
}
