package models

import "time"

// YouTubeVideo is the in-memory shape of a video fetched from the Data API.
// Counts and duration come from the batched videos.list call, the rest from
// the playlist item snippet.
type YouTubeVideo struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Thumbnail     string    `json:"thumbnail"`      // medium, falls back to default
	ThumbnailHigh string    `json:"thumbnail_high"` // high, falls back to medium
	PublishedAt   time.Time `json:"published_at"`
	Duration      string    `json:"duration"` // formatted, "H:MM:SS" or "M:SS"
	ViewCount     int64     `json:"view_count"`
	LikeCount     int64     `json:"like_count"`
	CommentCount  int64     `json:"comment_count"`
	ChannelTitle  string    `json:"channel_title"`
	Tags          []string  `json:"tags,omitempty"`
	CategoryID    string    `json:"category_id,omitempty"`
}

type YouTubeChannel struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Thumbnail       string `json:"thumbnail"`
	SubscriberCount int64  `json:"subscriber_count"`
	VideoCount      int64  `json:"video_count"`
	ViewCount       int64  `json:"view_count"`
}

// StoredVideo is a youtube_videos row.
type StoredVideo struct {
	YouTubeVideo
	DurationSeconds int       `json:"duration_seconds"`
	ImportedAt      time.Time `json:"imported_at"`
	LastSyncedAt    time.Time `json:"last_synced_at"`
	IsActive        bool      `json:"is_active"`
}

// VideoStats is the aggregate summary shown on the channel dashboard.
type VideoStats struct {
	TotalVideos   int           `json:"total_videos"`
	TotalViews    int64         `json:"total_views"`
	TotalLikes    int64         `json:"total_likes"`
	TotalComments int64         `json:"total_comments"`
	AvgViews      int64         `json:"avg_views"`
	AvgLikes      int64         `json:"avg_likes"`
	AvgComments   int64         `json:"avg_comments"`
	TopVideo      *YouTubeVideo `json:"top_video"`
}
