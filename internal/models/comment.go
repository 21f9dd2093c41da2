package models

import "time"

type YouTubeComment struct {
	ID                 string     `json:"id"`
	VideoID            string     `json:"video_id"`
	AuthorName         string     `json:"author_name"`
	AuthorProfileImage string     `json:"author_profile_image"`
	AuthorChannelID    string     `json:"author_channel_id,omitempty"`
	Text               string     `json:"text"`
	TextDisplay        string     `json:"text_display"`
	LikeCount          int64      `json:"like_count"`
	ReplyCount         int64      `json:"reply_count"`
	PublishedAt        time.Time  `json:"published_at"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}

// YouTubeCommentThread is a top-level comment with its direct replies.
// Replies-to-replies come back flattened under the same parent.
type YouTubeCommentThread struct {
	ID              string           `json:"id"`
	VideoID         string           `json:"video_id"`
	TopLevelComment YouTubeComment   `json:"top_level_comment"`
	TotalReplyCount int64            `json:"total_reply_count"`
	Replies         []YouTubeComment `json:"replies"`
}

// StoredComment is a youtube_comments row. ParentID is nil for top-level
// comments and set to the thread's top-level comment id for replies.
type StoredComment struct {
	YouTubeComment
	ParentID   *string   `json:"parent_id"`
	ImportedAt time.Time `json:"imported_at"`
}

// CommentSentiment is the keyword-bucket summary for a video's threads.
type CommentSentiment struct {
	TotalComments      int                    `json:"total_comments"`
	TotalLikes         int64                  `json:"total_likes"`
	Positive           int                    `json:"positive"`
	Negative           int                    `json:"negative"`
	Neutral            int                    `json:"neutral"`
	Questions          int                    `json:"questions"`
	PositivePercent    int                    `json:"positive_percent"`
	NegativePercent    int                    `json:"negative_percent"`
	QuestionPercent    int                    `json:"question_percent"`
	AvgLikesPerComment int64                  `json:"avg_likes_per_comment"`
	TopComments        []YouTubeCommentThread `json:"top_comments"`
}
