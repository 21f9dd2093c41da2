package models

// SuggestedVideo is one video the AI placed into a suggested course,
// with its inclusion rationale.
type SuggestedVideo struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// SuggestedCourse exists only in memory between the AI call and the
// operator's accept/reject decision. Promotion to a real course goes
// through the import pipeline.
type SuggestedCourse struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Level       string           `json:"level"`
	VideoIDs    []string         `json:"video_ids"`
	Videos      []SuggestedVideo `json:"videos"`
	Confidence  int              `json:"confidence"` // 0-100
}

type AIGroupingResult struct {
	Courses             []SuggestedCourse `json:"courses"`
	UngroupedVideos     []string          `json:"ungrouped_videos"`
	Summary             string            `json:"summary"`
	TotalVideosAnalyzed int               `json:"total_videos_analyzed"`
	WasLimited          bool              `json:"was_limited"`
}
