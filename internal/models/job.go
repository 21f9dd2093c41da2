package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Job struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	Type         string          `json:"type"` // "channel-fetch" | "comment-import" | "course-import"
	PayloadJSON  json.RawMessage `json:"payload"`
	ResultJSON   json.RawMessage `json:"result,omitempty"`
	Status       string          `json:"status"` // "pending" | "processing" | "completed" | "failed"
	ErrorMessage *string         `json:"error_message"`
	CreatedAt    time.Time       `json:"created_at"`
	CompletedAt  *time.Time      `json:"completed_at"`
}

// Job payloads, serialized into PayloadJSON when enqueued.

type ChannelFetchPayload struct {
	ChannelID    string `json:"channel_id"`
	ForceRefresh bool   `json:"force_refresh,omitempty"`
}

type CommentImportPayload struct {
	VideoID     string `json:"video_id"`
	MaxComments int    `json:"max_comments,omitempty"`
	Order       string `json:"order,omitempty"` // "time" | "relevance"
}

type CourseImportPayload struct {
	Request   CourseImportRequest `json:"request"`
	ChannelID string              `json:"channel_id"`
}

// WebSocket message types

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// FetchProgress reports (loaded, estimated) after each page of a channel
// fetch. EstimatedTotal is a rolling guess, not authoritative.
type FetchProgress struct {
	JobID          uuid.UUID `json:"job_id"`
	Loaded         int       `json:"loaded"`
	EstimatedTotal int       `json:"estimated_total"`
}

type CompletedEvent struct {
	JobID  uuid.UUID       `json:"job_id"`
	Result json.RawMessage `json:"result,omitempty"`
}

type ErrorEvent struct {
	JobID        uuid.UUID `json:"job_id"`
	ErrorCode    string    `json:"error_code"`
	ErrorMessage string    `json:"error_message"`
}

// API Error response

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
