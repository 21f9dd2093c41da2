package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"learnhub-backend/internal/cache"
	"learnhub-backend/internal/middleware"
	"learnhub-backend/internal/models"
	"learnhub-backend/internal/services"
	"learnhub-backend/internal/worker"
)

// ImportHandler promotes selected snapshot videos into a published course.
// The synchronous path returns the created course directly; the async path
// queues a course-import job for large selections.
type ImportHandler struct {
	importer     *services.ImportService
	channelCache *cache.ChannelCache
	pool         *worker.Pool
}

func NewImportHandler(importer *services.ImportService, channelCache *cache.ChannelCache, pool *worker.Pool) *ImportHandler {
	return &ImportHandler{importer: importer, channelCache: channelCache, pool: pool}
}

// CreateCourse assembles a course from the channel snapshot. With
// ?async=true the work is queued instead and a job id comes back.
func (h *ImportHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channelID")

	var req models.CourseImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if r.URL.Query().Get("async") == "true" {
		h.enqueueImport(w, r, channelID, req)
		return
	}

	entry := h.channelCache.Get(r.Context(), channelID)
	if entry == nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No channel snapshot available. Start a channel fetch first.", r))
		return
	}

	result, err := h.importer.CreateCourseFromVideos(r.Context(), req, entry.Videos)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if req.ImportComments {
		h.enqueueCommentImports(r, req.VideoIDs)
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *ImportHandler) enqueueImport(w http.ResponseWriter, r *http.Request, channelID string, req models.CourseImportRequest) {
	payload, _ := json.Marshal(models.CourseImportPayload{Request: req, ChannelID: channelID})
	job := &models.Job{
		UserID:      middleware.GetUserID(r.Context()),
		Type:        "course-import",
		PayloadJSON: payload,
	}

	if err := h.pool.Enqueue(r.Context(), job); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to enqueue course import", r))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{"job_id": job.ID})
}

// enqueueCommentImports queues a comment fetch per lesson video. Failures
// only cost comments, never the course, so they are fire-and-forget.
func (h *ImportHandler) enqueueCommentImports(r *http.Request, videoIDs []string) {
	userID := middleware.GetUserID(r.Context())

	for _, videoID := range videoIDs {
		payload, _ := json.Marshal(models.CommentImportPayload{VideoID: videoID})
		job := &models.Job{
			UserID:      userID,
			Type:        "comment-import",
			PayloadJSON: payload,
		}
		h.pool.Enqueue(r.Context(), job)
	}
}
