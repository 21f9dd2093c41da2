package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"learnhub-backend/internal/cache"
	"learnhub-backend/internal/middleware"
	"learnhub-backend/internal/models"
	"learnhub-backend/internal/repository"
	"learnhub-backend/internal/services"
	"learnhub-backend/internal/worker"
)

// YouTubeHandler covers the admin side of the import pipeline: channel
// fetches, the cached snapshot with sort/filter/stats, and comment work.
type YouTubeHandler struct {
	pool         *worker.Pool
	channelCache *cache.ChannelCache
	youtube      *services.YouTubeService
	videoRepo    *repository.VideoRepo
	commentRepo  *repository.CommentRepo
}

func NewYouTubeHandler(
	pool *worker.Pool,
	channelCache *cache.ChannelCache,
	youtube *services.YouTubeService,
	videoRepo *repository.VideoRepo,
	commentRepo *repository.CommentRepo,
) *YouTubeHandler {
	return &YouTubeHandler{
		pool:         pool,
		channelCache: channelCache,
		youtube:      youtube,
		videoRepo:    videoRepo,
		commentRepo:  commentRepo,
	}
}

// StartChannelFetch queues a channel fetch job. The response carries the
// job id; progress arrives over the websocket.
func (h *YouTubeHandler) StartChannelFetch(w http.ResponseWriter, r *http.Request) {
	var req models.ChannelFetchPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.ChannelID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "channel_id is required", r))
		return
	}

	payload, _ := json.Marshal(req)
	job := &models.Job{
		UserID:      middleware.GetUserID(r.Context()),
		Type:        "channel-fetch",
		PayloadJSON: payload,
	}

	if err := h.pool.Enqueue(r.Context(), job); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to enqueue channel fetch", r))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{"job_id": job.ID})
}

// GetSnapshot reads the cached channel snapshot and applies the requested
// sort, filters and aggregation. 404 means no fresh snapshot exists and a
// fetch has to run first.
func (h *YouTubeHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channelID")

	entry := h.channelCache.Get(r.Context(), channelID)
	if entry == nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No channel snapshot available. Start a channel fetch first.", r))
		return
	}

	videos := services.FilterVideos(entry.Videos, filtersFromQuery(r))
	if sortBy := r.URL.Query().Get("sort"); sortBy != "" {
		videos = services.SortVideos(videos, services.SortOption(sortBy))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"channel":    entry.Channel,
		"videos":     videos,
		"stats":      services.CalculateVideoStats(videos),
		"fetched_at": entry.Timestamp,
	})
}

// RefreshSnapshot drops the cached snapshot and queues a forced re-fetch.
func (h *YouTubeHandler) RefreshSnapshot(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channelID")

	h.channelCache.Clear(r.Context())

	payload, _ := json.Marshal(models.ChannelFetchPayload{ChannelID: channelID, ForceRefresh: true})
	job := &models.Job{
		UserID:      middleware.GetUserID(r.Context()),
		Type:        "channel-fetch",
		PayloadJSON: payload,
	}

	if err := h.pool.Enqueue(r.Context(), job); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to enqueue channel fetch", r))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{"job_id": job.ID})
}

// SearchVideos proxies a channel-scoped search. Unlike the snapshot this
// hits the platform directly, so it is kept behind the admin routes.
func (h *YouTubeHandler) SearchVideos(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channelID")
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "q is required", r))
		return
	}

	maxResults, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	videos, err := h.youtube.SearchChannelVideos(r.Context(), channelID, query, maxResults)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResp("UPSTREAM_ERROR", "Video search failed", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"videos": videos})
}

// StartCommentImport queues fetching and storing a video's comments.
func (h *YouTubeHandler) StartCommentImport(w http.ResponseWriter, r *http.Request) {
	var req models.CommentImportPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.VideoID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "video_id is required", r))
		return
	}

	payload, _ := json.Marshal(req)
	job := &models.Job{
		UserID:      middleware.GetUserID(r.Context()),
		Type:        "comment-import",
		PayloadJSON: payload,
	}

	if err := h.pool.Enqueue(r.Context(), job); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to enqueue comment import", r))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{"job_id": job.ID})
}

// ListImportedVideos pages through videos persisted by course imports.
func (h *YouTubeHandler) ListImportedVideos(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 20, 100)

	videos, total, err := h.videoRepo.List(r.Context(), limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list videos", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"videos": videos,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// ListVideoComments returns stored comments for a video, most liked first.
func (h *YouTubeHandler) ListVideoComments(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoID")
	limit, offset := pagination(r, 50, 200)

	comments, total, err := h.commentRepo.ListByVideo(r.Context(), videoID, limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list comments", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"comments": comments,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetCommentInsights runs the keyword sentiment summary over a video's
// stored top-level comments.
func (h *YouTubeHandler) GetCommentInsights(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoID")

	comments, _, err := h.commentRepo.ListByVideo(r.Context(), videoID, 500, 0)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load comments", r))
		return
	}

	threads := make([]models.YouTubeCommentThread, 0, len(comments))
	for _, c := range comments {
		if c.ParentID != nil {
			continue
		}
		threads = append(threads, models.YouTubeCommentThread{
			ID:              c.ID,
			VideoID:         c.VideoID,
			TopLevelComment: c.YouTubeComment,
			TotalReplyCount: c.ReplyCount,
		})
	}

	writeJSON(w, http.StatusOK, services.AnalyzeCommentSentiment(threads))
}

// filtersFromQuery maps snapshot query params onto video filters.
func filtersFromQuery(r *http.Request) services.VideoFilters {
	q := r.URL.Query()
	filters := services.VideoFilters{SearchQuery: q.Get("q")}

	if v, err := strconv.ParseInt(q.Get("min_views"), 10, 64); err == nil {
		filters.MinViews = &v
	}
	if v, err := strconv.ParseInt(q.Get("max_views"), 10, 64); err == nil {
		filters.MaxViews = &v
	}
	if v, err := strconv.Atoi(q.Get("min_duration")); err == nil {
		filters.MinDurationSeconds = &v
	}
	if v, err := strconv.Atoi(q.Get("max_duration")); err == nil {
		filters.MaxDurationSeconds = &v
	}
	if t, err := time.Parse("2006-01-02", q.Get("published_after")); err == nil {
		filters.PublishedAfter = &t
	}
	if t, err := time.Parse("2006-01-02", q.Get("published_before")); err == nil {
		filters.PublishedBefore = &t
	}

	return filters
}

func pagination(r *http.Request, def, max int) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	if limit <= 0 || limit > max {
		limit = def
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
