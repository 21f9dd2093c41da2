package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"learnhub-backend/internal/cache"
	"learnhub-backend/internal/models"
	"learnhub-backend/internal/services"
)

// GroupingHandler runs the AI course-grouping analysis over the cached
// channel snapshot. The suggestions are returned to the operator; nothing
// is persisted until they go through the import endpoint.
type GroupingHandler struct {
	grouping     *services.GroupingService
	channelCache *cache.ChannelCache
}

func NewGroupingHandler(grouping *services.GroupingService, channelCache *cache.ChannelCache) *GroupingHandler {
	return &GroupingHandler{grouping: grouping, channelCache: channelCache}
}

// Analyze groups the snapshot's videos into suggested courses. An optional
// video_ids body restricts the analysis to a subset of the snapshot.
func (h *GroupingHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channelID")

	entry := h.channelCache.Get(r.Context(), channelID)
	if entry == nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No channel snapshot available. Start a channel fetch first.", r))
		return
	}

	var req struct {
		VideoIDs []string `json:"video_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	videos := entry.Videos
	if len(req.VideoIDs) > 0 {
		videos = pickVideos(entry.Videos, req.VideoIDs)
		if len(videos) == 0 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "None of the requested videos are in the snapshot", r))
			return
		}
	}

	result, err := h.grouping.AnalyzeAndGroupVideos(r.Context(), videos)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResp("UPSTREAM_ERROR", "AI analysis failed", r))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func pickVideos(videos []models.YouTubeVideo, ids []string) []models.YouTubeVideo {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	picked := make([]models.YouTubeVideo, 0, len(ids))
	for _, v := range videos {
		if wanted[v.ID] {
			picked = append(picked, v)
		}
	}
	return picked
}
