package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"learnhub-backend/internal/cache"
	"learnhub-backend/internal/models"
)

func TestPagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 20, 0},
		{"explicit", "limit=10&offset=30", 10, 30},
		{"zero limit", "limit=0", 20, 0},
		{"over max", "limit=500", 20, 0},
		{"negative offset", "offset=-5", 20, 0},
		{"garbage", "limit=abc&offset=xyz", 20, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
			limit, offset := pagination(req, 20, 100)
			if limit != tc.wantLimit || offset != tc.wantOffset {
				t.Errorf("pagination() = (%d, %d), want (%d, %d)", limit, offset, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/?q=golang&min_views=100&max_duration=600&published_after=2024-01-01", nil)

	filters := filtersFromQuery(req)

	if filters.SearchQuery != "golang" {
		t.Errorf("SearchQuery = %q, want %q", filters.SearchQuery, "golang")
	}
	if filters.MinViews == nil || *filters.MinViews != 100 {
		t.Errorf("MinViews = %v, want 100", filters.MinViews)
	}
	if filters.MaxViews != nil {
		t.Errorf("MaxViews = %v, want nil", filters.MaxViews)
	}
	if filters.MaxDurationSeconds == nil || *filters.MaxDurationSeconds != 600 {
		t.Errorf("MaxDurationSeconds = %v, want 600", filters.MaxDurationSeconds)
	}
	if filters.PublishedAfter == nil || filters.PublishedAfter.Year() != 2024 {
		t.Errorf("PublishedAfter = %v, want 2024-01-01", filters.PublishedAfter)
	}
	if filters.PublishedBefore != nil {
		t.Errorf("PublishedBefore = %v, want nil", filters.PublishedBefore)
	}
}

func TestPickVideos(t *testing.T) {
	videos := []models.YouTubeVideo{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	picked := pickVideos(videos, []string{"c", "a", "ghost"})
	if len(picked) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(picked))
	}
	// Snapshot order is preserved, not request order.
	if picked[0].ID != "a" || picked[1].ID != "c" {
		t.Errorf("picked = [%s, %s], want [a, c]", picked[0].ID, picked[1].ID)
	}
}

func snapshotRequest(t *testing.T, target, channelID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("channelID", channelID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetSnapshot_NoEntry(t *testing.T) {
	channelCache := cache.NewChannelCache(cache.NewMemoryStore(), time.Hour)
	h := &YouTubeHandler{channelCache: channelCache}

	rr := httptest.NewRecorder()
	h.GetSnapshot(rr, snapshotRequest(t, "/api/v1/admin/youtube/channels/UC123/videos", "UC123"))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != "NOT_FOUND" {
		t.Errorf("error code = %q, want NOT_FOUND", resp.Error.Code)
	}
}

func TestGetSnapshot_FiltersAndSorts(t *testing.T) {
	channelCache := cache.NewChannelCache(cache.NewMemoryStore(), time.Hour)
	channelCache.Set(context.Background(), "UC123",
		models.YouTubeChannel{ID: "UC123", Title: "Test Channel"},
		[]models.YouTubeVideo{
			{ID: "a", Title: "Go basics", ViewCount: 100},
			{ID: "b", Title: "Go advanced", ViewCount: 900},
			{ID: "c", Title: "Rust intro", ViewCount: 500},
		})

	h := &YouTubeHandler{channelCache: channelCache}

	rr := httptest.NewRecorder()
	h.GetSnapshot(rr, snapshotRequest(t, "/videos?q=go&sort=views-desc", "UC123"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp struct {
		Videos []models.YouTubeVideo `json:"videos"`
		Stats  models.VideoStats     `json:"stats"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Videos) != 2 {
		t.Fatalf("expected 2 videos after filter, got %d", len(resp.Videos))
	}
	if resp.Videos[0].ID != "b" || resp.Videos[1].ID != "a" {
		t.Errorf("videos = [%s, %s], want [b, a]", resp.Videos[0].ID, resp.Videos[1].ID)
	}
	if resp.Stats.TotalViews != 1000 {
		t.Errorf("stats total views = %d, want 1000", resp.Stats.TotalViews)
	}
}

func TestStartChannelFetch_Validation(t *testing.T) {
	h := &YouTubeHandler{}

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "{not json"},
		{"missing channel id", `{"force_refresh":true}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/youtube/fetch", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			h.StartChannelFetch(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
			}
		})
	}
}

func TestGroupingAnalyze_NoSnapshot(t *testing.T) {
	channelCache := cache.NewChannelCache(cache.NewMemoryStore(), time.Hour)
	h := NewGroupingHandler(nil, channelCache)

	req := httptest.NewRequest(http.MethodPost, "/grouping", strings.NewReader("{}"))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("channelID", "UC123")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	h.Analyze(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestWaitlistJoin_InvalidEmail(t *testing.T) {
	h := NewWaitlistHandler(nil, nil)

	tests := []struct {
		name string
		body string
	}{
		{"empty email", `{"email":""}`},
		{"not an email", `{"email":"nope"}`},
		{"invalid json", `{broken`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/waitlist", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			h.Join(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
			}
		})
	}
}

func TestErrorRespIncludesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")

	resp := errorResp("NOT_FOUND", "gone", req)
	if resp.Error.RequestID != "req-42" {
		t.Errorf("request id = %q, want req-42", resp.Error.RequestID)
	}
	if resp.Error.Code != "NOT_FOUND" || resp.Error.Message != "gone" {
		t.Errorf("unexpected error payload: %+v", resp.Error)
	}
}
