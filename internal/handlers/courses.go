package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"learnhub-backend/internal/repository"
)

// CourseHandler serves the public catalog and the admin course management
// endpoints. Learners only ever see published courses.
type CourseHandler struct {
	courseRepo *repository.CourseRepo
}

func NewCourseHandler(courseRepo *repository.CourseRepo) *CourseHandler {
	return &CourseHandler{courseRepo: courseRepo}
}

// List is the public catalog. Status is pinned to published regardless of
// query params.
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 20, 50)
	q := r.URL.Query()

	courses, total, err := h.courseRepo.List(r.Context(), "published", q.Get("search"), q.Get("sort"), limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list courses", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"courses": courses,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetBySlug returns the full course page. Unpublished courses 404 so drafts
// never leak through slug guessing.
func (h *CourseHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	detail, err := h.courseRepo.GetBySlug(r.Context(), slug)
	if err != nil {
		if err == pgx.ErrNoRows {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Course not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load course", r))
		return
	}

	if detail.Status != "published" {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Course not found", r))
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// AdminList shows courses in any status, for the management dashboard.
func (h *CourseHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 20, 100)
	q := r.URL.Query()

	courses, total, err := h.courseRepo.List(r.Context(), q.Get("status"), q.Get("search"), q.Get("sort"), limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list courses", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"courses": courses,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

var validCourseStatuses = map[string]bool{
	"draft":     true,
	"published": true,
	"archived":  true,
}

func (h *CourseHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "courseID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid course id", r))
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !validCourseStatuses[req.Status] {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Status must be draft, published or archived", r))
		return
	}

	if err := h.courseRepo.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update course", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (h *CourseHandler) SetFeatured(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "courseID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid course id", r))
		return
	}

	var req struct {
		Featured bool `json:"featured"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if err := h.courseRepo.SetFeatured(r.Context(), id, req.Featured); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update course", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"featured": req.Featured})
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "courseID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid course id", r))
		return
	}

	if err := h.courseRepo.Delete(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete course", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Course deleted"})
}
