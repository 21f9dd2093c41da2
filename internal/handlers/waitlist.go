package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"learnhub-backend/internal/repository"
	"learnhub-backend/internal/services"
)

// WaitlistHandler takes public launch signups and exposes the list to
// admins.
type WaitlistHandler struct {
	waitlistRepo *repository.WaitlistRepo
	email        *services.EmailService
}

func NewWaitlistHandler(waitlistRepo *repository.WaitlistRepo, email *services.EmailService) *WaitlistHandler {
	return &WaitlistHandler{waitlistRepo: waitlistRepo, email: email}
}

// Join adds an email to the waitlist and sends the confirmation email
// asynchronously so the signup response doesn't wait on SMTP.
func (h *WaitlistHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string  `json:"email"`
		Name  *string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"email": "A valid email is required"}, r))
		return
	}

	entry, err := h.waitlistRepo.Add(r.Context(), email, req.Name)
	if err != nil {
		if err == repository.ErrDuplicateEmail {
			writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "This email is already on the waitlist", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to join waitlist", r))
		return
	}

	go func() {
		if err := h.email.SendWaitlistConfirmation(entry.Email, entry.Name); err != nil {
			log.Printf("failed to send waitlist confirmation to %s: %v", entry.Email, err)
		}
	}()

	writeJSON(w, http.StatusCreated, map[string]string{"message": "You're on the list!"})
}

func (h *WaitlistHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 50, 200)

	entries, total, err := h.waitlistRepo.List(r.Context(), limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list waitlist", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}
