package handler

import (
	"net/http"

	"sciannotate/internal/service"
)

// StatusHandler serves the remote review-status endpoint
type StatusHandler struct {
	statusSvc *service.StatusService
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(statusSvc *service.StatusService) *StatusHandler {
	return &StatusHandler{statusSvc: statusSvc}
}

// GetAvailableQuestions handles
// GET /v1/questions?action=getAvailableQuestions&domain=...&userEmail=...
func (h *StatusHandler) GetAvailableQuestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if action := query.Get("action"); action != "getAvailableQuestions" {
		writeError(w, http.StatusBadRequest, "unsupported action")
		return
	}
	domain := query.Get("domain")
	if domain == "" {
		writeError(w, http.StatusBadRequest, "domain parameter is required")
		return
	}
	userEmail := query.Get("userEmail")

	status, err := h.statusSvc.FetchStatus(r.Context(), domain, userEmail)
	if err != nil {
		if err == service.ErrUnknownDomain {
			writeError(w, http.StatusNotFound, "unknown domain")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	reviewed := make([]string, 0, len(status.UserReviewed))
	for id := range status.UserReviewed {
		reviewed = append(reviewed, id)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"userReviewed":      reviewed,
		"reviewCounts":      status.GlobalCounts,
		"userReviewedCount": status.UserReviewedCount,
	})
}
