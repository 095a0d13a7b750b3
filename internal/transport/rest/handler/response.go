package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"sciannotate/internal/model"
	"sciannotate/internal/service"
)

// ResponseHandler handles the collection endpoints: submission, export, stats
type ResponseHandler struct {
	responseSvc *service.ResponseService
	exportSvc   *service.ExportService
	statsSvc    *service.StatsService
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(responseSvc *service.ResponseService, exportSvc *service.ExportService, statsSvc *service.StatsService) *ResponseHandler {
	return &ResponseHandler{
		responseSvc: responseSvc,
		exportSvc:   exportSvc,
		statsSvc:    statsSvc,
	}
}

// SubmitRequest is the request body for submitting a review record
type SubmitRequest struct {
	Timestamp       time.Time            `json:"timestamp"`
	Domain          string               `json:"domain" validate:"required"`
	UserEmail       string               `json:"userEmail" validate:"omitempty,email"`
	QuestionID      string               `json:"questionId" validate:"required"`
	QuestionText    string               `json:"questionText"`
	QuestionType    string               `json:"question_type"`
	PolymerDetails  string               `json:"polymerDetails"`
	PreferredAnswer string               `json:"preferredAnswer"`
	Answers         []model.AnswerReview `json:"answers" validate:"required,min=1"`
	GeneralComments string               `json:"generalComments"`
}

// Submit handles POST /v1/responses
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	record := &model.ReviewRecord{
		Timestamp:       req.Timestamp,
		Domain:          req.Domain,
		UserEmail:       req.UserEmail,
		QuestionID:      req.QuestionID,
		QuestionText:    req.QuestionText,
		QuestionType:    req.QuestionType,
		PolymerDetails:  req.PolymerDetails,
		PreferredAnswer: req.PreferredAnswer,
		Answers:         req.Answers,
		GeneralComments: req.GeneralComments,
	}

	if err := h.responseSvc.Submit(r.Context(), record); err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			writeError(w, http.StatusBadRequest, vErr.Reason)
		case errors.Is(err, service.ErrUnknownDomain):
			writeError(w, http.StatusNotFound, "unknown domain")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "id": record.ID})
}

// Export handles GET /v1/responses/export
func (h *ResponseHandler) Export(w http.ResponseWriter, r *http.Request) {
	records, filename, err := h.exportSvc.Export(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(records)
}

// Stats handles GET /v1/stats
func (h *ResponseHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsSvc.Compute(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
