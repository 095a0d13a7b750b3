package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"sciannotate/internal/model"
	"sciannotate/internal/service"

	"github.com/gorilla/mux"
)

// SessionHandler exposes the review session engine over HTTP
type SessionHandler struct {
	sessionSvc *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// StartSessionRequest is the request body for starting a review session
type StartSessionRequest struct {
	Domain    string `json:"domain" validate:"required"`
	UserEmail string `json:"userEmail" validate:"required,email"`
}

// sessionView is the client-facing projection of a session: the current
// question and progress, never the full pool.
type sessionView struct {
	ID        string             `json:"id"`
	Domain    string             `json:"domain"`
	Phase     model.SessionPhase `json:"phase"`
	Question  *model.Question    `json:"question,omitempty"`
	Recorded  int                `json:"recorded"`
	Available int                `json:"available"`
	Criteria  []model.Criterion  `json:"criteria,omitempty"`
	Kind      model.DomainKind   `json:"kind,omitempty"`
	ScaleMax  int                `json:"scaleMax,omitempty"`
}

func viewFromState(state *model.SessionState) sessionView {
	view := sessionView{
		ID:        state.ID,
		Domain:    state.Domain,
		Phase:     state.Phase,
		Question:  state.Current(),
		Recorded:  state.Recorded,
		Available: len(state.Pool) - len(state.Completed),
	}
	if d := model.DomainBySlug(state.Domain); d != nil {
		view.Criteria = d.Criteria
		view.Kind = d.Kind
		view.ScaleMax = d.ScaleMax
	}
	return view
}

// Start handles POST /v1/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := h.sessionSvc.Start(r.Context(), req.Domain, req.UserEmail)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewFromState(state))
}

// Get handles GET /v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessionSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewFromState(state))
}

// Record handles POST /v1/sessions/{id}/record
func (h *SessionHandler) Record(w http.ResponseWriter, r *http.Request) {
	var input service.RecordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.sessionSvc.Record(r.Context(), mux.Vars(r)["id"], &input)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"recorded":   true,
		"questionId": record.QuestionID,
	})
}

// SkipRequest is the request body for skipping the current question
type SkipRequest struct {
	// UnsavedInput reports whether the reviewer has entered feedback that
	// would be discarded; Confirmed acknowledges the discard.
	UnsavedInput bool `json:"unsavedInput"`
	Confirmed    bool `json:"confirmed"`
}

// Skip handles POST /v1/sessions/{id}/skip
func (h *SessionHandler) Skip(w http.ResponseWriter, r *http.Request) {
	var req SkipRequest
	if r.Body != nil {
		// An empty body means a plain skip with nothing unsaved.
		json.NewDecoder(r.Body).Decode(&req)
	}

	state, err := h.sessionSvc.Skip(r.Context(), mux.Vars(r)["id"], req.UnsavedInput, req.Confirmed)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewFromState(state))
}

// Next handles POST /v1/sessions/{id}/next
func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessionSvc.Advance(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewFromState(state))
}

func writeSessionError(w http.ResponseWriter, err error) {
	var vErr *service.ValidationError
	var loadErr *service.LoadError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Reason)
	case errors.As(err, &loadErr):
		writeError(w, http.StatusBadGateway, loadErr.Error())
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrUnknownDomain):
		writeError(w, http.StatusNotFound, "unknown domain")
	case errors.Is(err, service.ErrSkipConfirmation):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrAlreadyRecorded), errors.Is(err, service.ErrNotRecorded), errors.Is(err, service.ErrSessionCompleted):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
