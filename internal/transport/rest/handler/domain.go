package handler

import (
	"encoding/json"
	"net/http"

	"sciannotate/internal/model"

	"github.com/go-playground/validator/v10"
)

// validate checks request payload tags across all handlers
var validate = validator.New()

// DomainHandler serves the domain catalog
type DomainHandler struct{}

// NewDomainHandler creates a new domain handler
func NewDomainHandler() *DomainHandler {
	return &DomainHandler{}
}

// List handles GET /v1/domains
func (h *DomainHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"domains": model.Domains()})
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
