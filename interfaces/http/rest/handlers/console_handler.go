package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"flutterai-engine/application/services"
	pkgerrors "flutterai-engine/pkg/errors"
	"flutterai-engine/pkg/utils"
)

// ConsoleHandler handles the console log stream
type ConsoleHandler struct {
	store  *services.ProjectStore
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewConsoleHandler creates a new console handler
func NewConsoleHandler(store *services.ProjectStore, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *ConsoleHandler {
	return &ConsoleHandler{
		store:  store,
		errors: errHandler,
		logger: logger,
	}
}

// AddConsoleLogRequest represents the request body for appending an entry
type AddConsoleLogRequest struct {
	Kind    string `json:"kind" validate:"required,oneof=info warning error"`
	Message string `json:"message" validate:"required"`
}

// ListLogs handles GET /console
func (h *ConsoleHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	logs := services.ToConsoleLogDTOs(h.store.ConsoleLogs())
	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"logs":  logs,
		"total": len(logs),
	})
}

// AddLog handles POST /console
func (h *ConsoleHandler) AddLog(w http.ResponseWriter, r *http.Request) {
	var req AddConsoleLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	entry, err := h.store.AddConsoleLog(req.Kind, req.Message)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusCreated, services.ConsoleLogDTO{
		ID:        entry.ID(),
		Kind:      string(entry.Kind()),
		Message:   entry.Message(),
		Timestamp: entry.Timestamp(),
	})
}
