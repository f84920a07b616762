package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"flutterai-engine/application/ports"
	pkgerrors "flutterai-engine/pkg/errors"
)

// MetaHandler serves templates, style presets, and model metadata
type MetaHandler struct {
	templates ports.TemplateSource
	client    ports.GenerationClient
	errors    *pkgerrors.ErrorHandler
	logger    *zap.Logger
}

// NewMetaHandler creates a new meta handler
func NewMetaHandler(
	templates ports.TemplateSource,
	client ports.GenerationClient,
	errHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *MetaHandler {
	return &MetaHandler{
		templates: templates,
		client:    client,
		errors:    errHandler,
		logger:    logger,
	}
}

// ListTemplates handles GET /templates
func (h *MetaHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"templates": h.templates.List(),
	})
}

// ListStyles handles GET /styles
func (h *MetaHandler) ListStyles(w http.ResponseWriter, r *http.Request) {
	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"styles": h.templates.Styles(),
	})
}

// ModelInfo handles GET /model/info
func (h *MetaHandler) ModelInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.client.ModelInfo(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, info)
}
