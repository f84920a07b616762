package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"flutterai-engine/application/ports"
	"flutterai-engine/application/services"
	domaincfg "flutterai-engine/domain/config"
	"flutterai-engine/domain/core/valueobjects"
	pkgerrors "flutterai-engine/pkg/errors"
	"flutterai-engine/pkg/utils"
)

// GenerationHandler handles variant generation and refinement requests
type GenerationHandler struct {
	store  *services.ProjectStore
	client ports.GenerationClient
	cfg    *domaincfg.DomainConfig
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(
	store *services.ProjectStore,
	client ports.GenerationClient,
	cfg *domaincfg.DomainConfig,
	errHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *GenerationHandler {
	return &GenerationHandler{
		store:  store,
		client: client,
		cfg:    cfg,
		errors: errHandler,
		logger: logger,
	}
}

// GenerateRequest represents the request body for generating variants
type GenerateRequest struct {
	Prompt      string  `json:"prompt" validate:"required"`
	Style       string  `json:"style,omitempty"`
	Temperature float64 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=1"`
	MaxTokens   int     `json:"max_tokens,omitempty" validate:"omitempty,gte=1"`
	NumVariants int     `json:"num_variants,omitempty" validate:"omitempty,gte=1,lte=5"`
}

// RefineRequest represents the request body for refining code
type RefineRequest struct {
	Code         string `json:"code" validate:"required"`
	Instructions string `json:"instructions" validate:"required"`
}

// Generate handles POST /workspace/generate
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	opts, err := valueobjects.NewGenerationOptionsWithConfig(
		req.Style, req.Temperature, req.MaxTokens, req.NumVariants, h.cfg)
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	variants, err := h.store.GenerateVariants(r.Context(), req.Prompt, opts)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"variants": services.ToVariantDTOs(variants),
		"prompt":   req.Prompt,
	})
}

// SelectVariant handles POST /workspace/variants/{variantID}/select
func (h *GenerationHandler) SelectVariant(w http.ResponseWriter, r *http.Request) {
	if err := h.store.SelectVariant(chi.URLParam(r, "variantID")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"selected_variant_id": chi.URLParam(r, "variantID"),
	})
}

// AcceptVariant handles POST /workspace/variants/{variantID}/accept
func (h *GenerationHandler) AcceptVariant(w http.ResponseWriter, r *http.Request) {
	if err := h.store.AcceptVariant(chi.URLParam(r, "variantID")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, h.store.Snapshot())
}

// Refine handles POST /workspace/refine
func (h *GenerationHandler) Refine(w http.ResponseWriter, r *http.Request) {
	var req RefineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	refined, err := h.client.Refine(r.Context(), req.Code, req.Instructions)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"refined_code": refined,
	})
}
