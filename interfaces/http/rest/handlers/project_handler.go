package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"flutterai-engine/application/services"
	pkgerrors "flutterai-engine/pkg/errors"
	"flutterai-engine/pkg/utils"
)

// ProjectHandler handles project catalogue HTTP requests
type ProjectHandler struct {
	store  *services.ProjectStore
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(store *services.ProjectStore, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		store:  store,
		errors: errHandler,
		logger: logger,
	}
}

// CreateProjectRequest represents the request body for creating a project
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
	Template    string `json:"template,omitempty"`
}

// UpdateProjectRequest represents the request body for updating a project
type UpdateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// CreateProject handles POST /projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	project, err := h.store.CreateProject(req.Name, req.Description, req.Template)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusCreated, services.ToProjectDTO(project))
}

// ListProjects handles GET /projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects := h.store.ListProjects()
	out := make([]services.ProjectDTO, 0, len(projects))
	for _, p := range projects {
		out = append(out, services.ToProjectDTO(p))
	}
	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"projects": out,
		"total":    len(out),
	})
}

// GetProject handles GET /projects/{projectID}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.store.GetProject(chi.URLParam(r, "projectID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, services.ToProjectDTO(project))
}

// UpdateProject handles PATCH /projects/{projectID}
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	project, err := h.store.UpdateProject(chi.URLParam(r, "projectID"), req.Name, req.Description)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, services.ToProjectDTO(project))
}

// DeleteProject handles DELETE /projects/{projectID}
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteProject(chi.URLParam(r, "projectID")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// OpenProject handles POST /projects/{projectID}/open
func (h *ProjectHandler) OpenProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.store.SetCurrentProject(chi.URLParam(r, "projectID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"project":   services.ToProjectDTO(project),
		"file_tree": services.ToTreeDTO(project.Tree()),
	})
}
