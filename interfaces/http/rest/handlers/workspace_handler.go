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

// WorkspaceHandler handles file operations on the current project
type WorkspaceHandler struct {
	store  *services.ProjectStore
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(store *services.ProjectStore, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		store:  store,
		errors: errHandler,
		logger: logger,
	}
}

// CreateFileRequest represents the request body for adding a file or folder
type CreateFileRequest struct {
	ParentID string `json:"parent_id,omitempty"`
	Name     string `json:"name" validate:"required,max=255"`
	Content  string `json:"content,omitempty"`
	Folder   bool   `json:"folder,omitempty"`
}

// UpdateContentRequest represents the request body for writing file content
type UpdateContentRequest struct {
	Content string `json:"content"`
}

// RenameFileRequest represents the request body for renaming a node
type RenameFileRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// GetWorkspace handles GET /workspace
func (h *WorkspaceHandler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	respondJSON(h.logger, w, http.StatusOK, h.store.Snapshot())
}

// CreateFile handles POST /workspace/files
func (h *WorkspaceHandler) CreateFile(w http.ResponseWriter, r *http.Request) {
	var req CreateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	node, err := h.store.InsertFile(req.ParentID, req.Name, req.Content, req.Folder)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusCreated, services.ToFileNodeDTO(node))
}

// SelectFile handles POST /workspace/files/{fileID}/select
func (h *WorkspaceHandler) SelectFile(w http.ResponseWriter, r *http.Request) {
	if err := h.store.SelectFile(chi.URLParam(r, "fileID")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"selected_file_id": h.store.SelectedFileID().String(),
	})
}

// GetFileContent handles GET /workspace/files/{fileID}/content
func (h *WorkspaceHandler) GetFileContent(w http.ResponseWriter, r *http.Request) {
	node, err := h.store.FileContent(chi.URLParam(r, "fileID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, services.ToFileNodeDTO(node))
}

// UpdateFileContent handles PUT /workspace/files/{fileID}/content
func (h *WorkspaceHandler) UpdateFileContent(w http.ResponseWriter, r *http.Request) {
	var req UpdateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}

	changed, err := h.store.UpdateFileContent(chi.URLParam(r, "fileID"), req.Content)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"changed": changed,
	})
}

// RenameFile handles PATCH /workspace/files/{fileID}
func (h *WorkspaceHandler) RenameFile(w http.ResponseWriter, r *http.Request) {
	var req RenameFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("Invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	if err := h.store.RenameFile(chi.URLParam(r, "fileID"), req.Name); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteFile handles DELETE /workspace/files/{fileID}
func (h *WorkspaceHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveFile(chi.URLParam(r, "fileID")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
