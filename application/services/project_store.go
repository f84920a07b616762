package services

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"flutterai-engine/application/ports"
	"flutterai-engine/domain/config"
	"flutterai-engine/domain/core/aggregates"
	"flutterai-engine/domain/core/entities"
	"flutterai-engine/domain/core/valueobjects"
	"flutterai-engine/domain/events"
	pkgerrors "flutterai-engine/pkg/errors"
	"flutterai-engine/pkg/observability"
)

// ProjectStore is the engine's single mutation surface. It owns the project
// catalogue, the current-project pointer, the file selection, the generation
// workflow, and the console log, all guarded by one mutex so every mutation
// is atomic and every snapshot is consistent.
//
// The only operation that suspends is GenerateVariants, and it releases the
// lock for the duration of the network call: the Generating workflow state,
// not the mutex, is what keeps a second request out.
type ProjectStore struct {
	mu sync.Mutex

	projects       []*aggregates.Project
	current        *aggregates.Project
	selectedFileID valueobjects.FileID
	workflow       *GenerationWorkflow
	consoleLogs    []*entities.ConsoleLogEntry

	cfg       *config.DomainConfig
	templates ports.TemplateSource
	client    ports.GenerationClient
	publisher ports.EventPublisher
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewProjectStore creates an empty store
func NewProjectStore(
	cfg *config.DomainConfig,
	templates ports.TemplateSource,
	client ports.GenerationClient,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *ProjectStore {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectStore{
		projects:    []*aggregates.Project{},
		workflow:    NewGenerationWorkflow(),
		consoleLogs: []*entities.ConsoleLogEntry{},
		cfg:         cfg,
		templates:   templates,
		client:      client,
		publisher:   publisher,
		metrics:     metrics,
		logger:      logger,
	}
}

// ---------------------------------------------------------------------------
// Project catalogue

// CreateProject adds a project seeded from the named template. The new
// project is appended to the catalogue but NOT made current; opening it is a
// separate, explicit step.
func (s *ProjectStore) CreateProject(name, description, templateID string) (*aggregates.Project, error) {
	if len(name) > s.cfg.MaxProjectNameLength {
		return nil, pkgerrors.NewValidationError("project name exceeds maximum length")
	}
	if len(description) > s.cfg.MaxDescriptionLength {
		return nil, pkgerrors.NewValidationError("project description exceeds maximum length")
	}

	if templateID == "" {
		templateID = s.cfg.DefaultTemplateID
	}

	var tree *aggregates.FileTree
	if s.templates != nil {
		instantiated, resolvedID := s.templates.Instantiate(templateID)
		tree = instantiated
		if resolvedID != templateID {
			s.logger.Debug("unknown template, using default",
				zap.String("requested", templateID),
				zap.String("resolved", resolvedID))
		}
	} else {
		tree = aggregates.EmptyFileTree()
	}

	project, err := aggregates.NewProject(name, description, templateID, tree)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects = append(s.projects, project)
	s.metrics.SetProjectsOpen(len(s.projects))
	s.drainEventsLocked(project)

	s.logger.Info("project created",
		zap.String("project_id", project.ID().String()),
		zap.String("template", templateID))

	return project, nil
}

// ListProjects returns the catalogue in creation order
func (s *ProjectStore) ListProjects() []*aggregates.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*aggregates.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// GetProject looks a project up by id
func (s *ProjectStore) GetProject(id string) (*aggregates.Project, error) {
	projectID, err := valueobjects.NewProjectIDFromString(id)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid project ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, project := s.findProjectLocked(projectID)
	if project == nil {
		return nil, pkgerrors.NewNotFoundError("project")
	}
	return project, nil
}

// UpdateProject changes a project's name and description
func (s *ProjectStore) UpdateProject(id, name, description string) (*aggregates.Project, error) {
	projectID, err := valueobjects.NewProjectIDFromString(id)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid project ID")
	}
	if len(name) > s.cfg.MaxProjectNameLength {
		return nil, pkgerrors.NewValidationError("project name exceeds maximum length")
	}
	if len(description) > s.cfg.MaxDescriptionLength {
		return nil, pkgerrors.NewValidationError("project description exceeds maximum length")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, project := s.findProjectLocked(projectID)
	if project == nil {
		return nil, pkgerrors.NewNotFoundError("project")
	}
	if err := project.UpdateMetadata(name, description); err != nil {
		return nil, err
	}
	s.drainEventsLocked(project)
	return project, nil
}

// SetCurrentProject switches the workspace to the given project. The file
// selection is cleared and the workflow reset so nothing from the previous
// project carries over.
func (s *ProjectStore) SetCurrentProject(id string) (*aggregates.Project, error) {
	projectID, err := valueobjects.NewProjectIDFromString(id)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid project ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, project := s.findProjectLocked(projectID)
	if project == nil {
		return nil, pkgerrors.NewNotFoundError("project")
	}

	s.current = project
	s.selectedFileID = valueobjects.FileID{}
	s.workflow.Reset()

	s.publishLocked(events.NewProjectOpened(projectID, time.Now()))
	s.logger.Info("project opened", zap.String("project_id", id))

	return project, nil
}

// DeleteProject removes a project from the catalogue. Deleting the current
// project clears the workspace pointer, the selection, and the workflow.
func (s *ProjectStore) DeleteProject(id string) error {
	projectID, err := valueobjects.NewProjectIDFromString(id)
	if err != nil {
		return pkgerrors.NewValidationError("invalid project ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, project := s.findProjectLocked(projectID)
	if project == nil {
		return pkgerrors.NewNotFoundError("project")
	}

	s.projects = append(s.projects[:idx], s.projects[idx+1:]...)
	s.metrics.SetProjectsOpen(len(s.projects))

	wasCurrent := s.current == project
	if wasCurrent {
		s.current = nil
		s.selectedFileID = valueobjects.FileID{}
		s.workflow.Reset()
	}

	s.publishLocked(events.NewProjectDeleted(projectID, wasCurrent, time.Now()))
	s.logger.Info("project deleted",
		zap.String("project_id", id),
		zap.Bool("was_current", wasCurrent))

	return nil
}

// CurrentProject returns the workspace project, nil when none is open
func (s *ProjectStore) CurrentProject() *aggregates.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// ---------------------------------------------------------------------------
// File operations (current project)

// SelectFile marks a file as the merge target for accepted variants.
// Selecting a folder is a no-op: the previous selection stays.
func (s *ProjectStore) SelectFile(id string) error {
	fileID, err := valueobjects.NewFileIDFromString(id)
	if err != nil {
		return pkgerrors.NewValidationError("invalid file ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return pkgerrors.NewNotFoundError("current project")
	}

	node := s.current.Tree().FindByID(fileID)
	if node == nil {
		return pkgerrors.NewNotFoundError("file")
	}
	if node.IsFolder() {
		return nil
	}

	s.selectedFileID = fileID
	return nil
}

// SelectedFileID returns the current merge target, zero when none
func (s *ProjectStore) SelectedFileID() valueobjects.FileID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedFileID
}

// FileContent reads a file's content from the current project
func (s *ProjectStore) FileContent(id string) (*entities.FileNode, error) {
	fileID, err := valueobjects.NewFileIDFromString(id)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid file ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, pkgerrors.NewNotFoundError("current project")
	}

	node := s.current.Tree().FindByID(fileID)
	if node == nil {
		return nil, pkgerrors.NewNotFoundError("file")
	}
	if node.IsFolder() {
		return nil, pkgerrors.NewValidationError("node is a folder, not a file")
	}
	return node, nil
}

// UpdateFileContent writes a file's content. Unknown ids, folder ids, and
// identical content all leave the project untouched; the return value
// reports whether anything actually changed.
func (s *ProjectStore) UpdateFileContent(id, content string) (bool, error) {
	fileID, err := valueobjects.NewFileIDFromString(id)
	if err != nil {
		return false, pkgerrors.NewValidationError("invalid file ID")
	}
	if len(content) > s.cfg.MaxContentLength {
		return false, pkgerrors.NewValidationError("file content exceeds maximum length")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return false, pkgerrors.NewNotFoundError("current project")
	}

	changed := s.current.UpdateFileContent(fileID, content)
	if changed {
		s.drainEventsLocked(s.current)
	}
	return changed, nil
}

// InsertFile adds a file or folder under the given parent. An empty parent
// id targets the tree root.
func (s *ProjectStore) InsertFile(parentID, name, content string, folder bool) (*entities.FileNode, error) {
	if len(name) > s.cfg.MaxFileNameLength {
		return nil, pkgerrors.NewValidationError("file name exceeds maximum length")
	}

	var node *entities.FileNode
	var err error
	if folder {
		node, err = entities.NewFolderNode(name)
	} else {
		node, err = entities.NewFileNode(name, content, "")
	}
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	var parent valueobjects.FileID
	if parentID != "" {
		parent, err = valueobjects.NewFileIDFromString(parentID)
		if err != nil {
			return nil, pkgerrors.NewValidationError("invalid parent ID")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, pkgerrors.NewNotFoundError("current project")
	}

	if !parent.IsZero() {
		if s.current.Tree().DepthOf(parent)+1 > s.cfg.MaxTreeDepth {
			return nil, pkgerrors.NewValidationError("file tree depth exceeds maximum")
		}
	}

	if err := s.current.InsertFile(parent, node); err != nil {
		return nil, err
	}
	s.drainEventsLocked(s.current)
	return node, nil
}

// RemoveFile deletes a node. When the removed subtree covered the selected
// file, the selection is cleared.
func (s *ProjectStore) RemoveFile(id string) error {
	fileID, err := valueobjects.NewFileIDFromString(id)
	if err != nil {
		return pkgerrors.NewValidationError("invalid file ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return pkgerrors.NewNotFoundError("current project")
	}

	removed, err := s.current.RemoveFile(fileID)
	if err != nil {
		return err
	}
	if !s.selectedFileID.IsZero() && aggregates.SubtreeContains(removed, s.selectedFileID) {
		s.selectedFileID = valueobjects.FileID{}
	}
	s.drainEventsLocked(s.current)
	return nil
}

// RenameFile changes a node's display name
func (s *ProjectStore) RenameFile(id, name string) error {
	fileID, err := valueobjects.NewFileIDFromString(id)
	if err != nil {
		return pkgerrors.NewValidationError("invalid file ID")
	}
	if len(name) > s.cfg.MaxFileNameLength {
		return pkgerrors.NewValidationError("file name exceeds maximum length")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return pkgerrors.NewNotFoundError("current project")
	}

	if err := s.current.RenameFile(fileID, name); err != nil {
		return err
	}
	s.drainEventsLocked(s.current)
	return nil
}

// ---------------------------------------------------------------------------
// Generation

// GenerateVariants runs the full request lifecycle: claim the in-flight
// slot, call the generation service with the lock released, then complete
// with the slot token. A response whose token no longer holds the slot,
// because the project was switched or deleted while it was in flight, is
// discarded silently even if the same project was made current again.
func (s *ProjectStore) GenerateVariants(ctx context.Context, prompt string, opts valueobjects.GenerationOptions) ([]*entities.Variant, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, pkgerrors.NewValidationError("prompt cannot be empty")
	}

	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return nil, pkgerrors.NewNotFoundError("current project")
	}
	origin := s.current.ID()
	token, err := s.workflow.Begin(prompt)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	start := time.Now()
	variants, genErr := s.client.Generate(ctx, prompt, opts)
	elapsed := time.Since(start).Seconds()

	s.mu.Lock()
	defer s.mu.Unlock()

	if genErr != nil {
		if !s.workflow.CompleteFailure(token) {
			s.metrics.RecordGeneration("stale", elapsed)
			s.logger.Info("discarding stale generation result",
				zap.String("origin_project_id", origin.String()))
			return nil, nil
		}
		s.metrics.RecordGeneration("failure", elapsed)
		s.appendConsoleLocked(entities.LogKindError, "Generation failed: "+errorReason(genErr))
		s.publishLocked(events.NewGenerationFailed(origin, prompt, errorReason(genErr), time.Now()))
		return nil, genErr
	}

	if !s.workflow.CompleteSuccess(token, variants) {
		s.metrics.RecordGeneration("stale", elapsed)
		s.logger.Info("discarding stale generation result",
			zap.String("origin_project_id", origin.String()))
		return nil, nil
	}
	s.metrics.RecordGeneration("success", elapsed)
	s.appendConsoleLocked(entities.LogKindInfo, "Generated "+pluralVariants(len(variants))+" for prompt")
	s.publishLocked(events.NewVariantsGenerated(origin, prompt, len(variants), time.Now()))

	s.logger.Info("variants generated",
		zap.String("project_id", origin.String()),
		zap.Int("count", len(variants)),
		zap.Float64("seconds", elapsed))

	return variants, nil
}

// SelectVariant marks a variant in the current batch for preview
func (s *ProjectStore) SelectVariant(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return pkgerrors.NewNotFoundError("current project")
	}
	return s.workflow.SelectVariant(id)
}

// AcceptVariant merges a variant's code into the selected file as a full
// replacement, then clears the batch. Without a selected file it fails with
// NoFileSelected and the batch stays available.
func (s *ProjectStore) AcceptVariant(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return pkgerrors.NewNotFoundError("current project")
	}

	fileID := s.selectedFileID
	err := s.workflow.Accept(id, func(code string) error {
		if fileID.IsZero() {
			return pkgerrors.NewNoFileSelectedError()
		}
		s.current.UpdateFileContent(fileID, code)
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.RecordAccept()
	s.drainEventsLocked(s.current)
	s.publishLocked(events.NewVariantAccepted(s.current.ID(), id, fileID, time.Now()))
	s.appendConsoleLocked(entities.LogKindInfo, "Variant accepted into selected file")

	return nil
}

// Workflow exposes the state machine for read access
func (s *ProjectStore) Workflow() *GenerationWorkflow {
	return s.workflow
}

// ---------------------------------------------------------------------------
// Console log

// ConsoleLogs returns the append-only console history
func (s *ProjectStore) ConsoleLogs() []*entities.ConsoleLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entities.ConsoleLogEntry, len(s.consoleLogs))
	copy(out, s.consoleLogs)
	return out
}

// AddConsoleLog appends a console entry with a generated id and timestamp
func (s *ProjectStore) AddConsoleLog(kind, message string) (*entities.ConsoleLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendConsoleLocked(entities.LogKind(kind), message)
}

func (s *ProjectStore) appendConsoleLocked(kind entities.LogKind, message string) (*entities.ConsoleLogEntry, error) {
	if len(message) > s.cfg.MaxConsoleMessageLength {
		message = message[:s.cfg.MaxConsoleMessageLength]
	}

	entry, err := entities.NewConsoleLogEntry(kind, message)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	s.consoleLogs = append(s.consoleLogs, entry)
	s.metrics.RecordConsoleEntry(string(kind))
	s.publishLocked(events.NewConsoleLogAppended(entry.ID(), string(kind), entry.Message(), entry.Timestamp()))
	return entry, nil
}

// ---------------------------------------------------------------------------
// Snapshot

// Snapshot takes a consistent read of the whole engine state
func (s *ProjectStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Projects:      make([]ProjectDTO, 0, len(s.projects)),
		FileTree:      []FileNodeDTO{},
		WorkflowState: s.workflow.State(),
		Variants:      ToVariantDTOs(s.workflow.Variants()),
		ConsoleLogs:   ToConsoleLogDTOs(s.consoleLogs),
	}
	for _, p := range s.projects {
		snap.Projects = append(snap.Projects, ToProjectDTO(p))
	}
	if s.current != nil {
		snap.CurrentProjectID = s.current.ID().String()
		snap.FileTree = ToTreeDTO(s.current.Tree())
	}
	if !s.selectedFileID.IsZero() {
		snap.SelectedFileID = s.selectedFileID.String()
	}
	snap.Prompt = s.workflow.Prompt()
	snap.SelectedVariantID = s.workflow.SelectedVariantID()

	return snap
}

// ---------------------------------------------------------------------------
// internals

func (s *ProjectStore) findProjectLocked(id valueobjects.ProjectID) (int, *aggregates.Project) {
	for i, p := range s.projects {
		if p.ID().Equals(id) {
			return i, p
		}
	}
	return -1, nil
}

func (s *ProjectStore) drainEventsLocked(project *aggregates.Project) {
	for _, event := range project.GetUncommittedEvents() {
		s.publisher.Publish(event)
	}
	project.MarkEventsAsCommitted()
}

func (s *ProjectStore) publishLocked(event events.DomainEvent) {
	s.publisher.Publish(event)
}

func errorReason(err error) string {
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		return appErr.Message
	}
	return err.Error()
}

func pluralVariants(n int) string {
	if n == 1 {
		return "1 variant"
	}
	return strconv.Itoa(n) + " variants"
}
