package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"flutterai-engine/application/ports"
	domaincfg "flutterai-engine/domain/config"
	"flutterai-engine/domain/core/aggregates"
	"flutterai-engine/domain/core/entities"
	"flutterai-engine/domain/core/valueobjects"
	"flutterai-engine/domain/events"
	pkgerrors "flutterai-engine/pkg/errors"
)

// ---------------------------------------------------------------------------
// test doubles

type mockGenerationClient struct {
	mock.Mock
}

func (m *mockGenerationClient) Generate(ctx context.Context, prompt string, opts valueobjects.GenerationOptions) ([]*entities.Variant, error) {
	args := m.Called(ctx, prompt, opts)
	if v := args.Get(0); v != nil {
		return v.([]*entities.Variant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGenerationClient) Refine(ctx context.Context, code, instructions string) (string, error) {
	args := m.Called(ctx, code, instructions)
	return args.String(0), args.Error(1)
}

func (m *mockGenerationClient) Health(ctx context.Context) (*ports.ServiceHealth, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(*ports.ServiceHealth), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGenerationClient) ModelInfo(ctx context.Context) (*ports.ModelInfo, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(*ports.ModelInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

// blockingClient parks Generate until released so tests can observe the
// Generating state from another goroutine
type blockingClient struct {
	started chan struct{}
	release chan struct{}
	batch   []*entities.Variant
	err     error
}

func newBlockingClient(batch []*entities.Variant, err error) *blockingClient {
	return &blockingClient{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		batch:   batch,
		err:     err,
	}
}

func (c *blockingClient) Generate(ctx context.Context, prompt string, opts valueobjects.GenerationOptions) ([]*entities.Variant, error) {
	c.started <- struct{}{}
	<-c.release
	return c.batch, c.err
}

func (c *blockingClient) Refine(ctx context.Context, code, instructions string) (string, error) {
	return code, nil
}

func (c *blockingClient) Health(ctx context.Context) (*ports.ServiceHealth, error) {
	return &ports.ServiceHealth{Status: "healthy"}, nil
}

func (c *blockingClient) ModelInfo(ctx context.Context) (*ports.ModelInfo, error) {
	return &ports.ModelInfo{}, nil
}

// sequencedClient gives every Generate call its own slot so tests can hold
// several requests in flight and release them in any order
type sequencedClient struct {
	mu    sync.Mutex
	calls []*sequencedCall
	next  int
}

type sequencedCall struct {
	batch   []*entities.Variant
	started chan struct{}
	release chan struct{}
}

func newSequencedClient(batches ...[]*entities.Variant) *sequencedClient {
	c := &sequencedClient{}
	for _, batch := range batches {
		c.calls = append(c.calls, &sequencedCall{
			batch:   batch,
			started: make(chan struct{}),
			release: make(chan struct{}),
		})
	}
	return c
}

func (c *sequencedClient) Generate(ctx context.Context, prompt string, opts valueobjects.GenerationOptions) ([]*entities.Variant, error) {
	c.mu.Lock()
	call := c.calls[c.next]
	c.next++
	c.mu.Unlock()
	close(call.started)
	<-call.release
	return call.batch, nil
}

func (c *sequencedClient) Refine(ctx context.Context, code, instructions string) (string, error) {
	return code, nil
}

func (c *sequencedClient) Health(ctx context.Context) (*ports.ServiceHealth, error) {
	return &ports.ServiceHealth{Status: "healthy"}, nil
}

func (c *sequencedClient) ModelInfo(ctx context.Context) (*ports.ModelInfo, error) {
	return &ports.ModelInfo{}, nil
}

type stubTemplates struct{}

func (s *stubTemplates) Instantiate(templateID string) (*aggregates.FileTree, string) {
	resolved := templateID
	if templateID != "lovable" && templateID != "blank" {
		resolved = "lovable"
	}
	mainDart, _ := entities.NewFileNode("main.dart", "void main() {}", "")
	lib, _ := entities.ReconstructFileNode(
		valueobjects.NewFileID(), "lib", entities.NodeTypeFolder, "", "",
		[]*entities.FileNode{mainDart})
	readme, _ := entities.NewFileNode("README.md", "# app", "")
	return aggregates.NewFileTree([]*entities.FileNode{lib, readme}), resolved
}

func (s *stubTemplates) List() []ports.TemplateInfo {
	return []ports.TemplateInfo{{ID: "lovable", Name: "Lovable Starter"}}
}

func (s *stubTemplates) Styles() []ports.StylePreset {
	return []ports.StylePreset{{ID: "lovable", Name: "Lovable"}}
}

type capturePublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (p *capturePublisher) Publish(event events.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturePublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.GetEventType())
	}
	return out
}

// ---------------------------------------------------------------------------
// helpers

func newTestStore(t *testing.T, client ports.GenerationClient) (*ProjectStore, *capturePublisher) {
	t.Helper()
	publisher := &capturePublisher{}
	store := NewProjectStore(nil, &stubTemplates{}, client, publisher, nil, zap.NewNop())
	return store, publisher
}

func openProject(t *testing.T, store *ProjectStore, name string) *aggregates.Project {
	t.Helper()
	project, err := store.CreateProject(name, "", "lovable")
	require.NoError(t, err)
	_, err = store.SetCurrentProject(project.ID().String())
	require.NoError(t, err)
	return project
}

func selectFileByName(t *testing.T, store *ProjectStore, project *aggregates.Project, name string) valueobjects.FileID {
	t.Helper()
	var id valueobjects.FileID
	for _, root := range project.Tree().Roots() {
		if root.Name() == name {
			id = root.ID()
		}
		for _, child := range root.Children() {
			if child.Name() == name {
				id = child.ID()
			}
		}
	}
	require.False(t, id.IsZero(), "file %q not found", name)
	require.NoError(t, store.SelectFile(id.String()))
	return id
}

func defaultOptions() valueobjects.GenerationOptions {
	return valueobjects.DefaultGenerationOptions()
}

// ---------------------------------------------------------------------------
// catalogue

func TestStore_CreateProject_NotMadeCurrent(t *testing.T) {
	store, publisher := newTestStore(t, new(mockGenerationClient))

	project, err := store.CreateProject("My App", "desc", "lovable")

	require.NoError(t, err)
	assert.Nil(t, store.CurrentProject())
	assert.Len(t, store.ListProjects(), 1)
	assert.Equal(t, 3, project.Tree().Size())
	assert.Contains(t, publisher.eventTypes(), "project.created")
}

func TestStore_CreateProject_UnknownTemplateFallsBack(t *testing.T) {
	store, _ := newTestStore(t, new(mockGenerationClient))

	project, err := store.CreateProject("My App", "", "no-such-template")

	require.NoError(t, err)
	// The requested template string is kept on the project
	assert.Equal(t, "no-such-template", project.Template())
	// But the tree was seeded from the default template
	assert.Greater(t, project.Tree().Size(), 0)
}

func TestStore_CreateProject_EmptyNameFails(t *testing.T) {
	store, _ := newTestStore(t, new(mockGenerationClient))

	_, err := store.CreateProject("   ", "", "lovable")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Empty(t, store.ListProjects())
}

func TestStore_GetProject(t *testing.T) {
	store, _ := newTestStore(t, new(mockGenerationClient))
	project, err := store.CreateProject("App", "", "lovable")
	require.NoError(t, err)

	got, err := store.GetProject(project.ID().String())
	require.NoError(t, err)
	assert.Same(t, project, got)

	_, err = store.GetProject(valueobjects.NewProjectID().String())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestStore_SetCurrentProject_ResetsWorkspace(t *testing.T) {
	client := new(mockGenerationClient)
	store, publisher := newTestStore(t, client)
	first := openProject(t, store, "First")
	selectFileByName(t, store, first, "README.md")

	client.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(testBatch(t), nil).Once()
	_, err := store.GenerateVariants(context.Background(), "a form", defaultOptions())
	require.NoError(t, err)
	require.Equal(t, StateVariantsReady, store.Workflow().State())

	second, err := store.CreateProject("Second", "", "lovable")
	require.NoError(t, err)
	_, err = store.SetCurrentProject(second.ID().String())
	require.NoError(t, err)

	assert.Same(t, second, store.CurrentProject())
	assert.True(t, store.SelectedFileID().IsZero())
	assert.Equal(t, StateIdle, store.Workflow().State())
	assert.Empty(t, store.Workflow().Variants())
	assert.Contains(t, publisher.eventTypes(), "project.opened")
}

func TestStore_SetCurrentProject_Unknown(t *testing.T) {
	store, _ := newTestStore(t, new(mockGenerationClient))

	_, err := store.SetCurrentProject(valueobjects.NewProjectID().String())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestStore_DeleteProject(t *testing.T) {
	store, publisher := newTestStore(t, new(mockGenerationClient))
	project := openProject(t, store, "App")
	selectFileByName(t, store, project, "README.md")

	require.NoError(t, store.DeleteProject(project.ID().String()))

	assert.Empty(t, store.ListProjects())
	assert.Nil(t, store.CurrentProject())
	assert.True(t, store.SelectedFileID().IsZero())
	assert.Equal(t, StateIdle, store.Workflow().State())
	assert.Contains(t, publisher.eventTypes(), "project.deleted")
}

func TestStore_DeleteProject_NotCurrentKeepsWorkspace(t *testing.T) {
	store, _ := newTestStore(t, new(mockGenerationClient))
	current := openProject(t, store, "Current")
	other, err := store.CreateProject("Other", "", "lovable")
	require.NoError(t, err)

	require.NoError(t, store.DeleteProject(other.ID().String()))

	assert.Same(t, current, store.CurrentProject())
	assert.Len(t, store.ListProjects(), 1)
}

// ---------------------------------------------------------------------------
// file operations

func TestStore_SelectFile(t *testing.T) {
	store, _ := newTestStore(t, new(mockGenerationClient))
	project := openProject(t, store, "App")

	fileID := selectFileByName(t, store, project, "main.dart")
	assert.Equal(t, fileID, store.SelectedFileID())

	// Selecting a folder is a no-op: the file stays selected
	var folderID valueobjects.FileID
	for _, root := range project.Tree().Roots() {
		if root.IsFolder() {
			folderID = root.ID()
		}
	}
	require.NoError(t, store.SelectFile(folderID.String()))
	assert.Equal(t, fileID, store.SelectedFileID())

	err := store.SelectFile(valueobjects.NewFileID().String())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestStore_SelectFile_NoCurrentProject(t *testing.T) {
	store, _ := newTestStore(t, new(mockGenerationClient))

	err := store.SelectFile(valueobjects.NewFileID().String())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestStore_UpdateFileContent(t *testing.T) {
	store, _ := newTestStore(t, new(mockGenerationClient))
	project := openProject(t, store, "App")
	fileID := selectFileByName(t, store, project, "main.dart")

	changed, err := store.UpdateFileContent(fileID.String(), "runApp();")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = store.UpdateFileContent(fileID.String(), "runApp();")
	require.NoError(t, err)
	assert.False(t, changed)

	node, err := store.FileContent(fileID.String())
	require.NoError(t, err)
	assert.Equal(t, "runApp();", node.Content())
}

func TestStore_InsertAndRemoveFile(t *testing.T) {
	store, _ := newTestStore(t, new(mockGenerationClient))
	openProject(t, store, "App")

	node, err := store.InsertFile("", "extra.dart", "// extra", false)
	require.NoError(t, err)
	require.NoError(t, store.SelectFile(node.ID().String()))

	require.NoError(t, store.RemoveFile(node.ID().String()))

	// Removing the selected file clears the selection
	assert.True(t, store.SelectedFileID().IsZero())
	assert.Nil(t, store.CurrentProject().Tree().FindByID(node.ID()))
}

func TestStore_InsertFile_DepthLimit(t *testing.T) {
	cfg := domaincfg.DefaultDomainConfig()
	cfg.MaxTreeDepth = 2
	store := NewProjectStore(cfg, &stubTemplates{}, new(mockGenerationClient), nil, nil, zap.NewNop())
	openProject(t, store, "App")

	// Depth 1: a new top-level folder
	level1, err := store.InsertFile("", "deep", "", true)
	require.NoError(t, err)

	// Depth 2: still within the limit
	level2, err := store.InsertFile(level1.ID().String(), "deeper", "", true)
	require.NoError(t, err)

	// Depth 3: over the limit
	_, err = store.InsertFile(level2.ID().String(), "too-deep.dart", "", false)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestStore_RemoveFolderClearsSelectionInside(t *testing.T) {
	store, _ := newTestStore(t, new(mockGenerationClient))
	project := openProject(t, store, "App")
	selectFileByName(t, store, project, "main.dart")

	var folderID valueobjects.FileID
	for _, root := range project.Tree().Roots() {
		if root.IsFolder() {
			folderID = root.ID()
		}
	}
	require.NoError(t, store.RemoveFile(folderID.String()))

	assert.True(t, store.SelectedFileID().IsZero())
}

func TestStore_RenameFile(t *testing.T) {
	store, _ := newTestStore(t, new(mockGenerationClient))
	project := openProject(t, store, "App")
	fileID := selectFileByName(t, store, project, "README.md")

	require.NoError(t, store.RenameFile(fileID.String(), "NOTES.md"))

	assert.Equal(t, "NOTES.md", store.CurrentProject().Tree().FindByID(fileID).Name())
}

// ---------------------------------------------------------------------------
// generation lifecycle

func TestStore_GenerateVariants_Success(t *testing.T) {
	client := new(mockGenerationClient)
	store, publisher := newTestStore(t, client)
	openProject(t, store, "App")

	client.On("Generate", mock.Anything, "a login form", mock.Anything).
		Return(testBatch(t), nil).Once()

	variants, err := store.GenerateVariants(context.Background(), "a login form", defaultOptions())

	require.NoError(t, err)
	assert.Len(t, variants, 3)
	assert.Equal(t, StateVariantsReady, store.Workflow().State())
	assert.Contains(t, publisher.eventTypes(), "generation.variants_ready")

	logs := store.ConsoleLogs()
	require.NotEmpty(t, logs)
	assert.Equal(t, entities.LogKindInfo, logs[len(logs)-1].Kind())
	client.AssertExpectations(t)
}

func TestStore_GenerateVariants_NoCurrentProject(t *testing.T) {
	store, _ := newTestStore(t, new(mockGenerationClient))

	_, err := store.GenerateVariants(context.Background(), "prompt", defaultOptions())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestStore_GenerateVariants_EmptyPrompt(t *testing.T) {
	store, _ := newTestStore(t, new(mockGenerationClient))
	openProject(t, store, "App")

	_, err := store.GenerateVariants(context.Background(), "   ", defaultOptions())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestStore_GenerateVariants_BusyRejection(t *testing.T) {
	client := newBlockingClient(testBatch(t), nil)
	store, _ := newTestStore(t, client)
	openProject(t, store, "App")

	done := make(chan error, 1)
	go func() {
		_, err := store.GenerateVariants(context.Background(), "first", defaultOptions())
		done <- err
	}()
	<-client.started

	_, err := store.GenerateVariants(context.Background(), "second", defaultOptions())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsGenerationBusy(err))

	close(client.release)
	require.NoError(t, <-done)
	assert.Equal(t, StateVariantsReady, store.Workflow().State())
	assert.Equal(t, "first", store.Workflow().Prompt())
}

func TestStore_GenerateVariants_FailureLogsOneError(t *testing.T) {
	client := new(mockGenerationClient)
	store, publisher := newTestStore(t, client)
	openProject(t, store, "App")

	client.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, pkgerrors.NewGenerationFailedError("model exploded")).Once()

	_, err := store.GenerateVariants(context.Background(), "prompt", defaultOptions())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsGenerationFailed(err))
	assert.Equal(t, StateIdle, store.Workflow().State())
	assert.Empty(t, store.Workflow().Variants())

	errorLogs := 0
	for _, entry := range store.ConsoleLogs() {
		if entry.Kind() == entities.LogKindError {
			errorLogs++
			assert.Contains(t, entry.Message(), "model exploded")
		}
	}
	assert.Equal(t, 1, errorLogs)
	assert.Contains(t, publisher.eventTypes(), "generation.failed")
}

func TestStore_GenerateVariants_StaleResultDiscarded(t *testing.T) {
	client := newBlockingClient(testBatch(t), nil)
	store, _ := newTestStore(t, client)
	openProject(t, store, "First")
	second, err := store.CreateProject("Second", "", "lovable")
	require.NoError(t, err)

	done := make(chan struct {
		variants []*entities.Variant
		err      error
	}, 1)
	go func() {
		variants, err := store.GenerateVariants(context.Background(), "prompt", defaultOptions())
		done <- struct {
			variants []*entities.Variant
			err      error
		}{variants, err}
	}()
	<-client.started

	// Switch projects while the request is in flight
	_, err = store.SetCurrentProject(second.ID().String())
	require.NoError(t, err)

	close(client.release)
	result := <-done

	// Discarded silently: no error, no variants, nothing applied
	assert.NoError(t, result.err)
	assert.Nil(t, result.variants)
	assert.Equal(t, StateIdle, store.Workflow().State())
	assert.Empty(t, store.Workflow().Variants())
}

func TestStore_GenerateVariants_ResultOutlivingProjectSwitchRoundTripDiscarded(t *testing.T) {
	// Switching away and back re-opens the same project, so a stale check on
	// project identity alone would let the abandoned request's response land.
	abandoned := mustVariant(t, "old", "old code", 0.9)
	fresh := mustVariant(t, "new", "new code", 0.9)
	client := newSequencedClient(
		[]*entities.Variant{abandoned},
		[]*entities.Variant{fresh},
	)
	store, _ := newTestStore(t, client)
	first := openProject(t, store, "First")
	second, err := store.CreateProject("Second", "", "lovable")
	require.NoError(t, err)

	type genResult struct {
		variants []*entities.Variant
		err      error
	}
	firstDone := make(chan genResult, 1)
	go func() {
		variants, err := store.GenerateVariants(context.Background(), "first prompt", defaultOptions())
		firstDone <- genResult{variants, err}
	}()
	<-client.calls[0].started

	// Away and back while the first request is still in flight
	_, err = store.SetCurrentProject(second.ID().String())
	require.NoError(t, err)
	_, err = store.SetCurrentProject(first.ID().String())
	require.NoError(t, err)

	secondDone := make(chan genResult, 1)
	go func() {
		variants, err := store.GenerateVariants(context.Background(), "second prompt", defaultOptions())
		secondDone <- genResult{variants, err}
	}()
	<-client.calls[1].started

	// The abandoned response resolves first and must be dropped
	close(client.calls[0].release)
	result := <-firstDone
	assert.NoError(t, result.err)
	assert.Nil(t, result.variants)
	assert.Equal(t, StateGenerating, store.Workflow().State())
	assert.Equal(t, "second prompt", store.Workflow().Prompt())
	assert.Empty(t, store.Workflow().Variants())

	// The live request still completes normally
	close(client.calls[1].release)
	result = <-secondDone
	require.NoError(t, result.err)
	require.Len(t, result.variants, 1)
	assert.Equal(t, "new", result.variants[0].ID())
	assert.Equal(t, StateVariantsReady, store.Workflow().State())
	require.Len(t, store.Workflow().Variants(), 1)
	assert.Equal(t, "new", store.Workflow().Variants()[0].ID())
}

func TestStore_AcceptVariant_MergesIntoSelectedFile(t *testing.T) {
	client := new(mockGenerationClient)
	store, publisher := newTestStore(t, client)
	project := openProject(t, store, "App")
	fileID := selectFileByName(t, store, project, "main.dart")

	client.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(testBatch(t), nil).Once()
	_, err := store.GenerateVariants(context.Background(), "prompt", defaultOptions())
	require.NoError(t, err)

	require.NoError(t, store.SelectVariant("v2"))
	require.NoError(t, store.AcceptVariant("v2"))

	// Full replacement of the selected file's content
	node := store.CurrentProject().Tree().FindByID(fileID)
	assert.Equal(t, "code two", node.Content())
	assert.Equal(t, StateIdle, store.Workflow().State())
	assert.Empty(t, store.Workflow().Variants())
	assert.Contains(t, publisher.eventTypes(), "generation.variant_accepted")
}

func TestStore_AcceptVariant_NoFileSelected(t *testing.T) {
	client := new(mockGenerationClient)
	store, _ := newTestStore(t, client)
	openProject(t, store, "App")

	client.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(testBatch(t), nil).Once()
	_, err := store.GenerateVariants(context.Background(), "prompt", defaultOptions())
	require.NoError(t, err)

	err = store.AcceptVariant("v1")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsNoFileSelected(err))
	// Batch survives so the user can pick a file and retry
	assert.Equal(t, StateVariantsReady, store.Workflow().State())
	assert.Len(t, store.Workflow().Variants(), 3)
}

func TestStore_AcceptVariant_Unknown(t *testing.T) {
	client := new(mockGenerationClient)
	store, _ := newTestStore(t, client)
	project := openProject(t, store, "App")
	selectFileByName(t, store, project, "main.dart")

	client.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(testBatch(t), nil).Once()
	_, err := store.GenerateVariants(context.Background(), "prompt", defaultOptions())
	require.NoError(t, err)

	err = store.AcceptVariant("missing")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Equal(t, StateVariantsReady, store.Workflow().State())
}

// ---------------------------------------------------------------------------
// console

func TestStore_AddConsoleLog(t *testing.T) {
	store, publisher := newTestStore(t, new(mockGenerationClient))

	entry, err := store.AddConsoleLog("warning", "asset not found")

	require.NoError(t, err)
	assert.Equal(t, entities.LogKindWarning, entry.Kind())
	assert.NotEmpty(t, entry.ID())
	assert.Len(t, store.ConsoleLogs(), 1)
	assert.Contains(t, publisher.eventTypes(), "console.appended")
}

func TestStore_AddConsoleLog_InvalidKind(t *testing.T) {
	store, _ := newTestStore(t, new(mockGenerationClient))

	_, err := store.AddConsoleLog("debug", "message")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Empty(t, store.ConsoleLogs())
}

// ---------------------------------------------------------------------------
// snapshot

func TestStore_Snapshot(t *testing.T) {
	client := new(mockGenerationClient)
	store, _ := newTestStore(t, client)
	project := openProject(t, store, "App")
	fileID := selectFileByName(t, store, project, "main.dart")

	client.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(testBatch(t), nil).Once()
	_, err := store.GenerateVariants(context.Background(), "prompt", defaultOptions())
	require.NoError(t, err)
	require.NoError(t, store.SelectVariant("v1"))

	snap := store.Snapshot()

	assert.Len(t, snap.Projects, 1)
	assert.Equal(t, project.ID().String(), snap.CurrentProjectID)
	assert.Equal(t, fileID.String(), snap.SelectedFileID)
	assert.Equal(t, StateVariantsReady, snap.WorkflowState)
	assert.Len(t, snap.Variants, 3)
	assert.Equal(t, "v1", snap.SelectedVariantID)
	assert.NotEmpty(t, snap.FileTree)
	assert.NotEmpty(t, snap.ConsoleLogs)
}

func TestStore_Snapshot_Empty(t *testing.T) {
	store, _ := newTestStore(t, new(mockGenerationClient))

	snap := store.Snapshot()

	assert.Empty(t, snap.Projects)
	assert.Empty(t, snap.CurrentProjectID)
	assert.Empty(t, snap.FileTree)
	assert.Equal(t, StateIdle, snap.WorkflowState)
	assert.Empty(t, snap.Variants)
}
