package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flutterai-engine/domain/core/valueobjects"
	"flutterai-engine/domain/events"
	pkgerrors "flutterai-engine/pkg/errors"
)

func TestNewProject_Success(t *testing.T) {
	tree := buildTestTree(t)

	project, err := NewProject("  My App  ", "a test app", "lovable", tree)

	require.NoError(t, err)
	assert.Equal(t, "My App", project.Name())
	assert.Equal(t, "a test app", project.Description())
	assert.Equal(t, "lovable", project.Template())
	assert.Same(t, tree, project.Tree())
	assert.False(t, project.ID().IsZero())

	uncommitted := project.GetUncommittedEvents()
	require.Len(t, uncommitted, 1)
	assert.Equal(t, "project.created", uncommitted[0].GetEventType())

	project.MarkEventsAsCommitted()
	assert.Empty(t, project.GetUncommittedEvents())
}

func TestNewProject_EmptyNameFails(t *testing.T) {
	_, err := NewProject("   ", "", "lovable", EmptyFileTree())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestNewProject_NilTreeBecomesEmpty(t *testing.T) {
	project, err := NewProject("App", "", "lovable", nil)

	require.NoError(t, err)
	assert.Equal(t, 0, project.Tree().Size())
}

func TestProject_UpdateFileContent(t *testing.T) {
	tree := buildTestTree(t)
	project, err := NewProject("App", "", "lovable", tree)
	require.NoError(t, err)
	project.MarkEventsAsCommitted()

	mainDart := findByName(t, tree, "main.dart")
	before := project.UpdatedAt()

	changed := project.UpdateFileContent(mainDart.ID(), "new content")

	assert.True(t, changed)
	assert.Equal(t, "new content", project.Tree().FindByID(mainDart.ID()).Content())
	assert.True(t, project.UpdatedAt().After(before) || project.UpdatedAt().Equal(before))

	uncommitted := project.GetUncommittedEvents()
	require.Len(t, uncommitted, 1)
	updated, ok := uncommitted[0].(events.FileContentUpdated)
	require.True(t, ok)
	assert.Equal(t, mainDart.ID(), updated.FileID)
}

func TestProject_UpdateFileContent_NoChangeNoEvent(t *testing.T) {
	tree := buildTestTree(t)
	project, err := NewProject("App", "", "lovable", tree)
	require.NoError(t, err)
	project.MarkEventsAsCommitted()

	mainDart := findByName(t, tree, "main.dart")

	changed := project.UpdateFileContent(mainDart.ID(), mainDart.Content())

	assert.False(t, changed)
	assert.Empty(t, project.GetUncommittedEvents())
	assert.Same(t, tree, project.Tree())
}

func TestProject_InsertRemoveRenameFile(t *testing.T) {
	tree := buildTestTree(t)
	project, err := NewProject("App", "", "lovable", tree)
	require.NoError(t, err)
	project.MarkEventsAsCommitted()

	node := mustFile(t, "extra.dart", "// extra")
	require.NoError(t, project.InsertFile(valueobjects.FileID{}, node))
	assert.NotNil(t, project.Tree().FindByID(node.ID()))

	require.NoError(t, project.RenameFile(node.ID(), "renamed.dart"))
	assert.Equal(t, "renamed.dart", project.Tree().FindByID(node.ID()).Name())

	removed, err := project.RemoveFile(node.ID())
	require.NoError(t, err)
	assert.Equal(t, node.ID(), removed.ID())
	assert.Nil(t, project.Tree().FindByID(node.ID()))

	// One tree change event per mutation
	assert.Len(t, project.GetUncommittedEvents(), 3)
}

func TestProject_UpdateMetadata(t *testing.T) {
	project, err := NewProject("App", "old", "lovable", EmptyFileTree())
	require.NoError(t, err)

	require.NoError(t, project.UpdateMetadata("New Name", "new desc"))
	assert.Equal(t, "New Name", project.Name())
	assert.Equal(t, "new desc", project.Description())

	err = project.UpdateMetadata("  ", "x")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}
