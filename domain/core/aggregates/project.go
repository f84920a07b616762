package aggregates

import (
	"strings"
	"time"

	"flutterai-engine/domain/core/entities"
	"flutterai-engine/domain/core/valueobjects"
	"flutterai-engine/domain/events"
	pkgerrors "flutterai-engine/pkg/errors"
)

// Project is the aggregate root for one workspace: immutable identity,
// display metadata, and exclusive ownership of the file tree. Any tree or
// metadata mutation advances updatedAt.
type Project struct {
	id          valueobjects.ProjectID
	name        string
	description string
	template    string
	tree        *FileTree
	createdAt   time.Time
	updatedAt   time.Time

	events []events.DomainEvent
}

// NewProject creates a project seeded with the given tree. The name is the
// only validated field: a name that trims to empty fails construction.
func NewProject(name, description, template string, tree *FileTree) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.NewValidationError("project name cannot be empty")
	}
	if tree == nil {
		tree = EmptyFileTree()
	}

	now := time.Now()
	p := &Project{
		id:          valueobjects.NewProjectID(),
		name:        name,
		description: description,
		template:    template,
		tree:        tree,
		createdAt:   now,
		updatedAt:   now,
		events:      []events.DomainEvent{},
	}

	p.addEvent(events.NewProjectCreated(p.id, name, template, now))

	return p, nil
}

// ID returns the project's immutable identifier
func (p *Project) ID() valueobjects.ProjectID {
	return p.id
}

// Name returns the project's display name
func (p *Project) Name() string {
	return p.name
}

// Description returns the project's description
func (p *Project) Description() string {
	return p.description
}

// Template returns the template id the project was seeded from
func (p *Project) Template() string {
	return p.template
}

// Tree returns the project's file tree
func (p *Project) Tree() *FileTree {
	return p.tree
}

// CreatedAt returns when the project was created
func (p *Project) CreatedAt() time.Time {
	return p.createdAt
}

// UpdatedAt returns when the project was last mutated
func (p *Project) UpdatedAt() time.Time {
	return p.updatedAt
}

// UpdateMetadata replaces the display name and description
func (p *Project) UpdateMetadata(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return pkgerrors.NewValidationError("project name cannot be empty")
	}
	if name == p.name && description == p.description {
		return nil
	}
	p.name = name
	p.description = description
	p.touch()
	return nil
}

// UpdateFileContent replaces the target file's content through the tree.
// The report says whether the tree actually changed; updatedAt only
// advances on a real change.
func (p *Project) UpdateFileContent(fileID valueobjects.FileID, content string) bool {
	tree, changed := p.tree.UpdateContent(fileID, content)
	if !changed {
		return false
	}
	p.tree = tree
	p.touch()
	p.addEvent(events.NewFileContentUpdated(p.id, fileID, p.updatedAt))
	return true
}

// InsertFile appends a node under the given parent folder, or at the forest
// root when parentID is zero
func (p *Project) InsertFile(parentID valueobjects.FileID, node *entities.FileNode) error {
	tree, err := p.tree.Insert(parentID, node)
	if err != nil {
		return err
	}
	p.tree = tree
	p.touch()
	p.addEvent(events.NewFileTreeChanged(p.id, node.ID(), "insert", p.updatedAt))
	return nil
}

// RemoveFile removes a node and its subtree, returning the removed node so
// the caller can invalidate selections that pointed into it
func (p *Project) RemoveFile(id valueobjects.FileID) (*entities.FileNode, error) {
	tree, removed, err := p.tree.Remove(id)
	if err != nil {
		return nil, err
	}
	p.tree = tree
	p.touch()
	p.addEvent(events.NewFileTreeChanged(p.id, id, "remove", p.updatedAt))
	return removed, nil
}

// RenameFile renames a node in place
func (p *Project) RenameFile(id valueobjects.FileID, name string) error {
	tree, err := p.tree.Rename(id, name)
	if err != nil {
		return err
	}
	p.tree = tree
	p.touch()
	p.addEvent(events.NewFileTreeChanged(p.id, id, "rename", p.updatedAt))
	return nil
}

// GetUncommittedEvents returns all uncommitted domain events
func (p *Project) GetUncommittedEvents() []events.DomainEvent {
	return p.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (p *Project) MarkEventsAsCommitted() {
	p.events = []events.DomainEvent{}
}

func (p *Project) addEvent(event events.DomainEvent) {
	p.events = append(p.events, event)
}

func (p *Project) touch() {
	p.updatedAt = time.Now()
}
