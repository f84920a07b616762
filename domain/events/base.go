package events

import (
	"time"

	"flutterai-engine/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// Project Events

// ProjectCreated is raised when a new project is created
type ProjectCreated struct {
	BaseEvent
	ProjectID valueobjects.ProjectID `json:"project_id"`
	Name      string                 `json:"name"`
	Template  string                 `json:"template"`
}

// NewProjectCreated creates a ProjectCreated event
func NewProjectCreated(projectID valueobjects.ProjectID, name, template string, timestamp time.Time) ProjectCreated {
	return ProjectCreated{
		BaseEvent: BaseEvent{
			AggregateID: projectID.String(),
			EventType:   "project.created",
			Timestamp:   timestamp,
		},
		ProjectID: projectID,
		Name:      name,
		Template:  template,
	}
}

// ProjectDeleted is raised when a project is removed from the catalogue
type ProjectDeleted struct {
	BaseEvent
	ProjectID  valueobjects.ProjectID `json:"project_id"`
	WasCurrent bool                   `json:"was_current"`
}

// NewProjectDeleted creates a ProjectDeleted event
func NewProjectDeleted(projectID valueobjects.ProjectID, wasCurrent bool, timestamp time.Time) ProjectDeleted {
	return ProjectDeleted{
		BaseEvent: BaseEvent{
			AggregateID: projectID.String(),
			EventType:   "project.deleted",
			Timestamp:   timestamp,
		},
		ProjectID:  projectID,
		WasCurrent: wasCurrent,
	}
}

// ProjectOpened is raised when a project becomes the current project
type ProjectOpened struct {
	BaseEvent
	ProjectID valueobjects.ProjectID `json:"project_id"`
}

// NewProjectOpened creates a ProjectOpened event
func NewProjectOpened(projectID valueobjects.ProjectID, timestamp time.Time) ProjectOpened {
	return ProjectOpened{
		BaseEvent: BaseEvent{
			AggregateID: projectID.String(),
			EventType:   "project.opened",
			Timestamp:   timestamp,
		},
		ProjectID: projectID,
	}
}

// File Tree Events

// FileContentUpdated is raised when a file's content changes, whether by
// direct edit or by variant acceptance
type FileContentUpdated struct {
	BaseEvent
	ProjectID valueobjects.ProjectID `json:"project_id"`
	FileID    valueobjects.FileID    `json:"file_id"`
}

// NewFileContentUpdated creates a FileContentUpdated event
func NewFileContentUpdated(projectID valueobjects.ProjectID, fileID valueobjects.FileID, timestamp time.Time) FileContentUpdated {
	return FileContentUpdated{
		BaseEvent: BaseEvent{
			AggregateID: projectID.String(),
			EventType:   "file.content_updated",
			Timestamp:   timestamp,
		},
		ProjectID: projectID,
		FileID:    fileID,
	}
}

// FileTreeChanged is raised when the shape of a project's tree changes
// (insert, remove, rename)
type FileTreeChanged struct {
	BaseEvent
	ProjectID valueobjects.ProjectID `json:"project_id"`
	FileID    valueobjects.FileID    `json:"file_id"`
	Change    string                 `json:"change"`
}

// NewFileTreeChanged creates a FileTreeChanged event
func NewFileTreeChanged(projectID valueobjects.ProjectID, fileID valueobjects.FileID, change string, timestamp time.Time) FileTreeChanged {
	return FileTreeChanged{
		BaseEvent: BaseEvent{
			AggregateID: projectID.String(),
			EventType:   "file.tree_changed",
			Timestamp:   timestamp,
		},
		ProjectID: projectID,
		FileID:    fileID,
		Change:    change,
	}
}

// Generation Events

// VariantsGenerated is raised when a generation request succeeds and a new
// variant batch replaces the prior one
type VariantsGenerated struct {
	BaseEvent
	ProjectID valueobjects.ProjectID `json:"project_id"`
	Prompt    string                 `json:"prompt"`
	Count     int                    `json:"count"`
}

// NewVariantsGenerated creates a VariantsGenerated event
func NewVariantsGenerated(projectID valueobjects.ProjectID, prompt string, count int, timestamp time.Time) VariantsGenerated {
	return VariantsGenerated{
		BaseEvent: BaseEvent{
			AggregateID: projectID.String(),
			EventType:   "generation.variants_ready",
			Timestamp:   timestamp,
		},
		ProjectID: projectID,
		Prompt:    prompt,
		Count:     count,
	}
}

// GenerationFailed is raised when a generation request fails
type GenerationFailed struct {
	BaseEvent
	ProjectID valueobjects.ProjectID `json:"project_id"`
	Prompt    string                 `json:"prompt"`
	Reason    string                 `json:"reason"`
}

// NewGenerationFailed creates a GenerationFailed event
func NewGenerationFailed(projectID valueobjects.ProjectID, prompt, reason string, timestamp time.Time) GenerationFailed {
	return GenerationFailed{
		BaseEvent: BaseEvent{
			AggregateID: projectID.String(),
			EventType:   "generation.failed",
			Timestamp:   timestamp,
		},
		ProjectID: projectID,
		Prompt:    prompt,
		Reason:    reason,
	}
}

// VariantAccepted is raised when a variant's code is merged into the
// selected file
type VariantAccepted struct {
	BaseEvent
	ProjectID valueobjects.ProjectID `json:"project_id"`
	VariantID string                 `json:"variant_id"`
	FileID    valueobjects.FileID    `json:"file_id"`
}

// NewVariantAccepted creates a VariantAccepted event
func NewVariantAccepted(projectID valueobjects.ProjectID, variantID string, fileID valueobjects.FileID, timestamp time.Time) VariantAccepted {
	return VariantAccepted{
		BaseEvent: BaseEvent{
			AggregateID: projectID.String(),
			EventType:   "generation.variant_accepted",
			Timestamp:   timestamp,
		},
		ProjectID: projectID,
		VariantID: variantID,
		FileID:    fileID,
	}
}

// Console Events

// ConsoleLogAppended is raised for every console log entry so live
// subscribers can mirror the stream
type ConsoleLogAppended struct {
	BaseEvent
	EntryID string `json:"entry_id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// NewConsoleLogAppended creates a ConsoleLogAppended event
func NewConsoleLogAppended(entryID, kind, message string, timestamp time.Time) ConsoleLogAppended {
	return ConsoleLogAppended{
		BaseEvent: BaseEvent{
			AggregateID: entryID,
			EventType:   "console.appended",
			Timestamp:   timestamp,
		},
		EntryID: entryID,
		Kind:    kind,
		Message: message,
	}
}
