package services

import (
	"time"

	"flutterai-engine/domain/core/aggregates"
	"flutterai-engine/domain/core/entities"
)

// FileNodeDTO is the JSON shape of a file tree node
type FileNodeDTO struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	Content  string        `json:"content,omitempty"`
	Language string        `json:"language,omitempty"`
	Children []FileNodeDTO `json:"children,omitempty"`
}

// ProjectDTO is the JSON shape of a project, without its file tree
type ProjectDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Template    string    `json:"template"`
	FileCount   int       `json:"file_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// VariantDTO is the JSON shape of a generated variant
type VariantDTO struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// ConsoleLogDTO is the JSON shape of a console entry
type ConsoleLogDTO struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Snapshot is a consistent read of the whole engine state, taken under the
// store lock so a client never observes a half-applied mutation
type Snapshot struct {
	Projects          []ProjectDTO    `json:"projects"`
	CurrentProjectID  string          `json:"current_project_id,omitempty"`
	FileTree          []FileNodeDTO   `json:"file_tree"`
	SelectedFileID    string          `json:"selected_file_id,omitempty"`
	WorkflowState     WorkflowState   `json:"workflow_state"`
	Prompt            string          `json:"prompt,omitempty"`
	Variants          []VariantDTO    `json:"variants"`
	SelectedVariantID string          `json:"selected_variant_id,omitempty"`
	ConsoleLogs       []ConsoleLogDTO `json:"console_logs"`
}

// ToFileNodeDTO converts a tree node, recursing into folder children
func ToFileNodeDTO(node *entities.FileNode) FileNodeDTO {
	dto := FileNodeDTO{
		ID:   node.ID().String(),
		Name: node.Name(),
		Type: string(node.Type()),
	}
	if node.IsFile() {
		dto.Content = node.Content()
		dto.Language = node.Language()
		return dto
	}
	for _, child := range node.Children() {
		dto.Children = append(dto.Children, ToFileNodeDTO(child))
	}
	return dto
}

// ToTreeDTO converts a whole tree to its root-list JSON shape
func ToTreeDTO(tree *aggregates.FileTree) []FileNodeDTO {
	if tree == nil {
		return []FileNodeDTO{}
	}
	out := make([]FileNodeDTO, 0, len(tree.Roots()))
	for _, root := range tree.Roots() {
		out = append(out, ToFileNodeDTO(root))
	}
	return out
}

// ToProjectDTO converts a project to its catalogue JSON shape
func ToProjectDTO(p *aggregates.Project) ProjectDTO {
	return ProjectDTO{
		ID:          p.ID().String(),
		Name:        p.Name(),
		Description: p.Description(),
		Template:    p.Template(),
		FileCount:   p.Tree().Size(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

// ToVariantDTOs converts a variant batch
func ToVariantDTOs(variants []*entities.Variant) []VariantDTO {
	out := make([]VariantDTO, 0, len(variants))
	for _, v := range variants {
		out = append(out, VariantDTO{
			ID:          v.ID(),
			Code:        v.Code(),
			Description: v.Description(),
			Confidence:  v.Confidence(),
		})
	}
	return out
}

// ToConsoleLogDTOs converts the console history
func ToConsoleLogDTOs(entries []*entities.ConsoleLogEntry) []ConsoleLogDTO {
	out := make([]ConsoleLogDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, ConsoleLogDTO{
			ID:        e.ID(),
			Kind:      string(e.Kind()),
			Message:   e.Message(),
			Timestamp: e.Timestamp(),
		})
	}
	return out
}
