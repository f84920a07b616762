package ports

import (
	"flutterai-engine/domain/core/aggregates"
)

// TemplateInfo describes a catalogue entry for listing purposes
type TemplateInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// StylePreset is a named visual style offered to the generation service
type StylePreset struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TemplateSource resolves project templates into ready-to-use file trees.
// Instantiate returns a fresh tree with newly minted file ids on every call
// so two projects never share node identity, along with the id of the
// template actually used (the default when the requested one is unknown).
type TemplateSource interface {
	Instantiate(templateID string) (*aggregates.FileTree, string)
	List() []TemplateInfo
	Styles() []StylePreset
}
