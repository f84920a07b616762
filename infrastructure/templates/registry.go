package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"flutterai-engine/application/ports"
	"flutterai-engine/domain/core/aggregates"
	"flutterai-engine/domain/core/entities"
	"flutterai-engine/domain/core/valueobjects"
)

//go:embed defaults/*.yaml
var defaultTemplates embed.FS

// nodeSpec is the YAML shape of a template tree node
type nodeSpec struct {
	Name     string     `yaml:"name"`
	Type     string     `yaml:"type"`
	Content  string     `yaml:"content"`
	Language string     `yaml:"language"`
	Children []nodeSpec `yaml:"children"`
}

// templateSpec is the YAML shape of a template document
type templateSpec struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Tree        []nodeSpec `yaml:"tree"`
}

// Registry holds project templates keyed by id. The embedded defaults are
// always present; templates loaded from an on-disk directory overlay them
// and can be refreshed at runtime, so the map is guarded for concurrent
// readers and the watcher goroutine.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*templateSpec
	defaultID string
	logger    *zap.Logger
}

var _ ports.TemplateSource = (*Registry)(nil)

// NewRegistry creates a registry seeded with the embedded default templates
func NewRegistry(defaultID string, logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		templates: make(map[string]*templateSpec),
		defaultID: defaultID,
		logger:    logger,
	}

	entries, err := fs.ReadDir(defaultTemplates, "defaults")
	if err != nil {
		return nil, fmt.Errorf("reading embedded templates: %w", err)
	}
	for _, entry := range entries {
		data, err := defaultTemplates.ReadFile("defaults/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading embedded template %s: %w", entry.Name(), err)
		}
		spec, err := parseTemplate(data)
		if err != nil {
			return nil, fmt.Errorf("parsing embedded template %s: %w", entry.Name(), err)
		}
		r.templates[spec.ID] = spec
	}

	if _, ok := r.templates[defaultID]; !ok {
		return nil, fmt.Errorf("default template %q not found among embedded templates", defaultID)
	}
	return r, nil
}

// LoadDir loads every *.yaml template in dir over the embedded set. Files
// that fail to parse are skipped with a warning so one bad template cannot
// take the registry down.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading template directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			r.logger.Warn("skipping unreadable template", zap.String("path", path), zap.Error(err))
			continue
		}
		if err := r.LoadFile(entry.Name(), data); err != nil {
			r.logger.Warn("skipping invalid template", zap.String("path", path), zap.Error(err))
		}
	}
	return nil
}

// LoadFile parses one template document and installs it
func (r *Registry) LoadFile(name string, data []byte) error {
	spec, err := parseTemplate(data)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[spec.ID] = spec
	r.logger.Info("template loaded", zap.String("template", spec.ID), zap.String("source", name))
	return nil
}

// Instantiate builds a fresh file tree from the named template. Unknown ids
// fall back to the default template; the second return value is the id of
// the template actually used. Node ids are minted fresh on every call.
func (r *Registry) Instantiate(templateID string) (*aggregates.FileTree, string) {
	r.mu.RLock()
	spec, ok := r.templates[templateID]
	if !ok {
		templateID = r.defaultID
		spec = r.templates[r.defaultID]
	}
	r.mu.RUnlock()

	if spec == nil {
		return aggregates.EmptyFileTree(), templateID
	}

	roots := make([]*entities.FileNode, 0, len(spec.Tree))
	for _, ns := range spec.Tree {
		node, err := buildNode(ns)
		if err != nil {
			r.logger.Warn("skipping invalid template node",
				zap.String("template", spec.ID),
				zap.String("node", ns.Name),
				zap.Error(err))
			continue
		}
		roots = append(roots, node)
	}
	return aggregates.NewFileTree(roots), templateID
}

// List returns catalogue entries for all known templates, sorted by id
func (r *Registry) List() []ports.TemplateInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ports.TemplateInfo, 0, len(r.templates))
	for _, spec := range r.templates {
		out = append(out, ports.TemplateInfo{
			ID:          spec.ID,
			Name:        spec.Name,
			Description: spec.Description,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Styles returns the visual style presets offered to the generation service
func (r *Registry) Styles() []ports.StylePreset {
	return []ports.StylePreset{
		{ID: "lovable", Name: "Lovable", Description: "Modern, elegant with smooth animations"},
		{ID: "material", Name: "Material 3", Description: "Google Material Design guidelines"},
		{ID: "minimal", Name: "Minimal", Description: "Clean, simple, distraction-free"},
		{ID: "playful", Name: "Playful", Description: "Fun, colorful, animated"},
	}
}

func parseTemplate(data []byte) (*templateSpec, error) {
	var spec templateSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("invalid template YAML: %w", err)
	}
	if spec.ID == "" {
		return nil, fmt.Errorf("template is missing an id")
	}
	if len(spec.Tree) == 0 {
		return nil, fmt.Errorf("template %q has an empty tree", spec.ID)
	}
	return &spec, nil
}

func buildNode(spec nodeSpec) (*entities.FileNode, error) {
	switch spec.Type {
	case "folder":
		children := make([]*entities.FileNode, 0, len(spec.Children))
		for _, cs := range spec.Children {
			child, err := buildNode(cs)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return entities.ReconstructFileNode(
			valueobjects.NewFileID(), spec.Name, entities.NodeTypeFolder, "", "", children)
	case "file":
		return entities.ReconstructFileNode(
			valueobjects.NewFileID(), spec.Name, entities.NodeTypeFile, spec.Content, spec.Language, nil)
	default:
		return nil, fmt.Errorf("node %q has unknown type %q", spec.Name, spec.Type)
	}
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
