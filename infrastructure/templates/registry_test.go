package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"flutterai-engine/domain/core/entities"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	registry, err := NewRegistry("lovable", zap.NewNop())
	require.NoError(t, err)
	return registry
}

func TestNewRegistry_LoadsEmbeddedDefaults(t *testing.T) {
	registry := newTestRegistry(t)

	list := registry.List()
	ids := make([]string, 0, len(list))
	for _, info := range list {
		ids = append(ids, info.ID)
	}

	assert.Contains(t, ids, "lovable")
	assert.Contains(t, ids, "blank")
}

func TestNewRegistry_UnknownDefaultFails(t *testing.T) {
	_, err := NewRegistry("no-such-template", zap.NewNop())
	assert.Error(t, err)
}

func TestRegistry_Instantiate_DefaultTree(t *testing.T) {
	registry := newTestRegistry(t)

	tree, resolved := registry.Instantiate("lovable")

	assert.Equal(t, "lovable", resolved)
	require.NotNil(t, tree)
	assert.Greater(t, tree.Size(), 5)

	names := map[string]bool{}
	for _, root := range tree.Roots() {
		names[root.Name()] = true
	}
	assert.True(t, names["lib"])
	assert.True(t, names["pubspec.yaml"])
	assert.True(t, names["README.md"])
}

func TestRegistry_Instantiate_FreshIDsPerCall(t *testing.T) {
	registry := newTestRegistry(t)

	first, _ := registry.Instantiate("lovable")
	second, _ := registry.Instantiate("lovable")

	seen := map[string]bool{}
	collect := func(roots []*entities.FileNode) {
		var walk func(nodes []*entities.FileNode)
		walk = func(nodes []*entities.FileNode) {
			for _, n := range nodes {
				assert.False(t, seen[n.ID().String()], "node id reused across instantiations")
				seen[n.ID().String()] = true
				walk(n.Children())
			}
		}
		walk(roots)
	}
	collect(first.Roots())
	collect(second.Roots())
}

func TestRegistry_Instantiate_UnknownFallsBackToDefault(t *testing.T) {
	registry := newTestRegistry(t)

	tree, resolved := registry.Instantiate("no-such-template")

	assert.Equal(t, "lovable", resolved)
	assert.Greater(t, tree.Size(), 0)
}

func TestRegistry_LoadFile_Overlay(t *testing.T) {
	registry := newTestRegistry(t)

	doc := []byte(`
id: custom
name: Custom Template
description: test template
tree:
  - name: main.dart
    type: file
    language: dart
    content: "// custom"
`)
	require.NoError(t, registry.LoadFile("custom.yaml", doc))

	tree, resolved := registry.Instantiate("custom")
	assert.Equal(t, "custom", resolved)
	require.Len(t, tree.Roots(), 1)
	assert.Equal(t, "main.dart", tree.Roots()[0].Name())
	assert.Equal(t, "// custom", tree.Roots()[0].Content())
}

func TestRegistry_LoadFile_Invalid(t *testing.T) {
	registry := newTestRegistry(t)

	assert.Error(t, registry.LoadFile("bad.yaml", []byte("id: ''")))
	assert.Error(t, registry.LoadFile("bad.yaml", []byte("{{not yaml")))
}

func TestRegistry_Styles(t *testing.T) {
	registry := newTestRegistry(t)

	styles := registry.Styles()

	require.Len(t, styles, 4)
	ids := make([]string, 0, 4)
	for _, s := range styles {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"lovable", "material", "minimal", "playful"}, ids)
}
