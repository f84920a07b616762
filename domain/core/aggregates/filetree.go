package aggregates

import (
	"flutterai-engine/domain/core/entities"
	"flutterai-engine/domain/core/valueobjects"
	pkgerrors "flutterai-engine/pkg/errors"
)

// FileTree is the aggregate over a project's file forest. A project has no
// single implicit root node; the ordered sequence of top-level nodes IS the
// tree.
//
// Mutations return a new tree. Only the path from a root down to the touched
// node is copied; every other node is shared by pointer with the previous
// tree, so a UI layer can detect change cheaply by identity.
type FileTree struct {
	roots []*entities.FileNode
}

// NewFileTree creates a tree over the given ordered roots. Duplicate ids are
// an external-data defect the tree tolerates: lookups resolve to the first
// match in pre-order.
func NewFileTree(roots []*entities.FileNode) *FileTree {
	if roots == nil {
		roots = []*entities.FileNode{}
	}
	return &FileTree{roots: roots}
}

// EmptyFileTree creates a tree with no nodes
func EmptyFileTree() *FileTree {
	return NewFileTree(nil)
}

// Roots returns the ordered top-level nodes
func (t *FileTree) Roots() []*entities.FileNode {
	return t.roots
}

// Size returns the total node count across the forest
func (t *FileTree) Size() int {
	count := 0
	walk(t.roots, func(n *entities.FileNode) bool {
		count++
		return false
	})
	return count
}

// DepthOf returns the 1-based depth of the node in the forest, 0 when the
// id is not present. Top-level nodes have depth 1.
func (t *FileTree) DepthOf(id valueobjects.FileID) int {
	return depthIn(t.roots, id, 1)
}

// FindByID locates a node by id using depth-first, pre-order traversal
// across the forest. The first match wins, which makes duplicate ids a
// defined tie-break rather than an error.
func (t *FileTree) FindByID(id valueobjects.FileID) *entities.FileNode {
	var found *entities.FileNode
	walk(t.roots, func(n *entities.FileNode) bool {
		if n.ID().Equals(id) {
			found = n
			return true
		}
		return false
	})
	return found
}

// UpdateContent returns a tree with only the target file's content replaced.
// The boolean reports whether anything changed: a missing id or a folder
// target is a silent no-op because the operation is only routed from
// file-editing surfaces that already exclude folders.
func (t *FileTree) UpdateContent(id valueobjects.FileID, content string) (*FileTree, bool) {
	roots, changed := updateContentIn(t.roots, id, content)
	if !changed {
		return t, false
	}
	return &FileTree{roots: roots}, true
}

// Insert returns a tree with node appended to the end of the target folder's
// children, or to the forest root when parentID is zero. A parentID that
// does not resolve to a folder fails with NotFound.
func (t *FileTree) Insert(parentID valueobjects.FileID, node *entities.FileNode) (*FileTree, error) {
	if node == nil {
		return nil, pkgerrors.NewValidationError("node cannot be nil")
	}

	if parentID.IsZero() {
		roots := make([]*entities.FileNode, 0, len(t.roots)+1)
		roots = append(roots, t.roots...)
		roots = append(roots, node)
		return &FileTree{roots: roots}, nil
	}

	parent := t.FindByID(parentID)
	if parent == nil || !parent.IsFolder() {
		return nil, pkgerrors.NewNotFoundError("parent folder")
	}

	roots, _ := insertIn(t.roots, parentID, node)
	return &FileTree{roots: roots}, nil
}

// Remove returns a tree without the target node and its entire subtree, and
// the removed node so the caller can invalidate selections that pointed into
// it. Unknown ids fail with NotFound.
func (t *FileTree) Remove(id valueobjects.FileID) (*FileTree, *entities.FileNode, error) {
	roots, removed := removeIn(t.roots, id)
	if removed == nil {
		return nil, nil, pkgerrors.NewNotFoundError("file node")
	}
	return &FileTree{roots: roots}, removed, nil
}

// Rename returns a tree with only the target node's name replaced. Unknown
// ids fail with NotFound.
func (t *FileTree) Rename(id valueobjects.FileID, name string) (*FileTree, error) {
	if name == "" {
		return nil, pkgerrors.NewValidationError("name cannot be empty")
	}
	roots, changed := renameIn(t.roots, id, name)
	if !changed {
		return nil, pkgerrors.NewNotFoundError("file node")
	}
	return &FileTree{roots: roots}, nil
}

// SubtreeContains reports whether the subtree rooted at node contains the
// given id, the node itself included
func SubtreeContains(node *entities.FileNode, id valueobjects.FileID) bool {
	if node == nil {
		return false
	}
	hit := false
	walk([]*entities.FileNode{node}, func(n *entities.FileNode) bool {
		if n.ID().Equals(id) {
			hit = true
			return true
		}
		return false
	})
	return hit
}

// walk visits nodes depth-first in pre-order; visit returning true stops the
// traversal
func walk(nodes []*entities.FileNode, visit func(*entities.FileNode) bool) bool {
	for _, n := range nodes {
		if visit(n) {
			return true
		}
		if n.IsFolder() && walk(n.Children(), visit) {
			return true
		}
	}
	return false
}

func updateContentIn(nodes []*entities.FileNode, id valueobjects.FileID, content string) ([]*entities.FileNode, bool) {
	for i, n := range nodes {
		if n.ID().Equals(id) {
			if !n.IsFile() || n.Content() == content {
				return nodes, false
			}
			out := copyLevel(nodes)
			out[i] = n.WithContent(content)
			return out, true
		}
		if n.IsFolder() {
			if children, changed := updateContentIn(n.Children(), id, content); changed {
				out := copyLevel(nodes)
				out[i] = n.WithChildren(children)
				return out, true
			}
		}
	}
	return nodes, false
}

func insertIn(nodes []*entities.FileNode, parentID valueobjects.FileID, node *entities.FileNode) ([]*entities.FileNode, bool) {
	for i, n := range nodes {
		if n.ID().Equals(parentID) && n.IsFolder() {
			children := make([]*entities.FileNode, 0, len(n.Children())+1)
			children = append(children, n.Children()...)
			children = append(children, node)
			out := copyLevel(nodes)
			out[i] = n.WithChildren(children)
			return out, true
		}
		if n.IsFolder() {
			if children, inserted := insertIn(n.Children(), parentID, node); inserted {
				out := copyLevel(nodes)
				out[i] = n.WithChildren(children)
				return out, true
			}
		}
	}
	return nodes, false
}

func removeIn(nodes []*entities.FileNode, id valueobjects.FileID) ([]*entities.FileNode, *entities.FileNode) {
	for i, n := range nodes {
		if n.ID().Equals(id) {
			out := make([]*entities.FileNode, 0, len(nodes)-1)
			out = append(out, nodes[:i]...)
			out = append(out, nodes[i+1:]...)
			return out, n
		}
		if n.IsFolder() {
			if children, removed := removeIn(n.Children(), id); removed != nil {
				out := copyLevel(nodes)
				out[i] = n.WithChildren(children)
				return out, removed
			}
		}
	}
	return nodes, nil
}

func renameIn(nodes []*entities.FileNode, id valueobjects.FileID, name string) ([]*entities.FileNode, bool) {
	for i, n := range nodes {
		if n.ID().Equals(id) {
			out := copyLevel(nodes)
			out[i] = n.WithName(name)
			return out, true
		}
		if n.IsFolder() {
			if children, changed := renameIn(n.Children(), id, name); changed {
				out := copyLevel(nodes)
				out[i] = n.WithChildren(children)
				return out, true
			}
		}
	}
	return nodes, false
}

func depthIn(nodes []*entities.FileNode, id valueobjects.FileID, depth int) int {
	for _, n := range nodes {
		if n.ID().Equals(id) {
			return depth
		}
		if n.IsFolder() {
			if d := depthIn(n.Children(), id, depth+1); d > 0 {
				return d
			}
		}
	}
	return 0
}

func copyLevel(nodes []*entities.FileNode) []*entities.FileNode {
	out := make([]*entities.FileNode, len(nodes))
	copy(out, nodes)
	return out
}
