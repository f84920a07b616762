package entities

import (
	"path/filepath"
	"strings"

	"flutterai-engine/domain/core/valueobjects"
	pkgerrors "flutterai-engine/pkg/errors"
)

// FileNodeType distinguishes files from folders
type FileNodeType string

const (
	NodeTypeFile   FileNodeType = "file"
	NodeTypeFolder FileNodeType = "folder"
)

// FileNode is one node of a project's file tree. A file node carries content
// and never children; a folder node carries children and never content. The
// constructors are the only way to build a node, so an invalid combination
// is never representable.
type FileNode struct {
	id       valueobjects.FileID
	name     string
	nodeType FileNodeType
	content  string
	language string
	children []*FileNode
}

// NewFileNode creates a file-typed node with the given content
func NewFileNode(name, content, language string) (*FileNode, error) {
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.NewValidationError("file name cannot be empty")
	}
	if language == "" {
		language = detectLanguage(name)
	}
	return &FileNode{
		id:       valueobjects.NewFileID(),
		name:     name,
		nodeType: NodeTypeFile,
		content:  content,
		language: language,
	}, nil
}

// NewFolderNode creates a folder-typed node
func NewFolderNode(name string) (*FileNode, error) {
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.NewValidationError("folder name cannot be empty")
	}
	return &FileNode{
		id:       valueobjects.NewFileID(),
		name:     name,
		nodeType: NodeTypeFolder,
		children: []*FileNode{},
	}, nil
}

// ReconstructFileNode rebuilds a node from external data (template files,
// wire payloads) with a preserved id. The exclusivity invariant is still
// enforced: content on a folder or children on a file fail reconstruction.
func ReconstructFileNode(id valueobjects.FileID, name string, nodeType FileNodeType, content, language string, children []*FileNode) (*FileNode, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("file node id cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.NewValidationError("file node name cannot be empty")
	}

	switch nodeType {
	case NodeTypeFile:
		if children != nil {
			return nil, pkgerrors.NewValidationError("a file node cannot carry children")
		}
		if language == "" {
			language = detectLanguage(name)
		}
		return &FileNode{id: id, name: name, nodeType: NodeTypeFile, content: content, language: language}, nil
	case NodeTypeFolder:
		if content != "" {
			return nil, pkgerrors.NewValidationError("a folder node cannot carry content")
		}
		if children == nil {
			children = []*FileNode{}
		}
		return &FileNode{id: id, name: name, nodeType: NodeTypeFolder, children: children}, nil
	default:
		return nil, pkgerrors.NewValidationError("file node type must be file or folder")
	}
}

// ID returns the node's identifier
func (n *FileNode) ID() valueobjects.FileID {
	return n.id
}

// Name returns the node's display name
func (n *FileNode) Name() string {
	return n.name
}

// Type returns whether the node is a file or folder
func (n *FileNode) Type() FileNodeType {
	return n.nodeType
}

// IsFile reports whether the node is file-typed
func (n *FileNode) IsFile() bool {
	return n.nodeType == NodeTypeFile
}

// IsFolder reports whether the node is folder-typed
func (n *FileNode) IsFolder() bool {
	return n.nodeType == NodeTypeFolder
}

// Content returns the file content; empty for folders
func (n *FileNode) Content() string {
	return n.content
}

// Language returns the file's language hint; empty for folders
func (n *FileNode) Language() string {
	return n.language
}

// Children returns the folder's ordered children; nil for files. The slice
// is shared, not copied: tree mutation goes through the FileTree aggregate,
// which path-copies instead of editing nodes in place.
func (n *FileNode) Children() []*FileNode {
	return n.children
}

// WithContent returns a copy of a file node carrying new content. Folders
// return the receiver unchanged.
func (n *FileNode) WithContent(content string) *FileNode {
	if n.nodeType != NodeTypeFile {
		return n
	}
	clone := *n
	clone.content = content
	return &clone
}

// WithName returns a copy of the node carrying a new name
func (n *FileNode) WithName(name string) *FileNode {
	clone := *n
	clone.name = name
	if clone.nodeType == NodeTypeFile {
		clone.language = detectLanguage(name)
	}
	return &clone
}

// WithChildren returns a copy of a folder node carrying a new child list.
// Files return the receiver unchanged.
func (n *FileNode) WithChildren(children []*FileNode) *FileNode {
	if n.nodeType != NodeTypeFolder {
		return n
	}
	clone := *n
	clone.children = children
	return &clone
}

// detectLanguage maps a file extension to an editor language hint
func detectLanguage(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".dart":
		return "dart"
	case ".yaml", ".yml":
		return "yaml"
	case ".md":
		return "markdown"
	case ".json":
		return "json"
	case ".go":
		return "go"
	default:
		return ""
	}
}
