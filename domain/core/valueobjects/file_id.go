package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// FileID is a value object identifying a node in a project's file tree.
// Uniqueness holds across the whole tree, not just within a sibling list,
// so lookups by id are unambiguous regardless of depth.
type FileID struct {
	value string
}

// NewFileID creates a new random FileID
func NewFileID() FileID {
	return FileID{value: uuid.New().String()}
}

// NewFileIDFromString creates a FileID from an existing string
func NewFileIDFromString(id string) (FileID, error) {
	if id == "" {
		return FileID{}, errors.New("file ID cannot be empty")
	}
	return FileID{value: id}, nil
}

// String returns the string representation of the FileID
func (id FileID) String() string {
	return id.value
}

// Equals checks if two FileIDs are equal
func (id FileID) Equals(other FileID) bool {
	return id.value == other.value
}

// IsZero checks if the FileID is the zero value
func (id FileID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id FileID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *FileID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("FileID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}
