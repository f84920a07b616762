package entities

import (
	"strings"

	pkgerrors "flutterai-engine/pkg/errors"
)

// Variant is one AI-generated code candidate. Variants are immutable once
// constructed; a generation request produces a whole batch that replaces the
// prior batch in full.
type Variant struct {
	id          string
	code        string
	description string
	confidence  float64
}

// NewVariant creates a variant with validated confidence. The id comes from
// the remote service, not from the engine.
func NewVariant(id, code, description string, confidence float64) (*Variant, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.NewValidationError("variant id cannot be empty")
	}
	if code == "" {
		return nil, pkgerrors.NewValidationError("variant code cannot be empty")
	}
	if confidence < 0 || confidence > 1 {
		return nil, pkgerrors.NewValidationError("variant confidence must be between 0 and 1")
	}
	return &Variant{
		id:          id,
		code:        code,
		description: description,
		confidence:  confidence,
	}, nil
}

// ID returns the variant's identifier
func (v *Variant) ID() string {
	return v.id
}

// Code returns the generated code payload. The engine treats it as opaque.
func (v *Variant) Code() string {
	return v.code
}

// Description returns the human-readable variant tag
func (v *Variant) Description() string {
	return v.description
}

// Confidence returns the service-reported score in [0,1]
func (v *Variant) Confidence() float64 {
	return v.confidence
}
