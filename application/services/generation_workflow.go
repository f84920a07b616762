package services

import (
	"sync"

	"flutterai-engine/domain/core/entities"
	pkgerrors "flutterai-engine/pkg/errors"
)

// WorkflowState enumerates the generation lifecycle states. Illegal
// transitions are rejected at the transition, not detected afterwards from a
// raw boolean flag.
type WorkflowState string

const (
	// StateIdle means no batch is held and no request is in flight
	StateIdle WorkflowState = "idle"
	// StateGenerating means one request holds the single in-flight slot
	StateGenerating WorkflowState = "generating"
	// StateVariantsReady means an unaccepted batch is held for review
	StateVariantsReady WorkflowState = "variants_ready"
)

// GenerationWorkflow is the state machine coordinating at most one in-flight
// generation request and the current variant batch.
//
//	Idle -> Generating -> VariantsReady -> Idle   (accept, or discarded by the next request)
//	        Generating -> Idle                    (failure)
//
// The Generating state is the engine's sole concurrency-control point: a
// request arriving while another is in flight is rejected with
// GenerationBusy rather than queued. Begin hands out a completion token and
// Complete* only apply when presented with the token of the request that
// currently holds the slot, so a response from an abandoned request can
// never install its batch even if the slot was reset and re-claimed while
// it was in flight.
type GenerationWorkflow struct {
	mu sync.Mutex

	state             WorkflowState
	epoch             uint64
	prompt            string
	variants          []*entities.Variant
	selectedVariantID string
}

// NewGenerationWorkflow creates a workflow in the Idle state
func NewGenerationWorkflow() *GenerationWorkflow {
	return &GenerationWorkflow{state: StateIdle}
}

// State returns the current state
func (w *GenerationWorkflow) State() WorkflowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// IsGenerating reports whether a request holds the in-flight slot
func (w *GenerationWorkflow) IsGenerating() bool {
	return w.State() == StateGenerating
}

// Prompt returns the prompt of the in-flight or most recent request
func (w *GenerationWorkflow) Prompt() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.prompt
}

// Variants returns the held batch. The slice is copied; the variants
// themselves are immutable.
func (w *GenerationWorkflow) Variants() []*entities.Variant {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*entities.Variant, len(w.variants))
	copy(out, w.variants)
	return out
}

// SelectedVariantID returns the non-owning selected-variant pointer, empty
// when nothing is selected
func (w *GenerationWorkflow) SelectedVariantID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selectedVariantID
}

// SelectedVariant resolves the selection against the held batch
func (w *GenerationWorkflow) SelectedVariant() *entities.Variant {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.findLocked(w.selectedVariantID)
}

// Begin claims the in-flight slot and returns the completion token the
// caller must present to CompleteSuccess or CompleteFailure. Valid from Idle
// or VariantsReady; a new request implicitly discards the prior unaccepted
// batch. From Generating it fails with GenerationBusy and changes nothing.
func (w *GenerationWorkflow) Begin(prompt string) (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateGenerating {
		return 0, pkgerrors.NewGenerationBusyError()
	}

	w.epoch++
	w.state = StateGenerating
	w.prompt = prompt
	w.variants = nil
	w.selectedVariantID = ""
	return w.epoch, nil
}

// CompleteSuccess installs the new batch and moves to VariantsReady,
// reporting whether the batch was installed. A token that no longer holds
// the slot, because the workflow was reset or another request claimed it
// since, is refused without changing anything.
func (w *GenerationWorkflow) CompleteSuccess(token uint64, batch []*entities.Variant) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateGenerating || token != w.epoch {
		return false
	}

	w.state = StateVariantsReady
	w.variants = batch
	w.selectedVariantID = ""
	return true
}

// CompleteFailure clears the batch and returns to Idle, reporting whether
// the token still held the slot. Surfacing the failure to the console log
// is the caller's responsibility, and only when this returns true.
func (w *GenerationWorkflow) CompleteFailure(token uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateGenerating || token != w.epoch {
		return false
	}

	w.state = StateIdle
	w.variants = nil
	w.selectedVariantID = ""
	return true
}

// SelectVariant sets the non-owning selected-variant pointer. Valid only in
// VariantsReady; the state does not change.
func (w *GenerationWorkflow) SelectVariant(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateVariantsReady {
		return pkgerrors.NewConflictError("no variant batch to select from")
	}
	if w.findLocked(id) == nil {
		return pkgerrors.NewNotFoundError("variant")
	}

	w.selectedVariantID = id
	return nil
}

// Accept resolves the variant, runs the merge, and on success transitions to
// Idle with the batch and selection cleared. A failing merge (typically
// NoFileSelected) leaves the workflow untouched so the caller can select a
// file and retry.
func (w *GenerationWorkflow) Accept(id string, merge func(code string) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateVariantsReady {
		return pkgerrors.NewConflictError("no variant batch to accept from")
	}

	variant := w.findLocked(id)
	if variant == nil {
		return pkgerrors.NewNotFoundError("variant")
	}

	if err := merge(variant.Code()); err != nil {
		return err
	}

	w.state = StateIdle
	w.variants = nil
	w.selectedVariantID = ""
	return nil
}

// Reset unconditionally returns to Idle with everything cleared. Used on
// project switch and delete so another project's pending variants can never
// leak across.
func (w *GenerationWorkflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state = StateIdle
	w.prompt = ""
	w.variants = nil
	w.selectedVariantID = ""
}

func (w *GenerationWorkflow) findLocked(id string) *entities.Variant {
	if id == "" {
		return nil
	}
	for _, v := range w.variants {
		if v.ID() == id {
			return v
		}
	}
	return nil
}
