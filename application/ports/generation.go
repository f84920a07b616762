package ports

import (
	"context"

	"flutterai-engine/domain/core/entities"
	"flutterai-engine/domain/core/valueobjects"
)

// GenerationClient is the port to the remote code-generation service. A
// successful Generate call returns one immutable variant batch; failures are
// classified by the implementation as GenerationFailed (service answered
// with a non-success response) or GenerationUnreachable (no response at
// all). The client never retries internally; retry policy belongs to the
// caller.
type GenerationClient interface {
	Generate(ctx context.Context, prompt string, opts valueobjects.GenerationOptions) ([]*entities.Variant, error)
	Refine(ctx context.Context, code, instructions string) (string, error)
	Health(ctx context.Context) (*ServiceHealth, error)
	ModelInfo(ctx context.Context) (*ModelInfo, error)
}

// ServiceHealth mirrors the generation service's health endpoint. It is an
// informational read with no effect on engine state.
type ServiceHealth struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Device      string `json:"device"`
	Timestamp   string `json:"timestamp"`
}

// ModelInfo mirrors the generation service's static model metadata
type ModelInfo struct {
	BaseModel string `json:"base_model"`
	FineTuned bool   `json:"fine_tuned"`
	ModelPath string `json:"model_path,omitempty"`
	Device    string `json:"device"`
	ModelType string `json:"model_type"`
}
