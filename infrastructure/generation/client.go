package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"flutterai-engine/application/ports"
	"flutterai-engine/domain/core/entities"
	"flutterai-engine/domain/core/valueobjects"
	"flutterai-engine/infrastructure/config"
	pkgerrors "flutterai-engine/pkg/errors"
)

// Health and model-info reads must answer fast regardless of how long
// generations are allowed to run
const infoTimeout = 5 * time.Second

// Client calls the external code-generation service over HTTP. All calls go
// through a circuit breaker: once the service starts failing consistently,
// requests short-circuit to GenerationUnreachable instead of waiting out the
// full timeout each time.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	refineClient *http.Client
	infoClient   *http.Client
	breaker      *gobreaker.CircuitBreaker
	logger       *zap.Logger
}

var _ ports.GenerationClient = (*Client)(nil)

// NewClient creates a generation client from configuration
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxFailures := uint32(cfg.BreakerMaxFailures)
	if maxFailures == 0 {
		maxFailures = 5
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "generation-service",
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenInterval,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		IsSuccessful: func(err error) bool {
			// Rejections from the service (4xx/5xx with a body) are the
			// service answering; only transport failures count against it.
			return err == nil || !pkgerrors.IsGenerationUnreachable(err)
		},
	})

	return &Client{
		baseURL:      strings.TrimRight(cfg.GenerationServiceURL, "/"),
		httpClient:   &http.Client{Timeout: cfg.GenerationTimeout},
		refineClient: &http.Client{Timeout: cfg.RefineTimeout},
		infoClient:   &http.Client{Timeout: infoTimeout},
		breaker:      breaker,
		logger:       logger,
	}
}

type generateRequest struct {
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	NumVariants int     `json:"num_variants"`
	Style       string  `json:"style"`
}

type variantPayload struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

type generateResponse struct {
	Variants    []variantPayload `json:"variants"`
	Prompt      string           `json:"prompt"`
	GeneratedAt string           `json:"generated_at"`
}

type refineRequest struct {
	Code         string `json:"code"`
	Instructions string `json:"instructions"`
}

type refineResponse struct {
	RefinedCode string `json:"refined_code"`
}

type errorPayload struct {
	Detail string `json:"detail"`
}

// Generate requests a batch of UI variants for the prompt
func (c *Client) Generate(ctx context.Context, prompt string, opts valueobjects.GenerationOptions) ([]*entities.Variant, error) {
	reqBody := generateRequest{
		Prompt:      prompt,
		Temperature: opts.Temperature(),
		MaxTokens:   opts.MaxTokens(),
		NumVariants: opts.VariantCount(),
		Style:       opts.Style(),
	}

	var resp generateResponse
	if err := c.post(ctx, c.httpClient, "/api/generate", reqBody, &resp); err != nil {
		return nil, err
	}

	variants := make([]*entities.Variant, 0, len(resp.Variants))
	for i, payload := range resp.Variants {
		variant, err := entities.NewVariant(payload.ID, payload.Code, payload.Description, clampScore(payload.Score))
		if err != nil {
			return nil, pkgerrors.NewGenerationFailedError(
				fmt.Sprintf("invalid variant %d in response: %v", i, err))
		}
		variants = append(variants, variant)
	}
	if len(variants) == 0 {
		return nil, pkgerrors.NewGenerationFailedError("service returned no variants")
	}
	return variants, nil
}

// Refine sends existing code back with instructions and returns the result
func (c *Client) Refine(ctx context.Context, code, instructions string) (string, error) {
	var resp refineResponse
	err := c.post(ctx, c.refineClient, "/api/refine", refineRequest{Code: code, Instructions: instructions}, &resp)
	if err != nil {
		return "", err
	}
	return resp.RefinedCode, nil
}

// Health probes the generation service's health endpoint
func (c *Client) Health(ctx context.Context) (*ports.ServiceHealth, error) {
	var health ports.ServiceHealth
	if err := c.get(ctx, "/health", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// ModelInfo fetches metadata about the loaded model
func (c *Client) ModelInfo(ctx context.Context) (*ports.ModelInfo, error) {
	var info ports.ModelInfo
	if err := c.get(ctx, "/api/model/info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) post(ctx context.Context, httpClient *http.Client, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return pkgerrors.NewInternalError("failed to encode request: " + err.Error())
	}

	do := func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, pkgerrors.NewInternalError("failed to build request: " + err.Error())
		}
		req.Header.Set("Content-Type", "application/json")
		return nil, c.roundTrip(httpClient, req, out)
	}

	_, err = c.breaker.Execute(do)
	return c.mapBreakerError(err)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	do := func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, pkgerrors.NewInternalError("failed to build request: " + err.Error())
		}
		return nil, c.roundTrip(c.infoClient, req, out)
	}

	_, err := c.breaker.Execute(do)
	return c.mapBreakerError(err)
}

func (c *Client) roundTrip(httpClient *http.Client, req *http.Request, out interface{}) error {
	resp, err := httpClient.Do(req)
	if err != nil {
		return pkgerrors.NewGenerationUnreachableError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.NewGenerationUnreachableError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload errorPayload
		detail := strings.TrimSpace(string(body))
		if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
			detail = payload.Detail
		}
		if detail == "" {
			detail = resp.Status
		}
		c.logger.Warn("generation service rejected request",
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail))
		return pkgerrors.NewGenerationFailedError(detail)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return pkgerrors.NewGenerationFailedError("malformed response: " + err.Error())
	}
	return nil
}

func (c *Client) mapBreakerError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return pkgerrors.NewGenerationUnreachableError(err)
	}
	return err
}

func clampScore(score float64) float64 {
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}
