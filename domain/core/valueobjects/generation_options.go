package valueobjects

import (
	"fmt"

	"flutterai-engine/domain/config"
)

// GenerationOptions is a value object carrying the tunable parameters of a
// generation request. Construction validates the bounds so an invalid set of
// options is never representable.
type GenerationOptions struct {
	style        string
	temperature  float64
	maxTokens    int
	variantCount int
}

// NewGenerationOptions creates validated generation options. Zero values are
// replaced by the service defaults (style "lovable", temperature 0.7,
// 512 max tokens, 3 variants).
func NewGenerationOptions(style string, temperature float64, maxTokens, variantCount int) (GenerationOptions, error) {
	return NewGenerationOptionsWithConfig(style, temperature, maxTokens, variantCount, config.DefaultDomainConfig())
}

// NewGenerationOptionsWithConfig creates validated generation options using
// the supplied domain configuration for defaults and bounds
func NewGenerationOptionsWithConfig(style string, temperature float64, maxTokens, variantCount int, cfg *config.DomainConfig) (GenerationOptions, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if style == "" {
		style = cfg.DefaultStyle
	}
	if temperature == 0 {
		temperature = cfg.DefaultTemperature
	}
	if maxTokens == 0 {
		maxTokens = cfg.DefaultMaxTokens
	}
	if variantCount == 0 {
		variantCount = cfg.DefaultVariantCount
	}

	if temperature < cfg.MinTemperature || temperature > cfg.MaxTemperature {
		return GenerationOptions{}, fmt.Errorf("temperature must be between %.1f and %.1f", cfg.MinTemperature, cfg.MaxTemperature)
	}
	if variantCount < cfg.MinVariantCount || variantCount > cfg.MaxVariantCount {
		return GenerationOptions{}, fmt.Errorf("variant count must be between %d and %d", cfg.MinVariantCount, cfg.MaxVariantCount)
	}
	if maxTokens < 1 {
		return GenerationOptions{}, fmt.Errorf("max tokens must be positive")
	}

	return GenerationOptions{
		style:        style,
		temperature:  temperature,
		maxTokens:    maxTokens,
		variantCount: variantCount,
	}, nil
}

// DefaultGenerationOptions returns the service-default options
func DefaultGenerationOptions() GenerationOptions {
	opts, _ := NewGenerationOptions("", 0, 0, 0)
	return opts
}

// Style returns the style preset identifier
func (o GenerationOptions) Style() string {
	return o.style
}

// Temperature returns the sampling temperature
func (o GenerationOptions) Temperature() float64 {
	return o.temperature
}

// MaxTokens returns the generation token cap
func (o GenerationOptions) MaxTokens() int {
	return o.maxTokens
}

// VariantCount returns how many variants one request produces
func (o GenerationOptions) VariantCount() int {
	return o.variantCount
}

// Equals checks if two option sets are equal
func (o GenerationOptions) Equals(other GenerationOptions) bool {
	return o == other
}
