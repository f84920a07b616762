package config

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Project constraints
	MaxProjectNameLength  int
	MaxDescriptionLength  int
	DefaultTemplateID     string

	// File tree constraints
	MaxFileNameLength int
	MaxTreeDepth      int
	MaxContentLength  int

	// Generation defaults and bounds
	DefaultStyle        string
	DefaultTemperature  float64
	MinTemperature      float64
	MaxTemperature      float64
	DefaultMaxTokens    int
	DefaultVariantCount int
	MinVariantCount     int
	MaxVariantCount     int

	// Console constraints
	MaxConsoleMessageLength int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		// Project constraints
		MaxProjectNameLength: 100,
		MaxDescriptionLength: 500,
		DefaultTemplateID:    "lovable",

		// File tree constraints
		MaxFileNameLength: 255,
		MaxTreeDepth:      32,
		MaxContentLength:  500000,

		// Generation defaults mirror the remote service contract
		DefaultStyle:        "lovable",
		DefaultTemperature:  0.7,
		MinTemperature:      0.0,
		MaxTemperature:      1.0,
		DefaultMaxTokens:    512,
		DefaultVariantCount: 3,
		MinVariantCount:     1,
		MaxVariantCount:     5,

		// Console constraints
		MaxConsoleMessageLength: 10000,
	}
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	cfg := DefaultDomainConfig()
	if environment == "development" {
		// Permissive content cap makes manual editing of large
		// generated files painless while iterating
		cfg.MaxContentLength = 5000000
	}
	return cfg
}
