package di

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"flutterai-engine/application/ports"
	"flutterai-engine/application/services"
	domaincfg "flutterai-engine/domain/config"
	"flutterai-engine/infrastructure/config"
	"flutterai-engine/infrastructure/generation"
	"flutterai-engine/infrastructure/templates"
	enginews "flutterai-engine/interfaces/websocket"
	"flutterai-engine/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	DomainConfig     *domaincfg.DomainConfig
	Logger           *zap.Logger
	Registry         *prometheus.Registry
	Metrics          *observability.Metrics
	TemplateRegistry *templates.Registry
	Templates        ports.TemplateSource
	GenerationClient ports.GenerationClient
	Hub              *enginews.Hub
	Store            *services.ProjectStore
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideDomainConfig loads the domain limits for the environment
func ProvideDomainConfig(cfg *config.Config) *domaincfg.DomainConfig {
	return domaincfg.LoadDomainConfig(cfg.Environment)
}

// ProvidePrometheusRegistry creates the metrics registry with runtime collectors
func ProvidePrometheusRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// ProvideMetrics creates the engine's metric collectors
func ProvideMetrics(registry *prometheus.Registry) *observability.Metrics {
	return observability.NewMetrics(registry)
}

// ProvideTemplateRegistry creates the template registry, loading the
// optional on-disk directory over the embedded defaults
func ProvideTemplateRegistry(cfg *config.Config, domainCfg *domaincfg.DomainConfig, logger *zap.Logger) (*templates.Registry, error) {
	registry, err := templates.NewRegistry(domainCfg.DefaultTemplateID, logger)
	if err != nil {
		return nil, err
	}
	if cfg.TemplatesDir != "" {
		if err := registry.LoadDir(cfg.TemplatesDir); err != nil {
			logger.Warn("failed to load templates directory", zap.Error(err))
		}
	}
	return registry, nil
}

// ProvideTemplateSource exposes the registry through its port
func ProvideTemplateSource(registry *templates.Registry) ports.TemplateSource {
	return registry
}

// ProvideGenerationClient creates the generation service adapter
func ProvideGenerationClient(cfg *config.Config, logger *zap.Logger) ports.GenerationClient {
	return generation.NewClient(cfg, logger)
}

// ProvideHub creates the websocket hub; the caller starts its run loop
func ProvideHub(logger *zap.Logger) *enginews.Hub {
	return enginews.NewHub(logger)
}

// ProvideEventPublisher exposes the hub through its port
func ProvideEventPublisher(hub *enginews.Hub) ports.EventPublisher {
	return hub
}

// ProvideProjectStore creates the engine's state store
func ProvideProjectStore(
	domainCfg *domaincfg.DomainConfig,
	templateSource ports.TemplateSource,
	client ports.GenerationClient,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *services.ProjectStore {
	return services.NewProjectStore(domainCfg, templateSource, client, publisher, metrics, logger)
}
