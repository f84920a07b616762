package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"flutterai-engine/application/ports"
	"flutterai-engine/application/services"
	domaincfg "flutterai-engine/domain/config"
	"flutterai-engine/infrastructure/config"
	"flutterai-engine/interfaces/http/rest/handlers"
	"flutterai-engine/interfaces/http/rest/middleware"
	enginews "flutterai-engine/interfaces/websocket"
	pkgerrors "flutterai-engine/pkg/errors"
	"flutterai-engine/pkg/utils"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg       *config.Config
	domainCfg *domaincfg.DomainConfig
	store     *services.ProjectStore
	client    ports.GenerationClient
	templates ports.TemplateSource
	hub       *enginews.Hub
	registry  *prometheus.Registry
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	domainCfg *domaincfg.DomainConfig,
	store *services.ProjectStore,
	client ports.GenerationClient,
	templates ports.TemplateSource,
	hub *enginews.Hub,
	registry *prometheus.Registry,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:       cfg,
		domainCfg: domainCfg,
		store:     store,
		client:    client,
		templates: templates,
		hub:       hub,
		registry:  registry,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health checks
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// Metrics
	if rt.cfg.EnableMetrics && rt.registry != nil {
		router.Handle("/metrics", promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}))
	}

	// Event stream
	router.Get("/ws", enginews.ServeWS(rt.hub, rt.logger))

	errHandler := pkgerrors.NewErrorHandler(rt.logger, rt.cfg.IsDevelopment())

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.cfg.JWTSecret, rt.cfg.JWTIssuer, rt.logger))

		// Project catalogue
		r.Route("/projects", func(r chi.Router) {
			projectHandler := handlers.NewProjectHandler(rt.store, errHandler, rt.logger)
			r.Post("/", projectHandler.CreateProject)
			r.Get("/", projectHandler.ListProjects)
			r.Get("/{projectID}", projectHandler.GetProject)
			r.Patch("/{projectID}", projectHandler.UpdateProject)
			r.Delete("/{projectID}", projectHandler.DeleteProject)
			r.Post("/{projectID}/open", projectHandler.OpenProject)
		})

		// Workspace: files and generation on the current project
		r.Route("/workspace", func(r chi.Router) {
			workspaceHandler := handlers.NewWorkspaceHandler(rt.store, errHandler, rt.logger)
			r.Get("/", workspaceHandler.GetWorkspace)
			r.Post("/files", workspaceHandler.CreateFile)
			r.Post("/files/{fileID}/select", workspaceHandler.SelectFile)
			r.Get("/files/{fileID}/content", workspaceHandler.GetFileContent)
			r.Put("/files/{fileID}/content", workspaceHandler.UpdateFileContent)
			r.Patch("/files/{fileID}", workspaceHandler.RenameFile)
			r.Delete("/files/{fileID}", workspaceHandler.DeleteFile)

			generationHandler := handlers.NewGenerationHandler(rt.store, rt.client, rt.domainCfg, errHandler, rt.logger)
			r.Post("/generate", generationHandler.Generate)
			r.Post("/variants/{variantID}/select", generationHandler.SelectVariant)
			r.Post("/variants/{variantID}/accept", generationHandler.AcceptVariant)
			r.Post("/refine", generationHandler.Refine)
		})

		// Console log stream
		consoleHandler := handlers.NewConsoleHandler(rt.store, errHandler, rt.logger)
		r.Get("/console", consoleHandler.ListLogs)
		r.Post("/console", consoleHandler.AddLog)

		// Templates, styles, model metadata
		metaHandler := handlers.NewMetaHandler(rt.templates, rt.client, errHandler, rt.logger)
		r.Get("/templates", metaHandler.ListTemplates)
		r.Get("/styles", metaHandler.ListStyles)
		r.Get("/model/info", metaHandler.ModelInfo)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "healthy",
		"timestamp": utils.NowRFC3339(),
	})
}

// readinessCheck proxies the generation service's health so a load balancer
// only routes traffic once the model is actually usable
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
	defer cancel()

	health, err := rt.client.Health(ctx)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":       "ready",
		"generation":   health.Status,
		"model_loaded": health.ModelLoaded,
		"device":       health.Device,
	})
}
