package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront-layout-backend/internal/background"
	"storefront-layout-backend/internal/config"
	"storefront-layout-backend/internal/handlers"
	"storefront-layout-backend/internal/middleware"
	"storefront-layout-backend/internal/models"
	"storefront-layout-backend/internal/render"
	"storefront-layout-backend/internal/repository"
	"storefront-layout-backend/internal/sections"
	"storefront-layout-backend/internal/service"
	"storefront-layout-backend/internal/styles"
	"storefront-layout-backend/pkg/cache"
	"storefront-layout-backend/pkg/logger"
	"storefront-layout-backend/pkg/validator"
)

type Options struct {
	// Repository replaces the store selected by the config, for example in tests.
	Repository repository.LayoutRepository
	// WarmScopes are loaded into the cache once the scheduler starts.
	WarmScopes []string
}

type Application struct {
	cfg     *config.Config
	options Options

	store *Store
	cache *cache.Cache

	registry  *sections.Registry
	templates *sections.TemplateCatalog

	services    serviceContainer
	handlers    handlerContainer
	scheduler   *background.Scheduler
	rateLimiter *middleware.RateLimitManager

	ctx    context.Context
	cancel context.CancelFunc

	router *gin.Engine
	server *http.Server
}

type serviceContainer struct {
	Layouts *service.LayoutStore
	Editor  *service.EditorService
	Warmer  *service.LayoutWarmer
}

type handlerContainer struct {
	Layout  *handlers.LayoutHandler
	Editor  *handlers.EditorHandler
	Builder *handlers.BuilderHandler
}

func New(cfg *config.Config, opts Options) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	if len(opts.WarmScopes) == 0 {
		opts.WarmScopes = []string{models.GlobalScope}
	}

	validator.Init()

	ctx, cancel := context.WithCancel(context.Background())
	app := &Application{
		cfg:     cfg,
		options: opts,
		ctx:     ctx,
		cancel:  cancel,
	}

	repo, err := app.initStore()
	if err != nil {
		app.closeResources()
		cancel()
		return nil, err
	}

	app.initCache()

	if err := app.initSections(); err != nil {
		app.closeResources()
		cancel()
		return nil, err
	}

	app.initServices(repo)
	app.initHandlers()
	app.initRouter()

	app.server = &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        app.router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return app, nil
}

func (a *Application) Run() error {
	logger.Info("Server starting", map[string]interface{}{
		"port":         a.cfg.Port,
		"environment":  a.cfg.Environment,
		"store_driver": a.cfg.StoreDriver,
	})

	a.warmCache()

	return a.server.ListenAndServe()
}

func (a *Application) Shutdown(ctx context.Context) error {
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return err
		}
	}

	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(ctx); err != nil {
			logger.Error(err, "Background jobs did not stop in time", nil)
		}
	}

	if a.rateLimiter != nil {
		_ = a.rateLimiter.Shutdown()
	}

	a.cancel()
	a.closeResources()
	return nil
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) closeResources() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
		}
	}

	if err := a.store.Close(); err != nil {
		logger.Error(err, "Failed to close layout store", nil)
	}
}

func (a *Application) initStore() (repository.LayoutRepository, error) {
	if a.options.Repository != nil {
		return a.options.Repository, nil
	}

	store, err := OpenStore(a.ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	a.store = store
	return store.Repository, nil
}

func (a *Application) initCache() {
	layoutCache, err := cache.NewCache(a.cfg.RedisURL, a.cfg.EnableCache, a.cfg.LayoutCacheTTL)
	if err != nil {
		logger.Error(err, "Redis unavailable, serving layouts without cache", map[string]interface{}{
			"redis_url": a.cfg.RedisURL,
		})
		layoutCache, _ = cache.NewCache("", false, 0)
	}
	a.cache = layoutCache
}

func (a *Application) initSections() error {
	a.registry = sections.DefaultRegistry()

	templates, err := LoadTemplateCatalog(a.registry, a.cfg.TemplatesFile)
	if err != nil {
		return err
	}
	a.templates = templates
	return nil
}

// LoadTemplateCatalog returns the builtin templates plus any presets found
// in file. An empty file name loads only the builtins.
func LoadTemplateCatalog(registry *sections.Registry, file string) (*sections.TemplateCatalog, error) {
	catalog := sections.NewTemplateCatalog()
	if err := catalog.Add(registry, sections.BuiltinTemplates()...); err != nil {
		return nil, fmt.Errorf("failed to register builtin templates: %w", err)
	}

	if path := strings.TrimSpace(file); path != "" {
		if err := catalog.LoadTemplatesFile(registry, path); err != nil {
			return nil, fmt.Errorf("failed to load layout templates: %w", err)
		}
		logger.Info("Layout templates loaded", map[string]interface{}{"file": path})
	}

	return catalog, nil
}

func (a *Application) initServices(repo repository.LayoutRepository) {
	a.scheduler = background.NewScheduler(background.SchedulerConfig{WorkerCount: 2, QueueSize: 64})
	a.scheduler.Start(a.ctx)

	store := service.NewLayoutStore(repo, a.cache, a.registry)
	editor := service.NewEditorService(store, a.registry, a.templates, a.cfg.EditorSessionTTL)

	var warmer *service.LayoutWarmer
	if a.cache.Enabled() {
		warmer = service.NewLayoutWarmer(store, a.scheduler)
		editor.OnPublish(warmer.Warm)
	}

	a.services = serviceContainer{
		Layouts: store,
		Editor:  editor,
		Warmer:  warmer,
	}
}

func (a *Application) initHandlers() {
	css := styles.FormatOptions{Important: a.cfg.CSSImportant}
	preview := render.NewPreviewRenderer(render.DefaultRegistry(), css)

	a.handlers = handlerContainer{
		Layout:  handlers.NewLayoutHandler(a.services.Layouts, preview, css),
		Editor:  handlers.NewEditorHandler(a.services.Editor, preview),
		Builder: handlers.NewBuilderHandler(a.registry, a.templates),
	}
}

func (a *Application) warmCache() {
	for _, scope := range a.options.WarmScopes {
		a.services.Warmer.Warm(scope)
	}
}

func (a *Application) initRouter() {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	a.rateLimiter = middleware.NewRateLimitManager(a.ctx)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(logger.GinLogger())
	if a.cfg.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}
	router.Use(middleware.RateLimitMiddleware(a.cfg, a.rateLimiter))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":          "healthy",
			"time":            time.Now().Format(time.RFC3339),
			"store":           a.cfg.StoreDriver,
			"cache":           a.cache.Enabled(),
			"editor_sessions": a.services.Editor.Count(),
		})
	})

	if a.cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		layouts := v1.Group("/layouts/:scope")
		{
			layouts.GET("", a.handlers.Layout.Get)
			layouts.GET("/styles.css", a.handlers.Layout.Styles)
			layouts.GET("/rules", a.handlers.Layout.Rules)
			layouts.GET("/preview", middleware.SecurityHeadersMiddleware(), a.handlers.Layout.Preview)
		}

		admin := v1.Group("/admin")
		{
			admin.GET("/sections/available", a.handlers.Builder.AvailableSections)
			admin.GET("/sections/:kind/schema", a.handlers.Builder.SectionSchema)
			admin.GET("/builder/config", a.handlers.Builder.Config)
			admin.GET("/templates", a.handlers.Builder.Templates)

			admin.POST("/layouts/:scope/sessions", a.handlers.Editor.Open)

			sessions := admin.Group("/sessions/:session")
			sessions.GET("", a.handlers.Editor.Get)
			sessions.DELETE("", a.handlers.Editor.Discard)
			sessions.GET("/preview", middleware.SecurityHeadersMiddleware(), a.handlers.Editor.Preview)
			sessions.POST("/sections", a.handlers.Editor.AddSection)
			sessions.DELETE("/sections/:section", a.handlers.Editor.RemoveSection)
			sessions.POST("/sections/:section/move", a.handlers.Editor.MoveSection)
			sessions.POST("/sections/:section/duplicate", a.handlers.Editor.DuplicateSection)
			sessions.PUT("/sections/:section/active", a.handlers.Editor.SetActive)
			sessions.PATCH("/sections/:section/settings", a.handlers.Editor.UpdateSettings)
			sessions.PUT("/sections/:section/fields/:field", a.handlers.Editor.UpdateField)
			sessions.PUT("/sections/:section/style", a.handlers.Editor.UpdateStyle)
			sessions.DELETE("/sections/:section/style", a.handlers.Editor.ClearStyle)
			sessions.POST("/publish", middleware.PublishRateLimitMiddleware(a.cfg, a.rateLimiter), a.handlers.Editor.Publish)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Route not found",
			"path":  c.Request.URL.Path,
		})
	})

	a.router = router
}
