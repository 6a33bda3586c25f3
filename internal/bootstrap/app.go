package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"forgefolio/internal/analytics"
	"forgefolio/internal/llm"
	"forgefolio/internal/llm/gemini"
	"forgefolio/internal/llm/groq"
	"forgefolio/internal/portfolio"
	"forgefolio/internal/services/health"
	"forgefolio/internal/shared/config"
	"forgefolio/internal/shared/server"
	"forgefolio/internal/shared/server/middleware"
	"forgefolio/internal/shared/storage/db"
	"forgefolio/internal/shared/telemetry"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	LLM              llm.Client
	Catalog          *portfolio.Catalog
	AnalyticsStore   analytics.Store
	AnalyticsService *analytics.Service
	PortfolioService *portfolio.Service
	PortfolioHandler *portfolio.Handler
	AnalyticsHandler *analytics.Handler
}

// Build prepares dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	catalog, err := portfolio.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		LLM:     buildLLM(ctx, cfg),
		Catalog: catalog,
	}
	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		Health:           health.NewService(),
		PortfolioHandler: app.PortfolioHandler,
		AnalyticsHandler: app.AnalyticsHandler,
		Limiter:          middleware.NewRateLimiter(nil),
	})
	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		telemetry.Info("bootstrap.analytics_memory", map[string]any{"reason": "DATABASE_URL empty"})
		return nil, nil
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			sqlDB.Close()
			sqlDB = nil
		}
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.analytics_memory", map[string]any{"reason": "database unavailable", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

// buildLLM picks the provider client. A provider that cannot be built is
// replaced by the placeholder so generation fails with an upstream error
// rather than the process refusing to start.
func buildLLM(ctx context.Context, cfg config.Config) llm.Client {
	if cfg.DemoMode {
		telemetry.Info("bootstrap.llm", map[string]any{"provider": cfg.LLMProvider, "demo": true})
		return llm.PlaceholderClient{}
	}

	settings := llm.Settings{
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
		BaseURL: cfg.LLMBaseURL,
		Timeout: cfg.LLMTimeout,
	}

	var (
		client llm.Client
		err    error
	)
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		client, err = gemini.NewClient(ctx, settings)
	case config.ProviderGroq:
		client, err = groq.NewClient(settings)
	default:
		err = fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
	if err != nil {
		telemetry.Error("bootstrap.llm_unavailable", map[string]any{"provider": cfg.LLMProvider, "error": err})
		return llm.PlaceholderClient{}
	}

	telemetry.Info("bootstrap.llm", map[string]any{
		"provider":   cfg.LLMProvider,
		"model":      cfg.LLMModel,
		"timeout_ms": settings.EffectiveTimeout().Milliseconds(),
	})
	return client
}

func buildServices(app *App) error {
	if app.DB != nil {
		app.AnalyticsStore = analytics.NewPGStore(app.DB)
	} else {
		app.AnalyticsStore = analytics.NewMemoryStore(time.Now())
	}
	app.AnalyticsService = analytics.NewService(app.AnalyticsStore)

	svc := portfolio.NewService(app.LLM, app.Catalog, app.AnalyticsService)
	svc.Demo = app.Config.DemoMode
	svc.Provider = app.Config.LLMProvider
	svc.Model = app.Config.LLMModel
	app.PortfolioService = svc

	app.PortfolioHandler = portfolio.NewHandler(svc)
	if app.Config.MaxUploadBytes > 0 {
		app.PortfolioHandler.MaxUploadBytes = app.Config.MaxUploadBytes
	}
	app.AnalyticsHandler = analytics.NewHandler(app.AnalyticsService)

	if app.PortfolioHandler == nil || app.AnalyticsHandler == nil {
		return errors.New("failed to initialize handlers")
	}
	return nil
}
