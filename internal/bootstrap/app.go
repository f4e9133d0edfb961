package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"ats-backend/internal/analyses"
	"ats-backend/internal/llm"
	"ats-backend/internal/llm/gemini"
	"ats-backend/internal/llm/openai"
	"ats-backend/internal/shared/config"
	"ats-backend/internal/shared/server"
	"ats-backend/internal/shared/storage/db"
	"ats-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	AnalysesRepo    analyses.Repo
	AnalysesService *analyses.Service
	AnalysisHandler *analyses.Handler
}

// Build connects storage, selects the model provider and wires routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gen, model, err := buildGenerator(ctx, cfg)
	if err != nil {
		if sqlDB != nil {
			sqlDB.Close()
		}
		return nil, err
	}

	var repo analyses.Repo
	if sqlDB != nil {
		repo = &analyses.PGRepo{DB: sqlDB}
	} else {
		repo = analyses.NewMemoryRepo()
	}

	svc := &analyses.Service{
		Repo:     repo,
		LLM:      gen,
		Timeout:  cfg.LLMTimeout,
		Provider: cfg.LLMProvider,
		Model:    model,
	}
	handler := analyses.NewHandler(svc)

	return &App{
		Config:          cfg,
		DB:              sqlDB,
		AnalysesRepo:    repo,
		AnalysesService: svc,
		AnalysisHandler: handler,
		Router: server.NewRouter(server.Options{
			Env:             cfg.Env,
			CORSAllowOrigin: cfg.CORSAllowOrigin,
		}, handler),
	}, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_store", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_store", map[string]any{"reason": "database connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if cfg.DBAutoMigrate {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, err
		}
		telemetry.Info("bootstrap.migrated", nil)
	}
	if err := db.CheckSchema(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_store", map[string]any{"reason": "schema check failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

// buildGenerator returns the configured provider client. Without an API key the dev server
// still boots with llm.Unconfigured; other environments refuse to start.
func buildGenerator(ctx context.Context, cfg config.Config) (llm.Generator, string, error) {
	if strings.TrimSpace(cfg.APIKey()) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.llm_unconfigured", map[string]any{"provider": cfg.LLMProvider})
			return llm.Unconfigured{}, "", nil
		}
		return nil, "", fmt.Errorf("%s API key is required", cfg.LLMProvider)
	}

	switch cfg.LLMProvider {
	case config.ProviderGemini:
		c, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, "", cfg.LLMModel)
		if err != nil {
			return nil, "", err
		}
		return c, c.Model(), nil
	default:
		c, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.LLMModel)
		if err != nil {
			return nil, "", err
		}
		return c, c.Model(), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
