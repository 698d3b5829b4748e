package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goalwizard/internal/config"
	"github.com/templui/goalwizard/internal/db"
	"github.com/templui/goalwizard/internal/llm"
	"github.com/templui/goalwizard/internal/repository"
	"github.com/templui/goalwizard/internal/service"
)

type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	Verifier          service.TokenVerifier
	GenerationService *service.GenerationService
	GoalService       *service.GoalService
	ActionService     *service.ActionService
	DashboardService  *service.DashboardService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.DBAutoMigrate {
		if err := db.RunMigrations(ctx, database.DB, cfg.DBDriver); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	verifier, err := NewVerifier(ctx, cfg)
	if err != nil {
		database.Close()
		return nil, err
	}

	return Wire(cfg, database, verifier, NewCompleter(cfg)), nil
}

// Wire builds the repositories and services on top of an open database.
// Tests use it directly with a throwaway database and a fake completer.
func Wire(cfg *config.Config, database *sqlx.DB, verifier service.TokenVerifier, completer llm.Completer) *App {
	// Repositories
	targetRepository := repository.NewTargetRepository(database)
	actionRepository := repository.NewActionRepository(database)
	completionRepository := repository.NewCompletionRepository(database)

	// Services
	loc := cfg.Location()

	return &App{
		Cfg:               cfg,
		DB:                database,
		Verifier:          verifier,
		GenerationService: service.NewGenerationService(completer),
		GoalService:       service.NewGoalService(targetRepository),
		ActionService:     service.NewActionService(actionRepository, targetRepository, completionRepository, loc),
		DashboardService:  service.NewDashboardService(actionRepository, completionRepository, loc),
	}
}

// NewVerifier prefers the external identity provider when one is configured.
func NewVerifier(ctx context.Context, cfg *config.Config) (service.TokenVerifier, error) {
	if cfg.OIDCIssuer != "" {
		verifier, err := service.NewOIDCVerifier(ctx, cfg.OIDCIssuer, cfg.OIDCClientID)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize identity provider: %w", err)
		}
		slog.Info("verifying bearer tokens with identity provider", "issuer", cfg.OIDCIssuer)
		return verifier, nil
	}
	return service.NewJWTVerifier(cfg.JWTSecret, cfg.JWTExpiry), nil
}

// NewCompleter returns nil without an API key; generation routes then answer 500.
func NewCompleter(cfg *config.Config) llm.Completer {
	if cfg.OpenAIAPIKey == "" {
		slog.Warn("OPENAI_API_KEY not set, generation routes are disabled")
		return nil
	}
	return llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
}

func (a *App) Close() error {
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
