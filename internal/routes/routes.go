package routes

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/templui/goalwizard/internal/app"
	"github.com/templui/goalwizard/internal/handler"
	"github.com/templui/goalwizard/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	generate := handler.NewGenerateHandler(app.GenerationService)
	goal := handler.NewGoalHandler(app.GoalService)
	action := handler.NewActionHandler(app.ActionService, app.DashboardService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	// Generation
	mux.HandleFunc("POST /api/generate-questions", middleware.RequireAuth(generate.Questions))
	mux.HandleFunc("POST /api/generate-smart", middleware.RequireAuth(generate.Smart))
	mux.HandleFunc("POST /api/generate-actions", middleware.RequireAuth(generate.Actions))
	mux.HandleFunc("POST /api/generate-more-actions", middleware.RequireAuth(generate.MoreActions))

	// Goals
	mux.HandleFunc("POST /api/save-goal-data", middleware.RequireAuth(goal.Save))
	mux.HandleFunc("GET /api/targets", middleware.RequireAuth(goal.Targets))
	mux.HandleFunc("PATCH /api/targets/{id}/archive", middleware.RequireAuth(goal.Archive))
	mux.HandleFunc("DELETE /api/targets/{id}", middleware.RequireAuth(goal.Delete))

	// Actions
	mux.HandleFunc("POST /api/actions/list", middleware.RequireAuth(action.List))
	mux.HandleFunc("POST /api/actions/update", middleware.RequireAuth(action.UpdateStatus))
	mux.HandleFunc("POST /api/actions/delete", middleware.RequireAuth(action.Delete))
	mux.HandleFunc("POST /api/actions/complete", middleware.RequireAuth(action.Complete))
	mux.HandleFunc("GET /api/actions/dashboard", middleware.RequireAuth(action.Dashboard))

	// Unknown paths and unsupported methods on known paths
	mux.HandleFunc("/{path...}", handler.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		chimw.RequestID,
		chimw.RealIP,
		middleware.RequestLogging,
		middleware.Recoverer, // inside logging so panics are logged as 500s
		middleware.Authenticate(app.Verifier),
	)

	return handler
}
