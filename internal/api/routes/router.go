package routes

import (
	"net/http"

	"github.com/dentalops/pricing-engine/internal/api/handlers"
	"github.com/dentalops/pricing-engine/internal/api/middleware"
	"github.com/dentalops/pricing-engine/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	setupHandler        *handlers.SetupHandler
	timeSettingsHandler *handlers.TimeSettingsHandler
	fixedCostHandler    *handlers.FixedCostHandler
	assetHandler        *handlers.AssetHandler
	supplyHandler       *handlers.SupplyHandler
	serviceHandler      *handlers.ServiceHandler
	wizardHandler       *handlers.WizardHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	setupHandler *handlers.SetupHandler,
	timeSettingsHandler *handlers.TimeSettingsHandler,
	fixedCostHandler *handlers.FixedCostHandler,
	assetHandler *handlers.AssetHandler,
	supplyHandler *handlers.SupplyHandler,
	serviceHandler *handlers.ServiceHandler,
	wizardHandler *handlers.WizardHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                 http.NewServeMux(),
		setupHandler:        setupHandler,
		timeSettingsHandler: timeSettingsHandler,
		fixedCostHandler:    fixedCostHandler,
		assetHandler:        assetHandler,
		supplyHandler:       supplyHandler,
		serviceHandler:      serviceHandler,
		wizardHandler:       wizardHandler,
		metrics:             metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Setup gate and time-cost endpoints
	r.mux.HandleFunc("GET /api/setup/status", r.setupHandler.GetStatus)
	r.mux.HandleFunc("GET /api/time/cost-per-minute", r.setupHandler.GetCostPerMinute)

	// Time settings endpoints
	r.mux.HandleFunc("GET /api/settings/time", r.timeSettingsHandler.GetSettings)
	r.mux.HandleFunc("PUT /api/settings/time", r.timeSettingsHandler.PutSettings)

	// Fixed cost endpoints
	r.mux.HandleFunc("GET /api/fixed-costs", r.fixedCostHandler.ListFixedCosts)
	r.mux.HandleFunc("POST /api/fixed-costs", r.fixedCostHandler.CreateFixedCost)

	// Asset endpoints
	r.mux.HandleFunc("POST /api/assets", r.assetHandler.CaptureAssets)
	r.mux.HandleFunc("GET /api/assets/summary", r.assetHandler.GetSummary)

	// Consumable catalog endpoints
	r.mux.HandleFunc("GET /api/supplies", r.supplyHandler.ListSupplies)
	r.mux.HandleFunc("POST /api/supplies", r.supplyHandler.CreateSupply)
	r.mux.HandleFunc("DELETE /api/supplies/{id}", r.supplyHandler.DeleteSupply)

	// Service catalog endpoints
	r.mux.HandleFunc("GET /api/services", r.serviceHandler.ListServices)
	r.mux.HandleFunc("GET /api/services/{id}", r.serviceHandler.GetService)
	r.mux.HandleFunc("POST /api/services", r.serviceHandler.CreateService)

	// Wizard session endpoints
	r.mux.HandleFunc("POST /api/wizard", r.wizardHandler.OpenSession)
	r.mux.HandleFunc("GET /api/wizard/{id}", r.wizardHandler.GetSession)
	r.mux.HandleFunc("PUT /api/wizard/{id}/time", r.wizardHandler.SaveTime)
	r.mux.HandleFunc("PUT /api/wizard/{id}/basic", r.wizardHandler.SaveBasic)
	r.mux.HandleFunc("PUT /api/wizard/{id}/recipe", r.wizardHandler.SaveRecipe)
	r.mux.HandleFunc("POST /api/wizard/{id}/supplies", r.wizardHandler.CreateSupplyInline)
	r.mux.HandleFunc("PUT /api/wizard/{id}/assets", r.wizardHandler.SaveAssets)
	r.mux.HandleFunc("POST /api/wizard/{id}/proceed", r.wizardHandler.Proceed)
	r.mux.HandleFunc("POST /api/wizard/{id}/back", r.wizardHandler.Back)
	r.mux.HandleFunc("POST /api/wizard/{id}/submit", r.wizardHandler.Submit)
	r.mux.HandleFunc("DELETE /api/wizard/{id}", r.wizardHandler.CancelSession)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}
	handler = middleware.Compression(handler)

	// CORS wraps everything so preflights never hit the mux
	handler = middleware.CORSMiddleware(handler)

	return handler
}
