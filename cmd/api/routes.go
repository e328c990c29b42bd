package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"finsight/internal/shared/config"
	"finsight/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check and metrics
	mux.HandleFunc("/health", deps.HealthHandler.HandleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	// Public auth routes
	mux.HandleFunc("/api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("/api/auth/logout", deps.AuthHandler.HandleLogout)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)

	mux.Handle("/api/accounts", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandleListAccounts)))
	mux.Handle("/api/transactions", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleListTransactions)))
	mux.Handle("/api/insights", authMiddleware(http.HandlerFunc(deps.InsightHandler.HandleListInsights)))
	mux.Handle("/api/insights/generate", authMiddleware(http.HandlerFunc(deps.InsightHandler.HandleGenerateInsights)))
	mux.Handle("/api/dashboard", authMiddleware(http.HandlerFunc(deps.DashboardHandler.HandleDashboard)))

	// Apply global middleware
	handler := middleware.Logging(middleware.CORS(mux))
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(middleware.Tracing(handler))
	}

	return handler
}
