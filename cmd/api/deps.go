package main

import (
	"log"

	"finsight/internal/domain/insight"
	"finsight/internal/infrastructure/postgres"
	httphandlers "finsight/internal/interfaces/http"
	"finsight/internal/shared/auth"
	"finsight/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	AccountHandler     *httphandlers.AccountHandler
	TransactionHandler *httphandlers.TransactionHandler
	InsightHandler     *httphandlers.InsightHandler
	DashboardHandler   *httphandlers.DashboardHandler
	HealthHandler      *httphandlers.HealthHandler

	// Auth
	JWT *auth.JWT
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	insightRepo := postgres.NewInsightRepository(db, transactionRepo, accountRepo)

	// Load detector configuration (built-in defaults unless overridden)
	rules, err := insight.LoadRuleset(cfg.Insights.RulesetPath)
	if err != nil {
		return nil, err
	}
	if cfg.Insights.RulesetPath != "" {
		log.Printf("Loaded ruleset overrides from %s", cfg.Insights.RulesetPath)
	}
	engine := insight.NewEngine(insightRepo, rules)

	// Initialize auth components
	jwt := auth.NewJWT(cfg.JWT.Secret)

	// Initialize handlers
	authHandler := httphandlers.NewAuthHandler(userRepo, jwt)
	accountHandler := httphandlers.NewAccountHandler(accountRepo)
	transactionHandler := httphandlers.NewTransactionHandler(transactionRepo)
	insightHandler := httphandlers.NewInsightHandler(engine)
	dashboardHandler := httphandlers.NewDashboardHandler(accountRepo, transactionRepo, insightRepo)
	healthHandler := httphandlers.NewHealthHandler(db)

	return &Dependencies{
		DB:                 db,
		AuthHandler:        authHandler,
		AccountHandler:     accountHandler,
		TransactionHandler: transactionHandler,
		InsightHandler:     insightHandler,
		DashboardHandler:   dashboardHandler,
		HealthHandler:      healthHandler,
		JWT:                jwt,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
