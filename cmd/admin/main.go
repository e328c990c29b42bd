package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"finsight/internal/domain/insight"
	"finsight/internal/infrastructure/postgres"
	"finsight/internal/shared/config"
)

const usage = `Finsight Admin CLI - Management commands for the Finsight API

Usage:
  admin <command> [options]

Commands:
  migrate    Create or update the database schema
  seed       Load a demo user with accounts and transactions
  insights   Regenerate insights for a user

Examples:
  # Apply the schema
  admin migrate

  # Seed demo data (idempotent, safe to re-run)
  admin seed --email=demo@finsight.dev

  # Regenerate insights for user 1 and print the grouped result
  admin insights --user-id=1
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	// Load .env if present (development convenience)
	_ = godotenv.Load()

	command := os.Args[1]

	switch command {
	case "migrate":
		runMigrate(os.Args[2:])
	case "seed":
		runSeed(os.Args[2:])
	case "insights":
		runInsights(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}
}

func connect() *postgres.DB {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

func runMigrate(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	timeoutStr := fs.String("timeout", "2m", "Timeout for the operation (e.g., 30s, 2m)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout: %v", err)
	}

	db := connect()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Schema is up to date")
}

func runInsights(args []string) {
	fs := flag.NewFlagSet("insights", flag.ExitOnError)
	userID := fs.Int64("user-id", 0, "User ID to regenerate insights for")
	rulesetPath := fs.String("ruleset", "", "Optional YAML ruleset override file")
	timeoutStr := fs.String("timeout", "5m", "Timeout for the operation (e.g., 1m, 5m)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *userID <= 0 {
		fmt.Println("Error: must specify --user-id")
		fs.Usage()
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout: %v", err)
	}

	rules, err := insight.LoadRuleset(*rulesetPath)
	if err != nil {
		log.Fatalf("Failed to load ruleset: %v", err)
	}

	db := connect()
	defer db.Close()

	transactionRepo := postgres.NewTransactionRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	insightRepo := postgres.NewInsightRepository(db, transactionRepo, accountRepo)
	engine := insight.NewEngine(insightRepo, rules)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	grouped, err := engine.GenerateAll(ctx, *userID)
	if err != nil {
		log.Fatalf("Insight generation failed: %v", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(grouped); err != nil {
		log.Fatalf("Failed to print insights: %v", err)
	}
}
