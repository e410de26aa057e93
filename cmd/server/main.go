package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	api "equipbook-backend/internal/api/http"
	"equipbook-backend/internal/config"
	"equipbook-backend/internal/logger"
	"equipbook-backend/internal/repository/postgres"
	"equipbook-backend/internal/security"
	"equipbook-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Equipbook Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	policySvc := service.NewPolicyService(store.ReservationRepository, store.EquipmentRepository, store.FineRepository, store.TrainingRepository, store.PolicyViolationRepository, cfg.Policy)
	ledgerSvc := service.NewLedgerService(store.FineRepository, store.ReservationRepository, cfg.Fines)
	bookingSvc := service.NewBookingService(store.ReservationRepository, store.PolicyViolationRepository, policySvc, ledgerSvc, cfg.Fines.DailyRateCents)
	routingSvc := service.NewRoutingService(store.EquipmentRepository, store.CrossDepartmentRepository)
	lifecycleSvc := service.NewRequestLifecycleService(store.CrossDepartmentRepository)

	router := api.NewRouter(tokenManager, bookingSvc, policySvc, ledgerSvc, routingSvc, lifecycleSvc)

	addr := cfg.GetServerAddress()
	logger.Info("HTTP server listening", "address", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Error("HTTP server stopped", "error", err)
		log.Fatalf("HTTP server stopped: %v", err)
	}
}
