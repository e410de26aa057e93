package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"equipbook-backend/internal/config"
	"equipbook-backend/internal/jobs"
	"equipbook-backend/internal/logger"
	"equipbook-backend/internal/repository/postgres"
	"equipbook-backend/internal/scheduler"
	"equipbook-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a single job immediately and exit (mark-overdue-fines)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Equipbook cron runner...")

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
	ledgerSvc := service.NewLedgerService(store.FineRepository, store.ReservationRepository, cfg.Fines)
	jobRunner := jobs.NewJobRunner(ledgerSvc, cfg)

	if *runOnce != "" {
		runSingleJob(jobRunner, *runOnce)
		return
	}

	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	logger.Info("Cron runner ready", "mark_overdue_fines", cfg.Scheduler.MarkOverdueFines)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Shutdown signal received", "signal", sig.String())

	sched.Stop()
	logger.Info("Cron runner stopped")
}

func runSingleJob(jobRunner *jobs.JobRunner, name string) {
	switch name {
	case "mark-overdue-fines":
		jobRunner.MarkOverdueFines()
	default:
		logger.Error("Unknown job name", "job", name)
		log.Fatalf("Unknown job %q, valid jobs: mark-overdue-fines", name)
	}
}
