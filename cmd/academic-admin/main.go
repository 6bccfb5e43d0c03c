package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vertextoedge/academic-admin/internal/adapter/filesystem"
	"github.com/vertextoedge/academic-admin/internal/adapter/memory"
	"github.com/vertextoedge/academic-admin/internal/adapter/sqlite"
	"github.com/vertextoedge/academic-admin/internal/config"
	"github.com/vertextoedge/academic-admin/internal/domain"
	"github.com/vertextoedge/academic-admin/internal/domain/event"
	domainservice "github.com/vertextoedge/academic-admin/internal/domain/service"
	"github.com/vertextoedge/academic-admin/internal/logger"
	"github.com/vertextoedge/academic-admin/internal/port"
	"github.com/vertextoedge/academic-admin/internal/service/academy"
	"github.com/vertextoedge/academic-admin/internal/service/dashboard"
	"github.com/vertextoedge/academic-admin/internal/service/maintenance"
	"github.com/vertextoedge/academic-admin/internal/service/reminder"
	"github.com/vertextoedge/academic-admin/internal/service/server"
	"github.com/vertextoedge/academic-admin/internal/store"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file (empty for defaults)")
	flag.Parse()

	explicit := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})
	*configPath = config.ResolvePath(*configPath, explicit)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	zapLogger := logger.GetZapLogger()
	zapLogger.Info("starting academic-admin",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.String("storage", cfg.Storage.Backend),
	)

	kv, err := openStorage(cfg.Storage)
	if err != nil {
		zapLogger.Fatal("failed to open storage", zap.Error(err), zap.String("path", cfg.Storage.Path))
	}
	defer kv.Close()

	// Domain events
	metrics := event.NewMetricsHandler()
	dispatcher := event.NewInMemoryDispatcher(logger.Component("event"))
	dispatcher.Subscribe(event.NewLoggingHandler(logger.Component("event")))
	dispatcher.Subscribe(metrics)

	policy := domainservice.NewEnrollmentPolicy(cfg.Policy.EnforceCapacity, cfg.Policy.EnforcePaymentBound)
	st := store.New(kv, &store.Config{Policy: policy}, dispatcher, logger.Component("store"))

	academyService := academy.NewService(st, logger.Component("academy"))
	seeded, err := academyService.Seed(st, cfg.Seed.SampleData)
	if err != nil {
		zapLogger.Fatal("failed to initialize storage", zap.Error(err))
	}
	if seeded {
		zapLogger.Info("storage initialized", zap.Bool("sample_data", cfg.Seed.SampleData))
	}

	dashboardService := dashboard.NewService(st, logger.Component("dashboard"))

	var reminderService *reminder.Service
	if cfg.Reminders.Enabled {
		reminderService = reminder.New(&reminder.Config{
			Schedule:    cfg.Reminders.Schedule,
			Channel:     domain.ReminderType(cfg.Reminders.Channel),
			MinInterval: cfg.Reminders.GetMinInterval(),
			Now:         time.Now,
		}, st, reminder.NewLogNotifier(logger.Component("notifier")), logger.Component("reminder"))
	}

	var snapshots port.SnapshotStore
	if cfg.Maintenance.BackupDir != "" {
		fsManager, err := filesystem.NewManager(cfg.Maintenance.BackupDir)
		if err != nil {
			zapLogger.Fatal("failed to create snapshot manager", zap.Error(err))
		}
		snapshots = fsManager
	}

	maintenanceService := maintenance.New(&maintenance.Config{
		AuditInterval:   cfg.Maintenance.GetAuditInterval(),
		RepairOccupancy: cfg.Maintenance.RepairOccupancy,
		BackupInterval:  cfg.Maintenance.GetBackupInterval(),
		BackupKeep:      cfg.Maintenance.BackupKeep,
		Now:             time.Now,
	}, st, snapshots, dispatcher, logger.Component("maintenance"))

	services := server.Services{
		Academy:   academyService,
		Dashboard: dashboardService,
		Metrics:   metrics,
	}
	if reminderService != nil {
		services.Reminders = reminderService
	}

	httpServer := server.New(&server.Config{
		BindAddr:     cfg.HTTP.BindAddr,
		ReadTimeout:  cfg.HTTP.GetReadTimeout(),
		WriteTimeout: cfg.HTTP.GetWriteTimeout(),
		IdleTimeout:  cfg.HTTP.GetIdleTimeout(),
	}, st, services, logger.Component("http"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := httpServer.Start(); err != nil {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	if reminderService != nil {
		go func() {
			if err := reminderService.Start(ctx); err != nil && err != context.Canceled {
				zapLogger.Error("reminder service stopped with error", zap.Error(err))
			}
		}()
	}

	go func() {
		if err := maintenanceService.Start(ctx); err != nil && err != context.Canceled {
			zapLogger.Error("maintenance service stopped with error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	zapLogger.Info("application started successfully",
		zap.String("http_addr", cfg.HTTP.BindAddr),
		zap.Bool("enforce_capacity", policy.EnforcesCapacity()),
		zap.Bool("enforce_payment_bound", policy.EnforcesPaymentBound()),
		zap.Bool("reminders", reminderService != nil),
	)
	<-sigChan

	zapLogger.Info("shutdown signal received, stopping services...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if reminderService != nil {
		reminderService.Stop()
	}
	maintenanceService.Stop()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		zapLogger.Error("failed to stop HTTP server gracefully", zap.Error(err))
	}

	zapLogger.Info("application stopped successfully", zap.Any("events", metrics.GetMetrics()))
}

// openStorage opens the configured key-value backend
func openStorage(cfg config.StorageConfig) (port.KeyValueStore, error) {
	switch cfg.Backend {
	case "memory":
		return memory.New(), nil
	case "sqlite":
		kv, err := sqlite.Open(cfg.Path, nil)
		if err != nil {
			return nil, err
		}
		return kv, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
