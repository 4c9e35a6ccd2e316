package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/config"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	appHTTP "github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/service/file"
	rosterService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/roster"
	timeclockService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/timeclock"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var employeeRepo employee.EmployeeRepository
	var resultSetRepo timeclock.ResultSetRepository
	switch cfg.Persistence.Backend {
	case config.BackendPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return fmt.Errorf("error connecting to database: %w", err)
		}
		defer db.Close()

		if cfg.Persistence.AutoMigrate {
			if err := postgresql.EnsureSchema(ctx, db); err != nil {
				return err
			}
		}

		employeeRepo = postgresql.NewEmployeeRepository(db)
		resultSetRepo = postgresql.NewResultSetRepository(db)
	case config.BackendMemory:
		employeeRepo, err = memory.LoadEmployeeRepository(cfg.Persistence.RosterFile)
		if err != nil {
			return err
		}
		resultSetRepo = memory.NewResultSetRepository()
	default:
		return fmt.Errorf("unsupported persistence backend: %s", cfg.Persistence.Backend)
	}

	var fileService file.FileService
	switch cfg.Storage.Type {
	case config.StorageLocal:
		fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			return fmt.Errorf("failed to initialize local storage: %w", err)
		}
		fileService = file.NewFileService(fileStorage)
	case config.StorageNone:
		slog.Info("Punch file archiving disabled")
	default:
		return fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}

	matcher, err := timeclockService.NewNameMatcher(cfg.Timeclock.NameMatcher, cfg.Timeclock.FuzzyMaxDistance)
	if err != nil {
		return err
	}

	policy := timeclockService.DefaultPolicy()
	policy.DedupWindow = cfg.Timeclock.DedupWindowMinutes
	policy.MonthlyHours = cfg.Timeclock.MonthlyHours
	policy.DefaultMonthlySalary = cfg.Timeclock.DefaultMonthlySalary
	policy.Selection = timeclockService.Selection(cfg.Timeclock.OutputSelection)

	hub := sse.NewHub(10)
	rosterSvc := rosterService.NewRosterService(employeeRepo)
	timeclockSvc := timeclockService.NewTimeclockService(
		timeclockService.NewState(),
		resultSetRepo,
		rosterSvc,
		fileService,
		hub,
		timeclockService.NewEngine(policy, matcher),
		timeclockService.NewExporter(cfg.Timeclock.Locale, policy.Selection),
	)

	if err := timeclockSvc.Restore(ctx); err != nil {
		slog.Warn("Starting without a restored result set", "error", err)
	}

	scheduler := cron.NewScheduler()
	cron.NewRosterJobs(rosterSvc, cfg.Cron.RosterRefreshInterval).RegisterJobs(scheduler)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AppName:        cfg.App.Name,
			Version:        cfg.App.Version,
			Env:            cfg.App.Env,
			LogLevel:       cfg.SlogLevel(),
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		},
		appHTTP.NewTimeclockHandler(timeclockSvc, hub),
		appHTTP.NewEmployeeHandler(rosterSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server running", "addr", server.Addr, "persistence", cfg.Persistence.Backend, "storage", cfg.Storage.Type)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()

		slog.Info("Shutting down server...")
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return scheduler.Run(gCtx)
	})

	return g.Wait()
}
