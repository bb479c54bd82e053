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

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/recette/internal/auth"
	authStore "github.com/MrJamesThe3rd/recette/internal/auth/store"
	"github.com/MrJamesThe3rd/recette/internal/config"
	"github.com/MrJamesThe3rd/recette/internal/daily"
	dailyStore "github.com/MrJamesThe3rd/recette/internal/daily/store"
	"github.com/MrJamesThe3rd/recette/internal/database"
	"github.com/MrJamesThe3rd/recette/internal/deposit"
	depositStore "github.com/MrJamesThe3rd/recette/internal/deposit/store"
	"github.com/MrJamesThe3rd/recette/internal/events"
	"github.com/MrJamesThe3rd/recette/internal/events/kafka"
	"github.com/MrJamesThe3rd/recette/internal/export"
	recetteHttp "github.com/MrJamesThe3rd/recette/internal/http"
	authHandler "github.com/MrJamesThe3rd/recette/internal/http/auth"
	dailyHandler "github.com/MrJamesThe3rd/recette/internal/http/daily"
	depositHandler "github.com/MrJamesThe3rd/recette/internal/http/deposit"
	exportHandler "github.com/MrJamesThe3rd/recette/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/recette/internal/http/importcsv"
	invoiceHandler "github.com/MrJamesThe3rd/recette/internal/http/invoice"
	payrollHandler "github.com/MrJamesThe3rd/recette/internal/http/payroll"
	photoHandler "github.com/MrJamesThe3rd/recette/internal/http/photo"
	referenceHandler "github.com/MrJamesThe3rd/recette/internal/http/reference"
	statsHandler "github.com/MrJamesThe3rd/recette/internal/http/stats"
	"github.com/MrJamesThe3rd/recette/internal/importer"
	"github.com/MrJamesThe3rd/recette/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/recette/internal/invoice/store"
	"github.com/MrJamesThe3rd/recette/internal/payroll"
	payrollStore "github.com/MrJamesThe3rd/recette/internal/payroll/store"
	"github.com/MrJamesThe3rd/recette/internal/photo"
	"github.com/MrJamesThe3rd/recette/internal/reference"
	referenceStore "github.com/MrJamesThe3rd/recette/internal/reference/store"
	"github.com/MrJamesThe3rd/recette/internal/stats"
	statsStore "github.com/MrJamesThe3rd/recette/internal/stats/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	db, err := database.New(ctx, cfg.ConnectionString(), cfg.DB.MaxConns)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	publisher, closePublisher := newPublisher(cfg)
	defer closePublisher()

	photoStore, closeStore, err := newPhotoStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var (
		authService      = auth.NewService(authStore.New(db), auth.Options{Secret: cfg.Auth.Secret, TTL: cfg.Auth.TokenTTL, Issuer: cfg.Auth.Issuer})
		referenceService = reference.NewService(referenceStore.New(db))
		invoiceService   = invoice.NewService(invoiceStore.New(db), publisher)
		payrollService   = payroll.NewService(payrollStore.New(db))
		depositService   = deposit.NewService(depositStore.New(db))
		dailyService     = daily.NewService(dailyStore.New(db), invoiceService, payrollService, publisher)
		statsService     = stats.NewService(statsStore.New(db, cfg.Payroll.TablePrefix), dailyService, invoiceService, depositService)
		photoService     = photo.NewService(photoStore, cfg.Storage.MaxPhotoWidth)
		exportService    = export.NewService(dailyService, photoService)
		importService    = importer.NewService(depositService, cfg.Import.DepositKeywords...)
	)

	if cfg.Auth.AdminUsername != "" && cfg.Auth.AdminPassword != "" {
		if err := authService.Bootstrap(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
			return fmt.Errorf("creating admin account: %w", err)
		}
	}

	router := recetteHttp.New(authService, cfg.CORS.AllowedOrigins, recetteHttp.Handlers{
		Auth:      authHandler.NewHandler(authService),
		Daily:     dailyHandler.NewHandler(dailyService, referenceService),
		Invoices:  invoiceHandler.NewHandler(invoiceService, referenceService),
		Payroll:   payrollHandler.NewHandler(payrollService, referenceService),
		Deposits:  depositHandler.NewHandler(depositService),
		Reference: referenceHandler.NewHandler(referenceService),
		Stats:     statsHandler.NewHandler(statsService),
		Photos:    photoHandler.NewHandler(photoService),
		Export:    exportHandler.NewHandler(exportService),
		Import:    importHandler.NewHandler(importService),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func newPublisher(cfg *config.Config) (events.Publisher, func()) {
	if len(cfg.Kafka.Brokers) == 0 {
		slog.Info("event publishing disabled")
		return events.Nop{}, func() {}
	}

	p := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)

	return p, func() {
		if err := p.Close(); err != nil {
			slog.Warn("failed to close publisher", "error", err)
		}
	}
}

func newPhotoStore(ctx context.Context, cfg *config.Config) (photo.Store, func(), error) {
	switch cfg.Storage.Provider {
	case "gcs":
		gcs, err := photo.NewGCS(ctx, cfg.Storage.Bucket, cfg.Storage.CredentialsFile, cfg.Storage.BaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("opening bucket: %w", err)
		}

		return gcs, func() { _ = gcs.Close() }, nil
	case "local", "":
		local, err := photo.NewLocal(cfg.Storage.LocalDir, cfg.Storage.BaseURL)
		if err != nil {
			return nil, nil, err
		}

		return local, func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
}
