package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"budget-reconciler/internal/config"
	"budget-reconciler/internal/gateway"
	"budget-reconciler/internal/jobs"
	"budget-reconciler/internal/server"
	"budget-reconciler/internal/usecase"

	"github.com/sirupsen/logrus"
)

// ledger is what both ledger backends provide.
type ledger interface {
	usecase.Ledger
	usecase.NoteStore
	Close() error
}

// app is the wired application for one command invocation.
type app struct {
	cfg    config.Config
	log    *logrus.Logger
	ledger ledger
	runner *jobs.Runner
	http   *http.Client
}

func loadConfig(g *Globals) (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return config.Config{}, nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	log := cfg.NewLogger()
	logrus.SetOutput(log.Out)
	logrus.SetLevel(log.Level)
	logrus.SetFormatter(log.Formatter)
	return cfg, log, nil
}

func openLedger(cfg config.Config, client *http.Client) (ledger, error) {
	switch cfg.Ledger.Kind {
	case config.LedgerSQLite:
		return gateway.OpenSQLiteLedger(cfg.Ledger.Path)
	case config.LedgerHTTP:
		return gateway.NewHTTPLedger(gateway.HTTPLedgerConfig{
			URL:          cfg.Ledger.URL,
			APIKey:       cfg.Ledger.APIKey,
			SyncID:       cfg.Ledger.SyncID,
			FilePassword: cfg.Ledger.FilePassword,
			Client:       client,
		})
	}
	return nil, fmt.Errorf("unknown ledger kind %q", cfg.Ledger.Kind)
}

func newSimpleFIN(cfg config.Config, client *http.Client) *gateway.SimpleFIN {
	return gateway.NewSimpleFIN(gateway.SimpleFINConfig{
		BaseURL:     cfg.SimpleFIN.URL,
		Credentials: cfg.SimpleFIN.Credentials,
		CacheDir:    cfg.CacheDir,
		CacheKey:    cfg.SimpleFIN.CacheKey,
		CacheTTL:    cfg.SimpleFIN.CacheTTL,
		Client:      client,
	})
}

// newApp validates the config and wires gateways, use cases and the job runner.
func newApp(g *Globals) (*app, error) {
	cfg, log, err := loadConfig(g)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	client := &http.Client{Timeout: 60 * time.Second}

	// 1. Gateways
	l, err := openLedger(cfg, client)
	if err != nil {
		return nil, fmt.Errorf("could not open ledger: %w", err)
	}
	sink, err := gateway.NewReportSink(cfg.Report.Sink)
	if err != nil {
		l.Close()
		return nil, err
	}
	bank := newSimpleFIN(cfg, client)
	kbb := gateway.NewKBB(gateway.KBBConfig{APIKey: cfg.KBB.APIKey, Client: client})
	beacon := gateway.NewBeacon(cfg.Crypto.ConsensusHost, client, 0)
	execution := gateway.NewExecution(cfg.Crypto.ExecutionHost, client, 0)
	kraken := gateway.NewKraken(cfg.Crypto.KrakenURL, client, 0)

	// 2. Use cases
	opts := []usecase.Option{usecase.WithLogger(log)}
	balances := usecase.NewBalanceUseCase(l, opts...)
	payments := usecase.NewPaymentUseCase(l, l, usecase.PaymentOptions{
		CategoryName:      cfg.Payments.CategoryName,
		CategoryGroup:     cfg.Payments.CategoryGroup,
		LinkedAccountID:   cfg.Payments.LinkedAccountID,
		LookbackDays:      cfg.Payments.LookbackDays,
		StaleDays:         cfg.Payments.StaleDays,
		PaymentHistory:    cfg.Payments.PaymentHistory,
		ApproximateWindow: cfg.Payments.ApproximateWindow,
	}, opts...)

	services := jobs.Services{
		Accounts: l,
		Payments: payments,
		Sync:     usecase.NewSyncUseCase(l, l, bank, balances, opts...),
		Vehicles: usecase.NewVehicleUseCase(l, l, kbb, balances, cfg.KBB.Delay, opts...),
		Crypto:   usecase.NewCryptoUseCase(l, beacon, execution, kraken, balances, opts...),
	}

	// 3. Scheduler
	runner := jobs.NewRunner(sink, log)
	if err := services.RegisterAll(runner, jobs.Schedules{
		TrackCrypto: cfg.Schedule.TrackCrypto,
		SyncBalance: cfg.Schedule.SyncBalance,
		TrackKBB:    cfg.Schedule.TrackKBB,
	}); err != nil {
		l.Close()
		return nil, err
	}

	return &app{cfg: cfg, log: log, ledger: l, runner: runner, http: client}, nil
}

func (a *app) Close() {
	if err := a.ledger.Close(); err != nil {
		a.log.WithError(err).Warn("could not close ledger")
	}
}

// serve runs the status server until ctx ends; failures are logged.
func (a *app) serve(ctx context.Context, svc *server.Service) {
	if a.cfg.Server.Addr == "" {
		return
	}
	a.log.WithField("addr", a.cfg.Server.Addr).Info("status server listening")
	if err := svc.Serve(ctx, a.cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.log.WithError(err).Error("status server stopped")
	}
}
