package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cassiomorais/billing/internal/billing"
	"github.com/cassiomorais/billing/internal/bootstrap"
	"github.com/cassiomorais/billing/internal/exchange"
	"github.com/cassiomorais/billing/internal/gateway"
	infraRedis "github.com/cassiomorais/billing/internal/infrastructure/redis"
	"github.com/cassiomorais/billing/internal/ops"
	"github.com/cassiomorais/billing/internal/repository/postgres"
	"github.com/cassiomorais/billing/internal/scheduler"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, "billingd", "billing")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Collaborators ---
	invoiceRepo := postgres.NewInvoiceRepository(app.Pool)
	customerRepo := postgres.NewCustomerRepository(app.Pool)
	converter := exchange.NewFixedRateConverter(nil)
	locker := infraRedis.NewChargeLocker(app.Redis, app.Config.Billing.LockTTL)
	publisher := infraRedis.NewStreamPublisher(app.Redis)

	// The mock gateway stands in for the real provider integration; its
	// failure rates make every classification path reachable in demos.
	paymentGateway := gateway.NewBreakerGateway(
		gateway.NewMockGateway("mock-provider",
			gateway.WithLatency(200*time.Millisecond),
			gateway.WithDeclineRate(0.05),
			gateway.WithNetworkFailureRate(0.02),
			gateway.WithCurrencyMismatchRate(0.02),
			gateway.WithCustomerNotFoundRate(0.01),
		),
		gateway.DefaultBreakerSettings(),
	)

	// --- Billing service ---
	billingCfg := app.Config.Billing
	svc := billing.NewService(billing.Deps{
		Invoices:  invoiceRepo,
		Customers: customerRepo,
		Gateway:   paymentGateway,
		Converter: converter,
		Locker:    locker,
		Events:    publisher,
		Metrics:   app.Metrics,
		Logger:    app.Logger,
	}, billing.Config{
		MaxRetries:        billingCfg.MaxRetries,
		RetryBackoff:      billingCfg.RetryBackoff,
		ChargeConcurrency: billingCfg.ChargeConcurrency,
	})

	// --- Scheduler ---
	sched, err := scheduler.New(billingCfg.SchedulerCron, svc.ChargePending, app.Logger)
	if err != nil {
		app.Logger.Fatal().Err(err).Msg("Failed to create scheduler")
	}

	// --- Ops HTTP server ---
	router := ops.NewRouter(ops.RouterDeps{Pool: app.Pool, Redis: app.Redis})
	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Logger.Info().Str("addr", addr).Msg("Starting ops HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("ops server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := sched.Start(gCtx); err != nil {
			return err
		}
		if billingCfg.RunOnStart {
			app.Logger.Info().Msg("Running initial batch pass")
			svc.ChargePending(gCtx)
		}
		<-gCtx.Done()
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				app.Metrics.CircuitBreakerState.
					WithLabelValues(paymentGateway.Name()).
					Set(float64(paymentGateway.State()))
			}
		}
	})

	g.Go(func() error {
		select {
		case <-gCtx.Done():
			return gCtx.Err()
		case <-quit:
			app.Logger.Info().Msg("Shutting down...")
			cancel()
			return nil
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		app.Logger.Error().Err(err).Msg("Run group error")
	}

	// Let the current cron job and any in-flight HTTP requests drain.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer shutdownCancel()

	select {
	case <-sched.Stop().Done():
	case <-shutdownCtx.Done():
		app.Logger.Warn().Msg("Scheduler did not drain in time")
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error().Err(err).Msg("Ops server forced to shutdown")
	}
	app.Logger.Info().Msg("Exited")
}
