package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"example.com/storefront/internal/config"
	"example.com/storefront/internal/infra/graphql"
	"example.com/storefront/internal/infra/logging"
	"example.com/storefront/internal/infra/metrics"
	apphttp "example.com/storefront/internal/interface/http"
	"example.com/storefront/internal/interface/tui"
	cartuc "example.com/storefront/internal/usecase/cart"
	cataloguc "example.com/storefront/internal/usecase/catalog"
	"example.com/storefront/internal/usecase/checkout"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Egg shop storefront and GraphQL forwarding proxy",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Browse the catalog, fill a cart and check out in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return runShop(cfg)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the GraphQL forwarding proxy",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return runServe(cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.AddCommand(shopCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runShop(cfg *config.Config) error {
	// The terminal belongs to the UI, so shop logs go to a file.
	logger, err := logging.New(cfg.LogLevel, cfg.LogFile, "storefront-shop")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client := graphql.NewClient(cfg.BackendURL, cfg.RequestTimeout, graphql.WithLogger(logger))

	reg := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(reg)
	if cfg.MetricsAddr != "" {
		srv := metrics.NewServer(cfg.MetricsAddr, reg)
		go func() {
			logger.Info("metrics listening", zap.String("addr", cfg.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", zap.Error(err))
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	checkoutSvc := checkout.NewService(client, logger, checkoutMetrics, checkout.Config{
		CashDismissDelay:       cfg.CashDismissDelay,
		OnlineDismissDelay:     cfg.OnlineDismissDelay,
		MaxConcurrentPurchases: cfg.MaxConcurrentPurchases,
	})

	model := tui.NewModel(
		cataloguc.NewService(client, logger),
		cartuc.NewService(logger),
		checkoutSvc,
		tui.Options{RequestTimeout: cfg.RequestTimeout, Logger: logger},
	)

	logger.Info("storefront started", zap.String("backend", cfg.BackendURL))
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run storefront: %w", err)
	}
	return nil
}

func runServe(cfg *config.Config) error {
	logger, err := logging.New(cfg.LogLevel, "stderr", "storefront-proxy")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	api := apphttp.NewAPI(apphttp.Dependencies{
		BackendURL:     cfg.BackendURL,
		BackendLabel:   cfg.BackendLabel(),
		Environment:    cfg.Environment,
		Logger:         logger,
		Metrics:        metrics.NewServerMetrics(reg, "proxy"),
		MetricsHandler: metrics.Handler(reg),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * cfg.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("proxy listening",
			zap.String("addr", srv.Addr),
			zap.String("backend", cfg.BackendLabel()),
			zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down proxy")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("proxy exited")
	return nil
}
