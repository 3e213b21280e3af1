package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/Veraticus/macro-log/internal/api"
	"github.com/Veraticus/macro-log/internal/certs"
	"github.com/Veraticus/macro-log/internal/common"
	"github.com/Veraticus/macro-log/internal/config"
	"github.com/Veraticus/macro-log/internal/llm"
	"github.com/Veraticus/macro-log/internal/service"
	"github.com/Veraticus/macro-log/internal/strava"
	httptransport "github.com/Veraticus/macro-log/internal/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the meal log API used by the web app.

Meal analysis and Strava activity are enabled when their credentials are
configured; otherwise those endpoints answer 503.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	cmd.Flags().String("allowed-origin", "", "browser origin allowed by CORS")
	_ = viper.BindPFlag("server.address", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.allowed_origin", cmd.Flags().Lookup("allowed-origin"))

	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed certificate")
	cmd.Flags().StringSlice("tls-host", nil, "extra hostname or IP the certificate must cover")
	_ = viper.BindPFlag("server.tls", cmd.Flags().Lookup("tls"))
	_ = viper.BindPFlag("server.tls_hosts", cmd.Flags().Lookup("tls-host"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	analyzer, closeAnalyzer := optionalAnalyzer(logger)
	defer closeAnalyzer()
	activity := optionalActivity(ctx, logger)

	mux := http.NewServeMux()
	api.NewHandler(store, analyzer, activity, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	serverCfg := config.LoadServerConfig()
	server := httptransport.NewServer(serverCfg,
		httptransport.Instrument(logger, httptransport.CORS(serverCfg.AllowedOrigin, mux)))

	useTLS := viper.GetBool("server.tls")
	if useTLS {
		tlsCfg, err := certs.NewStore(filepath.Join(config.Dir(), "certs"), viper.GetStringSlice("server.tls_hosts")...).TLSConfig()
		if err != nil {
			return fmt.Errorf("failed to prepare certificate: %w", err)
		}
		server.TLSConfig = tlsCfg
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("macrolog listening", "address", serverCfg.Address, "tls", useTLS)
		var err error
		if useTLS {
			err = server.ListenAndServeTLS("", "")
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("macrolog stopped")
	return nil
}

// optionalAnalyzer returns nil when no LLM credentials are configured.
func optionalAnalyzer(logger *slog.Logger) (service.MealAnalyzer, func()) {
	cfg, err := config.LoadLLMConfig()
	if err != nil {
		logMissing(logger, "meal analysis", err)
		return nil, func() {}
	}

	client, err := llm.NewClient(cfg, logger)
	if err != nil {
		logMissing(logger, "meal analysis", err)
		return nil, func() {}
	}
	return client, func() { _ = client.Close() }
}

// optionalActivity returns nil when Strava is not configured.
func optionalActivity(ctx context.Context, logger *slog.Logger) service.ActivityProvider {
	cfg, err := config.LoadStravaConfig()
	if err != nil {
		logMissing(logger, "strava", err)
		return nil
	}

	client, err := strava.NewClient(ctx, cfg, logger)
	if err != nil {
		logMissing(logger, "strava", err)
		return nil
	}
	return client
}

func logMissing(logger *slog.Logger, feature string, err error) {
	if errors.Is(err, common.ErrMissingConfig) {
		logger.Info(feature+" disabled", "reason", err.Error())
		return
	}
	logger.Warn(feature+" disabled", "error", err)
}
