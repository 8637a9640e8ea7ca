// =============================================================================
// Monthly Transaction Report - Serve Command
// =============================================================================
//
// This file defines the 'serve' command, which exposes the pipeline as a
// local REST API:
//
//   GET  /health   -> {"status":"ok"}
//   POST /run      -> {"month":"YYYY-MM","input":"...","send_email":true}
//   GET  /metrics  -> Prometheus exposition
//
// The configuration file is watched; edits take effect for the next
// request without a restart. A reload that fails validation is logged and
// the previous configuration stays in effect.
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/txn-monthly-report/internal/api"
	"github.com/ginjaninja78/txn-monthly-report/internal/config"
	"github.com/ginjaninja78/txn-monthly-report/pkg/utils"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

var (
	serveAddr   string
	serveOutput string
)

// serveCmd represents the 'serve' command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local REST API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr)")
	serveCmd.Flags().StringVar(&serveOutput, "output", "", "Base output directory (default: output_dir)")
}

func runServe(cmd *cobra.Command) error {
	loader, err := config.NewLoader(cfgFile)
	if err != nil {
		return err
	}
	cfg := loader.Config()
	log := newLogger(cfg)

	outputFor := func(c *config.MainConfig) string {
		if serveOutput != "" {
			return serveOutput
		}
		return c.OutputDir
	}

	handler := api.New(api.Options{
		Runner:         newPipeline(cfg, outputFor(cfg), log),
		DefaultInput:   cfg.InputPath,
		RequestTimeout: cfg.Server.RequestTimeout,
		Logger:         log,
	})

	loader.OnChange(func(c *config.MainConfig) {
		handler.Swap(newPipeline(c, outputFor(c), log), c.InputPath)
		log.Info().Str("config", cfgFile).Msg("Configuration reloaded")
	})

	if utils.FileExists(cfgFile) {
		stop, err := loader.Watch(func(err error) {
			log.Warn().Err(err).Msg("Configuration reload failed; keeping previous configuration")
		})
		if err != nil {
			log.Warn().Err(err).Msg("Configuration hot reload disabled")
		} else {
			defer stop()
		}
	}

	if !utils.FileExists(cfg.InputPath) {
		log.Warn().Str("input", cfg.InputPath).Msg("Default input file not found; /run requests must name an input")
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Starting report API")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}
