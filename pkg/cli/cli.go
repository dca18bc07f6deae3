package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-typefight/pkg/config"
	"go-typefight/pkg/engine"
	"go-typefight/pkg/logging"
	"go-typefight/pkg/server"
	"go-typefight/pkg/tui"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

type options struct {
	configPath string
	logLevel   string
	addr       string
	logFile    string
	tick       time.Duration
}

// NewRootCmd creates the typefight command with its serve and play subcommands
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "typefight",
		Short:         "A typing game where words are the enemies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level, overrides the config (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd(opts), newPlayCmd(opts))
	return cmd
}

func newServeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve game rooms over HTTP and WebSocket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address, overrides the config")
	return cmd
}

func newPlayCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a local game in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			// The terminal belongs to the game, so logs only go to a file
			logger := logging.Discard()
			if opts.logFile != "" {
				file, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return errors.Wrap(err, "open log file")
				}
				defer file.Close()
				if logger, err = logging.NewWithWriter(file, cfg.Logging.Level, cfg.Logging.Format); err != nil {
					return err
				}
			}

			eng, err := engine.New(engine.Options{Config: cfg.Engine(), Logger: logger})
			if err != nil {
				return err
			}
			return tui.Run(eng, opts.tick)
		},
	}
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	cmd.Flags().DurationVar(&opts.tick, "tick", 50*time.Millisecond, "Interval between frames")
	return cmd
}

func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	return cfg, nil
}

// serve runs the game server until ctx is done, then shuts it down gracefully
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	srv := server.NewServer(*cfg, logger)
	defer srv.Close()

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(),
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "addr", cfg.Server.Addr)
		errs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}
