package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kataras/chili-themer/pkg/config"
	"github.com/kataras/chili-themer/pkg/server"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		addr     string
		cfgFile  string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the themer over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(logLevel)

			cfg := &config.Config{DefaultTheme: "default"}
			if cfgFile != "" {
				loaded, err := config.Load(cfgFile)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			builder, err := config.NewBuilder(cfg)
			if err != nil {
				return err
			}
			defer builder.Close()

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(cfg, builder, logger).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}()

			logger.Info("Starting server", "addr", addr, "conversions", len(cfg.Conversions))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Listen address")
	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "YAML or JSON config file")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	return cmd
}

// newLogger writes text logs to stderr, renaming the "error" key to "err".
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}
