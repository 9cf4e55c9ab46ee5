package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/npm-release/pkg/cli/config"
	controller "github.com/m-mizutani/npm-release/pkg/controller/http"
	"github.com/m-mizutani/npm-release/pkg/infra/npm"
	"github.com/m-mizutani/npm-release/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg  config.Server
		releaseCfg config.Release
	)

	flags := serverCfg.Flags()
	for _, f := range releaseCfg.Flags() {
		if f.Names()[0] == "npmrc" {
			flags = append(flags, f)
		}
	}

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Serve the lifecycle steps of one release run over HTTP",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := slog.Default()

			logger.Info("Starting npm-release plugin server",
				slog.String("addr", serverCfg.Addr),
				slog.Bool("signature", serverCfg.Secret != ""),
			)

			lifecycleUC := usecase.NewLifecycle(npm.NewClient(), releaseCfg.Npmrc())

			server, err := controller.NewServer(
				ctx,
				lifecycleUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithSecret(serverCfg.Secret),
				controller.WithLogger(logger),
				controller.WithOutput(os.Stderr, os.Stderr),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
