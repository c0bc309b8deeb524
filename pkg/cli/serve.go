package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/truevoice/pkg/cli/config"
	httpctrl "github.com/secmon-lab/truevoice/pkg/controller/http"
	"github.com/secmon-lab/truevoice/pkg/service/worker"
	"github.com/secmon-lab/truevoice/pkg/usecase"
	"github.com/secmon-lab/truevoice/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var repoCfg config.Repository
	var speechCfg config.Speech
	var challengeCfg config.Challenge

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("TRUEVOICE_ADDR"),
			Destination: &addr,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, speechCfg.Flags()...)
	flags = append(flags, challengeCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			matcher, err := speechCfg.Matcher()
			if err != nil {
				return goerr.Wrap(err, "failed to configure speaker matcher")
			}

			transcriber, err := speechCfg.Transcriber()
			if err != nil {
				return goerr.Wrap(err, "failed to configure transcriber")
			}

			phrases, err := challengeCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure challenge phrases")
			}

			logging.Default().Info("Speech configuration", "speech", speechCfg, "challenge", challengeCfg)

			ucOpts := []usecase.Option{
				usecase.WithEmbedder(matcher),
				usecase.WithChallengeTTL(challengeCfg.TTL()),
			}
			if transcriber != nil {
				ucOpts = append(ucOpts, usecase.WithTranscriber(transcriber))
				logging.Default().Info("Transcription enabled, secure verification available")
			} else {
				logging.Default().Warn("No OpenAI API key configured, secure verification is disabled")
			}

			uc := usecase.New(repo, speechCfg.Transcoder(), matcher, phrases, ucOpts...)

			// Purge expired challenges in the background
			sweeper := worker.NewChallengeSweeper(repo, challengeCfg.SweepInterval())
			if err := sweeper.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start challenge sweeper")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				sweeper.Stop()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				sweeper.Stop()

				// Create shutdown context with timeout
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				// Attempt graceful shutdown
				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
