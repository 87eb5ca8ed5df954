package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpupo63/portfolio-site/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := map[string]string{}

	cmd := &cobra.Command{
		Use:           "portfolio",
		Short:         "Portfolio site: Content API, presentation server and admin tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			for k, v := range loaded {
				cfg[k] = v
			}
			return nil
		},
	}

	cmd.AddCommand(
		newAPICmd(cfg),
		newWebCmd(cfg),
		newMigrateCmd(cfg),
		newGenerateCmd(cfg),
		newTokenCmd(cfg),
	)
	return cmd
}

// loadConfig snapshots .env and the environment, then overlays SSM parameters
// when SSM_PARAMETER_PATH is set.
func loadConfig(ctx context.Context) (map[string]string, error) {
	c := config.Load()

	level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	parameterPath := config.GetString(c, "SSM_PARAMETER_PATH", "")
	if parameterPath == "" {
		return c, nil
	}
	source, err := config.NewSSMSource(ctx, config.GetString(c, "AWS_REGION", ""))
	if err != nil {
		return nil, err
	}
	applied, err := config.OverlaySSM(ctx, c, source, parameterPath)
	if err != nil {
		return nil, err
	}
	log.Info().Int("parameters", applied).Str("path", parameterPath).Msg("Loaded configuration from SSM")
	return c, nil
}

type server interface {
	Start(errChannel chan<- error)
	ShutdownGracefully(timeout time.Duration)
}

// serve runs s until it fails or the process is interrupted.
func serve(s server) error {
	errChannel := make(chan error, 2)

	go s.Start(errChannel)
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	s.ShutdownGracefully(30 * time.Second)
	return nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
