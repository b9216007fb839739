/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/skybrush-io/skyb-go/pkg/config"
	"github.com/skybrush-io/skyb-go/pkg/container"
	"github.com/skybrush-io/skyb-go/pkg/trajectory"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "skyc",
	Short: "skyc - drone show trajectory inspector",
	Long: `skyc inspects compiled drone show files in the skyb binary
container format: it lists blocks, samples trajectories and computes
takeoff and landing statistics.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		setupLogging(cfg.Logging.Level)

		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			return fmt.Errorf("no input file given, use --file")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read show file: %w", err)
		}
		reader, err := container.NewReaderFromBytes(data)
		if err != nil {
			return fmt.Errorf("failed to parse show file: %w", err)
		}
		slog.Debug("show file loaded", "path", path, "size", len(data), "version", reader.Version())

		ctx := context.WithValue(cmd.Context(), readerKey, reader)
		ctx = context.WithValue(ctx, configKey, cfg)
		cmd.SetContext(ctx)
		return nil
	},
}

type contextKey string

const (
	readerKey contextKey = "reader"
	configKey contextKey = "config"
)

// readerFromContext returns the container reader opened by the root command.
func readerFromContext(cmd *cobra.Command) (*container.Reader, error) {
	reader, ok := cmd.Context().Value(readerKey).(*container.Reader)
	if !ok {
		return nil, fmt.Errorf("show file not loaded")
	}
	return reader, nil
}

func configFromContext(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey).(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}

// loadTrajectory locates and parses the trajectory block of the show file.
func loadTrajectory(cmd *cobra.Command) (*trajectory.Trajectory, error) {
	reader, err := readerFromContext(cmd)
	if err != nil {
		return nil, err
	}
	block, err := reader.Find(container.BlockTrajectory)
	if err != nil {
		return nil, fmt.Errorf("failed to locate trajectory block: %w", err)
	}
	body, err := reader.ReadBodyBytes(block)
	if err != nil {
		return nil, fmt.Errorf("failed to read trajectory block: %w", err)
	}
	traj, err := trajectory.FromBlock(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse trajectory: %w", err)
	}
	return traj, nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.GetDefaultConfigPath()
		if !config.ConfigExists(path) {
			return config.DefaultConfig(), nil
		}
	}
	return config.LoadConfig(path)
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("file", "f", "", "Compiled show file in skyb format")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file (defaults to ~/.config/skyc/config.yaml)")
}
