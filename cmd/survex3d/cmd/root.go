package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/survex3d/pkg/config"
	"github.com/ssargent/survex3d/pkg/di"
	"github.com/ssargent/survex3d/pkg/img3d"
)

var (
	container *di.Container
	logger    = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// SetContainer sets the dependency injection container
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "survex3d",
	Short: "survex3d - Survex 3D image file reader",
	Long: `survex3d decodes Survex 3D image files (version 8) into survey legs,
stations, cross-sections and dates, and can archive them behind a REST API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		if level == "" {
			level = configuredLogLevel(cmd)
		}
		lvl, err := config.Logging{Level: level}.SlogLevel()
		if err != nil {
			return err
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: ~/.config/survex3d/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (default from config, else info)")
}

// configPath resolves the --config flag to a path
func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.GetDefaultConfigPath()
	}
	return path
}

// configuredLogLevel reads the level from an existing config file, if any
func configuredLogLevel(cmd *cobra.Command) string {
	path := configPath(cmd)
	if !config.ConfigExists(path) {
		return ""
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return ""
	}
	return cfg.Logging.Level
}

// readSurveyFile reads and decodes a 3D file from disk
func readSurveyFile(path string) (img3d.Header, img3d.Records, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return img3d.Header{}, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	logger.Debug("decoding file", "path", path, "bytes", len(raw))

	header, records, err := img3d.DecodeFile(raw)
	if err != nil {
		return img3d.Header{}, nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if unknown := records.Filter(img3d.KindUnknown); len(unknown) > 0 {
		logger.Warn("file contains unknown opcodes",
			"path", path,
			"count", len(unknown),
			"first_opcode", fmt.Sprintf("0x%02X", unknown[0].(img3d.Unknown).Opcode))
	}
	return header, records, nil
}
