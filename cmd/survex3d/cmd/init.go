package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssargent/survex3d/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a survex3d configuration file",
	Long: `Create a configuration file with a freshly generated API key.

The file is written with 0600 permissions. An existing file is left alone
unless --force is given.

Examples:
  survex3d init
  survex3d init --config ./survex3d.yaml --data-dir ./archive --print-key`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		force, _ := cmd.Flags().GetBool("force")
		printKey, _ := cmd.Flags().GetBool("print-key")
		path := configPath(cmd)

		if config.ConfigExists(path) && !force {
			cmd.Printf("Configuration already exists at %s. Use --force to replace it.\n", path)
			return nil
		}

		cfg, err := config.BootstrapConfig(path, dataDir)
		if err != nil {
			return fmt.Errorf("failed to bootstrap config: %w", err)
		}
		logger.Info("configuration created", "path", path, "data_dir", cfg.DataDir)

		cmd.Printf("✅ Configuration created at %s\n", path)
		cmd.Printf("Data directory: %s\n", cfg.DataDir)
		if printKey {
			cmd.Printf("API key: %s\n", cfg.Security.APIKey)
		}
		cmd.Printf("\nYou can now start the server with:\n")
		cmd.Printf("  survex3d serve --config %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringP("data-dir", "d", "./data", "Data directory for the survey archive")
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
	initCmd.Flags().Bool("print-key", false, "Print the generated API key")
}
