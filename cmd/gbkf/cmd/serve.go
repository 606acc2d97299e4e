/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gbkf/gbkf-go/pkg/api"
	"github.com/gbkf/gbkf-go/pkg/archive"
	"github.com/gbkf/gbkf-go/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the GBKF REST API server",
	Long: `Start the REST API server backed by the document archive.

On first run a configuration file with a generated API key is written
to the config path. Flags override values from the configuration file.

Examples:
  gbkf serve
  gbkf serve --config ./gbkf.yaml --port 9000
  gbkf serve --api-key mysecretkey --archive-dir ./archive`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		cfg, err := loadOrBootstrapConfig(cmd, configPath)
		if err != nil {
			return err
		}

		// Flags override the config file.
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			cfg.Bind, _ = cmd.Flags().GetString("bind")
		}
		if cmd.Flags().Changed("archive-dir") {
			cfg.ArchiveDir, _ = cmd.Flags().GetString("archive-dir")
		}
		if cmd.Flags().Changed("api-key") {
			cfg.Security.APIKey, _ = cmd.Flags().GetString("api-key")
		}

		if cfg.Security.APIKey == "" || cfg.Security.APIKey == "auto" {
			return fmt.Errorf("no API key configured (set security.api_key in %s or pass --api-key)", configPath)
		}

		store, err := archive.Open(cfg.ArchiveDir)
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		defer store.Close()

		serverConfig := api.ServerConfig{
			Port:            cfg.Port,
			Bind:            cfg.Bind,
			APIKey:          cfg.Security.APIKey,
			MaxDocumentSize: cfg.Security.MaxDocumentSize,
		}

		return api.StartServer(store, serverConfig)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("config", "", "Path to the configuration file")
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to")
	serveCmd.Flags().String("archive-dir", "", "Directory for the document archive")
	serveCmd.Flags().String("api-key", "", "API key for authentication")
}

// loadOrBootstrapConfig loads the config file, creating one with a
// generated API key on first run.
func loadOrBootstrapConfig(cmd *cobra.Command, configPath string) (*config.Config, error) {
	if config.ConfigExists(configPath) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}

	archiveDir, _ := cmd.Flags().GetString("archive-dir")
	cfg, err := config.BootstrapConfig(configPath, archiveDir)
	if err != nil {
		return nil, fmt.Errorf("failed to bootstrap config: %w", err)
	}
	cmd.Printf("Created %s with a generated API key\n", configPath)
	return cfg, nil
}
