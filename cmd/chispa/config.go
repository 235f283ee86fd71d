package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vitea/chispa/internal/api"
	"github.com/vitea/chispa/internal/config"
	"github.com/vitea/chispa/internal/home"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the chispa config file",
	Long: `Manage the chispa config file.

The config lives at ./config.yaml or ~/.chispa/config.yaml unless --config
points elsewhere. API keys may reference environment variables as ${NAME}.

Examples:
  chispa config init            # Write defaults to ~/.chispa/config.yaml
  chispa config init --force    # Overwrite an existing file
  chispa config show -o json    # Print the effective config`,
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := getHome()
		if err != nil {
			return err
		}

		path := cfgFile
		if path == "" {
			if err := h.EnsureExists(); err != nil {
				return err
			}
			path = h.ConfigPath()
		}

		if !configInitForce && fileExists(path) {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}

		fmt.Printf("Wrote default config to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config (file, env and defaults merged)",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := getHome()
		if err != nil {
			return err
		}

		path := cfgFile
		if path == "" && h.ConfigExists() {
			path = h.ConfigPath()
		}
		mgr, err := config.NewManager(path)
		if err != nil {
			return err
		}

		cfg := *mgr.Get()
		cfg.Providers = make(map[string]config.ProviderCfg, len(mgr.Get().Providers))
		for name, p := range mgr.Get().Providers {
			p.APIKey = maskKey(p.APIKey)
			cfg.Providers[name] = p
		}
		return api.Output(cfg)
	},
}

// maskKey hides literal API keys. Environment references stay readable.
func maskKey(key string) string {
	if key == "" || strings.HasPrefix(key, "${") {
		return key
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}

func getHome() (*home.Dir, error) {
	return home.New(homeDir)
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
