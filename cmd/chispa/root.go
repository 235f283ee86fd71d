package main

import (
	"github.com/spf13/cobra"

	"github.com/vitea/chispa/internal/api"
	"github.com/vitea/chispa/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "chispa",
	Short: "Papi Chispa's tarot reading server",
	Long: `Chispa serves tarot readings in the voice of Papi Chispa, a flirtatious
Latino tarot reader.

A reading draws distinct cards for a question and enriches each card with:
  - A short narrative from the text provider
  - An illustration from the image provider

The same question and spread always get the same cards for the life of the
server, so cards can be fetched one at a time or all together.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.chispa/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "chispa home directory (default: ~/.chispa)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml, json or text",
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		f, err := api.ParseOutputFormat(outputFormat)
		if err != nil {
			return err
		}
		api.SetOutputFormat(string(f))
		return nil
	}

	rootCmd.AddCommand(versionCmd)
}
