package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vitea/chispa/internal/api"
	"github.com/vitea/chispa/version"
)

// versionInfo is the build metadata printed by `chispa version`.
type versionInfo struct {
	Release string `json:"release" yaml:"release"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	Go      string `json:"go" yaml:"go"`
}

func (v versionInfo) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "chispa %s\n  Go:     %s\n  Commit: %s\n  Date:   %s\n", v.Release, v.Go, v.Commit, v.Date)
	return err
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := versionInfo{
			Release: version.GitRelease,
			Commit:  version.GitCommit,
			Date:    version.GitCommitDate,
			Go:      version.GoInfo,
		}
		// Plain text unless a structured format was asked for explicitly.
		format := api.OutputFormatText
		if f := cmd.Flag("output"); f != nil && f.Changed {
			format = api.CurrentOutputFormat()
		}
		return api.OutputTo(cmd.OutOrStdout(), format, info)
	},
}
