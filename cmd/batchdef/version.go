package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/batchdef/internal/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type versionJSON struct {
	Version    string   `json:"version"`
	Commit     string   `json:"commit"`
	Built      string   `json:"built"`
	GoVersion  string   `json:"go_version"`
	Extensions []string `json:"definition_extensions"`
}

func newVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display build information and supported definition formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := versionJSON{
				Version:    version,
				Commit:     commit,
				Built:      date,
				GoVersion:  runtime.Version(),
				Extensions: config.SupportedExtensions(),
			}

			if jsonOutput {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(info)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "batchdef %s\ncommit: %s\nbuilt: %s\n", info.Version, info.Commit, info.Built)
			fmt.Fprintf(out, "go: %s\n", info.GoVersion)
			fmt.Fprintf(out, "definition files: %s\n", strings.Join(info.Extensions, ", "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output build information as JSON")

	return cmd
}
