package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/beamtools/beamtrace/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON-RPC analysis service over stdin/stdout",
	Long: `Run the JSON-RPC analysis service over stdin/stdout.

Intended for beamline orchestrators that process measurements as they are
translated: one request per line on stdin, one response per line on stdout,
logs on stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		infof("beamtrace service %s listening on stdin", Version)
		return service.New(cfg, Version).Run(os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
