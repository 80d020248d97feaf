// Package cmd is the gatehouse command line.
package cmd

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"gatehouse/internal/config/loader"
	"gatehouse/internal/config/schema"
	corelog "gatehouse/internal/core/log"
	"gatehouse/internal/version"
)

var (
	configFile string
	appEnv     string
)

var rootCmd = &cobra.Command{
	Use:   "gatehouse",
	Short: "gatehouse - identity and authorization service",
	Long: `gatehouse serves signup, login and role-based authorization over HTTP.

Quick Start:
  gatehouse serve                     Start the HTTP server
  gatehouse check --config app.yaml   Validate configuration and wiring`,
	Version:       version.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			corelog.Errorf("FATAL: main goroutine panic recovered: %v", r)
			fmt.Fprintf(os.Stderr, "\nPANIC: %v\n%s\n", r, debug.Stack())
			os.Exit(2)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file path")
	rootCmd.PersistentFlags().StringVarP(&appEnv, "env", "e", "", "Application environment, selects .env.<env>")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (*schema.Root, error) {
	return loader.NewBuilder().
		WithConfigFile(configFile).
		WithAppEnv(appEnv).
		Build().
		Load()
}
