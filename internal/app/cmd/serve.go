package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gatehouse/internal/app/server"
	"gatehouse/internal/config/source"
)

var noBanner bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Connect the configured storage drivers, wire every component and serve
the collected routes until SIGINT or SIGTERM.

Example:
  gatehouse serve --config /etc/gatehouse/config.yaml`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&noBanner, "no-banner", false, "Do not print the startup banner")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	app, err := server.NewBuilder(cfg).Build()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.Start(ctx)
	if !noBanner {
		color.NoColor = !server.ColorEnabled(os.Stdout)
		app.DisplayStartupBanner(cmd.OutOrStdout(), source.FindConfigFile(configFile))
	}
	if err := app.Serve(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
