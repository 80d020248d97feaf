package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gatehouse/internal/app/server"
	corelog "gatehouse/internal/core/log"
	"gatehouse/internal/wiring"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and the wiring graph",
	Long: `Load the configuration, open the storage drivers and resolve every
component without connecting anything. Prints the component graph and the
route table, or every unmet requirement.

Example:
  gatehouse check --env production`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	app, err := server.NewBuilder(cfg).WithLogger(corelog.NewNopLogger()).Build()
	if err != nil {
		var report *wiring.Report
		if errors.As(err, &report) {
			for _, e := range report.Errors {
				fmt.Fprintf(out, "  ✗ %s\n", e.Error())
			}
			return errors.New(wiring.FailureMessage)
		}
		return err
	}
	defer app.Close()

	components := app.Components()
	for _, k := range []wiring.Kind{wiring.KindRepository, wiring.KindService, wiring.KindHandlerGroup} {
		fmt.Fprintf(out, "%s:\n", k)
		for _, name := range components[k] {
			fmt.Fprintf(out, "  ✓ %s\n", name)
		}
	}

	fmt.Fprintf(out, "routes (%d):\n", len(app.Routes()))
	for _, r := range app.Routes() {
		fmt.Fprintf(out, "  %-6s %s\n", r.Method, r.FullPath)
	}
	return nil
}
