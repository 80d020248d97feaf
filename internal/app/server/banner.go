package server

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"gatehouse/internal/version"
)

const bannerWidth = 60

var (
	bannerCyan  = color.New(color.FgCyan).SprintFunc()
	bannerBold  = color.New(color.Bold).SprintFunc()
	bannerGreen = color.New(color.FgGreen).SprintFunc()
	bannerRed   = color.New(color.FgRed).SprintFunc()
	bannerFaint = color.New(color.Faint).SprintFunc()
)

// ColorEnabled reports whether f is a terminal that should get colours.
func ColorEnabled(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// DisplayStartupBanner prints the process summary to w. Colours follow
// color.NoColor, which callers set from ColorEnabled.
func (a *App) DisplayStartupBanner(w io.Writer, configPath string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s  %s\n", bannerCyan(bannerBold("gatehouse")), bannerFaint(version.GetVersion()))
	fmt.Fprintln(w)

	section(w, "Server")
	if configPath == "" {
		configPath = "(defaults and environment)"
	}
	rows := []struct{ label, value string }{
		{"Address", "http://" + a.http.Addr()},
		{"Route Prefix", orNone(a.cfg.Server.RoutePrefix)},
		{"Config File", configPath},
		{"Start Time", time.Now().Format("2006-01-02 15:04:05")},
		{"Routes", fmt.Sprintf("%d", len(a.routes))},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %-22s %s\n", bannerBold(row.label+":"), row.value)
	}
	fmt.Fprintln(w)

	section(w, "Storage Drivers")
	for _, st := range a.storage.Status() {
		mark := bannerRed("✗ " + st.State)
		if st.Ready {
			mark = bannerGreen("✓ " + st.State)
		}
		fmt.Fprintf(w, "  %-22s %s\n", bannerBold(st.Name+":"), mark)
	}
	fmt.Fprintln(w)

	section(w, "Routes")
	for _, r := range a.routes {
		fmt.Fprintf(w, "  %-8s %-32s %s\n", r.Method, r.FullPath, bannerFaint(r.Group))
	}
	fmt.Fprintln(w, bannerFaint("  "+strings.Repeat("━", bannerWidth)))
	fmt.Fprintln(w)
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w, bannerBold("  "+title))
	fmt.Fprintln(w, bannerFaint("  "+strings.Repeat("─", bannerWidth)))
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
