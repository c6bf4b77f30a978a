package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/berfenger/solardash/internal/tui"
	"github.com/berfenger/solardash/pkg/trend"

	"github.com/carlmjohnson/versioninfo"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		serverURL string
		chart     string
		timezone  string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:           "dashtui",
		Short:         "Terminal view of the solardash energy trends",
		Version:       versioninfo.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := trend.ProfileById(chart); !ok {
				return fmt.Errorf("unknown chart %q", chart)
			}
			client := tui.NewClient(serverURL, timeout)
			loc, err := resolveZone(cmd.Context(), client, timezone, timeout)
			if err != nil {
				return err
			}
			model := tui.NewModel(client, chart, tui.ClockIn(loc))
			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&serverURL, "server", "s", "http://localhost:8080", "solardash API base URL")
	cmd.Flags().StringVarP(&chart, "chart", "c", trend.PROFILE_GENERATION, "chart shown first (generation, powercut)")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA zone of the server's calendar days (asked to the server when empty)")
	cmd.Flags().DurationVar(&timeout, "timeout", tui.FETCH_TIMEOUT, "HTTP request timeout")
	return cmd
}

// resolveZone prefers the flag, then the server's zone, then the local one.
func resolveZone(ctx context.Context, client *tui.Client, name string, timeout time.Duration) (*time.Location, error) {
	if name != "" {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("invalid --timezone: %w", err)
		}
		return loc, nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	loc, err := client.TimeZone(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: using local time zone:", err)
		return time.Local, nil
	}
	return loc, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
