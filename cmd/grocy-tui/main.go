package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/grocy-tui/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "grocy-tui: %v\n", err)
		return 1
	}
	return 0
}

type rootFlags struct {
	configPath  string
	prefsPath   string
	pollSeconds int
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "grocy-tui",
		Short: "Terminal client for Grocy master data",
		Long: `grocy-tui browses a Grocy server from the terminal and edits
quantity units and their conversions.

Settings are read from ~/.config/grocy-tui/config.toml; the API key may
also come from GROCY_API_KEY.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.Options{
				ConfigPath: flags.configPath,
				PrefsPath:  flags.prefsPath,
			}
			if flags.pollSeconds > 0 {
				opts.PollEvery = flags.pollSeconds
			}
			return app.Run(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "override config path (optional)")
	root.Flags().StringVar(&flags.prefsPath, "prefs", "", "override preferences path (optional)")
	root.Flags().IntVar(&flags.pollSeconds, "poll", 0, "change poll interval in seconds (optional, defaults to 10s)")

	root.AddCommand(newUnitsCmd(flags), newLogsCmd(flags))
	return root
}
