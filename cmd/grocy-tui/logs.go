package main

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/five82/grocy-tui/internal/config"
	"github.com/five82/grocy-tui/internal/logtail"
)

func newLogsCmd(flags *rootFlags) *cobra.Command {
	var (
		lines     int
		requestID string
		component string
		level     string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the end of the grocy-tui log",
		Long: `Show the end of the grocy-tui log. Failed saves log the full error
with the request id that was sent to Grocy; filter by it with --request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			filter := logtail.Filter{RequestID: requestID, Component: component}
			if level != "" {
				var lvl slog.Level
				if err := lvl.UnmarshalText([]byte(level)); err != nil {
					return fmt.Errorf("invalid --level %q", level)
				}
				filter.MinLevel = lvl
			}
			entries, err := logtail.Tail(cfg.LogFile, lines, filter)
			if err != nil {
				return err
			}
			printEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 200, "number of log lines to scan (0 reads the whole file)")
	cmd.Flags().StringVar(&requestID, "request", "", "only entries with this request id")
	cmd.Flags().StringVar(&component, "component", "", "only entries from this component")
	cmd.Flags().StringVar(&level, "level", "", "minimum level (debug, info, warn, error)")
	return cmd
}

func printEntries(w io.Writer, entries []logtail.Entry) {
	for _, e := range entries {
		fmt.Fprintln(w, formatEntry(e))
	}
}

func formatEntry(e logtail.Entry) string {
	if e.Level == "" {
		return e.Raw
	}
	levelStyle := pterm.NewStyle(pterm.FgLightBlue)
	switch e.Level {
	case "WARN":
		levelStyle = pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	case "ERROR":
		levelStyle = pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case "DEBUG":
		levelStyle = pterm.NewStyle(pterm.FgGray)
	}

	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(pterm.Gray(e.Time))
	b.WriteString(" ")
	b.WriteString(levelStyle.Sprintf("%-5s", e.Level))
	b.WriteString(" ")
	b.WriteString(e.Msg)
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(pterm.Cyan(k + "="))
		b.WriteString(e.Attrs[k])
	}
	return b.String()
}
