package main

import (
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"github.com/five82/grocy-tui/internal/app"
	"github.com/five82/grocy-tui/internal/grocy"
	"github.com/five82/grocy-tui/internal/masterdata"
)

func newUnitsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "List quantity units and their conversions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, cfg, err := app.Fetch(cmd.Context(), flags.configPath,
				grocy.KindQuantityUnits, grocy.KindQuantityUnitConversions)
			if err != nil {
				return err
			}
			p := message.NewPrinter(cfg.Language())
			return renderUnits(cmd.OutOrStdout(), snap.Units, snap.Conversions, p)
		},
	}
}

// unitsTable builds the table rows, header first.
func unitsTable(units []grocy.QuantityUnit, convs []grocy.QuantityUnitConversion, p *message.Printer) pterm.TableData {
	data := pterm.TableData{{"ID", "Name", "Plural", "Description", "1 unit is the same as"}}
	for _, u := range units {
		var labels []string
		for _, row := range masterdata.ConversionsFrom(u.ID, convs, units, p) {
			labels = append(labels, row.Label)
		}
		data = append(data, []string{
			strconv.Itoa(u.ID),
			u.Name,
			u.NamePlural,
			u.Description,
			strings.Join(labels, ", "),
		})
	}
	return data
}

func renderUnits(w io.Writer, units []grocy.QuantityUnit, convs []grocy.QuantityUnitConversion, p *message.Printer) error {
	if len(units) == 0 {
		pterm.Info.WithWriter(w).Println("No quantity units.")
		return nil
	}
	return pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithData(unitsTable(units, convs, p)).
		WithWriter(w).
		Render()
}
