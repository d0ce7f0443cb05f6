package masterdata

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/five82/grocy-tui/internal/grocy"
)

// ConversionRow is one conversion as listed under its source unit.
type ConversionRow struct {
	Conversion grocy.QuantityUnitConversion
	Label      string
	// Resolved is false when the destination unit is missing from the
	// snapshot and the label fell back to the conversion id.
	Resolved bool
}

// ConversionsFrom returns the conversions whose FromQuID is unitID, in
// snapshot order, labelled "<factor> <destination unit name>".
func ConversionsFrom(unitID int, conversions []grocy.QuantityUnitConversion, units []grocy.QuantityUnit, p *message.Printer) []ConversionRow {
	var rows []ConversionRow
	for _, c := range conversions {
		if c.FromQuID != unitID {
			continue
		}
		label, ok := ConversionLabel(c, units, p)
		rows = append(rows, ConversionRow{Conversion: c, Label: label, Resolved: ok})
	}
	return rows
}

// ConversionLabel renders c. An unknown destination unit is shown by the
// conversion's own id instead of failing.
func ConversionLabel(c grocy.QuantityUnitConversion, units []grocy.QuantityUnit, p *message.Printer) (string, bool) {
	amount := FormatAmount(p, c.Factor)
	if unit, ok := findUnit(units, c.ToQuID); ok {
		return amount + " " + unit.Name, true
	}
	return amount + " " + strconv.Itoa(c.ID), false
}

// FormatAmount prints f with up to four fraction digits in p's locale.
// A nil printer formats in English.
func FormatAmount(p *message.Printer, f float64) string {
	if p == nil {
		p = message.NewPrinter(language.English)
	}
	return p.Sprint(number.Decimal(f, number.MaxFractionDigits(4)))
}

func findUnit(units []grocy.QuantityUnit, id int) (grocy.QuantityUnit, bool) {
	for _, u := range units {
		if u.ID == id {
			return u, true
		}
	}
	return grocy.QuantityUnit{}, false
}

func findUnitByName(units []grocy.QuantityUnit, name string) (grocy.QuantityUnit, bool) {
	for _, u := range units {
		if u.Name == name {
			return u, true
		}
	}
	return grocy.QuantityUnit{}, false
}
