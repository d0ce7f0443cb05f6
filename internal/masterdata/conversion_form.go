package masterdata

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/message"

	"github.com/five82/grocy-tui/internal/grocy"
)

// ConversionStatus explains why a conversion form cannot be saved.
type ConversionStatus int

const (
	ConversionOK ConversionStatus = iota
	ConversionFactorInvalid
	ConversionUnitUnknown
	ConversionUnitSame
)

func (s ConversionStatus) String() string {
	switch s {
	case ConversionFactorInvalid:
		return "Factor must be a number greater than zero"
	case ConversionUnitUnknown:
		return "Unknown quantity unit"
	case ConversionUnitSame:
		return "Pick a different quantity unit"
	default:
		return ""
	}
}

// ParseFactor accepts a positive decimal; a comma works as the decimal mark.
func ParseFactor(text string) (float64, bool) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	if text == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

// ConversionForm adds or edits one conversion leaving a parent unit.
type ConversionForm struct {
	repo    Repository
	logger  *slog.Logger
	now     func() time.Time
	printer *message.Printer

	parent   grocy.QuantityUnit
	existing *grocy.QuantityUnitConversion

	toUnit string
	factor string
	status ConversionStatus

	processing     bool
	dismissed      bool
	closeRequested bool
	outcome        OutcomeKind
}

// NewConversionForm builds a sub-form for parent. existing is nil for an add.
func NewConversionForm(repo Repository, parent grocy.QuantityUnit, existing *grocy.QuantityUnitConversion, opts ...Option) *ConversionForm {
	o := buildOptions(opts)
	f := &ConversionForm{
		repo:    repo,
		logger:  o.logger.With("component", "conversion_form"),
		now:     o.now,
		printer: o.printer,
		parent:  parent,
	}
	if existing != nil {
		c := *existing
		f.existing = &c
	}
	f.Reset()
	return f
}

// Reset repopulates the fields from the existing conversion, or clears them.
func (f *ConversionForm) Reset() {
	f.toUnit, f.factor = "", ""
	if f.existing != nil {
		if u, ok := findUnit(f.repo.QuantityUnits(), f.existing.ToQuID); ok {
			f.toUnit = u.Name
		}
		f.factor = strconv.FormatFloat(f.existing.Factor, 'f', -1, 64)
	}
	f.revalidate()
}

func (f *ConversionForm) revalidate() {
	if _, ok := ParseFactor(f.factor); !ok {
		f.status = ConversionFactorInvalid
		return
	}
	u, ok := findUnitByName(f.repo.QuantityUnits(), strings.TrimSpace(f.toUnit))
	switch {
	case !ok:
		f.status = ConversionUnitUnknown
	case u.ID == f.parent.ID:
		f.status = ConversionUnitSame
	default:
		f.status = ConversionOK
	}
}

func (f *ConversionForm) SetToUnit(name string) {
	f.toUnit = name
	f.revalidate()
}

func (f *ConversionForm) SetFactor(text string) {
	f.factor = text
	f.revalidate()
}

func (f *ConversionForm) ToUnit() string             { return f.toUnit }
func (f *ConversionForm) Factor() string             { return f.factor }
func (f *ConversionForm) Status() ConversionStatus   { return f.status }
func (f *ConversionForm) Parent() grocy.QuantityUnit { return f.parent }
func (f *ConversionForm) IsNew() bool                { return f.existing == nil }
func (f *ConversionForm) IsProcessing() bool         { return f.processing }
func (f *ConversionForm) Outcome() OutcomeKind       { return f.outcome }
func (f *ConversionForm) CloseRequested() bool       { return f.closeRequested }
func (f *ConversionForm) Dismiss()                   { f.dismissed = true }

// CanSubmit reports whether the save action is enabled.
func (f *ConversionForm) CanSubmit() bool {
	return f.status == ConversionOK && !f.processing && !f.dismissed
}

// UnitChoices lists the units a conversion may point to.
func (f *ConversionForm) UnitChoices() []grocy.QuantityUnit {
	return otherUnits(f.repo.QuantityUnits(), f.parent.ID)
}

// Preview renders the conversion as it would be listed, e.g. "1 Box = 6 Piece".
func (f *ConversionForm) Preview() string {
	v, ok := ParseFactor(f.factor)
	if !ok || f.toUnit == "" {
		return ""
	}
	return fmt.Sprintf("1 %s = %s %s", f.parent.Name, FormatAmount(f.printer, v), strings.TrimSpace(f.toUnit))
}

// Submit builds the create or update request for the conversion.
func (f *ConversionForm) Submit() (*PendingSubmit, bool) {
	if !f.CanSubmit() {
		return nil, false
	}
	factor, _ := ParseFactor(f.factor)
	to, _ := findUnitByName(f.repo.QuantityUnits(), strings.TrimSpace(f.toUnit))

	creating := f.existing == nil
	conv := grocy.QuantityUnitConversion{
		FromQuID: f.parent.ID,
		ToQuID:   to.ID,
		Factor:   factor,
	}
	if creating {
		conv.ID = f.repo.NextID(grocy.KindQuantityUnitConversions)
		conv.RowCreatedTimestamp = grocy.Timestamp(f.now())
	} else {
		conv.ID = f.existing.ID
		conv.ProductID = f.existing.ProductID
		conv.RowCreatedTimestamp = f.existing.RowCreatedTimestamp
	}

	f.processing = true
	f.outcome = OutcomeNone
	p := newPendingSubmit(creating, grocy.KindQuantityUnitConversions, conv.ID, conv, f.repo)
	p.complete = func(res SubmitResult) OutcomeKind {
		return f.complete(p, conv, res)
	}
	return p, true
}

func (f *ConversionForm) complete(p *PendingSubmit, conv grocy.QuantityUnitConversion, res SubmitResult) OutcomeKind {
	f.processing = false
	if f.dismissed {
		f.logger.Info("conversion save finished after form closed",
			"request_id", p.RequestID, "id", conv.ID, "error", res.Err)
		return OutcomeNone
	}
	kind := outcomeFor(p.Creating, res.Err == nil)
	f.outcome = kind
	if res.Err != nil {
		f.logger.Error("conversion save failed",
			"request_id", p.RequestID, "create", p.Creating, "id", conv.ID,
			"from", conv.FromQuID, "to", conv.ToQuID, "factor", conv.Factor, "error", res.Err)
		return kind
	}
	f.logger.Info("conversion saved", "request_id", p.RequestID, "id", conv.ID, "message", res.Message)
	f.repo.RequestRefresh([]grocy.ObjectKind{grocy.KindQuantityUnitConversions}, true)
	f.closeRequested = true
	return kind
}

func otherUnits(units []grocy.QuantityUnit, exclude int) []grocy.QuantityUnit {
	out := make([]grocy.QuantityUnit, 0, len(units))
	for _, u := range units {
		if u.ID != exclude {
			out = append(out, u)
		}
	}
	return out
}
