package masterdata

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/five82/grocy-tui/internal/grocy"
)

// Repository is the store a form reads snapshots from and sends mutations to.
// *state.Store implements it.
type Repository interface {
	QuantityUnits() []grocy.QuantityUnit
	QuantityUnitConversions() []grocy.QuantityUnitConversion
	RequestRefresh(kinds []grocy.ObjectKind, ignoreCache bool)
	NextID(kind grocy.ObjectKind) int
	Create(ctx context.Context, kind grocy.ObjectKind, payload any) (string, error)
	Update(ctx context.Context, kind grocy.ObjectKind, id int, payload any) (string, error)
}

// Presentation decides which successful saves ask the host to close the form.
type Presentation int

const (
	// PresentationStack closes the form after every successful save.
	PresentationStack Presentation = iota
	// PresentationSheet closes the add sheet after a create and keeps edit forms open.
	PresentationSheet
)

// ParsePresentation maps the config value to a Presentation. Empty means stack.
func ParsePresentation(value string) (Presentation, bool) {
	switch value {
	case "", "stack":
		return PresentationStack, true
	case "sheet":
		return PresentationSheet, true
	default:
		return PresentationStack, false
	}
}

func (p Presentation) String() string {
	if p == PresentationSheet {
		return "sheet"
	}
	return "stack"
}

// OutcomeKind is the last operation result a host renders as a toast.
type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	OutcomeSuccessAdd
	OutcomeSuccessEdit
	OutcomeFailAdd
	OutcomeFailEdit
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccessAdd:
		return "successAdd"
	case OutcomeSuccessEdit:
		return "successEdit"
	case OutcomeFailAdd:
		return "failAdd"
	case OutcomeFailEdit:
		return "failEdit"
	default:
		return "none"
	}
}

// Failed reports whether k is one of the failure outcomes.
func (k OutcomeKind) Failed() bool {
	return k == OutcomeFailAdd || k == OutcomeFailEdit
}

// Message is the user-facing toast text. Failures carry no server detail.
func (k OutcomeKind) Message() string {
	switch k {
	case OutcomeSuccessAdd:
		return "Added successfully"
	case OutcomeSuccessEdit:
		return "Edited successfully"
	case OutcomeFailAdd:
		return "Adding failed"
	case OutcomeFailEdit:
		return "Editing failed"
	default:
		return ""
	}
}

func outcomeFor(creating, ok bool) OutcomeKind {
	switch {
	case creating && ok:
		return OutcomeSuccessAdd
	case creating:
		return OutcomeFailAdd
	case ok:
		return OutcomeSuccessEdit
	default:
		return OutcomeFailEdit
	}
}

// Option configures a form.
type Option func(*options)

type options struct {
	logger       *slog.Logger
	now          func() time.Time
	presentation Presentation
	printer      *message.Printer
}

// WithLogger sets the diagnostic sink.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides time.Now for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithPresentation sets the close policy.
func WithPresentation(p Presentation) Option {
	return func(o *options) { o.presentation = p }
}

// WithLocale sets the language used to format conversion factors.
func WithLocale(tag language.Tag) Option {
	return func(o *options) { o.printer = message.NewPrinter(tag) }
}

func withPrinter(p *message.Printer) Option {
	return func(o *options) {
		if p != nil {
			o.printer = p
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
		printer: message.NewPrinter(language.English),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
