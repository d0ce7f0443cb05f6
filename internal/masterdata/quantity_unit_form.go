package masterdata

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/text/message"

	"github.com/five82/grocy-tui/internal/grocy"
)

// Target says whether a form creates a new unit or edits an existing one.
type Target struct {
	unit *grocy.QuantityUnit
}

// CreateUnit targets a new quantity unit.
func CreateUnit() Target {
	return Target{}
}

// EditUnit targets an existing quantity unit.
func EditUnit(u grocy.QuantityUnit) Target {
	return Target{unit: &u}
}

// Editing returns the unit being edited, if any.
func (t Target) Editing() (grocy.QuantityUnit, bool) {
	if t.unit == nil {
		return grocy.QuantityUnit{}, false
	}
	return *t.unit, true
}

// NameStatus explains why a name is or is not acceptable.
type NameStatus int

const (
	NameOK NameStatus = iota
	NameEmpty
	NameTaken
)

// ValidateName checks name against units. The unit being edited (by id) does
// not count as a clash with itself.
func ValidateName(name string, units []grocy.QuantityUnit, target Target) NameStatus {
	if name == "" {
		return NameEmpty
	}
	self, editing := target.Editing()
	for _, u := range units {
		if u.Name != name {
			continue
		}
		if editing && u.ID == self.ID {
			continue
		}
		return NameTaken
	}
	return NameOK
}

// QuantityUnitForm is the controller behind the quantity unit add/edit view.
// It is not safe for concurrent use; drive it from the UI loop only.
type QuantityUnitForm struct {
	repo         Repository
	baseLogger   *slog.Logger
	logger       *slog.Logger
	now          func() time.Time
	presentation Presentation
	printer      *message.Printer

	target      Target
	name        string
	namePlural  string
	description string
	nameStatus  NameStatus

	appeared       bool
	processing     bool
	dismissed      bool
	closeRequested bool
	showConversion bool
	outcome        OutcomeKind
}

// NewQuantityUnitForm builds a form for target with fields populated from it.
func NewQuantityUnitForm(repo Repository, target Target, opts ...Option) *QuantityUnitForm {
	o := buildOptions(opts)
	f := &QuantityUnitForm{
		repo:         repo,
		baseLogger:   o.logger,
		logger:       o.logger.With("component", "quantity_unit_form"),
		now:          o.now,
		presentation: o.presentation,
		printer:      o.printer,
		target:       target,
	}
	f.Reset()
	return f
}

// Appear runs the first-display work once: populate fields and ask the
// store for units and conversions, honoring its freshness cache.
func (f *QuantityUnitForm) Appear() {
	if f.appeared {
		return
	}
	f.appeared = true
	f.Reset()
	f.repo.RequestRefresh([]grocy.ObjectKind{grocy.KindQuantityUnits, grocy.KindQuantityUnitConversions}, false)
}

// Reset repopulates the fields from the target; empty when creating.
func (f *QuantityUnitForm) Reset() {
	if u, ok := f.target.Editing(); ok {
		f.name = u.Name
		f.namePlural = u.NamePlural
		f.description = u.Description
	} else {
		f.name = ""
		f.namePlural = ""
		f.description = ""
	}
	f.revalidate()
}

func (f *QuantityUnitForm) revalidate() {
	f.nameStatus = ValidateName(f.name, f.repo.QuantityUnits(), f.target)
}

// SetName updates the name and recomputes validity before returning.
func (f *QuantityUnitForm) SetName(name string) {
	f.name = name
	f.revalidate()
}

func (f *QuantityUnitForm) SetNamePlural(v string)  { f.namePlural = v }
func (f *QuantityUnitForm) SetDescription(v string) { f.description = v }

func (f *QuantityUnitForm) Name() string        { return f.name }
func (f *QuantityUnitForm) NamePlural() string  { return f.namePlural }
func (f *QuantityUnitForm) Description() string { return f.description }
func (f *QuantityUnitForm) Target() Target      { return f.target }

// Revalidate recomputes the name status, e.g. after the store refreshed.
func (f *QuantityUnitForm) Revalidate() { f.revalidate() }

// NameCorrect reports whether the current name may be saved.
func (f *QuantityUnitForm) NameCorrect() bool { return f.nameStatus == NameOK }

// NameStatus returns the detail behind NameCorrect.
func (f *QuantityUnitForm) NameStatus() NameStatus { return f.nameStatus }

// IsNew reports whether the form creates a unit.
func (f *QuantityUnitForm) IsNew() bool {
	_, editing := f.target.Editing()
	return !editing
}

// Title is the header text for the form.
func (f *QuantityUnitForm) Title() string {
	if f.IsNew() {
		return "New quantity unit"
	}
	return "Edit quantity unit"
}

// CanCancel reports whether a cancel action is offered. Edit forms are left
// through navigation instead.
func (f *QuantityUnitForm) CanCancel() bool { return f.IsNew() }

// IsProcessing reports whether a submit is outstanding.
func (f *QuantityUnitForm) IsProcessing() bool { return f.processing }

// CanSubmit reports whether the save action is enabled.
func (f *QuantityUnitForm) CanSubmit() bool {
	return f.NameCorrect() && !f.processing && !f.dismissed
}

// Outcome is the result of the last completed submit.
func (f *QuantityUnitForm) Outcome() OutcomeKind { return f.outcome }

// ClearOutcome drops the outcome after the host showed it.
func (f *QuantityUnitForm) ClearOutcome() { f.outcome = OutcomeNone }

// CloseRequested reports whether the host should close the form.
func (f *QuantityUnitForm) CloseRequested() bool { return f.closeRequested }

// Dismiss marks the form as closed. Results arriving afterwards only log.
func (f *QuantityUnitForm) Dismiss() {
	f.dismissed = true
	f.showConversion = false
}

// Dismissed reports whether Dismiss was called.
func (f *QuantityUnitForm) Dismissed() bool { return f.dismissed }

// Submit builds the create or update request. It returns false and does
// nothing when the name is invalid, a submit is outstanding, or the form
// was dismissed.
func (f *QuantityUnitForm) Submit() (*PendingSubmit, bool) {
	if !f.CanSubmit() {
		return nil, false
	}

	creating := f.IsNew()
	var unit grocy.QuantityUnit
	if existing, ok := f.target.Editing(); ok {
		unit = grocy.QuantityUnit{
			ID:                  existing.ID,
			RowCreatedTimestamp: existing.RowCreatedTimestamp,
		}
	} else {
		unit = grocy.QuantityUnit{
			ID:                  f.repo.NextID(grocy.KindQuantityUnits),
			RowCreatedTimestamp: grocy.Timestamp(f.now()),
		}
	}
	unit.Name = f.name
	unit.NamePlural = f.namePlural
	unit.Description = f.description

	f.processing = true
	f.outcome = OutcomeNone

	p := newPendingSubmit(creating, grocy.KindQuantityUnits, unit.ID, unit, f.repo)
	p.complete = func(res SubmitResult) OutcomeKind {
		return f.complete(p, unit, res)
	}
	f.logger.Debug("submitting quantity unit",
		"request_id", p.RequestID, "create", creating, "id", unit.ID, "name", unit.Name)
	return p, true
}

func (f *QuantityUnitForm) complete(p *PendingSubmit, unit grocy.QuantityUnit, res SubmitResult) OutcomeKind {
	f.processing = false
	if f.dismissed {
		if res.Err != nil {
			f.logger.Error("quantity unit save failed after form closed",
				"request_id", p.RequestID, "id", unit.ID, "error", res.Err)
		} else {
			f.logger.Info("quantity unit saved after form closed",
				"request_id", p.RequestID, "id", unit.ID, "message", res.Message)
		}
		return OutcomeNone
	}

	kind := outcomeFor(p.Creating, res.Err == nil)
	f.outcome = kind
	if res.Err != nil {
		f.logger.Error("quantity unit save failed",
			"request_id", p.RequestID, "create", p.Creating, "id", unit.ID,
			"payload", fmt.Sprintf("%+v", unit), "error", res.Err)
		return kind
	}

	f.logger.Info("quantity unit saved",
		"request_id", p.RequestID, "create", p.Creating, "id", unit.ID, "message", res.Message)
	if p.Creating {
		f.Reset()
	} else {
		f.target = EditUnit(unit)
		f.revalidate()
	}
	f.repo.RequestRefresh([]grocy.ObjectKind{grocy.KindQuantityUnits, grocy.KindQuantityUnitConversions}, true)
	if p.Creating || f.presentation == PresentationStack {
		f.closeRequested = true
	}
	return kind
}

// Conversions lists the target unit's outgoing conversions. A new unit has none.
func (f *QuantityUnitForm) Conversions() []ConversionRow {
	u, ok := f.target.Editing()
	if !ok {
		return nil
	}
	return ConversionsFrom(u.ID, f.repo.QuantityUnitConversions(), f.repo.QuantityUnits(), f.printer)
}

// ConversionHint is the caption above the conversion list.
func (f *QuantityUnitForm) ConversionHint() string {
	u, ok := f.target.Editing()
	if !ok {
		return ""
	}
	return fmt.Sprintf("1 %s is the same as...", u.Name)
}

// RefreshConversions reloads only the conversion list, bypassing the cache.
func (f *QuantityUnitForm) RefreshConversions() {
	f.repo.RequestRefresh([]grocy.ObjectKind{grocy.KindQuantityUnitConversions}, true)
}

// ToggleAddConversion flips the conversion sub-form. Only edit forms have one.
func (f *QuantityUnitForm) ToggleAddConversion() bool {
	if f.IsNew() || f.dismissed {
		f.showConversion = false
		return false
	}
	f.showConversion = !f.showConversion
	return f.showConversion
}

// ShowAddConversion reports whether the conversion sub-form is open.
func (f *QuantityUnitForm) ShowAddConversion() bool { return f.showConversion }

// CloseAddConversion hides the conversion sub-form.
func (f *QuantityUnitForm) CloseAddConversion() { f.showConversion = false }

// NewConversionForm opens a conversion sub-form for the edited unit. The
// existing conversion is nil for an add.
func (f *QuantityUnitForm) NewConversionForm(existing *grocy.QuantityUnitConversion, opts ...Option) (*ConversionForm, bool) {
	u, ok := f.target.Editing()
	if !ok {
		return nil, false
	}
	base := []Option{WithLogger(f.baseLogger), WithClock(f.now), withPrinter(f.printer)}
	return NewConversionForm(f.repo, u, existing, append(base, opts...)...), true
}
