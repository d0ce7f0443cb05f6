// Package masterdata holds the controllers behind the master-data forms.
//
// QuantityUnitForm drives the add/edit view for a quantity unit. It keeps
// the editable fields, checks the name against the store's current units,
// and turns a save into a PendingSubmit. The host runs PendingSubmit.Do off
// the UI loop (a tea.Cmd) and feeds the result back through Complete, which
// is where the form resets or keeps its fields, asks the store to refresh
// and records an OutcomeKind for the toast.
//
// Only one submit may be outstanding per form. Results that arrive after
// Dismiss are logged and otherwise dropped.
//
// ConversionForm is the smaller sub-form for one conversion leaving the
// edited unit. Conversion factors are formatted with golang.org/x/text so
// the list follows the configured locale.
package masterdata
