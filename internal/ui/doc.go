// Package ui is the Bubble Tea front end of grocy-tui.
//
// The Model splits the screen into a header, a navigation sidebar built from
// nav.Router, the content area for the selected destination, and a command
// bar. Content is one of:
//
//   - the quantity unit list, or the add/edit form driven by
//     masterdata.QuantityUnitForm
//   - a read-only list for the other master-data tables
//   - a placeholder for reserved destinations and for pages that only the
//     Grocy web interface offers
//
// Data arrives through state.Store snapshots pulled on a tick. Saves never
// block the event loop: the form hands out a masterdata.PendingSubmit, a
// tea.Cmd runs it, and the result comes back as a message that completes
// the submit and shows a toast.
//
// The conversion sub-form is a Modal and takes the keyboard while open.
package ui
