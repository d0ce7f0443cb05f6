package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/grocy-tui/internal/grocy"
	"github.com/five82/grocy-tui/internal/masterdata"
)

// Focus slots of the unit form. The conversion list only exists when editing.
const (
	fieldName = iota
	fieldNamePlural
	fieldDescription
	fieldConversions
)

var fieldLabels = [...]string{"Name", "Plural name", "Description"}

func (m Model) renderUnitList(width, height int) string {
	styles := m.theme.Styles()
	units := m.snapshot.Units

	var b strings.Builder
	b.WriteString(m.renderTitle("Quantity units", fmt.Sprintf("%d", len(units))))
	b.WriteString("\n\n")

	if !m.snapshot.Loaded[grocy.KindQuantityUnits] {
		b.WriteString(styles.MutedText.Render("Loading..."))
		return b.String()
	}
	if len(units) == 0 {
		b.WriteString(styles.MutedText.Render("No quantity units yet. Press n to create one."))
		return b.String()
	}

	nameW := max(10, width/4)
	pluralW := max(10, width/4)
	convW := 6
	descW := max(0, width-nameW-pluralW-convW-6)

	head := padRight("Name", nameW) + "  " + padRight("Plural", pluralW) + "  " +
		padRight("Description", descW) + "  " + "Conv."
	b.WriteString(styles.FaintText.Render(truncate(head, width)))
	b.WriteString("\n")

	counts := make(map[int]int)
	for _, c := range m.snapshot.Conversions {
		counts[c.FromQuID]++
	}

	start, end := visibleWindow(m.unitRow, len(units), height-4)
	for i := start; i < end; i++ {
		u := units[i]
		line := padRight(truncate(u.Name, nameW), nameW) + "  " +
			padRight(truncate(u.NamePlural, pluralW), pluralW) + "  " +
			padRight(truncate(u.Description, descW), descW) + "  " +
			fmt.Sprintf("%*d", convW-1, counts[u.ID])
		if i == m.unitRow && m.focus == focusContent {
			b.WriteString(styles.Selected.Width(width).Render(line))
		} else {
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) handleUnitListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.New):
		return m.openUnitForm(masterdata.CreateUnit())

	case key.Matches(msg, m.keys.Edit):
		if m.unitRow < len(m.snapshot.Units) {
			return m.openUnitForm(masterdata.EditUnit(m.snapshot.Units[m.unitRow]))
		}
		return m, nil
	}
	m.unitRow = moveRow(m.unitRow, len(m.snapshot.Units), msg, m.keys)
	return m, nil
}

func (m Model) openUnitForm(target masterdata.Target) (tea.Model, tea.Cmd) {
	if m.store == nil {
		return m, nil
	}
	form := masterdata.NewQuantityUnitForm(m.store, target, m.formOpts...)
	form.Appear()
	m.form = newUnitFormView(form, m.theme)
	m.focus = focusContent
	return m, textinput.Blink
}

// closeForm dismisses the open form and any conversion sub-form on top of it.
func (m *Model) closeForm() {
	if cm, ok := m.modal.(*conversionModal); ok {
		cm.form.Dismiss()
	}
	m.modal = nil
	if m.form != nil {
		m.form.form.Dismiss()
		m.form = nil
	}
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fv := m.form
	form := fv.form

	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeForm()
		return m, nil

	case key.Matches(msg, m.keys.Save):
		p, ok := form.Submit()
		if !ok {
			return m, nil
		}
		return m, submitCmd(m.ctx, p)

	case key.Matches(msg, m.keys.AddConversion):
		if !form.ToggleAddConversion() {
			return m, nil
		}
		return m.openConversionModal(nil)

	case key.Matches(msg, m.keys.RefreshConversions):
		form.RefreshConversions()
		return m, nil
	}

	if fv.focus == fieldConversions {
		rows := form.Conversions()
		switch {
		case msg.String() == "tab" || msg.String() == "shift+tab":
			// cycle fields
		case key.Matches(msg, m.keys.Open):
			if fv.convSelected < len(rows) {
				conv := rows[fv.convSelected].Conversion
				return m.openConversionModal(&conv)
			}
			return m, nil
		case key.Matches(msg, m.keys.Up) && fv.convSelected == 0:
			// leave the list upwards
		default:
			fv.convSelected = moveRow(fv.convSelected, len(rows), msg, m.keys)
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.NextField):
		return m, fv.focusField(fv.focus + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m, fv.focusField(fv.focus - 1)
	}

	if fv.focus == fieldConversions {
		return m, nil
	}
	var cmd tea.Cmd
	fv.inputs[fv.focus], cmd = fv.inputs[fv.focus].Update(msg)
	fv.pushField(fv.focus)
	return m, cmd
}

func (m Model) openConversionModal(existing *grocy.QuantityUnitConversion) (tea.Model, tea.Cmd) {
	conv, ok := m.form.form.NewConversionForm(existing, m.formOpts...)
	if !ok {
		return m, nil
	}
	m.modal = newConversionModal(m.ctx, conv, m.theme)
	return m, textinput.Blink
}

// unitFormView couples the masterdata form with its text inputs.
type unitFormView struct {
	form         *masterdata.QuantityUnitForm
	inputs       [3]textinput.Model
	focus        int
	convSelected int
}

func newUnitFormView(form *masterdata.QuantityUnitForm, theme Theme) *unitFormView {
	fv := &unitFormView{form: form}
	for i := range fv.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 255
		in.TextStyle = theme.Styles().Text
		in.PlaceholderStyle = theme.Styles().FaintText
		fv.inputs[i] = in
	}
	fv.inputs[fieldName].Placeholder = "e.g. Piece"
	fv.inputs[fieldNamePlural].Placeholder = "e.g. Pieces"
	fv.syncInputs()
	fv.inputs[fieldName].Focus()
	return fv
}

// fieldCount is the number of focus slots; new units have no conversion list.
func (fv *unitFormView) fieldCount() int {
	if fv.form.IsNew() {
		return fieldConversions
	}
	return fieldConversions + 1
}

func (fv *unitFormView) focusField(i int) tea.Cmd {
	n := fv.fieldCount()
	i = (i%n + n) % n
	fv.focus = i
	for j := range fv.inputs {
		fv.inputs[j].Blur()
	}
	if i == fieldConversions {
		fv.convSelected = 0
		return nil
	}
	return fv.inputs[i].Focus()
}

func (fv *unitFormView) pushField(i int) {
	value := fv.inputs[i].Value()
	switch i {
	case fieldName:
		fv.form.SetName(value)
	case fieldNamePlural:
		fv.form.SetNamePlural(value)
	case fieldDescription:
		fv.form.SetDescription(value)
	}
}

// syncInputs copies the form fields into the inputs after the form reset
// itself, e.g. after a save.
func (fv *unitFormView) syncInputs() {
	fv.inputs[fieldName].SetValue(fv.form.Name())
	fv.inputs[fieldNamePlural].SetValue(fv.form.NamePlural())
	fv.inputs[fieldDescription].SetValue(fv.form.Description())
}

// updateInputs forwards non-key messages such as cursor blinks.
func (fv *unitFormView) updateInputs(msg tea.Msg) tea.Cmd {
	if fv.focus == fieldConversions {
		return nil
	}
	var cmd tea.Cmd
	fv.inputs[fv.focus], cmd = fv.inputs[fv.focus].Update(msg)
	return cmd
}

func (fv *unitFormView) view(m Model, width int) string {
	styles := m.theme.Styles()
	form := fv.form

	var b strings.Builder
	b.WriteString(m.renderTitle(form.Title(), ""))
	b.WriteString("\n\n")

	for i, label := range fieldLabels {
		labelStyle := styles.MutedText
		if i == fv.focus {
			labelStyle = styles.AccentText
		}
		fv.inputs[i].Width = max(10, width-FormLabelWidth-2)
		b.WriteString(labelStyle.Render(padRight(label, FormLabelWidth)))
		b.WriteString(fv.inputs[i].View())
		b.WriteString("\n")
		if i == fieldName {
			if msg := nameStatusText(form.NameStatus()); msg != "" {
				b.WriteString(strings.Repeat(" ", FormLabelWidth))
				b.WriteString(styles.DangerText.Render(msg))
				b.WriteString("\n")
			}
		}
	}

	if form.IsProcessing() {
		b.WriteString("\n")
		b.WriteString(styles.WarningText.Render("Saving..."))
		b.WriteString("\n")
	}

	if !form.IsNew() {
		b.WriteString("\n")
		b.WriteString(fv.viewConversions(m, width))
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(fv.hints()))
	return b.String()
}

func (fv *unitFormView) viewConversions(m Model, width int) string {
	styles := m.theme.Styles()
	titleStyle := styles.MutedText
	if fv.focus == fieldConversions {
		titleStyle = styles.AccentText
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Conversions"))
	b.WriteString("  ")
	b.WriteString(styles.FaintText.Render(fv.form.ConversionHint()))
	b.WriteString("\n")

	rows := fv.form.Conversions()
	if len(rows) == 0 {
		b.WriteString(styles.FaintText.Render("  none"))
		b.WriteString("\n")
		return b.String()
	}
	for i, row := range rows {
		line := "  " + truncate(row.Label, width-2)
		switch {
		case fv.focus == fieldConversions && i == fv.convSelected:
			b.WriteString(styles.Selected.Width(width).Render(line))
		case !row.Resolved:
			b.WriteString(styles.FaintText.Render(line))
		default:
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (fv *unitFormView) hints() string {
	parts := []string{"ctrl+s save"}
	if fv.form.CanCancel() {
		parts = append(parts, "esc cancel")
	} else {
		parts = append(parts, "esc back", "ctrl+a add conversion", "ctrl+r refresh conversions")
	}
	return strings.Join(parts, " · ")
}

func nameStatusText(s masterdata.NameStatus) string {
	switch s {
	case masterdata.NameEmpty:
		return "A name is required"
	case masterdata.NameTaken:
		return "A quantity unit with this name already exists"
	default:
		return ""
	}
}
