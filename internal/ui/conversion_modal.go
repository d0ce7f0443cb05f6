package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/grocy-tui/internal/masterdata"
)

const (
	convFieldFactor = iota
	convFieldUnit
)

// conversionModal edits one conversion of the unit open in the form behind it.
type conversionModal struct {
	ctx    context.Context
	form   *masterdata.ConversionForm
	inputs [2]textinput.Model
	focus  int
	choice int
}

func newConversionModal(ctx context.Context, form *masterdata.ConversionForm, theme Theme) *conversionModal {
	cm := &conversionModal{ctx: ctx, form: form, choice: -1}
	for i := range cm.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 64
		in.Width = 24
		in.TextStyle = theme.Styles().Text
		in.PlaceholderStyle = theme.Styles().FaintText
		cm.inputs[i] = in
	}
	cm.inputs[convFieldFactor].Placeholder = "e.g. 6"
	cm.inputs[convFieldUnit].Placeholder = "ctrl+n / ctrl+p to pick"
	cm.inputs[convFieldFactor].SetValue(form.Factor())
	cm.inputs[convFieldUnit].SetValue(form.ToUnit())
	cm.inputs[convFieldFactor].Focus()
	return cm
}

func (cm *conversionModal) Busy() bool { return cm.form.IsProcessing() }

func (cm *conversionModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		cm.inputs[cm.focus], cmd = cm.inputs[cm.focus].Update(msg)
		return cm, cmd, false
	}

	switch {
	case key.Matches(keyMsg, keys.Back):
		cm.form.Dismiss()
		return cm, nil, true

	case key.Matches(keyMsg, keys.Save):
		p, ok := cm.form.Submit()
		if !ok {
			return cm, nil, false
		}
		return cm, submitCmd(cm.ctx, p), false

	case key.Matches(keyMsg, keys.NextField), key.Matches(keyMsg, keys.PrevField):
		cm.inputs[cm.focus].Blur()
		cm.focus = 1 - cm.focus
		return cm, cm.inputs[cm.focus].Focus(), false

	case keyMsg.String() == "ctrl+n":
		cm.cycleUnit(1)
		return cm, nil, false

	case keyMsg.String() == "ctrl+p":
		cm.cycleUnit(-1)
		return cm, nil, false
	}

	var cmd tea.Cmd
	cm.inputs[cm.focus], cmd = cm.inputs[cm.focus].Update(keyMsg)
	cm.push()
	return cm, cmd, false
}

// cycleUnit fills the unit field with the next or previous valid choice.
func (cm *conversionModal) cycleUnit(step int) {
	choices := cm.form.UnitChoices()
	if len(choices) == 0 {
		return
	}
	n := len(choices)
	cm.choice = ((cm.choice+step)%n + n) % n
	cm.inputs[convFieldUnit].SetValue(choices[cm.choice].Name)
	cm.inputs[convFieldUnit].CursorEnd()
	cm.push()
}

func (cm *conversionModal) push() {
	cm.form.SetFactor(cm.inputs[convFieldFactor].Value())
	cm.form.SetToUnit(cm.inputs[convFieldUnit].Value())
}

func (cm *conversionModal) View(theme Theme, width, height int) string {
	styles := theme.Styles().WithBackground(theme.SurfaceAlt)
	parent := cm.form.Parent()

	title := "Add conversion"
	if !cm.form.IsNew() {
		title = "Edit conversion"
	}

	label := func(i int, text string) string {
		if i == cm.focus {
			return styles.AccentText.Render(padRight(text, 8))
		}
		return styles.MutedText.Render(padRight(text, 8))
	}

	lines := []string{
		styles.AccentText.Bold(true).Render(title),
		"",
		styles.MutedText.Render("1 " + parent.Name + " is the same as"),
		label(convFieldFactor, "Factor") + cm.inputs[convFieldFactor].View(),
		label(convFieldUnit, "Unit") + cm.inputs[convFieldUnit].View(),
		"",
	}

	if status := cm.form.Status(); status != masterdata.ConversionOK {
		lines = append(lines, styles.DangerText.Render(status.String()))
	} else if preview := cm.form.Preview(); preview != "" {
		lines = append(lines, styles.SuccessText.Render(preview))
	}
	if cm.form.IsProcessing() {
		lines = append(lines, styles.WarningText.Render("Saving..."))
	}

	lines = append(lines, "", styles.FaintText.Render("ctrl+s save · esc cancel · tab next field"))
	return placeModal(theme, width, height, strings.Join(lines, "\n"))
}
