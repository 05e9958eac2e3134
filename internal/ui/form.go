package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// formFieldSpec declares one input in a create/edit form.
type formFieldSpec struct {
	Label       string
	Value       string
	Placeholder string
	Required    bool
}

type formField struct {
	label    string
	required bool
	input    textinput.Model
}

// form is a modal create/edit dialog. Submitting validates required fields
// before anything leaves the process; a failed submit keeps every value so
// the user can fix and retry.
type form struct {
	title  string
	fields []formField
	focus  int
	err    string
	submit func(values []string) tea.Cmd
}

func newForm(title string, submit func([]string) tea.Cmd, specs ...formFieldSpec) *form {
	f := &form{title: title, submit: submit}
	for i, spec := range specs {
		input := textinput.New()
		input.Placeholder = spec.Placeholder
		input.SetValue(spec.Value)
		input.CharLimit = 200
		if i == 0 {
			input.Focus()
		}
		f.fields = append(f.fields, formField{
			label:    spec.Label,
			required: spec.Required,
			input:    input,
		})
	}
	return f
}

func (f *form) values() []string {
	out := make([]string, len(f.fields))
	for i, field := range f.fields {
		out[i] = strings.TrimSpace(field.input.Value())
	}
	return out
}

// validate reports the first missing required field, or "".
func (f *form) validate() string {
	for _, field := range f.fields {
		if field.required && strings.TrimSpace(field.input.Value()) == "" {
			return field.label + " is required"
		}
	}
	return ""
}

func (f *form) focusField(idx int) {
	if idx < 0 {
		idx = len(f.fields) - 1
	}
	if idx >= len(f.fields) {
		idx = 0
	}
	for i := range f.fields {
		if i == idx {
			f.fields[i].input.Focus()
		} else {
			f.fields[i].input.Blur()
		}
	}
	f.focus = idx
}

// handleFormKey routes keys to the open form. Enter advances through the
// fields and submits from the last one; esc abandons the form.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	switch msg.String() {
	case "esc":
		m.form = nil
		return m, nil

	case "tab", "down":
		f.focusField(f.focus + 1)
		return m, nil

	case "shift+tab", "up":
		f.focusField(f.focus - 1)
		return m, nil

	case "enter":
		if f.focus < len(f.fields)-1 {
			f.focusField(f.focus + 1)
			return m, nil
		}
		return m.submitForm()

	case "ctrl+s":
		return m.submitForm()
	}

	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	f := m.form
	if m.busy {
		return m, nil
	}
	if problem := f.validate(); problem != "" {
		f.err = problem
		return m, nil
	}
	f.err = ""
	m.busy = true
	return m, tea.Batch(f.submit(f.values()), m.spin.Tick)
}
