package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type formField struct {
	label string
	input textinput.Model
}

// Form is a vertical list of text inputs submitted with enter on the last one.
type Form struct {
	title  string
	fields []formField
	focus  int
}

// NewForm creates a form with one input per label, the first one focused.
func NewForm(title string, labels ...string) Form {
	fields := make([]formField, 0, len(labels))
	for _, label := range labels {
		in := textinput.New()
		in.Prompt = "› "
		in.Placeholder = strings.ToLower(label)
		in.CharLimit = 64
		fields = append(fields, formField{label: label, input: in})
	}

	f := Form{title: title, fields: fields}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

// Update handles a message and reports whether the form was submitted.
func (f *Form) Update(msg tea.Msg) (bool, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "down":
			return false, f.setFocus(f.focus + 1)
		case "shift+tab", "up":
			return false, f.setFocus(f.focus - 1)
		case "enter":
			if f.focus == len(f.fields)-1 {
				return true, nil
			}
			return false, f.setFocus(f.focus + 1)
		}
	}

	if len(f.fields) == 0 {
		return false, nil
	}

	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return false, cmd
}

// Values returns the trimmed input values in field order.
func (f Form) Values() []string {
	values := make([]string, len(f.fields))
	for i, field := range f.fields {
		values[i] = strings.TrimSpace(field.input.Value())
	}
	return values
}

func (f *Form) setFocus(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	i = (i + len(f.fields)) % len(f.fields)

	f.fields[f.focus].input.Blur()
	f.focus = i
	return f.fields[f.focus].input.Focus()
}

// View renders the form
func (f Form) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(f.title))
	b.WriteString("\n")

	for i, field := range f.fields {
		label := labelStyle.Render(field.label)
		if i == f.focus {
			label = focusedLabelStyle.Render(field.label)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label, field.input.View()))
		b.WriteString("\n")
	}

	return boxStyle.Render(b.String())
}
