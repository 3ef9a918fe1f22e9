package tui

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// formField is one editable line in a form.
type formField struct {
	label       string
	value       string
	placeholder string
	secret      bool
}

// formModel is the shared editable field list behind the login and
// catalogue forms. It only edits text; callers own submission.
type formModel struct {
	fields []formField
	focus  int
}

func newForm(fields ...formField) formModel {
	return formModel{fields: fields}
}

// value returns the trimmed value of field i.
func (f formModel) value(i int) string {
	return strings.TrimSpace(f.fields[i].value)
}

func (f *formModel) set(i int, v string) {
	f.fields[i].value = v
}

// update applies navigation and editing keys. It reports whether the key
// was consumed.
func (f formModel) update(msg tea.KeyMsg) (formModel, bool) {
	switch msg.String() {
	case "tab", "down":
		f.focus = (f.focus + 1) % len(f.fields)
		return f, true
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields)
		return f, true
	case "ctrl+u":
		f.fields[f.focus].value = ""
		return f, true
	}
	before := f.fields[f.focus].value
	after := editRune(before, msg.String())
	if after != before {
		f.fields[f.focus].value = after
		return f, true
	}
	return f, false
}

// onLast reports whether focus is on the final field.
func (f formModel) onLast() bool {
	return f.focus == len(f.fields)-1
}

func (f formModel) View() string {
	width := 0
	for _, fld := range f.fields {
		if len(fld.label) > width {
			width = len(fld.label)
		}
	}

	var b strings.Builder
	for i, fld := range f.fields {
		label := labelStyle.Render(padRight(fld.label, width))
		val := fld.value
		if fld.secret {
			val = mask(val)
		}
		var rendered string
		switch {
		case val == "" && i != f.focus:
			rendered = inputPlaceholderStyle.Render(fld.placeholder)
		case i == f.focus:
			rendered = selectedStyle.Render(val) + accentStyle.Render("█")
		default:
			rendered = normalStyle.Render(val)
		}
		prompt := "  "
		if i == f.focus {
			prompt = inputPromptStyle.Render("> ")
		}
		b.WriteString(" " + prompt + label + "  " + rendered + "\n")
	}
	return b.String()
}

// maxInputLen caps a field, in runes.
const maxInputLen = 500

// editRune applies one key to text. Backspace drops the last rune and a
// single printable rune is appended; other keys leave text as is.
func editRune(text, key string) string {
	if key == "backspace" {
		if _, size := utf8.DecodeLastRuneInString(text); size > 0 {
			return text[:len(text)-size]
		}
		return text
	}
	if key == "space" {
		key = " "
	}
	if utf8.RuneCountInString(key) != 1 || utf8.RuneCountInString(text) >= maxInputLen {
		return text
	}
	return text + key
}
