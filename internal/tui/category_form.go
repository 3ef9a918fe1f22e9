package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shopdesk/shopdesk/internal/router"
	"github.com/shopdesk/shopdesk/pkg/domain"
)

const (
	cfName = iota
	cfDescription
)

type categoryFetchedMsg struct {
	category *domain.Category
	err      error
}

type categorySavedMsg struct {
	category *domain.Category
	err      error
}

type categoryFormModel struct {
	catalog Catalog
	id      int64
	form    formModel
	loading bool
	saving  bool
	err     string
}

func newCategoryFormModel(c Catalog, id int64) categoryFormModel {
	return categoryFormModel{
		catalog: c,
		id:      id,
		loading: id != 0,
		form: newForm(
			formField{label: "name", placeholder: "Kitchen"},
			formField{label: "description", placeholder: "optional"},
		),
	}
}

func (m categoryFormModel) Init() tea.Cmd {
	if m.id == 0 {
		return nil
	}
	c, id := m.catalog, m.id
	return func() tea.Msg {
		cat, err := c.GetCategory(context.Background(), id)
		return categoryFetchedMsg{category: cat, err: err}
	}
}

func (m categoryFormModel) Update(msg tea.Msg) (categoryFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case categoryFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		if cat := msg.category; cat != nil {
			m.form.set(cfName, cat.Name)
			m.form.set(cfDescription, cat.Description)
		}
		return m, nil

	case categorySavedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		return m, navigateTo(router.Categories)

	case tea.KeyMsg:
		if m.loading || m.saving {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+s":
			return m.submit()
		case "enter":
			if m.form.onLast() {
				return m.submit()
			}
			m.form.focus++
			return m, nil
		case "esc":
			return m, navigateTo(router.Categories)
		}
		m.err = ""
		m.form, _ = m.form.update(msg)
	}
	return m, nil
}

func (m categoryFormModel) submit() (categoryFormModel, tea.Cmd) {
	in := domain.CategoryInput{
		Name:        m.form.value(cfName),
		Description: m.form.value(cfDescription),
	}
	if in.Name == "" {
		m.err = "name is required"
		return m, nil
	}
	m.saving = true
	m.err = ""
	c, id := m.catalog, m.id
	return m, func() tea.Msg {
		ctx := context.Background()
		if id == 0 {
			cat, err := c.CreateCategory(ctx, in)
			return categorySavedMsg{category: cat, err: err}
		}
		cat, err := c.UpdateCategory(ctx, id, in)
		return categorySavedMsg{category: cat, err: err}
	}
}

func (m categoryFormModel) View() string {
	var b strings.Builder
	title := "New category"
	if m.id != 0 {
		title = fmt.Sprintf("Edit category #%d", m.id)
	}
	b.WriteString("\n " + titleStyle.Render(title) + "\n\n")
	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	b.WriteString(m.form.View())
	b.WriteString("\n")
	switch {
	case m.saving:
		b.WriteString(" " + dimStyle.Render("saving...") + "\n")
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.err) + "\n")
	}
	return b.String()
}

func (m categoryFormModel) helpKeys() string {
	return helpBar("tab", "next", "ctrl+s", "save", "esc", "cancel")
}
