package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shopdesk/shopdesk/internal/router"
	"github.com/shopdesk/shopdesk/pkg/domain"
)

type categoriesLoadedMsg struct {
	categories []domain.Category
	err        error
}

type categoryDeletedMsg struct {
	id  int64
	err error
}

type categoriesModel struct {
	catalog       Catalog
	categories    []domain.Category
	cursor        int
	loading       bool
	err           string
	status        string
	confirmDelete bool
}

func newCategoriesModel(c Catalog) categoriesModel {
	return categoriesModel{catalog: c, loading: true}
}

func (m categoriesModel) Init() tea.Cmd {
	return m.load()
}

func (m categoriesModel) load() tea.Cmd {
	c := m.catalog
	return func() tea.Msg {
		cats, err := c.ListCategories(context.Background())
		return categoriesLoadedMsg{categories: cats, err: err}
	}
}

func (m categoriesModel) selected() (domain.Category, bool) {
	if m.cursor < 0 || m.cursor >= len(m.categories) {
		return domain.Category{}, false
	}
	return m.categories[m.cursor], true
}

func (m categoriesModel) Update(msg tea.Msg) (categoriesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.categories = msg.categories
		if m.cursor >= len(m.categories) {
			m.cursor = max(0, len(m.categories)-1)
		}

	case categoryDeletedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("delete failed: " + msg.err.Error())
			return m, nil
		}
		m.status = successStyle.Render(fmt.Sprintf("category #%d deleted", msg.id))
		m.loading = true
		return m, m.load()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m categoriesModel) handleKey(msg tea.KeyMsg) (categoriesModel, tea.Cmd) {
	key := msg.String()
	if m.confirmDelete {
		m.confirmDelete = false
		cat, ok := m.selected()
		if key != "y" || !ok {
			m.status = dimStyle.Render("delete cancelled")
			return m, nil
		}
		c := m.catalog
		id := cat.ID
		return m, func() tea.Msg {
			return categoryDeletedMsg{id: id, err: c.DeleteCategory(context.Background(), id)}
		}
	}

	m.status = ""
	switch key {
	case "j", "down":
		if m.cursor < len(m.categories)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "r":
		m.loading = true
		return m, m.load()
	case "a":
		return m, navigateTo(router.AddCategory)
	case "e", "enter":
		if cat, ok := m.selected(); ok {
			return m, navigateTo(router.PathFor(router.EditCategory, map[string]string{"id": strconv.FormatInt(cat.ID, 10)}))
		}
	case "d":
		if _, ok := m.selected(); ok {
			m.confirmDelete = true
		}
	case "c":
		if cat, ok := m.selected(); ok {
			m.status = copyToClipboard(strconv.FormatInt(cat.ID, 10), "category ID")
		}
	}
	return m, nil
}

func (m categoriesModel) View() string {
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render("Categories") + "  " + metaStyle.Render(fmt.Sprintf("%d", len(m.categories))) + "\n\n")

	if m.loading && len(m.categories) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render("error: "+m.err) + "\n")
		return b.String()
	}
	if len(m.categories) == 0 {
		b.WriteString(" " + dimStyle.Render("no categories yet, press a to add one") + "\n")
		return b.String()
	}

	for i, cat := range m.categories {
		cursor := " "
		name := normalStyle.Render(padRight(cat.Name, 24))
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
			name = selectedStyle.Render(padRight(cat.Name, 24))
		}
		desc := dimStyle.Render(truncStr(cat.Description, 48))
		b.WriteString(fmt.Sprintf(" %s %s %s %s\n", cursor, metaStyle.Render(padRight("#"+strconv.FormatInt(cat.ID, 10), 6)), name, desc))
	}

	if m.confirmDelete {
		if cat, ok := m.selected(); ok {
			b.WriteString("\n " + warnStyle.Render(fmt.Sprintf("delete %q? y to confirm", cat.Name)) + "\n")
		}
	} else if m.status != "" {
		b.WriteString("\n " + m.status + "\n")
	}
	return b.String()
}

func (m categoriesModel) helpKeys() string {
	return helpBar("j/k", "nav", "a", "add", "e", "edit", "d", "delete", "c", "copy id", "r", "refresh")
}
