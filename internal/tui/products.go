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

// -- messages --

type productsLoadedMsg struct {
	products []domain.Product
	err      error
}

type productDeletedMsg struct {
	id  int64
	err error
}

// -- model --

type productsModel struct {
	catalog       Catalog
	products      []domain.Product
	cursor        int
	loading       bool
	err           string
	status        string
	confirmDelete bool
	width         int
	height        int
}

func newProductsModel(c Catalog) productsModel {
	return productsModel{catalog: c, loading: true}
}

func (m productsModel) Init() tea.Cmd {
	return m.load()
}

func (m productsModel) load() tea.Cmd {
	c := m.catalog
	return func() tea.Msg {
		products, err := c.ListProducts(context.Background())
		return productsLoadedMsg{products: products, err: err}
	}
}

func (m productsModel) selected() (domain.Product, bool) {
	if m.cursor < 0 || m.cursor >= len(m.products) {
		return domain.Product{}, false
	}
	return m.products[m.cursor], true
}

func (m productsModel) Update(msg tea.Msg) (productsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case productsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.products = msg.products
		if m.cursor >= len(m.products) {
			m.cursor = max(0, len(m.products)-1)
		}

	case productDeletedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("delete failed: " + msg.err.Error())
			return m, nil
		}
		m.status = successStyle.Render(fmt.Sprintf("product #%d deleted", msg.id))
		m.loading = true
		return m, m.load()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m productsModel) handleKey(msg tea.KeyMsg) (productsModel, tea.Cmd) {
	key := msg.String()
	if m.confirmDelete {
		m.confirmDelete = false
		p, ok := m.selected()
		if key != "y" || !ok {
			m.status = dimStyle.Render("delete cancelled")
			return m, nil
		}
		c := m.catalog
		id := p.ID
		return m, func() tea.Msg {
			return productDeletedMsg{id: id, err: c.DeleteProduct(context.Background(), id)}
		}
	}

	m.status = ""
	switch key {
	case "j", "down":
		if m.cursor < len(m.products)-1 {
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
		return m, navigateTo(router.AddProduct)
	case "e", "enter":
		if p, ok := m.selected(); ok {
			return m, navigateTo(router.PathFor(router.EditProduct, map[string]string{"id": strconv.FormatInt(p.ID, 10)}))
		}
	case "d":
		if _, ok := m.selected(); ok {
			m.confirmDelete = true
		}
	case "c":
		if p, ok := m.selected(); ok {
			m.status = copyToClipboard(strconv.FormatInt(p.ID, 10), "product ID")
		}
	}
	return m, nil
}

func (m productsModel) View() string {
	var b strings.Builder
	b.WriteString(" " + titleStyle.Render("Products") + "  " + metaStyle.Render(fmt.Sprintf("%d", len(m.products))) + "\n\n")

	if m.loading && len(m.products) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errorStyle.Render("error: "+m.err) + "\n")
		return b.String()
	}
	if len(m.products) == 0 {
		b.WriteString(" " + dimStyle.Render("no products yet, press a to add one") + "\n")
		return b.String()
	}

	header := fmt.Sprintf("   %s %s %s %s %s %s",
		padRight("ID", 6), padRight("NAME", 28), padRight("CATEGORY", 16),
		padRight("PRICE", 10), padRight("QTY", 6), "STATUS")
	b.WriteString(labelStyle.Render(header) + "\n")

	for i, p := range m.products {
		cursor := " "
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
		}
		row := fmt.Sprintf("%s %s %s %s %s",
			padRight(strconv.FormatInt(p.ID, 10), 6),
			padRight(p.Name, 28),
			padRight(p.CategoryName(), 16),
			padRight(formatPrice(p.Price), 10),
			padRight(strconv.Itoa(p.Quantity), 6),
		)
		if i == m.cursor {
			row = selectedRowBg.Render(selectedStyle.Render(row))
		} else {
			row = normalStyle.Render(row)
		}
		b.WriteString(" " + cursor + " " + row + StatusStyle(p.Status).Render(p.Status) + "\n")
	}

	if m.confirmDelete {
		if p, ok := m.selected(); ok {
			b.WriteString("\n " + warnStyle.Render(fmt.Sprintf("delete %q? y to confirm", p.Name)) + "\n")
		}
	} else if m.status != "" {
		b.WriteString("\n " + m.status + "\n")
	}
	return b.String()
}

func (m productsModel) helpKeys() string {
	return helpBar("j/k", "nav", "a", "add", "e", "edit", "d", "delete", "c", "copy id", "r", "refresh")
}
