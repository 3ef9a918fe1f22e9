package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shopdesk/shopdesk/internal/router"
	"github.com/shopdesk/shopdesk/pkg/domain"
)

const (
	pfName = iota
	pfSKU
	pfPrice
	pfQuantity
	pfCategory
	pfStatus
	pfDescription
)

type productFetchedMsg struct {
	product *domain.Product
	err     error
}

type productSavedMsg struct {
	product *domain.Product
	err     error
}

type productFormModel struct {
	catalog Catalog
	id      int64 // 0 when adding
	form    formModel
	loading bool
	saving  bool
	err     string
}

func newProductFormModel(c Catalog, id int64) productFormModel {
	return productFormModel{
		catalog: c,
		id:      id,
		loading: id != 0,
		form: newForm(
			formField{label: "name", placeholder: "Ceramic mug"},
			formField{label: "sku", placeholder: "MUG-001"},
			formField{label: "price", placeholder: "9.99"},
			formField{label: "quantity", placeholder: "0"},
			formField{label: "category id", placeholder: "optional"},
			formField{label: "status", placeholder: "INSTOCK"},
			formField{label: "description", placeholder: "optional"},
		),
	}
}

func (m productFormModel) Init() tea.Cmd {
	if m.id == 0 {
		return nil
	}
	c, id := m.catalog, m.id
	return func() tea.Msg {
		p, err := c.GetProduct(context.Background(), id)
		return productFetchedMsg{product: p, err: err}
	}
}

func (m productFormModel) Update(msg tea.Msg) (productFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case productFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		if p := msg.product; p != nil {
			m.form.set(pfName, p.Name)
			m.form.set(pfSKU, p.SKU)
			m.form.set(pfPrice, formatPrice(p.Price))
			m.form.set(pfQuantity, strconv.Itoa(p.Quantity))
			if p.CategoryID != 0 {
				m.form.set(pfCategory, strconv.FormatInt(p.CategoryID, 10))
			}
			m.form.set(pfStatus, p.Status)
			m.form.set(pfDescription, p.Description)
		}
		return m, nil

	case productSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		return m, navigateTo(router.ProductList)

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
			return m, navigateTo(router.ProductList)
		}
		m.err = ""
		m.form, _ = m.form.update(msg)
	}
	return m, nil
}

// input parses the form into a payload.
func (m productFormModel) input() (domain.ProductInput, error) {
	in := domain.ProductInput{
		Name:        m.form.value(pfName),
		SKU:         m.form.value(pfSKU),
		Status:      m.form.value(pfStatus),
		Description: m.form.value(pfDescription),
	}
	if in.Name == "" {
		return in, errors.New("name is required")
	}
	price, err := strconv.ParseFloat(m.form.value(pfPrice), 64)
	if err != nil || price < 0 {
		return in, errors.New("price must be a non-negative number")
	}
	in.Price = price
	if q := m.form.value(pfQuantity); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			return in, errors.New("quantity must be a non-negative whole number")
		}
		in.Quantity = n
	}
	if c := m.form.value(pfCategory); c != "" {
		id, err := strconv.ParseInt(c, 10, 64)
		if err != nil || id <= 0 {
			return in, errors.New("category id must be a positive number")
		}
		in.CategoryID = id
	}
	return in, nil
}

func (m productFormModel) submit() (productFormModel, tea.Cmd) {
	in, err := m.input()
	if err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.saving = true
	m.err = ""
	c, id := m.catalog, m.id
	return m, func() tea.Msg {
		ctx := context.Background()
		if id == 0 {
			p, err := c.CreateProduct(ctx, in)
			return productSavedMsg{product: p, err: err}
		}
		p, err := c.UpdateProduct(ctx, id, in)
		return productSavedMsg{product: p, err: err}
	}
}

func (m productFormModel) View() string {
	var b strings.Builder
	title := "New product"
	if m.id != 0 {
		title = fmt.Sprintf("Edit product #%d", m.id)
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

func (m productFormModel) helpKeys() string {
	return helpBar("tab", "next", "ctrl+s", "save", "esc", "cancel")
}
