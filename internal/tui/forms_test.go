package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shopdesk/shopdesk/internal/router"
	"github.com/shopdesk/shopdesk/pkg/domain"
)

func TestFormFocusAndEditing(t *testing.T) {
	f := newForm(formField{label: "a"}, formField{label: "b"})

	f, _ = f.update(keyMsg("x"))
	f, _ = f.update(keyMsg("tab"))
	f, _ = f.update(keyMsg("y"))
	f, _ = f.update(keyMsg("backspace"))
	f, _ = f.update(keyMsg("z"))

	if f.value(0) != "x" || f.value(1) != "z" {
		t.Errorf("values = %q, %q", f.value(0), f.value(1))
	}
	if !f.onLast() {
		t.Error("focus should be on the last field")
	}

	f, _ = f.update(keyMsg("tab"))
	if f.focus != 0 {
		t.Errorf("focus = %d, want wrap to 0", f.focus)
	}
	f, _ = f.update(keyMsg("ctrl+u"))
	if f.value(0) != "" {
		t.Errorf("ctrl+u left %q", f.value(0))
	}
}

func TestFormIgnoresControlKeys(t *testing.T) {
	f := newForm(formField{label: "a"})
	f, consumed := f.update(tea.KeyMsg{Type: tea.KeyCtrlA})
	if consumed || f.value(0) != "" {
		t.Errorf("ctrl+a consumed=%v value=%q", consumed, f.value(0))
	}
}

func fillProductForm(m productFormModel, vals ...string) productFormModel {
	for i, v := range vals {
		m.form.set(i, v)
	}
	return m
}

func TestProductFormCreate(t *testing.T) {
	c := &stubCatalog{}
	m := newProductFormModel(c, 0)
	if m.Init() != nil {
		t.Fatal("add form should not load anything")
	}
	m = fillProductForm(m, "Mug", "MUG-1", "9.99", "12", "5", "INSTOCK", " ceramic ")

	m, cmd := m.Update(keyMsg("ctrl+s"))
	if cmd == nil || !m.saving {
		t.Fatal("ctrl+s did not submit")
	}
	m, cmd = m.Update(cmd())

	if len(c.created) != 1 {
		t.Fatalf("CreateProduct calls = %d, want 1", len(c.created))
	}
	want := domain.ProductInput{
		Name: "Mug", SKU: "MUG-1", Price: 9.99, Quantity: 12,
		CategoryID: 5, Status: "INSTOCK", Description: "ceramic",
	}
	if c.created[0] != want {
		t.Errorf("input = %+v, want %+v", c.created[0], want)
	}
	nav, ok := cmd().(navigateMsg)
	if !ok || nav.target != router.ProductList {
		t.Errorf("after save navigated to %+v", nav)
	}
}

func TestProductFormValidation(t *testing.T) {
	tests := []struct {
		name string
		vals []string
		want string
	}{
		{"missing name", []string{"", "", "1"}, "name is required"},
		{"bad price", []string{"Mug", "", "abc"}, "price must be"},
		{"negative price", []string{"Mug", "", "-1"}, "price must be"},
		{"bad quantity", []string{"Mug", "", "1", "1.5"}, "quantity must be"},
		{"bad category", []string{"Mug", "", "1", "", "x"}, "category id must be"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := &stubCatalog{}
			m := fillProductForm(newProductFormModel(c, 0), tc.vals...)
			m, cmd := m.Update(keyMsg("ctrl+s"))
			if cmd != nil {
				t.Fatal("invalid form submitted")
			}
			if !strings.Contains(m.err, tc.want) {
				t.Errorf("err = %q, want %q", m.err, tc.want)
			}
		})
	}
}

func TestProductFormEdit(t *testing.T) {
	c := &stubCatalog{products: []domain.Product{
		{ID: 4, Name: "Bowl", Price: 3, Quantity: 8, CategoryID: 5, Status: "LOWSTOCK"},
	}}
	m := newProductFormModel(c, 4)
	if !strings.Contains(m.View(), "loading") {
		t.Error("edit form should show loading before the product arrives")
	}
	m, _ = m.Update(m.Init()())

	if m.form.value(pfName) != "Bowl" || m.form.value(pfPrice) != "3.00" || m.form.value(pfCategory) != "5" {
		t.Fatalf("form not populated: %+v", m.form.fields)
	}
	if !strings.Contains(m.View(), "Edit product #4") {
		t.Error("title missing")
	}

	m.form.set(pfName, "Big bowl")
	m, cmd := m.Update(keyMsg("ctrl+s"))
	m.Update(cmd())

	got, ok := c.updated[4]
	if !ok || got.Name != "Big bowl" || got.Quantity != 8 {
		t.Errorf("UpdateProduct input = %+v", got)
	}
	if len(c.created) != 0 {
		t.Error("edit created a product")
	}
}

func TestProductFormEditLoadFailure(t *testing.T) {
	m := newProductFormModel(&stubCatalog{}, 404)
	m, _ = m.Update(m.Init()())
	if m.loading || !strings.Contains(m.err, "not found") {
		t.Errorf("loading=%v err=%q", m.loading, m.err)
	}
}

func TestProductFormSaveFailure(t *testing.T) {
	c := &stubCatalog{err: errors.New("422 invalid")}
	m := fillProductForm(newProductFormModel(c, 0), "Mug", "", "1")
	m, cmd := m.Update(keyMsg("ctrl+s"))
	m, next := m.Update(cmd())

	if next != nil {
		t.Error("failed save navigated away")
	}
	if !strings.Contains(m.View(), "422 invalid") {
		t.Error("save error not shown")
	}
}

func TestProductFormEscCancels(t *testing.T) {
	m := newProductFormModel(&stubCatalog{}, 0)
	_, cmd := m.Update(keyMsg("esc"))
	nav, ok := cmd().(navigateMsg)
	if !ok || nav.target != router.ProductList {
		t.Errorf("esc navigated to %+v", nav)
	}
}

func TestProductFormEnterAdvances(t *testing.T) {
	m := newProductFormModel(&stubCatalog{}, 0)
	m, cmd := m.Update(keyMsg("enter"))
	if cmd != nil || m.form.focus != 1 {
		t.Errorf("enter: focus=%d cmd=%v", m.form.focus, cmd != nil)
	}
}

func TestCategoryFormCreateAndEdit(t *testing.T) {
	c := &stubCatalog{categories: []domain.Category{{ID: 5, Name: "Kitchen", Description: "pots"}}}

	add := newCategoryFormModel(c, 0)
	add, cmd := add.Update(keyMsg("ctrl+s"))
	if cmd != nil || add.err != "name is required" {
		t.Fatalf("empty name: err=%q", add.err)
	}
	add.form.set(cfName, "Garden")
	add, cmd = add.Update(keyMsg("ctrl+s"))
	_, cmd = add.Update(cmd())
	if len(c.createdCats) != 1 || c.createdCats[0].Name != "Garden" {
		t.Fatalf("created = %+v", c.createdCats)
	}
	if nav, ok := cmd().(navigateMsg); !ok || nav.target != router.Categories {
		t.Errorf("after save navigated to %+v", nav)
	}

	edit := newCategoryFormModel(c, 5)
	edit, _ = edit.Update(edit.Init()())
	if edit.form.value(cfDescription) != "pots" {
		t.Fatalf("form not populated: %+v", edit.form.fields)
	}
	edit.form.set(cfDescription, "pots and pans")
	edit, cmd = edit.Update(keyMsg("ctrl+s"))
	edit.Update(cmd())
	if got := c.updatedCats[5]; got.Description != "pots and pans" || got.Name != "Kitchen" {
		t.Errorf("UpdateCategory input = %+v", got)
	}
}

func TestAppAddProductFlow(t *testing.T) {
	h := newHarness(t, "tok")
	h.start(t)
	h.press(t, "2", "a")
	if r := h.app.Route().Name; r != router.AddProduct {
		t.Fatalf("route = %q, want %q", r, router.AddProduct)
	}

	h.typeText(t, "Lamp")
	h.press(t, "tab", "tab")
	h.typeText(t, "15")
	h.press(t, "ctrl+s")

	if len(h.catalog.created) != 1 || h.catalog.created[0].Price != 15 {
		t.Fatalf("created = %+v", h.catalog.created)
	}
	if r := h.app.Route().Name; r != router.ProductList {
		t.Errorf("route = %q, want %q", r, router.ProductList)
	}
}

func TestAppEditCategoryFlow(t *testing.T) {
	h := newHarness(t, "tok")
	h.start(t)
	h.press(t, "3", "e")

	if r := h.app.Route(); r.Name != router.EditCategory || r.Param("id") != "5" {
		t.Fatalf("route = %+v", r)
	}
	if h.app.categoryForm.form.value(cfName) != "Kitchen" {
		t.Error("edit form not loaded")
	}
	h.press(t, "esc")
	if r := h.app.Route().Name; r != router.Categories {
		t.Errorf("route = %q, want %q", r, router.Categories)
	}
}
