package tui

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shopdesk/shopdesk/internal/router"
	"github.com/shopdesk/shopdesk/internal/session"
	"github.com/shopdesk/shopdesk/pkg/domain"
)

// Authenticator exchanges credentials for a session token.
type Authenticator interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResponse, error)
	LoginGoogle(ctx context.Context, accessToken string) (*domain.LoginResponse, error)
}

// Catalog is the product and category API the dashboard edits.
type Catalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// Deps are the collaborators the App is built from.
type Deps struct {
	Auth    Authenticator
	Catalog Catalog
	Session *session.Store
	Router  *router.Router
	// WebURL is the browser dashboard, used for registration links.
	WebURL string
	// Start is the first navigation target; defaults to the dashboard.
	Start string
}

// navigateMsg asks the App to move to a route name or path.
type navigateMsg struct {
	target string
}

func navigateTo(target string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{target: target} }
}

// navigatedMsg carries the route the guard finally allowed.
type navigatedMsg struct {
	route router.Route
	err   error
}

// SessionExpiredMsg reports that the API rejected the session token and
// the store has been cleared. The current route is guarded again.
type SessionExpiredMsg struct{}

type loggedOutMsg struct {
	err error
}

// App is the root Bubbletea model.
type App struct {
	deps Deps

	route      router.Route
	navigating bool
	status     string

	login        loginModel
	dashboard    dashboardModel
	products     productsModel
	productForm  productFormModel
	categories   categoriesModel
	categoryForm categoryFormModel
	page         pageModel

	width  int
	height int
	frame  int // logo shimmer animation frame
}

// NewApp creates a new TUI application.
func NewApp(d Deps) App {
	if d.Start == "" {
		d.Start = router.Dashboard
	}
	return App{
		deps:       d,
		navigating: true,
		login:      newLoginModel(d.Auth, d.Session),
		dashboard:  newDashboardModel(d.Session),
	}
}

// Route returns the route currently shown.
func (a App) Route() router.Route {
	return a.route
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), a.navigate(a.deps.Start))
}

// navigate runs the guarded router off the update loop.
func (a App) navigate(target string) tea.Cmd {
	r := a.deps.Router
	return func() tea.Msg {
		route, err := r.Navigate(context.Background(), target)
		return navigatedMsg{route: route, err: err}
	}
}

// enter builds the view for the current route.
func (a App) enter() (App, tea.Cmd) {
	d := a.deps
	switch a.route.Name {
	case router.Login, router.LoginPage:
		a.login = newLoginModel(d.Auth, d.Session)
	case router.Dashboard:
		a.dashboard = newDashboardModel(d.Session)
	case router.ProductList:
		a.products = newProductsModel(d.Catalog)
		return a, a.products.Init()
	case router.AddProduct:
		a.productForm = newProductFormModel(d.Catalog, 0)
	case router.EditProduct:
		id, ok := routeID(a.route)
		if !ok {
			return a, a.navigate(router.NotFound)
		}
		a.productForm = newProductFormModel(d.Catalog, id)
		return a, a.productForm.Init()
	case router.Categories:
		a.categories = newCategoriesModel(d.Catalog)
		return a, a.categories.Init()
	case router.AddCategory:
		a.categoryForm = newCategoryFormModel(d.Catalog, 0)
	case router.EditCategory:
		id, ok := routeID(a.route)
		if !ok {
			return a, a.navigate(router.NotFound)
		}
		a.categoryForm = newCategoryFormModel(d.Catalog, id)
		return a, a.categoryForm.Init()
	default:
		a.page = newPageModel(a.route, d.WebURL, "")
	}
	return a, nil
}

func routeID(r router.Route) (int64, bool) {
	id, err := strconv.ParseInt(r.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.products, _ = a.products.Update(bodyMsg)
		a.categories, _ = a.categories.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case navigateMsg:
		a.navigating = true
		a.status = ""
		return a, a.navigate(msg.target)

	case navigatedMsg:
		a.navigating = false
		if msg.err != nil {
			a.route = router.Resolve(router.Error)
			a.page = newPageModel(a.route, a.deps.WebURL, msg.err.Error())
			return a, nil
		}
		a.route = msg.route
		return a.enter()

	case SessionExpiredMsg:
		a.status = warnStyle.Render("session expired, please sign in again")
		target := a.route.Path
		if target == "" {
			target = a.deps.Start
		}
		return a, a.navigate(target)

	case loggedOutMsg:
		if msg.err != nil {
			a.status = errorStyle.Render("logout: " + msg.err.Error())
		}
		return a, a.navigate(router.Login)

	case loginDoneMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		if msg.err == nil {
			return a, a.navigate(router.Dashboard)
		}
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.navigating {
			return a, nil
		}
		if !a.isEditing() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "1":
				return a, navigateTo(router.Dashboard)
			case "2":
				return a, navigateTo(router.ProductList)
			case "3":
				return a, navigateTo(router.Categories)
			case "L":
				if a.deps.Session.IsAuthenticated() {
					s := a.deps.Session
					return a, func() tea.Msg {
						return loggedOutMsg{err: s.ClearAuth(context.Background())}
					}
				}
			}
		}
	}

	var cmd tea.Cmd
	switch a.route.Name {
	case router.Login, router.LoginPage:
		a.login, cmd = a.login.Update(msg)
	case router.Dashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case router.ProductList:
		a.products, cmd = a.products.Update(msg)
	case router.AddProduct, router.EditProduct:
		a.productForm, cmd = a.productForm.Update(msg)
	case router.Categories:
		a.categories, cmd = a.categories.Update(msg)
	case router.AddCategory, router.EditCategory:
		a.categoryForm, cmd = a.categoryForm.Update(msg)
	case "":
	default:
		a.page, cmd = a.page.Update(msg)
	}
	return a, cmd
}

// isEditing reports whether keys belong to a text field or prompt.
func (a App) isEditing() bool {
	switch a.route.Name {
	case router.Login, router.LoginPage,
		router.AddProduct, router.EditProduct,
		router.AddCategory, router.EditCategory:
		return true
	case router.ProductList:
		return a.products.confirmDelete
	case router.Categories:
		return a.categories.confirmDelete
	}
	return false
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)

	// Identity line below the logo
	var ident string
	if u := a.deps.Session.User(); u != nil {
		ident = metaStyle.Render(u.Name)
		if roles := a.deps.Session.Roles(); len(roles) > 0 {
			ident += metaStyle.Render(" . ") + roleStyle.Render(roles[0])
		}
	} else if !a.deps.Session.IsAuthenticated() {
		ident = dimStyle.Render("signed out")
	}

	header := center(logo, a.width) + "\n"
	if ident != "" {
		header += center(ident, a.width)
	}

	// Tab bar: only meaningful behind the guard
	var tabs string
	if a.deps.Session.IsAuthenticated() {
		type tabEntry struct {
			key   string
			name  string
			match []string
		}
		entries := []tabEntry{
			{"1", "Dashboard", []string{router.Dashboard}},
			{"2", "Products", []string{router.ProductList, router.AddProduct, router.EditProduct}},
			{"3", "Categories", []string{router.Categories, router.AddCategory, router.EditCategory}},
		}
		colWidth := a.width / len(entries)
		var bar strings.Builder
		for _, t := range entries {
			var label string
			if slices.Contains(t.match, a.route.Name) {
				label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
			} else {
				label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
			}
			bar.WriteString(padCell(label, colWidth))
		}
		tabs = bar.String()
	}

	var body, help string
	switch a.route.Name {
	case router.Login, router.LoginPage:
		body, help = a.login.View(), a.login.helpKeys()
	case router.Dashboard:
		body, help = a.dashboard.View(), a.dashboard.helpKeys()+"  "+helpEntry("1-3", "tabs")+"  "+helpEntry("L", "logout")
	case router.ProductList:
		body, help = a.products.View(), a.products.helpKeys()+"  "+helpEntry("1-3", "tabs")
	case router.AddProduct, router.EditProduct:
		body, help = a.productForm.View(), a.productForm.helpKeys()
	case router.Categories:
		body, help = a.categories.View(), a.categories.helpKeys()+"  "+helpEntry("1-3", "tabs")
	case router.AddCategory, router.EditCategory:
		body, help = a.categoryForm.View(), a.categoryForm.helpKeys()
	case "":
	default:
		body, help = a.page.View(), a.page.helpKeys()
	}
	if !a.isEditing() {
		help += "  " + helpEntry("q", "quit")
	}

	if a.navigating && a.route.Name == "" {
		body = "\n " + dimStyle.Render("loading...")
	}
	if a.status != "" {
		body = " " + a.status + "\n" + body
	}

	// Chrome budget: header(2) + tabs(1) + help(1) = 4 lines + body
	if a.height > 0 {
		body = truncateToHeight(body, a.height-4)
	}
	body = strings.TrimRight(body, "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabs, body, help)
}

func center(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

func padCell(s string, width int) string {
	w := lipgloss.Width(s)
	left := (width - w) / 2
	if left < 0 {
		left = 0
	}
	right := width - w - left
	if right < 0 {
		right = 0
	}
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}
