package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shopdesk/shopdesk/internal/browser"
	"github.com/shopdesk/shopdesk/internal/router"
)

// openBrowser is replaced in tests.
var openBrowser = browser.Open

// pageModel renders the static routes: landing, register, not-found,
// access-denied and error.
type pageModel struct {
	route  router.Route
	webURL string
	detail string
	status string
}

func newPageModel(r router.Route, webURL, detail string) pageModel {
	return pageModel{route: r, webURL: strings.TrimRight(webURL, "/"), detail: detail}
}

// webLink is the browser address of the current page on the web dashboard.
func (m pageModel) webLink() string {
	return m.webURL + m.route.Path
}

func (m pageModel) Update(msg tea.Msg) (pageModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch m.route.Name {
	case router.Landing:
		switch key.String() {
		case "enter", "l":
			return m, navigateTo(router.Login)
		case "r":
			return m, navigateTo(router.Register)
		case "o":
			m.status = m.open(m.webURL + "/")
		}
	case router.Register:
		switch key.String() {
		case "enter", "o":
			m.status = m.open(m.webLink())
		case "esc", "l":
			return m, navigateTo(router.Login)
		}
	default:
		switch key.String() {
		case "enter", "esc":
			return m, navigateTo(router.Dashboard)
		case "l":
			return m, navigateTo(router.Login)
		}
	}
	return m, nil
}

func (m pageModel) open(url string) string {
	if err := openBrowser(url); err != nil {
		return errorStyle.Render("could not open browser: " + err.Error())
	}
	return successStyle.Render("opened " + url)
}

func (m pageModel) View() string {
	var b strings.Builder
	line := func(s string) { b.WriteString(" " + s + "\n") }

	b.WriteString("\n")
	switch m.route.Name {
	case router.Landing:
		line(titleStyle.Render("Manage your catalogue from the terminal"))
		line("")
		line(normalStyle.Render("Products, categories and your team's access in one place."))
		line(dimStyle.Render("Sign in with your dashboard account, or create one on the web."))
	case router.Register:
		line(titleStyle.Render("Create an account"))
		line("")
		line(normalStyle.Render("Registration happens on the web dashboard:"))
		line(accentStyle.Render(m.webLink()))
	case router.AccessDenied:
		line(errorStyle.Render("Access denied"))
		line("")
		line(normalStyle.Render("You do not have the permissions needed for this page."))
	case router.Error:
		line(errorStyle.Render("Something went wrong"))
		line("")
		if m.detail != "" {
			line(dimStyle.Render(m.detail))
		}
	default:
		line(warnStyle.Render("404") + "  " + titleStyle.Render("Page not found"))
		line("")
		if m.detail != "" {
			line(dimStyle.Render(m.detail))
		}
		line(normalStyle.Render("The page you asked for does not exist."))
	}
	if m.status != "" {
		b.WriteString("\n " + m.status + "\n")
	}
	return b.String()
}

func (m pageModel) helpKeys() string {
	switch m.route.Name {
	case router.Landing:
		return helpBar("enter", "sign in", "r", "register", "o", "open web")
	case router.Register:
		return helpBar("enter", "open in browser", "esc", "sign in")
	}
	return helpBar("enter", "dashboard", "l", "sign in")
}
