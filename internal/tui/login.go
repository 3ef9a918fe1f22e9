package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shopdesk/shopdesk/internal/router"
	"github.com/shopdesk/shopdesk/internal/session"
	"github.com/shopdesk/shopdesk/pkg/domain"
)

type loginMode int

const (
	loginCredentials loginMode = iota
	loginGoogle
)

const (
	fieldEmail = iota
	fieldPassword
)

// loginDoneMsg carries the outcome of either login call.
type loginDoneMsg struct {
	err error
}

type loginModel struct {
	auth   Authenticator
	sess   *session.Store
	mode   loginMode
	creds  formModel
	google formModel
	err    string
	busy   bool
}

func newLoginModel(auth Authenticator, sess *session.Store) loginModel {
	return loginModel{
		auth: auth,
		sess: sess,
		creds: newForm(
			formField{label: "email", placeholder: "you@example.com"},
			formField{label: "password", placeholder: "••••••", secret: true},
		),
		google: newForm(
			formField{label: "access token", placeholder: "paste a Google OAuth access token", secret: true},
		),
	}
}

func (m loginModel) Init() tea.Cmd {
	return nil
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.creds.set(fieldPassword, "")
		m.google.set(0, "")
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m loginModel) handleKey(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+g":
		if m.mode == loginCredentials {
			m.mode = loginGoogle
		} else {
			m.mode = loginCredentials
		}
		m.err = ""
		return m, nil
	case "ctrl+s":
		return m.submit()
	case "enter":
		if m.mode == loginGoogle || m.creds.onLast() {
			return m.submit()
		}
		m.creds.focus++
		return m, nil
	case "esc":
		return m, navigateTo(router.Landing)
	case "ctrl+r":
		return m, navigateTo(router.Register)
	}

	if m.mode == loginGoogle {
		m.google, _ = m.google.update(msg)
	} else {
		m.creds, _ = m.creds.update(msg)
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	auth, sess := m.auth, m.sess

	if m.mode == loginGoogle {
		tok := m.google.value(0)
		if tok == "" {
			m.err = "an access token is required"
			return m, nil
		}
		m.busy = true
		m.err = ""
		return m, func() tea.Msg {
			ctx := context.Background()
			resp, err := auth.LoginGoogle(ctx, tok)
			if err != nil {
				return loginDoneMsg{err: err}
			}
			return loginDoneMsg{err: sess.SignIn(ctx, resp)}
		}
	}

	creds := domain.Credentials{
		Email:    m.creds.value(fieldEmail),
		Password: m.creds.fields[fieldPassword].value,
	}
	if creds.Email == "" || creds.Password == "" {
		m.err = "email and password are required"
		return m, nil
	}
	m.busy = true
	m.err = ""
	return m, func() tea.Msg {
		ctx := context.Background()
		resp, err := auth.Login(ctx, creds)
		if err != nil {
			return loginDoneMsg{err: err}
		}
		return loginDoneMsg{err: sess.SignIn(ctx, resp)}
	}
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Sign in") + "\n\n")
	if m.mode == loginGoogle {
		b.WriteString(" " + dimStyle.Render("continue with Google") + "\n\n")
		b.WriteString(m.google.View())
	} else {
		b.WriteString(m.creds.View())
	}
	b.WriteString("\n")
	switch {
	case m.busy:
		b.WriteString(" " + dimStyle.Render("signing in...") + "\n")
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.err) + "\n")
	}
	return b.String()
}

func (m loginModel) helpKeys() string {
	other := "google"
	if m.mode == loginGoogle {
		other = "password"
	}
	return helpBar("tab", "next", "enter", "sign in", "ctrl+g", other, "ctrl+r", "register", "esc", "back")
}
