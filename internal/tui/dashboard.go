package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shopdesk/shopdesk/internal/router"
	"github.com/shopdesk/shopdesk/internal/session"
)

type profileRefreshedMsg struct {
	err error
}

// dashboardModel shows who is signed in and what they may do.
type dashboardModel struct {
	sess       *session.Store
	refreshing bool
	now        func() time.Time
}

func newDashboardModel(s *session.Store) dashboardModel {
	return dashboardModel{sess: s, now: time.Now}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileRefreshedMsg:
		m.refreshing = false
		if msg.err != nil {
			// The store dropped the session; let the guard decide where to go.
			return m, navigateTo(router.Dashboard)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			if m.refreshing {
				return m, nil
			}
			m.refreshing = true
			s := m.sess
			return m, func() tea.Msg {
				_, err := s.FetchUser(context.Background())
				return profileRefreshedMsg{err: err}
			}
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	snap := m.sess.Snapshot()
	var b strings.Builder

	b.WriteString("\n " + titleStyle.Render("Dashboard") + "  " + metaStyle.Render(m.sess.State().String()) + "\n\n")

	u := snap.User
	if u == nil {
		if snap.UserLoading {
			b.WriteString(" " + dimStyle.Render("loading profile...") + "\n")
		} else {
			b.WriteString(" " + dimStyle.Render("no profile loaded") + "\n")
		}
		return b.String()
	}

	row := func(label, value string) {
		b.WriteString(" " + labelStyle.Render(padRight(label, 12)) + " " + value + "\n")
	}

	row("name", selectedStyle.Render(u.Name))
	row("email", normalStyle.Render(u.Email))
	if u.ID != 0 {
		row("id", metaStyle.Render(fmt.Sprintf("#%d", u.ID)))
	}

	var badges []string
	if session.IsSuperAdmin(snap.Roles) {
		badges = append(badges, roleStyle.Render(session.SuperAdminRole))
	}
	if session.IsAdmin(u) {
		badges = append(badges, accentStyle.Render("administrator"))
	}
	if len(badges) > 0 {
		row("access", strings.Join(badges, " "))
	}

	if len(snap.Roles) == 0 {
		row("roles", dimStyle.Render("none"))
	} else {
		styled := make([]string, len(snap.Roles))
		for i, r := range snap.Roles {
			styled[i] = roleStyle.Render(r)
		}
		row("roles", strings.Join(styled, dimStyle.Render(", ")))
	}

	if len(snap.Permissions) == 0 {
		row("permissions", dimStyle.Render("none"))
	} else {
		row("permissions", normalStyle.Render(fmt.Sprintf("%d granted", len(snap.Permissions))))
		for _, p := range snap.Permissions {
			b.WriteString(" " + strings.Repeat(" ", 13) + dimStyle.Render("· "+p) + "\n")
		}
	}

	row("session", m.expiryLine(snap.Token))

	if m.refreshing {
		b.WriteString("\n " + dimStyle.Render("refreshing profile...") + "\n")
	}
	return b.String()
}

// expiryLine describes the token's exp claim. It is informational only.
func (m dashboardModel) expiryLine(token string) string {
	exp, ok := session.TokenExpiry(token)
	if !ok {
		return dimStyle.Render("no expiry claim")
	}
	if exp.Before(m.now()) {
		return warnStyle.Render("token expired " + formatTime(exp))
	}
	return successStyle.Render("token expires " + formatTime(exp))
}

func (m dashboardModel) helpKeys() string {
	return helpBar("r", "refresh profile")
}
