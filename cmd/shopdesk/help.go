package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

func printHelp(w io.Writer) {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#60a5fa")).
		Bold(true).
		Render("S H O P D E S K")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Your catalogue, from the terminal.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"shopdesk", "Open the dashboard (interactive TUI)"},
		{"shopdesk login", "Sign in with email and password"},
		{"shopdesk login-google TOKEN", "Sign in with a Google access token"},
		{"shopdesk logout", "Clear your session"},
		{"shopdesk whoami", "Show the signed-in account"},
		{"shopdesk --version", "Show version"},
		{"shopdesk help", "You are here"},
	}

	fmt.Fprintf(w, "\n  %s\n\n  %s\n\n  Commands:\n", title, tagline)
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-28s", c.cmd)), descStyle.Render(c.desc))
	}

	vars := []struct{ name, desc string }{
		{"SHOPDESK_API_URL", "API base URL"},
		{"SHOPDESK_WEB_URL", "web dashboard, for registration"},
		{"SHOPDESK_TOKEN", "use this token instead of the stored one"},
		{"SHOPDESK_TOKEN_STORE", "file, redis or memory"},
		{"SHOPDESK_ATTACH_BEARER", "send the token as a bearer header"},
		{"SHOPDESK_LOGOUT_ON_401", "end the session when the API answers 401"},
		{"SHOPDESK_LOG_FILE", "write debug logs here"},
	}
	fmt.Fprintf(w, "\n  Environment:\n")
	for _, v := range vars {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-28s", v.name)), descStyle.Render(v.desc))
	}
	fmt.Fprintln(w)
}
