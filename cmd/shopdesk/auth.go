package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"

	"github.com/shopdesk/shopdesk/internal/session"
	"github.com/shopdesk/shopdesk/pkg/domain"
)

// prompter reads answers from stdin, hiding secrets when stdin is a terminal.
type prompter struct {
	in  io.Reader
	r   *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: in, r: bufio.NewReader(in), out: out}
}

func (p *prompter) ask(label string) (string, error) {
	fmt.Fprint(p.out, label+": ")
	line, err := p.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", label, err)
	}
	return strings.TrimSpace(line), nil
}

func (p *prompter) askSecret(label string) (string, error) {
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(f.Fd()) {
		fmt.Fprint(p.out, label+": ")
		b, err := term.ReadPassword(f.Fd())
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", label, err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	return p.ask(label)
}

func runLogin(ctx context.Context, a *app, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(stdout)
	var creds domain.Credentials
	fs.StringVar(&creds.Email, "email", "", "account email")
	fs.StringVar(&creds.Password, "password", "", "account password (prompted when omitted)")
	fs.BoolVar(&creds.Remember, "remember", false, "ask the API for a long-lived session")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p := newPrompter(stdin, stdout)
	var err error
	if creds.Email == "" {
		if creds.Email, err = p.ask("Email"); err != nil {
			return err
		}
	}
	if creds.Password == "" {
		if creds.Password, err = p.askSecret("Password"); err != nil {
			return err
		}
	}
	if creds.Email == "" || creds.Password == "" {
		return errors.New("email and password are required")
	}

	resp, err := a.api.Login(ctx, creds)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return finishSignIn(ctx, a, resp, stdout)
}

func runLoginGoogle(ctx context.Context, a *app, args []string, stdin io.Reader, stdout io.Writer) error {
	var tok string
	if len(args) > 0 {
		tok = strings.TrimSpace(args[0])
	} else {
		var err error
		if tok, err = newPrompter(stdin, stdout).askSecret("Google access token"); err != nil {
			return err
		}
	}
	if tok == "" {
		return errors.New("a Google access token is required")
	}

	resp, err := a.api.LoginGoogle(ctx, tok)
	if err != nil {
		return fmt.Errorf("login-google: %w", err)
	}
	return finishSignIn(ctx, a, resp, stdout)
}

// finishSignIn stores the session and makes sure a profile is loaded.
func finishSignIn(ctx context.Context, a *app, resp *domain.LoginResponse, stdout io.Writer) error {
	if err := a.session.SignIn(ctx, resp); err != nil {
		return err
	}
	u := a.session.User()
	if u == nil {
		var err error
		if u, err = a.session.FetchUser(ctx); err != nil {
			return fmt.Errorf("signed in, but loading the profile failed so the session was dropped: %w", err)
		}
	}
	if u != nil {
		fmt.Fprintf(stdout, "Signed in as %s <%s>\n", u.Name, u.Email)
	} else {
		fmt.Fprintln(stdout, "Signed in.")
	}
	fmt.Fprintln(stdout, "Run shopdesk to open the dashboard.")
	return nil
}

func runLogout(ctx context.Context, a *app, stdout io.Writer) error {
	if !a.session.IsAuthenticated() {
		fmt.Fprintln(stdout, "Already logged out.")
		return nil
	}
	if err := a.session.ClearAuth(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	fmt.Fprintln(stdout, "Logged out.")
	return nil
}

func runWhoami(ctx context.Context, a *app, stdout io.Writer) error {
	if !a.session.IsAuthenticated() {
		fmt.Fprintln(stdout, "Not signed in. Run: shopdesk login")
		return nil
	}
	u, err := a.session.FetchUser(ctx)
	if err != nil {
		return fmt.Errorf("whoami: %w", err)
	}
	if u == nil {
		fmt.Fprintln(stdout, "Signed in, but the API returned no profile.")
		return nil
	}

	fmt.Fprintf(stdout, "%s <%s>\n", u.Name, u.Email)
	snap := a.session.Snapshot()
	if len(snap.Roles) > 0 {
		fmt.Fprintf(stdout, "roles:       %s\n", strings.Join(snap.Roles, ", "))
	}
	if session.IsAdmin(u) || session.IsSuperAdmin(snap.Roles) {
		fmt.Fprintln(stdout, "access:      administrator")
	}
	fmt.Fprintf(stdout, "permissions: %d\n", len(snap.Permissions))
	if exp, ok := session.TokenExpiry(snap.Token); ok {
		fmt.Fprintf(stdout, "expires:     %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}
