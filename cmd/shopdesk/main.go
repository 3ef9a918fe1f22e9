package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/shopdesk/shopdesk/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "--version", "version", "-v":
		fmt.Fprintln(stdout, "shopdesk "+version)
		return nil
	case "help", "--help", "-h":
		printHelp(stdout)
		return nil
	case "", "login", "login-google", "logout", "whoami":
	default:
		return fmt.Errorf("unknown command %q (run: shopdesk help)", cmd)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	switch cmd {
	case "login":
		return runLogin(ctx, a, args, stdin, stdout)
	case "login-google":
		return runLoginGoogle(ctx, a, args, stdin, stdout)
	case "logout":
		return runLogout(ctx, a, stdout)
	case "whoami":
		return runWhoami(ctx, a, stdout)
	}
	return a.runTUI(ctx)
}
