// Package browser opens URLs in the user's default browser.
package browser

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// start launches the command without waiting for it. Tests replace it.
var start = func(cmd *exec.Cmd) error {
	return cmd.Start()
}

// command builds the launcher invocation for goos.
func command(goos, url string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", url), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", url), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url), nil
	default:
		return nil, fmt.Errorf("browser: unsupported OS: %s", goos)
	}
}

// Open opens the specified URL in the user's default browser.
func Open(url string) error {
	if url == "" {
		return errors.New("browser: empty URL")
	}
	cmd, err := command(runtime.GOOS, url)
	if err != nil {
		return err
	}
	return start(cmd)
}
