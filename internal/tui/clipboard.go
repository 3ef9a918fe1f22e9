package tui

import "github.com/atotto/clipboard"

// clipboardWrite is swapped out in tests; headless CI has no clipboard.
var clipboardWrite = clipboard.WriteAll

// copyToClipboard copies text and returns a rendered status line.
func copyToClipboard(text, what string) string {
	if err := clipboardWrite(text); err != nil {
		return errorStyle.Render("copy failed: " + err.Error())
	}
	return successStyle.Render(what + " copied")
}
