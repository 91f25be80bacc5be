package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// readCaseInput resolves the raw case text from exactly one of: a file
// argument, stdin, or the system clipboard. Asking for more than one
// source is an error rather than a silent priority pick.
func readCaseInput(args []string, fromStdin, fromClipboard bool) (string, error) {
	sources := 0
	if len(args) > 0 {
		sources++
	}
	if fromStdin {
		sources++
	}
	if fromClipboard {
		sources++
	}
	if sources == 0 {
		return "", fmt.Errorf("no input: pass a file, --stdin, or --clipboard")
	}
	if sources > 1 {
		return "", fmt.Errorf("pick one input source: file argument, --stdin, or --clipboard")
	}

	switch {
	case fromStdin:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	case fromClipboard:
		return readClipboard()
	default:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return string(data), nil
	}
}

// readClipboard shells out to the platform paste command. Linux tries
// wl-paste before xclip so Wayland sessions work without X tooling.
func readClipboard() (string, error) {
	var candidates [][]string
	switch runtime.GOOS {
	case "darwin":
		candidates = [][]string{{"pbpaste"}}
	case "windows":
		candidates = [][]string{{"powershell", "-NoProfile", "-Command", "Get-Clipboard"}}
	default:
		candidates = [][]string{
			{"wl-paste", "--no-newline"},
			{"xclip", "-selection", "clipboard", "-o"},
		}
	}

	var lastErr error
	for _, argv := range candidates {
		out, err := exec.Command(argv[0], argv[1:]...).Output()
		if err != nil {
			lastErr = err
			continue
		}
		return string(out), nil
	}
	return "", fmt.Errorf("failed to read clipboard: %w", lastErr)
}
