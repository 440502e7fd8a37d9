package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// browserCommands maps GOOS to the program that hands a URL to the desktop's default handler.
var browserCommands = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"freebsd": {"xdg-open"},
	"openbsd": {"xdg-open"},
	"windows": {"rundll32", "url.dll,FileProtocolHandler"},
}

var startCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// BrowserCommand returns the argv that opens url on goos.
func BrowserCommand(goos, url string) ([]string, error) {
	base, ok := browserCommands[goos]
	if !ok {
		return nil, fmt.Errorf("%w: no browser launcher for %s", ErrServiceUnavailable, goos)
	}
	return append(append([]string{}, base...), url), nil
}

// OpenBrowser opens the default system browser at url without waiting for it to exit.
//
// Used by `lyrx auth spotify` to start the authorization flow.
func OpenBrowser(url string) error {
	argv, err := BrowserCommand(runtime.GOOS, url)
	if err != nil {
		return err
	}

	if err := startCommand(argv[0], argv[1:]...); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
