package shared

import (
	"errors"
	"runtime"
	"slices"
	"testing"
)

func TestBrowserCommand(t *testing.T) {
	const url = "https://accounts.spotify.com/authorize?state=x"

	tt := []struct {
		goos    string
		want    []string
		wantErr bool
	}{
		{goos: "darwin", want: []string{"open", url}},
		{goos: "linux", want: []string{"xdg-open", url}},
		{goos: "windows", want: []string{"rundll32", "url.dll,FileProtocolHandler", url}},
		{goos: "plan9", wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.goos, func(t *testing.T) {
			got, err := BrowserCommand(tc.goos, url)
			if tc.wantErr {
				if !errors.Is(err, ErrServiceUnavailable) {
					t.Errorf("expected ErrServiceUnavailable, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !slices.Equal(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}

	t.Run("does not alias the table", func(t *testing.T) {
		first, _ := BrowserCommand("linux", "a")
		second, _ := BrowserCommand("linux", "b")
		if first[1] != "a" || second[1] != "b" {
			t.Errorf("unexpected argv %v %v", first, second)
		}
	})
}

func TestOpenBrowser(t *testing.T) {
	if _, ok := browserCommands[runtime.GOOS]; !ok {
		t.Skipf("no launcher for %s", runtime.GOOS)
	}

	orig := startCommand
	defer func() { startCommand = orig }()

	t.Run("starts the launcher", func(t *testing.T) {
		var gotName string
		var gotArgs []string
		startCommand = func(name string, args ...string) error {
			gotName, gotArgs = name, args
			return nil
		}

		if err := OpenBrowser("http://127.0.0.1:3000"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotName != browserCommands[runtime.GOOS][0] {
			t.Errorf("unexpected launcher %q", gotName)
		}
		if gotArgs[len(gotArgs)-1] != "http://127.0.0.1:3000" {
			t.Errorf("expected url as last argument, got %v", gotArgs)
		}
	})

	t.Run("wraps start failure", func(t *testing.T) {
		startCommand = func(name string, args ...string) error {
			return errors.New("not found")
		}

		if err := OpenBrowser("http://x"); err == nil {
			t.Error("expected an error")
		}
	})
}
