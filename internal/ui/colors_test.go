package ui

import (
	"bytes"
	"testing"
)

func TestPalette(t *testing.T) {
	t.Run("Plain Text Without Terminal", func(t *testing.T) {
		p := DefaultPalette(&bytes.Buffer{})

		tests := []struct {
			name   string
			render func(string) string
		}{
			{name: "title", render: p.Title},
			{name: "ok", render: p.OK},
			{name: "err", render: p.Err},
			{name: "warn", render: p.Warn},
			{name: "help", render: p.Help},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := tt.render("Song A"); got != "Song A" {
					t.Errorf("expected unstyled text, got %q", got)
				}
			})
		}
	})

	t.Run("Styles", func(t *testing.T) {
		p := DefaultPalette(&bytes.Buffer{})
		if !p.title.GetBold() || !p.err.GetBold() {
			t.Error("title and error styles should be bold")
		}
		if !p.help.GetItalic() {
			t.Error("help style should be italic")
		}
	})
}
