// Package ui holds the terminal color palette shared by the lyrics display and CLI output.
//
// A [Palette] is bound to an output writer through a [lipgloss.Renderer], so
// styles degrade to plain text when the writer is not a terminal (pipes, files,
// test buffers).
package ui
