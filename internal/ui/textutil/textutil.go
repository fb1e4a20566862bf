// Package textutil provides width-aware text helpers for terminal rendering.
package textutil

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// Width returns the number of terminal columns s occupies. ANSI styling is
// ignored.
func Width(s string) int {
	return lipgloss.Width(s)
}

// Truncate shortens plain text to at most maxWidth columns, ending in an
// ellipsis when anything was cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, Ellipsis)
}

// Center pads each line of s with leading spaces so it sits in the middle of
// width columns. Lines wider than width are left alone.
func Center(s string, width int) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if pad := (width - Width(line)) / 2; pad > 0 {
			lines[i] = strings.Repeat(" ", pad) + line
		}
	}
	return strings.Join(lines, "\n")
}

// PadLeft right-aligns s in width columns. Wider text is returned as is.
func PadLeft(s string, width int) string {
	if pad := width - Width(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}

// JoinFit joins parts with sep, dropping trailing parts (and appending an
// ellipsis) once the result would exceed maxWidth columns.
func JoinFit(parts []string, sep string, maxWidth int) string {
	var b strings.Builder
	for i, p := range parts {
		next := p
		if i > 0 {
			next = sep + p
		}
		if maxWidth > 0 && Width(b.String())+Width(next) > maxWidth {
			if b.Len() == 0 {
				return Truncate(p, maxWidth)
			}
			b.WriteString(sep + Ellipsis)
			break
		}
		b.WriteString(next)
	}
	return b.String()
}
