package ui

import (
	"strings"
	"testing"
)

func TestPalette(t *testing.T) {
	p := NewPalette("#000000", "#000000", "#000000", "#000000")

	for name, render := range map[string]func(string) string{
		"Title": p.Title,
		"OK":    p.OK,
		"Warn":  p.Warn,
		"Help":  p.Help,
	} {
		t.Run(name, func(t *testing.T) {
			if out := render("schedule"); !strings.Contains(out, "schedule") {
				t.Errorf("expected text preserved, got %q", out)
			}
		})
	}
}
