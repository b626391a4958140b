package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestPosition(t *testing.T) {
	tests := []struct {
		align    string
		expected lipgloss.Position
	}{
		{"", lipgloss.Left},
		{"left", lipgloss.Left},
		{"right", lipgloss.Right},
		{"center", lipgloss.Center},
		{"bogus", lipgloss.Left},
	}

	for _, tt := range tests {
		if got := position(tt.align); got != tt.expected {
			t.Errorf("position(%q) = %v, want %v", tt.align, got, tt.expected)
		}
	}
}

func TestTableRender(t *testing.T) {
	table := NewTable([]TableColumn{
		{Header: "NAME"},
		{Header: "SIZE", Align: "right"},
	})
	table.AddRow([]string{"cat.png", "12 KB"})
	table.AddRow([]string{"dog.jpg", "1.2 MB", "extra"})

	out := table.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "NAME") || !strings.Contains(lines[2], "cat.png") {
		t.Errorf("unexpected table output:\n%s", out)
	}
	if strings.Contains(out, "extra") {
		t.Errorf("cells beyond the column count should be dropped:\n%s", out)
	}
}

func TestTableRenderEmpty(t *testing.T) {
	if out := NewTable(nil).Render(); out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}
