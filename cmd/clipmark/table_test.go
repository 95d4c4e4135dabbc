package main

import (
	"strings"
	"testing"
)

func TestRenderTableAlignsColumns(t *testing.T) {
	out := renderTable(jobColumns(), [][]string{
		{"session_walk.mp4", "3.000s", "1.2s", "ok"},
		{"session.mp4", "10.000s", "4.5s"},
	})

	for _, want := range []string{"Clip", "Length", "Took", "Status", "session_walk.mp4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	// Length is right-aligned: the shorter value gets padding on its left.
	if !strings.Contains(out, "  3.000s ") {
		t.Fatalf("expected right-aligned length column:\n%s", out)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]tableColumn{{title: "A"}, {title: "B"}}, [][]string{{"only"}})
	if strings.Contains(out, "<nil>") {
		t.Fatalf("missing cells should render empty:\n%s", out)
	}
}

func TestRenderTableEmptyColumns(t *testing.T) {
	if out := renderTable(nil, nil); out != "" {
		t.Fatalf("expected empty string, got %q", out)
	}
}
