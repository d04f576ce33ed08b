package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	t.Parallel()

	out := RenderTable(
		[]string{"FILE", "RECORDINGS", "FRAMES"},
		[][]string{{"A.openpose.json", "2", "3"}, {"session.openpose.json"}},
		[]Align{AlignLeft, AlignRight, AlignRight},
	)
	for _, want := range []string{"FILE", "RECORDINGS", "A.openpose.json", "session.openpose.json"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n") + 1; lines < 5 {
		t.Fatalf("lines=%d, want >= 5:\n%s", lines, out)
	}
}

func TestRenderTable_NoHeaders(t *testing.T) {
	t.Parallel()

	if out := RenderTable(nil, [][]string{{"x"}}, nil); out != "" {
		t.Fatalf("out=%q, want empty", out)
	}
}

func TestIsTerminal_Buffer(t *testing.T) {
	t.Parallel()

	if IsTerminal(&bytes.Buffer{}) {
		t.Fatalf("buffer reported as terminal")
	}
}
