package render

import (
	"strings"
	"testing"
)

func TestMatrixDOT(t *testing.T) {
	kb, _ := annotated(t, `[["Q","W"],["A","S"]]`)

	dot := MatrixDOT(kb)

	if !strings.HasPrefix(dot, "graph matrix {") {
		t.Error("MatrixDOT() should start with 'graph matrix {'")
	}
	if !strings.HasSuffix(strings.TrimSpace(dot), "}") {
		t.Error("MatrixDOT() should end with '}'")
	}

	// One node per used row and column net.
	for _, node := range []string{`"Row0"`, `"Row1"`, `"Col0"`, `"Col1"`} {
		if !strings.Contains(dot, node+" [") {
			t.Errorf("MatrixDOT() missing node %s", node)
		}
	}
	if strings.Contains(dot, `"Row2" [`) {
		t.Error("MatrixDOT() should not declare unused row nets")
	}

	// One edge per key, labeled with its legend.
	if got := strings.Count(dot, " -- "); got != len(kb.Keys) {
		t.Errorf("MatrixDOT() has %d edges, want %d", got, len(kb.Keys))
	}
	if !strings.Contains(dot, `label="Q"`) {
		t.Error("MatrixDOT() missing key legend label")
	}
}

func TestMatrixDOTSingleKey(t *testing.T) {
	kb, _ := annotated(t, `[["Esc"]]`)

	dot := MatrixDOT(kb)

	if !strings.Contains(dot, `"Row0" -- "Col0"`) {
		t.Error("MatrixDOT() missing matrix edge for single key")
	}
}
