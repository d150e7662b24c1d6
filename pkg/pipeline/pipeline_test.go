package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbforge/klegen/pkg/errors"
	"github.com/kbforge/klegen/pkg/matrix"
)

// layoutFile writes a KLE layout to a temp file and returns its path.
func layoutFile(t *testing.T, layout string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := os.WriteFile(path, []byte(layout), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{Input: "boards/planck.json"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}

	if opts.OutDir != "planck" {
		t.Errorf("OutDir = %q, want %q", opts.OutDir, "planck")
	}
	if opts.ProjectName != "planck" {
		t.Errorf("ProjectName = %q, want %q", opts.ProjectName, "planck")
	}
	if opts.MatrixPolicy() != matrix.PolicySequential {
		t.Errorf("MatrixPolicy() = %q, want sequential default", opts.MatrixPolicy())
	}
	if !opts.Routing() {
		t.Error("Routing() should default to true")
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
	if !strings.HasPrefix(opts.GeneratedBy, "klegen v") {
		t.Errorf("GeneratedBy = %q, want klegen version string", opts.GeneratedBy)
	}

	if got := opts.SchematicName(); got != "planck.sch" {
		t.Errorf("SchematicName() = %q, want planck.sch", got)
	}
	if got := opts.BoardName(); got != "planck.kicad_pcb" {
		t.Errorf("BoardName() = %q, want planck.kicad_pcb", got)
	}
	if got := opts.ProjectFileName(); got != "planck.pro" {
		t.Errorf("ProjectFileName() = %q, want planck.pro", got)
	}
	if got := opts.DiagramName(); got != "planck.svg" {
		t.Errorf("DiagramName() = %q, want planck.svg", got)
	}
}

func TestOptionsMissingInput(t *testing.T) {
	opts := Options{}
	err := opts.ValidateAndSetDefaults()
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing input should yield ErrCodeInvalidInput, got %v", err)
	}
}

func TestOptionsInvalidPolicy(t *testing.T) {
	opts := Options{Input: "a.json", Policy: "diagonal"}
	err := opts.ValidateAndSetDefaults()
	if !errors.Is(err, errors.ErrCodeInvalidPolicy) {
		t.Errorf("bad policy should yield ErrCodeInvalidPolicy, got %v", err)
	}
}

func TestOptionsExplicitOutDir(t *testing.T) {
	opts := Options{Input: "layout.json", OutDir: "out/myboard"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.ProjectName != "myboard" {
		t.Errorf("ProjectName = %q, want myboard", opts.ProjectName)
	}
}

func TestRunnerExecute(t *testing.T) {
	input := layoutFile(t, `[{"name":"Two by two","author":"tester"},["Q","W"],["A","S"]]`)

	runner := NewRunner(nil)
	opts := Options{Input: input}
	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if result.Stats.KeyCount != 4 {
		t.Errorf("KeyCount = %d, want 4", result.Stats.KeyCount)
	}
	if result.Stats.RowCount != 2 || result.Stats.ColCount != 2 {
		t.Errorf("matrix size = %dx%d, want 2x2", result.Stats.RowCount, result.Stats.ColCount)
	}

	for _, name := range []string{"layout.sch", "layout.kicad_pcb", "layout.pro"} {
		if _, ok := result.Artifacts[name]; !ok {
			t.Errorf("Artifacts missing %q", name)
		}
	}
	if len(result.Artifacts) != 3 {
		t.Errorf("Artifacts has %d entries, want 3", len(result.Artifacts))
	}

	if !strings.Contains(string(result.Artifacts["layout.sch"]), `Title "Two by two"`) {
		t.Error("schematic artifact missing layout name")
	}
	if result.Plan == nil || len(result.Plan.Switches) != 4 {
		t.Error("Plan missing switch placements")
	}
}

func TestRunnerExecutePropagatesFailure(t *testing.T) {
	input := layoutFile(t, `[[{"x":true},"Q"]]`)

	runner := NewRunner(nil)
	_, err := runner.Execute(context.Background(), Options{Input: input})
	if !errors.Is(err, errors.ErrCodeBadElement) {
		t.Errorf("Execute() on malformed layout: got %v, want ErrCodeBadElement", err)
	}
}

func TestRunnerExecuteCancelled(t *testing.T) {
	input := layoutFile(t, `[["Q"]]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(nil)
	if _, err := runner.Execute(ctx, Options{Input: input}); err == nil {
		t.Error("Execute() with cancelled context should fail")
	}
}

func TestAnalyze(t *testing.T) {
	input := layoutFile(t, `[["Q","W","E"]]`)

	runner := NewRunner(nil)
	opts := Options{Input: input, Policy: "pos"}
	result, err := runner.Analyze(context.Background(), &opts)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	if result.Plan != nil || result.Artifacts != nil {
		t.Error("Analyze() must not place or render")
	}
	if result.Nets == nil {
		t.Fatal("Analyze() must resolve nets")
	}
	for _, k := range result.Keyboard.Keys {
		if k.RowNet == 0 || k.ColNet == 0 || k.DiodeNet == 0 {
			t.Errorf("key %d has unresolved nets", k.Index)
		}
	}
}
