package render

import (
	"strings"
	"testing"
	"time"

	"github.com/kbforge/klegen/pkg/kle"
	"github.com/kbforge/klegen/pkg/matrix"
	"github.com/kbforge/klegen/pkg/netlist"
	"github.com/kbforge/klegen/pkg/pcb"
)

// annotated builds a fully assigned and net-annotated keyboard from raw
// KLE JSON.
func annotated(t *testing.T, layout string) (*kle.Keyboard, *netlist.Table) {
	t.Helper()
	kb, err := kle.Parse(strings.NewReader(layout))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := matrix.Assign(kb, matrix.PolicySequential); err != nil {
		t.Fatalf("assign: %v", err)
	}
	nets := netlist.Build(len(kb.Keys))
	if err := netlist.Annotate(kb, nets); err != nil {
		t.Fatalf("annotate: %v", err)
	}
	return kb, nets
}

func TestCoord(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{-100, "-100"},
		{17.78, "17.78"},
		{-100 + 0.5*19.05, "-90.475"},
		{-100 + 1.5*19.05, "-71.425"},
		{0.30000000000000004, "0.3"},
	}
	for _, tt := range tests {
		if got := coord(tt.in); got != tt.want {
			t.Errorf("coord(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSchematic(t *testing.T) {
	kb, _ := annotated(t, `[{"name":"Test Board","author":"someone"},["Q","W"]]`)

	out, err := Schematic(kb, time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC), "klegen v1.0")
	if err != nil {
		t.Fatalf("Schematic() error: %v", err)
	}
	sch := string(out)

	if !strings.HasPrefix(sch, "EESchema Schematic File Version 4") {
		t.Error("schematic missing eeschema header")
	}
	if !strings.HasSuffix(strings.TrimSpace(sch), "$EndSCHEMATC") {
		t.Error("schematic missing end marker")
	}
	for _, want := range []string{
		`Title "Test Board"`,
		`Comp "someone"`,
		`Date "2024-03-01 12:30"`,
		`Comment1 "Generated by klegen v1.0"`,
	} {
		if !strings.Contains(sch, want) {
			t.Errorf("schematic missing %q", want)
		}
	}

	// One switch and one diode per key.
	for _, want := range []string{"SW0", "SW1", "L Device:D D0", "L Device:D D1"} {
		if !strings.Contains(sch, want) {
			t.Errorf("schematic missing component %q", want)
		}
	}

	// Matrix labels for the assigned positions.
	for _, want := range []string{"Row0", "Col0", "Col1"} {
		if !strings.Contains(sch, want) {
			t.Errorf("schematic missing label %q", want)
		}
	}

	// The control circuit rides along on every sheet.
	if !strings.Contains(sch, "ATmega32U4-AU") {
		t.Error("schematic missing control circuit")
	}
}

func TestSchematicPlacementGrid(t *testing.T) {
	kb, _ := annotated(t, `[["Q","W"],["A"]]`)

	out, err := Schematic(kb, time.Now(), "klegen")
	if err != nil {
		t.Fatalf("Schematic() error: %v", err)
	}
	sch := string(out)

	// Key centers: (0.5,0.5), (1.5,0.5), (0.5,1.5) units.
	for _, want := range []string{
		"P 1000 1050", // 600+0.5*800, 800+0.5*500
		"P 1800 1050",
		"P 1000 1550",
	} {
		if !strings.Contains(sch, want) {
			t.Errorf("schematic missing switch placement %q", want)
		}
	}
}

func TestBoard(t *testing.T) {
	kb, nets := annotated(t, `[["Q"]]`)
	plan, err := pcb.Generate(kb, true)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	out, err := Board(kb, nets, plan)
	if err != nil {
		t.Fatalf("Board() error: %v", err)
	}
	board := string(out)

	if !strings.HasPrefix(board, "(kicad_pcb (version 20171130)") {
		t.Error("board missing kicad_pcb header")
	}

	// Net declarations cover 0 plus the full table, at the anchor numbers.
	for _, want := range []string{
		`(net 0 "")`,
		"(net 1 GND)",
		"(net 2 VCC)",
		"(net 14 /Reset)",
		"(net 15 /Row0)",
		"(net 22 /Col0)",
		`(net 40 "Net-(D0-Pad2)")`,
	} {
		if !strings.Contains(board, want) {
			t.Errorf("board missing declaration %q", want)
		}
	}
	if got := strings.Count(board, "(net "); got < nets.Len()+1 {
		t.Errorf("board declares %d nets, want at least %d", got, nets.Len()+1)
	}
	if !strings.Contains(board, "(add_net GND)") {
		t.Error("board missing add_net entries")
	}

	// Switch pads bind to the diode and column nets, diode pads to the
	// row and diode nets.
	for _, want := range []string{
		`(net 40 "Net-(D0-Pad2)")`,
		"(net 22 /Col0)",
		"(net 15 /Row0)",
	} {
		if !strings.Contains(board, want) {
			t.Errorf("board missing pad net %q", want)
		}
	}

	// All plan records make it through verbatim.
	if got := strings.Count(board, "(via "); got != len(plan.Vias) {
		t.Errorf("board has %d vias, want %d", got, len(plan.Vias))
	}
	if got := strings.Count(board, "(segment "); got != len(plan.Tracks) {
		t.Errorf("board has %d segments, want %d", got, len(plan.Tracks))
	}

	// Control circuit references row and column nets positionally.
	if !strings.Contains(board, "(net 21 /Row6)") {
		t.Error("board control circuit missing last row net")
	}
	if !strings.Contains(board, "(net 39 /Col17)") {
		t.Error("board control circuit missing last column net")
	}
}

func TestBoardModuleCounts(t *testing.T) {
	kb, nets := annotated(t, `[["Q","W"],["A","S"]]`)
	plan, err := pcb.Generate(kb, false)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	out, err := Board(kb, nets, plan)
	if err != nil {
		t.Fatalf("Board() error: %v", err)
	}
	board := string(out)

	// 4 switches + 4 diodes + the fixed control modules.
	want := 8 + controlModules
	if got := strings.Count(board, "(module "); got != want {
		t.Errorf("board has %d modules, want %d", got, want)
	}
	if !strings.Contains(board, "(modules 18)") {
		t.Error("board header module count mismatch")
	}
}

func TestProject(t *testing.T) {
	out, err := Project()
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}
	if !strings.Contains(string(out), "last_client=kicad") {
		t.Error("project descriptor missing kicad marker")
	}
	if !strings.Contains(string(out), "[eeschema]") {
		t.Error("project descriptor missing eeschema section")
	}
}
