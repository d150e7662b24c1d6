// Package netlist maintains the ordered registry of electrical nets used
// by the generated schematic and layout.
//
// Net numbers are positional: a net's number is one plus its insertion
// index, and the population order is part of the output contract — the
// fixed control circuit references row and column nets by number, so the
// table always declares the full complement of row and column nets no
// matter how many the layout uses.
package netlist

import (
	"fmt"

	"github.com/kbforge/klegen/pkg/errors"
	"github.com/kbforge/klegen/pkg/kle"
	"github.com/kbforge/klegen/pkg/matrix"
)

// UnknownNet is the sentinel name returned for out-of-range net numbers.
const UnknownNet = "UNKNOWN"

// controlNets are the fixed nets of the control circuit, in declaration
// order. The quoted names are KiCad auto-generated pad nets and keep
// their quotes as part of the name.
var controlNets = []string{
	"GND",
	"VCC",
	`"Net-(C6-Pad1)"`,
	`"Net-(C7-Pad1)"`,
	`"Net-(C8-Pad1)"`,
	`"Net-(J1-Pad4)"`,
	`"Net-(J1-Pad3)"`,
	`"Net-(J1-Pad2)"`,
	`"Net-(R1-Pad1)"`,
	`"Net-(R2-Pad1)"`,
	`"Net-(R3-Pad1)"`,
	`"Net-(R4-Pad2)"`,
	`"Net-(U1-Pad42)"`,
	"/Reset",
}

// RowNetName returns the net name of matrix row n.
func RowNetName(n int) string {
	return fmt.Sprintf("/Row%d", n)
}

// ColNetName returns the net name of matrix column n.
func ColNetName(n int) string {
	return fmt.Sprintf("/Col%d", n)
}

// DiodeNetName returns the dedicated net joining key n's switch to its
// diode. The quotes are part of the name, matching KiCad's style for
// auto-generated pad nets.
func DiodeNetName(n int) string {
	return fmt.Sprintf("%q", fmt.Sprintf("Net-(D%d-Pad2)", n))
}

// Table is an insertion-ordered set of unique net names. A net's number
// is 1 + its insertion index; numbers are stable and never reused.
type Table struct {
	names   []string
	numbers map[string]int
}

// NewTable returns an empty net table.
func NewTable() *Table {
	return &Table{numbers: make(map[string]int)}
}

// Add registers name and returns its number. Adding an existing name is
// a no-op that returns the already-assigned number.
func (t *Table) Add(name string) int {
	if num, ok := t.numbers[name]; ok {
		return num
	}
	t.names = append(t.names, name)
	num := len(t.names)
	t.numbers[name] = num
	return num
}

// Number returns the net number for name, or 0 if unknown.
func (t *Table) Number(name string) int {
	return t.numbers[name]
}

// Name returns the net name for a 1-based number, or [UnknownNet] when
// the number is out of range.
func (t *Table) Name(number int) string {
	if number < 1 || number > len(t.names) {
		return UnknownNet
	}
	return t.names[number-1]
}

// Len returns the number of registered nets.
func (t *Table) Len() int {
	return len(t.names)
}

// Names returns all net names in number order.
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

// Build populates a fresh table for a board with keyCount keys: the
// fixed control-circuit nets first, then the full complement of row and
// column nets, then one diode net per key in key-index order.
func Build(keyCount int) *Table {
	t := NewTable()
	for _, name := range controlNets {
		t.Add(name)
	}
	for row := 0; row < matrix.MaxRows; row++ {
		t.Add(RowNetName(row))
	}
	for col := 0; col < matrix.MaxCols; col++ {
		t.Add(ColNetName(col))
	}
	for key := 0; key < keyCount; key++ {
		t.Add(DiodeNetName(key))
	}
	return t
}

// Annotate resolves every key's row, column and diode net numbers from
// t, walking the keyboard's row and column blocks the same way the
// layout generator will.
//
// A lookup resolving to 0 is a pipeline-ordering defect, not a user
// error: Build always registers every net a grouped keyboard can name.
func Annotate(kb *kle.Keyboard, t *Table) error {
	for row, block := range kb.Rows.Blocks() {
		num := t.Number(RowNetName(row))
		if num == 0 {
			return errors.New(errors.ErrCodeUnresolvedNet, "row net %s not registered", RowNetName(row))
		}
		for _, ki := range block {
			kb.Keys[ki].RowNet = num
		}
	}

	for col, block := range kb.Cols.Blocks() {
		if len(block) == 0 {
			continue
		}
		num := t.Number(ColNetName(col))
		if num == 0 {
			return errors.New(errors.ErrCodeUnresolvedNet, "column net %s not registered", ColNetName(col))
		}
		for _, ki := range block {
			kb.Keys[ki].ColNet = num
		}
	}

	for _, k := range kb.Keys {
		num := t.Number(DiodeNetName(k.Index))
		if num == 0 {
			return errors.New(errors.ErrCodeUnresolvedNet, "diode net %s not registered", DiodeNetName(k.Index))
		}
		k.DiodeNet = num
	}
	return nil
}
