package render

import (
	"bytes"
	"fmt"

	"github.com/kbforge/klegen/pkg/errors"
	"github.com/kbforge/klegen/pkg/kle"
	"github.com/kbforge/klegen/pkg/matrix"
	"github.com/kbforge/klegen/pkg/netlist"
	"github.com/kbforge/klegen/pkg/pcb"
)

// controlModules is the number of fixed modules emitted by the control
// circuit template, counted into the board header.
const controlModules = 10

// netRef pairs a net number with its declared name for template use.
type netRef struct {
	Num  int
	Name string
}

// matrixPad is one controller pad bound to a row or column net.
type matrixPad struct {
	Pad  int
	X, Y string
	Net  int
	Name string
}

// boardControl is the view handed to the control circuit template. Row
// and column pads are resolved positionally from the first row and
// column net numbers, so the template works for any layout.
type boardControl struct {
	Gnd, Vcc, Reset                netRef
	C6Pad1, C7Pad1, C8Pad1         netRef
	J1Pad2, J1Pad3, J1Pad4         netRef
	R1Pad1, R2Pad1, R3Pad1, R4Pad2 netRef
	U1Pad42                        netRef

	MatrixPads []matrixPad
}

func controlView(nets *netlist.Table) boardControl {
	ref := func(name string) netRef {
		return netRef{Num: nets.Number(name), Name: name}
	}

	v := boardControl{
		Gnd:     ref("GND"),
		Vcc:     ref("VCC"),
		Reset:   ref("/Reset"),
		C6Pad1:  ref(`"Net-(C6-Pad1)"`),
		C7Pad1:  ref(`"Net-(C7-Pad1)"`),
		C8Pad1:  ref(`"Net-(C8-Pad1)"`),
		J1Pad2:  ref(`"Net-(J1-Pad2)"`),
		J1Pad3:  ref(`"Net-(J1-Pad3)"`),
		J1Pad4:  ref(`"Net-(J1-Pad4)"`),
		R1Pad1:  ref(`"Net-(R1-Pad1)"`),
		R2Pad1:  ref(`"Net-(R2-Pad1)"`),
		R3Pad1:  ref(`"Net-(R3-Pad1)"`),
		R4Pad2:  ref(`"Net-(R4-Pad2)"`),
		U1Pad42: ref(`"Net-(U1-Pad42)"`),
	}

	rowStart := nets.Number(netlist.RowNetName(0))
	for i := 0; i < matrix.MaxRows; i++ {
		v.MatrixPads = append(v.MatrixPads, matrixPad{
			Pad:  1 + i,
			X:    "-5.6",
			Y:    coord(-2.4 + 0.8*float64(i)),
			Net:  rowStart + i,
			Name: nets.Name(rowStart + i),
		})
	}

	colStart := nets.Number(netlist.ColNetName(0))
	for i := 0; i < matrix.MaxCols; i++ {
		v.MatrixPads = append(v.MatrixPads, matrixPad{
			Pad:  19 + i,
			X:    coord(-4.0 + 0.8*float64(i%12)),
			Y:    coord(5.6 + 0.8*float64(i/12)),
			Net:  colStart + i,
			Name: nets.Name(colStart + i),
		})
	}

	return v
}

// switchView is the view for one keyswitch module.
type switchView struct {
	Num          int
	Stamp        string
	X, Y         string
	Legend       string
	Footprint    string
	DiodeNetNum  int
	DiodeNetName string
	ColNetNum    int
	ColNetName   string
}

// diodeView is the view for one diode module.
type diodeView struct {
	Num          int
	Stamp        string
	X, Y         string
	RowNetNum    int
	RowNetName   string
	DiodeNetNum  int
	DiodeNetName string
}

// Board renders the pcbnew layout for kb: the full net declaration list,
// one switch and diode module per key with pads bound to their resolved
// nets, all via and trace records from plan, and the control circuit.
func Board(kb *kle.Keyboard, nets *netlist.Table, plan *pcb.Plan) ([]byte, error) {
	var decls, adds bytes.Buffer
	decls.WriteString("  (net 0 \"\")\n")
	for i, name := range nets.Names() {
		fmt.Fprintf(&decls, "  (net %d %s)\n", i+1, name)
		fmt.Fprintf(&adds, "    (add_net %s)\n", name)
	}

	var modules bytes.Buffer
	for i := range plan.Switches {
		s := &plan.Switches[i]
		view := switchView{
			Num:          s.Index,
			Stamp:        fmt.Sprintf("%08X", 0x60000000+2*s.Index),
			X:            coord(s.At.X),
			Y:            coord(s.At.Y),
			Legend:       s.Legend,
			Footprint:    pcb.FootprintWidth(s.Width),
			DiodeNetNum:  s.DiodeNet,
			DiodeNetName: nets.Name(s.DiodeNet),
			ColNetNum:    s.ColNet,
			ColNetName:   nets.Name(s.ColNet),
		}
		if err := templates.ExecuteTemplate(&modules, "switch_pcb.tpl", view); err != nil {
			return nil, errors.Wrap(errors.ErrCodeOutput, err, "render switch module %d", s.Index)
		}
	}
	for i := range plan.Diodes {
		d := &plan.Diodes[i]
		view := diodeView{
			Num:          d.Index,
			Stamp:        fmt.Sprintf("%08X", 0x60000000+2*d.Index+1),
			X:            coord(d.At.X),
			Y:            coord(d.At.Y),
			RowNetNum:    d.RowNet,
			RowNetName:   nets.Name(d.RowNet),
			DiodeNetNum:  d.DiodeNet,
			DiodeNetName: nets.Name(d.DiodeNet),
		}
		if err := templates.ExecuteTemplate(&modules, "diode_pcb.tpl", view); err != nil {
			return nil, errors.Wrap(errors.ErrCodeOutput, err, "render diode module %d", d.Index)
		}
	}

	var control bytes.Buffer
	if err := templates.ExecuteTemplate(&control, "controlcircuit_pcb.tpl", controlView(nets)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeOutput, err, "render control circuit")
	}

	var tracks bytes.Buffer
	for _, v := range plan.Vias {
		fmt.Fprintf(&tracks, "  (via (at %s %s) (size 0.8) (drill 0.4) (layers F.Cu B.Cu) (net %d))\n",
			coord(v.At.X), coord(v.At.Y), v.Net)
	}
	for _, t := range plan.Tracks {
		fmt.Fprintf(&tracks, "  (segment (start %s %s) (end %s %s) (width 0.25) (layer %s) (net %d))\n",
			coord(t.From.X), coord(t.From.Y), coord(t.To.X), coord(t.To.Y), t.Layer, t.Net)
	}

	var out bytes.Buffer
	data := struct {
		TrackCount     int
		ModuleCount    int
		NetCount       int
		Nets           string
		AddNets        string
		Modules        string
		ControlCircuit string
		Tracks         string
	}{
		TrackCount:     len(plan.Tracks) + len(plan.Vias),
		ModuleCount:    len(plan.Switches) + len(plan.Diodes) + controlModules,
		NetCount:       nets.Len() + 1,
		Nets:           decls.String(),
		AddNets:        adds.String(),
		Modules:        modules.String(),
		ControlCircuit: control.String(),
		Tracks:         tracks.String(),
	}
	if err := templates.ExecuteTemplate(&out, "board.tpl", data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeOutput, err, "render board")
	}
	return out.Bytes(), nil
}
