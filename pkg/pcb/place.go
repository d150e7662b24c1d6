package pcb

import (
	"github.com/kbforge/klegen/pkg/errors"
	"github.com/kbforge/klegen/pkg/kle"
)

// Pitch is the physical distance between adjacent keyboard units, in
// millimeters (standard MX keyswitch spacing).
const Pitch = 19.05

// Fixed placement geometry, relative to a switch footprint's reference
// point. Values carried over from the proven hand-tuned footprints.
var (
	// origin maps keyboard-unit (0,0) into board space.
	origin = Point{-100, 17.78}

	// diodeOffset places the key's diode below and left of the switch.
	diodeOffset = Point{-6.35, 8.89}

	// Column-net contacts: colContactTop sits above the switch pad,
	// colContactBottom below it. Column routing enters at the top
	// contact and leaves at the bottom one.
	colContactTop    = Point{0, -2.03}
	colContactBottom = Point{0, 12.24}

	// Row-net contacts to the left and right of the diode's row pad.
	rowContactLeft  = Point{-9.68, 9.83}
	rowContactRight = Point{4.6, 9.83}

	// The diode-to-switch connection runs on the back copper layer.
	diodeTraceTop    = Point{-6.38, 2.54}
	diodeTraceBottom = Point{-6.38, 7.77}
)

// Horizontal extent of a switch footprint around its reference point.
// Column-trace bends are clamped into this envelope so a trace always
// terminates inside the footprint it approaches, even when the
// neighboring key is narrower or shifted.
const (
	SwitchLeft  = -9.525
	SwitchRight = 9.525
)

// SwitchAt returns the footprint reference point for a key.
func SwitchAt(k *kle.Key) Point {
	return origin.Add(Point{k.XUnit, k.YUnit}.Scale(Pitch))
}

// FootprintWidth maps a key width in keyboard units to the nearest
// available footprint variant.
func FootprintWidth(units float64) string {
	switch {
	case units < 1.25:
		return "1.00"
	case units < 1.5:
		return "1.25"
	case units < 1.75:
		return "1.50"
	case units < 2:
		return "1.75"
	case units < 2.25:
		return "2.00"
	case units < 2.75:
		return "2.25"
	case units < 6.25:
		// Not the right size for everything up to 6.25u, but the
		// widest stabilized variant available below the spacebar.
		return "2.75"
	}
	return "6.25"
}

// Generate produces the physical plan for kb. Every key yields a
// switch, a diode, four vias and the diode-to-switch track; with
// routing enabled the plan also carries the row and column traces that
// partially connect the matrix (see route.go).
//
// Generate requires a fully annotated keyboard: a key with an
// unresolved net number is a pipeline-ordering defect.
func Generate(kb *kle.Keyboard, routing bool) (*Plan, error) {
	for _, k := range kb.Keys {
		if k.RowNet == 0 || k.ColNet == 0 || k.DiodeNet == 0 {
			return nil, errors.New(errors.ErrCodeUnresolvedNet,
				"key %d (%s) reached placement with unresolved nets (row=%d col=%d diode=%d)",
				k.Index, k.Legend, k.RowNet, k.ColNet, k.DiodeNet)
		}
	}

	plan := &Plan{}
	for _, k := range kb.Keys {
		placeKey(plan, k)
	}
	if routing {
		routeRows(plan, kb)
		routeColumns(plan, kb)
	}
	return plan, nil
}

// placeKey emits the fixed per-key arrangement.
func placeKey(plan *Plan, k *kle.Key) {
	ref := SwitchAt(k)

	plan.Switches = append(plan.Switches, Switch{
		Index:    k.Index,
		At:       ref,
		Width:    k.Width,
		Legend:   k.Legend,
		Row:      k.Row,
		Col:      k.Col,
		DiodeNet: k.DiodeNet,
		ColNet:   k.ColNet,
	})
	plan.Diodes = append(plan.Diodes, Diode{
		Index:    k.Index,
		At:       ref.Add(diodeOffset),
		DiodeNet: k.DiodeNet,
		RowNet:   k.RowNet,
	})

	for _, off := range []Point{colContactTop, colContactBottom} {
		plan.Vias = append(plan.Vias, Via{At: ref.Add(off), Net: k.ColNet})
	}
	for _, off := range []Point{rowContactLeft, rowContactRight} {
		plan.Vias = append(plan.Vias, Via{At: ref.Add(off), Net: k.RowNet})
	}

	plan.Tracks = append(plan.Tracks, Track{
		From:  ref.Add(diodeTraceTop),
		To:    ref.Add(diodeTraceBottom),
		Layer: LayerBack,
		Net:   k.DiodeNet,
	})
}
