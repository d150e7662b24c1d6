package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/kbforge/klegen/pkg/errors"
	"github.com/kbforge/klegen/pkg/kle"
	"github.com/kbforge/klegen/pkg/pcb"
)

// Schematic sheet placement grid, in schematic units.
const (
	schOriginX = 600
	schOriginY = 800
	schStepX   = 800
	schStepY   = 500
)

// schKey carries the precomputed coordinates for one switch/diode pair on
// the schematic sheet. All geometry is resolved here so the template
// stays arithmetic-free.
type schKey struct {
	Num       int
	Legend    string
	Footprint string
	Row, Col  int

	X, Y   int
	LabelY int
	ValueY int

	SwitchLeftX  int
	SwitchRightX int

	DiodeY       int
	DiodeLabelX  int
	DiodeValueY  int
	DiodeTopY    int
	DiodeBottomY int

	RowX, RowY int
	ColX, ColY int

	SwitchStamp string
	DiodeStamp  string
}

func schKeyAt(k *kle.Key) schKey {
	x := schOriginX + int(k.XUnit*schStepX)
	y := schOriginY + int(k.YUnit*schStepY)
	return schKey{
		Num:          k.Index,
		Legend:       k.Legend,
		Footprint:    pcb.FootprintWidth(k.Width),
		Row:          k.Row,
		Col:          k.Col,
		X:            x,
		Y:            y,
		LabelY:       y - 200,
		ValueY:       y + 250,
		SwitchLeftX:  x - 200,
		SwitchRightX: x + 200,
		DiodeY:       y + 400,
		DiodeLabelX:  x + 150,
		DiodeValueY:  y + 650,
		DiodeTopY:    y + 250,
		DiodeBottomY: y + 550,
		RowX:         x + 300,
		RowY:         y + 700,
		ColX:         x - 300,
		ColY:         y - 300,
		SwitchStamp:  fmt.Sprintf("%08X", 0x5F000000+2*k.Index),
		DiodeStamp:   fmt.Sprintf("%08X", 0x5F000000+2*k.Index+1),
	}
}

// Schematic renders the eeschema sheet for kb: one switch and diode pair
// per key wired to its row and column labels, plus the fixed control
// circuit. generatedBy identifies the tool in the sheet comment.
func Schematic(kb *kle.Keyboard, now time.Time, generatedBy string) ([]byte, error) {
	var components bytes.Buffer
	for _, k := range kb.Keys {
		if err := templates.ExecuteTemplate(&components, "keyswitch_sch.tpl", schKeyAt(k)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeOutput, err, "render switch %d", k.Index)
		}
	}

	var control bytes.Buffer
	if err := templates.ExecuteTemplate(&control, "controlcircuit_sch.tpl", nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeOutput, err, "render control circuit")
	}

	var out bytes.Buffer
	data := struct {
		Title          string
		Author         string
		Date           string
		Comment        string
		Components     string
		ControlCircuit string
	}{
		Title:          kb.Name,
		Author:         kb.Author,
		Date:           now.Format("2006-01-02 15:04"),
		Comment:        "Generated by " + generatedBy,
		Components:     components.String(),
		ControlCircuit: control.String(),
	}
	if err := templates.ExecuteTemplate(&out, "schematic.tpl", data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeOutput, err, "render schematic")
	}
	return out.Bytes(), nil
}
