package pcb

import "github.com/kbforge/klegen/pkg/kle"

// routeRows emits the row-net copper: a bridge across each key's own
// row contacts, then one straight segment between the row contacts of
// each consecutive key pair in every row block.
func routeRows(plan *Plan, kb *kle.Keyboard) {
	for _, k := range kb.Keys {
		ref := SwitchAt(k)
		plan.Tracks = append(plan.Tracks, Track{
			From:  ref.Add(rowContactLeft),
			To:    ref.Add(rowContactRight),
			Layer: LayerBack,
			Net:   k.RowNet,
		})
	}

	for _, block := range kb.Rows.Blocks() {
		for i := 1; i < len(block); i++ {
			a, b := kb.Keys[block[i-1]], kb.Keys[block[i]]
			plan.Tracks = append(plan.Tracks, Track{
				From:  SwitchAt(a).Add(rowContactLeft),
				To:    SwitchAt(b).Add(rowContactLeft),
				Layer: LayerBack,
				Net:   b.RowNet,
			})
		}
	}
}

// routeColumns emits the column-net copper: a bridge across each key's
// own column contacts, then a three-segment path between consecutive
// keys of every column block.
//
// The path leaves the upper key's bottom contact, bends at the vertical
// midpoint, and drops into the lower key's top contact. Each bend is
// clamped independently into the horizontal footprint envelope of the
// key its segment terminates into, so a trace never overshoots a
// narrower or shifted neighbor.
func routeColumns(plan *Plan, kb *kle.Keyboard) {
	for _, k := range kb.Keys {
		ref := SwitchAt(k)
		plan.Tracks = append(plan.Tracks, Track{
			From:  ref.Add(colContactTop),
			To:    ref.Add(colContactBottom),
			Layer: LayerFront,
			Net:   k.ColNet,
		})
	}

	for _, block := range kb.Cols.Blocks() {
		for i := 1; i < len(block); i++ {
			upper, lower := kb.Keys[block[i-1]], kb.Keys[block[i]]
			plan.Tracks = append(plan.Tracks, columnSegments(upper, lower)...)
		}
	}
}

// columnSegments builds the clamped three-segment path between two
// column neighbors.
func columnSegments(upper, lower *kle.Key) []Track {
	upperRef := SwitchAt(upper)
	lowerRef := SwitchAt(lower)

	from := upperRef.Add(colContactBottom)
	to := lowerRef.Add(colContactTop)
	midY := (from.Y + to.Y) / 2

	// The bend beside each key aims at the opposite contact's X but
	// may not leave that key's own footprint envelope.
	upperBend := Point{clampX(to.X, upperRef.X), midY}
	lowerBend := Point{clampX(from.X, lowerRef.X), midY}

	net := lower.ColNet
	return []Track{
		{From: from, To: upperBend, Layer: LayerFront, Net: net},
		{From: upperBend, To: lowerBend, Layer: LayerFront, Net: net},
		{From: lowerBend, To: to, Layer: LayerFront, Net: net},
	}
}

// clampX limits x into the footprint envelope of the key whose
// reference X is refX.
func clampX(x, refX float64) float64 {
	if min := refX + SwitchLeft; x < min {
		return min
	}
	if max := refX + SwitchRight; x > max {
		return max
	}
	return x
}
