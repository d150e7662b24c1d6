// Package pcb turns a grouped, net-annotated keyboard into physical
// placement and trace records for the PCB layout.
//
// Coordinates are millimeters. The generated records are opaque to this
// package: component kinds, positions, layers and net numbers are handed
// to the board renderer verbatim, which owns the file syntax.
//
// Routing is a fixed per-key geometric recipe, not a search algorithm:
// every key gets the same switch/diode/via arrangement, and inter-key
// traces follow the stored row and column block order.
package pcb

// Point is a position or offset in millimeters.
type Point struct {
	X float64
	Y float64
}

// Add returns the translation of p by o.
func (p Point) Add(o Point) Point {
	return Point{p.X + o.X, p.Y + o.Y}
}

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point {
	return Point{p.X * f, p.Y * f}
}

// Copper layers used by the generated board.
const (
	LayerFront = "F.Cu"
	LayerBack  = "B.Cu"
)

// Switch is a placed keyswitch footprint.
type Switch struct {
	Index    int     // key index, used for the reference designator
	At       Point   // footprint reference point
	Width    float64 // key width in keyboard units
	Legend   string
	Row      int
	Col      int
	DiodeNet int
	ColNet   int
}

// Diode is a placed diode footprint.
type Diode struct {
	Index    int // owning key index
	At       Point
	DiodeNet int
	RowNet   int
}

// Via is a plated through-hole stitching a net between copper layers.
type Via struct {
	At  Point
	Net int
}

// Track is one straight copper segment.
type Track struct {
	From  Point
	To    Point
	Layer string
	Net   int
}

// Plan is the complete physical output for one board, in generation
// order.
type Plan struct {
	Switches []Switch
	Diodes   []Diode
	Vias     []Via
	Tracks   []Track
}
