// Package render serializes generator output into the KiCad project file
// set: an eeschema schematic, a pcbnew layout and a project descriptor.
//
// The file formats are fixed external contracts. Everything format-shaped
// lives in embedded templates under templates/; this package only fills in
// values produced by the kle, netlist and pcb packages and never makes
// electrical decisions of its own.
package render

import (
	"embed"
	"math"
	"strconv"
	"text/template"
)

//go:embed templates/*.tpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tpl"))

// coord formats a board coordinate in millimetres the way pcbnew writes
// them: shortest decimal form, rounded to a tenth of a micrometre so
// float noise never leaks into the output.
func coord(v float64) string {
	r := math.Round(v*10000) / 10000
	return strconv.FormatFloat(r, 'f', -1, 64)
}
