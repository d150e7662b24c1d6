// Package kle models a keyboard layout imported from the Keyboard Layout
// Editor (KLE) JSON convention and provides the parser that flattens the
// nested KLE grid into an ordered list of positioned keys.
//
// A parsed [Keyboard] is the shared data backbone of the generation
// pipeline: the matrix package assigns rows and columns, the netlist
// package resolves net numbers, and the pcb package derives physical
// placement from the unit-grid coordinates stored here.
package kle

import "strings"

// Key holds all required information about a single keyboard key.
//
// Index is assigned at parse time in JSON traversal order and never
// changes; it identifies the key's dedicated diode net. Row and Col are
// assigned by the grouping engine. RowNet, ColNet and DiodeNet are
// resolved net numbers where 0 means "unresolved".
type Key struct {
	Index  int
	XUnit  float64 // center X in keyboard units
	YUnit  float64 // center Y in keyboard units
	Width  float64 // footprint width in keyboard units
	Height float64 // footprint height in keyboard units
	Legend string  // display legend, escaped for embedding in output files

	Row int
	Col int

	RowNet   int
	ColNet   int
	DiodeNet int
}

// BlockCollection maintains an ordered collection of blocks of key
// indices, such as the rows or the columns of a switch matrix.
//
// Block i is created on first reference to index i; intervening empty
// blocks are inserted automatically and no block is ever removed, so the
// block count is always at least the highest referenced index plus one.
type BlockCollection struct {
	blocks [][]int
}

// Add appends keyIndex to the block at blockIndex, growing the
// collection with empty blocks as needed.
func (c *BlockCollection) Add(blockIndex, keyIndex int) {
	for len(c.blocks) <= blockIndex {
		c.blocks = append(c.blocks, []int{})
	}
	c.blocks[blockIndex] = append(c.blocks[blockIndex], keyIndex)
}

// Block returns the key indices of the block at blockIndex, in insertion
// order. Unknown indices yield nil.
func (c *BlockCollection) Block(blockIndex int) []int {
	if blockIndex < 0 || blockIndex >= len(c.blocks) {
		return nil
	}
	return c.blocks[blockIndex]
}

// Blocks returns all blocks in index order.
func (c *BlockCollection) Blocks() [][]int {
	return c.blocks
}

// Len returns the number of blocks.
func (c *BlockCollection) Len() int {
	return len(c.blocks)
}

// Keyboard represents an entire keyboard layout with all keys positioned
// and grouped into rows and columns.
//
// A Keyboard is created once per generation run and owned by the run's
// orchestrator; it is never shared or kept as package-level state.
type Keyboard struct {
	Keys []*Key
	Rows BlockCollection
	Cols BlockCollection

	// Layout metadata from the KLE meta block.
	Name   string
	Author string
}

// AddKeyToRow records a key index in the given row block.
func (kb *Keyboard) AddKeyToRow(row, keyIndex int) {
	kb.Rows.Add(row, keyIndex)
}

// AddKeyToCol records a key index in the given column block.
func (kb *Keyboard) AddKeyToCol(col, keyIndex int) {
	kb.Cols.Add(col, keyIndex)
}

// Display legends for keys whose KLE legend carries no printable text.
const (
	legendBlank = "Blank"
	legendSpace = "Space"
)

// escaper rewrites characters that would break the quoted string fields
// of the generated schematic and layout files.
var escaper = strings.NewReplacer(
	"\\", "\\\\",
	"\"", "\\\"",
	"~", "~~",
	"\n", ",",
)

// DisplayLegend converts a raw KLE legend into the escaped display form
// stored on [Key]. The empty legend becomes "Blank" and a single space
// becomes "Space"; all other legends are escaped for safe embedding.
func DisplayLegend(raw string) string {
	switch raw {
	case "":
		return legendBlank
	case " ":
		return legendSpace
	}
	return escaper.Replace(raw)
}
