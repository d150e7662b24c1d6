// Package matrix groups the keys of a parsed layout into the electrical
// rows and columns of the switch matrix.
//
// The matrix driver has a fixed capacity of [MaxRows] rows and [MaxCols]
// columns; grouping fails before any output is generated when a layout
// exceeds it. Two column policies are supported: sequential numbering
// within each row, and positional numbering derived from the key's
// horizontal grid position.
package matrix

import (
	"math"
	"sort"

	"github.com/kbforge/klegen/pkg/errors"
	"github.com/kbforge/klegen/pkg/kle"
)

// Physical capacity of the matrix controller.
const (
	MaxRows = 7
	MaxCols = 18
)

// Policy selects how keys are grouped into columns.
type Policy string

const (
	// PolicySequential numbers the keys of each row 0,1,2,... in
	// ascending x order, regardless of gaps between them.
	PolicySequential Policy = "seq"

	// PolicyPositional derives the column from the key's horizontal
	// position, so skipped columns remain skipped.
	PolicyPositional Policy = "pos"
)

// ParsePolicy converts a CLI policy name into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicySequential:
		return PolicySequential, nil
	case PolicyPositional:
		return PolicyPositional, nil
	}
	return "", errors.New(errors.ErrCodeInvalidPolicy, "unknown column policy %q (want %q or %q)", s, PolicySequential, PolicyPositional)
}

// Assign groups every key of kb into a row and a column under policy p,
// back-annotating Key.Row/Key.Col and populating kb.Rows and kb.Cols.
//
// Rows derive from the key center: row = floor(YUnit - 0.5). Any key
// landing outside the matrix capacity aborts with a capacity error; the
// sequential policy additionally rejects rows holding MaxCols or more
// keys.
func Assign(kb *kle.Keyboard, p Policy) error {
	switch p {
	case PolicySequential:
		return assignSequential(kb)
	case PolicyPositional:
		return assignPositional(kb)
	}
	return errors.New(errors.ErrCodeInvalidPolicy, "unknown column policy %q", p)
}

// rowOf computes the matrix row of a key from its vertical center.
func rowOf(k *kle.Key) int {
	return int(math.Floor(k.YUnit - 0.5))
}

// colOf computes the positional-policy column from the horizontal center.
func colOf(k *kle.Key) int {
	return int(math.Floor(k.XUnit - 0.5))
}

// byRow buckets key indices per computed row, validating the row bound.
// Bucket contents stay in parse order.
func byRow(kb *kle.Keyboard) ([][]int, error) {
	rows := make([][]int, MaxRows)
	for _, k := range kb.Keys {
		row := rowOf(k)
		if row < 0 || row >= MaxRows {
			return nil, errors.New(errors.ErrCodeMatrixRows,
				"key %d (%s) lands on row %d; the matrix supports rows 0..%d",
				k.Index, k.Legend, row, MaxRows-1)
		}
		rows[row] = append(rows[row], k.Index)
	}
	return rows, nil
}

// sortedByX returns the indices ordered by ascending key center X.
func sortedByX(kb *kle.Keyboard, indices []int) []int {
	sorted := append([]int(nil), indices...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return kb.Keys[sorted[i]].XUnit < kb.Keys[sorted[j]].XUnit
	})
	return sorted
}

func assignSequential(kb *kle.Keyboard) error {
	rows, err := byRow(kb)
	if err != nil {
		return err
	}

	for row, indices := range rows {
		if len(indices) >= MaxCols {
			return errors.New(errors.ErrCodeMatrixCols,
				"row %d accumulates %d keys; the matrix drives at most %d columns",
				row, len(indices), MaxCols)
		}
		for col, ki := range sortedByX(kb, indices) {
			key := kb.Keys[ki]
			key.Row = row
			key.Col = col
			kb.AddKeyToRow(row, ki)
			kb.AddKeyToCol(col, ki)
		}
	}
	return nil
}

func assignPositional(kb *kle.Keyboard) error {
	rows, err := byRow(kb)
	if err != nil {
		return err
	}

	// Row blocks keep parse order under this policy.
	for _, k := range kb.Keys {
		k.Row = rowOf(k)
		kb.AddKeyToRow(k.Row, k.Index)
	}

	// Column blocks are filled walking rows in ascending order, each
	// row's keys in x order, keyed by the computed column. Keys in
	// different rows sharing a column become column-trace neighbors.
	for _, indices := range rows {
		for _, ki := range sortedByX(kb, indices) {
			key := kb.Keys[ki]
			col := colOf(key)
			if col < 0 {
				return errors.New(errors.ErrCodeMatrixCols,
					"key %d (%s) lands left of column 0", key.Index, key.Legend)
			}
			key.Col = col
			kb.AddKeyToCol(col, ki)
		}
	}
	return nil
}
