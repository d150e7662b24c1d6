package kle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/kbforge/klegen/pkg/errors"
)

// element is one top-level entry of a KLE document: either a row of keys
// or the single metadata object. Anything else is a fatal input error.
type element struct {
	row  []json.RawMessage
	meta *metaBlock
}

// metaBlock carries the layout metadata KLE stores alongside the rows.
// Fields other than name and author are ignored.
type metaBlock struct {
	Name   string `json:"name"`
	Author string `json:"author"`
}

// modifier is a KLE key modifier object. Pointer fields distinguish
// "absent" from zero so only the keys present in the JSON are applied.
type modifier struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	W *float64 `json:"w"`
	H *float64 `json:"h"`
}

// ParseFile reads a KLE JSON layout from path.
func ParseFile(path string) (*Keyboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "reading layout %s", path)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a KLE JSON layout into a flat, ordered list of keys.
//
// The document must be a JSON array whose elements are either key rows
// (arrays mixing modifier objects and legend strings) or a metadata
// object. The parser maintains a running cursor in keyboard units: each
// key's center is the cursor plus half the pending key size, the cursor
// advances by the key width, and every row resets X to zero and
// increments Y by one.
func Parse(r io.Reader) (*Keyboard, error) {
	var doc []json.RawMessage
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBadElement, err, "layout is not a JSON array")
	}

	kb := &Keyboard{}
	curY := 0.0
	for _, raw := range doc {
		el, err := decodeElement(raw)
		if err != nil {
			return nil, err
		}
		if el.meta != nil {
			if el.meta.Name != "" {
				kb.Name = el.meta.Name
			}
			if el.meta.Author != "" {
				kb.Author = el.meta.Author
			}
			continue
		}
		if err := parseRow(kb, el.row, &curY); err != nil {
			return nil, err
		}
		curY++
	}
	return kb, nil
}

// parseRow consumes one visual row of the layout, appending keys to kb.
// The y cursor is shared across rows: a y delta inside one row shifts
// every following row as well.
func parseRow(kb *Keyboard, row []json.RawMessage, y *float64) error {
	x := 0.0
	width, height := 1.0, 1.0

	for _, item := range row {
		switch kind(item) {
		case '{':
			var mod modifier
			if err := json.Unmarshal(item, &mod); err != nil {
				return errors.Wrap(errors.ErrCodeBadElement, err, "bad key modifier %s", compact(item))
			}
			if mod.X != nil {
				x += *mod.X
			}
			if mod.Y != nil {
				*y += *mod.Y
			}
			if mod.W != nil {
				width = *mod.W
			}
			if mod.H != nil {
				height = *mod.H
			}

		case '"':
			var legend string
			if err := json.Unmarshal(item, &legend); err != nil {
				return errors.Wrap(errors.ErrCodeBadElement, err, "bad legend %s", compact(item))
			}
			kb.Keys = append(kb.Keys, &Key{
				Index:  len(kb.Keys),
				XUnit:  x + width/2,
				YUnit:  *y + height/2,
				Width:  width,
				Height: height,
				Legend: DisplayLegend(legend),
			})
			x += width
			width, height = 1, 1

		default:
			return errors.New(errors.ErrCodeBadElement, "unexpected element in key row: %s", compact(item))
		}
	}
	return nil
}

// decodeElement classifies a top-level document entry.
func decodeElement(raw json.RawMessage) (element, error) {
	switch kind(raw) {
	case '[':
		var row []json.RawMessage
		if err := json.Unmarshal(raw, &row); err != nil {
			return element{}, errors.Wrap(errors.ErrCodeBadElement, err, "bad key row")
		}
		return element{row: row}, nil
	case '{':
		var meta metaBlock
		if err := json.Unmarshal(raw, &meta); err != nil {
			return element{}, errors.Wrap(errors.ErrCodeBadElement, err, "bad metadata block")
		}
		return element{meta: &meta}, nil
	}
	return element{}, errors.New(errors.ErrCodeBadElement, "unexpected layout element: %s", compact(raw))
}

// kind returns the first non-space byte of a raw JSON value, which
// identifies its type, or 0 for an empty value.
func kind(raw json.RawMessage) byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b
	}
	return 0
}

// compact renders a raw value for error messages, truncated so a huge
// element cannot flood the diagnostic.
func compact(raw json.RawMessage) string {
	s := string(raw)
	const max = 60
	if len(s) > max {
		return fmt.Sprintf("%s...", s[:max])
	}
	return s
}
