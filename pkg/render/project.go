package render

import (
	"bytes"

	"github.com/kbforge/klegen/pkg/errors"
)

// Project renders the KiCad project descriptor. It carries no layout
// data; KiCad fills in the file references on first open.
func Project() ([]byte, error) {
	var out bytes.Buffer
	if err := templates.ExecuteTemplate(&out, "project.tpl", nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeOutput, err, "render project file")
	}
	return out.Bytes(), nil
}
