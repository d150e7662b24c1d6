// Package output commits a generated file set to disk in two phases.
//
// All artifacts of a run are buffered in a [Set], written to temporary
// names inside the target directory and renamed into place only after
// every write succeeded. A run that fails while producing content never
// leaves a partial project behind; only a rename failure in the final
// phase, after all content is safely on disk, can commit a subset.
package output

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/kbforge/klegen/pkg/errors"
)

// Set is a staged collection of named artifacts. Names are relative file
// names; the target directory is chosen at commit time.
type Set struct {
	files map[string][]byte
	order []string
}

// NewSet creates an empty artifact set.
func NewSet() *Set {
	return &Set{files: make(map[string][]byte)}
}

// Add stages data under name, replacing any previously staged content.
func (s *Set) Add(name string, data []byte) {
	if _, ok := s.files[name]; !ok {
		s.order = append(s.order, name)
	}
	s.files[name] = data
}

// Names returns the staged file names in insertion order.
func (s *Set) Names() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of staged artifacts.
func (s *Set) Len() int {
	return len(s.files)
}

// Unchanged returns the names of staged artifacts whose content is
// byte-identical to what already exists in dir, determined by content
// hash. Missing or unreadable files count as changed.
func (s *Set) Unchanged(dir string) []string {
	var same []string
	for _, name := range s.order {
		existing, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if Hash(existing) == Hash(s.files[name]) {
			same = append(same, name)
		}
	}
	sort.Strings(same)
	return same
}

// Commit writes the whole set into dir and returns the written paths.
// Every artifact is first written to a temporary name; renames happen
// only after all writes succeeded, so a failed write removes the
// temporaries and leaves existing files untouched. A rename that fails
// mid-sequence keeps the files already renamed and removes the
// remaining temporaries.
func (s *Set) Commit(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeOutput, err, "create output directory %s", dir)
	}

	temps := make([]string, 0, len(s.order))
	cleanup := func() {
		for _, tmp := range temps {
			_ = os.Remove(tmp)
		}
	}

	for _, name := range s.order {
		tmp := filepath.Join(dir, name+".tmp")
		if err := os.WriteFile(tmp, s.files[name], 0644); err != nil {
			cleanup()
			return nil, errors.Wrap(errors.ErrCodeOutput, err, "stage %s", name)
		}
		temps = append(temps, tmp)
	}

	paths := make([]string, 0, len(s.order))
	for i, name := range s.order {
		final := filepath.Join(dir, name)
		if err := os.Rename(temps[i], final); err != nil {
			cleanup()
			return nil, errors.Wrap(errors.ErrCodeOutput, err, "commit %s", name)
		}
		temps[i] = ""
		paths = append(paths, final)
	}

	return paths, nil
}
