// Package pipeline provides the core generation pipeline for klegen.
//
// This package implements the complete parse → group → nets → place →
// render pipeline behind every CLI entry point. By centralizing this
// logic, we ensure consistent behavior across commands and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Parse: Flatten the KLE JSON grid into a positioned key list
//  2. Group: Assign every key a switch matrix row and column
//  3. Nets: Build the net table and resolve per-key net numbers
//  4. Place: Compute footprint placement and trace geometry
//  5. Render: Serialize the KiCad schematic, layout and project files
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{Input: "layout.json", OutDir: "mykeyboard"}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sch := result.Artifacts[opts.SchematicName()]
package pipeline

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kbforge/klegen/pkg/buildinfo"
	"github.com/kbforge/klegen/pkg/errors"
	"github.com/kbforge/klegen/pkg/kle"
	"github.com/kbforge/klegen/pkg/matrix"
	"github.com/kbforge/klegen/pkg/netlist"
	"github.com/kbforge/klegen/pkg/pcb"
)

// DefaultPolicy is the column assignment policy used when none is given.
const DefaultPolicy = matrix.PolicySequential

// Artifact file extensions.
const (
	ExtSchematic = ".sch"
	ExtBoard     = ".kicad_pcb"
	ExtProject   = ".pro"
	ExtDiagram   = ".svg"
)

// Options contains all configuration for a generation run.
// This struct supports JSON serialization for config files and tooling.
type Options struct {
	// Input is the KLE JSON layout file. Required.
	Input string `json:"input"`

	// OutDir is the target project directory. Defaults to the input
	// file name without its extension.
	OutDir string `json:"out_dir,omitempty"`

	// ProjectName is the base name of the generated files. Defaults to
	// the last element of OutDir, matching KiCad's convention that the
	// project directory and file set share a name.
	ProjectName string `json:"project_name,omitempty"`

	// Policy selects column assignment: "seq" or "pos".
	Policy string `json:"columns,omitempty"`

	// NoRouting disables row and column trace generation; switch,
	// diode, via and diode trace records are always emitted.
	NoRouting bool `json:"no_routing,omitempty"`

	// Diagram additionally renders an SVG wiring diagram of the matrix.
	Diagram bool `json:"diagram,omitempty"`

	// GeneratedBy identifies the tool in the schematic sheet comment.
	GeneratedBy string `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// policy is the parsed Policy, set by ValidateAndSetDefaults.
	policy matrix.Policy

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input layout file is required")
	}
	if o.OutDir == "" {
		base := filepath.Base(o.Input)
		o.OutDir = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if o.ProjectName == "" {
		o.ProjectName = filepath.Base(filepath.Clean(o.OutDir))
	}
	if o.Policy == "" {
		o.Policy = string(DefaultPolicy)
	}
	p, err := matrix.ParsePolicy(o.Policy)
	if err != nil {
		return err
	}
	o.policy = p
	if o.GeneratedBy == "" {
		o.GeneratedBy = "klegen v" + buildinfo.Version
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// MatrixPolicy returns the parsed column assignment policy.
// Only valid after ValidateAndSetDefaults.
func (o *Options) MatrixPolicy() matrix.Policy {
	return o.policy
}

// Routing reports whether row and column traces should be generated.
func (o *Options) Routing() bool {
	return !o.NoRouting
}

// SchematicName returns the schematic artifact file name.
func (o *Options) SchematicName() string { return o.ProjectName + ExtSchematic }

// BoardName returns the layout artifact file name.
func (o *Options) BoardName() string { return o.ProjectName + ExtBoard }

// ProjectFileName returns the project descriptor file name.
func (o *Options) ProjectFileName() string { return o.ProjectName + ExtProject }

// DiagramName returns the wiring diagram file name.
func (o *Options) DiagramName() string { return o.ProjectName + ExtDiagram }

// Result contains the outputs of a pipeline run.
type Result struct {
	// Keyboard is the parsed and fully annotated layout.
	Keyboard *kle.Keyboard

	// Nets is the resolved net table.
	Nets *netlist.Table

	// Plan holds the placement and trace records behind the layout file.
	Plan *pcb.Plan

	// Artifacts contains rendered outputs keyed by file name.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	KeyCount int
	RowCount int // matrix rows actually used
	ColCount int // matrix columns actually used

	ParseTime  time.Duration
	GroupTime  time.Duration
	NetTime    time.Duration
	PlaceTime  time.Duration
	RenderTime time.Duration
}

// usedBlocks counts the non-empty blocks of a collection; positional
// column assignment can leave gaps.
func usedBlocks(c *kle.BlockCollection) int {
	n := 0
	for _, block := range c.Blocks() {
		if len(block) > 0 {
			n++
		}
	}
	return n
}
