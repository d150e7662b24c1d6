package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kbforge/klegen/pkg/kle"
	"github.com/kbforge/klegen/pkg/matrix"
	"github.com/kbforge/klegen/pkg/netlist"
	"github.com/kbforge/klegen/pkg/observability"
	"github.com/kbforge/klegen/pkg/pcb"
	"github.com/kbforge/klegen/pkg/render"
)

// Runner encapsulates pipeline execution.
//
// The Runner is stateless except for the logger - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner with the given logger.
// If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete parse → group → nets → place → render
// pipeline. The context is checked between stages so a cancelled run
// stops at the next stage boundary.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	result, err := r.Analyze(ctx, &opts)
	if err != nil {
		return nil, err
	}

	var plan *pcb.Plan
	placeTime, err := r.stage(ctx, observability.StagePlace, func() error {
		var err error
		plan, err = pcb.Generate(result.Keyboard, opts.Routing())
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Plan = plan
	result.Stats.PlaceTime = placeTime
	r.Logger.Info("placed components",
		"switches", len(plan.Switches),
		"tracks", len(plan.Tracks),
		"vias", len(plan.Vias),
		"duration", placeTime)

	artifacts := make(map[string][]byte)
	renderTime, err := r.stage(ctx, observability.StageRender, func() error {
		sch, err := render.Schematic(result.Keyboard, time.Now(), opts.GeneratedBy)
		if err != nil {
			return err
		}
		artifacts[opts.SchematicName()] = sch

		board, err := render.Board(result.Keyboard, result.Nets, plan)
		if err != nil {
			return err
		}
		artifacts[opts.BoardName()] = board

		project, err := render.Project()
		if err != nil {
			return err
		}
		artifacts[opts.ProjectFileName()] = project

		if opts.Diagram {
			svg, err := render.RenderSVG(render.MatrixDOT(result.Keyboard))
			if err != nil {
				return err
			}
			artifacts[opts.DiagramName()] = svg
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = renderTime
	r.Logger.Info("rendered outputs",
		"files", len(artifacts),
		"duration", renderTime)

	return result, nil
}

// Analyze runs the parse, group and nets stages only, returning the
// annotated keyboard without placement or rendered artifacts. Commands
// that inspect a layout without generating files use this entry point.
func (r *Runner) Analyze(ctx context.Context, opts *Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(opts)

	result := &Result{}

	var kb *kle.Keyboard
	parseTime, err := r.stage(ctx, observability.StageParse, func() error {
		var err error
		kb, err = kle.ParseFile(opts.Input)
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Keyboard = kb
	result.Stats.ParseTime = parseTime
	result.Stats.KeyCount = len(kb.Keys)
	r.Logger.Info("parsed layout",
		"keys", len(kb.Keys),
		"name", kb.Name,
		"duration", parseTime)

	groupTime, err := r.stage(ctx, observability.StageGroup, func() error {
		return matrix.Assign(kb, opts.MatrixPolicy())
	})
	if err != nil {
		return nil, err
	}
	result.Stats.GroupTime = groupTime
	result.Stats.RowCount = usedBlocks(&kb.Rows)
	result.Stats.ColCount = usedBlocks(&kb.Cols)
	r.Logger.Info("grouped matrix",
		"policy", opts.Policy,
		"rows", result.Stats.RowCount,
		"cols", result.Stats.ColCount,
		"duration", groupTime)

	var nets *netlist.Table
	netTime, err := r.stage(ctx, observability.StageNets, func() error {
		nets = netlist.Build(len(kb.Keys))
		return netlist.Annotate(kb, nets)
	})
	if err != nil {
		return nil, err
	}
	result.Nets = nets
	result.Stats.NetTime = netTime
	r.Logger.Debug("resolved nets", "nets", nets.Len(), "duration", netTime)

	return result, nil
}

// stage runs fn as a named pipeline stage: it checks for cancellation,
// fires the observability hooks and reports the stage duration.
func (r *Runner) stage(ctx context.Context, name string, fn func() error) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	hooks := observability.Generator()
	hooks.OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	hooks.OnStageComplete(ctx, name, elapsed, err)
	return elapsed, err
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
