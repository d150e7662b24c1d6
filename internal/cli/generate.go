package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbforge/klegen/pkg/errors"
	"github.com/kbforge/klegen/pkg/observability"
	"github.com/kbforge/klegen/pkg/output"
	"github.com/kbforge/klegen/pkg/pipeline"
)

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts pipeline.Options
	var configPath string

	cmd := &cobra.Command{
		Use:   "generate <layout.json>",
		Short: "Generate a KiCad project from a KLE layout",
		Long: `Generate reads a Keyboard Layout Editor JSON export and produces a
complete KiCad project: schematic, PCB layout and project file. The
file set is staged and committed together; a run that fails while
generating content leaves no partial output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			applyConfig(cmd, cfg, &opts)

			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runGenerate(ctx, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "", "output directory (default: input name without extension)")
	cmd.Flags().StringVar(&opts.Policy, "columns", "", `column assignment: "seq" or "pos" (default "seq")`)
	cmd.Flags().BoolVar(&opts.NoRouting, "no-routing", false, "skip routing of matrix traces")
	cmd.Flags().BoolVar(&opts.Diagram, "diagram", false, "also render a matrix wiring diagram (SVG)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: "+configFileName+" if present)")

	return cmd
}

// runGenerate executes the full pipeline and commits the file set.
func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	logger := loggerFromContext(ctx)
	opts.Logger = logger
	prog := newProgress(logger)

	spinner := newSpinnerWithContext(ctx, "Generating "+opts.ProjectName+"...")
	spinner.Start()

	runner := pipeline.NewRunner(logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			printWarning("Generation cancelled")
			return err
		}
		spinner.StopWithError("Generation failed: " + errors.UserMessage(err))
		return err
	}

	// Stage artifacts in a stable order so commit output is predictable.
	set := output.NewSet()
	for _, name := range []string{
		opts.SchematicName(),
		opts.BoardName(),
		opts.ProjectFileName(),
		opts.DiagramName(),
	} {
		if data, ok := result.Artifacts[name]; ok {
			set.Add(name, data)
		}
	}

	unchanged := set.Unchanged(opts.OutDir)
	unchangedSet := make(map[string]bool, len(unchanged))
	for _, name := range unchanged {
		unchangedSet[name] = true
	}

	hooks := observability.Generator()
	for _, name := range set.Names() {
		hooks.OnArtifact(ctx, name, len(result.Artifacts[name]), !unchangedSet[name])
	}

	paths, err := set.Commit(opts.OutDir)
	if err != nil {
		spinner.StopWithError("Writing output failed: " + errors.UserMessage(err))
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Generated %s", opts.ProjectName))

	if result.Keyboard.Name != "" {
		printKeyValue("Name", result.Keyboard.Name)
	}
	if result.Keyboard.Author != "" {
		printKeyValue("Author", result.Keyboard.Author)
	}
	printMatrixStats(result.Stats.KeyCount, result.Stats.RowCount, result.Stats.ColCount)
	printNewline()
	for _, path := range paths {
		printFile(path)
	}
	if len(unchanged) > 0 {
		printDetail("%d file(s) unchanged since last run", len(unchanged))
	}
	printNewline()
	if !opts.Diagram {
		printNextStep("Inspect the matrix", fmt.Sprintf("%s diagram %s", appName, opts.Input))
	}

	prog.done(fmt.Sprintf("Wrote %d files to %s", set.Len(), opts.OutDir))
	return nil
}
