package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbforge/klegen/pkg/errors"
	"github.com/kbforge/klegen/pkg/pipeline"
	"github.com/kbforge/klegen/pkg/render"
)

// diagramCommand creates the diagram command.
func (c *CLI) diagramCommand() *cobra.Command {
	var opts pipeline.Options
	var outFile string
	var dotOnly bool

	cmd := &cobra.Command{
		Use:   "diagram <layout.json>",
		Short: "Render the switch matrix as a wiring diagram",
		Long: `Diagram assigns keys to the switch matrix and renders the row/column
wiring as an SVG graph. With --dot the graph source is printed to
stdout instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			opts.Logger = c.Logger

			runner := pipeline.NewRunner(c.Logger)
			result, err := runner.Analyze(cmd.Context(), &opts)
			if err != nil {
				printError("%s", errors.UserMessage(err))
				return err
			}

			dot := render.MatrixDOT(result.Keyboard)
			if dotOnly {
				fmt.Println(dot)
				return nil
			}

			svg, err := render.RenderSVG(dot)
			if err != nil {
				printError("Rendering diagram failed: %s", errors.UserMessage(err))
				return err
			}

			if outFile == "" {
				outFile = opts.ProjectName + pipeline.ExtDiagram
			}
			if err := os.WriteFile(outFile, svg, 0644); err != nil {
				return errors.Wrap(errors.ErrCodeOutput, err, "write diagram %s", outFile)
			}

			printSuccess("Rendered matrix diagram")
			printFile(outFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: layout name with .svg)")
	cmd.Flags().BoolVar(&dotOnly, "dot", false, "print Graphviz DOT source instead of rendering SVG")
	cmd.Flags().StringVar(&opts.Policy, "columns", "", `column assignment: "seq" or "pos" (default "seq")`)

	return cmd
}
