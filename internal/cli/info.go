package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbforge/klegen/pkg/errors"
	"github.com/kbforge/klegen/pkg/pipeline"
)

// infoCommand creates the info command.
func (c *CLI) infoCommand() *cobra.Command {
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "info <layout.json>",
		Short: "Inspect a KLE layout without generating files",
		Long: `Info parses a layout, assigns keys to the switch matrix and builds the
net table, then reports what a generate run would produce. No files
are written.`,
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

			name := result.Keyboard.Name
			if name == "" {
				name = StyleDim.Render("(unnamed)")
			}
			author := result.Keyboard.Author
			if author == "" {
				author = StyleDim.Render("(unknown)")
			}

			fmt.Println(StyleTitle.Render(opts.ProjectName))
			printKeyValue("Name", name)
			printKeyValue("Author", author)
			printKeyValue("Keys", fmt.Sprintf("%d", result.Stats.KeyCount))
			printKeyValue("Matrix", fmt.Sprintf("%d x %d", result.Stats.RowCount, result.Stats.ColCount))
			printKeyValue("Nets", fmt.Sprintf("%d", result.Nets.Len()))
			printNewline()
			printInfo("Would write:")
			printFile(opts.SchematicName())
			printFile(opts.BoardName())
			printFile(opts.ProjectFileName())
			printNewline()
			printNextStep("Generate the project", fmt.Sprintf("%s generate %s", appName, opts.Input))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Policy, "columns", "", `column assignment: "seq" or "pos" (default "seq")`)

	return cmd
}
