package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillo/pulse/internal/workflow"
)

// GraphOptions holds flags for the graph command.
type GraphOptions struct {
	*RootOptions
	Output string
}

// NewGraphCommand creates the graph command.
func NewGraphCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GraphOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "graph <workflow-file>",
		Short: "Export a workflow as Graphviz DOT",
		Long: `Export a workflow file as a Graphviz DOT graph for visualization.

Example:
  pulse graph workflow.json | dot -Tsvg -o workflow.svg`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write DOT to file instead of stdout")

	return cmd
}

func runGraph(opts *GraphOptions, path string, cmd *cobra.Command) error {
	g, err := workflow.Load(path)
	if err != nil {
		return WrapExitError(ExitFailure, "load workflow", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dot, err := workflow.ToDOT(name, g)
	if err != nil {
		return WrapExitError(ExitCommandError, "render DOT", err)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(dot), 0o644); err != nil {
			return WrapExitError(ExitCommandError, "write DOT file", err)
		}
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), dot)
	return nil
}
