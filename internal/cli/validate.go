package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillo/pulse/internal/workflow"
)

// FileResult holds validation results for one workflow file.
type FileResult struct {
	File   string                     `json:"file"`
	Valid  bool                       `json:"valid"`
	Errors []workflow.ValidationError `json:"errors,omitempty"`
	Nodes  int                        `json:"nodes"`
	Edges  int                        `json:"edges"`
}

// ValidationSummary aggregates results across all validated files.
type ValidationSummary struct {
	Valid bool         `json:"valid"`
	Files []FileResult `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <workflow-file>...",
		Short: "Validate workflow files",
		Long: `Validate workflow JSON or YAML files without registering them.

Each file is checked against the workflow schema (node shapes, known
trigger and action types, non-negative delays) and then against graph
invariants (unique ids, no dangling edges).`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	summary := ValidationSummary{Valid: true}
	for _, path := range paths {
		formatter.VerboseLog("Validating %s", path)

		if _, err := os.Stat(path); err != nil {
			_ = formatter.Error(ErrCodeNotFound, "workflow file not found: "+path, nil)
			return WrapExitError(ExitCommandError, "workflow file not found", err)
		}

		result := FileResult{File: path, Valid: true}
		g, err := workflow.Load(path)
		switch {
		case err == nil:
			result.Nodes = len(g.Nodes)
			result.Edges = len(g.Edges)
		default:
			result.Valid = false
			summary.Valid = false
			var verrs workflow.ValidationErrors
			if errors.As(err, &verrs) {
				result.Errors = verrs
			} else {
				result.Errors = []workflow.ValidationError{{
					Field:   "workflow",
					Message: err.Error(),
					Code:    ErrCodeInvalid,
				}}
			}
		}
		summary.Files = append(summary.Files, result)
	}

	if !summary.Valid {
		if formatter.Format == "json" {
			if err := formatter.Success(summary); err != nil {
				return err
			}
		} else {
			for _, fr := range summary.Files {
				for _, ve := range fr.Errors {
					_ = formatter.Error(ve.Code, fr.File+": "+ve.Message, nil)
				}
			}
		}
		return WrapExitError(ExitFailure, "validation failed", nil)
	}

	if formatter.Format == "json" {
		return formatter.Success(summary)
	}
	for _, fr := range summary.Files {
		formatter.VerboseLog("%s: %d nodes, %d edges", fr.File, fr.Nodes, fr.Edges)
	}
	return formatter.Success("All workflows valid")
}
