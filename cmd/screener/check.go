package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aescanero/scheme-screener/internal/eval/cel"
	"github.com/aescanero/scheme-screener/internal/scheme"
)

func newCheckCmd() *cobra.Command {
	var schemesFile string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a scheme catalog and its custom conditions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := catalogPath(schemesFile)
			if err != nil {
				return err
			}
			return runCheck(cmd.Context(), cmd.OutOrStdout(), path)
		},
	}

	cmd.Flags().StringVar(&schemesFile, "schemes", "", "scheme catalog path (default $SCHEMES_FILE)")
	return cmd
}

// runCheck loads the catalog and type-checks every condition
func runCheck(ctx context.Context, out io.Writer, path string) error {
	schemes, err := scheme.NewFileCatalog(path).Load(ctx)
	if err != nil {
		return err
	}

	evaluator := cel.NewEvaluator()
	conditions := 0
	invalid := 0
	for _, s := range schemes {
		for _, expression := range s.Eligibility.Conditions {
			conditions++
			if err := evaluator.ValidateExpression(expression); err != nil {
				invalid++
				fmt.Fprintf(out, "scheme %s: %v\n", s.ID, err)
			}
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%s: %d of %d conditions are invalid", path, invalid, conditions)
	}

	fmt.Fprintf(out, "%s: %d schemes, %d conditions OK\n", path, len(schemes), conditions)
	return nil
}
