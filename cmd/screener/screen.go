package main

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aescanero/scheme-screener/internal/eligibility"
	"github.com/aescanero/scheme-screener/internal/scheme"
)

func newScreenCmd() *cobra.Command {
	var (
		schemesFile string
		conditions  bool
	)
	values := make(map[string]*string, len(eligibility.FormFields))

	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Screen one applicant against a catalog and print the matches as JSON",
		Example: "  screener screen --schemes schemes.json --age 34 --gender female --caste sc \\\n" +
			"    --district bidar --income 45000 --occupation farmer --location rural",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := catalogPath(schemesFile)
			if err != nil {
				return err
			}

			form := make(eligibility.Form, len(values))
			for field, value := range values {
				form[field] = *value
			}

			return runScreen(cmd.Context(), cmd.OutOrStdout(), path, form, newConditionEvaluator(conditions))
		},
	}

	cmd.Flags().StringVar(&schemesFile, "schemes", "", "scheme catalog path (default $SCHEMES_FILE)")
	cmd.Flags().BoolVar(&conditions, "conditions", true, "evaluate custom CEL conditions")
	for _, field := range eligibility.FormFields {
		values[field] = cmd.Flags().String(flagName(field), "", "applicant "+strings.ReplaceAll(field, "_", " "))
	}

	return cmd
}

// flagName maps a form field to its command-line flag
func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

// runScreen runs stage one for a single applicant
func runScreen(ctx context.Context, out io.Writer, path string, form eligibility.Form, conditions eligibility.ConditionEvaluator) error {
	schemes, err := scheme.NewFileCatalog(path).Load(ctx)
	if err != nil {
		return err
	}

	matched, err := eligibility.NewFilter(conditions, zap.NewNop()).Filter(ctx, schemes, form)
	if err != nil {
		return err
	}
	if matched == nil {
		matched = []scheme.Scheme{}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(matched)
}
