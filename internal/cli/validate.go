package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"model-mapper/internal/diagnostic"
	"model-mapper/internal/mapping"
)

func newValidateCommand(a *app) *cobra.Command {
	var mappingPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "check a mapping document",
		Long: `Load a mapping document and report configuration errors and warnings.

The command fails when the document has at least one error. Warnings such
as a map_values rule with an empty value_map are printed but do not fail.`,
		Example: `  $ model-mapper validate --mapping examples/dmp-to-cao/mapping.yaml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec, err := mapping.LoadFile(mappingPath)
			if err != nil {
				return err
			}

			result := mapping.Validate(spec)
			printDiagnostics(cmd, result.All())

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d error(s), %d warning(s)\n",
				mappingPath, len(result.Errors), len(result.Warnings))

			a.logger.Debug("mapping validated",
				"mapping", mappingPath,
				"entity_mappings", len(spec.EntityMappings),
				"errors", len(result.Errors),
				"warnings", len(result.Warnings),
			)

			if result.HasErrors() {
				return fmt.Errorf("mapping %s is invalid", mappingPath)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&mappingPath, "mapping", "m", "", "mapping document (YAML or JSON)")
	_ = cmd.MarkFlagRequired("mapping")

	return cmd
}

func printDiagnostics(cmd *cobra.Command, diags []diagnostic.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", d.Severity, d)
	}
}
