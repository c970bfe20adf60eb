package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"model-mapper/internal/export"
	"model-mapper/internal/storage"
)

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "show RUN_ID",
		Short:   "print the entities of a stored run",
		Example: `  $ model-mapper show 3f1c2a9e-6b0d-4c55-9a53-0f8f3b1d2c11`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.Storage.Enabled() {
				return errors.New("show requires storage.driver to be configured")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			ctx, cancel := context.WithTimeout(ctx, storeTimeout)
			defer cancel()

			repo, err := storage.Open(ctx, storage.Config{Driver: a.cfg.Storage.Driver, DSN: a.cfg.Storage.DSN})
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer repo.Close()

			records, err := repo.LoadRun(ctx, args[0])
			if err != nil {
				return err
			}

			return export.Encode(cmd.OutOrStdout(), records)
		},
	}
}
