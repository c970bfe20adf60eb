package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"model-mapper/internal/export"
	"model-mapper/internal/mapping"
	"model-mapper/internal/registry"
	"model-mapper/internal/source"
	"model-mapper/internal/storage"
	_ "model-mapper/internal/storage/all"
	"model-mapper/internal/transform"
)

const storeTimeout = 30 * time.Second

type transformOptions struct {
	mappingPath    string
	inputPath      string
	sourceType     string
	relations      map[string]string
	runID          string
	store          bool
	dump           bool
	failOnWarnings bool
}

func newTransformCommand(a *app) *cobra.Command {
	opts := &transformOptions{}

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "transform a source record",
		Long: `Transform a source record (YAML or JSON) with a mapping document.

The produced entities are printed as a JSON array in completion order:
children come before their parents. Back-references to parents are printed
as {"$ref": <id>, "_context": <type>}. Run-time warnings go to the log.`,
		Example: `  $ model-mapper transform -m mapping.yaml -i record.yaml -c http://schema.org/ResearchProject

  # Resolve a relationship the mapping document does not
  $ model-mapper transform -m mapping.yaml -i record.yaml -c http://schema.org/ResearchProject \
      --relation has_contributors=http://schema.org/Person

  # Save the exported entities with the configured storage backend
  $ MODEL_MAPPER_STORAGE_DRIVER=sqlite MODEL_MAPPER_STORAGE_DSN=runs.db \
      model-mapper transform -m mapping.yaml -i record.yaml -c http://schema.org/ResearchProject --store`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTransform(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.mappingPath, "mapping", "m", "", "mapping document (YAML or JSON)")
	f.StringVarP(&opts.inputPath, "input", "i", "", "source record (YAML, or JSON by .json extension)")
	f.StringVarP(&opts.sourceType, "context", "c", "", "source context of the root record")
	f.StringToStringVar(&opts.relations, "relation", nil, "extra relationship=context resolutions")
	f.StringVar(&opts.runID, "run-id", "", "run id (default random UUID)")
	f.BoolVar(&opts.store, "store", false, "save the exported entities with the configured storage")
	f.BoolVar(&opts.dump, "dump", false, "print the raw entity graph instead of JSON")
	f.BoolVar(&opts.failOnWarnings, "fail-on-warnings", false, "exit non-zero when the run reports warnings")

	for _, name := range []string{"mapping", "input", "context"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func (a *app) runTransform(cmd *cobra.Command, opts *transformOptions) error {
	if opts.store && !a.cfg.Storage.Enabled() {
		return errors.New("--store requires storage.driver to be configured")
	}

	spec, err := mapping.LoadFile(opts.mappingPath)
	if err != nil {
		return err
	}

	index, err := registry.Build(spec)
	if err != nil {
		var cfgErr *mapping.ConfigurationError
		if errors.As(err, &cfgErr) {
			printDiagnostics(cmd, cfgErr.Diagnostics.All())
		}

		return err
	}

	root, err := source.LoadFile(opts.inputPath)
	if err != nil {
		return err
	}

	trOpts := []transform.Option{
		transform.WithLogger(a.logger),
		transform.WithSuggestions(a.cfg.Transform.Suggestions),
		transform.WithResolver(transform.DefaultResolver(spec, a.cfg.Transform.RelationshipContexts, opts.relations)),
	}

	if opts.runID != "" {
		runID := opts.runID
		trOpts = append(trOpts, transform.WithRunIDFunc(func() string { return runID }))
	}

	res := transform.New(index, trOpts...).Transform(root, opts.sourceType)

	if opts.dump {
		export.Dump(cmd.OutOrStdout(), res.Entities)
	}

	records := export.Export(res.Entities)

	if !opts.dump {
		if err := export.Encode(cmd.OutOrStdout(), records); err != nil {
			return err
		}
	}

	if opts.store {
		if err := a.store(cmd.Context(), res.RunID, records); err != nil {
			return err
		}
	}

	if opts.failOnWarnings && res.Diagnostics.HasWarnings() {
		return fmt.Errorf("run %s reported %d warning(s)", res.RunID, len(res.Diagnostics.Warnings))
	}

	return nil
}

func (a *app) store(ctx context.Context, runID string, records []export.Record) error {
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

	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	if err := repo.SaveRun(ctx, runID, records); err != nil {
		return err
	}

	a.logger.Info("run stored", "run_id", runID, "driver", a.cfg.Storage.Driver, "entities", len(records))

	return nil
}
