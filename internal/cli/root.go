// Package cli implements the model-mapper command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"model-mapper/internal/config"
	"model-mapper/internal/logging"
)

const version = "0.1.0"

// app carries state shared by subcommands once PersistentPreRunE has run.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger logging.Logger
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:     "model-mapper",
		Short:   "Transform entity graphs with declarative mapping rules",
		Version: version,
		Long: `model-mapper converts a hierarchical source record into entities of a target
logical model. Which source context maps to which target context, how
attributes are copied, renamed, substituted or nested, and how related
entities link back to their parents is declared in a mapping document.`,
		Example: `  # Check a mapping document
  $ model-mapper validate --mapping examples/dmp-to-cao/mapping.yaml

  # Transform a record and print the produced entities as JSON
  $ model-mapper transform \
      --mapping examples/dmp-to-cao/mapping.yaml \
      --input examples/dmp-to-cao/source.yaml \
      --context http://schema.org/ResearchProject`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetVersionTemplate(fmt.Sprintf("model-mapper version %s\n", version))

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./model-mapper.yaml)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	cmd.AddCommand(newValidateCommand(a))
	cmd.AddCommand(newTransformCommand(a))
	cmd.AddCommand(newShowCommand(a))

	return cmd
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	lc := cfg.LoggingConfig()
	if cfg.Log.Output == "stderr" {
		lc.Writer = cmd.ErrOrStderr()
	}

	logger, err := logging.New(lc)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger

	return nil
}
