package main

import (
	"github.com/spf13/cobra"

	"github.com/brettbedarf/vtree/config"
	"github.com/brettbedarf/vtree/filesystem"
	"github.com/brettbedarf/vtree/internal/util"
	"github.com/brettbedarf/vtree/manifest"
)

type rootOptions struct {
	manifestPath string
	configPath   string
	verbose      int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "vtree",
		Short: "Inspect an in-memory namespace built from a manifest",
		Long: `vtree builds an in-memory namespace of directories, items and symbolic
links from a manifest file and queries it.

Manifest entries are applied in order; failing entries are logged and skipped.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			util.InitializeLogger(util.LevelFromVerbosity(opts.verbose), cmd.ErrOrStderr())
			logger := util.GetLogger("main")
			logger.Debug().Str("command", cmd.Name()).Str("manifest", opts.manifestPath).Msg("Command started")
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.manifestPath, "manifest", "m", "", "Path to the manifest file (YAML or JSON)")
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a config override file (YAML, JSON or TOML)")
	cmd.PersistentFlags().IntVarP(&opts.verbose, "verbose", "v", config.InfoVerbose,
		"Log verbosity level between 1 (error) and 5 (trace)")

	cmd.AddCommand(
		newTreeCmd(opts),
		newListCmd(opts),
		newResolveCmd(opts),
		newStatCmd(opts),
		newGlobCmd(opts),
	)
	return cmd
}

// load builds the namespace described by the command line flags. A log
// level from the config file applies unless --verbose was given.
func (o *rootOptions) load(cmd *cobra.Command) (*filesystem.Storage[string], error) {
	logger := util.GetLogger("main")

	cfg := config.NewDefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = config.NewConfigFromFile(o.configPath); err != nil {
			logger.Error().Err(err).Str("config", o.configPath).Msg("Failed to load config file")
			return nil, err
		}
	}
	if cmd.Flags().Changed("verbose") || o.configPath == "" {
		cfg.LogLvl = util.LevelFromVerbosity(o.verbose)
	} else {
		util.InitializeLogger(cfg.LogLvl, cmd.ErrOrStderr())
		logger = util.GetLogger("main")
	}

	fs, err := filesystem.NewStorage[string](cfg)
	if err != nil {
		return nil, err
	}
	if o.manifestPath == "" {
		logger.Warn().Msg("No manifest file provided")
		return fs, nil
	}

	m, err := manifest.Load(o.manifestPath)
	if err != nil {
		logger.Error().Err(err).Str("manifest", o.manifestPath).Msg("Failed to read manifest file")
		return nil, err
	}
	if err := m.Apply(fs); err != nil {
		logger.Warn().Err(err).Str("manifest", o.manifestPath).Msg("Some manifest entries were not applied")
	}
	logger.Debug().Int("entries", len(m.Entries)).Msg("Manifest loaded")
	return fs, nil
}
