package main

import (
	"github.com/shamank/chaincfg/pkg/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	dir   string
	debug bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "chaincfg",
		Short: "Resolve and inspect smart-contract tooling configuration",
		Long: `chaincfg builds the network, test runner and compiler configuration from
built-in defaults and an optional chaincfg-local.{yaml,yml,json,toml} file,
then prints it or checks the networks it declares.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(opts.debug)
			if err != nil {
				return err
			}
			zap.ReplaceGlobals(logger)
			zap.L().Debug("command started", zap.String("command", cmd.Name()))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.dir, "dir", ".", "directory searched for the local override file")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newShowCmd(opts),
		newNetworksCmd(opts),
		newCheckCmd(opts),
		newCompilerCmd(opts),
	)
	return cmd
}

// newLogger builds a console logger on stderr so that command output on
// stdout stays machine-readable.
func newLogger(debug bool) (*zap.Logger, error) {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	c := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      debug,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return c.Build()
}

func (o *rootOptions) resolve() *config.Config {
	return config.NewResolver(config.WithDir(o.dir)).Resolve()
}
