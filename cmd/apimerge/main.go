package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-apimerge/internal/config"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// cli carries the state shared by every subcommand.
type cli struct {
	configPath string
	verbose    bool

	cfg     *config.Config
	logger  *zap.Logger
	prompts promptDriver
	stdout  io.Writer
	stderr  io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	app := &cli{stdout: stdout, stderr: stderr}
	return app.rootCmd()
}

func (app *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "apimerge",
		Short: "Merge the OpenAPI documents of application modules",
		Long: `apimerge combines the OpenAPI documents contributed by the modules of an
application into a single document.

Paths are prefixed with each module's context root, clashing components,
operation ids and tags are renamed, and modules that cannot be merged are
reported as problems instead of failing the whole run.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(app.configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			app.cfg = cfg

			if app.logger != nil {
				return nil
			}
			logger, err := buildLogger(cfg.Log.Level, app.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			app.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.logger != nil {
				_ = app.logger.Sync()
			}
		},
	}
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	root.PersistentFlags().StringVarP(&app.configPath, "config", "c", "", "config file (default ./apimerge.yaml)")
	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(app.initCmd(), app.mergeCmd(), app.serveCmd(), app.validateCmd())
	return root
}

func buildLogger(level string, verbose bool) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zapConfig.Level = zap.NewAtomicLevelAt(parsed)
	if verbose {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zapConfig.Build()
}
