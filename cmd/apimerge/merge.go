package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-apimerge/pkg/model"
)

func (app *cli) mergeCmd() *cobra.Command {
	var (
		modules  []string
		output   string
		format   string
		strict   bool
		sanitize bool
	)
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge module documents into one OpenAPI document",
		Long: `Loads every configured module plus any --module flags and writes the merged
document. Problems are printed to stderr; with --strict they fail the command.

Example:
  apimerge merge --module orders=./orders.yaml@/orders --module customers=./customers.yaml@/customers`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = app.cfg.Output.Path
			}
			if format == "" {
				format = app.cfg.Output.Format
			}
			if sanitize {
				app.cfg.Output.Sanitize = true
			}
			outFormat, err := model.ParseFormat(format)
			if err != nil {
				return err
			}

			deployments, err := app.deployments(modules)
			if err != nil {
				return err
			}
			reg := app.registry()
			if _, err := reg.DeployAll(cmd.Context(), deployments); err != nil {
				return err
			}
			result := reg.Current().Result

			data, err := model.Encode(result.Document, outFormat)
			if err != nil {
				return err
			}
			if output == "" {
				if _, err := cmd.OutOrStdout().Write(data); err != nil {
					return err
				}
			} else {
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				app.logger.Info("wrote merged document",
					zap.String("path", output),
					zap.Strings("modules", result.IncludedModules()),
					zap.String("applicationPath", result.ApplicationPath),
				)
			}

			for _, problem := range result.Problems {
				fmt.Fprintln(cmd.ErrOrStderr(), problem)
			}
			if strict && len(result.Problems) > 0 {
				return fmt.Errorf("merge finished with %d problem(s)", len(result.Problems))
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&modules, "module", "m", nil, "module as name=source@/contextRoot (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: yaml or json")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any module reports a problem")
	cmd.Flags().BoolVar(&sanitize, "sanitize", false, "strip unsafe HTML from descriptions")
	return cmd
}
