package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-apimerge/pkg/model"
	pkgopenapi "github.com/goliatone/go-apimerge/pkg/openapi"
)

type initFile struct {
	Modules []initModule `yaml:"modules"`
	Output  initOutput   `yaml:"output"`
	Info    *initInfo    `yaml:"info,omitempty"`
}

type initModule struct {
	Name        string `yaml:"name"`
	Source      string `yaml:"source"`
	ContextRoot string `yaml:"contextRoot,omitempty"`
}

type initOutput struct {
	Path     string `yaml:"path,omitempty"`
	Format   string `yaml:"format"`
	Sanitize bool   `yaml:"sanitize,omitempty"`
}

type initInfo struct {
	Title   string `yaml:"title"`
	Version string `yaml:"version,omitempty"`
}

var outputFormats = []string{string(model.FormatYAML), string(model.FormatJSON)}

func (app *cli) initCmd() *cobra.Command {
	var (
		file  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file by answering prompts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				if _, err := os.Stat(file); err == nil {
					return fmt.Errorf("%s already exists, use --force to overwrite", file)
				}
			}

			driver := app.prompts
			if driver == nil {
				driver = &surveyDriver{}
			}
			answers, err := askInit(cmd.Context(), driver)
			if errors.Is(err, errAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "init aborted")
				return nil
			}
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(answers)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			if err := os.WriteFile(file, data, 0o644); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			app.logger.Info("wrote config", zap.String("path", file), zap.Int("modules", len(answers.Modules)))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s with %d module(s)\n", file, len(answers.Modules))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "apimerge.yaml", "config file to write")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func askInit(ctx context.Context, driver promptDriver) (*initFile, error) {
	answers := &initFile{}
	names := make(map[string]bool)

	for {
		name, err := driver.Input(ctx, inputConfig{
			Message: "Module name",
			Validator: func(value string) error {
				value = strings.TrimSpace(value)
				if value == "" {
					return errors.New("name is required")
				}
				if names[value] {
					return fmt.Errorf("module %q already added", value)
				}
				return nil
			},
		})
		if err != nil {
			return nil, err
		}
		source, err := driver.Input(ctx, inputConfig{
			Message: "OpenAPI document",
			Help:    "A file path, file:// URL or http(s):// URL",
			Validator: func(value string) error {
				_, err := pkgopenapi.ParseSource(strings.TrimSpace(value))
				return err
			},
		})
		if err != nil {
			return nil, err
		}
		root, err := driver.Input(ctx, inputConfig{
			Message: "Context root (optional)",
			Validator: func(value string) error {
				value = strings.TrimSpace(value)
				if value != "" && !strings.HasPrefix(value, "/") {
					return errors.New("context root must start with /")
				}
				return nil
			},
		})
		if err != nil {
			return nil, err
		}

		name = strings.TrimSpace(name)
		names[name] = true
		answers.Modules = append(answers.Modules, initModule{
			Name:        name,
			Source:      strings.TrimSpace(source),
			ContextRoot: strings.TrimSpace(root),
		})

		more, err := driver.Confirm(ctx, confirmConfig{Message: "Add another module?"})
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}

	idx, err := driver.Select(ctx, selectConfig{Message: "Output format", Options: outputFormats})
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		idx = 0
	}
	answers.Output.Format = outputFormats[idx]

	path, err := driver.Input(ctx, inputConfig{
		Message: "Output file (empty for stdout)",
		Default: "openapi." + answers.Output.Format,
	})
	if err != nil {
		return nil, err
	}
	answers.Output.Path = strings.TrimSpace(path)

	answers.Output.Sanitize, err = driver.Confirm(ctx, confirmConfig{
		Message: "Strip unsafe HTML from descriptions?",
		Default: true,
	})
	if err != nil {
		return nil, err
	}

	title, err := driver.Input(ctx, inputConfig{
		Message: "Title used when modules disagree (optional)",
	})
	if err != nil {
		return nil, err
	}
	if title = strings.TrimSpace(title); title != "" {
		answers.Info = &initInfo{Title: title}
	}
	return answers, nil
}
