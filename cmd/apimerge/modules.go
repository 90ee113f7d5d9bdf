package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-apimerge"
	"github.com/goliatone/go-apimerge/internal/config"
	"github.com/goliatone/go-apimerge/pkg/merge"
	"github.com/goliatone/go-apimerge/pkg/model"
	pkgopenapi "github.com/goliatone/go-apimerge/pkg/openapi"
	"github.com/goliatone/go-apimerge/pkg/registry"
	"github.com/goliatone/go-apimerge/pkg/sanitize"
)

func (app *cli) loader() pkgopenapi.Loader {
	options := []pkgopenapi.LoaderOption{pkgopenapi.WithMaxDocumentBytes(app.cfg.Loader.MaxBytes)}
	if app.cfg.Loader.AllowHTTP {
		options = append(options, pkgopenapi.WithHTTPFallback(app.cfg.Loader.Timeout))
	}
	return apimerge.NewLoader(options...)
}

func (app *cli) parser() pkgopenapi.Parser {
	return apimerge.NewParser(pkgopenapi.WithValidation(app.cfg.Parser.Validate))
}

func (app *cli) registry() *registry.Registry {
	merger := apimerge.NewMerger(
		merge.WithLogger(app.logger),
		merge.WithDefaultInfo(app.cfg.DefaultInfo()),
	)
	options := []registry.Option{
		registry.WithLogger(app.logger),
		registry.WithMerger(merger),
	}
	if app.cfg.Output.Sanitize {
		options = append(options, registry.WithTransform(func(doc *model.Document) {
			if n := sanitize.Descriptions(doc, nil); n > 0 {
				app.logger.Debug("sanitized descriptions", zap.Int("count", n))
			}
		}))
	}
	return apimerge.NewRegistry(app.loader(), app.parser(), options...)
}

// deployments combines configured modules with --module flags. A flag module
// replaces a configured module of the same name.
func (app *cli) deployments(flags []string) ([]registry.Deployment, error) {
	modules := append([]config.ModuleConfig(nil), app.cfg.Modules...)
	for _, raw := range flags {
		module, err := config.ParseModule(raw)
		if err != nil {
			return nil, err
		}
		replaced := false
		for i := range modules {
			if modules[i].Name == module.Name {
				modules[i] = module
				replaced = true
			}
		}
		if !replaced {
			modules = append(modules, module)
		}
	}
	if len(modules) == 0 {
		return nil, fmt.Errorf("no modules configured: pass --module or set modules in the config file")
	}

	deployments := make([]registry.Deployment, 0, len(modules))
	for _, module := range modules {
		src, err := pkgopenapi.ParseSource(module.Source)
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", module.Name, err)
		}
		deployments = append(deployments, registry.Deployment{
			Name:        module.Name,
			ContextRoot: module.ContextRoot,
			Source:      src,
		})
	}
	return deployments, nil
}
