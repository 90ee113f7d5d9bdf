package apimerge

import (
	internalLoader "github.com/goliatone/go-apimerge/internal/openapi/loader"
	internalParser "github.com/goliatone/go-apimerge/internal/openapi/parser"
	"github.com/goliatone/go-apimerge/pkg/merge"
	pkgopenapi "github.com/goliatone/go-apimerge/pkg/openapi"
	"github.com/goliatone/go-apimerge/pkg/registry"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	cfg := pkgopenapi.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	cfg := pkgopenapi.NewParserOptions(options...)
	return internalParser.New(cfg)
}

// NewMerger constructs a merge processor.
func NewMerger(options ...merge.Option) *merge.Merger {
	return merge.New(options...)
}

// NewRegistry wires a registry to the given loader and parser, falling back to
// the default implementations when either is nil.
func NewRegistry(loader pkgopenapi.Loader, parser pkgopenapi.Parser, options ...registry.Option) *registry.Registry {
	if loader == nil {
		loader = NewLoader()
	}
	if parser == nil {
		parser = NewParser()
	}
	return registry.New(loader, parser, options...)
}
