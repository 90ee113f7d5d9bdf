package openapi

import (
	"context"

	"github.com/goliatone/go-apimerge/pkg/model"
)

// Parser turns a raw Document into the object graph consumed by the merge
// processor. A parse error is fatal to that module's contribution.
type Parser interface {
	Parse(ctx context.Context, doc Document) (*model.Document, error)
}

// ParserOptions exposes toggles for the parsing stage.
type ParserOptions struct {
	// Validate runs kin-openapi's structural validation before accepting the
	// document. Defaults to true.
	Validate bool

	// ExternalRefs allows the validating loader to follow references to
	// other files or URLs. Defaults to false so parsing never performs I/O.
	ExternalRefs bool
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithValidation toggles structural validation.
func WithValidation(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.Validate = enabled
	}
}

// WithExternalRefs toggles resolution of external references during
// validation.
func WithExternalRefs(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.ExternalRefs = enabled
	}
}

// NewParserOptions applies ParserOption functions and returns the resulting
// configuration.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{
		Validate:     true,
		ExternalRefs: false,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// Construction helpers live in the top-level apimerge package to avoid import cycles.
