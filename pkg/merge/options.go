package merge

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-apimerge/pkg/model"
)

// DefaultVersion is used for the merged document when no module is included.
const DefaultVersion = "3.0.3"

// Options configures a Merger.
type Options struct {
	Logger *zap.Logger

	// DefaultInfo replaces the info object when included modules disagree on
	// it. Nil omits info in that case.
	DefaultInfo model.Object

	// DefaultVersion is the openapi version of an empty merge.
	DefaultVersion string
}

// Option mutates Options during construction.
type Option func(*Options)

// WithLogger sets the logger used for rename and exclusion decisions.
func WithLogger(logger *zap.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithDefaultInfo sets the fallback info object.
func WithDefaultInfo(info model.Object) Option {
	return func(opts *Options) {
		opts.DefaultInfo = info
	}
}

// WithDefaultVersion sets the openapi version used when nothing is merged.
func WithDefaultVersion(version string) Option {
	return func(opts *Options) {
		opts.DefaultVersion = version
	}
}

// NewOptions applies Option functions over the defaults.
func NewOptions(options ...Option) Options {
	cfg := Options{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.DefaultVersion == "" {
		cfg.DefaultVersion = DefaultVersion
	}
	return cfg
}
