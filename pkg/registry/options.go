package registry

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-apimerge/pkg/merge"
	"github.com/goliatone/go-apimerge/pkg/model"
)

// DefaultConcurrency bounds parallel module loads in DeployAll.
const DefaultConcurrency = 4

// Options configures a Registry.
type Options struct {
	Logger      *zap.Logger
	Merger      *merge.Merger
	Concurrency int
	// Transforms run over each merged document before it is published.
	Transforms []func(*model.Document)
}

// Option mutates Options during construction.
type Option func(*Options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithMerger overrides the merger, for example to set a default info object.
func WithMerger(merger *merge.Merger) Option {
	return func(opts *Options) {
		opts.Merger = merger
	}
}

func WithConcurrency(limit int) Option {
	return func(opts *Options) {
		opts.Concurrency = limit
	}
}

// WithTransform adds a function applied to every merged document before the
// snapshot is published, e.g. description sanitising.
func WithTransform(fn func(*model.Document)) Option {
	return func(opts *Options) {
		if fn != nil {
			opts.Transforms = append(opts.Transforms, fn)
		}
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
	if cfg.Merger == nil {
		cfg.Merger = merge.New(merge.WithLogger(cfg.Logger))
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return cfg
}
