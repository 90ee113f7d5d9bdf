package endpoint

import (
	"net/http"

	"github.com/goliatone/go-apimerge/pkg/model"
)

const (
	DefaultRoutePath   = "/openapi"
	DefaultFormatParam = "format"
)

type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath     string
	FormatParam   string
	DefaultFormat model.Format
	Guard         GuardFunc

	// DocsPath mounts the HTML docs page next to the document route. Empty
	// disables the page.
	DocsPath     string
	SpecURL      string
	BundleURL    string
	HideDownload bool
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:     DefaultRoutePath,
		FormatParam:   DefaultFormatParam,
		DefaultFormat: model.FormatYAML,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = DefaultRoutePath
	}
	if opts.FormatParam == "" {
		opts.FormatParam = DefaultFormatParam
	}
	if opts.BundleURL == "" {
		opts.BundleURL = DefaultBundleURL
	}
	if opts.DefaultFormat != model.FormatJSON {
		opts.DefaultFormat = model.FormatYAML
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithFormatParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.FormatParam = name
	}
}

// WithDefaultFormat sets the format used when neither the query nor the
// Accept header asks for one.
func WithDefaultFormat(format model.Format) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultFormat = format
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

// WithDocsPath enables the HTML docs page at path, relative to the base path.
func WithDocsPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DocsPath = path
	}
}

// WithSpecURL overrides the URL the docs page loads the document from.
func WithSpecURL(url string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SpecURL = url
	}
}

func WithBundleURL(url string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.BundleURL = url
	}
}

func WithHideDownload(hide bool) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.HideDownload = hide
	}
}
