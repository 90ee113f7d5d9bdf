package endpoint

import "net/http"

// Component bundles a document provider with the handler configuration and
// routing helpers.
type Component struct {
	provider Provider
	opts     Options
}

// New constructs a component serving provider with default options plus any
// overrides.
func New(provider Provider, fns ...OptionFn) *Component {
	return &Component{provider: provider, opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Handler returns the net/http handler for the merged document.
func (c *Component) Handler() http.Handler {
	if c == nil {
		return Handler(nil)
	}
	return HandlerWithOptions(c.provider, c.opts)
}

// RegisterRoutes registers the component handler under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	if c == nil {
		return RegisterRoutes(mux, basePath, nil)
	}
	return RegisterRoutesWithOptions(mux, basePath, c.provider, c.opts)
}
