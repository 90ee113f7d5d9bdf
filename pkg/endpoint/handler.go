package endpoint

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-apimerge/pkg/model"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Provider supplies the document to serve. *registry.Registry satisfies it.
type Provider interface {
	Document() *model.Document
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func() *model.Document

func (f ProviderFunc) Document() *model.Document { return f() }

// Static serves a fixed document.
func Static(doc *model.Document) Provider {
	return ProviderFunc(func() *model.Document { return doc })
}

var contentTypes = map[model.Format]string{
	model.FormatJSON: "application/json; charset=utf-8",
	model.FormatYAML: "application/yaml; charset=utf-8",
}

// Handler builds a net/http handler serving the provider's document with
// default options plus any overrides.
func Handler(provider Provider, fns ...OptionFn) http.Handler {
	return NewHandler(provider, fns...)
}

func NewHandler(provider Provider, fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return HandlerWithOptions(provider, opts)
}

// HandlerWithOptions builds a net/http handler from a pre-constructed Options value.
// Callers are expected to pass an Options value produced by NewOptions (or equivalent)
// so defaults apply.
func HandlerWithOptions(provider Provider, opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		format, err := negotiate(r, opts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var doc *model.Document
		if provider != nil {
			doc = provider.Document()
		}
		if doc == nil {
			http.Error(w, "no merged document available", http.StatusServiceUnavailable)
			return
		}

		body, err := model.Encode(doc, format)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentTypes[format])
		w.Header().Set("Vary", "Accept")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(body)
	})
}

// negotiate picks the response format: the query parameter wins, then an
// Accept header naming JSON or YAML, then the configured default.
func negotiate(r *http.Request, opts Options) (model.Format, error) {
	if raw := strings.TrimSpace(r.URL.Query().Get(opts.FormatParam)); raw != "" {
		return model.ParseFormat(strings.ToLower(raw))
	}
	accept := strings.ToLower(r.Header.Get("Accept"))
	switch {
	case strings.Contains(accept, "application/json"):
		return model.FormatJSON, nil
	case strings.Contains(accept, "yaml"):
		return model.FormatYAML, nil
	default:
		return opts.DefaultFormat, nil
	}
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}
