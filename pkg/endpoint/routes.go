package endpoint

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-apimerge/pkg/model"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath returns the full mount path for the document route under basePath.
func MountPath(basePath string, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	return mountPath(basePath, opts.RoutePath)
}

// RegisterRoutes registers the document handler under basePath on mux, plus
// the docs page when a docs path is configured.
func RegisterRoutes(mux Mux, basePath string, provider Provider, fns ...OptionFn) (string, error) {
	opts := NewOptions(fns...)
	return RegisterRoutesWithOptions(mux, basePath, provider, opts)
}

// RegisterRoutesWithOptions registers a handler under basePath using a pre-built Options value.
func RegisterRoutesWithOptions(mux Mux, basePath string, provider Provider, opts Options) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("endpoint: missing mux")
	}
	if provider == nil {
		return "", fmt.Errorf("endpoint: missing document provider")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	pattern := mountPath(basePath, opts.RoutePath)
	mux.Handle(pattern, HandlerWithOptions(provider, opts))

	if strings.TrimSpace(opts.DocsPath) != "" {
		if opts.SpecURL == "" {
			opts.SpecURL = pattern + "?" + opts.FormatParam + "=" + string(model.FormatJSON)
		}
		mux.Handle(mountPath(basePath, opts.DocsPath), DocsHandlerWithOptions(provider, opts))
	}
	return pattern, nil
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
