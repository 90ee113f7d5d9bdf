package endpoint

import (
	"bytes"
	"embed"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-apimerge/pkg/model"
)

// DefaultBundleURL is the reference documentation bundle loaded by the docs page.
const DefaultBundleURL = "https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"

const docsTemplate = "docs.html"

//go:embed templates/*.html
var templateFiles embed.FS

var (
	docsOnce sync.Once
	docsTpl  *pongo2.Template
	docsErr  error
)

func loadDocsTemplate() (*pongo2.Template, error) {
	docsOnce.Do(func() {
		set := pongo2.NewSet("apimerge-docs", pongo2.NewFSLoader(templateFiles))
		docsTpl, docsErr = set.FromFile("templates/" + docsTemplate)
		if docsErr != nil {
			docsErr = fmt.Errorf("endpoint: parse docs template: %w", docsErr)
		}
	})
	return docsTpl, docsErr
}

// DocsHandler serves an HTML page that renders the provider's document with
// the bundle at opts.BundleURL. The page fetches the document from
// opts.SpecURL, which defaults to the document route.
func DocsHandler(provider Provider, fns ...OptionFn) http.Handler {
	return DocsHandlerWithOptions(provider, NewOptions(fns...))
}

func DocsHandlerWithOptions(provider Provider, opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
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

		var doc *model.Document
		if provider != nil {
			doc = provider.Document()
		}
		if doc == nil {
			http.Error(w, "no merged document available", http.StatusServiceUnavailable)
			return
		}

		body, err := renderDocs(doc, opts)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(body)
	})
}

func renderDocs(doc *model.Document, opts Options) ([]byte, error) {
	tpl, err := loadDocsTemplate()
	if err != nil {
		return nil, err
	}

	specURL := opts.SpecURL
	if specURL == "" {
		specURL = opts.RoutePath + "?" + opts.FormatParam + "=" + string(model.FormatJSON)
	}
	title, _ := doc.Info["title"].(string)
	if strings.TrimSpace(title) == "" {
		title = "API documentation"
	}
	version, _ := doc.Info["version"].(string)

	var buf bytes.Buffer
	err = tpl.ExecuteWriter(pongo2.Context{
		"title":         title,
		"version":       version,
		"spec_url":      specURL,
		"bundle_url":    opts.BundleURL,
		"hide_download": opts.HideDownload,
	}, &buf)
	if err != nil {
		return nil, fmt.Errorf("endpoint: render docs: %w", err)
	}
	return buf.Bytes(), nil
}
