// Package loader fetches the OpenAPI documents that modules contribute to the
// merged application document. A module document lives on local disk, inside
// a bundle of module documents exposed as an fs.FS, or behind a module's
// published spec endpoint. Every read is bounded by the configured document
// size and stops when the context is cancelled.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"time"

	pkgopenapi "github.com/goliatone/go-apimerge/pkg/openapi"
)

// fetchFunc reads the raw bytes of one module document.
type fetchFunc func(ctx context.Context, location string) ([]byte, error)

// ModuleLoader implements pkgopenapi.Loader for module contributions.
type ModuleLoader struct {
	bundle   fs.FS
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
	fetchers map[pkgopenapi.SourceKind]fetchFunc
}

var _ pkgopenapi.Loader = (*ModuleLoader)(nil)

// New builds a ModuleLoader. Remote module documents are only fetched when an
// HTTP client is configured or the HTTP fallback is enabled.
func New(options pkgopenapi.LoaderOptions) pkgopenapi.Loader {
	l := &ModuleLoader{
		bundle:   options.FileSystem,
		timeout:  options.RequestTimeout,
		maxBytes: options.MaxDocumentBytes,
	}
	if l.maxBytes <= 0 {
		l.maxBytes = pkgopenapi.DefaultMaxDocumentBytes
	}

	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if l.timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = l.timeout
		}
		l.client = &clone
	case options.AllowHTTPFallback:
		l.client = &http.Client{Timeout: l.timeout}
	}

	l.fetchers = map[pkgopenapi.SourceKind]fetchFunc{
		pkgopenapi.SourceKindFile: func(ctx context.Context, location string) ([]byte, error) {
			return loadFile(ctx, location, l.maxBytes)
		},
		pkgopenapi.SourceKindFS: func(ctx context.Context, location string) ([]byte, error) {
			return loadFromBundle(ctx, l.bundle, location, l.maxBytes)
		},
	}
	if l.client != nil {
		l.fetchers[pkgopenapi.SourceKindURL] = func(ctx context.Context, location string) ([]byte, error) {
			return loadHTTP(ctx, l.client, location, l.timeout, l.maxBytes)
		}
	}
	return l
}

// Load reads the module document behind src.
func (l *ModuleLoader) Load(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
	if src == nil {
		return pkgopenapi.Document{}, errors.New("openapi loader: source is nil")
	}

	fetch, ok := l.fetchers[src.Kind()]
	if !ok {
		if src.Kind() == pkgopenapi.SourceKindURL {
			return pkgopenapi.Document{}, errors.New("openapi loader: http support disabled")
		}
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: unsupported source kind %q", src.Kind())
	}
	if err := ctx.Err(); err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: load %s: %w", src.Location(), err)
	}

	data, err := fetch(ctx, src.Location())
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: load %s: %w", src.Location(), err)
	}
	return pkgopenapi.NewDocument(src, data)
}

// readLimited reads at most limit bytes from r and fails when there is more.
func readLimited(r io.Reader, name string, limit int64) ([]byte, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("openapi loader: %s exceeds %d bytes", name, limit)
	}
	return data, nil
}
