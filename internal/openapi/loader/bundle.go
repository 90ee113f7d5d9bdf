package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// loadFromBundle reads a module document from a bundle of documents. Rooted
// names are accepted and resolved relative to the bundle root.
func loadFromBundle(ctx context.Context, bundle fs.FS, name string, limit int64) ([]byte, error) {
	if bundle == nil {
		return nil, errors.New("openapi loader: filesystem is not configured")
	}
	name = path.Clean(strings.TrimLeft(name, "/"))
	if name == "" || name == "." {
		return nil, errors.New("openapi loader: fs path is required")
	}
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("openapi loader: %s escapes the module bundle", name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := bundle.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("openapi loader: %s is a directory", name)
	}
	if limit > 0 && info.Size() > limit {
		return nil, fmt.Errorf("openapi loader: %s exceeds %d bytes", name, limit)
	}
	return readLimited(file, name, limit)
}
