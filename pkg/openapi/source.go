package openapi

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Kind() SourceKind {
	return SourceKindFile
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string {
	return s.name
}

func (s fsSource) Kind() SourceKind {
	return SourceKindFS
}

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string {
	return s.raw
}

func (s urlSource) Kind() SourceKind {
	return SourceKindURL
}

// SourceFromURL parses the supplied URL string and returns a Source. It panics
// if the URL is invalid to surface configuration mistakes early.
func SourceFromURL(raw string) Source {
	src, err := urlSourceFrom(raw)
	if err != nil {
		panic(err.Error())
	}
	return src
}

// ParseSource interprets user input: http(s) URLs become URL sources, "fs:"
// prefixed names become fs.FS sources, anything else is a file path.
func ParseSource(raw string) (Source, error) {
	location := strings.TrimSpace(raw)
	switch {
	case location == "":
		return nil, errors.New("openapi: empty source")
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return urlSourceFrom(location)
	case strings.HasPrefix(location, "fs:"):
		name := strings.TrimPrefix(location, "fs:")
		if name == "" {
			return nil, errors.New("openapi: empty fs source")
		}
		return SourceFromFS(name), nil
	default:
		return SourceFromFile(location), nil
	}
}

func urlSourceFrom(raw string) (Source, error) {
	if raw == "" {
		return nil, errors.New("openapi: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("openapi: invalid URL %q: %v", raw, err)
	}
	return urlSource{raw: raw}, nil
}
