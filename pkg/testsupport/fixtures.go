package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-apimerge/pkg/model"
	pkgopenapi "github.com/goliatone/go-apimerge/pkg/openapi"
)

// LoadDocument reads a fixture and builds an openapi.Document using a file
// source.
func LoadDocument(t *testing.T, path string) pkgopenapi.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T, allowing
// callers to wire fixtures in setup functions.
func LoadDocumentFromPath(path string) (pkgopenapi.Document, error) {
	if path == "" {
		return pkgopenapi.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile(path), data)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// MustLoadModel decodes a YAML/JSON fixture into a model.Document without
// schema validation.
func MustLoadModel(t *testing.T, path string) *model.Document {
	t.Helper()

	doc, err := LoadModel(path)
	if err != nil {
		t.Fatalf("load model: %v", err)
	}
	return doc
}

// LoadModel decodes a fixture into a model.Document, returning an error for
// callers managing setup outside of *testing.T.
func LoadModel(path string) (*model.Document, error) {
	if path == "" {
		return nil, errors.New("testsupport: model path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read model: %w", err)
	}
	doc, err := model.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("testsupport: decode model: %w", err)
	}
	return doc, nil
}

// MustDecode decodes an inline YAML/JSON document.
func MustDecode(t *testing.T, raw string) *model.Document {
	t.Helper()

	doc, err := model.Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode inline document: %v", err)
	}
	return doc
}

// WriteDocumentGolden writes a document as YAML when UPDATE_GOLDENS is set.
// Returns true if the golden was written.
func WriteDocumentGolden(t *testing.T, path string, doc *model.Document) bool {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	data, err := model.EncodeYAML(doc)
	if err != nil {
		t.Fatalf("encode golden: %v", err)
	}
	return WriteMaybeGolden(t, path, data)
}

// CompareDocuments returns a diff string if the documents differ
// structurally.
func CompareDocuments(want, got *model.Document) string {
	if model.Equal(want, got) {
		return ""
	}
	return model.Diff(want, got)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
