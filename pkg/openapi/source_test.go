package openapi

import "testing"

func TestParseSource(t *testing.T) {
	cases := []struct {
		input    string
		kind     SourceKind
		location string
	}{
		{input: "specs/a.yaml", kind: SourceKindFile, location: "specs/a.yaml"},
		{input: " ./specs//b.json ", kind: SourceKindFile, location: "specs/b.json"},
		{input: "fs:modules/c.yaml", kind: SourceKindFS, location: "modules/c.yaml"},
		{input: "https://example.com/openapi.yaml", kind: SourceKindURL, location: "https://example.com/openapi.yaml"},
	}
	for _, tc := range cases {
		src, err := ParseSource(tc.input)
		if err != nil {
			t.Fatalf("ParseSource(%q): %v", tc.input, err)
		}
		if src.Kind() != tc.kind || src.Location() != tc.location {
			t.Fatalf("ParseSource(%q) = %s %q, want %s %q", tc.input, src.Kind(), src.Location(), tc.kind, tc.location)
		}
	}

	for _, bad := range []string{"", "   ", "fs:"} {
		if _, err := ParseSource(bad); err == nil {
			t.Fatalf("ParseSource(%q) expected error", bad)
		}
	}
}

func TestNewDocumentValidatesInputs(t *testing.T) {
	if _, err := NewDocument(nil, []byte("x")); err == nil {
		t.Fatalf("expected error for nil source")
	}
	if _, err := NewDocument(SourceFromFile("a.yaml"), nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}

	raw := []byte("openapi: 3.0.0")
	doc := MustNewDocument(SourceFromFile("a.yaml"), raw)
	raw[0] = 'X'
	if doc.Raw()[0] != 'o' {
		t.Fatalf("document shares caller buffer")
	}
	if doc.Location() != "a.yaml" {
		t.Fatalf("location = %q", doc.Location())
	}
}

func TestNewParserOptionsDefaults(t *testing.T) {
	opts := NewParserOptions()
	if !opts.Validate || opts.ExternalRefs {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
	opts = NewParserOptions(WithValidation(false), WithExternalRefs(true), nil)
	if opts.Validate || !opts.ExternalRefs {
		t.Fatalf("options not applied: %+v", opts)
	}
}
