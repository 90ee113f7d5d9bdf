package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Format names a serialisation of a document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat maps user input ("yaml", "yml", "json") onto a Format.
func ParseFormat(raw string) (Format, error) {
	switch raw {
	case "", "yaml", "yml", "YAML":
		return FormatYAML, nil
	case "json", "JSON":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("model: unsupported format %q", raw)
	}
}

var topLevelOrder = []string{
	"openapi",
	"info",
	"externalDocs",
	"jsonSchemaDialect",
	"servers",
	"security",
	"tags",
	"paths",
	"webhooks",
	"components",
}

// Encode serialises the document in the requested format.
func Encode(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return EncodeJSON(doc)
	case FormatYAML, "":
		return EncodeYAML(doc)
	default:
		return nil, fmt.Errorf("model: unsupported format %q", format)
	}
}

// EncodeJSON renders the document as indented JSON. Keys are sorted.
func EncodeJSON(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("model: document is nil")
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc.Object()); err != nil {
		return nil, fmt.Errorf("model: encode json: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeYAML renders the document as YAML with top-level keys in the order
// readers expect (openapi, info, ..., components, extensions). Nested keys
// are sorted.
func EncodeYAML(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("model: document is nil")
	}
	obj := doc.Object()

	root := &yaml.Node{Kind: yaml.MappingNode}
	appendEntry := func(key string, value any) error {
		var valueNode yaml.Node
		if err := valueNode.Encode(value); err != nil {
			return fmt.Errorf("model: encode yaml %s: %w", key, err)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&valueNode,
		)
		return nil
	}

	seen := make(map[string]bool, len(topLevelOrder))
	for _, key := range topLevelOrder {
		seen[key] = true
		value, ok := obj[key]
		if !ok {
			continue
		}
		if err := appendEntry(key, value); err != nil {
			return nil, err
		}
	}
	rest := make([]string, 0, len(obj))
	for key := range obj {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		if err := appendEntry(key, obj[key]); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("model: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("model: encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a YAML or JSON payload into a Document without validating it
// against the OpenAPI schema.
func Decode(raw []byte) (*Document, error) {
	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("model: decode: %w", err)
	}
	obj, ok := Normalize(tree).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("model: decode: document root must be an object")
	}
	return FromObject(obj)
}
