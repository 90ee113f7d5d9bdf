package model

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// ToOpenAPI3 converts the document into kin-openapi's typed model with local
// references resolved.
func ToOpenAPI3(ctx context.Context, doc *Document) (*openapi3.T, error) {
	if doc == nil {
		return nil, fmt.Errorf("model: document is nil")
	}
	raw, err := json.Marshal(doc.Object())
	if err != nil {
		return nil, fmt.Errorf("model: marshal document: %w", err)
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("model: load document: %w", err)
	}
	return spec, nil
}

// Validate checks the document against the OpenAPI 3 structural rules
// enforced by kin-openapi. Example payloads are not validated.
func Validate(ctx context.Context, doc *Document) error {
	spec, err := ToOpenAPI3(ctx, doc)
	if err != nil {
		return err
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return fmt.Errorf("model: validate: %w", err)
	}
	return nil
}
