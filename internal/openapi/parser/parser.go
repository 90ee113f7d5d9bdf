package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-apimerge/pkg/model"
	pkgopenapi "github.com/goliatone/go-apimerge/pkg/openapi"
)

// Parser implements pkgopenapi.Parser. kin-openapi validates the payload;
// yaml.v3 decodes it into the generic tree the model is built from, so
// extensions and unknown nested fields survive untouched.
type Parser struct {
	options pkgopenapi.ParserOptions
}

// Ensure the implementation satisfies the public interface.
var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) pkgopenapi.Parser {
	return &Parser{options: options}
}

// Parse converts a raw Document into a model.Document.
func (p *Parser) Parse(ctx context.Context, doc pkgopenapi.Document) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	if p.options.Validate {
		if err := p.validate(ctx, doc.Location(), raw); err != nil {
			return nil, err
		}
	}

	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("openapi parser: decode %s: %w", doc.Location(), err)
	}
	obj, ok := model.Normalize(tree).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("openapi parser: %s: document root must be an object", doc.Location())
	}

	out, err := model.FromObject(obj)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: %s: %w", doc.Location(), err)
	}
	return out, nil
}

func (p *Parser) validate(ctx context.Context, location string, raw []byte) error {
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.ExternalRefs,
	}

	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return fmt.Errorf("openapi parser: load %s: %w", location, err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return fmt.Errorf("openapi parser: validate %s: %w", location, err)
	}
	return nil
}
