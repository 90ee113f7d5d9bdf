package model

import "sort"

// Object is a generic OpenAPI subtree. Values are map[string]any, []any or
// scalars once a document has been normalised.
type Object = map[string]any

// Component kinds recognised under the components object.
const (
	KindSchemas         = "schemas"
	KindResponses       = "responses"
	KindParameters      = "parameters"
	KindExamples        = "examples"
	KindRequestBodies   = "requestBodies"
	KindHeaders         = "headers"
	KindSecuritySchemes = "securitySchemes"
	KindLinks           = "links"
	KindCallbacks       = "callbacks"
	KindPathItems       = "pathItems"
)

// ComponentKinds lists every component kind in the order they are processed
// during merges and rendered on output.
var ComponentKinds = []string{
	KindSchemas,
	KindResponses,
	KindParameters,
	KindExamples,
	KindRequestBodies,
	KindHeaders,
	KindSecuritySchemes,
	KindLinks,
	KindCallbacks,
	KindPathItems,
}

// Document is the in-memory OpenAPI object graph for one module or for a
// merged application. Fields the merge logic reasons about are typed; the
// remaining subtrees stay generic.
type Document struct {
	OpenAPI           string
	Info              Object
	ExternalDocs      Object
	JSONSchemaDialect string
	Servers           []Server
	Security          []Object
	Tags              []Tag
	Paths             map[string]Object
	PathsExtensions   Object
	Webhooks          map[string]Object
	Components        Components
	Extensions        Object
}

// Server is an entry of a servers list.
type Server struct {
	URL         string
	Description string
	Variables   Object
	Extensions  Object
}

// Tag is a top-level tag definition.
type Tag struct {
	Name         string
	Description  string
	ExternalDocs Object
	Extensions   Object
}

// Components holds named reusable definitions keyed by kind then name.
type Components struct {
	Entries    map[string]Object
	Extensions Object
}

// New returns an empty document for the given OpenAPI version.
func New(version string) *Document {
	return &Document{
		OpenAPI: version,
		Paths:   make(map[string]Object),
	}
}

// PathKeys returns the path templates in sorted order.
func (d *Document) PathKeys() []string {
	if d == nil {
		return nil
	}
	return sortedKeys(d.Paths)
}

// Component returns the definition registered under kind/name.
func (d *Document) Component(kind, name string) (any, bool) {
	if d == nil || d.Components.Entries == nil {
		return nil, false
	}
	entries, ok := d.Components.Entries[kind]
	if !ok {
		return nil, false
	}
	value, ok := entries[name]
	return value, ok
}

// SetComponent registers a definition, creating the kind map on demand.
func (d *Document) SetComponent(kind, name string, value any) {
	if d.Components.Entries == nil {
		d.Components.Entries = make(map[string]Object)
	}
	entries := d.Components.Entries[kind]
	if entries == nil {
		entries = make(Object)
		d.Components.Entries[kind] = entries
	}
	entries[name] = value
}

// ComponentNames returns the sorted names registered for a kind.
func (d *Document) ComponentNames(kind string) []string {
	if d == nil || d.Components.Entries == nil {
		return nil
	}
	return sortedKeys(d.Components.Entries[kind])
}

// Tag returns the top-level tag definition with the given name.
func (d *Document) Tag(name string) (Tag, bool) {
	if d == nil {
		return Tag{}, false
	}
	for _, tag := range d.Tags {
		if tag.Name == name {
			return tag, true
		}
	}
	return Tag{}, false
}

// OperationIDs returns every operationId declared in the document.
func (d *Document) OperationIDs() []string {
	var ids []string
	ForEachOperation(d, func(op Object) {
		if id, ok := op["operationId"].(string); ok && id != "" {
			ids = append(ids, id)
		}
	})
	sort.Strings(ids)
	return ids
}

// ComponentRef builds the local reference for a component.
func ComponentRef(kind, name string) string {
	return "#/components/" + kind + "/" + name
}

func sortedKeys[V any](m map[string]V) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
