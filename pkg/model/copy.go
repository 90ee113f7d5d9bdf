package model

// Copy returns a structural deep clone of doc. The clone is equal to doc by
// value and shares no maps or slices with it, so it can be renamed and
// rewritten while doc stays usable for later merges.
func Copy(doc *Document) *Document {
	if doc == nil {
		return nil
	}
	out := &Document{
		OpenAPI:           doc.OpenAPI,
		Info:              copyObject(doc.Info),
		ExternalDocs:      copyObject(doc.ExternalDocs),
		JSONSchemaDialect: doc.JSONSchemaDialect,
		PathsExtensions:   copyObject(doc.PathsExtensions),
		Extensions:        copyObject(doc.Extensions),
		Components: Components{
			Extensions: copyObject(doc.Components.Extensions),
		},
	}
	if doc.Servers != nil {
		out.Servers = CopyServers(doc.Servers)
	}
	if doc.Security != nil {
		out.Security = make([]Object, len(doc.Security))
		for i, req := range doc.Security {
			out.Security[i] = copyObject(req)
		}
	}
	if doc.Tags != nil {
		out.Tags = make([]Tag, len(doc.Tags))
		for i, tag := range doc.Tags {
			out.Tags[i] = tag.Copy()
		}
	}
	if doc.Paths != nil {
		out.Paths = copyItems(doc.Paths)
	}
	if doc.Webhooks != nil {
		out.Webhooks = copyItems(doc.Webhooks)
	}
	if doc.Components.Entries != nil {
		out.Components.Entries = copyItems(doc.Components.Entries)
	}
	return out
}

// CopyValue deep-copies a generic subtree.
func CopyValue(value any) any {
	return copyValue(value)
}

// CopyServers deep-copies a servers list.
func CopyServers(servers []Server) []Server {
	if servers == nil {
		return nil
	}
	out := make([]Server, len(servers))
	for i, server := range servers {
		out[i] = Server{
			URL:         server.URL,
			Description: server.Description,
			Variables:   copyObject(server.Variables),
			Extensions:  copyObject(server.Extensions),
		}
	}
	return out
}

// Copy deep-copies the tag definition.
func (t Tag) Copy() Tag {
	return Tag{
		Name:         t.Name,
		Description:  t.Description,
		ExternalDocs: copyObject(t.ExternalDocs),
		Extensions:   copyObject(t.Extensions),
	}
}

func copyItems(in map[string]Object) map[string]Object {
	out := make(map[string]Object, len(in))
	for key, value := range in {
		out[key] = copyObject(value)
	}
	return out
}

func copyObject(in Object) Object {
	if in == nil {
		return nil
	}
	out := make(Object, len(in))
	for key, value := range in {
		out[key] = copyValue(value)
	}
	return out
}

func copyValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return copyObject(typed)
	case []any:
		if typed == nil {
			return typed
		}
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = copyValue(item)
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	case []Object:
		out := make([]Object, len(typed))
		for i, item := range typed {
			out[i] = copyObject(item)
		}
		return out
	default:
		return value
	}
}
