package model

import (
	"errors"
	"fmt"
	"strings"
)

// FromObject builds a Document from a decoded OpenAPI tree. The tree is
// normalised first so YAML maps with non-string keys (status codes) become
// map[string]any. Unknown top-level keys that are not extensions are dropped.
func FromObject(obj Object) (*Document, error) {
	if obj == nil {
		return nil, errors.New("model: document is empty")
	}
	root, _ := Normalize(obj).(map[string]any)

	version, _ := root["openapi"].(string)
	if strings.TrimSpace(version) == "" {
		return nil, errors.New("model: openapi version is required")
	}

	doc := New(version)
	for _, key := range sortedKeys(root) {
		value := root[key]
		var err error
		switch key {
		case "openapi":
		case "info":
			doc.Info, err = objectField(key, value)
		case "externalDocs":
			doc.ExternalDocs, err = objectField(key, value)
		case "jsonSchemaDialect":
			doc.JSONSchemaDialect, _ = value.(string)
		case "servers":
			doc.Servers, err = serversFrom(value)
		case "security":
			doc.Security, err = securityFrom(key, value)
		case "tags":
			doc.Tags, err = tagsFrom(value)
		case "paths":
			doc.Paths, doc.PathsExtensions, err = pathsFrom(key, value)
		case "webhooks":
			doc.Webhooks, _, err = pathsFrom(key, value)
		case "components":
			doc.Components, err = componentsFrom(value)
		default:
			if isExtension(key) {
				if doc.Extensions == nil {
					doc.Extensions = make(Object)
				}
				doc.Extensions[key] = value
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Object renders the document back into a generic tree. The result shares
// no structure with the document.
func (d *Document) Object() Object {
	if d == nil {
		return nil
	}
	out := Object{"openapi": d.OpenAPI}
	if d.Info != nil {
		out["info"] = copyValue(d.Info)
	}
	if d.ExternalDocs != nil {
		out["externalDocs"] = copyValue(d.ExternalDocs)
	}
	if d.JSONSchemaDialect != "" {
		out["jsonSchemaDialect"] = d.JSONSchemaDialect
	}
	if len(d.Servers) > 0 {
		out["servers"] = ServerList(d.Servers)
	}
	if d.Security != nil {
		list := make([]any, 0, len(d.Security))
		for _, req := range d.Security {
			list = append(list, copyValue(req))
		}
		out["security"] = list
	}
	if len(d.Tags) > 0 {
		list := make([]any, 0, len(d.Tags))
		for _, tag := range d.Tags {
			list = append(list, tag.object())
		}
		out["tags"] = list
	}

	paths := make(Object, len(d.Paths)+len(d.PathsExtensions))
	for key, item := range d.Paths {
		paths[key] = copyValue(item)
	}
	for key, value := range d.PathsExtensions {
		paths[key] = copyValue(value)
	}
	out["paths"] = paths

	if len(d.Webhooks) > 0 {
		hooks := make(Object, len(d.Webhooks))
		for key, item := range d.Webhooks {
			hooks[key] = copyValue(item)
		}
		out["webhooks"] = hooks
	}
	if components := d.Components.object(); components != nil {
		out["components"] = components
	}
	for key, value := range d.Extensions {
		out[key] = copyValue(value)
	}
	return out
}

// Normalize converts a decoded YAML/JSON value into the canonical generic
// form: map[string]any for mappings, []any for sequences.
func Normalize(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = Normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = Normalize(item)
		}
		return out
	case []string:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out
	default:
		return value
	}
}

func isExtension(key string) bool {
	return strings.HasPrefix(key, "x-")
}

func objectField(key string, value any) (Object, error) {
	if value == nil {
		return nil, nil
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("model: %s must be an object", key)
	}
	return obj, nil
}

func serversFrom(value any) ([]Server, error) {
	list, ok := value.([]any)
	if !ok {
		return nil, errors.New("model: servers must be a list")
	}
	servers := make([]Server, 0, len(list))
	for i, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("model: servers[%d] must be an object", i)
		}
		server := Server{}
		for key, item := range obj {
			switch key {
			case "url":
				server.URL, _ = item.(string)
			case "description":
				server.Description, _ = item.(string)
			case "variables":
				server.Variables, _ = item.(map[string]any)
			default:
				if isExtension(key) {
					if server.Extensions == nil {
						server.Extensions = make(Object)
					}
					server.Extensions[key] = item
				}
			}
		}
		servers = append(servers, server)
	}
	return servers, nil
}

// ServerList renders servers as a generic list, as used for path item and
// operation level servers.
func ServerList(servers []Server) []any {
	list := make([]any, 0, len(servers))
	for _, server := range servers {
		list = append(list, server.object())
	}
	return list
}

func (s Server) object() Object {
	out := Object{"url": s.URL}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if s.Variables != nil {
		out["variables"] = copyValue(s.Variables)
	}
	for key, value := range s.Extensions {
		out[key] = copyValue(value)
	}
	return out
}

func securityFrom(key string, value any) ([]Object, error) {
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("model: %s must be a list", key)
	}
	out := make([]Object, 0, len(list))
	for i, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("model: %s[%d] must be an object", key, i)
		}
		out = append(out, obj)
	}
	return out, nil
}

func tagsFrom(value any) ([]Tag, error) {
	list, ok := value.([]any)
	if !ok {
		return nil, errors.New("model: tags must be a list")
	}
	tags := make([]Tag, 0, len(list))
	for i, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("model: tags[%d] must be an object", i)
		}
		tag := Tag{}
		for key, item := range obj {
			switch key {
			case "name":
				tag.Name, _ = item.(string)
			case "description":
				tag.Description, _ = item.(string)
			case "externalDocs":
				tag.ExternalDocs, _ = item.(map[string]any)
			default:
				if isExtension(key) {
					if tag.Extensions == nil {
						tag.Extensions = make(Object)
					}
					tag.Extensions[key] = item
				}
			}
		}
		if tag.Name == "" {
			return nil, fmt.Errorf("model: tags[%d] requires a name", i)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (t Tag) object() Object {
	out := Object{"name": t.Name}
	if t.Description != "" {
		out["description"] = t.Description
	}
	if t.ExternalDocs != nil {
		out["externalDocs"] = copyValue(t.ExternalDocs)
	}
	for key, value := range t.Extensions {
		out[key] = copyValue(value)
	}
	return out
}

func pathsFrom(key string, value any) (map[string]Object, Object, error) {
	if value == nil {
		return make(map[string]Object), nil, nil
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("model: %s must be an object", key)
	}
	paths := make(map[string]Object, len(obj))
	var extensions Object
	for name, item := range obj {
		if isExtension(name) {
			if extensions == nil {
				extensions = make(Object)
			}
			extensions[name] = item
			continue
		}
		pathItem, ok := item.(map[string]any)
		if !ok {
			if item == nil {
				pathItem = make(Object)
			} else {
				return nil, nil, fmt.Errorf("model: %s[%s] must be an object", key, name)
			}
		}
		paths[name] = pathItem
	}
	return paths, extensions, nil
}

func componentsFrom(value any) (Components, error) {
	if value == nil {
		return Components{}, nil
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return Components{}, errors.New("model: components must be an object")
	}
	components := Components{}
	for kind, item := range obj {
		if isExtension(kind) {
			if components.Extensions == nil {
				components.Extensions = make(Object)
			}
			components.Extensions[kind] = item
			continue
		}
		if item == nil {
			continue
		}
		entries, ok := item.(map[string]any)
		if !ok {
			return Components{}, fmt.Errorf("model: components.%s must be an object", kind)
		}
		if components.Entries == nil {
			components.Entries = make(map[string]Object)
		}
		components.Entries[kind] = entries
	}
	return components, nil
}

func (c Components) object() Object {
	if len(c.Entries) == 0 && len(c.Extensions) == 0 {
		return nil
	}
	out := make(Object, len(c.Entries)+len(c.Extensions))
	for kind, entries := range c.Entries {
		if len(entries) == 0 {
			continue
		}
		out[kind] = copyValue(entries)
	}
	for key, value := range c.Extensions {
		out[key] = copyValue(value)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
