package model

import "strings"

// Methods lists the HTTP methods a path item may declare operations for.
var Methods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// ForEachOperation visits every operation object in the document: path
// items, webhooks, component path items and callbacks, and callbacks nested
// inside operations. Visiting order is deterministic.
func ForEachOperation(doc *Document, fn func(op Object)) {
	if doc == nil || fn == nil {
		return
	}
	for _, key := range sortedKeys(doc.Paths) {
		OperationsInPathItem(doc.Paths[key], fn)
	}
	for _, key := range sortedKeys(doc.Webhooks) {
		OperationsInPathItem(doc.Webhooks[key], fn)
	}
	for _, kind := range []string{KindPathItems, KindCallbacks} {
		entries := doc.Components.Entries[kind]
		for _, name := range sortedKeys(entries) {
			OperationsInComponent(kind, entries[name], fn)
		}
	}
}

// OperationsInPathItem visits the operations of one path item, following
// callbacks declared on those operations.
func OperationsInPathItem(item Object, fn func(op Object)) {
	if item == nil {
		return
	}
	for _, method := range Methods {
		op, ok := item[method].(map[string]any)
		if !ok {
			continue
		}
		fn(op)
		callbacks, _ := op["callbacks"].(map[string]any)
		for _, name := range sortedKeys(callbacks) {
			operationsInCallback(callbacks[name], fn)
		}
	}
}

// OperationsInComponent visits operations held by a pathItems or callbacks
// component definition. Other kinds hold no operations.
func OperationsInComponent(kind string, def any, fn func(op Object)) {
	switch kind {
	case KindPathItems:
		item, _ := def.(map[string]any)
		OperationsInPathItem(item, fn)
	case KindCallbacks:
		operationsInCallback(def, fn)
	}
}

func operationsInCallback(value any, fn func(op Object)) {
	callback, ok := value.(map[string]any)
	if !ok {
		return
	}
	for _, expression := range sortedKeys(callback) {
		if expression == "$ref" || isExtension(expression) {
			continue
		}
		item, _ := callback[expression].(map[string]any)
		OperationsInPathItem(item, fn)
	}
}

// WalkObjects calls fn for every generic object in the document: info,
// externalDocs, server variables and everything walkObjects reaches.
func WalkObjects(doc *Document, fn func(Object)) {
	if doc == nil {
		return
	}
	walkValue(doc.Info, fn)
	walkValue(doc.ExternalDocs, fn)
	for _, server := range doc.Servers {
		walkValue(server.Variables, fn)
	}
	walkObjects(doc, fn)
}

// walkObjects calls fn for every object node reachable from the document's
// generic subtrees.
func walkObjects(doc *Document, fn func(Object)) {
	if doc == nil {
		return
	}
	for _, key := range sortedKeys(doc.Paths) {
		walkValue(doc.Paths[key], fn)
	}
	for _, key := range sortedKeys(doc.Webhooks) {
		walkValue(doc.Webhooks[key], fn)
	}
	for _, kind := range sortedKeys(doc.Components.Entries) {
		walkValue(doc.Components.Entries[kind], fn)
	}
	walkValue(doc.Components.Extensions, fn)
	walkValue(doc.PathsExtensions, fn)
	walkValue(doc.Extensions, fn)
	for _, tag := range doc.Tags {
		walkValue(tag.ExternalDocs, fn)
		walkValue(tag.Extensions, fn)
	}
}

func walkValue(value any, fn func(Object)) {
	switch typed := value.(type) {
	case map[string]any:
		if typed == nil {
			return
		}
		fn(typed)
		for _, key := range sortedKeys(typed) {
			walkValue(typed[key], fn)
		}
	case []any:
		for _, item := range typed {
			walkValue(item, fn)
		}
	}
}

// RewriteRefs replaces every $ref (and discriminator mapping target) found in
// renames with its mapped value. It returns the number of rewritten
// references.
func RewriteRefs(doc *Document, renames map[string]string) int {
	if len(renames) == 0 {
		return 0
	}
	count := 0
	walkObjects(doc, func(obj Object) {
		count += rewriteRefsInObject(obj, renames)
	})
	return count
}

// RewriteValueRefs is RewriteRefs for a detached subtree, such as a copied
// component definition.
func RewriteValueRefs(value any, renames map[string]string) int {
	if len(renames) == 0 {
		return 0
	}
	count := 0
	walkValue(value, func(obj Object) {
		count += rewriteRefsInObject(obj, renames)
	})
	return count
}

func rewriteRefsInObject(obj Object, renames map[string]string) int {
	count := 0
	if ref, ok := obj["$ref"].(string); ok {
		if next, ok := renames[ref]; ok {
			obj["$ref"] = next
			count++
		}
	}
	discriminator, _ := obj["discriminator"].(map[string]any)
	mapping, _ := discriminator["mapping"].(map[string]any)
	for key, value := range mapping {
		target, ok := value.(string)
		if !ok {
			continue
		}
		if next, ok := renames[target]; ok {
			mapping[key] = next
			count++
		}
	}
	return count
}

// RewriteOperationIDs replaces operationId values on operations and on the
// places that refer to an operation by id: link objects (under response
// links and components.links) and extension subtrees. Examples, defaults and
// other user data are left alone.
func RewriteOperationIDs(doc *Document, renames map[string]string) int {
	if len(renames) == 0 {
		return 0
	}
	count := 0
	rewrite := func(obj Object) {
		id, ok := obj["operationId"].(string)
		if !ok {
			return
		}
		if next, ok := renames[id]; ok {
			obj["operationId"] = next
			count++
		}
	}
	links := func(response any) {
		obj, _ := response.(map[string]any)
		entries, _ := obj["links"].(map[string]any)
		for _, name := range sortedKeys(entries) {
			if link, ok := entries[name].(map[string]any); ok {
				rewrite(link)
			}
		}
	}

	ForEachOperation(doc, func(op Object) {
		rewrite(op)
		responses, _ := op["responses"].(map[string]any)
		for _, code := range sortedKeys(responses) {
			links(responses[code])
		}
	})
	responses := doc.Components.Entries[KindResponses]
	for _, name := range sortedKeys(responses) {
		links(responses[name])
	}
	componentLinks := doc.Components.Entries[KindLinks]
	for _, name := range sortedKeys(componentLinks) {
		if link, ok := componentLinks[name].(map[string]any); ok {
			rewrite(link)
		}
	}

	walkObjects(doc, func(obj Object) {
		for _, key := range sortedKeys(obj) {
			if isExtension(key) {
				walkValue(obj[key], rewrite)
			}
		}
	})
	return count
}

// RewriteOperationTags renames tag references on operations.
func RewriteOperationTags(doc *Document, renames map[string]string) int {
	if len(renames) == 0 {
		return 0
	}
	count := 0
	ForEachOperation(doc, func(op Object) {
		tags, _ := op["tags"].([]any)
		for i, value := range tags {
			name, ok := value.(string)
			if !ok {
				continue
			}
			if next, ok := renames[name]; ok {
				tags[i] = next
				count++
			}
		}
	})
	return count
}

// RewriteSecurityRequirements renames security scheme keys in top-level and
// operation-level security requirements.
func RewriteSecurityRequirements(doc *Document, renames map[string]string) int {
	if doc == nil || len(renames) == 0 {
		return 0
	}
	count := 0
	for _, req := range doc.Security {
		count += renameKeys(req, renames)
	}
	ForEachOperation(doc, func(op Object) {
		list, _ := op["security"].([]any)
		for _, entry := range list {
			req, _ := entry.(map[string]any)
			count += renameKeys(req, renames)
		}
	})
	return count
}

func renameKeys(obj Object, renames map[string]string) int {
	if obj == nil {
		return 0
	}
	count := 0
	for _, key := range sortedKeys(obj) {
		next, ok := renames[key]
		if !ok {
			continue
		}
		obj[next] = obj[key]
		delete(obj, key)
		count++
	}
	return count
}

// RewritePathRefs updates local JSON pointers into the paths object ($ref and
// link operationRef) after path keys were renamed from old to new.
func RewritePathRefs(doc *Document, renames map[string]string) int {
	if len(renames) == 0 {
		return 0
	}
	prefixes := make(map[string]string, len(renames))
	for from, to := range renames {
		prefixes["#/paths/"+EscapePointer(from)] = "#/paths/" + EscapePointer(to)
	}
	count := 0
	rewrite := func(obj Object, key string) {
		ref, ok := obj[key].(string)
		if !ok || !strings.HasPrefix(ref, "#/paths/") {
			return
		}
		for from, to := range prefixes {
			if ref == from || strings.HasPrefix(ref, from+"/") {
				obj[key] = to + strings.TrimPrefix(ref, from)
				count++
				return
			}
		}
	}
	walkObjects(doc, func(obj Object) {
		rewrite(obj, "$ref")
		rewrite(obj, "operationRef")
	})
	return count
}

// EscapePointer escapes a token for use inside a JSON pointer.
func EscapePointer(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}
