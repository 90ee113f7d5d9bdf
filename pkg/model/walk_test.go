package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const linked = `
openapi: 3.0.3
info: {title: Links, version: "1"}
security:
  - basic: []
paths:
  /orders/{id}:
    get:
      operationId: getOrder
      tags: [orders, shared]
      security:
        - basic: []
          oauth: [read]
      responses:
        "200":
          description: ok
          links:
            self:
              operationId: getOrder
            byRef:
              operationRef: '#/paths/~1orders~1{id}/get'
          content:
            application/json:
              schema:
                oneOf:
                  - $ref: '#/components/schemas/Cat'
                discriminator:
                  propertyName: kind
                  mapping:
                    cat: '#/components/schemas/Cat'
      callbacks:
        onEvent:
          '{$request.body#/url}':
            post:
              operationId: orderEvent
              responses:
                "200": {description: ok}
components:
  schemas:
    Cat: {type: object}
  callbacks:
    shared:
      '{$request.query.cb}':
        put:
          operationId: sharedCallback
          responses:
            "200": {description: ok}
x-links:
  operationId: getOrder
`

func TestForEachOperationVisitsNestedCallbacks(t *testing.T) {
	doc := mustDecode(t, linked)

	want := []string{"getOrder", "orderEvent", "sharedCallback"}
	if diff := cmp.Diff(want, doc.OperationIDs()); diff != "" {
		t.Fatalf("operation ids mismatch (-want +got):\n%s", diff)
	}
}

func TestRewriteRefsCoversDiscriminatorMapping(t *testing.T) {
	doc := mustDecode(t, linked)

	count := RewriteRefs(doc, map[string]string{
		ComponentRef(KindSchemas, "Cat"): ComponentRef(KindSchemas, "Cat_1"),
	})
	if count != 2 {
		t.Fatalf("rewritten refs = %d, want 2", count)
	}
	schema := doc.Paths["/orders/{id}"]["get"].(map[string]any)["responses"].(map[string]any)["200"].(map[string]any)["content"].(map[string]any)["application/json"].(map[string]any)["schema"].(map[string]any)
	mapping := schema["discriminator"].(map[string]any)["mapping"].(map[string]any)
	if mapping["cat"] != "#/components/schemas/Cat_1" {
		t.Fatalf("mapping not rewritten: %v", mapping)
	}
}

func TestRewriteOperationIDsFollowsLinksAndExtensions(t *testing.T) {
	doc := mustDecode(t, linked)

	count := RewriteOperationIDs(doc, map[string]string{"getOrder": "getOrder_1"})
	if count != 3 {
		t.Fatalf("rewritten ids = %d, want 3", count)
	}
	if got := doc.Extensions["x-links"].(map[string]any)["operationId"]; got != "getOrder_1" {
		t.Fatalf("extension reference = %v", got)
	}
}

func TestRewriteOperationIDsLeavesExampleDataAlone(t *testing.T) {
	doc := mustDecode(t, `
openapi: 3.0.3
info: {title: Examples, version: "1"}
paths:
  /orders:
    get:
      operationId: getOrder
      parameters:
        - name: filter
          in: query
          schema:
            type: object
            default: {operationId: getOrder}
            enum:
              - {operationId: getOrder}
      responses:
        "200":
          description: ok
          content:
            application/json:
              example: {operationId: getOrder}
              examples:
                one:
                  value: {operationId: getOrder}
components:
  links:
    Self:
      operationId: getOrder
  responses:
    Found:
      description: found
      links:
        again:
          operationId: getOrder
  schemas:
    Order:
      type: object
      example: {operationId: getOrder}
      x-source:
        - operationId: getOrder
`)
	before := doc.Object()

	count := RewriteOperationIDs(doc, map[string]string{"getOrder": "getOrder_1"})
	if count != 4 {
		t.Fatalf("rewritten ids = %d, want 4", count)
	}

	op := doc.Paths["/orders"]["get"].(map[string]any)
	if op["operationId"] != "getOrder_1" {
		t.Fatalf("operation id = %v", op["operationId"])
	}
	if got := doc.Components.Entries[KindLinks]["Self"].(map[string]any)["operationId"]; got != "getOrder_1" {
		t.Fatalf("component link = %v", got)
	}

	// Only the rewritten locations differ from the input.
	after := doc.Object()
	beforePaths := before["paths"].(map[string]any)["/orders"].(map[string]any)["get"].(map[string]any)
	afterPaths := after["paths"].(map[string]any)["/orders"].(map[string]any)["get"].(map[string]any)
	for _, key := range []string{"parameters", "responses"} {
		if diff := cmp.Diff(beforePaths[key], afterPaths[key]); diff != "" {
			t.Fatalf("%s changed (-before +after):\n%s", key, diff)
		}
	}
	example := doc.Components.Entries[KindSchemas]["Order"].(map[string]any)["example"]
	if diff := cmp.Diff(map[string]any{"operationId": "getOrder"}, example); diff != "" {
		t.Fatalf("schema example changed (-want +got):\n%s", diff)
	}
	source := doc.Components.Entries[KindSchemas]["Order"].(map[string]any)["x-source"].([]any)[0]
	if diff := cmp.Diff(map[string]any{"operationId": "getOrder_1"}, source); diff != "" {
		t.Fatalf("extension reference mismatch (-want +got):\n%s", diff)
	}
}

func TestRewriteOperationTags(t *testing.T) {
	doc := mustDecode(t, linked)

	RewriteOperationTags(doc, map[string]string{"orders": "orders_1"})
	tags := doc.Paths["/orders/{id}"]["get"].(map[string]any)["tags"]
	if diff := cmp.Diff([]any{"orders_1", "shared"}, tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestRewriteSecurityRequirements(t *testing.T) {
	doc := mustDecode(t, linked)

	count := RewriteSecurityRequirements(doc, map[string]string{"basic": "basic_1"})
	if count != 2 {
		t.Fatalf("rewritten requirements = %d, want 2", count)
	}
	if _, ok := doc.Security[0]["basic_1"]; !ok {
		t.Fatalf("top-level requirement not renamed: %v", doc.Security)
	}
	op := doc.Paths["/orders/{id}"]["get"].(map[string]any)
	req := op["security"].([]any)[0].(map[string]any)
	if _, ok := req["basic_1"]; !ok {
		t.Fatalf("operation requirement not renamed: %v", req)
	}
	if _, ok := req["oauth"]; !ok {
		t.Fatalf("unrelated requirement dropped: %v", req)
	}
}

func TestRewritePathRefs(t *testing.T) {
	doc := mustDecode(t, linked)

	count := RewritePathRefs(doc, map[string]string{"/orders/{id}": "/shop/orders/{id}"})
	if count != 1 {
		t.Fatalf("rewritten path refs = %d, want 1", count)
	}
	links := doc.Paths["/orders/{id}"]["get"].(map[string]any)["responses"].(map[string]any)["200"].(map[string]any)["links"].(map[string]any)
	if got := links["byRef"].(map[string]any)["operationRef"]; got != "#/paths/~1shop~1orders~1{id}/get" {
		t.Fatalf("operationRef = %v", got)
	}
}

func TestEscapePointer(t *testing.T) {
	if got := EscapePointer("/a~b/c"); got != "~1a~0b~1c" {
		t.Fatalf("EscapePointer = %q", got)
	}
}
