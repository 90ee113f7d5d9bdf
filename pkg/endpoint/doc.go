// Package endpoint serves the merged OpenAPI document over net/http.
//
// The handler responds to GET and HEAD requests. The output format is chosen
// by the format query parameter, then by the Accept header, and defaults to
// YAML. Until a document has been merged the handler answers 503.
package endpoint
