// Package model defines the in-memory OpenAPI 3 document graph the merge
// processor works on. Parts the merge reasons about (servers, tags, paths,
// components, extensions) are typed while operation and schema bodies stay
// generic Object trees, so documents round-trip without loss. Copy produces
// independent clones, Equal compares by structure, and the Rewrite helpers
// update references after components, operationIds, tags or paths were
// renamed. Encode/Decode convert to and from YAML or JSON and Validate runs
// kin-openapi's structural checks.
package model
