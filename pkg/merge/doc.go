// Package merge combines the OpenAPI documents contributed by the modules of
// one application into a single document.
//
// Each module is processed in input order on a private copy of its document.
// Path and extension clashes exclude the whole module and record a problem
// against it; component, operationId and tag clashes are resolved by renaming
// the later definition (suffix _1, _2, ...) and rewriting every reference to
// it inside that module. Info, externalDocs, servers and security are decided
// after all modules were processed, from the modules that were included.
// Source documents are never mutated and no state survives between calls.
package merge
