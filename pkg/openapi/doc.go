// Package openapi exposes the public contracts for the loader and parser
// stages that turn a module's OpenAPI document (file, fs.FS entry or URL)
// into a model.Document ready for merging. Implementations live under
// internal/openapi to keep kin-openapi and YAML decoding details hidden from
// consumers.
package openapi
