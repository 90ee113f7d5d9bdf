// Package registry tracks the modules deployed into one application and keeps
// the merged OpenAPI document current as modules come and go.
//
// Every lifecycle event (register, deploy, undeploy) re-runs the merge over
// the modules in deployment order and publishes an immutable Snapshot.
// Loading happens outside the lock; merging is serialised.
package registry
