// Package app wires the engine together for one application instance: an
// isolated logger, the kind registry, the command registry populated from
// the core command packages, and descriptors loaded from manifests. It then
// dispatches a single command invocation through discovery and binding.
package app
