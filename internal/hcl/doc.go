// Package hcl loads command manifests written in HCL and translates them
// into the format-agnostic config model.
//
// A manifest declares, per command, the descriptor the engine consumes: the
// user-facing name, the hidden flag, and every parameter with its type
// expression. The loader owns all HCL specifics; nothing outside this
// package sees an hcl.Expression after loading completes.
package hcl
