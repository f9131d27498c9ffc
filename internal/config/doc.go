// Package config defines the format-agnostic model of command descriptors.
//
// Descriptors are produced once at startup by a loader (today, the HCL
// loader) and consumed read-only by discovery, validation, and binding. The
// engine itself interprets only the Hidden flag and the parameter shapes;
// everything else is carried through for presentation layers.
package config
