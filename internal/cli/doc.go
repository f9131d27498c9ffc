// Package cli turns raw process arguments into an app configuration plus
// the command invocation to dispatch. It owns usage text and exit codes;
// everything past the first non-flag argument belongs to the command and is
// passed through untouched for the binder.
package cli
