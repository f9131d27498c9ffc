// Package diag defines the error taxonomy shared by the coercion engine and
// the discovery service.
//
// Every failure either of them can produce is one of four concrete error
// types. UsageError and BadValueError describe problems with what the user
// typed and are meant to be shown verbatim. ConfigError and CollisionError
// describe problems with a command's own declaration and are meant for the
// command author, not the end user. Callers branch on the kind with
// errors.As; none of these errors is ever retried internally.
package diag
