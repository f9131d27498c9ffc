// Package kind implements the closed set of leaf types a raw token can be
// converted into.
//
// A Kind turns exactly one string token into one typed Go value. The set of
// kinds available to a program is an explicit registry: primitives are wired
// in by the application, and anything else (durations, URLs, project-specific
// identifiers) is registered as a FromString kind with a plain constructor
// function. There is no runtime scanning for "anything with a string
// constructor" - if a kind is not registered, declarations referring to it
// are rejected at startup.
package kind
