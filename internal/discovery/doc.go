// Package discovery finds the commands eligible for dispatch.
//
// Given a scanner over named namespaces, a marker capability, and filter
// options, Discover produces the identity-to-descriptor map downstream
// dispatch works from. It fails loudly instead of guessing: a command
// without a descriptor is a structural error, and two commands sharing a
// simple name abort the whole run with every qualified name listed, so an
// ambiguous short name can never silently shadow another command.
package discovery
