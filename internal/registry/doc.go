// Package registry provides the central "glue" between command declarations
// and compiled Go code.
//
// Command packages register a concrete Go type, its factory, and its input
// struct into a named namespace at startup. Manifests supply the matching
// descriptors, which the registry pairs with entries by command name. After
// population the registry is validated so that every manifest parameter has
// a matching Go struct field of the right type, preventing a wide class of
// runtime errors before any command runs.
//
// The registry is also the namespace scanner the discovery service consults:
// there is no classpath-style introspection anywhere, only entries that were
// explicitly registered.
package registry
