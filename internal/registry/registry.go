package registry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"github.com/vk/cmdbind/internal/config"
	"github.com/vk/cmdbind/internal/kind"
)

// Command is the marker capability a concrete type must implement to be
// discoverable as a command.
type Command interface {
	Run(ctx context.Context, input any, out io.Writer) error
}

// CommandType is the reflect.Type of the Command marker, for use as the
// default marker in discovery calls.
var CommandType = reflect.TypeOf((*Command)(nil)).Elem()

// Module is the interface all command packages implement to be registered.
type Module interface {
	Register(r *Registry, kinds *kind.Registry)
}

// Entry is one registered command: its concrete type identity, factories,
// and (after population) its descriptor.
type Entry struct {
	// Name is the user-facing command name; it pairs the entry with its
	// manifest descriptor.
	Name string

	// Type is the concrete Go type implementing the marker capability. It is
	// the entry's identity for discovery and collision checks.
	Type reflect.Type

	// New constructs a fresh command value. A nil factory marks the entry as
	// declared but not instantiable, and discovery filters it out.
	New func() any

	// NewInput allocates the command's input struct; InputType is its
	// struct type. Both are nil for commands without parameters.
	NewInput  func() any
	InputType reflect.Type

	// Descriptor is attached from the loaded manifest model. The engine
	// reads only the Hidden flag and the parameter shapes.
	Descriptor *config.CommandDefinition
}

// Namespace is a named group of entries, the unit discovery scans over.
type Namespace struct {
	name    string
	entries []*Entry
}

// Register adds an entry to the namespace. Registering the same concrete
// type twice is a programming error and panics.
func (ns *Namespace) Register(e *Entry) {
	for _, existing := range ns.entries {
		if existing.Type == e.Type {
			panic(fmt.Sprintf("command type %s already registered in namespace '%s'", e.Type, ns.name))
		}
	}
	slog.Debug("Registering command entry.", "namespace", ns.name, "name", e.Name, "type", fmt.Sprint(e.Type))
	ns.entries = append(ns.entries, e)
}

// Registry holds all namespaces for a single application instance.
type Registry struct {
	namespaces map[string]*Namespace
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{namespaces: make(map[string]*Namespace)}
}

// Namespace returns the namespace with the given name, creating it on first
// use.
func (r *Registry) Namespace(name string) *Namespace {
	ns, ok := r.namespaces[name]
	if !ok {
		ns = &Namespace{name: name}
		r.namespaces[name] = ns
	}
	return ns
}

// Scan returns the entries in a namespace whose concrete type implements the
// marker capability. An unknown namespace yields nothing; discovery treats
// namespaces as sets of candidates, not as required structure.
func (r *Registry) Scan(namespace string, marker reflect.Type) []*Entry {
	ns, ok := r.namespaces[namespace]
	if !ok {
		return nil
	}

	var matched []*Entry
	for _, e := range ns.entries {
		if implementsMarker(e.Type, marker) {
			matched = append(matched, e)
		}
	}
	return matched
}

// PopulateDescriptorsFromModel attaches loaded manifest descriptors to the
// registered entries, pairing by command name.
func (r *Registry) PopulateDescriptorsFromModel(model *config.Model) {
	for _, ns := range r.namespaces {
		for _, e := range ns.entries {
			if def, ok := model.Commands[e.Name]; ok {
				e.Descriptor = def
			}
		}
	}
}

// implementsMarker checks the type and its pointer form, since command
// methods may use either receiver.
func implementsMarker(t, marker reflect.Type) bool {
	if t == nil || marker == nil || marker.Kind() != reflect.Interface {
		return false
	}
	return t.Implements(marker) || reflect.PointerTo(t).Implements(marker)
}
