package discovery

import (
	"context"
	"reflect"

	"github.com/vk/cmdbind/internal/ctxlog"
	"github.com/vk/cmdbind/internal/diag"
	"github.com/vk/cmdbind/internal/registry"
)

// Scanner yields the registered entries of a namespace whose concrete type
// implements the marker capability. The registry implements it; tests
// substitute their own.
type Scanner interface {
	Scan(namespace string, marker reflect.Type) []*registry.Entry
}

// Options adjust which discovered entries survive filtering.
type Options struct {
	// ExcludedBaseTypes suppresses whole families of commands: any entry
	// whose concrete type matches, embeds, or implements one of these types
	// is dropped.
	ExcludedBaseTypes []reflect.Type

	// IncludeHidden keeps entries whose descriptor marks them hidden.
	IncludeHidden bool
}

// Discover scans the given namespaces for concrete commands implementing the
// marker capability, applies the filters, and enforces simple-name
// uniqueness across the whole surviving set before returning the
// identity-to-entry map. On any failure no partial map is returned.
func Discover(ctx context.Context, scanner Scanner, namespaces []string, marker reflect.Type, opts Options) (map[reflect.Type]*registry.Entry, error) {
	logger := ctxlog.FromContext(ctx)

	var survivors []*registry.Entry
	for _, namespace := range namespaces {
		for _, e := range scanner.Scan(namespace, marker) {
			if !isConcrete(e) {
				logger.Debug("Skipping non-concrete entry.", "namespace", namespace, "type", typeName(e.Type))
				continue
			}
			if isExcluded(e.Type, opts.ExcludedBaseTypes) {
				logger.Debug("Skipping excluded entry.", "namespace", namespace, "type", typeName(e.Type))
				continue
			}
			if e.Descriptor == nil {
				// Every concrete command must carry a descriptor; a missing
				// one is a structural bug, not something to skip over.
				return nil, &diag.ConfigError{
					Subject: typeName(e.Type),
					Reason:  "command has no descriptor",
				}
			}
			if e.Descriptor.Hidden && !opts.IncludeHidden {
				logger.Debug("Skipping hidden entry.", "namespace", namespace, "type", typeName(e.Type))
				continue
			}
			survivors = append(survivors, e)
		}
	}

	// Uniqueness runs once over the whole surviving set so a late duplicate
	// can never overwrite an earlier entry.
	bySimpleName := make(map[string][]*registry.Entry)
	for _, e := range survivors {
		bySimpleName[e.Type.Name()] = append(bySimpleName[e.Type.Name()], e)
	}

	collisions := make(map[string][]string)
	for name, group := range bySimpleName {
		if len(group) > 1 {
			qualified := make([]string, 0, len(group))
			for _, e := range group {
				qualified = append(qualified, typeName(e.Type))
			}
			collisions[name] = qualified
		}
	}
	if len(collisions) > 0 {
		return nil, &diag.CollisionError{Groups: collisions}
	}

	result := make(map[reflect.Type]*registry.Entry, len(survivors))
	for _, e := range survivors {
		result[e.Type] = e
	}
	logger.Debug("Discovery completed.", "namespaces", namespaces, "commands", len(result))
	return result, nil
}

// isConcrete reports whether the entry can actually be instantiated as a
// command: a named struct type with a factory. Interfaces, anonymous types,
// primitives, and factory-less declarations can never run.
func isConcrete(e *registry.Entry) bool {
	if e.Type == nil || e.New == nil {
		return false
	}
	if e.Type.Kind() != reflect.Struct {
		return false
	}
	return e.Type.Name() != ""
}

// isExcluded checks the concrete type against every excluded base: exact
// match, interface implementation, or struct embedding at any depth.
func isExcluded(t reflect.Type, excluded []reflect.Type) bool {
	for _, base := range excluded {
		if base == nil {
			continue
		}
		if t == base {
			return true
		}
		if base.Kind() == reflect.Interface &&
			(t.Implements(base) || reflect.PointerTo(t).Implements(base)) {
			return true
		}
		if embedsType(t, base) {
			return true
		}
	}
	return false
}

// embedsType walks anonymous fields recursively.
func embedsType(t, base reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.Anonymous {
			continue
		}
		ft := field.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft == base || embedsType(ft, base) {
			return true
		}
	}
	return false
}

// typeName returns the fully-qualified name of a command type.
func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
