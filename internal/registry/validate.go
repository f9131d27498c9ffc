package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/vk/cmdbind/internal/ctxlog"
	"github.com/vk/cmdbind/internal/shape"
)

// Validate performs a strict parity check between manifests and Go code. For
// every entry with a descriptor it checks both the presence of parameters
// and the compatibility of their declared shapes with the input struct.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, ns := range r.namespaces {
		for _, e := range ns.entries {
			if e.Descriptor == nil {
				// Missing descriptors are reported by discovery, which knows
				// whether the entry survives its filters at all.
				continue
			}
			errs = append(errs, validateEntry(e)...)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Registry parity check passed.")
	return nil
}

func validateEntry(e *Entry) []string {
	var errs []string

	if e.InputType == nil {
		if len(e.Descriptor.Params) > 0 {
			errs = append(errs, fmt.Sprintf("command '%s': manifest declares parameters, but Go command has no input struct", e.Name))
		}
		return errs
	}

	goFields := make(map[string]reflect.StructField)
	for i := 0; i < e.InputType.NumField(); i++ {
		field := e.InputType.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("cmd")
		tagName := strings.Split(tag, ",")[0]
		if tagName != "" && tagName != "-" {
			goFields[tagName] = field
		}
	}

	// Check for presence mismatches in both directions.
	for name := range goFields {
		if _, ok := e.Descriptor.Params[name]; !ok {
			errs = append(errs, fmt.Sprintf("command '%s': Go struct has field for parameter '%s' which is not declared in manifest", e.Name, name))
		}
	}
	for name := range e.Descriptor.Params {
		if _, ok := goFields[name]; !ok {
			errs = append(errs, fmt.Sprintf("command '%s': manifest declares parameter '%s' which is not found in Go struct", e.Name, name))
		}
	}

	// Check for shape mismatches.
	for name, param := range e.Descriptor.Params {
		goField, ok := goFields[name]
		if !ok {
			continue // Already handled by presence check
		}

		expected := ExpectedGoType(param.Type)
		if expected == nil {
			errs = append(errs, fmt.Sprintf("command '%s', parameter '%s': element type is not constructible", e.Name, name))
			continue
		}

		if goField.Type != expected {
			errs = append(errs, fmt.Sprintf("command '%s', parameter '%s': type mismatch. Manifest requires '%s' but Go struct field '%s' has type '%s'",
				e.Name, name, expected, goField.Name, goField.Type))
		}
	}

	return errs
}

// ExpectedGoType returns the Go type a struct field must have to receive a
// value of the given shape: the elem kind's type for scalars, a pointer for
// optionals, a slice for the collection shapes.
func ExpectedGoType(desc shape.Descriptor) reflect.Type {
	if desc.Elem == nil {
		return nil
	}
	elem := desc.Elem.GoType()
	if elem == nil {
		return nil
	}
	switch desc.Shape {
	case shape.Scalar:
		return elem
	case shape.Optional:
		return reflect.PointerTo(elem)
	default:
		return reflect.SliceOf(elem)
	}
}
