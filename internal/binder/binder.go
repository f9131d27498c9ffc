// Package binder populates a command's input struct from raw command-line
// tokens, using the command's descriptor to drive coercion.
//
// Binding is the only place tokens, descriptors, and Go structs meet: the
// coercion engine below it knows nothing about structs, and the commands
// above it never see raw tokens.
package binder

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/vk/cmdbind/internal/coerce"
	"github.com/vk/cmdbind/internal/config"
	"github.com/vk/cmdbind/internal/ctxlog"
	"github.com/vk/cmdbind/internal/diag"
	"github.com/vk/cmdbind/internal/shape"
)

// ParseArgs groups raw command arguments into tokens per parameter. Both
// `--name value` and `--name=value` are accepted, and a parameter may repeat
// to supply multiple tokens for collection shapes.
func ParseArgs(args []string) (map[string][]string, error) {
	tokens := make(map[string][]string)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			return nil, fmt.Errorf("unexpected argument %q: parameters are given as --name value", arg)
		}
		body := strings.TrimPrefix(arg, "--")
		if name, value, ok := strings.Cut(body, "="); ok {
			if name == "" {
				return nil, fmt.Errorf("unexpected argument %q: missing parameter name", arg)
			}
			tokens[name] = append(tokens[name], value)
			continue
		}
		if body == "" {
			return nil, fmt.Errorf("unexpected argument %q: missing parameter name", arg)
		}
		if i+1 >= len(args) {
			return nil, fmt.Errorf("parameter --%s is missing a value", body)
		}
		i++
		tokens[body] = append(tokens[body], args[i])
	}
	return tokens, nil
}

// Bind coerces the given arguments against the command's descriptor and
// populates the input struct through its `cmd` field tags. Defaults from the
// descriptor run through the same coercion path as user-supplied tokens.
// Optional parameters that were never supplied are left at their zero value.
func Bind(ctx context.Context, def *config.CommandDefinition, inputStruct any, args []string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Binding command arguments.", "command", def.Name, "args", len(args))

	provided, err := ParseArgs(args)
	if err != nil {
		return err
	}
	for name := range provided {
		if _, ok := def.Params[name]; !ok {
			return fmt.Errorf("unknown parameter --%s for command %q", name, def.Name)
		}
	}

	structVal := reflect.ValueOf(inputStruct)
	if structVal.Kind() != reflect.Pointer || structVal.IsNil() {
		return fmt.Errorf("inputStruct must be a non-nil pointer")
	}
	structVal = structVal.Elem()
	structType := structVal.Type()

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldVal := structVal.Field(i)
		if !fieldVal.CanSet() {
			continue
		}

		lookupName := field.Name
		if tag := field.Tag.Get("cmd"); tag != "" {
			lookupName = strings.Split(tag, ",")[0]
		}

		param, defExists := def.Params[lookupName]
		if !defExists {
			continue
		}

		tokens, argProvided := provided[lookupName]
		if !argProvided {
			if param.Default != nil {
				tokens = param.Default
			} else if param.Optional || param.Type.Shape == shape.Optional {
				// Absence of an optional parameter is signaled by never
				// coercing it, not by coercing an empty token list.
				continue
			} else if param.Type.Shape.IsContainer() {
				return fmt.Errorf("missing required parameter --%s", lookupName)
			} else {
				return &diag.UsageError{Param: lookupName, Expected: 1, Got: 0}
			}
		}

		value, err := coerce.Coerce(ctx, lookupName, param.Type, tokens)
		if err != nil {
			return err
		}
		if err := setField(fieldVal, param.Type, value); err != nil {
			return fmt.Errorf("failed to bind parameter '%s': %w", lookupName, err)
		}
	}

	logger.Debug("Finished binding command arguments.", "command", def.Name)
	return nil
}

// setField writes a coerced value into a struct field, unwrapping the
// optional/container forms the coercion engine produces.
func setField(fieldVal reflect.Value, desc shape.Descriptor, value any) error {
	switch desc.Shape {
	case shape.Optional:
		opt, ok := value.(coerce.Optional)
		if !ok {
			return fmt.Errorf("expected optional value, got %T", value)
		}
		if fieldVal.Kind() != reflect.Pointer {
			return fmt.Errorf("optional parameter requires a pointer field, got %s", fieldVal.Type())
		}
		ptr := reflect.New(fieldVal.Type().Elem())
		if err := assign(ptr.Elem(), opt.Value); err != nil {
			return err
		}
		fieldVal.Set(ptr)
		return nil

	case shape.List, shape.Set, shape.Bag:
		leaves, ok := value.([]any)
		if !ok {
			return fmt.Errorf("expected collection value, got %T", value)
		}
		if fieldVal.Kind() != reflect.Slice {
			return fmt.Errorf("collection parameter requires a slice field, got %s", fieldVal.Type())
		}
		out := reflect.MakeSlice(fieldVal.Type(), len(leaves), len(leaves))
		for i, leaf := range leaves {
			if err := assign(out.Index(i), leaf); err != nil {
				return err
			}
		}
		fieldVal.Set(out)
		return nil

	default:
		return assign(fieldVal, value)
	}
}

func assign(dst reflect.Value, value any) error {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return fmt.Errorf("cannot assign nil value to %s", dst.Type())
	}
	if !rv.Type().AssignableTo(dst.Type()) {
		return fmt.Errorf("cannot assign %s to field of type %s", rv.Type(), dst.Type())
	}
	dst.Set(rv)
	return nil
}
