// This file contains the logic for parsing HCL type expressions (e.g.
// `string`, `set(number)`, `enum("fast","slow")`) into shape descriptors.

package shape

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/cmdbind/internal/ctxlog"
	"github.com/vk/cmdbind/internal/diag"
	"github.com/vk/cmdbind/internal/kind"
	"github.com/zclconf/go-cty/cty"
)

// ParseTypeExpr converts an HCL type expression into a Descriptor. The owner
// name (typically the parameter being declared) names enumeration kinds and
// appears in declaration errors.
func ParseTypeExpr(ctx context.Context, expr hcl.Expression, owner string, kinds *kind.Registry) (Descriptor, error) {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		logger.Debug("Type expression is nil, defaulting to scalar any.", "owner", owner)
		return Descriptor{Shape: Scalar, Elem: kind.Any{}}, nil
	}

	// A type switch over the concrete expression types is the supported way
	// to inspect an hcl.Expression.
	switch v := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		logger.Debug("Parsing type expression as a constructor call.", "call", v.Name, "owner", owner)

		switch v.Name {
		case "list", "set", "bag", "optional":
			if len(v.Args) != 1 {
				return Descriptor{}, &diag.ConfigError{
					Subject: owner,
					Reason:  fmt.Sprintf("type constructor %q requires exactly one argument, got %d", v.Name, len(v.Args)),
				}
			}
			elem, err := parseLeaf(ctx, v.Args[0], owner, kinds)
			if err != nil {
				return Descriptor{}, err
			}
			logger.Debug("Parsed element type.", "elem", elem.Name(), "owner", owner)

			switch v.Name {
			case "list":
				return Descriptor{Shape: List, Elem: elem}, nil
			case "set":
				return Descriptor{Shape: Set, Elem: elem}, nil
			case "bag":
				return Descriptor{Shape: Bag, Elem: elem}, nil
			default:
				return Descriptor{Shape: Optional, Elem: elem}, nil
			}

		case "enum":
			elem, err := parseEnum(v, owner)
			if err != nil {
				return Descriptor{}, err
			}
			return Descriptor{Shape: Scalar, Elem: elem}, nil

		default:
			return Descriptor{}, &diag.ConfigError{
				Subject: owner,
				Reason:  fmt.Sprintf("unknown type constructor %q", v.Name),
			}
		}

	case *hclsyntax.ScopeTraversalExpr:
		elem, err := parseLeaf(ctx, expr, owner, kinds)
		if err != nil {
			return Descriptor{}, err
		}
		return Descriptor{Shape: Scalar, Elem: elem}, nil

	default:
		return Descriptor{}, &diag.ConfigError{
			Subject: owner,
			Reason:  fmt.Sprintf("unsupported expression for type definition: %T", v),
		}
	}
}

// parseLeaf resolves an expression that must name a leaf kind. Nested
// containers and nested optionals are declaration bugs: optionality applies
// only at the outermost shape, and every descriptor has a single unambiguous
// shape.
func parseLeaf(ctx context.Context, expr hcl.Expression, owner string, kinds *kind.Registry) (kind.Kind, error) {
	logger := ctxlog.FromContext(ctx)

	switch v := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		switch v.Name {
		case "optional":
			return nil, &diag.ConfigError{
				Subject: owner,
				Reason:  "optional cannot be nested inside another shape",
			}
		case "list", "set", "bag":
			return nil, &diag.ConfigError{
				Subject: owner,
				Reason:  fmt.Sprintf("element type must be a leaf type, got %q", v.Name),
			}
		case "enum":
			return parseEnum(v, owner)
		default:
			return nil, &diag.ConfigError{
				Subject: owner,
				Reason:  fmt.Sprintf("unknown type constructor %q", v.Name),
			}
		}

	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return nil, &diag.ConfigError{
				Subject: owner,
				Reason:  "invalid type keyword: traversal path is not a single identifier",
			}
		}
		name := v.Traversal.RootName()
		logger.Debug("Resolving leaf kind.", "keyword", name, "owner", owner)
		switch name {
		case "string":
			return kind.String{}, nil
		case "number":
			return kind.Number{}, nil
		case "bool":
			return kind.Bool{}, nil
		case "path":
			return kind.Path{}, nil
		case "any":
			return kind.Any{}, nil
		default:
			if kinds != nil {
				if k, ok := kinds.Lookup(name); ok {
					return k, nil
				}
			}
			return nil, &diag.ConfigError{
				Subject: owner,
				Reason:  fmt.Sprintf("unknown leaf type %q", name),
			}
		}

	default:
		return nil, &diag.ConfigError{
			Subject: owner,
			Reason:  fmt.Sprintf("unsupported expression for element type: %T", v),
		}
	}
}

// parseEnum evaluates every argument of an enum(...) call down to a string
// constant.
func parseEnum(call *hclsyntax.FunctionCallExpr, owner string) (kind.Kind, error) {
	if len(call.Args) == 0 {
		return nil, &diag.ConfigError{
			Subject: owner,
			Reason:  "enum requires at least one constant name",
		}
	}
	constants := make([]string, 0, len(call.Args))
	for _, arg := range call.Args {
		val, diags := arg.Value(nil)
		if diags.HasErrors() || !val.Type().Equals(cty.String) || val.IsNull() {
			return nil, &diag.ConfigError{
				Subject: owner,
				Reason:  "enum constants must be quoted string literals",
			}
		}
		constants = append(constants, val.AsString())
	}
	return kind.NewEnum(owner, constants...), nil
}
