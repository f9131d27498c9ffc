// This file contains the logic for translating decoded manifest schema
// structs into the format-agnostic config model.

package hcl

import (
	"context"
	"fmt"

	"github.com/vk/cmdbind/internal/config"
	"github.com/vk/cmdbind/internal/diag"
	"github.com/vk/cmdbind/internal/schema"
	"github.com/vk/cmdbind/internal/shape"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// translateCommand converts one HCL command block into its descriptor.
func (l *Loader) translateCommand(ctx context.Context, s *schema.CommandDefinition) (*config.CommandDefinition, error) {
	cmd := &config.CommandDefinition{
		Name:        s.Name,
		Description: s.Description,
		Hidden:      s.Hidden,
		Params:      make(map[string]*config.ParamDefinition),
	}

	for _, p := range s.Params {
		if _, exists := cmd.Params[p.Name]; exists {
			return nil, &diag.ConfigError{
				Subject: s.Name,
				Reason:  fmt.Sprintf("parameter %q declared more than once", p.Name),
			}
		}
		translated, err := l.translateParam(ctx, p, s.Name)
		if err != nil {
			return nil, err
		}
		cmd.Params[p.Name] = translated
	}
	return cmd, nil
}

// translateParam parses the type expression and normalizes the default value
// into raw tokens, so defaults take exactly the same coercion path as
// user-supplied arguments.
func (l *Loader) translateParam(ctx context.Context, p *schema.ParamDefinition, ownerCmd string) (*config.ParamDefinition, error) {
	owner := fmt.Sprintf("%s.%s", ownerCmd, p.Name)

	desc, err := shape.ParseTypeExpr(ctx, p.Type, owner, l.kinds)
	if err != nil {
		return nil, err
	}

	var defaultTokens []string
	optional := p.Optional
	if p.Default != nil && !p.Default.IsNull() {
		defaultTokens, err = tokensFromValue(*p.Default, owner)
		if err != nil {
			return nil, err
		}
		// A valid default makes the parameter omittable.
		optional = true
	}

	return &config.ParamDefinition{
		Name:        p.Name,
		Type:        desc,
		Description: p.Description,
		Default:     defaultTokens,
		Optional:    optional,
	}, nil
}

// tokensFromValue flattens a manifest default into raw string tokens. A
// string becomes one token; a list or tuple becomes one token per element;
// numbers and bools are rendered through the cty string conversion.
func tokensFromValue(val cty.Value, owner string) ([]string, error) {
	ty := val.Type()

	if ty.IsTupleType() || ty.IsListType() || ty.IsSetType() {
		var tokens []string
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			token, err := tokenFromScalar(elem, owner)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token)
		}
		return tokens, nil
	}

	token, err := tokenFromScalar(val, owner)
	if err != nil {
		return nil, err
	}
	return []string{token}, nil
}

func tokenFromScalar(val cty.Value, owner string) (string, error) {
	converted, err := convert.Convert(val, cty.String)
	if err != nil || converted.IsNull() {
		return "", &diag.ConfigError{
			Subject: owner,
			Reason:  fmt.Sprintf("default value of type %s cannot be used as a token", val.Type().FriendlyName()),
		}
	}
	return converted.AsString(), nil
}
