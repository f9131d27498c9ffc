// Package coerce converts raw string tokens into values of a requested
// shape: a scalar, a present-optional, or a collection built from one leaf
// value per token.
//
// Coercion is all-or-nothing. A single bad token fails the whole call;
// partial collections are never returned. Each call is independent and
// side-effect-free, so callers may coerce different parameters concurrently.
package coerce

import (
	"context"

	"github.com/vk/cmdbind/internal/ctxlog"
	"github.com/vk/cmdbind/internal/diag"
	"github.com/vk/cmdbind/internal/kind"
	"github.com/vk/cmdbind/internal/shape"
)

// Optional wraps a value bound for an optional parameter. Absence is
// signaled by the caller never invoking Coerce for that parameter, not by an
// empty Optional, so a constructed Optional is always present.
type Optional struct {
	Value any
}

// Coerce converts tokens into a value matching the descriptor.
//
// The result is the elem kind's Go value for Scalar, an Optional for
// Optional, and a []any for the container shapes (order preserved for List,
// first occurrences for Set, full multiplicity for Bag).
func Coerce(ctx context.Context, param string, desc shape.Descriptor, tokens []string) (any, error) {
	logger := ctxlog.FromContext(ctx)

	if desc.Elem == nil {
		// The declaration named something that is neither a leaf kind nor a
		// container, so the command's own type information is broken.
		return nil, &diag.ConfigError{
			Subject: param,
			Reason:  "element type is not constructible",
		}
	}

	if desc.Shape.IsContainer() {
		logger.Debug("Coercing container parameter.",
			"param", param,
			"shape", desc.Shape.String(),
			"elem", desc.Elem.Name(),
			"tokens", len(tokens),
		)
		return coerceContainer(desc, tokens)
	}

	// Scalar and Optional take exactly one token.
	if len(tokens) != 1 {
		return nil, &diag.UsageError{Param: param, Expected: 1, Got: len(tokens)}
	}

	leaf, err := desc.Elem.Construct(tokens[0])
	if err != nil {
		return nil, err
	}

	if desc.Shape == shape.Optional {
		return Optional{Value: leaf}, nil
	}
	return leaf, nil
}

// coerceContainer constructs one leaf per token and assembles the requested
// collection form.
func coerceContainer(desc shape.Descriptor, tokens []string) ([]any, error) {
	leaves := make([]any, 0, len(tokens))
	for _, token := range tokens {
		leaf, err := desc.Elem.Construct(token)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, leaf)
	}

	if desc.Shape != shape.Set {
		return leaves, nil
	}

	// Set semantics: drop later duplicates under the elem kind's equality.
	distinct := make([]any, 0, len(leaves))
	for _, leaf := range leaves {
		dup := false
		for _, seen := range distinct {
			if kind.Equal(desc.Elem, seen, leaf) {
				dup = true
				break
			}
		}
		if !dup {
			distinct = append(distinct, leaf)
		}
	}
	return distinct, nil
}
