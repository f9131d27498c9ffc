package coerce

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/cmdbind/internal/diag"
	"github.com/vk/cmdbind/internal/kind"
	"github.com/vk/cmdbind/internal/shape"
)

func TestCoerce_Scalar(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("one token constructs the leaf", func(t *testing.T) {
		v, err := Coerce(ctx, "count", shape.Descriptor{Shape: shape.Scalar, Elem: kind.Number{}}, []string{"7"})
		require.NoError(t, err)
		assert.Equal(t, 7.0, v)
	})

	t.Run("zero tokens is a usage error", func(t *testing.T) {
		_, err := Coerce(ctx, "count", shape.Descriptor{Shape: shape.Scalar, Elem: kind.Number{}}, nil)
		var usage *diag.UsageError
		require.ErrorAs(t, err, &usage)
		assert.Equal(t, 1, usage.Expected)
		assert.Equal(t, 0, usage.Got)
		assert.Equal(t, "count", usage.Param)
	})

	t.Run("two tokens is a usage error", func(t *testing.T) {
		_, err := Coerce(ctx, "count", shape.Descriptor{Shape: shape.Scalar, Elem: kind.Number{}}, []string{"1", "2"})
		var usage *diag.UsageError
		require.ErrorAs(t, err, &usage)
		assert.Equal(t, 1, usage.Expected)
		assert.Equal(t, 2, usage.Got)
	})
}

func TestCoerce_Optional_WrapsSameValueAsScalar(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	desc := shape.Descriptor{Shape: shape.Scalar, Elem: kind.String{}}

	scalar, err := Coerce(ctx, "name", desc, []string{"x"})
	require.NoError(t, err)

	desc.Shape = shape.Optional
	wrapped, err := Coerce(ctx, "name", desc, []string{"x"})
	require.NoError(t, err)

	opt, ok := wrapped.(Optional)
	require.True(t, ok)
	assert.Equal(t, scalar, opt.Value)
}

func TestCoerce_Optional_TokenCountStillEnforced(t *testing.T) {
	t.Parallel()

	_, err := Coerce(context.Background(), "name", shape.Descriptor{Shape: shape.Optional, Elem: kind.String{}}, []string{"a", "b"})
	var usage *diag.UsageError
	require.ErrorAs(t, err, &usage)
}

func TestCoerce_List_PreservesOrder(t *testing.T) {
	t.Parallel()

	v, err := Coerce(context.Background(), "items", shape.Descriptor{Shape: shape.List, Elem: kind.String{}}, []string{"c", "a", "b", "a"})
	require.NoError(t, err)

	want := []any{"c", "a", "b", "a"}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestCoerce_Set_RemovesDuplicateLeafValues(t *testing.T) {
	t.Parallel()

	// "1" and "1.0" construct the same number, so the set keeps one of them.
	v, err := Coerce(context.Background(), "ports", shape.Descriptor{Shape: shape.Set, Elem: kind.Number{}}, []string{"1", "1.0", "2", "1"})
	require.NoError(t, err)

	want := []any{1.0, 2.0}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("set mismatch (-want +got):\n%s", diff)
	}
}

func TestCoerce_Bag_KeepsMultiplicity(t *testing.T) {
	t.Parallel()

	v, err := Coerce(context.Background(), "tags", shape.Descriptor{Shape: shape.Bag, Elem: kind.String{}}, []string{"a", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "a", "b"}, v)
}

func TestCoerce_Container_SingleBadTokenAbortsWholeCall(t *testing.T) {
	t.Parallel()

	_, err := Coerce(context.Background(), "ports", shape.Descriptor{Shape: shape.List, Elem: kind.Number{}}, []string{"80", "443", "not-a-port"})
	var badValue *diag.BadValueError
	require.ErrorAs(t, err, &badValue)
	assert.Equal(t, []string{"not-a-port"}, badValue.Tokens)
}

func TestCoerce_Enum(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	desc := shape.Descriptor{Shape: shape.Scalar, Elem: kind.NewEnum("mode", "fast", "slow")}

	v, err := Coerce(ctx, "mode", desc, []string{"slow"})
	require.NoError(t, err)
	assert.Equal(t, "slow", v)

	_, err = Coerce(ctx, "mode", desc, []string{"medium"})
	var badValue *diag.BadValueError
	require.ErrorAs(t, err, &badValue)
	assert.Equal(t, []string{"fast", "slow"}, badValue.Allowed)
}

func TestCoerce_FromString_RoundTrip(t *testing.T) {
	t.Parallel()

	durationKind := kind.NewFromString("duration", time.Duration(0), func(s string) (any, error) {
		return time.ParseDuration(s)
	})
	want := 150 * time.Millisecond

	v, err := Coerce(context.Background(), "timeout", shape.Descriptor{Shape: shape.Scalar, Elem: durationKind}, []string{want.String()})
	require.NoError(t, err)
	assert.Equal(t, want, v)
}

func TestCoerce_MissingElemKindIsConfigError(t *testing.T) {
	t.Parallel()

	for _, s := range []shape.Shape{shape.Scalar, shape.List, shape.Set, shape.Bag, shape.Optional} {
		_, err := Coerce(context.Background(), "broken", shape.Descriptor{Shape: s}, []string{"x"})
		var configErr *diag.ConfigError
		require.ErrorAs(t, err, &configErr, "shape %s", s)
		assert.Equal(t, "broken", configErr.Subject)
	}
}

func TestCoerce_EmptyContainerIsAllowed(t *testing.T) {
	t.Parallel()

	v, err := Coerce(context.Background(), "items", shape.Descriptor{Shape: shape.List, Elem: kind.String{}}, nil)
	require.NoError(t, err)
	assert.Empty(t, v)
}
