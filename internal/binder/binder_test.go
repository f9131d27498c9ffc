package binder

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/cmdbind/internal/config"
	"github.com/vk/cmdbind/internal/diag"
	"github.com/vk/cmdbind/internal/kind"
	"github.com/vk/cmdbind/internal/shape"
)

func TestParseArgs(t *testing.T) {
	t.Parallel()

	t.Run("space and equals forms mix freely", func(t *testing.T) {
		got, err := ParseArgs([]string{"--name", "a", "--count=3", "--name=b"})
		require.NoError(t, err)

		want := map[string][]string{
			"name":  {"a", "b"},
			"count": {"3"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("parsed args mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("equals form keeps empty and equals-bearing values", func(t *testing.T) {
		got, err := ParseArgs([]string{"--msg=", "--expr=a=b"})
		require.NoError(t, err)
		assert.Equal(t, []string{""}, got["msg"])
		assert.Equal(t, []string{"a=b"}, got["expr"])
	})

	t.Run("no args yields empty map", func(t *testing.T) {
		got, err := ParseArgs(nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("bare token is rejected", func(t *testing.T) {
		_, err := ParseArgs([]string{"value"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unexpected argument "value"`)
	})

	t.Run("trailing flag with no value is rejected", func(t *testing.T) {
		_, err := ParseArgs([]string{"--name"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--name is missing a value")
	})

	t.Run("empty flag name is rejected", func(t *testing.T) {
		_, err := ParseArgs([]string{"--", "x"})
		require.Error(t, err)
		_, err = ParseArgs([]string{"--=x"})
		require.Error(t, err)
	})
}

func defWith(params map[string]*config.ParamDefinition) *config.CommandDefinition {
	for name, p := range params {
		p.Name = name
	}
	return &config.CommandDefinition{Name: "cmd", Params: params}
}

func scalar(k kind.Kind) shape.Descriptor {
	return shape.Descriptor{Shape: shape.Scalar, Elem: k}
}

func TestBind_ScalarFields(t *testing.T) {
	t.Parallel()

	type input struct {
		Name  string  `cmd:"name"`
		Count float64 `cmd:"count"`
	}
	def := defWith(map[string]*config.ParamDefinition{
		"name":  {Type: scalar(kind.String{})},
		"count": {Type: scalar(kind.Number{})},
	})

	var in input
	err := Bind(context.Background(), def, &in, []string{"--name", "svc", "--count", "3"})
	require.NoError(t, err)
	assert.Equal(t, "svc", in.Name)
	assert.Equal(t, 3.0, in.Count)
}

func TestBind_OptionalField(t *testing.T) {
	t.Parallel()

	type input struct {
		Label *string `cmd:"label"`
	}
	def := defWith(map[string]*config.ParamDefinition{
		"label": {Type: shape.Descriptor{Shape: shape.Optional, Elem: kind.String{}}},
	})

	t.Run("present wraps into the pointer", func(t *testing.T) {
		var in input
		require.NoError(t, Bind(context.Background(), def, &in, []string{"--label", "x"}))
		require.NotNil(t, in.Label)
		assert.Equal(t, "x", *in.Label)
	})

	t.Run("absent leaves the pointer nil", func(t *testing.T) {
		var in input
		require.NoError(t, Bind(context.Background(), def, &in, nil))
		assert.Nil(t, in.Label)
	})
}

func TestBind_CollectionFields(t *testing.T) {
	t.Parallel()

	type input struct {
		Items []string  `cmd:"items"`
		Ports []float64 `cmd:"ports"`
	}
	def := defWith(map[string]*config.ParamDefinition{
		"items": {Type: shape.Descriptor{Shape: shape.List, Elem: kind.String{}}},
		"ports": {Type: shape.Descriptor{Shape: shape.Set, Elem: kind.Number{}}},
	})

	var in input
	err := Bind(context.Background(), def, &in,
		[]string{"--items", "b", "--ports", "80", "--items", "a", "--ports", "80", "--ports", "443"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, in.Items, "repetition order is the list order")
	assert.Equal(t, []float64{80, 443}, in.Ports, "set keeps the first of each duplicate")
}

func TestBind_DefaultsTakeTheCoercionPath(t *testing.T) {
	t.Parallel()

	type input struct {
		Mode  string    `cmd:"mode"`
		Ports []float64 `cmd:"ports"`
	}
	def := defWith(map[string]*config.ParamDefinition{
		"mode":  {Type: scalar(kind.NewEnum("mode", "fast", "safe")), Default: []string{"safe"}},
		"ports": {Type: shape.Descriptor{Shape: shape.List, Elem: kind.Number{}}, Default: []string{"80", "443"}},
	})

	var in input
	require.NoError(t, Bind(context.Background(), def, &in, nil))
	assert.Equal(t, "safe", in.Mode)
	assert.Equal(t, []float64{80, 443}, in.Ports)
}

func TestBind_ProvidedValueOverridesDefault(t *testing.T) {
	t.Parallel()

	type input struct {
		Mode string `cmd:"mode"`
	}
	def := defWith(map[string]*config.ParamDefinition{
		"mode": {Type: scalar(kind.String{}), Default: []string{"safe"}},
	})

	var in input
	require.NoError(t, Bind(context.Background(), def, &in, []string{"--mode", "fast"}))
	assert.Equal(t, "fast", in.Mode)
}

func TestBind_BadDefaultSurfacesAsBadValue(t *testing.T) {
	t.Parallel()

	type input struct {
		Count float64 `cmd:"count"`
	}
	def := defWith(map[string]*config.ParamDefinition{
		"count": {Type: scalar(kind.Number{}), Default: []string{"lots"}},
	})

	var in input
	err := Bind(context.Background(), def, &in, nil)
	var badValue *diag.BadValueError
	require.ErrorAs(t, err, &badValue)
}

func TestBind_MissingRequiredParameters(t *testing.T) {
	t.Parallel()

	t.Run("scalar", func(t *testing.T) {
		type input struct {
			Name string `cmd:"name"`
		}
		def := defWith(map[string]*config.ParamDefinition{
			"name": {Type: scalar(kind.String{})},
		})

		var in input
		err := Bind(context.Background(), def, &in, nil)
		var usage *diag.UsageError
		require.ErrorAs(t, err, &usage)
		assert.Equal(t, "name", usage.Param)
		assert.Equal(t, 1, usage.Expected)
		assert.Equal(t, 0, usage.Got)
	})

	t.Run("container", func(t *testing.T) {
		type input struct {
			Items []string `cmd:"items"`
		}
		def := defWith(map[string]*config.ParamDefinition{
			"items": {Type: shape.Descriptor{Shape: shape.List, Elem: kind.String{}}},
		})

		var in input
		err := Bind(context.Background(), def, &in, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing required parameter --items")
	})
}

func TestBind_UnknownParameterFails(t *testing.T) {
	t.Parallel()

	type input struct {
		Name string `cmd:"name"`
	}
	def := defWith(map[string]*config.ParamDefinition{
		"name": {Type: scalar(kind.String{})},
	})

	var in input
	err := Bind(context.Background(), def, &in, []string{"--name", "a", "--bogus", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parameter --bogus")
}

func TestBind_FieldNameFallbackWithoutTag(t *testing.T) {
	t.Parallel()

	type input struct {
		Verbose bool
	}
	def := defWith(map[string]*config.ParamDefinition{
		"Verbose": {Type: scalar(kind.Bool{})},
	})

	var in input
	require.NoError(t, Bind(context.Background(), def, &in, []string{"--Verbose", "true"}))
	assert.True(t, in.Verbose)
}

func TestBind_NonPointerInputRejected(t *testing.T) {
	t.Parallel()

	type input struct{}
	err := Bind(context.Background(), defWith(map[string]*config.ParamDefinition{}), input{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-nil pointer")
}

func TestBind_CustomKindIntoTypedField(t *testing.T) {
	t.Parallel()

	type level int
	levelKind := kind.NewFromString("level", level(0), func(s string) (any, error) {
		switch s {
		case "low":
			return level(1), nil
		case "high":
			return level(2), nil
		}
		return nil, assert.AnError
	})

	type input struct {
		Level level `cmd:"level"`
	}
	def := defWith(map[string]*config.ParamDefinition{
		"level": {Type: scalar(levelKind)},
	})

	var in input
	require.NoError(t, Bind(context.Background(), def, &in, []string{"--level", "high"}))
	assert.Equal(t, level(2), in.Level)
}
