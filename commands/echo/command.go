// Package echo provides the simplest core command: it writes its bound
// values back out, one per line. It doubles as the smoke test for ordered
// collection binding.
package echo

import (
	"context"
	"fmt"
	"io"
	"reflect"

	"github.com/vk/cmdbind/internal/kind"
	"github.com/vk/cmdbind/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Echo is the concrete command type.
type Echo struct{}

// Input defines the parameters for the echo command.
type Input struct {
	Values []string `cmd:"values"`
	Prefix *string  `cmd:"prefix"`
}

// Run writes every value in input order.
func (Echo) Run(ctx context.Context, input any, out io.Writer) error {
	in := input.(*Input)
	prefix := ""
	if in.Prefix != nil {
		prefix = *in.Prefix
	}
	for _, v := range in.Values {
		fmt.Fprintf(out, "%s%s\n", prefix, v)
	}
	return nil
}

// Register registers the command with the engine.
func (m *Module) Register(r *registry.Registry, kinds *kind.Registry) {
	r.Namespace("core").Register(&registry.Entry{
		Name:      "echo",
		Type:      reflect.TypeOf(Echo{}),
		New:       func() any { return Echo{} },
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
	})
}
