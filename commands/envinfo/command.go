// Package envinfo provides a core command that prints the values of selected
// environment variables.
package envinfo

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"

	"github.com/vk/cmdbind/internal/ctxlog"
	"github.com/vk/cmdbind/internal/kind"
	"github.com/vk/cmdbind/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// EnvInfo is the concrete command type.
type EnvInfo struct{}

// Input defines the parameters for the envinfo command. Names is a set, so
// asking for the same variable twice prints it once.
type Input struct {
	Names  []string `cmd:"names"`
	Format string   `cmd:"format"`
}

// Run prints the requested variables in sorted order for consistent output.
func (EnvInfo) Run(ctx context.Context, input any, out io.Writer) error {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Reading environment variables.", "count", len(in.Names))

	names := append([]string(nil), in.Names...)
	sort.Strings(names)

	for _, name := range names {
		value, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		switch in.Format {
		case "shell":
			fmt.Fprintf(out, "export %s=%q\n", name, value)
		default:
			fmt.Fprintf(out, "%s=%s\n", name, value)
		}
	}
	return nil
}

// Register registers the command with the engine.
func (m *Module) Register(r *registry.Registry, kinds *kind.Registry) {
	r.Namespace("core").Register(&registry.Entry{
		Name:      "envinfo",
		Type:      reflect.TypeOf(EnvInfo{}),
		New:       func() any { return EnvInfo{} },
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
	})
}
