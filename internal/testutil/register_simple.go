package testutil

import (
	"context"
	"fmt"
	"io"
	"reflect"

	"github.com/vk/cmdbind/internal/kind"
	"github.com/vk/cmdbind/internal/registry"
)

// SimpleModule registers a single pre-built entry, and optionally custom
// kinds, into one namespace.
type SimpleModule struct {
	Namespace string
	Entry     *registry.Entry
	Kinds     []kind.Kind
}

// Register implements registry.Module.
func (m *SimpleModule) Register(r *registry.Registry, kinds *kind.Registry) {
	for _, k := range m.Kinds {
		kinds.Register(k)
	}
	ns := m.Namespace
	if ns == "" {
		ns = "core"
	}
	r.Namespace(ns).Register(m.Entry)
}

// RecorderModule registers a command that records the bound input it
// received and writes a marker line, so tests can assert on both.
type RecorderModule struct {
	Namespace string
	Name      string
	NewInput  func() any
	InputType reflect.Type

	// Captured is set to the bound input struct after the command runs.
	Captured any
}

// recorderCmd implements the command capability, capturing into the
// enclosing module.
type recorderCmd struct {
	module *RecorderModule
}

func (c recorderCmd) Run(ctx context.Context, input any, out io.Writer) error {
	c.module.Captured = input
	fmt.Fprintf(out, "recorder %s ran\n", c.module.Name)
	return nil
}

// Register implements registry.Module.
func (m *RecorderModule) Register(r *registry.Registry, kinds *kind.Registry) {
	ns := m.Namespace
	if ns == "" {
		ns = "core"
	}
	r.Namespace(ns).Register(&registry.Entry{
		Name:      m.Name,
		Type:      reflect.TypeOf(recorderCmd{}),
		New:       func() any { return recorderCmd{module: m} },
		NewInput:  m.NewInput,
		InputType: m.InputType,
	})
}
