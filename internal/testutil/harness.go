// Package testutil provides the shared harness for integration tests: a
// thread-safe output buffer, a standard way to materialize manifest trees,
// and helpers for registering throwaway commands.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/cmdbind/internal/app"
	"github.com/vk/cmdbind/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output string
	Err    error
	App    *app.App
}

// RunCommandTest builds an application from the given manifest files and
// modules, dispatches one command, and captures output and errors. Startup
// panics (declaration bugs) surface as Err rather than failing the test, so
// tests can assert on them.
func RunCommandTest(t *testing.T, files map[string]string, modules []registry.Module, command string, args []string, opts ...func(*app.Config)) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	cfg, err := app.NewConfig(app.Config{
		ManifestPath: tmpDir,
		LogFormat:    "text",
		LogLevel:     "error",
	})
	require.NoError(t, err)
	for _, opt := range opts {
		opt(cfg)
	}

	out := &SafeBuffer{}
	result := &HarnessResult{}

	func() {
		defer func() {
			if r := recover(); r != nil {
				result.Err = fmt.Errorf("application startup panicked: %v", r)
			}
		}()
		a := app.New(out, cfg, modules...)
		result.App = a
		result.Err = a.Run(context.Background(), command, args)
	}()

	result.Output = out.String()
	return result
}

// IncludeHidden is a harness option enabling hidden commands for the run.
func IncludeHidden(cfg *app.Config) {
	cfg.IncludeHidden = true
}
