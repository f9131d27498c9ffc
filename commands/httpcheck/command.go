// Package httpcheck provides a command that probes a URL and reports the
// response status.
package httpcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"time"

	"github.com/vk/cmdbind/internal/ctxlog"
	"github.com/vk/cmdbind/internal/kind"
	"github.com/vk/cmdbind/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// httpClient is shared across executions to reuse TCP connections.
var httpClient = &http.Client{}

// HTTPCheck is the concrete command type.
type HTTPCheck struct{}

// Input defines the parameters for the httpcheck command.
type Input struct {
	URL     *url.URL      `cmd:"url"`
	Method  string        `cmd:"method"`
	Timeout time.Duration `cmd:"timeout"`
}

// Run issues the request and writes a one-line result.
func (HTTPCheck) Run(ctx context.Context, input any, out io.Writer) error {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx).With("url", in.URL.String(), "method", in.Method)
	logger.Debug("Handler started")
	defer logger.Debug("Handler finished")

	reqCtx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, in.Method, in.URL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", in.URL, err)
	}
	defer resp.Body.Close()

	fmt.Fprintf(out, "%s %s -> %s (%s)\n", in.Method, in.URL, resp.Status, time.Since(start).Round(time.Millisecond))
	return nil
}

// Register registers the command with the engine.
func (m *Module) Register(r *registry.Registry, kinds *kind.Registry) {
	r.Namespace("net").Register(&registry.Entry{
		Name:      "httpcheck",
		Type:      reflect.TypeOf(HTTPCheck{}),
		New:       func() any { return HTTPCheck{} },
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
	})
}
