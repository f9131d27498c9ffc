// Package socketio provides a command that connects to a Socket.IO server,
// optionally emits an event, and waits for a response event.
package socketio

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/vk/cmdbind/internal/ctxlog"
	"github.com/vk/cmdbind/internal/kind"
	"github.com/vk/cmdbind/internal/registry"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// SocketIO is the concrete command type.
type SocketIO struct{}

// Input defines the parameters for the socketio command.
type Input struct {
	URL       *url.URL      `cmd:"url"`
	Namespace string        `cmd:"namespace"`
	OnEvent   string        `cmd:"on_event"`
	EmitEvent *string       `cmd:"emit_event"`
	Data      *string       `cmd:"data"`
	Timeout   time.Duration `cmd:"timeout"`
	Insecure  bool          `cmd:"insecure"`
}

// opResult is a private struct to safely pass results through the done channel.
type opResult struct {
	value any
	err   error
}

// Run connects, optionally emits, and waits for the configured event or the
// timeout, whichever comes first.
func (SocketIO) Run(ctx context.Context, input any, out io.Writer) error {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx).With("command", "socketio", "url", in.URL.String(), "onEvent", in.OnEvent)
	logger.Debug("Handler started")
	defer logger.Debug("Handler finished")

	var isConnected atomic.Bool

	done := make(chan opResult, 1)
	opCtx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	baseURL := fmt.Sprintf("%s://%s", in.URL.Scheme, in.URL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(in.URL.Path)

	if in.Insecure {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(in.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		isConnected.Store(true)
		logger.Info("Successfully connected", "namespace", in.Namespace, "sid", io.Id())
		if in.EmitEvent != nil {
			var payload any
			if in.Data != nil {
				// Emit structured data when it parses as JSON, the raw
				// string otherwise.
				if err := json.Unmarshal([]byte(*in.Data), &payload); err != nil {
					payload = *in.Data
				}
			}
			logger.Info("Emitting event", "event", *in.EmitEvent)
			io.Emit(*in.EmitEvent, payload)
		}
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		done <- opResult{err: errs[0].(error)}
	})

	io.On(types.EventName(in.OnEvent), func(data ...any) {
		var responseData any
		if len(data) > 0 {
			responseData = data[0]
		}
		done <- opResult{value: responseData}
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		if isConnected.Load() {
			return fmt.Errorf("timed out after connecting while waiting for event '%s'", in.OnEvent)
		}
		return fmt.Errorf("timed out while waiting for initial connection")
	case res := <-done:
		if res.err != nil {
			return res.err
		}
		encoded, err := json.Marshal(res.value)
		if err != nil {
			return fmt.Errorf("failed to encode response data: %w", err)
		}
		fmt.Fprintf(out, "%s\n", encoded)
		return nil
	}
}

// Register registers the command with the engine.
func (m *Module) Register(r *registry.Registry, kinds *kind.Registry) {
	r.Namespace("net").Register(&registry.Entry{
		Name:      "socketio",
		Type:      reflect.TypeOf(SocketIO{}),
		New:       func() any { return SocketIO{} },
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
	})
}
