package app

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/vk/cmdbind/internal/binder"
	"github.com/vk/cmdbind/internal/ctxlog"
	"github.com/vk/cmdbind/internal/discovery"
	"github.com/vk/cmdbind/internal/registry"
)

// Run dispatches one command invocation: discover the eligible commands,
// find the requested one by name, bind its arguments, and execute it.
func (a *App) Run(ctx context.Context, command string, args []string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", command)

	discovered, err := discovery.Discover(ctx, a.registry, coreNamespaces, registry.CommandType, discovery.Options{
		IncludeHidden: a.config.IncludeHidden,
	})
	if err != nil {
		return fmt.Errorf("command discovery failed: %w", err)
	}

	var entry *registry.Entry
	for _, e := range discovered {
		if e.Descriptor.Name == command {
			entry = e
			break
		}
	}
	if entry == nil {
		return fmt.Errorf("unknown command %q (available: %s)", command, availableNames(discovered))
	}

	var input any
	if entry.NewInput != nil {
		input = entry.NewInput()
		if err := binder.Bind(ctx, entry.Descriptor, input, args); err != nil {
			return err
		}
	} else if len(args) > 0 {
		return fmt.Errorf("command %q takes no parameters", command)
	}

	cmd, ok := entry.New().(registry.Command)
	if !ok {
		return fmt.Errorf("command %q does not implement the command capability", command)
	}

	a.logger.Info("Running command.", "command", command)
	if err := cmd.Run(ctx, input, a.outW); err != nil {
		return fmt.Errorf("command %q failed: %w", command, err)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

func availableNames(discovered map[reflect.Type]*registry.Entry) string {
	names := make([]string, 0, len(discovered))
	for _, e := range discovered {
		names = append(names, e.Descriptor.Name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
