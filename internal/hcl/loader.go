package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/cmdbind/internal/config"
	"github.com/vk/cmdbind/internal/ctxlog"
	"github.com/vk/cmdbind/internal/diag"
	"github.com/vk/cmdbind/internal/fsutil"
	"github.com/vk/cmdbind/internal/kind"
	"github.com/vk/cmdbind/internal/schema"
)

// Loader parses manifest files into the config model. Type expressions are
// resolved against the kind registry supplied at construction, so custom
// kinds must be registered before loading.
type Loader struct {
	kinds *kind.Registry
}

// NewLoader creates a manifest loader backed by the given kind registry.
func NewLoader(kinds *kind.Registry) *Loader {
	return &Loader{kinds: kinds}
}

// Load reads every manifest under the given paths (files, or directories
// searched recursively for .hcl files) and returns the merged model. Two
// manifests claiming the same command name is a declaration bug.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read manifest path %s: %w", path, err)
		}
		if info.IsDir() {
			found, err := fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, fmt.Errorf("failed to walk manifest directory %s: %w", path, err)
			}
			files = append(files, found...)
		} else {
			files = append(files, path)
		}
	}

	if len(files) == 0 {
		logger.Warn("No manifest files found.", "paths", paths)
	} else {
		logger.Debug("Found manifest files to load.", "files", files)
	}

	model := &config.Model{Commands: make(map[string]*config.CommandDefinition)}
	parser := hclparse.NewParser()

	for _, filePath := range files {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", filePath, diags)
		}

		var manifest schema.ManifestConfig
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &manifest); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode manifest %s: %w", filePath, diags)
		}

		for _, cmd := range manifest.Commands {
			if _, exists := model.Commands[cmd.Name]; exists {
				return nil, &diag.ConfigError{
					Subject: cmd.Name,
					Reason:  fmt.Sprintf("command declared more than once (again in %s)", filePath),
				}
			}
			translated, err := l.translateCommand(ctx, cmd)
			if err != nil {
				return nil, fmt.Errorf("in manifest %s: %w", filePath, err)
			}
			model.Commands[cmd.Name] = translated
		}
		logger.Debug("Loaded manifest file.", "file", filePath)
	}

	logger.Info("Manifests loaded.", "commands", len(model.Commands))
	return model, nil
}
