// Package schema holds the HCL-facing structs that manifest files decode
// into before translation to the format-agnostic config model.
package schema

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// ParamDefinition declares a single command parameter in a manifest.
type ParamDefinition struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
	Default     *cty.Value     `hcl:"default,optional"`
	Optional    bool           `hcl:"optional,optional"`
}

// CommandDefinition represents the HCL manifest for one command.
type CommandDefinition struct {
	Name        string             `hcl:"name,label"`
	Description string             `hcl:"description,optional"`
	Hidden      bool               `hcl:"hidden,optional"`
	Params      []*ParamDefinition `hcl:"param,block"`
}

// ManifestConfig represents the top-level structure of a manifest file.
type ManifestConfig struct {
	Commands []*CommandDefinition `hcl:"command,block"`
	Body     hcl.Body             `hcl:",remain"`
}
