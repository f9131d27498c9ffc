package config

import "github.com/vk/cmdbind/internal/shape"

// Model is the unified representation of every command descriptor known to
// the application.
type Model struct {
	Commands map[string]*CommandDefinition
}

// CommandDefinition is the descriptor attached to one command.
type CommandDefinition struct {
	Name        string
	Description string
	// Hidden marks the command as omitted from the command line. Discovery
	// filters hidden commands unless explicitly asked to include them.
	Hidden bool
	Params map[string]*ParamDefinition
}

// ParamDefinition declares a single parameter of a command.
type ParamDefinition struct {
	Name        string
	Type        shape.Descriptor
	Description string
	// Default holds raw tokens that run through the same coercion path as
	// user-supplied values when the parameter is not given. Nil means no
	// default.
	Default []string
	// Optional marks the parameter as omittable without a default.
	Optional bool
}
