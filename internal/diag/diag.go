package diag

import (
	"fmt"
	"sort"
	"strings"
)

// UsageError reports a wrong token count for a scalar or optional parameter.
type UsageError struct {
	Param    string
	Expected int
	Got      int
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	return fmt.Sprintf("parameter %q: expected %d value(s), got %d", e.Param, e.Expected, e.Got)
}

// BadValueError reports a token that could not be converted to the requested
// leaf kind. For enumerations, Allowed carries every legal constant name so
// the user can discover the valid inputs from the message alone.
type BadValueError struct {
	Kind    string
	Tokens  []string
	Allowed []string
	Cause   error
}

// Error implements the error interface.
func (e *BadValueError) Error() string {
	msg := fmt.Sprintf("invalid value %q for type %q", strings.Join(e.Tokens, ", "), e.Kind)
	if len(e.Allowed) > 0 {
		msg += fmt.Sprintf(" (allowed values: %s)", strings.Join(e.Allowed, ", "))
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap exposes the underlying constructor failure, if any.
func (e *BadValueError) Unwrap() error { return e.Cause }

// ConfigError reports an unsupported or inconsistent declaration: an unknown
// collection kind, a leaf type with no registered constructor, a discovered
// command without a descriptor. It names the offending subject so the
// command author can fix the declaration.
type ConfigError struct {
	Subject string
	Reason  string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid declaration for %q: %s", e.Subject, e.Reason)
}

// CollisionError reports two or more discovered commands sharing a simple
// name. Groups maps each colliding simple name to the fully-qualified names
// of every command involved.
type CollisionError struct {
	Groups map[string][]string
}

// Error implements the error interface. Output is sorted so the message is
// stable across runs.
func (e *CollisionError) Error() string {
	names := make([]string, 0, len(e.Groups))
	for name := range e.Groups {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("duplicate command name(s):")
	for _, name := range names {
		members := append([]string(nil), e.Groups[name]...)
		sort.Strings(members)
		fmt.Fprintf(&b, "\n- %q claimed by: %s", name, strings.Join(members, ", "))
	}
	return b.String()
}
