package kind

import (
	"fmt"
	"reflect"

	"github.com/vk/cmdbind/internal/diag"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Kind converts a single raw token into a typed Go value.
type Kind interface {
	// Name is the identifier used in type expressions and error messages.
	Name() string

	// GoType is the native Go type Construct produces. The registry parity
	// check compares it against command input struct fields.
	GoType() reflect.Type

	// Construct builds a value from one token. Conversion failures are
	// *diag.BadValueError; declaration problems are *diag.ConfigError.
	Construct(token string) (any, error)
}

// Equaler is an optional Kind extension that overrides the equality used for
// set deduplication.
type Equaler interface {
	Equal(a, b any) bool
}

// Equal reports whether two constructed values of the given kind are the
// same, using the kind's own equality when it provides one.
func Equal(k Kind, a, b any) bool {
	if eq, ok := k.(Equaler); ok {
		return eq.Equal(a, b)
	}
	return reflect.DeepEqual(a, b)
}

// String is the identity kind: the token itself.
type String struct{}

func (String) Name() string         { return "string" }
func (String) GoType() reflect.Type { return reflect.TypeOf("") }
func (String) Construct(token string) (any, error) {
	return token, nil
}

// Number parses a token into a float64 through the cty conversion rules, so
// "0x..", exponents and big literals behave exactly like they do in config
// files.
type Number struct{}

func (Number) Name() string         { return "number" }
func (Number) GoType() reflect.Type { return reflect.TypeOf(float64(0)) }
func (Number) Construct(token string) (any, error) {
	val, err := convert.Convert(cty.StringVal(token), cty.Number)
	if err != nil {
		return nil, &diag.BadValueError{Kind: "number", Tokens: []string{token}, Cause: err}
	}
	var f float64
	if err := gocty.FromCtyValue(val, &f); err != nil {
		return nil, &diag.BadValueError{Kind: "number", Tokens: []string{token}, Cause: err}
	}
	return f, nil
}

// Bool parses a token into a bool through the cty conversion rules.
type Bool struct{}

func (Bool) Name() string         { return "bool" }
func (Bool) GoType() reflect.Type { return reflect.TypeOf(false) }
func (Bool) Construct(token string) (any, error) {
	val, err := convert.Convert(cty.StringVal(token), cty.Bool)
	if err != nil {
		return nil, &diag.BadValueError{Kind: "bool", Tokens: []string{token}, Cause: err}
	}
	var b bool
	if err := gocty.FromCtyValue(val, &b); err != nil {
		return nil, &diag.BadValueError{Kind: "bool", Tokens: []string{token}, Cause: err}
	}
	return b, nil
}

// Path treats the token as a filesystem path string. No existence or
// readability check happens here; that is the caller's concern.
type Path struct{}

func (Path) Name() string         { return "path" }
func (Path) GoType() reflect.Type { return reflect.TypeOf("") }
func (Path) Construct(token string) (any, error) {
	return token, nil
}

// Any passes the raw token through unchanged, for parameters declared with
// the fully generic type.
type Any struct{}

func (Any) Name() string         { return "any" }
func (Any) GoType() reflect.Type { return reflect.TypeOf((*any)(nil)).Elem() }
func (Any) Construct(token string) (any, error) {
	return token, nil
}

// Enum matches a token against a closed, ordered set of constant names.
type Enum struct {
	name      string
	constants []string
}

// NewEnum builds an enumeration kind. The constant order is preserved in
// error messages.
func NewEnum(name string, constants ...string) *Enum {
	return &Enum{name: name, constants: constants}
}

func (e *Enum) Name() string         { return e.name }
func (e *Enum) GoType() reflect.Type { return reflect.TypeOf("") }

// Constants returns the legal names in declaration order.
func (e *Enum) Constants() []string {
	return append([]string(nil), e.constants...)
}

// Construct requires an exact, case-sensitive match. A miss reports every
// legal name so the user can correct the input without reading the manifest.
func (e *Enum) Construct(token string) (any, error) {
	for _, c := range e.constants {
		if c == token {
			return c, nil
		}
	}
	return nil, &diag.BadValueError{
		Kind:    e.name,
		Tokens:  []string{token},
		Allowed: e.Constants(),
	}
}

// FromString adapts any single-argument string constructor into a Kind.
type FromString struct {
	name   string
	goType reflect.Type
	fn     func(string) (any, error)
}

// NewFromString registers a constructor for an arbitrary Go type. The sample
// value only supplies the Go type; it is never used as a default.
func NewFromString(name string, sample any, fn func(string) (any, error)) *FromString {
	return &FromString{name: name, goType: reflect.TypeOf(sample), fn: fn}
}

func (f *FromString) Name() string         { return f.name }
func (f *FromString) GoType() reflect.Type { return f.goType }

// Construct invokes the registered constructor. A nil constructor means the
// declared type is not actually constructible, which is a declaration bug,
// not bad input.
func (f *FromString) Construct(token string) (any, error) {
	if f.fn == nil {
		return nil, &diag.ConfigError{
			Subject: f.name,
			Reason:  "no string constructor registered for this type",
		}
	}
	v, err := f.fn(token)
	if err != nil {
		return nil, &diag.BadValueError{Kind: f.name, Tokens: []string{token}, Cause: err}
	}
	return v, nil
}

// Registry holds the kinds available to a single application instance.
type Registry struct {
	kinds map[string]Kind
}

// NewRegistry creates an empty kind registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]Kind)}
}

// Register adds a kind. Registering the same name twice is a programming
// error and panics, mirroring handler registration.
func (r *Registry) Register(k Kind) {
	if _, exists := r.kinds[k.Name()]; exists {
		panic(fmt.Sprintf("kind with name '%s' already registered", k.Name()))
	}
	r.kinds[k.Name()] = k
}

// Lookup returns the kind registered under name.
func (r *Registry) Lookup(name string) (Kind, bool) {
	k, ok := r.kinds[name]
	return k, ok
}
