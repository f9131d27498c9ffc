package app

import (
	"fmt"
	"net/url"
	"time"

	"github.com/vk/cmdbind/internal/kind"
)

// registerCoreKinds wires the string-constructible kinds every core command
// may declare. Primitive kinds (string, number, bool, path, any) are part of
// the type-expression grammar itself and need no registration.
func registerCoreKinds(kinds *kind.Registry) {
	kinds.Register(kind.NewFromString("duration", time.Duration(0), func(s string) (any, error) {
		return time.ParseDuration(s)
	}))
	kinds.Register(kind.NewFromString("url", (*url.URL)(nil), func(s string) (any, error) {
		u, err := url.Parse(s)
		if err != nil {
			return nil, err
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("url %q must be absolute", s)
		}
		return u, nil
	}))
}
