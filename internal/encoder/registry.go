package encoder

import (
	"fmt"
	"strings"
)

// Registry holds the JPEG backends compiled into the binary, in preference
// order. It is immutable after NewRegistry.
type Registry struct {
	encoders map[string]Encoder
	order    []string
}

// NewRegistry creates a registry with every compiled-in backend. Backends
// that optimise Huffman tables come first.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}

	for _, enc := range []Encoder{libJPEG(), &StdJPEG{}} {
		if enc == nil {
			continue
		}
		r.encoders[enc.Name()] = enc
		r.order = append(r.order, enc.Name())
	}

	return r
}

// Get returns the backend with the given name, or nil if it was not compiled in.
func (r *Registry) Get(name string) Encoder {
	return r.encoders[strings.ToLower(name)]
}

// Default returns the most preferred backend.
func (r *Registry) Default() Encoder {
	return r.encoders[r.order[0]]
}

// Available returns backend names in preference order.
func (r *Registry) Available() []string {
	return append([]string(nil), r.order...)
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	return fmt.Sprintf("encoders: %s", strings.Join(r.order, ", "))
}
