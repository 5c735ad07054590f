package core

import "strings"

// ResourceOps is a bitmask representing which CRUD operations the document declares
// for a resource (Create, List, Read, Update, Delete).
type ResourceOps int

const (
	C ResourceOps = 1 << iota // POST /<resource>
	L                         // GET /<resource>
	R                         // GET /<resource>/<id>
	U                         // PATCH or PUT /<resource>/<id>
	D                         // DELETE /<resource>/<id>
)

// NewResourceOps creates a new bitmask from the provided flags.
// Example: NewResourceOps(R, U) -> Read+Update.
func NewResourceOps(flags ...ResourceOps) ResourceOps {
	var f ResourceOps
	for _, fl := range flags {
		f |= fl
	}
	return f
}

// Has reports whether all given flags are present in the bitmask.
func (ops ResourceOps) Has(flag ResourceOps) bool {
	return ops&flag == flag
}

// Set returns a new bitmask with the given flag(s) enabled.
func (ops ResourceOps) Set(flag ResourceOps) ResourceOps {
	return ops | flag
}

// String returns a compact string representation of the active flags.
// Example: "CLRU", "LR", "CD", or "-" if no flags are set.
func (ops ResourceOps) String() string {
	if ops == ResourceOps(0) {
		return "-"
	}
	var b strings.Builder
	for _, flag := range []struct {
		bit  ResourceOps
		char byte
	}{{C, 'C'}, {L, 'L'}, {R, 'R'}, {U, 'U'}, {D, 'D'}} {
		if ops&flag.bit != 0 {
			b.WriteByte(flag.char)
		}
	}
	return b.String()
}
