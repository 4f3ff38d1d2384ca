// Package circuit holds the naming and signal primitives shared by cell
// implementations and the netlist container: escaped identifiers and
// single-bit port descriptors.
package circuit

import (
	"fmt"
	"strings"
)

// escapeMarker prefixes identifiers that cannot be written bare in the
// emitted hardware description.
const escapeMarker = '\\'

// Identifier is an immutable signal or instance name. Names that contain
// characters outside the bare-identifier set, or that begin with a digit,
// must be escaped when rendered.
type Identifier struct {
	name string
}

// NewID wraps a raw name. The name may already carry the escape marker.
func NewID(name string) Identifier {
	return Identifier{name: name}
}

// FormatID builds an identifier from a format string, like fmt.Sprintf.
func FormatID(format string, args ...any) Identifier {
	return NewID(fmt.Sprintf(format, args...))
}

// Name returns the raw name, including the escape marker if present.
func (id Identifier) Name() string {
	return id.name
}

func (id Identifier) String() string {
	return id.name
}

// IsEscaped reports whether the name cannot be written as a bare
// identifier: it is empty, begins with a digit, or contains a character
// outside [A-Za-z0-9_].
func (id Identifier) IsEscaped() bool {
	if id.name == "" {
		return true
	}
	if id.name[0] >= '0' && id.name[0] <= '9' {
		return true
	}
	for i := 0; i < len(id.name); i++ {
		if !bareChar(id.name[i]) {
			return true
		}
	}
	return false
}

// Concat joins two identifiers with an underscore. Bracketed indices in
// either operand are flattened (id[1] becomes id_1) and the result carries
// the escape marker if either operand needed escaping.
func (id Identifier) Concat(other Identifier) Identifier {
	escaped := id.IsEscaped() || other.IsEscaped()
	joined := flatten(bare(id.name)) + "_" + flatten(bare(other.name))
	if escaped {
		return Identifier{name: string(escapeMarker) + joined}
	}
	return Identifier{name: joined}
}

// Verilog renders the identifier for emission. Escaped names get the
// escape marker prefix and the trailing space the format requires.
func (id Identifier) Verilog() string {
	if !id.IsEscaped() {
		return id.name
	}
	return string(escapeMarker) + bare(id.name) + " "
}

// bare strips a leading escape marker.
func bare(name string) string {
	return strings.TrimPrefix(name, string(escapeMarker))
}

// flatten rewrites bracket-delimited indices: name[3] -> name_3.
func flatten(name string) string {
	name = strings.ReplaceAll(name, "[", "_")
	return strings.ReplaceAll(name, "]", "")
}

func bareChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '_':
		return true
	}
	return false
}
