// Package attribute models cell configuration values and instance
// metadata. A Parameter is a closed union of the value kinds a cell may
// declare (bit-vector, four-state scalar, integer); an Attr is a flag or
// key/value annotation attached to an instance for emission.
package attribute

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/logic"
	"github.com/bits-and-blooms/bitset"
)

// Kind discriminates the parameter union.
type Kind uint8

const (
	// KindBits is a sized bit-vector value.
	KindBits Kind = iota
	// KindLogic is a single four-state value.
	KindLogic
	// KindInteger is a signed integer value.
	KindInteger
)

func (k Kind) String() string {
	switch k {
	case KindBits:
		return "bits"
	case KindLogic:
		return "logic"
	case KindInteger:
		return "integer"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Parameter is a typed cell configuration value.
type Parameter struct {
	kind  Kind
	bits  *bitset.BitSet
	width uint
	state logic.State
	n     int64
}

// Bits wraps a bit-vector of the given width. The set is copied so later
// mutation of b does not alias the parameter.
func Bits(b *bitset.BitSet, width uint) Parameter {
	return Parameter{kind: KindBits, bits: b.Clone(), width: width}
}

// BitsFromUint builds a bit-vector parameter from the low width bits of v.
func BitsFromUint(v uint64, width uint) Parameter {
	b := bitset.New(width)
	for i := uint(0); i < width && i < 64; i++ {
		if v>>i&1 == 1 {
			b.Set(i)
		}
	}
	return Parameter{kind: KindBits, bits: b, width: width}
}

// Logic wraps a four-state scalar.
func Logic(s logic.State) Parameter {
	return Parameter{kind: KindLogic, state: s}
}

// Integer wraps a signed integer.
func Integer(n int64) Parameter {
	return Parameter{kind: KindInteger, n: n}
}

// Kind returns the active kind of the union.
func (p Parameter) Kind() Kind {
	return p.kind
}

// AsBits returns the bit-vector payload. The second result is false when
// the parameter holds another kind.
func (p Parameter) AsBits() (*bitset.BitSet, uint, bool) {
	if p.kind != KindBits {
		return nil, 0, false
	}
	return p.bits.Clone(), p.width, true
}

// AsLogic returns the four-state payload.
func (p Parameter) AsLogic() (logic.State, bool) {
	if p.kind != KindLogic {
		return logic.X, false
	}
	return p.state, true
}

// AsInteger returns the integer payload.
func (p Parameter) AsInteger() (int64, bool) {
	if p.kind != KindInteger {
		return 0, false
	}
	return p.n, true
}

// Equal compares two parameters by kind and value.
func (p Parameter) Equal(q Parameter) bool {
	if p.kind != q.kind {
		return false
	}
	switch p.kind {
	case KindBits:
		return p.width == q.width && p.bits.Equal(q.bits)
	case KindLogic:
		return p.state == q.state
	default:
		return p.n == q.n
	}
}

// String renders the parameter as it appears in emitted text: bit-vectors
// as sized hex constants, scalars as four-state literals, integers bare.
func (p Parameter) String() string {
	switch p.kind {
	case KindBits:
		return p.hex()
	case KindLogic:
		return p.state.String()
	default:
		return fmt.Sprintf("%d", p.n)
	}
}

func (p Parameter) hex() string {
	nibbles := (p.width + 3) / 4
	if nibbles == 0 {
		nibbles = 1
	}
	var sb strings.Builder
	for i := int(nibbles) - 1; i >= 0; i-- {
		var v uint
		for b := 0; b < 4; b++ {
			bit := uint(i*4 + b)
			if bit < p.width && p.bits.Test(bit) {
				v |= 1 << uint(b)
			}
		}
		fmt.Fprintf(&sb, "%x", v)
	}
	return fmt.Sprintf("%d'h%s", p.width, sb.String())
}

// Parse decodes a sized constant literal into a bit-vector parameter.
// Literals containing x or z bits are rejected; those are scalar-only.
func Parse(s string) (Parameter, error) {
	lit, err := logic.ParseLiteral(s)
	if err != nil {
		return Parameter{}, err
	}
	b := bitset.New(uint(lit.Width))
	for i, st := range lit.States {
		switch st {
		case logic.True:
			b.Set(uint(i))
		case logic.False:
		default:
			return Parameter{}, fmt.Errorf("attribute: literal %q has non-boolean bit %d", s, i)
		}
	}
	return Parameter{kind: KindBits, bits: b, width: uint(lit.Width)}, nil
}

// Attr is an instance annotation. Flags render as (* name *); key/value
// pairs render as (* key = "value" *). Attributes never affect structural
// validity, only emission.
type Attr struct {
	key   string
	value string
	flag  bool
}

// Flag creates a presence-only attribute.
func Flag(name string) Attr {
	return Attr{key: name, flag: true}
}

// KeyValue creates a key/value attribute.
func KeyValue(key, value string) Attr {
	return Attr{key: key, value: value}
}

// Key returns the attribute name.
func (a Attr) Key() string {
	return a.key
}

// IsFlag reports whether the attribute is presence-only.
func (a Attr) IsFlag() bool {
	return a.flag
}

// Value returns the attribute value ("" for flags).
func (a Attr) Value() string {
	return a.value
}

// Comment renders the attribute as an emission comment line.
func (a Attr) Comment() string {
	if a.flag {
		return fmt.Sprintf("(* %s *)", a.key)
	}
	return fmt.Sprintf("(* %s = %q *)", a.key, a.value)
}
