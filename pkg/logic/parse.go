package logic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// constantLexer tokenizes Verilog-style sized constants. The base letter
// and the digits form a single token so that hex digits cannot be
// mistaken for a base.
var constantLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Width", Pattern: `\d+`},
	{Name: "Tick", Pattern: `'`},
	{Name: "Spec", Pattern: `[bBhHdD][0-9a-fA-FxXzZ_]*`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// constantLit is the grammar for a sized constant: <width>'<base><digits>.
type constantLit struct {
	Width string `parser:"@Width"`
	Spec  string `parser:"Tick @Spec"`
}

var constantParser = participle.MustBuild[constantLit](
	participle.Lexer(constantLexer),
	participle.Elide("Whitespace"),
)

// Literal is a decoded sized constant. States holds one value per bit,
// least significant bit first, padded or truncated to Width.
type Literal struct {
	Width  int
	States []State
}

// ParseLiteral decodes a Verilog constant literal such as 1'b0, 1'hx,
// 8'b1010_1010, or 16'hBEEF. Binary and hex digits may include x and z;
// decimal constants must be fully two-valued.
func ParseLiteral(s string) (Literal, error) {
	lit, err := constantParser.ParseString("", s)
	if err != nil {
		return Literal{}, fmt.Errorf("logic: malformed constant %q: %w", s, err)
	}
	width, err := strconv.Atoi(lit.Width)
	if err != nil || width <= 0 {
		return Literal{}, fmt.Errorf("logic: bad constant width %q", lit.Width)
	}
	base := lit.Spec[0]
	digits := strings.ReplaceAll(lit.Spec[1:], "_", "")
	if digits == "" {
		return Literal{}, fmt.Errorf("logic: constant %q has no digits", s)
	}

	var states []State // LSB first
	switch base {
	case 'b', 'B':
		for i := len(digits) - 1; i >= 0; i-- {
			st, ok := bitState(digits[i])
			if !ok {
				return Literal{}, fmt.Errorf("logic: bad binary digit %q in %q", digits[i], s)
			}
			states = append(states, st)
		}
	case 'h', 'H':
		for i := len(digits) - 1; i >= 0; i-- {
			nib, err := nibbleStates(digits[i])
			if err != nil {
				return Literal{}, fmt.Errorf("logic: %v in %q", err, s)
			}
			states = append(states, nib...)
		}
	case 'd', 'D':
		v, err := strconv.ParseUint(digits, 10, 64)
		if err != nil {
			return Literal{}, fmt.Errorf("logic: bad decimal constant %q", s)
		}
		for i := 0; i < width; i++ {
			states = append(states, FromBool(v>>uint(i)&1 == 1))
		}
	default:
		return Literal{}, fmt.Errorf("logic: unknown base %q in %q", base, s)
	}

	// Size to the declared width: zero-extend or drop high bits.
	for len(states) < width {
		states = append(states, False)
	}
	return Literal{Width: width, States: states[:width]}, nil
}

// Parse decodes a single-bit four-state literal (1'b0, 1'b1, 1'bx, 1'bz,
// or the 1'h spellings).
func Parse(s string) (State, error) {
	lit, err := ParseLiteral(s)
	if err != nil {
		return X, err
	}
	if lit.Width != 1 {
		return X, fmt.Errorf("logic: expected single-bit literal, got %q", s)
	}
	return lit.States[0], nil
}

func bitState(c byte) (State, bool) {
	switch c {
	case '0':
		return False, true
	case '1':
		return True, true
	case 'x', 'X':
		return X, true
	case 'z', 'Z':
		return Z, true
	}
	return X, false
}

func nibbleStates(c byte) ([]State, error) {
	switch {
	case c == 'x' || c == 'X':
		return []State{X, X, X, X}, nil
	case c == 'z' || c == 'Z':
		return []State{Z, Z, Z, Z}, nil
	}
	v, err := strconv.ParseUint(string(c), 16, 8)
	if err != nil {
		return nil, fmt.Errorf("bad hex digit %q", c)
	}
	out := make([]State, 4)
	for i := range out {
		out[i] = FromBool(v>>uint(i)&1 == 1)
	}
	return out, nil
}
