// Package logic provides the four-state signal value used throughout the
// netlist: logical zero, logical one, don't-care, and high impedance.
// Boolean operators follow the usual don't-care propagation rules of
// four-state simulation.
package logic

import "fmt"

// State is a four-state logic value.
type State uint8

const (
	// False is logical zero.
	False State = iota
	// True is logical one.
	True
	// X is a don't-care value.
	X
	// Z is the high-impedance state.
	Z
)

// FromBool converts a boolean into a two-state logic value.
func FromBool(b bool) State {
	if b {
		return True
	}
	return False
}

// Unwrap returns the state as a bool. It panics if the state is not
// two-valued; use it only where X/Z would indicate a caller bug.
func (s State) Unwrap() bool {
	switch s {
	case True:
		return true
	case False:
		return false
	}
	panic("logic: state is not truthy")
}

// Expect is Unwrap with a caller-supplied panic message.
func (s State) Expect(msg string) bool {
	switch s {
	case True:
		return true
	case False:
		return false
	}
	panic(msg)
}

// IsDontCare reports whether the state is X.
func (s State) IsDontCare() bool {
	return s == X
}

// And computes four-state AND. False is absorbing; any other operand pair
// involving X or Z yields X.
func (s State) And(rhs State) State {
	switch {
	case s == False || rhs == False:
		return False
	case s == True && rhs == True:
		return True
	default:
		return X
	}
}

// Or computes four-state OR. True is absorbing.
func (s State) Or(rhs State) State {
	switch {
	case s == True || rhs == True:
		return True
	case s == False && rhs == False:
		return False
	default:
		return X
	}
}

// Not computes four-state negation. X and Z both invert to X.
func (s State) Not() State {
	switch s {
	case False:
		return True
	case True:
		return False
	default:
		return X
	}
}

// String renders the state as a single-bit Verilog literal.
func (s State) String() string {
	switch s {
	case False:
		return "1'b0"
	case True:
		return "1'b1"
	case X:
		return "1'bx"
	case Z:
		return "1'bz"
	}
	panic(fmt.Sprintf("logic: invalid state %d", uint8(s)))
}
