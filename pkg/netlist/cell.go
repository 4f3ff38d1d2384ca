// Package netlist implements the owning container for digital-circuit
// netlists: typed cell instances wired to named nets, with structural
// mutation (rewiring, dead-instance removal), validation, dependency
// analysis, and Verilog emission.
package netlist

import (
	"iter"

	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/attribute"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/logic"
)

// Cell is the capability contract a logic-cell payload must satisfy to be
// instantiated in a netlist. Implementations are interchangeable; the
// container never depends on a concrete cell type.
//
// The parameter methods must agree with each other: SetParameter on an id
// for which HasParameter is false must be a no-op reporting absence, and
// SetParameter with a value of the wrong kind for a declared id is a
// caller bug and must panic.
type Cell interface {
	// Name is the cell type name as it appears in emitted text.
	Name() circuit.Identifier
	// InputPorts lists the declared input ports in positional order.
	InputPorts() []circuit.Net
	// OutputPorts lists the declared output ports in positional order.
	OutputPorts() []circuit.Net
	// HasParameter reports whether the cell declares the parameter.
	HasParameter(id circuit.Identifier) bool
	// Parameter returns the current value of a declared parameter.
	Parameter(id circuit.Identifier) (attribute.Parameter, bool)
	// SetParameter updates a declared parameter and returns the previous
	// value. The second result is false (and nothing changes) when the
	// parameter does not exist.
	SetParameter(id circuit.Identifier, val attribute.Parameter) (attribute.Parameter, bool)
	// Parameters enumerates all declared parameters with their values.
	Parameters() iter.Seq2[circuit.Identifier, attribute.Parameter]
	// Constant reports the fixed value this cell drives, if the cell is a
	// constant driver (by its reserved name convention).
	Constant() (logic.State, bool)
	// IsSeq reports whether the cell holds state across evaluation steps.
	IsSeq() bool
}

// ConstantFactory builds a cell representing a fixed boolean drive. It
// reports false for values the family cannot represent as a constant
// (don't-care and high impedance, or families without constant cells).
type ConstantFactory[C Cell] func(val logic.State) (C, bool)
