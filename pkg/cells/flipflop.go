package cells

import (
	"encoding/json"
	"fmt"
	"iter"

	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/attribute"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/logic"
)

// FlipFlop is a D flip-flop cell. Supported types follow the FPGA
// primitive naming convention: FDRE (sync reset), FDSE (sync set), FDPE
// (async preset), FDCE (async clear). The reset-style port is named after
// the type.
type FlipFlop struct {
	id    circuit.Identifier
	init  logic.State
	q     circuit.Net
	c     circuit.Net
	ce    circuit.Net
	reset circuit.Net
	d     circuit.Net
}

// NewFlipFlop creates a flip-flop of the given type with the given
// initial state. An unsupported type name is a caller bug.
func NewFlipFlop(id circuit.Identifier, init logic.State) *FlipFlop {
	var resetPort string
	switch id.Name() {
	case "FDRE":
		resetPort = "R"
	case "FDSE":
		resetPort = "S"
	case "FDPE":
		resetPort = "PRE"
	case "FDCE":
		resetPort = "CLR"
	default:
		panic(fmt.Sprintf("cells: unsupported flip-flop type %s", id))
	}
	return &FlipFlop{
		id:    id,
		init:  init,
		q:     circuit.NewLogic(circuit.NewID("Q")),
		c:     circuit.NewLogic(circuit.NewID("C")),
		ce:    circuit.NewLogic(circuit.NewID("CE")),
		reset: circuit.NewLogic(circuit.NewID(resetPort)),
		d:     circuit.NewLogic(circuit.NewID("D")),
	}
}

// Name returns the flip-flop type name.
func (f *FlipFlop) Name() circuit.Identifier { return f.id }

// InputPorts lists clock, clock enable, reset, and data, in that order.
func (f *FlipFlop) InputPorts() []circuit.Net {
	return []circuit.Net{f.c, f.ce, f.reset, f.d}
}

// OutputPorts lists the single output Q.
func (f *FlipFlop) OutputPorts() []circuit.Net { return []circuit.Net{f.q} }

// HasParameter reports true only for INIT.
func (f *FlipFlop) HasParameter(id circuit.Identifier) bool { return id == initID }

// Parameter returns the initial state for INIT.
func (f *FlipFlop) Parameter(id circuit.Identifier) (attribute.Parameter, bool) {
	if id != initID {
		return attribute.Parameter{}, false
	}
	return attribute.Logic(f.init), true
}

// SetParameter replaces the initial state. A non-logic value for INIT is
// a caller bug.
func (f *FlipFlop) SetParameter(id circuit.Identifier, val attribute.Parameter) (attribute.Parameter, bool) {
	if id != initID {
		return attribute.Parameter{}, false
	}
	old := attribute.Logic(f.init)
	s, ok := val.AsLogic()
	if !ok {
		panic(fmt.Sprintf("cells: invalid parameter kind %s for INIT", val.Kind()))
	}
	f.init = s
	return old, true
}

// Parameters yields the single INIT parameter.
func (f *FlipFlop) Parameters() iter.Seq2[circuit.Identifier, attribute.Parameter] {
	return func(yield func(circuit.Identifier, attribute.Parameter) bool) {
		yield(initID, attribute.Logic(f.init))
	}
}

// Constant reports false; flip-flops never represent constants.
func (f *FlipFlop) Constant() (logic.State, bool) { return logic.X, false }

// IsSeq reports true; a flip-flop holds state.
func (f *FlipFlop) IsSeq() bool { return true }

type flipFlopJSON struct {
	Type string `json:"type"`
	Init string `json:"init"`
}

// MarshalJSON encodes the flip-flop for snapshots.
func (f *FlipFlop) MarshalJSON() ([]byte, error) {
	return json.Marshal(flipFlopJSON{Type: f.id.Name(), Init: f.init.String()})
}

// UnmarshalJSON decodes a snapshot flip-flop.
func (f *FlipFlop) UnmarshalJSON(data []byte) error {
	var j flipFlopJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	init, err := logic.Parse(j.Init)
	if err != nil {
		return err
	}
	*f = *NewFlipFlop(circuit.NewID(j.Type), init)
	return nil
}
