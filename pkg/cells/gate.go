// Package cells provides example cell families for the netlist engine:
// an arbitrary-arity combinational gate, a lookup-table cell, a flip-flop,
// and a closed union over the three with generated dispatch.
package cells

import (
	"encoding/json"
	"iter"

	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/attribute"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/logic"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/netlist"
)

// Reserved constant-driver cell names.
var (
	vddID = circuit.NewID("VDD")
	gndID = circuit.NewID("GND")
)

// Gate is an arbitrary-arity combinational logic cell with named ports
// and no parameters.
type Gate struct {
	name    circuit.Identifier
	inputs  []circuit.Net
	outputs []circuit.Net
}

// NewLogical creates a combinational gate with the given input port names
// and a single output port.
func NewLogical(name circuit.Identifier, inputs []circuit.Identifier, output circuit.Identifier) *Gate {
	return NewLogicalMulti(name, inputs, []circuit.Identifier{output})
}

// NewLogicalMulti creates a combinational gate with multiple output ports.
func NewLogicalMulti(name circuit.Identifier, inputs, outputs []circuit.Identifier) *Gate {
	g := &Gate{name: name}
	for _, id := range inputs {
		g.inputs = append(g.inputs, circuit.NewLogic(id))
	}
	for _, id := range outputs {
		g.outputs = append(g.outputs, circuit.NewLogic(id))
	}
	return g
}

// GateFromConstant builds the reserved constant-driver gate for a boolean
// value: VDD for true, GND for false. Four-state don't-care and
// high-impedance values have no constant cell.
func GateFromConstant(val logic.State) (*Gate, bool) {
	switch val {
	case logic.True:
		return NewLogicalMulti(vddID, nil, []circuit.Identifier{circuit.NewID("Y")}), true
	case logic.False:
		return NewLogicalMulti(gndID, nil, []circuit.Identifier{circuit.NewID("Y")}), true
	}
	return nil, false
}

// Name returns the gate's cell type name.
func (g *Gate) Name() circuit.Identifier { return g.name }

// InputPorts lists the declared input ports.
func (g *Gate) InputPorts() []circuit.Net { return g.inputs }

// OutputPorts lists the declared output ports.
func (g *Gate) OutputPorts() []circuit.Net { return g.outputs }

// HasParameter always reports false; gates declare no parameters.
func (g *Gate) HasParameter(circuit.Identifier) bool { return false }

// Parameter always reports absence.
func (g *Gate) Parameter(circuit.Identifier) (attribute.Parameter, bool) {
	return attribute.Parameter{}, false
}

// SetParameter is a no-op reporting absence.
func (g *Gate) SetParameter(circuit.Identifier, attribute.Parameter) (attribute.Parameter, bool) {
	return attribute.Parameter{}, false
}

// Parameters yields nothing.
func (g *Gate) Parameters() iter.Seq2[circuit.Identifier, attribute.Parameter] {
	return func(func(circuit.Identifier, attribute.Parameter) bool) {}
}

// Constant identifies the reserved VDD/GND gates by name.
func (g *Gate) Constant() (logic.State, bool) {
	switch g.name {
	case vddID:
		return logic.True, true
	case gndID:
		return logic.False, true
	}
	return logic.X, false
}

// IsSeq reports false; gates are purely combinational.
func (g *Gate) IsSeq() bool { return false }

// GateNetlist is a netlist whose instances are all plain gates.
type GateNetlist = netlist.Netlist[*Gate]

// GateNet is a net handle into a GateNetlist.
type GateNet = netlist.Net[*Gate]

// GateInstance is an instance handle into a GateNetlist.
type GateInstance = netlist.Instance[*Gate]

// NewGateNetlist creates an empty gate-level netlist with VDD/GND
// constant support.
func NewGateNetlist(name string) *GateNetlist {
	return netlist.NewWithConstants(name, GateFromConstant)
}

type gateJSON struct {
	Name    string   `json:"name"`
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
}

// MarshalJSON encodes the gate for snapshots.
func (g *Gate) MarshalJSON() ([]byte, error) {
	j := gateJSON{Name: g.name.Name()}
	for _, p := range g.inputs {
		j.Inputs = append(j.Inputs, p.ID().Name())
	}
	for _, p := range g.outputs {
		j.Outputs = append(j.Outputs, p.ID().Name())
	}
	return json.Marshal(j)
}

// UnmarshalJSON decodes a snapshot gate.
func (g *Gate) UnmarshalJSON(data []byte) error {
	var j gateJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	g.name = circuit.NewID(j.Name)
	g.inputs = nil
	g.outputs = nil
	for _, n := range j.Inputs {
		g.inputs = append(g.inputs, circuit.NewLogic(circuit.NewID(n)))
	}
	for _, n := range j.Outputs {
		g.outputs = append(g.outputs, circuit.NewLogic(circuit.NewID(n)))
	}
	return nil
}
