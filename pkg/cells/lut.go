package cells

import (
	"encoding/json"
	"fmt"
	"iter"

	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/attribute"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/logic"
	"github.com/bits-and-blooms/bitset"
)

var initID = circuit.NewID("INIT")

// Lut is a k-input lookup-table cell. Its truth table is the INIT
// parameter: bit i of the table is the output for input combination i.
type Lut struct {
	table  *bitset.BitSet
	width  uint
	id     circuit.Identifier
	inputs []circuit.Net
	output circuit.Net
}

// NewLut creates a LUT<k> cell whose truth table is the low 1<<k bits of
// table, with inputs I0..I(k-1) and output O.
func NewLut(k uint, table uint64) *Lut {
	width := uint(1) << k
	bv := bitset.New(width)
	for i := uint(0); i < width && i < 64; i++ {
		if table>>i&1 == 1 {
			bv.Set(i)
		}
	}
	l := &Lut{
		table:  bv,
		width:  width,
		id:     circuit.FormatID("LUT%d", k),
		output: circuit.NewLogic(circuit.NewID("O")),
	}
	for i := uint(0); i < k; i++ {
		l.inputs = append(l.inputs, circuit.NewLogic(circuit.FormatID("I%d", i)))
	}
	return l
}

// LutFromConstant builds the reserved constant LUT for a boolean value.
func LutFromConstant(val logic.State) (*Lut, bool) {
	switch val {
	case logic.True:
		l := NewLut(0, 1)
		l.id = vddID
		l.output = circuit.NewLogic(circuit.NewID("Y"))
		return l, true
	case logic.False:
		l := NewLut(0, 0)
		l.id = gndID
		l.output = circuit.NewLogic(circuit.NewID("Y"))
		return l, true
	}
	return nil, false
}

// Invert complements the truth table, turning the LUT into its negation.
// This is a capability-specific mutation reached through CellMut, not
// part of the generic cell contract.
func (l *Lut) Invert() {
	for i := uint(0); i < l.width; i++ {
		l.table.Flip(i)
	}
}

// Name returns the LUT's cell type name.
func (l *Lut) Name() circuit.Identifier { return l.id }

// InputPorts lists I0..I(k-1).
func (l *Lut) InputPorts() []circuit.Net { return l.inputs }

// OutputPorts lists the single output O.
func (l *Lut) OutputPorts() []circuit.Net { return []circuit.Net{l.output} }

// HasParameter reports true only for INIT.
func (l *Lut) HasParameter(id circuit.Identifier) bool { return id == initID }

// Parameter returns the truth table for INIT.
func (l *Lut) Parameter(id circuit.Identifier) (attribute.Parameter, bool) {
	if id != initID {
		return attribute.Parameter{}, false
	}
	return attribute.Bits(l.table, l.width), true
}

// SetParameter replaces the truth table. A non-bit-vector value for INIT
// is a caller bug.
func (l *Lut) SetParameter(id circuit.Identifier, val attribute.Parameter) (attribute.Parameter, bool) {
	if id != initID {
		return attribute.Parameter{}, false
	}
	old := attribute.Bits(l.table, l.width)
	bv, width, ok := val.AsBits()
	if !ok {
		panic(fmt.Sprintf("cells: invalid parameter kind %s for INIT", val.Kind()))
	}
	l.table = bv
	l.width = width
	return old, true
}

// Parameters yields the single INIT parameter.
func (l *Lut) Parameters() iter.Seq2[circuit.Identifier, attribute.Parameter] {
	return func(yield func(circuit.Identifier, attribute.Parameter) bool) {
		yield(initID, attribute.Bits(l.table, l.width))
	}
}

// Constant identifies the reserved VDD/GND LUTs by name.
func (l *Lut) Constant() (logic.State, bool) {
	switch l.id {
	case vddID:
		return logic.True, true
	case gndID:
		return logic.False, true
	}
	return logic.X, false
}

// IsSeq reports false; a LUT is combinational.
func (l *Lut) IsSeq() bool { return false }

type lutJSON struct {
	Name   string `json:"name"`
	K      int    `json:"k"`
	Init   string `json:"init"`
	Output string `json:"output"`
}

// MarshalJSON encodes the LUT for snapshots; the truth table uses the
// sized-hex constant spelling.
func (l *Lut) MarshalJSON() ([]byte, error) {
	return json.Marshal(lutJSON{
		Name:   l.id.Name(),
		K:      len(l.inputs),
		Init:   attribute.Bits(l.table, l.width).String(),
		Output: l.output.ID().Name(),
	})
}

// UnmarshalJSON decodes a snapshot LUT.
func (l *Lut) UnmarshalJSON(data []byte) error {
	var j lutJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	p, err := attribute.Parse(j.Init)
	if err != nil {
		return err
	}
	bv, width, _ := p.AsBits()
	l.table = bv
	l.width = width
	l.id = circuit.NewID(j.Name)
	l.output = circuit.NewLogic(circuit.NewID(j.Output))
	l.inputs = nil
	for i := 0; i < j.K; i++ {
		l.inputs = append(l.inputs, circuit.NewLogic(circuit.FormatID("I%d", i)))
	}
	return nil
}
