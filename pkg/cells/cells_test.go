package cells_test

import (
	"encoding/json"
	"testing"

	"github.com/OpenTraceLab/OpenTraceNetlist/internal/testutil"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/attribute"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/cells"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/logic"
	"github.com/stretchr/testify/require"
)

var initID = circuit.NewID("INIT")

func portNames(ports []circuit.Net) []string {
	out := make([]string, len(ports))
	for i, p := range ports {
		out[i] = p.ID().Name()
	}
	return out
}

func TestNewLut(t *testing.T) {
	lut := cells.NewLut(2, 0b1000) // AND
	require.Equal(t, "LUT2", lut.Name().Name())
	require.Equal(t, []string{"I0", "I1"}, portNames(lut.InputPorts()))
	require.Equal(t, []string{"O"}, portNames(lut.OutputPorts()))
	require.False(t, lut.IsSeq())

	p, ok := lut.Parameter(initID)
	require.True(t, ok)
	require.Equal(t, "4'h8", p.String())

	_, ok = lut.Parameter(circuit.NewID("WIDTH"))
	require.False(t, ok)
	require.False(t, lut.HasParameter(circuit.NewID("WIDTH")))
}

func TestLutSetParameter(t *testing.T) {
	lut := cells.NewLut(2, 0b1000)
	old, ok := lut.SetParameter(initID, attribute.BitsFromUint(0b1110, 4)) // OR
	require.True(t, ok)
	require.Equal(t, "4'h8", old.String())

	p, _ := lut.Parameter(initID)
	require.Equal(t, "4'he", p.String())

	// Unknown parameters are a no-op.
	_, ok = lut.SetParameter(circuit.NewID("WIDTH"), attribute.Integer(4))
	require.False(t, ok)

	// A wrong-kind value for a known parameter is a caller bug.
	require.Panics(t, func() {
		lut.SetParameter(initID, attribute.Integer(8))
	})
}

func TestLutInvert(t *testing.T) {
	lut := cells.NewLut(2, 0b1000)
	lut.Invert()
	p, _ := lut.Parameter(initID)
	require.Equal(t, "4'h7", p.String())
}

func TestLutConstants(t *testing.T) {
	vdd, ok := cells.LutFromConstant(logic.True)
	require.True(t, ok)
	val, ok := vdd.Constant()
	require.True(t, ok)
	require.Equal(t, logic.True, val)

	gnd, ok := cells.LutFromConstant(logic.False)
	require.True(t, ok)
	val, ok = gnd.Constant()
	require.True(t, ok)
	require.Equal(t, logic.False, val)

	_, ok = cells.LutFromConstant(logic.X)
	require.False(t, ok)

	// An ordinary LUT never reads as a constant.
	_, ok = cells.NewLut(2, 0b1000).Constant()
	require.False(t, ok)
}

func TestFlipFlopPorts(t *testing.T) {
	for typ, reset := range map[string]string{
		"FDRE": "R",
		"FDSE": "S",
		"FDPE": "PRE",
		"FDCE": "CLR",
	} {
		ff := cells.NewFlipFlop(circuit.NewID(typ), logic.False)
		require.Equal(t, []string{"C", "CE", reset, "D"}, portNames(ff.InputPorts()))
		require.Equal(t, []string{"Q"}, portNames(ff.OutputPorts()))
		require.True(t, ff.IsSeq())
		_, ok := ff.Constant()
		require.False(t, ok)
	}

	require.Panics(t, func() {
		cells.NewFlipFlop(circuit.NewID("FDXX"), logic.False)
	})
}

func TestFlipFlopInit(t *testing.T) {
	ff := cells.NewFlipFlop(circuit.NewID("FDRE"), logic.False)
	p, ok := ff.Parameter(initID)
	require.True(t, ok)
	require.Equal(t, "1'b0", p.String())

	old, ok := ff.SetParameter(initID, attribute.Logic(logic.True))
	require.True(t, ok)
	require.Equal(t, "1'b0", old.String())
	p, _ = ff.Parameter(initID)
	require.Equal(t, "1'b1", p.String())

	require.Panics(t, func() {
		ff.SetParameter(initID, attribute.BitsFromUint(1, 1))
	})
}

func TestGateConstant(t *testing.T) {
	vdd, ok := cells.GateFromConstant(logic.True)
	require.True(t, ok)
	require.Equal(t, "VDD", vdd.Name().Name())
	val, ok := vdd.Constant()
	require.True(t, ok)
	require.Equal(t, logic.True, val)

	_, ok = cells.GateFromConstant(logic.Z)
	require.False(t, ok)
}

func TestCellUnionDispatch(t *testing.T) {
	ff := cells.Cell{FlipFlop: cells.NewFlipFlop(circuit.NewID("FDRE"), logic.True)}
	require.Equal(t, "FDRE", ff.Name().Name())
	require.True(t, ff.IsSeq())

	lut := cells.Cell{Lut: cells.NewLut(1, 0b01)}
	require.Equal(t, "LUT1", lut.Name().Name())
	require.False(t, lut.IsSeq())

	c, ok := cells.CellFromConstant(logic.False)
	require.True(t, ok)
	val, ok := c.Constant()
	require.True(t, ok)
	require.Equal(t, logic.False, val)

	require.Panics(t, func() {
		var empty cells.Cell
		empty.Name()
	})
}

func TestCellUnionJSONRoundTrip(t *testing.T) {
	orig := cells.Cell{Lut: cells.NewLut(2, 0b0110)}
	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var back cells.Cell
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.Lut)
	require.Equal(t, "LUT2", back.Name().Name())
	p, _ := back.Parameter(initID)
	require.Equal(t, "4'h6", p.String())

	ffOrig := cells.Cell{FlipFlop: cells.NewFlipFlop(circuit.NewID("FDCE"), logic.True)}
	data, err = json.Marshal(ffOrig)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.FlipFlop)
	require.Equal(t, []string{"C", "CE", "CLR", "D"}, portNames(back.InputPorts()))

	require.Error(t, json.Unmarshal([]byte(`{"kind":"Latch","cell":{}}`), &back))
}

func TestLutParameterEmission(t *testing.T) {
	nl := cells.NewCellNetlist("top")
	a := nl.InsertInput(circuit.NewID("a"))
	b := nl.InsertInput(circuit.NewID("b"))
	inst, err := nl.InsertGate(
		cells.Cell{Lut: cells.NewLut(2, 0b1000)},
		circuit.NewID("inst_0"),
		[]cells.CellNet{a, b},
	)
	require.NoError(t, err)
	inst.ExposeWithName(circuit.NewID("y"))
	require.NoError(t, nl.Verify())
	testutil.RequireVerilogEq(t, nl.String(), `
module top (
  a,
  b,
  y
);
  input a;
  wire a;
  input b;
  wire b;
  output y;
  wire y;
  wire inst_0_O;
  LUT2 #(
    .INIT(4'h8)
  ) inst_0 (
    .I0(a),
    .I1(b),
    .O(inst_0_O)
  );
  assign y = inst_0_O;
endmodule
`)
}

func TestFlipFlopInNetlist(t *testing.T) {
	nl := cells.NewCellNetlist("reg_stage")
	clk := nl.InsertInput(circuit.NewID("clk"))
	ce := nl.InsertInput(circuit.NewID("ce"))
	r := nl.InsertInput(circuit.NewID("r"))
	d := nl.InsertInput(circuit.NewID("d"))
	ff, err := nl.InsertGate(
		cells.Cell{FlipFlop: cells.NewFlipFlop(circuit.NewID("FDRE"), logic.False)},
		circuit.NewID("reg_0"),
		[]cells.CellNet{clk, ce, r, d},
	)
	require.NoError(t, err)
	ff.ExposeWithName(circuit.NewID("q"))
	require.NoError(t, nl.Verify())
	out := nl.String()
	require.Contains(t, out, "FDRE #(")
	require.Contains(t, out, ".INIT(1'b0)")
	require.Contains(t, out, ".Q(reg_0_Q)")
}

func TestCellMutReachesVariant(t *testing.T) {
	nl := cells.NewCellNetlist("top")
	a := nl.InsertInput(circuit.NewID("a"))
	inst, err := nl.InsertGate(
		cells.Cell{Lut: cells.NewLut(1, 0b10)}, // buffer
		circuit.NewID("inst_0"),
		[]cells.CellNet{a},
	)
	require.NoError(t, err)
	inst.ExposeWithName(circuit.NewID("y"))

	c, ok := inst.CellMut()
	require.True(t, ok)
	require.NotNil(t, c.Lut)
	c.Lut.Invert() // now an inverter
	p, _ := inst.Cell().Parameter(initID)
	require.Equal(t, "2'h1", p.String())
}
