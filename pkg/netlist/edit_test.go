package netlist_test

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceNetlist/internal/testutil"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/cells"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/netlist"
	"github.com/stretchr/testify/require"
)

func dupGate() *cells.Gate {
	return cells.NewLogicalMulti(id("DUP"), ids("A"), ids("Y0", "Y1"))
}

func TestClean(t *testing.T) {
	nl := simpleExample(t)
	a := nl.Inputs()[0]
	_, err := nl.InsertGate(notGate(), id("dead"), []cells.GateNet{a})
	require.NoError(t, err)
	require.Contains(t, nl.String(), "dead")

	require.True(t, nl.Clean())
	require.NotContains(t, nl.String(), "dead")
	require.NoError(t, nl.Verify())

	// Nothing left to remove.
	require.False(t, nl.Clean())
}

func TestCleanKeepsUnusedInputs(t *testing.T) {
	nl := cells.NewGateNetlist("top")
	nl.InsertInput(id("unused"))
	b := nl.InsertInput(id("b"))
	inst, err := nl.InsertGate(notGate(), id("inst_0"), []cells.GateNet{b})
	require.NoError(t, err)
	inst.ExposeWithName(id("y"))

	require.False(t, nl.Clean())
	require.Contains(t, nl.String(), "input unused;")
}

func TestReplaceInputUses(t *testing.T) {
	nl := cells.NewGateNetlist("example")
	a := nl.InsertInput(id("a"))
	b := nl.InsertInput(id("b"))
	inst, err := nl.InsertGate(andGate(), id("inst_0"), []cells.GateNet{a, b})
	require.NoError(t, err)
	inst.ExposeWithName(id("y"))

	// Feed the gate's own output back into its first port.
	require.NoError(t, nl.ReplaceNetUsesDriven(a, inst.Net()))
	testutil.RequireVerilogEq(t, nl.String(), `
module example (
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
  wire inst_0_Y;
  AND inst_0 (
    .A(inst_0_Y),
    .B(b),
    .Y(inst_0_Y)
  );
  assign y = inst_0_Y;
endmodule
`)
}

func TestReplaceRejectsUndrivenSource(t *testing.T) {
	nl := cells.NewGateNetlist("example")
	a := nl.InsertInput(id("a"))
	b := nl.InsertInput(id("b"))
	inst, err := nl.InsertGate(andGate(), id("inst_0"), []cells.GateNet{a, b})
	require.NoError(t, err)
	inst.ExposeWithName(id("y"))

	hole := nl.InsertGateDisconnected(notGate(), id("inst_1"))
	// An unconnected port has no driver identity to rewire onto.
	err = nl.ReplaceNetUsesDriven(hole.Input(0), inst.Net())
	require.ErrorIs(t, err, netlist.ErrNotDriven)

	// The driven direction works: route a through the new inverter.
	hole.Input(0).Connect(a)
	require.NoError(t, nl.ReplaceNetUsesDriven(a, hole.Net()))
	got, _, ok := inst.Input(0).Driver()
	require.True(t, ok)
	require.Equal(t, id("inst_1"), got.ID())
	// Every use of a moved, the inverter's own port included, so the
	// rewrite leaves the inverter feeding itself.
	self, _, ok := hole.Input(0).Driver()
	require.True(t, ok)
	require.Equal(t, id("inst_1"), self.ID())
}

func TestReplaceSingleUse(t *testing.T) {
	nl := cells.NewGateNetlist("top")
	a := nl.InsertInput(id("a"))
	first, err := nl.InsertGate(dupGate(), id("first"), []cells.GateNet{a})
	require.NoError(t, err)
	second, err := nl.InsertGate(notGate(), id("second"), []cells.GateNet{first.Output(0)})
	require.NoError(t, err)
	second.ExposeWithName(id("y"))

	// Move the consumer from Y0 to Y1.
	require.NoError(t, nl.ReplaceNetUses(first.Output(0), first.Output(1)))
	inst, port, ok := second.Input(0).Driver()
	require.True(t, ok)
	require.Equal(t, id("first"), inst.ID())
	require.Equal(t, 1, port)
}

func TestReplaceMultipleUses(t *testing.T) {
	nl := cells.NewGateNetlist("top")
	a := nl.InsertInput(id("a"))
	first, err := nl.InsertGate(dupGate(), id("first"), []cells.GateNet{a})
	require.NoError(t, err)
	use0, err := nl.InsertGate(andGate(), id("use0"), []cells.GateNet{first.Output(0), first.Output(0)})
	require.NoError(t, err)
	use0.ExposeWithName(id("y0"))
	first.Output(0).ExposeWithName(id("y1"))

	require.NoError(t, nl.ReplaceNetUses(first.Output(0), first.Output(1)))
	for _, port := range []int{0, 1} {
		inst, p, ok := use0.Input(port).Driver()
		require.True(t, ok)
		require.Equal(t, id("first"), inst.ID())
		require.Equal(t, 1, p)
	}
	// The exposure moved too.
	y1, ok := nl.FindNet(id("y1"))
	require.True(t, ok)
	_, p, ok := y1.Driver()
	require.True(t, ok)
	require.Equal(t, 1, p)
}

func invGate() *cells.Gate {
	return cells.NewLogical(id("INV"), ids("I"), id("O"))
}

func TestReplaceInputWithInverter(t *testing.T) {
	nl := simpleExample(t)
	a := nl.Inputs()[0]
	inv, err := nl.InsertGate(invGate(), id("inv_0"), []cells.GateNet{a})
	require.NoError(t, err)

	// Boundary inputs are statically rewirable. Every use of a moves,
	// the inverter's own port included.
	require.NoError(t, nl.ReplaceNetUses(a, inv.Net()))
	testutil.RequireVerilogEq(t, nl.String(), `
module example (
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
  wire inst_0_Y;
  wire inv_0_O;
  AND inst_0 (
    .A(inv_0_O),
    .B(b),
    .Y(inst_0_Y)
  );
  INV inv_0 (
    .I(inv_0_O),
    .O(inv_0_O)
  );
  assign y = inst_0_Y;
endmodule
`)
}

func TestReplaceRejectsDisconnectedDriver(t *testing.T) {
	nl := simpleExample(t)
	a := nl.Inputs()[0]
	hole := nl.InsertGateDisconnected(invGate(), id("inv_0"))

	// The inverter's input is still undriven; rewiring onto its output
	// is refused and the netlist stays untouched.
	var dangling *netlist.DanglingRefError
	require.ErrorAs(t, nl.ReplaceNetUses(a, hole.Net()), &dangling)
	require.Equal(t, []string{"inv_0_I"}, names(dangling.Nets))

	hole.FindInput(id("I")).Connect(a)
	testutil.RequireVerilogEq(t, nl.String(), `
module example (
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
  wire inst_0_Y;
  wire inv_0_O;
  AND inst_0 (
    .A(a),
    .B(b),
    .Y(inst_0_Y)
  );
  INV inv_0 (
    .I(a),
    .O(inv_0_O)
  );
  assign y = inst_0_Y;
endmodule
`)
}

func TestReplaceRequiresDriverIdentity(t *testing.T) {
	nl := cells.NewGateNetlist("top")
	a := nl.InsertInput(id("a"))
	inst, err := nl.InsertGate(andGate(), id("inst_0"), []cells.GateNet{a, a})
	require.NoError(t, err)
	inst.ExposeWithName(id("y"))
	hole := nl.InsertGateDisconnected(invGate(), id("inv_0"))

	// An undriven port net has no identity to rewire away from.
	require.Panics(t, func() {
		_ = nl.ReplaceNetUses(hole.Input(0), inst.Net())
	})
}

func TestDeleteNetUses(t *testing.T) {
	nl := simpleExample(t)
	last, _ := nl.Last()
	inst, _ := last.AsInstance()

	require.NoError(t, nl.DeleteNetUses(inst.Net()))
	require.Empty(t, nl.Exports())
	require.ErrorIs(t, nl.Verify(), netlist.ErrNoOutputs)

	// The instance itself survives until a Clean pass.
	require.True(t, inst.Valid())
	require.True(t, nl.Clean())
	require.False(t, inst.Valid())
}
