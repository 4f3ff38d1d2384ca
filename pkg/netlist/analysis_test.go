package netlist_test

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/cells"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/logic"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/netlist"
	"github.com/stretchr/testify/require"
)

func TestCombOrder(t *testing.T) {
	nl := cells.NewGateNetlist("chain")
	a := nl.InsertInput(id("a"))
	b := nl.InsertInput(id("b"))
	first, err := nl.InsertGate(andGate(), id("first"), []cells.GateNet{a, b})
	require.NoError(t, err)
	second, err := nl.InsertGate(notGate(), id("second"), []cells.GateNet{first.Net()})
	require.NoError(t, err)
	third, err := nl.InsertGate(orGate(), id("third"), []cells.GateNet{second.Net(), a})
	require.NoError(t, err)
	third.ExposeWithName(id("y"))

	order, err := nl.CombOrder()
	require.NoError(t, err)
	require.Len(t, order, 3)

	pos := make(map[string]int, len(order))
	for i, inst := range order {
		pos[inst.ID().Name()] = i
	}
	require.Less(t, pos["first"], pos["second"])
	require.Less(t, pos["second"], pos["third"])
}

func TestCombOrderDetectsCombinationalCycle(t *testing.T) {
	// A NAND latch: two cross-coupled combinational gates. Verify
	// accepts it; the ordering analysis reports the loop.
	nl := cells.NewGateNetlist("latch")
	s := nl.InsertInput(id("s"))
	r := nl.InsertInput(id("r"))
	nand := func() *cells.Gate {
		return cells.NewLogical(id("NAND"), ids("A", "B"), id("Y"))
	}
	q := nl.InsertGateDisconnected(nand(), id("q"))
	qn := nl.InsertGateDisconnected(nand(), id("qn"))
	q.FindInput(id("A")).Connect(s)
	q.FindInput(id("B")).Connect(qn.Net())
	qn.FindInput(id("A")).Connect(r)
	qn.FindInput(id("B")).Connect(q.Net())
	q.ExposeWithName(id("out"))

	require.NoError(t, nl.Verify())

	_, err := nl.CombOrder()
	var cycle *netlist.CycleError
	require.ErrorAs(t, err, &cycle)
	require.ElementsMatch(t, []string{"q_Y", "qn_Y"}, names(cycle.Nets))
}

func TestCombOrderCutsRegisteredFeedback(t *testing.T) {
	// An inverter feeding a flip-flop feeding the inverter: the loop
	// crosses a state-holding cell, so evaluation order exists.
	nl := cells.NewCellNetlist("toggle")
	clk := nl.InsertInput(id("clk"))
	ce := nl.InsertInput(id("ce"))
	rst := nl.InsertInput(id("rst"))

	ff := nl.InsertGateDisconnected(cells.Cell{FlipFlop: cells.NewFlipFlop(id("FDRE"), logic.False)}, id("reg"))
	inv, err := nl.InsertGate(
		cells.Cell{Gate: cells.NewLogical(id("NOT"), ids("A"), id("Y"))},
		id("inv"),
		[]cells.CellNet{ff.Net()},
	)
	require.NoError(t, err)

	ff.FindInput(id("C")).Connect(clk)
	ff.FindInput(id("CE")).Connect(ce)
	ff.FindInput(id("R")).Connect(rst)
	ff.FindInput(id("D")).Connect(inv.Net())
	ff.ExposeWithName(id("q"))

	require.NoError(t, nl.Verify())

	order, err := nl.CombOrder()
	require.NoError(t, err)
	require.Len(t, order, 2)
}
