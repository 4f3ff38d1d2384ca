package netlist

import (
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/graph"
)

// CombOrder returns the instances in combinational dependency order:
// every instance appears after the instances that drive its inputs within
// the same evaluation step. Edges through sequential (state-holding)
// drivers are not dependencies; their outputs come from state, which is
// how a registered feedback path stays acyclic here.
//
// A combinational cycle is reported as a CycleError carrying the nets on
// the cycle. This is an opt-in analysis: Verify does not reject
// combinational feedback loops.
func (nl *Netlist[C]) CombOrder() ([]Instance[C], error) {
	var nodes []uint32
	for _, o := range nl.objs {
		if o.kind == objInstance {
			nodes = append(nodes, o.id)
		}
	}
	next := func(id uint32) []uint32 {
		o := nl.at(id)
		var deps []uint32
		for _, d := range o.conns {
			if !d.valid() || d.port < 0 {
				continue // undriven or boundary input
			}
			drv := nl.at(d.obj)
			if drv == nil || drv.cell.IsSeq() {
				continue
			}
			deps = append(deps, d.obj)
		}
		return deps
	}

	order, cycle := graph.TopoSort(nodes, next)
	if cycle != nil {
		nets := make([]circuit.Identifier, 0, len(cycle))
		for _, id := range cycle {
			o := nl.at(id)
			if outs := o.cell.OutputPorts(); len(outs) > 0 {
				nets = append(nets, o.name.Concat(outs[0].ID()))
			} else {
				nets = append(nets, o.name)
			}
		}
		return nil, &CycleError{Nets: nets}
	}

	insts := make([]Instance[C], len(order))
	for i, id := range order {
		insts[i] = Instance[C]{nl: nl, gen: nl.gen, obj: id}
	}
	return insts, nil
}
