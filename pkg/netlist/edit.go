package netlist

import (
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/graph"
)

// Clean removes every instance not transitively reachable, via driver
// references, from an exposed output. Boundary inputs are never removed;
// an unused input remains a valid interface point. It reports whether
// anything was removed. Handles to removed instances become invalid.
func (nl *Netlist[C]) Clean() bool {
	nl.mustBeOpen()
	roots := make([]uint32, 0, len(nl.exports))
	for _, e := range nl.exports {
		roots = append(roots, e.src.obj)
	}
	reachable := graph.Reach(roots, func(id uint32) []uint32 {
		o := nl.at(id)
		if o == nil || o.kind != objInstance {
			return nil
		}
		var next []uint32
		for _, d := range o.conns {
			if d.valid() {
				next = append(next, d.obj)
			}
		}
		return next
	})

	kept := nl.objs[:0]
	removed := false
	for _, o := range nl.objs {
		if o.kind == objInstance {
			if _, ok := reachable[o.id]; !ok {
				delete(nl.index, o.id)
				removed = true
				continue
			}
		}
		kept = append(kept, o)
	}
	nl.objs = kept
	for pos, o := range nl.objs {
		nl.index[o.id] = pos
	}
	return removed
}

// ReplaceNetUses rewrites every port connection and output exposure
// pointing at old to point at new instead. All uses are rewired
// atomically; there is no partial outcome. old must have a stable driver
// identity (a boundary input or an instance output); handing it an
// undriven port net is a caller bug (use ReplaceNetUsesDriven when the
// shape is only known at runtime).
func (nl *Netlist[C]) ReplaceNetUses(old, new Net[C]) error {
	if old.kind != netDriven && old.kind != netInput {
		panic("netlist: ReplaceNetUses requires a net with a driver identity")
	}
	return nl.replaceUses(old, new)
}

// ReplaceNetUsesDriven is the dynamically-checked variant of
// ReplaceNetUses: it accepts any net with a stable driver identity
// (boundary inputs included) and reports ErrNotDriven instead of
// panicking when the shape cannot be statically rewired.
func (nl *Netlist[C]) ReplaceNetUsesDriven(old, new Net[C]) error {
	if old.kind != netDriven && old.kind != netInput {
		return ErrNotDriven
	}
	return nl.replaceUses(old, new)
}

func (nl *Netlist[C]) replaceUses(old, new Net[C]) error {
	nl.mustBeOpen()
	if new.kind == netPort {
		// An undriven port has no identity to rewire onto.
		return ErrNotDriven
	}
	from := nl.sourceOf(old)
	to := nl.sourceOf(new)
	// Rewiring onto a driver that still has undriven inputs would hang
	// every moved use on an incomplete instance; reject before mutating.
	if new.kind == netDriven {
		drv := nl.at(new.obj)
		var undriven []circuit.Identifier
		for i, d := range drv.conns {
			if !d.valid() {
				undriven = append(undriven, drv.name.Concat(drv.cell.InputPorts()[i].ID()))
			}
		}
		if len(undriven) > 0 {
			return &DanglingRefError{Nets: undriven}
		}
	}
	for _, o := range nl.objs {
		for i, d := range o.conns {
			if d == from {
				o.conns[i] = to
			}
		}
	}
	for i, e := range nl.exports {
		if e.src == from {
			nl.exports[i].src = to
		}
	}
	return nil
}

// DeleteNetUses disconnects every port connection driven by n, leaving
// those ports undriven, and withdraws every exposure of n. The driving
// instance itself is untouched; a later Clean may reclaim it.
func (nl *Netlist[C]) DeleteNetUses(n Net[C]) error {
	nl.mustBeOpen()
	if n.kind != netDriven && n.kind != netInput {
		return ErrNotDriven
	}
	from := nl.sourceOf(n)
	for _, o := range nl.objs {
		for i, d := range o.conns {
			if d == from {
				o.conns[i] = driver{}
			}
		}
	}
	kept := nl.exports[:0]
	for _, e := range nl.exports {
		if e.src != from {
			kept = append(kept, e)
		}
	}
	nl.exports = kept
	return nil
}
