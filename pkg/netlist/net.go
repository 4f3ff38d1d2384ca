package netlist

import (
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/circuit"
)

type netKind uint8

const (
	// netInput is a boundary signal supplied by the environment.
	netInput netKind = iota
	// netDriven is backed by an output port of an instance.
	netDriven
	// netPort is an input port of an instance, possibly still undriven;
	// used for staged construction.
	netPort
)

// Net is a reference to a signal in a netlist. Multiple Net handles may
// alias the same underlying signal; equality is by underlying identity
// (same boundary input, or same instance output port), never by display
// name. Handles are invalidated by Clean (when their object is removed)
// and by Reclaim.
type Net[C Cell] struct {
	nl   *Netlist[C]
	gen  uint64
	kind netKind
	obj  uint32
	port int
}

// Valid reports whether the handle still references a live object of a
// live netlist.
func (n Net[C]) Valid() bool {
	return n.nl != nil && n.gen == n.nl.gen && n.nl.at(n.obj) != nil
}

func (n Net[C]) resolve() *object[C] {
	if n.nl == nil || n.gen != n.nl.gen {
		panic("netlist: stale net handle")
	}
	o := n.nl.at(n.obj)
	if o == nil {
		panic("netlist: stale net handle")
	}
	return o
}

// IsInput reports whether the net is a boundary input.
func (n Net[C]) IsInput() bool {
	return n.kind == netInput
}

// IsDriven reports whether the net is backed by an instance output port.
func (n Net[C]) IsDriven() bool {
	return n.kind == netDriven
}

// ID returns the net's display name: the input name for boundary inputs,
// or the instance identifier joined with the port name otherwise.
func (n Net[C]) ID() circuit.Identifier {
	o := n.resolve()
	switch n.kind {
	case netInput:
		return o.name
	case netDriven:
		return o.name.Concat(o.cell.OutputPorts()[n.port].ID())
	default:
		return o.name.Concat(o.cell.InputPorts()[n.port].ID())
	}
}

func (n Net[C]) String() string {
	return n.ID().String()
}

// Driver returns the instance and output port index driving the net. The
// second result is false for boundary inputs and undriven port nets.
func (n Net[C]) Driver() (Instance[C], int, bool) {
	switch n.kind {
	case netDriven:
		n.resolve()
		return Instance[C]{nl: n.nl, gen: n.gen, obj: n.obj}, n.port, true
	case netPort:
		o := n.resolve()
		d := o.conns[n.port]
		if !d.valid() || d.port < 0 {
			return Instance[C]{}, 0, false
		}
		return Instance[C]{nl: n.nl, gen: n.gen, obj: d.obj}, d.port, true
	default:
		return Instance[C]{}, 0, false
	}
}

// Connect binds an undriven input-port net to target as its driver.
// Calling it on a net that is not an input port, or whose port is already
// driven, is a caller bug.
func (n Net[C]) Connect(target Net[C]) {
	o := n.resolve()
	n.nl.mustBeOpen()
	if n.kind != netPort {
		panic("netlist: Connect on a net that is not an input port")
	}
	if o.conns[n.port].valid() {
		panic("netlist: Connect on an already-driven port")
	}
	o.conns[n.port] = n.nl.sourceOf(target)
}

// ExposeWithName registers the net as a module output under name. A name
// collision with an existing exposure is surfaced by Verify, not here.
func (n Net[C]) ExposeWithName(name circuit.Identifier) {
	n.resolve()
	n.nl.expose(name, n.nl.sourceOf(n))
}

// Expose registers the net as a module output under its own display name.
// Boundary inputs have no derived name to expose under and fail with
// InputNeedsAliasError; use ExposeWithName for them.
func (n Net[C]) Expose() error {
	o := n.resolve()
	if n.kind == netInput {
		return &InputNeedsAliasError{Net: o.name}
	}
	n.nl.expose(n.ID(), n.nl.sourceOf(n))
	return nil
}

// Object returns the handle of the object owning this net.
func (n Net[C]) Object() Object[C] {
	n.resolve()
	return Object[C]{nl: n.nl, gen: n.gen, obj: n.obj}
}
