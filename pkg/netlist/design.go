package netlist

import (
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/attribute"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/circuit"
)

// Design is the sole-ownership form of a reclaimed netlist: a sealed,
// read-only view suitable for persistence. It addresses objects by their
// position in insertion order.
type Design[C Cell] struct {
	nl *Netlist[C]
}

// Conn locates the driver of an input port inside a Design: the position
// of the driving object and its output port index. Object is -1 for an
// undriven port; Port is -1 when the driver is a boundary input.
type Conn struct {
	Object int
	Port   int
}

// Export is an exposed output binding in a Design.
type Export struct {
	Name   circuit.Identifier
	Object int
	Port   int
}

// Reclaim converts the shared-ownership netlist into the sole-ownership
// Design form. Every previously issued handle is invalidated: the arena
// generation is bumped, so stale handles fail their validity checks
// instead of silently aliasing the sealed structure. Reclaim fails with a
// DanglingRefError if staged construction left undriven ports behind.
func (nl *Netlist[C]) Reclaim() (*Design[C], error) {
	nl.mustBeOpen()
	var undriven []circuit.Identifier
	for _, o := range nl.objs {
		if o.kind != objInstance {
			continue
		}
		for i, d := range o.conns {
			if !d.valid() {
				undriven = append(undriven, o.name.Concat(o.cell.InputPorts()[i].ID()))
			}
		}
	}
	if len(undriven) > 0 {
		return nil, &DanglingRefError{Nets: undriven}
	}
	nl.sealed = true
	nl.gen++
	return &Design[C]{nl: nl}, nil
}

// Name returns the module name.
func (d *Design[C]) Name() string {
	return d.nl.name
}

// Size returns the number of objects (inputs and instances).
func (d *Design[C]) Size() int {
	return len(d.nl.objs)
}

// IsInput reports whether the object at position i is a boundary input.
func (d *Design[C]) IsInput(i int) bool {
	return d.nl.objs[i].kind == objInput
}

// ObjectID returns the name of the object at position i: the input name
// or the instance identifier.
func (d *Design[C]) ObjectID(i int) circuit.Identifier {
	return d.nl.objs[i].name
}

// Cell returns the cell payload of the instance at position i. Calling it
// on a boundary input is a caller bug.
func (d *Design[C]) Cell(i int) C {
	o := d.nl.objs[i]
	if o.kind != objInstance {
		panic("netlist: object is not an instance")
	}
	return o.cell
}

// Attrs returns the attributes of the instance at position i.
func (d *Design[C]) Attrs(i int) []attribute.Attr {
	o := d.nl.objs[i]
	out := make([]attribute.Attr, len(o.attrs))
	copy(out, o.attrs)
	return out
}

// Conns returns the input-port drivers of the instance at position i, in
// port order.
func (d *Design[C]) Conns(i int) []Conn {
	o := d.nl.objs[i]
	out := make([]Conn, len(o.conns))
	for idx, drv := range o.conns {
		out[idx] = d.conn(drv)
	}
	return out
}

// Exports returns the exposed output bindings in exposure order.
func (d *Design[C]) Exports() []Export {
	out := make([]Export, len(d.nl.exports))
	for i, e := range d.nl.exports {
		c := d.conn(e.src)
		out[i] = Export{Name: e.name, Object: c.Object, Port: c.Port}
	}
	return out
}

// Verify runs the structural checks on the sealed design.
func (d *Design[C]) Verify() error {
	return d.nl.Verify()
}

// Verilog emits the sealed design.
func (d *Design[C]) Verilog() (string, error) {
	return d.nl.Verilog()
}

func (d *Design[C]) String() string {
	return d.nl.String()
}

func (d *Design[C]) conn(drv driver) Conn {
	if !drv.valid() {
		return Conn{Object: -1, Port: -1}
	}
	return Conn{Object: d.nl.index[drv.obj], Port: drv.port}
}
