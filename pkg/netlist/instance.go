package netlist

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/attribute"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/circuit"
)

// Instance is a handle to a placed cell: identity, bound port
// connections, attributes, and the cell payload. Instances are created by
// the netlist and mutated in place; they are never implicitly duplicated.
type Instance[C Cell] struct {
	nl  *Netlist[C]
	gen uint64
	obj uint32
}

// Valid reports whether the handle still references a live instance.
func (i Instance[C]) Valid() bool {
	return i.nl != nil && i.gen == i.nl.gen && i.nl.at(i.obj) != nil
}

func (i Instance[C]) resolve() *object[C] {
	if i.nl == nil || i.gen != i.nl.gen {
		panic("netlist: stale instance handle")
	}
	o := i.nl.at(i.obj)
	if o == nil {
		panic("netlist: stale instance handle")
	}
	if o.kind != objInstance {
		panic("netlist: object is not an instance")
	}
	return o
}

// ID returns the instance identifier.
func (i Instance[C]) ID() circuit.Identifier {
	return i.resolve().name
}

// Cell returns the cell payload. The payload is shared, not copied; use
// CellMut for mutation so staleness is reported instead of panicking.
func (i Instance[C]) Cell() C {
	return i.resolve().cell
}

// CellMut exposes the cell payload for capability-specific mutation. It
// reports false if the underlying instance no longer exists.
func (i Instance[C]) CellMut() (*C, bool) {
	if !i.Valid() {
		return nil, false
	}
	o := i.resolve()
	return &o.cell, true
}

// Output returns the net driven by output port index. An out-of-range
// index is a caller bug.
func (i Instance[C]) Output(index int) Net[C] {
	o := i.resolve()
	if index < 0 || index >= len(o.cell.OutputPorts()) {
		panic(fmt.Sprintf("netlist: output index %d out of range for %s", index, o.name))
	}
	return Net[C]{nl: i.nl, gen: i.gen, kind: netDriven, obj: i.obj, port: index}
}

// Input returns the input-port net at index, driven or not. An
// out-of-range index is a caller bug.
func (i Instance[C]) Input(index int) Net[C] {
	o := i.resolve()
	if index < 0 || index >= len(o.cell.InputPorts()) {
		panic(fmt.Sprintf("netlist: input index %d out of range for %s", index, o.name))
	}
	return Net[C]{nl: i.nl, gen: i.gen, kind: netPort, obj: i.obj, port: index}
}

// FindInput returns the input-port net with the given port name. An
// unknown name is a caller bug.
func (i Instance[C]) FindInput(id circuit.Identifier) Net[C] {
	o := i.resolve()
	for idx, p := range o.cell.InputPorts() {
		if p.ID() == id {
			return Net[C]{nl: i.nl, gen: i.gen, kind: netPort, obj: i.obj, port: idx}
		}
	}
	panic(fmt.Sprintf("netlist: no input port %s on %s", id, o.name))
}

// Net returns the instance's sole output net. Calling it on a
// multi-output cell is a caller bug; take each Output individually.
func (i Instance[C]) Net() Net[C] {
	o := i.resolve()
	if len(o.cell.OutputPorts()) != 1 {
		panic(fmt.Sprintf("netlist: %s has %d outputs, sole-output access is ambiguous",
			o.name, len(o.cell.OutputPorts())))
	}
	return i.Output(0)
}

// ExposeWithName exposes the instance's sole output as a module output
// under name. Ambiguous (and a caller bug) on multi-output cells.
func (i Instance[C]) ExposeWithName(name circuit.Identifier) {
	i.Net().ExposeWithName(name)
}

// SetAttribute attaches a flag attribute. Attributes affect only
// emission, never structural validity.
func (i Instance[C]) SetAttribute(name string) {
	i.putAttr(attribute.Flag(name))
}

// InsertAttribute attaches a key/value attribute, replacing any existing
// attribute with the same key.
func (i Instance[C]) InsertAttribute(key, value string) {
	i.putAttr(attribute.KeyValue(key, value))
}

// ClearAttribute removes the attribute with the given key, if present.
func (i Instance[C]) ClearAttribute(key string) {
	o := i.resolve()
	i.nl.mustBeOpen()
	for idx, a := range o.attrs {
		if a.Key() == key {
			o.attrs = append(o.attrs[:idx], o.attrs[idx+1:]...)
			return
		}
	}
}

// Attrs returns the instance attributes in insertion order.
func (i Instance[C]) Attrs() []attribute.Attr {
	o := i.resolve()
	out := make([]attribute.Attr, len(o.attrs))
	copy(out, o.attrs)
	return out
}

func (i Instance[C]) putAttr(a attribute.Attr) {
	o := i.resolve()
	i.nl.mustBeOpen()
	for idx, old := range o.attrs {
		if old.Key() == a.Key() {
			o.attrs[idx] = a
			return
		}
	}
	o.attrs = append(o.attrs, a)
}

// Object returns the generic object handle for this instance.
func (i Instance[C]) Object() Object[C] {
	i.resolve()
	return Object[C]{nl: i.nl, gen: i.gen, obj: i.obj}
}

// Object is a handle to an entry of the netlist's insertion-ordered
// object sequence: either a boundary input or an instance. Two Object
// values compare equal iff they reference the same underlying entry.
type Object[C Cell] struct {
	nl  *Netlist[C]
	gen uint64
	obj uint32
}

// Valid reports whether the handle still references a live object.
func (o Object[C]) Valid() bool {
	return o.nl != nil && o.gen == o.nl.gen && o.nl.at(o.obj) != nil
}

func (o Object[C]) resolve() *object[C] {
	if o.nl == nil || o.gen != o.nl.gen {
		panic("netlist: stale object handle")
	}
	e := o.nl.at(o.obj)
	if e == nil {
		panic("netlist: stale object handle")
	}
	return e
}

// IsInput reports whether the object is a boundary input.
func (o Object[C]) IsInput() bool {
	return o.resolve().kind == objInput
}

// AsInstance returns the instance handle, or false for boundary inputs.
func (o Object[C]) AsInstance() (Instance[C], bool) {
	if o.resolve().kind != objInstance {
		return Instance[C]{}, false
	}
	return Instance[C]{nl: o.nl, gen: o.gen, obj: o.obj}, true
}

// AsNet returns the boundary net for inputs, or the sole output net for
// single-output instances. It reports false for multi-output instances.
func (o Object[C]) AsNet() (Net[C], bool) {
	e := o.resolve()
	if e.kind == objInput {
		return Net[C]{nl: o.nl, gen: o.gen, kind: netInput, obj: o.obj}, true
	}
	if len(e.cell.OutputPorts()) != 1 {
		return Net[C]{}, false
	}
	return Net[C]{nl: o.nl, gen: o.gen, kind: netDriven, obj: o.obj, port: 0}, true
}

// ID returns the object's name: the input name or the instance identifier.
func (o Object[C]) ID() circuit.Identifier {
	return o.resolve().name
}
