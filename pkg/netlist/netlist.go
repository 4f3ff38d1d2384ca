package netlist

import (
	"iter"

	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/attribute"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/logic"
)

type objKind uint8

const (
	objInput objKind = iota
	objInstance
)

// driver identifies a signal source inside a netlist: an output port of
// an object. The zero driver means "undriven". Boundary inputs use port
// -1 since they have exactly one implicit output.
type driver struct {
	obj  uint32
	port int
}

func (d driver) valid() bool {
	return d.obj != 0
}

// object is an arena entry: a boundary input or a placed instance.
type object[C Cell] struct {
	id    uint32
	kind  objKind
	name  circuit.Identifier // input name or instance identifier
	cell  C                  // instances only
	conns []driver           // instances only, one per declared input port
	attrs []attribute.Attr
}

type export struct {
	name circuit.Identifier
	src  driver
}

// Netlist is the owning container of a circuit: an insertion-ordered
// arena of boundary inputs and instances, plus the set of exposed output
// bindings. Handles returned to callers (Net, Instance, Object) are
// validated references into the arena, not owners; the netlist alone
// owns every object it produced.
//
// The container is not safe for concurrent use; a single logical owner
// must serialize mutation against traversal.
type Netlist[C Cell] struct {
	name    string
	objs    []*object[C]
	index   map[uint32]int // object id -> position in objs
	exports []export
	nextID  uint32
	gen     uint64
	sealed  bool
	constFn ConstantFactory[C]
}

// New creates an empty netlist. The resulting netlist cannot build
// constant drivers; use NewWithConstants for families that support them.
func New[C Cell](name string) *Netlist[C] {
	return &Netlist[C]{
		name:   name,
		index:  make(map[uint32]int),
		nextID: 1,
	}
}

// NewWithConstants creates an empty netlist whose InsertConstant uses the
// given factory.
func NewWithConstants[C Cell](name string, constants ConstantFactory[C]) *Netlist[C] {
	nl := New[C](name)
	nl.constFn = constants
	return nl
}

// Name returns the module name.
func (nl *Netlist[C]) Name() string {
	return nl.name
}

func (nl *Netlist[C]) mustBeOpen() {
	if nl.sealed {
		panic(ErrSealed)
	}
}

func (nl *Netlist[C]) append(o *object[C]) *object[C] {
	o.id = nl.nextID
	nl.nextID++
	nl.index[o.id] = len(nl.objs)
	nl.objs = append(nl.objs, o)
	return o
}

func (nl *Netlist[C]) at(id uint32) *object[C] {
	pos, ok := nl.index[id]
	if !ok {
		return nil
	}
	return nl.objs[pos]
}

// InsertInput appends a boundary input and returns its net.
func (nl *Netlist[C]) InsertInput(id circuit.Identifier) Net[C] {
	nl.mustBeOpen()
	o := nl.append(&object[C]{kind: objInput, name: id})
	return Net[C]{nl: nl, gen: nl.gen, kind: netInput, obj: o.id}
}

// InsertInputEscapedLogicBus appends width single-bit inputs named by bus
// index (name[0] .. name[width-1]) and returns their nets in index order.
// The bracketed names require escaping when emitted.
func (nl *Netlist[C]) InsertInputEscapedLogicBus(name string, width int) []Net[C] {
	nets := make([]Net[C], width)
	for i := range nets {
		nets[i] = nl.InsertInput(circuit.FormatID("%s[%d]", name, i))
	}
	return nets
}

// InsertGate validates that connections matches the cell's declared input
// ports, appends the instance, and binds each connection as the driver of
// the corresponding port. Identifier uniqueness is not checked here; it
// is deferred to Verify so bulk construction stays cheap.
func (nl *Netlist[C]) InsertGate(cell C, id circuit.Identifier, connections []Net[C]) (Instance[C], error) {
	nl.mustBeOpen()
	want := len(cell.InputPorts())
	if len(connections) != want {
		return Instance[C]{}, &ArgCountError{Want: want, Got: len(connections)}
	}
	conns := make([]driver, want)
	for i, c := range connections {
		conns[i] = nl.sourceOf(c)
	}
	o := nl.append(&object[C]{kind: objInstance, name: id, cell: cell, conns: conns})
	return Instance[C]{nl: nl, gen: nl.gen, obj: o.id}, nil
}

// InsertGateDisconnected appends the instance with every input port left
// undriven, for staged construction; connections are supplied later via
// Net.Connect.
func (nl *Netlist[C]) InsertGateDisconnected(cell C, id circuit.Identifier) Instance[C] {
	nl.mustBeOpen()
	conns := make([]driver, len(cell.InputPorts()))
	o := nl.append(&object[C]{kind: objInstance, name: id, cell: cell, conns: conns})
	return Instance[C]{nl: nl, gen: nl.gen, obj: o.id}
}

// InsertConstant constructs a constant-driver instance for val and returns
// its output net. It fails when the active cell family cannot represent
// the value.
func (nl *Netlist[C]) InsertConstant(val logic.State, id circuit.Identifier) (Net[C], error) {
	nl.mustBeOpen()
	if nl.constFn == nil {
		return Net[C]{}, ErrNoConstants
	}
	cell, ok := nl.constFn(val)
	if !ok {
		return Net[C]{}, ErrNoConstants
	}
	inst, err := nl.InsertGate(cell, id, nil)
	if err != nil {
		return Net[C]{}, err
	}
	return inst.Output(0), nil
}

// sourceOf resolves a caller-supplied net to its driver identity. Handing
// a stale, foreign, or undriven-port net to a wiring operation is a
// caller bug.
func (nl *Netlist[C]) sourceOf(n Net[C]) driver {
	if n.nl != nl || n.gen != nl.gen || nl.at(n.obj) == nil {
		panic("netlist: net does not belong to this netlist")
	}
	switch n.kind {
	case netInput:
		return driver{obj: n.obj, port: -1}
	case netDriven:
		return driver{obj: n.obj, port: n.port}
	default:
		panic("netlist: port net has no driver identity")
	}
}

// Objects lazily produces the ordered sequence of boundary inputs and
// instances, reflecting current membership.
func (nl *Netlist[C]) Objects() iter.Seq[Object[C]] {
	return func(yield func(Object[C]) bool) {
		for _, o := range nl.objs {
			if !yield(Object[C]{nl: nl, gen: nl.gen, obj: o.id}) {
				return
			}
		}
	}
}

// Inputs returns the boundary-input nets in insertion order.
func (nl *Netlist[C]) Inputs() []Net[C] {
	var nets []Net[C]
	for _, o := range nl.objs {
		if o.kind == objInput {
			nets = append(nets, Net[C]{nl: nl, gen: nl.gen, kind: netInput, obj: o.id})
		}
	}
	return nets
}

// First returns the first object in insertion order.
func (nl *Netlist[C]) First() (Object[C], bool) {
	if len(nl.objs) == 0 {
		return Object[C]{}, false
	}
	return Object[C]{nl: nl, gen: nl.gen, obj: nl.objs[0].id}, true
}

// Last returns the last object in insertion order.
func (nl *Netlist[C]) Last() (Object[C], bool) {
	if len(nl.objs) == 0 {
		return Object[C]{}, false
	}
	return Object[C]{nl: nl, gen: nl.gen, obj: nl.objs[len(nl.objs)-1].id}, true
}

// FindNet looks up a currently exposed output by the net's own display
// name (the input name or instance-port name), falling back to the
// exposure alias.
func (nl *Netlist[C]) FindNet(id circuit.Identifier) (Net[C], bool) {
	for _, e := range nl.exports {
		n := nl.netFor(e.src)
		if n.ID() == id || e.name == id {
			return n, true
		}
	}
	return Net[C]{}, false
}

func (nl *Netlist[C]) netFor(d driver) Net[C] {
	if d.port < 0 {
		return Net[C]{nl: nl, gen: nl.gen, kind: netInput, obj: d.obj}
	}
	return Net[C]{nl: nl, gen: nl.gen, kind: netDriven, obj: d.obj, port: d.port}
}

// Verify checks the structural invariants without mutating anything: the
// netlist exposes at least one output, exposed output names are unique,
// and instance identifiers are unique. The no-outputs check runs first so
// an empty interface is never masked by a uniqueness violation.
// Combinational feedback loops are not a validity violation here; see
// CombOrder for the opt-in cycle analysis.
func (nl *Netlist[C]) Verify() error {
	if len(nl.exports) == 0 {
		return ErrNoOutputs
	}
	if dup := duplicates(nl.exports, func(e export) circuit.Identifier { return e.name }); len(dup) > 0 {
		return &NonUniqueNetsError{Names: dup}
	}
	var insts []*object[C]
	for _, o := range nl.objs {
		if o.kind == objInstance {
			insts = append(insts, o)
		}
	}
	if dup := duplicates(insts, func(o *object[C]) circuit.Identifier { return o.name }); len(dup) > 0 {
		return &NonUniqueInstsError{IDs: dup}
	}
	return nil
}

func duplicates[T any](items []T, key func(T) circuit.Identifier) []circuit.Identifier {
	seen := make(map[circuit.Identifier]int, len(items))
	var dup []circuit.Identifier
	for _, it := range items {
		k := key(it)
		seen[k]++
		if seen[k] == 2 {
			dup = append(dup, k)
		}
	}
	return dup
}

// expose registers an output binding. Collisions surface at Verify time.
func (nl *Netlist[C]) expose(name circuit.Identifier, src driver) {
	nl.mustBeOpen()
	nl.exports = append(nl.exports, export{name: name, src: src})
}

// Exports returns the exposed output names in exposure order.
func (nl *Netlist[C]) Exports() []circuit.Identifier {
	names := make([]circuit.Identifier, len(nl.exports))
	for i, e := range nl.exports {
		names[i] = e.name
	}
	return names
}
