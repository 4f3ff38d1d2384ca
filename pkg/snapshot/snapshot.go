// Package snapshot persists a reclaimed netlist design to JSON and
// rebuilds a live netlist from one. It consumes only the exported data
// model: object order, cell payloads, port connections, attributes, and
// output exposures. Cell payloads go through a caller-supplied codec so
// any cell family with a serialized form can ride along.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/netlist"
)

// Codec encodes and decodes one cell family's payloads.
type Codec[C netlist.Cell] struct {
	Encode func(C) (json.RawMessage, error)
	Decode func(json.RawMessage) (C, error)
}

// DefaultCodec routes cell payloads through their own JSON marshaling.
// It fits any family whose cell type implements json.Marshaler and whose
// pointer implements json.Unmarshaler.
func DefaultCodec[C netlist.Cell]() Codec[C] {
	return Codec[C]{
		Encode: func(c C) (json.RawMessage, error) {
			return json.Marshal(c)
		},
		Decode: func(raw json.RawMessage) (C, error) {
			var c C
			err := json.Unmarshal(raw, &c)
			return c, err
		},
	}
}

type connJSON struct {
	Object int `json:"object"`
	Port   int `json:"port"`
}

type attrJSON struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
	Flag  bool   `json:"flag,omitempty"`
}

type objectJSON struct {
	Kind  string          `json:"kind"`
	Name  string          `json:"name"`
	Cell  json.RawMessage `json:"cell,omitempty"`
	Conns []connJSON      `json:"conns,omitempty"`
	Attrs []attrJSON      `json:"attrs,omitempty"`
}

type exportJSON struct {
	Name   string `json:"name"`
	Object int    `json:"object"`
	Port   int    `json:"port"`
}

type fileJSON struct {
	Name    string       `json:"name"`
	Objects []objectJSON `json:"objects"`
	Exports []exportJSON `json:"exports"`
}

// Write serializes a sealed design.
func Write[C netlist.Cell](w io.Writer, d *netlist.Design[C], codec Codec[C]) error {
	out := fileJSON{Name: d.Name()}
	for i := 0; i < d.Size(); i++ {
		if d.IsInput(i) {
			out.Objects = append(out.Objects, objectJSON{Kind: "input", Name: d.ObjectID(i).Name()})
			continue
		}
		raw, err := codec.Encode(d.Cell(i))
		if err != nil {
			return fmt.Errorf("snapshot: encode cell of %s: %w", d.ObjectID(i), err)
		}
		o := objectJSON{Kind: "instance", Name: d.ObjectID(i).Name(), Cell: raw}
		for _, c := range d.Conns(i) {
			o.Conns = append(o.Conns, connJSON(c))
		}
		for _, a := range d.Attrs(i) {
			o.Attrs = append(o.Attrs, attrJSON{Key: a.Key(), Value: a.Value(), Flag: a.IsFlag()})
		}
		out.Objects = append(out.Objects, o)
	}
	for _, e := range d.Exports() {
		out.Exports = append(out.Exports, exportJSON{Name: e.Name.Name(), Object: e.Object, Port: e.Port})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Read rebuilds a live, mutable netlist from a serialized design. The
// constants factory may be nil for families without constant cells.
func Read[C netlist.Cell](r io.Reader, constants netlist.ConstantFactory[C], codec Codec[C]) (*netlist.Netlist[C], error) {
	var in fileJSON
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}

	var nl *netlist.Netlist[C]
	if constants != nil {
		nl = netlist.NewWithConstants(in.Name, constants)
	} else {
		nl = netlist.New[C](in.Name)
	}

	// First pass: materialize objects disconnected so forward references
	// between instances resolve in the second pass.
	nets := make([]netlist.Net[C], len(in.Objects))
	insts := make([]netlist.Instance[C], len(in.Objects))
	isInput := make([]bool, len(in.Objects))
	for i, o := range in.Objects {
		switch o.Kind {
		case "input":
			nets[i] = nl.InsertInput(circuit.NewID(o.Name))
			isInput[i] = true
		case "instance":
			cell, err := codec.Decode(o.Cell)
			if err != nil {
				return nil, fmt.Errorf("snapshot: decode cell of %s: %w", o.Name, err)
			}
			insts[i] = nl.InsertGateDisconnected(cell, circuit.NewID(o.Name))
			for _, a := range o.Attrs {
				if a.Flag {
					insts[i].SetAttribute(a.Key)
				} else {
					insts[i].InsertAttribute(a.Key, a.Value)
				}
			}
		default:
			return nil, fmt.Errorf("snapshot: unknown object kind %q", o.Kind)
		}
	}

	resolve := func(c connJSON) (netlist.Net[C], error) {
		if c.Object < 0 || c.Object >= len(in.Objects) {
			return netlist.Net[C]{}, fmt.Errorf("snapshot: connection references object %d of %d", c.Object, len(in.Objects))
		}
		if isInput[c.Object] {
			return nets[c.Object], nil
		}
		return insts[c.Object].Output(c.Port), nil
	}

	for i, o := range in.Objects {
		for port, c := range o.Conns {
			if c.Object < 0 {
				continue // stayed undriven
			}
			src, err := resolve(c)
			if err != nil {
				return nil, err
			}
			insts[i].Input(port).Connect(src)
		}
	}

	for _, e := range in.Exports {
		src, err := resolve(connJSON{Object: e.Object, Port: e.Port})
		if err != nil {
			return nil, err
		}
		src.ExposeWithName(circuit.NewID(e.Name))
	}
	return nl, nil
}
