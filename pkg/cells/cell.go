package cells

import "github.com/OpenTraceLab/OpenTraceNetlist/pkg/netlist"

// Cell is a closed union over the example cell families. Exactly one
// field is set; the zero Cell is invalid. The capability-interface
// dispatch and the snapshot envelope codec are generated by instgen; the
// Lut variant is designated as the constant-capable family.
//
//go:generate go run github.com/OpenTraceLab/OpenTraceNetlist/cmd/instgen --type Cell --constant Lut --output cell_instgen.go .
type Cell struct {
	Lut      *Lut
	FlipFlop *FlipFlop
	Gate     *Gate
}

// CellNetlist is a netlist whose instances may be any of the example
// cell families.
type CellNetlist = netlist.Netlist[Cell]

// CellNet is a net handle into a CellNetlist.
type CellNet = netlist.Net[Cell]

// CellInstance is an instance handle into a CellNetlist.
type CellInstance = netlist.Instance[Cell]

// NewCellNetlist creates an empty mixed-family netlist with constant
// support through the designated Lut variant.
func NewCellNetlist(name string) *CellNetlist {
	return netlist.NewWithConstants(name, CellFromConstant)
}
