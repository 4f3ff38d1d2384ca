package circuit

// Net is a single-bit signal descriptor. Cells use Nets to declare their
// ports; the netlist package binds them to drivers when a cell is
// instantiated.
type Net struct {
	id Identifier
}

// NewLogic creates a single-bit net with the given name.
func NewLogic(id Identifier) Net {
	return Net{id: id}
}

// ID returns the net's name.
func (n Net) ID() Identifier {
	return n.id
}

func (n Net) String() string {
	return n.id.String()
}
