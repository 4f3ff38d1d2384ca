package netlist

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/circuit"
)

// Sentinel errors for conditions that carry no payload.
var (
	// ErrNoOutputs is reported by Verify on a netlist with no exposed outputs.
	ErrNoOutputs = errors.New("netlist: no outputs in netlist")
	// ErrNotDriven is reported when a rewiring operation is handed a net
	// whose shape gives it no stable driver identity.
	ErrNotDriven = errors.New("netlist: net is not a driven net")
	// ErrSealed is reported when a reclaimed netlist is mutated.
	ErrSealed = errors.New("netlist: netlist has been reclaimed")
	// ErrNoConstants is reported by InsertConstant when the cell family
	// cannot represent the requested value.
	ErrNoConstants = errors.New("netlist: cell family cannot represent constant")
)

// CycleError reports a dependency cycle found by an opt-in analysis. It
// carries the names of the nets on the cycle.
type CycleError struct {
	Nets []circuit.Identifier
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("netlist: cycles detected along nets %v", e.Nets)
}

// NonUniqueNetsError reports exposed output names used more than once.
type NonUniqueNetsError struct {
	Names []circuit.Identifier
}

func (e *NonUniqueNetsError) Error() string {
	return fmt.Sprintf("netlist: non-unique nets: %v", e.Names)
}

// NonUniqueInstsError reports instance identifiers used more than once.
type NonUniqueInstsError struct {
	IDs []circuit.Identifier
}

func (e *NonUniqueInstsError) Error() string {
	return fmt.Sprintf("netlist: non-unique instances: %v", e.IDs)
}

// DanglingRefError reports an operation that would leave nets referenced
// after their owning structure is gone.
type DanglingRefError struct {
	Nets []circuit.Identifier
}

func (e *DanglingRefError) Error() string {
	return fmt.Sprintf("netlist: dangling reference to nets %v", e.Nets)
}

// ArgCountError reports a connection count that does not match the cell's
// declared input ports.
type ArgCountError struct {
	Want, Got int
}

func (e *ArgCountError) Error() string {
	return fmt.Sprintf("netlist: expected %d arguments, got %d", e.Want, e.Got)
}

// InputNeedsAliasError reports an attempt to expose a boundary input as an
// output without an intermediate name.
type InputNeedsAliasError struct {
	Net circuit.Identifier
}

func (e *InputNeedsAliasError) Error() string {
	return fmt.Sprintf("netlist: input net %s needs an alias to be an output", e.Net)
}

// NetNotFoundError reports a failed net lookup.
type NetNotFoundError struct {
	Net circuit.Identifier
}

func (e *NetNotFoundError) Error() string {
	return fmt.Sprintf("netlist: expected to find net %s in netlist", e.Net)
}

// CellError reports an inconsistency in a Cell implementation.
type CellError struct {
	Msg string
}

func (e *CellError) Error() string {
	return fmt.Sprintf("netlist: error in the cell interface: %s", e.Msg)
}
