package netlist

import (
	"fmt"
	"strings"
)

// Verilog emits the netlist as a structural Verilog module: the port
// header (inputs in insertion order, then outputs in exposure order),
// input/output and wire declarations, one statement block per instance,
// and one assign per exposed output. Constant-driver instances are not
// emitted; their uses render as four-state literals. An undriven port
// reached during emission is an error; emission assumes Verify passed or
// the netlist is at least internally consistent.
func (nl *Netlist[C]) Verilog() (string, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "module %s (\n", nl.name)
	var ports []string
	for _, o := range nl.objs {
		if o.kind == objInput {
			ports = append(ports, o.name.Verilog())
		}
	}
	for _, e := range nl.exports {
		ports = append(ports, e.name.Verilog())
	}
	for i, p := range ports {
		sep := ","
		if i == len(ports)-1 {
			sep = ""
		}
		fmt.Fprintf(&sb, "  %s%s\n", p, sep)
	}
	sb.WriteString(");\n")

	for _, o := range nl.objs {
		if o.kind == objInput {
			fmt.Fprintf(&sb, "  input %s;\n", o.name.Verilog())
			fmt.Fprintf(&sb, "  wire %s;\n", o.name.Verilog())
		}
	}
	for _, e := range nl.exports {
		fmt.Fprintf(&sb, "  output %s;\n", e.name.Verilog())
		fmt.Fprintf(&sb, "  wire %s;\n", e.name.Verilog())
	}

	// One wire per output port of every emitted instance.
	for _, o := range nl.objs {
		if o.kind != objInstance || nl.isConstant(o) {
			continue
		}
		for _, p := range o.cell.OutputPorts() {
			fmt.Fprintf(&sb, "  wire %s;\n", o.name.Concat(p.ID()).Verilog())
		}
	}

	for _, o := range nl.objs {
		if o.kind != objInstance || nl.isConstant(o) {
			continue
		}
		if err := nl.emitInstance(&sb, o); err != nil {
			return "", err
		}
	}

	for _, e := range nl.exports {
		src, err := nl.driverName(e.src)
		if err != nil {
			return "", fmt.Errorf("output %s: %w", e.name, err)
		}
		fmt.Fprintf(&sb, "  assign %s = %s;\n", e.name.Verilog(), src)
	}

	sb.WriteString("endmodule\n")
	return sb.String(), nil
}

// String renders the Verilog form; emission failures render as an error
// comment so the Stringer contract holds.
func (nl *Netlist[C]) String() string {
	s, err := nl.Verilog()
	if err != nil {
		return fmt.Sprintf("// emission failed: %v\n", err)
	}
	return s
}

func (nl *Netlist[C]) emitInstance(sb *strings.Builder, o *object[C]) error {
	for _, a := range o.attrs {
		fmt.Fprintf(sb, "  %s\n", a.Comment())
	}

	var params []string
	for id, val := range o.cell.Parameters() {
		params = append(params, fmt.Sprintf(".%s(%s)", id.Verilog(), val))
	}
	if len(params) > 0 {
		fmt.Fprintf(sb, "  %s #(\n", o.cell.Name().Verilog())
		for i, p := range params {
			sep := ","
			if i == len(params)-1 {
				sep = ""
			}
			fmt.Fprintf(sb, "    %s%s\n", p, sep)
		}
		fmt.Fprintf(sb, "  ) %s (\n", o.name.Verilog())
	} else {
		fmt.Fprintf(sb, "  %s %s (\n", o.cell.Name().Verilog(), o.name.Verilog())
	}

	ins := o.cell.InputPorts()
	outs := o.cell.OutputPorts()
	total := len(ins) + len(outs)
	for i, p := range ins {
		src, err := nl.driverName(o.conns[i])
		if err != nil {
			return fmt.Errorf("instance %s port %s: %w", o.name, p.ID(), err)
		}
		sep := ","
		if i == total-1 {
			sep = ""
		}
		fmt.Fprintf(sb, "    .%s(%s)%s\n", p.ID().Verilog(), src, sep)
	}
	for i, p := range outs {
		sep := ","
		if len(ins)+i == total-1 {
			sep = ""
		}
		wire := o.name.Concat(p.ID()).Verilog()
		fmt.Fprintf(sb, "    .%s(%s)%s\n", p.ID().Verilog(), wire, sep)
	}
	sb.WriteString("  );\n")
	return nil
}

// driverName resolves a driver to its emitted spelling: the input name, a
// constant literal, or the instance-output wire name.
func (nl *Netlist[C]) driverName(d driver) (string, error) {
	if !d.valid() {
		return "", fmt.Errorf("undriven port reached during emission")
	}
	o := nl.at(d.obj)
	if o == nil {
		return "", fmt.Errorf("driver references a removed object")
	}
	if o.kind == objInput {
		return o.name.Verilog(), nil
	}
	if val, ok := o.cell.Constant(); ok {
		return val.String(), nil
	}
	return o.name.Concat(o.cell.OutputPorts()[d.port].ID()).Verilog(), nil
}

func (nl *Netlist[C]) isConstant(o *object[C]) bool {
	if o.kind != objInstance {
		return false
	}
	_, ok := o.cell.Constant()
	return ok
}
