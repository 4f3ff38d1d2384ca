package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"text/template"

	"golang.org/x/tools/imports"
)

// union describes a closed sum-of-variants struct: one pointer field per
// variant cell type.
type union struct {
	Package  string
	Type     string
	Variants []variant
}

type variant struct {
	Field string // field name in the union struct
	Type  string // pointed-to cell type
}

func (u *union) hasVariant(field string) bool {
	for _, v := range u.Variants {
		if v.Field == field {
			return true
		}
	}
	return false
}

// scanUnion parses the package in dir and extracts the variant fields of
// the named struct. Every field must be a pointer to a named type.
func scanUnion(dir, typeName string) (*union, error) {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, dir, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", dir, err)
	}
	for _, pkg := range pkgs {
		for _, file := range pkg.Files {
			for _, decl := range file.Decls {
				gd, ok := decl.(*ast.GenDecl)
				if !ok || gd.Tok != token.TYPE {
					continue
				}
				for _, s := range gd.Specs {
					ts := s.(*ast.TypeSpec)
					if ts.Name.Name != typeName {
						continue
					}
					st, ok := ts.Type.(*ast.StructType)
					if !ok {
						return nil, fmt.Errorf("%s is not a struct type", typeName)
					}
					return buildUnion(pkg.Name, typeName, st)
				}
			}
		}
	}
	return nil, fmt.Errorf("type %s not found in %s", typeName, dir)
}

func buildUnion(pkgName, typeName string, st *ast.StructType) (*union, error) {
	u := &union{Package: pkgName, Type: typeName}
	for _, f := range st.Fields.List {
		ptr, ok := f.Type.(*ast.StarExpr)
		if !ok {
			return nil, fmt.Errorf("%s: variant fields must be pointers", typeName)
		}
		ident, ok := ptr.X.(*ast.Ident)
		if !ok {
			return nil, fmt.Errorf("%s: variant fields must point to package-local types", typeName)
		}
		for _, name := range f.Names {
			u.Variants = append(u.Variants, variant{Field: name.Name, Type: ident.Name})
		}
	}
	if len(u.Variants) == 0 {
		return nil, fmt.Errorf("%s has no variant fields", typeName)
	}
	return u, nil
}

var genTemplate = template.Must(template.New("instgen").Parse(`// Code generated by instgen; DO NOT EDIT.

package {{.U.Package}}

import (
	"encoding/json"
	"fmt"
	"iter"

	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/attribute"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/logic"
	"github.com/OpenTraceLab/OpenTraceNetlist/pkg/netlist"
)

// active returns the set variant. Exactly one field of {{.U.Type}} must be set.
func (u {{.U.Type}}) active() netlist.Cell {
	switch {
{{- range .U.Variants}}
	case u.{{.Field}} != nil:
		return u.{{.Field}}
{{- end}}
	}
	panic("{{.U.Package}}: empty {{.U.Type}} union")
}

func (u {{.U.Type}}) Name() circuit.Identifier {
	return u.active().Name()
}

func (u {{.U.Type}}) InputPorts() []circuit.Net {
	return u.active().InputPorts()
}

func (u {{.U.Type}}) OutputPorts() []circuit.Net {
	return u.active().OutputPorts()
}

func (u {{.U.Type}}) HasParameter(id circuit.Identifier) bool {
	return u.active().HasParameter(id)
}

func (u {{.U.Type}}) Parameter(id circuit.Identifier) (attribute.Parameter, bool) {
	return u.active().Parameter(id)
}

func (u {{.U.Type}}) SetParameter(id circuit.Identifier, val attribute.Parameter) (attribute.Parameter, bool) {
	return u.active().SetParameter(id, val)
}

func (u {{.U.Type}}) Parameters() iter.Seq2[circuit.Identifier, attribute.Parameter] {
	return u.active().Parameters()
}

func (u {{.U.Type}}) Constant() (logic.State, bool) {
	return u.active().Constant()
}

func (u {{.U.Type}}) IsSeq() bool {
	return u.active().IsSeq()
}
{{if .Constant}}
// {{.U.Type}}FromConstant builds a {{.U.Type}} representing a fixed boolean drive,
// delegating to the designated constant-capable variant ({{.Constant}}).
func {{.U.Type}}FromConstant(val logic.State) ({{.U.Type}}, bool) {
	v, ok := {{.Constant}}FromConstant(val)
	if !ok {
		return {{.U.Type}}{}, false
	}
	return {{.U.Type}}{ {{.Constant}}: v}, true
}
{{end}}
type {{.EnvName}} struct {
	Kind string          ` + "`json:\"kind\"`" + `
	Cell json.RawMessage ` + "`json:\"cell\"`" + `
}

func (u {{.U.Type}}) MarshalJSON() ([]byte, error) {
	var (
		kind string
		v    any
	)
	switch {
{{- range .U.Variants}}
	case u.{{.Field}} != nil:
		kind, v = "{{.Field}}", u.{{.Field}}
{{- end}}
	default:
		return nil, fmt.Errorf("{{.U.Package}}: empty {{.U.Type}} union")
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal({{.EnvName}}{Kind: kind, Cell: raw})
}

func (u *{{.U.Type}}) UnmarshalJSON(data []byte) error {
	var env {{.EnvName}}
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	*u = {{.U.Type}}{}
	switch env.Kind {
{{- range .U.Variants}}
	case "{{.Field}}":
		u.{{.Field}} = new({{.Type}})
		return json.Unmarshal(env.Cell, u.{{.Field}})
{{- end}}
	}
	return fmt.Errorf("{{.U.Package}}: unknown {{.U.Type}} variant %q", env.Kind)
}
`))

// render executes the template and normalizes the result with the same
// import-aware formatting gofmt tooling applies.
func render(u *union, constant string) ([]byte, error) {
	var buf bytes.Buffer
	err := genTemplate.Execute(&buf, struct {
		U        *union
		Constant string
		EnvName  string
	}{U: u, Constant: constant, EnvName: lowerFirst(u.Type) + "Envelope"})
	if err != nil {
		return nil, err
	}
	src, err := imports.Process("instgen.go", buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("format generated code: %w", err)
	}
	return src, nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]|0x20) + s[1:]
}
