package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestScanUnion(t *testing.T) {
	u, err := scanUnion(filepath.Join("..", "..", "pkg", "cells"), "Cell")
	if err != nil {
		t.Fatal(err)
	}
	if u.Package != "cells" {
		t.Errorf("package = %q, want cells", u.Package)
	}
	got := make([]string, len(u.Variants))
	for i, v := range u.Variants {
		got[i] = v.Field
	}
	want := []string{"Lut", "FlipFlop", "Gate"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("variants = %v, want %v", got, want)
	}
	if !u.hasVariant("Lut") || u.hasVariant("Latch") {
		t.Error("hasVariant misreports membership")
	}
}

func TestScanUnionMissingType(t *testing.T) {
	if _, err := scanUnion(".", "NoSuchUnion"); err == nil {
		t.Fatal("expected an error for a missing type")
	}
}

func TestScanUnionRejectsValueFields(t *testing.T) {
	dir := t.TempDir()
	src := "package bad\n\ntype Mix struct {\n\tA int\n}\n"
	if err := os.WriteFile(filepath.Join(dir, "bad.go"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := scanUnion(dir, "Mix")
	if err == nil || !strings.Contains(err.Error(), "must be pointers") {
		t.Fatalf("err = %v, want pointer-field rejection", err)
	}
}

func TestRenderMatchesCheckedInOutput(t *testing.T) {
	u, err := scanUnion(filepath.Join("..", "..", "pkg", "cells"), "Cell")
	if err != nil {
		t.Fatal(err)
	}
	src, err := render(u, "Lut")
	if err != nil {
		t.Fatal(err)
	}
	got := string(src)

	for _, sig := range []string{
		"func (u Cell) Name() circuit.Identifier",
		"func (u Cell) Parameters() iter.Seq2[circuit.Identifier, attribute.Parameter]",
		"func (u Cell) IsSeq() bool",
		"func CellFromConstant(val logic.State) (Cell, bool)",
		"type cellEnvelope struct",
		"func (u *Cell) UnmarshalJSON(data []byte) error",
	} {
		if !strings.Contains(got, sig) {
			t.Errorf("generated output missing %q", sig)
		}
	}

	// The checked-in dispatch file must be regeneration-stable.
	checked, err := os.ReadFile(filepath.Join("..", "..", "pkg", "cells", "cell_instgen.go"))
	if err != nil {
		t.Fatal(err)
	}
	if squeeze(got) != squeeze(string(checked)) {
		t.Error("cell_instgen.go is stale; rerun go generate ./pkg/cells")
	}
}

// squeeze collapses whitespace runs so the comparison tracks content, not
// formatting.
func squeeze(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
