// Package testutil holds test-only helpers shared across package suites.
package testutil

import (
	"strings"
	"testing"
)

// RequireVerilogEq compares two Verilog texts line by line, ignoring
// indentation and blank lines, and fails the test on the first mismatch.
func RequireVerilogEq(t *testing.T, got, want string) {
	t.Helper()
	gotLines := significantLines(got)
	wantLines := significantLines(want)
	n := len(gotLines)
	if len(wantLines) < n {
		n = len(wantLines)
	}
	for i := 0; i < n; i++ {
		if gotLines[i] != wantLines[i] {
			t.Fatalf("verilog mismatch at line %d:\n  got:  %s\n  want: %s\n\nfull output:\n%s",
				i+1, gotLines[i], wantLines[i], got)
		}
	}
	if len(gotLines) != len(wantLines) {
		t.Fatalf("verilog length mismatch: got %d significant lines, want %d\n\nfull output:\n%s",
			len(gotLines), len(wantLines), got)
	}
}

func significantLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
