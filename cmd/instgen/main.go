// instgen generates the capability-interface dispatch for a closed union
// of cell variants: a struct with one pointer field per variant. For the
// named type it emits every netlist.Cell method delegating to the active
// variant, a FromConstant constructor delegating to the designated
// constant-capable variant, and a JSON envelope codec for snapshots.
//
// Typical use, from the package declaring the union:
//
//	//go:generate go run github.com/OpenTraceLab/OpenTraceNetlist/cmd/instgen --type Cell --constant Lut --output cell_instgen.go .
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	typeName     string
	constantName string
	outputFile   string
)

var rootCmd = &cobra.Command{
	Use:   "instgen [package dir]",
	Short: "Generate closed-union dispatch for netlist cell variants",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		if typeName == "" {
			return fmt.Errorf("--type is required")
		}
		union, err := scanUnion(dir, typeName)
		if err != nil {
			return err
		}
		if constantName != "" && !union.hasVariant(constantName) {
			return fmt.Errorf("constant variant %s is not a field of %s", constantName, typeName)
		}
		src, err := render(union, constantName)
		if err != nil {
			return err
		}
		if outputFile == "" {
			_, err = cmd.OutOrStdout().Write(src)
			return err
		}
		return os.WriteFile(outputFile, src, 0o644)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&typeName, "type", "", "union struct type to generate dispatch for")
	rootCmd.Flags().StringVar(&constantName, "constant", "", "variant field implementing constant cells")
	rootCmd.Flags().StringVar(&outputFile, "output", "", "output file (stdout when empty)")
}
