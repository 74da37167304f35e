package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slowriot/yosys/internal/log"
	"github.com/slowriot/yosys/pkg/opt/wreduce"
	"github.com/slowriot/yosys/pkg/rtlir"
)

// wreduceCmd represents the wreduce command
var wreduceCmd = &cobra.Command{
	Use:   "wreduce <design.rtl> [selection...]",
	Short: "Reduce the word size of operations where possible",
	Long: `Runs the word-width reduction pass. It shrinks the bit-widths of
arithmetic, logic, and multiplexer cells when upper bits are provably
unused or redundant. For example it will replace the 32 bit adders in
the following code with adders of more appropriate widths:

    module test(input [3:0] a, b, c, output [7:0] y);
        assign y = a + b + c + 1;
    endmodule

Positional arguments after the design select modules ("mod") or single
members ("mod/cell"); with no selection the whole design is processed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		design, err := loadDesign(args[0])
		if err != nil {
			return fmt.Errorf("reading design: %w", err)
		}

		sel := rtlir.ParseSelection(args[1:])

		if err := wreduce.Run(design, sel, log.Default()); err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = args[0]
		}
		return saveDesign(output, design)
	},
}

func init() {
	wreduceCmd.Flags().StringP("output", "o", "", "Snapshot output path (default: rewrite input in place)")
}
