package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/slowriot/yosys/pkg/rtlir"
)

// writeCmd represents the write command
var writeCmd = &cobra.Command{
	Use:   "write <design.rtl>",
	Short: "Dump a snapshot back to JSON",
	Long:  `Reads a binary design snapshot and prints its JSON source form.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		design, err := loadDesign(args[0])
		if err != nil {
			return fmt.Errorf("reading design: %w", err)
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			return rtlir.WriteJSON(os.Stdout, design)
		}

		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		return rtlir.WriteJSON(f, design)
	},
}

func init() {
	writeCmd.Flags().StringP("output", "o", "", "JSON output path (default: stdout)")
}
