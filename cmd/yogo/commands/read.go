package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slowriot/yosys/internal/log"
)

// readCmd represents the read command
var readCmd = &cobra.Command{
	Use:   "read <design.json>",
	Short: "Load a JSON design and write a binary snapshot",
	Long: `Reads a design in the JSON source form, validates its structural
invariants, and writes it back out as a binary snapshot that the other
commands consume.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = strings.TrimSuffix(args[0], ".json") + ".rtl"
		}

		design, err := loadDesign(args[0])
		if err != nil {
			return fmt.Errorf("reading design: %w", err)
		}

		if err := saveDesign(output, design); err != nil {
			return err
		}

		log.Default().Info("design loaded",
			"modules", len(design.Modules), "output", output)
		return nil
	},
}

func init() {
	readCmd.Flags().StringP("output", "o", "", "Snapshot output path (default: input with .rtl extension)")
}
