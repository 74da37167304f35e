package commands

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/slowriot/yosys/pkg/rtlir"
)

// ModuleStats summarizes one module for JSON output
type ModuleStats struct {
	Name        string         `json:"name"`
	Wires       int            `json:"wires"`
	WireBits    int            `json:"wire_bits"`
	Ports       int            `json:"ports"`
	PortBits    int            `json:"port_bits"`
	Cells       int            `json:"cells"`
	CellsByType map[string]int `json:"cells_by_type,omitempty"`
	Connections int            `json:"connections"`
}

// statCmd represents the stat command
var statCmd = &cobra.Command{
	Use:   "stat <design.rtl>",
	Short: "Print design statistics",
	Long:  `Prints per-module wire, port, and cell counts plus a cell-type histogram.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		design, err := loadDesign(args[0])
		if err != nil {
			return fmt.Errorf("reading design: %w", err)
		}

		var stats []ModuleStats
		for _, m := range design.SortedModules() {
			stats = append(stats, collectStats(m))
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			data, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		for _, s := range stats {
			fmt.Printf("=== %s ===\n", rtlir.UnescapeID(s.Name))
			fmt.Printf("   wires:       %6d (%d bits)\n", s.Wires, s.WireBits)
			fmt.Printf("   ports:       %6d (%d bits)\n", s.Ports, s.PortBits)
			fmt.Printf("   connections: %6d\n", s.Connections)
			fmt.Printf("   cells:       %6d\n", s.Cells)

			types := make([]string, 0, len(s.CellsByType))
			for typ := range s.CellsByType {
				types = append(types, typ)
			}
			sort.Strings(types)
			for _, typ := range types {
				fmt.Printf("     %-20s %4d\n", rtlir.UnescapeID(typ), s.CellsByType[typ])
			}
			fmt.Println()
		}
		return nil
	},
}

func collectStats(m *rtlir.Module) ModuleStats {
	s := ModuleStats{
		Name:        m.Name,
		Cells:       len(m.Cells),
		Connections: len(m.Connections),
		CellsByType: make(map[string]int),
	}
	for _, w := range m.Wires {
		s.Wires++
		s.WireBits += w.Width
		if w.PortID > 0 {
			s.Ports++
			s.PortBits += w.Width
		}
	}
	for _, c := range m.Cells {
		s.CellsByType[c.Type]++
	}
	if len(s.CellsByType) == 0 {
		s.CellsByType = nil
	}
	return s
}

func init() {
	statCmd.Flags().BoolP("json", "j", false, "Output as JSON")
}
