package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slowriot/yosys/internal/config"
	"github.com/slowriot/yosys/pkg/blif"
)

// writeBlifCmd represents the write-blif command
var writeBlifCmd = &cobra.Command{
	Use:   "write-blif <design.rtl> [output.blif]",
	Short: "Write the design to a BLIF netlist",
	Long: `Writes the design as a Berkeley Logic Interchange Format netlist,
one .model block per non-blackbox module. Builtin gate primitives are
translated to .names and .latch constructs unless --icells is given.

The --conn, --param, and --icells outputs use nonstandard statements;
files using them are best not named *.blif.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		design, err := loadDesign(args[0])
		if err != nil {
			return fmt.Errorf("reading design: %w", err)
		}

		cfg := blif.Config{Version: "yogo " + Version}

		// config file defaults, overridden by flags below
		if fileCfg, err := config.Load(); err == nil {
			if design.TopModule() == nil {
				cfg.TopModule = fileCfg.TopModule
			}
			cfg.ICells = fileCfg.BlifFlavor == config.FlavorICells
			cfg.Conn = fileCfg.BlifConn
			cfg.Param = fileCfg.BlifParam
		}

		if top, _ := cmd.Flags().GetString("top"); top != "" {
			cfg.TopModule = top
		}
		if buf, _ := cmd.Flags().GetString("buf"); buf != "" {
			fields := strings.Fields(buf)
			if len(fields) != 3 {
				return fmt.Errorf("--buf wants \"<cell-type> <in-port> <out-port>\", got %q", buf)
			}
			cfg.BufType, cfg.BufIn, cfg.BufOut = fields[0], fields[1], fields[2]
		}
		if v, _ := cmd.Flags().GetString("true"); v != "" {
			fields := strings.Fields(v)
			if len(fields) != 2 {
				return fmt.Errorf("--true wants \"<cell-type> <out-port>\", got %q", v)
			}
			cfg.TrueType, cfg.TrueOut = fields[0], fields[1]
		}
		if v, _ := cmd.Flags().GetString("false"); v != "" {
			fields := strings.Fields(v)
			if len(fields) != 2 {
				return fmt.Errorf("--false wants \"<cell-type> <out-port>\", got %q", v)
			}
			cfg.FalseType, cfg.FalseOut = fields[0], fields[1]
		}
		if v, _ := cmd.Flags().GetBool("icells"); v {
			cfg.ICells = true
		}
		if v, _ := cmd.Flags().GetBool("gates"); v {
			cfg.Gates = true
		}
		if v, _ := cmd.Flags().GetBool("conn"); v {
			cfg.Conn = true
		}
		if v, _ := cmd.Flags().GetBool("param"); v {
			cfg.Param = true
		}
		if v, _ := cmd.Flags().GetBool("impltf"); v {
			cfg.Impltf = true
		}

		if len(args) == 1 {
			return blif.Write(os.Stdout, design, cfg)
		}

		f, err := os.Create(args[1])
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		return blif.Write(f, design, cfg)
	},
}

func init() {
	writeBlifCmd.Flags().String("top", "", "Set the top module; it is emitted first")
	writeBlifCmd.Flags().String("buf", "", "Use cells of \"<cell-type> <in-port> <out-port>\" for buffers")
	writeBlifCmd.Flags().String("true", "", "Drive constant-1 nets with \"<cell-type> <out-port>\"")
	writeBlifCmd.Flags().String("false", "", "Drive constant-0 nets with \"<cell-type> <out-port>\"")
	writeBlifCmd.Flags().Bool("icells", false, "Do not translate builtin gates; emit .subckt/.gate for all cells")
	writeBlifCmd.Flags().Bool("gates", false, "Emit .gate instead of .subckt for cells that are not design modules")
	writeBlifCmd.Flags().Bool("conn", false, "Emit nonstandard .conn statements instead of buffers")
	writeBlifCmd.Flags().Bool("param", false, "Emit nonstandard .param statements for cell parameters")
	writeBlifCmd.Flags().Bool("impltf", false, "Omit the $true / $false definitions")
}
