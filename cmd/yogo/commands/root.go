package commands

import (
	"github.com/spf13/cobra"

	"github.com/slowriot/yosys/internal/config"
	"github.com/slowriot/yosys/internal/log"
)

// Version is set by main before Execute runs; backends embed it in their
// output headers.
var Version = "dev"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "yogo",
	Short: "yogo - RTL synthesis netlist toolkit",
	Long: `yogo works on register-transfer-level designs: it loads them from JSON
or binary snapshots, optimizes them, and writes gate-level netlists.

Commands:
  read        Load a JSON design and write a binary snapshot
  write       Dump a snapshot back to JSON
  wreduce     Reduce the word size of operations where possible
  write-blif  Write the design to a BLIF netlist
  stat        Print design statistics

Use "yogo [command] --help" for more information about a command.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cfg, err := config.Load(); err == nil {
			if cfg.Verbose {
				log.Default().SetLevel(log.DebugLevel)
			} else {
				log.Default().SetLevel(log.ParseLevel(cfg.LogLevel))
			}
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.Default().SetLevel(log.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	// Add subcommands
	RootCmd.AddCommand(readCmd)
	RootCmd.AddCommand(writeCmd)
	RootCmd.AddCommand(wreduceCmd)
	RootCmd.AddCommand(writeBlifCmd)
	RootCmd.AddCommand(statCmd)
}
