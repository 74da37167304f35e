package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/slowriot/yosys/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize yogo configuration interactively",
	Long: `Guides you through setting up yogo configuration step by step.
Creates a config file with the default top module, BLIF output flavor,
and logging settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit()
	},
}

func runInit() error {
	// === SECTION 1: BLIF output ===
	var flavorChoice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("BLIF flavor - How write-blif renders builtin gates by default").
				Description("Select the default output dialect").
				Options(
					huh.NewOption("Standard (.names / .latch)", string(config.FlavorStandard)),
					huh.NewOption("Internal cells (.subckt / .gate)", string(config.FlavorICells)),
				).
				Value(&flavorChoice),
		),
	)
	err := form.Run()
	if err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	var useParam bool
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Parameter statements").
				Description("Record cell parameters with nonstandard .param lines?").
				Affirmative("Yes, emit .param").
				Negative("No, standard output only").
				Value(&useParam),
		),
	)
	err = form.Run()
	if err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	// === SECTION 2: Design defaults ===
	topModule := ""
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Default top module (optional, press Enter to skip)").
				Placeholder("optional").
				Value(&topModule),
		),
	)
	err = form.Run()
	if err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	logLevel := "info"
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("info", "info"),
					huh.NewOption("debug", "debug"),
					huh.NewOption("warn", "warn"),
					huh.NewOption("error", "error"),
				).
				Value(&logLevel),
		),
	)
	err = form.Run()
	if err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	// === SECTION 3: Config Location ===
	var saveLocationChoice string
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Save Configuration").
				Description("Where to save the configuration file?").
				Options(
					huh.NewOption("Global (~/.yogo/config.yaml)", "global"),
					huh.NewOption("Project (./.yogo/config.yaml)", "project"),
				).
				Value(&saveLocationChoice),
		),
	)
	err = form.Run()
	if err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	// Determine save path
	var configPath string
	if saveLocationChoice == "global" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}
		configPath = filepath.Join(home, ".yogo", "config.yaml")
	} else {
		configPath = ".yogo/config.yaml"
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Config file exists").
					Description(fmt.Sprintf("Overwrite existing config at %s?", configPath)).
					Affirmative("Overwrite").
					Negative("Cancel").
					Value(&overwrite),
			),
		)
		err = form.Run()
		if err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	// === Build config struct ===
	cfg := config.DefaultConfig()
	cfg.BlifFlavor = config.BlifFlavor(flavorChoice)
	cfg.BlifParam = useParam
	cfg.TopModule = topModule
	cfg.LogLevel = logLevel

	// Validate config before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Show config preview
	fmt.Println("\n=== Configuration Preview ===")
	fmt.Printf("Config path: %s\n", configPath)
	fmt.Printf("BLIF flavor: %s\n", cfg.BlifFlavor)
	fmt.Printf("Emit .param: %v\n", cfg.BlifParam)
	if cfg.TopModule != "" {
		fmt.Printf("Top module: %s\n", cfg.TopModule)
	} else {
		fmt.Println("Top module: (from design attributes)")
	}
	fmt.Printf("Log level: %s\n", cfg.LogLevel)
	fmt.Println("================================")

	// Save config
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("Configuration saved to: %s\n", configPath)

	return nil
}

func init() {
	RootCmd.AddCommand(initCmd)
}
