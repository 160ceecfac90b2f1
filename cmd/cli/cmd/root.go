// Package cmd provides the CLI commands for part-cost.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"part-cost/internal/config"
	"part-cost/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "part-cost",
	Short: "Price manufactured parts from quote configurations",
	Long: `part-cost is a deterministic manufacturing-quote pricing tool.

It runs an ordered chain of cost factors (material, machining, tolerance,
features, finish, risk, quantity, lead time) over a quote configuration and
produces an itemized, auditable price.

Examples:
  part-cost price --file quote.json
  part-cost price --process CNC-MILL-3AX --material aluminum_6061 --qty 10 \
    --volume 100000 --area 50000 --bbox 100,50,20
  part-cost price --file quote.json --format json`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.part-cost.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("part-cost version 0.1.0")
	},
}
