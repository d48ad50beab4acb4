package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/asn1spec/internal/split"
	"github.com/pdiddy/asn1spec/pkg/types"
)

var splitCmd = &cobra.Command{
	Use:   "split [input]",
	Short: "Write each ASN.1 definition to its own file",
	Long: `Split scans the input document for "-- ASN1START" / "-- ASN1STOP"
marker pairs and writes each definition to its own file under the output
directory. Files are named after the definition's heading, the last
non-empty line before the start marker (e.g. "TDD-Config information
element.txt"). Duplicate headings get a numeric suffix.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSplit,
}

func runSplit(cmd *cobra.Command, args []string) error {
	cfg := splitConfig(cmd, args)
	if cfg.InputFile == "" {
		return fmt.Errorf("input file required: pass it as an argument or set split.input in the config")
	}

	summary, err := split.File(cfg, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Printf("split %d blocks into %s", summary.Written, cfg.OutDir)
	if summary.Skipped > 0 {
		fmt.Printf(" (%d skipped)", summary.Skipped)
	}
	fmt.Println()
	return nil
}

// splitConfig assembles the splitting settings from flags, arguments, and
// the config file.
func splitConfig(cmd *cobra.Command, args []string) types.SplitConfig {
	inputPath := viper.GetString("split.input")
	if len(args) > 0 {
		inputPath = args[0]
	}
	outDir, _ := cmd.Flags().GetString("out")

	return types.SplitConfig{
		InputFile: inputPath,
		OutDir:    outDir,
	}
}

func init() {
	splitCmd.Flags().String("out", "blocks", "directory to place extracted block files")

	rootCmd.AddCommand(splitCmd)
}
