package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/asn1spec/internal/extract"
	"github.com/pdiddy/asn1spec/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [input]",
	Short: "Extract all ASN.1 definitions into a single .asn file",
	Long: `Extract scans the input document for "-- ASN1START" / "-- ASN1STOP"
marker pairs and writes the lines between them, in document order, to a
single output file. The output name is the input path truncated at its
first dot with ".asn" appended, unless --output is given.

A document with no markers produces an empty output file. A start marker
with no matching stop marker captures through to end of input; neither
case is an error.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := extractConfig(cmd, args)
	if cfg.InputFile == "" {
		return fmt.Errorf("input file required: pass it as an argument or set extract.input in the config")
	}

	// Echo the resolved input path before processing.
	fmt.Println(cfg.InputFile)

	outputPath, n, err := extract.File(cfg)
	if err != nil {
		return err
	}

	log.Debug().Str("output", outputPath).Int("lines", n).Msg("extraction complete")
	fmt.Printf("wrote %d lines to %s\n", n, outputPath)
	return nil
}

// extractConfig assembles the extraction settings from flags, arguments,
// and the config file.
func extractConfig(cmd *cobra.Command, args []string) types.ExtractConfig {
	inputPath := viper.GetString("extract.input")
	if len(args) > 0 {
		inputPath = args[0]
	}
	outputPath, _ := cmd.Flags().GetString("output")

	return types.ExtractConfig{
		InputFile:  inputPath,
		OutputFile: outputPath,
	}
}

func init() {
	extractCmd.Flags().String("output", "", "output file (default: input truncated at its first dot + .asn)")

	rootCmd.AddCommand(extractCmd)
}
