// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the asn1spec CLI.
package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the asn1spec CLI.
var rootCmd = &cobra.Command{
	Use:   "asn1spec",
	Short: "Extract ASN.1 definitions from 3GPP specification text",
	Long: `asn1spec works with the ASN.1 schema text embedded in plain-text 3GPP
specification documents, where definitions are delimited by "-- ASN1START"
and "-- ASN1STOP" marker lines.

Each stage is a subcommand: extract concatenates every definition into one
.asn file, split writes each definition to its own file named after its
heading, and catalog indexes split definitions into a searchable SQLite
database.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	},
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./asn1spec.yaml or ~/.config/asn1spec/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("asn1spec")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "asn1spec"))
		}
	}

	viper.SetEnvPrefix("ASN1SPEC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
