// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the goflow CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/goflow/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from --log-level before any subcommand runs.
var logger = zap.NewNop()

// rootCmd is the base command for the goflow CLI.
var rootCmd = &cobra.Command{
	Use:   "goflow",
	Short: "Convert GO enrichment results into GoFlow visualization data",
	Long: `goflow turns GO enrichment tables and gene expression data into the JSON
files the GoFlow front-end reads: a word-cloud list of GO terms per experiment,
the genes behind each term, and the experiments.json registry.

Use convert to produce an experiment's files and catalog to search across
experiments that have already been converted.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(viper.GetString("log_level"))
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		logger = l
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./goflow.yaml or ~/.config/goflow/goflow.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "diagnostic log level: debug, info, warn, error")
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("goflow")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "goflow"))
		}
	}

	viper.SetEnvPrefix("GOFLOW")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
