/*
   Copyright 2026 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dirpx.dev/lcx/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "lcxlint [dir]",
	Short: "Validate localization catalog files",
	Long: `lcxlint loads every catalog file (.json, .yaml, .yml, .toml) under the
given directory, resolves every namespace, and reports malformed catalogs,
reference cycles and unresolved references. With --params it also prints the
placeholder inventory of every resolved key.`,
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runLint,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .lcxlint.yaml in the catalog directory)")
	rootCmd.Flags().Bool("params", false,
		"print the placeholder inventory of every resolved key")
	rootCmd.Flags().String("path-separator", config.DefaultPathSeparator,
		"separator joining nested group names into flat keys")
	rootCmd.Flags().String("namespace-delimiter", config.DefaultNamespaceDelimiter,
		"delimiter between namespace and key path in indirection tokens")
	rootCmd.Flags().Int("max-depth", config.DefaultMaxDepth,
		"maximum catalog nesting depth")
	rootCmd.Flags().Bool("verbose", false, "debug logging")

	_ = viper.BindPFlag("params", rootCmd.Flags().Lookup("params"))
	_ = viper.BindPFlag("path_separator", rootCmd.Flags().Lookup("path-separator"))
	_ = viper.BindPFlag("namespace_delimiter", rootCmd.Flags().Lookup("namespace-delimiter"))
	_ = viper.BindPFlag("max_depth", rootCmd.Flags().Lookup("max-depth"))
	_ = viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(".lcxlint")
		viper.SetConfigType("yaml")
	}
	// Missing config files are fine; flags and defaults carry the run.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "lcxlint: %v\n", err)
		}
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

func runLint(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	logger := newLogger()
	opts := options{
		params: viper.GetBool("params"),
		cfg: config.NewConfig(
			config.WithPathSeparator(viper.GetString("path_separator")),
			config.WithNamespaceDelimiter(viper.GetString("namespace_delimiter")),
			config.WithMaxDepth(viper.GetInt("max_depth")),
		),
	}

	report, err := lint(dir, opts, logger)
	if err != nil {
		logger.Error("lint failed", "dir", dir, "err", err)
		return err
	}
	if n := len(report.Findings); n > 0 {
		return fmt.Errorf("%d finding(s) in %s", n, dir)
	}
	logger.Info("all catalogs resolve",
		"dir", dir, "namespaces", len(report.Namespaces), "keys", report.Keys)
	return nil
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lcxlint: %v\n", err)
		return err
	}
	return nil
}
