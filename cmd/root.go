/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

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
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logger   = NewLogger(os.Stderr, slog.LevelInfo)
	profStop interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tdma",
	Short: "Tridiagonal system solver and 1D heat conduction driver",
	Long: `
Solves tridiagonal linear systems with the Thomas algorithm, either read from an input file,
generated for benchmarking, or assembled from a 1D finite volume heat conduction problem.

tdma solve -I system.yaml
tdma bench -n 1000000 -r 10
tdma heat -I heat.yaml`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		var level slog.Level
		if level, err = ParseLevel(viper.GetString("log-level")); err != nil {
			return
		}
		logger = NewLogger(os.Stderr, level)
		if dir := viper.GetString("profile"); len(dir) != 0 {
			logger.Info("cpu profiling", "dir", dir)
			profStop = profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.Quiet)
		}
		return
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// execute stops the profile whether or not the command failed, PersistentPostRun is skipped on error
func execute() error {
	defer stopProfile()
	return rootCmd.Execute()
}

func stopProfile() {
	if profStop != nil {
		profStop.Stop()
		profStop = nil
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tdma.yaml)")
	rootCmd.PersistentFlags().IntP("parallel", "p", 0, "number of goroutines for batched solves, 0 = number of CPUs")
	rootCmd.PersistentFlags().String("profile", "", "write a CPU profile into this directory")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	for _, name := range []string{"parallel", "profile", "log-level"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		// Search config in home directory with name ".tdma" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".tdma")
	}
	viper.SetEnvPrefix("TDMA")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

func ParseLevel(name string) (level slog.Level, err error) {
	if err = level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
	return
}

func readInputFile(name, example string) (data []byte, err error) {
	if len(name) == 0 {
		return nil, fmt.Errorf("must supply an input parameters file (-I, --inputFile), example file:%s", example)
	}
	if data, err = os.ReadFile(name); err != nil {
		return nil, err
	}
	return
}
