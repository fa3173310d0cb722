// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configKeys = []string{
	"engine.maxRetries",
	"engine.strict",
	"engine.backoff.initial",
	"engine.backoff.max",
	"logging.level",
}

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <subcommand>",
		Short: "Read the effective configuration",
	}
	cmd.AddCommand(newConfigGetCommand())
	cmd.AddCommand(newConfigShowCommand())
	return cmd
}

func newConfigGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "get <key>",
		Args:      cobra.ExactArgs(1),
		ValidArgs: configKeys,
		Run:       runConfigGetCommand,
	}
}

func runConfigGetCommand(cmd *cobra.Command, args []string) {
	if !viper.IsSet(args[0]) {
		ExitWithError(ExitInvalidInput, errUnknownKey(args[0]))
	}
	value := viper.Get(args[0])
	ExitWithOutput(value)
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:  "show",
		Args: cobra.NoArgs,
		Run:  runConfigShowCommand,
	}
}

func runConfigShowCommand(cmd *cobra.Command, args []string) {
	bytes, err := getConfig().Marshal()
	if err != nil {
		ExitWithError(ExitError, err)
	}
	ExitWithOutput(string(bytes))
}

func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			ExitWithError(ExitError, err)
		}

		viper.SetConfigName("config")
		viper.AddConfigPath(home + "/.tram")
		viper.AddConfigPath("/etc/tram")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			ExitWithError(ExitIO, err)
		}
	}
}
