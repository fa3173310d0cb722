// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tram-stm/go-tram/pkg/config"
	"github.com/tram-stm/go-tram/pkg/logging"
)

var log = logging.GetLogger("tram")

var (
	configFile = ""
)

func init() {
	cobra.OnInitialize(initConfig)
}

func GetRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tram",
		Short: "Software transactional memory workload tool",
	}

	setDefaults(viper.GetViper())

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: $HOME/.tram/config.yaml)")
	cmd.PersistentFlags().String("log-level", viper.GetString("logging.level"), "the log level")
	cmd.PersistentFlags().Int("max-retries", viper.GetInt("engine.maxRetries"), "the number of attempts per transaction")
	cmd.PersistentFlags().Bool("strict", viper.GetBool("engine.strict"), "report exhausted transactions as errors")
	cmd.PersistentFlags().Bool("metrics", false, "print transaction metrics in the Prometheus text format")

	viper.BindPFlag("logging.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("engine.maxRetries", cmd.PersistentFlags().Lookup("max-retries"))
	viper.BindPFlag("engine.strict", cmd.PersistentFlags().Lookup("strict"))
	viper.BindPFlag("metrics", cmd.PersistentFlags().Lookup("metrics"))

	cmd.AddCommand(newBenchCommand())
	cmd.AddCommand(newConfigCommand())
	return cmd
}

func setDefaults(v *viper.Viper) {
	defaults := config.Default()
	v.SetDefault("engine.maxRetries", defaults.Engine.MaxRetries)
	v.SetDefault("engine.strict", defaults.Engine.Strict)
	v.SetDefault("engine.backoff.initial", defaults.Engine.Backoff.Initial)
	v.SetDefault("engine.backoff.max", defaults.Engine.Backoff.Max)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetEnvPrefix("tram")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// loadConfig reads the effective configuration from the given viper instance
func loadConfig(v *viper.Viper) (config.Config, error) {
	c := config.Config{
		Engine: config.EngineConfig{
			MaxRetries: v.GetInt("engine.maxRetries"),
			Strict:     v.GetBool("engine.strict"),
			Backoff: config.BackoffConfig{
				Initial: v.GetDuration("engine.backoff.initial"),
				Max:     v.GetDuration("engine.backoff.max"),
			},
		},
		Logging: config.LoggingConfig{
			Level: v.GetString("logging.level"),
		},
	}
	if err := c.Validate(); err != nil {
		return config.Config{}, err
	}
	return c, nil
}

// getConfig loads the effective configuration and applies its log level
func getConfig() config.Config {
	c, err := loadConfig(viper.GetViper())
	if err != nil {
		ExitWithError(ExitBadArgs, err)
	}
	if level, ok := logging.ParseLevel(c.Logging.Level); ok {
		logging.SetLevel(level)
	}
	return c
}
