// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"errors"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper fron a config file or environement variables.
type Config struct {
	DBDriver       string `mapstructure:"DB_DRIVER"`
	DBSource       string `mapstructure:"DB_SOURCE"`
	ServerAddress  string `mapstructure:"SERVER_ADDRESS"`
	DataDir        string `mapstructure:"DATA_DIR"`
	SnapshotKey    string `mapstructure:"SNAPSHOT_KEY"`
	InitialBalance string `mapstructure:"INITIAL_BALANCE"`
	Environement   string `mapstructure:"GO_ENV"`
}

// Load read configuration from file or environment variables.
// A missing config file is fine; defaults and the environment take over.
func Load(path string) (Config, error) {
	var c Config

	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("SNAPSHOT_KEY", "khan-bank-data")
	viper.SetDefault("INITIAL_BALANCE", "400000000.00")

	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	err = viper.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}
