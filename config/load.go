package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

var (
	ErrConfigFailedToSetDefaults = errors.New("error occurred while setting defaults")
	ErrConfigPath                = errors.New("config path error")
)

// Load builds the configuration from defaults, then config.yaml found in
// configFileDirs, then P2PWIRE_ prefixed environment variables.
func Load(configFileDirs ...string) (*P2PWireConfig, error) {
	cfg := getDefaultP2PWireConfig()

	err := setDefaults(cfg)
	if err != nil {
		return nil, err
	}

	err = overrideWithFiles(configFileDirs...)
	if err != nil {
		return nil, err
	}

	viper.SetEnvPrefix("P2PWIRE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err = viper.Unmarshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults flattens the top level of the default config into viper
// defaults, so an empty config.yaml still yields a complete P2PWireConfig.
func setDefaults(defaultConfig *P2PWireConfig) error {
	defaultsMap := make(map[string]any)

	if err := mapstructure.Decode(defaultConfig, &defaultsMap); err != nil {
		err = errors.Join(ErrConfigFailedToSetDefaults, err)
		return err
	}

	for key, value := range defaultsMap {
		viper.SetDefault(key, value)
	}

	return nil
}

// overrideWithFiles reads config.yaml from the first of configFileDirs that
// holds one. Every dir must exist; an empty first dir means defaults only,
// which is how the CLI passes an unset --config flag.
func overrideWithFiles(configFileDirs ...string) error {
	if len(configFileDirs) == 0 || configFileDirs[0] == "" {
		return nil
	}

	for _, path := range configFileDirs {
		stat, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return errors.Join(ErrConfigPath, fmt.Errorf("path: %s does not exist", path))
			}
			return err
		}
		if !stat.IsDir() {
			return errors.Join(ErrConfigPath, fmt.Errorf("path: %s should be a directory", path))
		}

		viper.AddConfigPath(path)
	}

	viper.SetConfigName("config")

	err := viper.ReadInConfig()
	if err != nil {
		return err
	}

	return nil
}
