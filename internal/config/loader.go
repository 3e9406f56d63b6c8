package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/svcdash/svcdash/internal/errors"
)

// Load reads the services config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found at "+path,
				"Run 'svcdash init' to create one, or point --config at your services YAML")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file "+path,
			"Check the file exists and is valid YAML")
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers defaults so partial config files still produce a
// complete Config after Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("interval", "30s")
	v.SetDefault("timeout", "10s")
	v.SetDefault("journal_lines", 200)
	v.SetDefault("ssh.connect_timeout", "10s")
	v.SetDefault("ssh.insecure_host_key", false)
}
