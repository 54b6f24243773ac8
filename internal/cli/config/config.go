package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the czi2ome configuration
type Config struct {
	Output    OutputConfig    `mapstructure:"output"`
	Transform TransformConfig `mapstructure:"transform"`
}

// OutputConfig controls how converted documents and findings are written
type OutputConfig struct {
	Directory string `mapstructure:"directory"`
	Pretty    bool   `mapstructure:"pretty"`
	Validate  bool   `mapstructure:"validate"`
}

// TransformConfig carries transform-level switches
type TransformConfig struct {
	Strict  bool   `mapstructure:"strict"`
	Creator string `mapstructure:"creator"`
}

// Load loads the configuration from czi2ome.yml or czi2ome.yaml
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("output.directory", ".")
	v.SetDefault("output.pretty", true)
	v.SetDefault("output.validate", true)
	v.SetDefault("transform.strict", false)

	// Set config name and paths
	v.SetConfigName("czi2ome")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Enable environment variable support
	v.SetEnvPrefix("CZI2OME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Output.Directory == "" {
		return fmt.Errorf("output.directory must not be empty")
	}

	// The creator string lands in an XML attribute; keep it one line.
	if strings.ContainsAny(cfg.Transform.Creator, "\r\n") {
		return fmt.Errorf("transform.creator must be a single line, got: %q", cfg.Transform.Creator)
	}

	return nil
}
