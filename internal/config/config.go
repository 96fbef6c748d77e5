package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "DISPATCH"

// ParkingConfig holds the lot dimensions.
type ParkingConfig struct {
	Levels        int `mapstructure:"levels"`
	SlotsPerLevel int `mapstructure:"slots_per_level"`
}

// ServiceConfig holds all configuration for the dispatch service.
type ServiceConfig struct {
	AppEnv      string        `mapstructure:"app_env"`
	ServiceName string        `mapstructure:"service_name"`
	Parking     ParkingConfig `mapstructure:"parking"`
}

// Load reads configuration from DISPATCH_* environment variables and, when
// DISPATCH_CONFIG_FILE is set, from that file first.
func Load() (*ServiceConfig, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*ServiceConfig, error) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app_env", "development")
	v.SetDefault("service_name", "service-dispatch")
	v.SetDefault("parking.levels", 3)
	v.SetDefault("parking.slots_per_level", 10)

	if err := v.BindEnv("config_file"); err != nil {
		return nil, fmt.Errorf("failed to bind config_file: %w", err)
	}
	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	var cfg ServiceConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the coordinators cannot be built from.
func (c *ServiceConfig) Validate() error {
	if c.Parking.Levels <= 0 {
		return fmt.Errorf("parking.levels must be positive, got %d", c.Parking.Levels)
	}
	if c.Parking.SlotsPerLevel <= 0 {
		return fmt.Errorf("parking.slots_per_level must be positive, got %d", c.Parking.SlotsPerLevel)
	}
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}
	return nil
}
