package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// ConfigFileName is the file Load looks for in the config directory.
const ConfigFileName = "royalty.cfg.json"

// HooksConfig names the defs the hooks fall back to.
type HooksConfig struct {
	DefaultTransportShipDef string `json:"defaultTransportShipDef" mapstructure:"defaultTransportShipDef"`
	LargeShipThingDef       string `json:"largeShipThingDef" mapstructure:"largeShipThingDef"`
}

// LandingConfig holds the tuned constants of the landing spot cascade.
type LandingConfig struct {
	Margin        int   `json:"margin" mapstructure:"margin"`
	SafeMinRadius int   `json:"minRadius" mapstructure:"minRadius"`
	SafeMaxRadius int   `json:"maxRadius" mapstructure:"maxRadius"`
	SafeRings     int   `json:"rings" mapstructure:"rings"`
	Seed          int64 `json:"seed" mapstructure:"seed"`
}

// SQLiteConfig holds SQLite journal settings
type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// StorageConfig selects and configures the intervention journal backend
type StorageConfig struct {
	Type          string        `json:"type" mapstructure:"type"`
	FlushInterval time.Duration `json:"flushInterval" mapstructure:"flushInterval"`
	SQLite        SQLiteConfig  `json:"sqlite" mapstructure:"sqlite"`
}

// MonitorConfig controls the status file writer.
type MonitorConfig struct {
	Interval   time.Duration `json:"interval" mapstructure:"interval"`
	StatusFile string        `json:"statusFile" mapstructure:"statusFile"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./royaltylogs")

	viper.SetDefault("defs.path", "./Defs/royalty.yaml")

	viper.SetDefault("hooks.defaultTransportShipDef", "Ship_Shuttle")
	viper.SetDefault("hooks.largeShipThingDef", "FCP_Vertibird")

	viper.SetDefault("landing.margin", 1)
	viper.SetDefault("landing.safeSpot.minRadius", 15)
	viper.SetDefault("landing.safeSpot.maxRadius", 35)
	viper.SetDefault("landing.safeSpot.rings", 25)
	viper.SetDefault("landing.seed", 0)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.flushInterval", "30s")
	viper.SetDefault("storage.sqlite.path", "")

	viper.SetDefault("monitor.interval", "10s")
	viper.SetDefault("monitor.statusFile", "status.json")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "royalty")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "royalty-ext")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetHooksConfig returns the hook fallback defs.
func GetHooksConfig() HooksConfig {
	return HooksConfig{
		DefaultTransportShipDef: viper.GetString("hooks.defaultTransportShipDef"),
		LargeShipThingDef:       viper.GetString("hooks.largeShipThingDef"),
	}
}

// GetLandingConfig returns the landing spot cascade constants.
func GetLandingConfig() LandingConfig {
	return LandingConfig{
		Margin:        viper.GetInt("landing.margin"),
		SafeMinRadius: viper.GetInt("landing.safeSpot.minRadius"),
		SafeMaxRadius: viper.GetInt("landing.safeSpot.maxRadius"),
		SafeRings:     viper.GetInt("landing.safeSpot.rings"),
		Seed:          viper.GetInt64("landing.seed"),
	}
}

// GetStorageConfig returns the journal storage settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type:          viper.GetString("storage.type"),
		FlushInterval: viper.GetDuration("storage.flushInterval"),
		SQLite: SQLiteConfig{
			Path: viper.GetString("storage.sqlite.path"),
		},
	}
}

// GetMonitorConfig returns the status monitor settings. A relative status
// file lives in the logs directory.
func GetMonitorConfig() MonitorConfig {
	file := viper.GetString("monitor.statusFile")
	if file != "" && !filepath.IsAbs(file) {
		file = filepath.Join(viper.GetString("logsDir"), file)
	}
	return MonitorConfig{
		Interval:   viper.GetDuration("monitor.interval"),
		StatusFile: file,
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}
