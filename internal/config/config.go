// Package config loads application configuration from file and environment
// and owns global logger initialization.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data     DataConfig     `yaml:"data" mapstructure:"data"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the cleaned input tables and output directory.
type DataConfig struct {
	IDPLocalityPath   string `yaml:"idp_locality_path" mapstructure:"idp_locality_path"`
	FacilityPath      string `yaml:"facility_path" mapstructure:"facility_path"`
	BoundaryPath      string `yaml:"boundary_path" mapstructure:"boundary_path"`
	IDPWorkbookPath   string `yaml:"idp_workbook_path" mapstructure:"idp_workbook_path"`
	IDPWorkbookSheet  string `yaml:"idp_workbook_sheet" mapstructure:"idp_workbook_sheet"`
	BoundaryShapePath string `yaml:"boundary_shapefile_path" mapstructure:"boundary_shapefile_path"`
	OutputDir         string `yaml:"output_dir" mapstructure:"output_dir"`
}

// AnalysisConfig holds scoring weights and run parameters. The seed drives
// the resolver's synthetic-coordinate offsets; a fixed seed makes repeated
// runs over the same input reproducible.
type AnalysisConfig struct {
	BurdenWeight     float64 `yaml:"burden_weight" mapstructure:"burden_weight"`
	AccessWeight     float64 `yaml:"access_weight" mapstructure:"access_weight"`
	OriginWeight     float64 `yaml:"origin_weight" mapstructure:"origin_weight"`
	DistanceWeight   float64 `yaml:"distance_weight" mapstructure:"distance_weight"`
	CountWeight      float64 `yaml:"count_weight" mapstructure:"count_weight"`
	CapitalOriginKey string  `yaml:"capital_origin_key" mapstructure:"capital_origin_key"`
	Seed             int64   `yaml:"seed" mapstructure:"seed"`
	Workers          int     `yaml:"workers" mapstructure:"workers"`
}

// StoreConfig configures the results database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the results API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CRISIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.idp_locality_path", "data/clean/clean_idps_locality.csv")
	v.SetDefault("data.facility_path", "data/clean/clean_health_facilities.csv")
	v.SetDefault("data.boundary_path", "data/clean/clean_boundaries_data.csv")
	v.SetDefault("data.output_dir", "outputs")
	v.SetDefault("analysis.burden_weight", 0.4)
	v.SetDefault("analysis.access_weight", 0.4)
	v.SetDefault("analysis.origin_weight", 0.2)
	v.SetDefault("analysis.distance_weight", 0.6)
	v.SetDefault("analysis.count_weight", 0.4)
	v.SetDefault("analysis.capital_origin_key", "origin_khartoum")
	v.SetDefault("analysis.seed", 42)
	v.SetDefault("analysis.workers", 0)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "crisis.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the structural settings every command depends on.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return eris.Errorf("config: unsupported store driver %q", c.Store.Driver)
	}
	if c.Store.DatabaseURL == "" {
		return eris.New("config: store.database_url is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return eris.Errorf("config: invalid server port %d", c.Server.Port)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
