package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// HistoryConfig holds run-history storage settings.
type HistoryConfig struct {
	Enabled    bool   `json:"enabled" mapstructure:"enabled"`
	Driver     string `json:"driver" mapstructure:"driver"`
	SqlitePath string `json:"sqlitePath" mapstructure:"sqlitePath"`
	Host       string `json:"host" mapstructure:"host"`
	Port       string `json:"port" mapstructure:"port"`
	Username   string `json:"username" mapstructure:"username"`
	Password   string `json:"password" mapstructure:"password"`
	Database   string `json:"database" mapstructure:"database"`
}

// EphemerisConfig holds daily broadcast-ephemeris fetch settings.
type EphemerisConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	BaseURL string `json:"baseUrl" mapstructure:"baseUrl"`
	Dir     string `json:"dir" mapstructure:"dir"`
}

// SimulationConfig describes one simulation of the configured set. The set
// runs in array order.
type SimulationConfig struct {
	Name           string  `json:"name" mapstructure:"name"`
	Dynamic        bool    `json:"dynamic" mapstructure:"dynamic"`
	CreateFile     bool    `json:"createFile" mapstructure:"createFile"`
	FileName       string  `json:"fileName" mapstructure:"fileName"`
	Format         string  `json:"format" mapstructure:"format"`
	Speed          float64 `json:"speed" mapstructure:"speed"`
	GpxSourcePath  string  `json:"gpxSourcePath" mapstructure:"gpxSourcePath"`
	StartLatitude  float64 `json:"startLatitude" mapstructure:"startLatitude"`
	StartLongitude float64 `json:"startLongitude" mapstructure:"startLongitude"`
	EndLatitude    float64 `json:"endLatitude" mapstructure:"endLatitude"`
	EndLongitude   float64 `json:"endLongitude" mapstructure:"endLongitude"`
	Latitude       float64 `json:"latitude" mapstructure:"latitude"`
	Longitude      float64 `json:"longitude" mapstructure:"longitude"`
	RunDuration    int     `json:"runDuration" mapstructure:"runDuration"`
	Gain           float64 `json:"gain" mapstructure:"gain"`
}

// Load reads configuration from geobeam.cfg.json in configDir and sets
// default values.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")
	viper.SetDefault("motionDir", "./motion")
	viper.SetDefault("defaultFrequency", 10.0)
	viper.SetDefault("defaultSpeed", 1.4)
	viper.SetDefault("simulatorCommand", "./run_bladerfGPS.sh")
	viper.SetDefault("statusInterval", "30s")

	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.driver", "sqlite")
	viper.SetDefault("history.sqlitePath", "./geobeam.db")
	viper.SetDefault("history.host", "localhost")
	viper.SetDefault("history.port", "5432")
	viper.SetDefault("history.username", "postgres")
	viper.SetDefault("history.password", "postgres")
	viper.SetDefault("history.database", "geobeam")

	viper.SetDefault("ephemeris.enabled", false)
	viper.SetDefault("ephemeris.baseUrl", "https://cddis.nasa.gov/archive/gnss/data/daily")
	viper.SetDefault("ephemeris.dir", "./ephemeris")

	viper.SetConfigName("geobeam.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// Simulations returns the configured simulation set in file order. Entries
// without a speed inherit defaultSpeed; unnamed entries get a positional name.
func Simulations() ([]SimulationConfig, error) {
	var sims []SimulationConfig
	if err := viper.UnmarshalKey("simulations", &sims); err != nil {
		return nil, fmt.Errorf("error parsing simulations: %w", err)
	}
	for i := range sims {
		if sims[i].Speed == 0 {
			sims[i].Speed = viper.GetFloat64("defaultSpeed")
		}
		if sims[i].Name == "" {
			sims[i].Name = fmt.Sprintf("simulation%d", i+1)
		}
	}
	return sims, nil
}

// GetHistoryConfig returns the run-history settings.
func GetHistoryConfig() HistoryConfig {
	var cfg HistoryConfig
	_ = viper.UnmarshalKey("history", &cfg)
	return cfg
}

// GetEphemerisConfig returns the ephemeris fetch settings.
func GetEphemerisConfig() EphemerisConfig {
	var cfg EphemerisConfig
	_ = viper.UnmarshalKey("ephemeris", &cfg)
	return cfg
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

// GetFloat64 returns a float config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetDuration returns a duration config value.
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}
