package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultMetaColumns are the DHIS2 organisation unit identifiers that never
// carry a measurement.
var DefaultMetaColumns = []string{
	"organisationunitid",
	"organisationunitname",
	"organisationunitcode",
	"organisationunitdescription",
}

// Global configuration structure.
type Global struct {
	DataPath         string `mapstructure:"data_path" yaml:"data_path"`
	SheetName        string `mapstructure:"sheet_name" yaml:"sheet_name"`
	Delimiter        string `mapstructure:"delimiter" yaml:"delimiter"`
	DecimalSeparator string `mapstructure:"decimal_separator" yaml:"decimal_separator"`

	// Dataset schema
	NameColumn      string   `mapstructure:"name_column" yaml:"name_column"`
	MetaColumns     []string `mapstructure:"meta_columns" yaml:"meta_columns"`
	LatitudeColumn  string   `mapstructure:"latitude_column" yaml:"latitude_column"`
	LongitudeColumn string   `mapstructure:"longitude_column" yaml:"longitude_column"`

	// HTTP server
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`
	TileURL    string `mapstructure:"tile_url" yaml:"tile_url"`

	// Rendering
	ChartWidthIn  float64 `mapstructure:"chart_width_in" yaml:"chart_width_in"`
	ChartHeightIn float64 `mapstructure:"chart_height_in" yaml:"chart_height_in"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.paludash/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file (cfgFile or ~/.paludash/config.yaml) > defaults.
// A .env file in the working directory is read into the environment first.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("PALUDASH")
	v.AutomaticEnv()

	v.SetDefault("data_path", "data.csv")
	v.SetDefault("sheet_name", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("decimal_separator", "")
	v.SetDefault("name_column", "organisationunitname")
	v.SetDefault("meta_columns", DefaultMetaColumns)
	v.SetDefault("latitude_column", "latitude")
	v.SetDefault("longitude_column", "longitude")
	v.SetDefault("listen_addr", ":8501")
	v.SetDefault("tile_url", "https://tile.openstreetmap.org/{z}/{x}/{y}.png")
	v.SetDefault("chart_width_in", 12.0)
	v.SetDefault("chart_height_in", 5.0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.MetaColumns) == 0 {
		c.MetaColumns = append([]string(nil), DefaultMetaColumns...)
	}
	return &c, nil
}

// DelimiterRune maps the configured delimiter to a CSV separator; 0 lets the
// loader decide from the file name.
func (c *Global) DelimiterRune() (rune, error) {
	switch c.Delimiter {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case ";":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %q (use ',' | ';' | 'tab')", c.Delimiter)
	}
}

// DecimalRune maps the configured decimal separator; 0 means auto-detect.
func (c *Global) DecimalRune() (rune, error) {
	switch c.DecimalSeparator {
	case "":
		return 0, nil
	case ".", "dot":
		return '.', nil
	case ",", "comma":
		return ',', nil
	default:
		return 0, fmt.Errorf("unsupported decimal_separator: %q (use '.' | 'comma')", c.DecimalSeparator)
	}
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".paludash"), nil
}
