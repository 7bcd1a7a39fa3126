package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/huntatlas/internal/raster"
)

// Report holds all configuration for a report run.
type Report struct {
	// Logging
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Inputs
	Inputs Inputs `yaml:"inputs"`

	// Raster classification
	Raster RasterConfig `yaml:"raster"`

	// Palette overrides the built-in region table when non-empty.
	Palette []raster.PaletteEntry `yaml:"palette"`

	// Output
	Output OutputConfig `yaml:"output"`

	// Audit
	Audit AuditConfig `yaml:"audit"`

	// Optional report export
	Database DatabaseConfig `yaml:"database"`
}

// Inputs are the four world files of one snapshot.
type Inputs struct {
	Map    string `yaml:"map"`
	Raster string `yaml:"raster"`
	Spawns string `yaml:"spawns"`
	Areas  string `yaml:"areas"`
}

// RasterConfig holds the calibrated transform and classifier tuning.
type RasterConfig struct {
	CenterX      float64 `yaml:"center_x"`
	CenterY      float64 `yaml:"center_y"`
	VisionSize   float64 `yaml:"vision_size"`
	Floor        int8    `yaml:"floor"`   // z used for raster-derived positions
	Workers      int     `yaml:"workers"` // 0 = GOMAXPROCS
	AllowAnySize bool    `yaml:"allow_any_size"`
}

// OutputConfig selects report destinations. Empty path means stdout.
type OutputConfig struct {
	Report string `yaml:"report"`
	IDs    string `yaml:"ids"`
	Order  string `yaml:"order"` // catalog, name, count
}

// AuditConfig tunes data-quality checks.
type AuditConfig struct {
	SimilarNames float64 `yaml:"similar_names"` // Jaro-Winkler threshold, 0 disables
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Transform returns the raster transform described by the config.
func (r RasterConfig) Transform() raster.Transform {
	return raster.Transform{CenterX: r.CenterX, CenterY: r.CenterY, VisionSize: r.VisionSize}
}

// BuildPalette returns the configured palette or the built-in one.
func (c Report) BuildPalette() (*raster.Palette, error) {
	if len(c.Palette) == 0 {
		return raster.DefaultPalette(), nil
	}
	p, err := raster.PaletteFromEntries(c.Palette)
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	return p, nil
}

// DefaultReport returns Report config with sensible defaults.
func DefaultReport() Report {
	return Report{
		LogLevel: "info",
		Inputs: Inputs{
			Map:    "data/world/world.otbm",
			Raster: "data/world/regions.png",
			Spawns: "data/world/world-monster.xml",
			Areas:  "data/world/areas.xml",
		},
		Raster: RasterConfig{
			CenterX:    raster.DefaultCenterX,
			CenterY:    raster.DefaultCenterY,
			VisionSize: raster.DefaultVisionSize,
			Floor:      7,
		},
		Output: OutputConfig{
			Order: "catalog",
		},
		Audit: AuditConfig{
			SimilarNames: 0.93,
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "huntatlas",
			Password: "huntatlas",
			DBName:   "huntatlas",
			SSLMode:  "disable",
		},
	}
}

// Validate checks values that would make a run meaningless.
func (c Report) Validate() error {
	if c.Raster.VisionSize <= 0 {
		return fmt.Errorf("raster.vision_size must be positive, got %v", c.Raster.VisionSize)
	}
	if c.Raster.Workers < 0 {
		return fmt.Errorf("raster.workers must not be negative, got %d", c.Raster.Workers)
	}
	if c.Audit.SimilarNames < 0 || c.Audit.SimilarNames > 1 {
		return fmt.Errorf("audit.similar_names must be within [0, 1], got %v", c.Audit.SimilarNames)
	}
	switch c.Output.Order {
	case "", "catalog", "name", "count":
	default:
		return fmt.Errorf("output.order %q: want catalog, name or count", c.Output.Order)
	}
	return nil
}

// LoadReport loads report config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadReport(path string) (Report, error) {
	cfg := DefaultReport()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}
