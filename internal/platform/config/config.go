package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"bibler-backend/internal/media"
	"bibler-backend/internal/platform/db"
)

const DefaultPath = "config/config.yaml"

type Certs struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

type Config struct {
	Version     string            `yaml:"version"`
	Mode        string            `yaml:"mode"` // dev | release
	DB          db.DatabaseConfig `yaml:"database"`
	Server      ServerConfig      `yaml:"server"`
	Certificate Certs             `yaml:"certificate"`
	Media       media.Config      `yaml:"media"`
	CORS        CORSConfig        `yaml:"cors"`
	Seed        bool              `yaml:"seed"`
}

func Load(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = "dev"
	}
	if c.DB.Driver == "" {
		c.DB.Driver = db.DriverMySQL
	}
	if c.DB.Driver == db.DriverSQLite && c.DB.Path == "" {
		c.DB.Path = "data/bibler.db"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8443"
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = "static"
	}
	if c.Media.Driver == "" {
		c.Media.Driver = media.DriverFS
	}
	if c.Media.Dir == "" {
		c.Media.Dir = "data/media"
	}
	if c.Media.Prefix == "" {
		c.Media.Prefix = "covers/"
	}
}

func (c *Config) Validate() error {
	switch c.Mode {
	case "dev", "release":
	default:
		return fmt.Errorf("config: unknown mode %q", c.Mode)
	}
	switch c.DB.Driver {
	case db.DriverMySQL, db.DriverSQLite:
	default:
		return fmt.Errorf("config: unknown database driver %q", c.DB.Driver)
	}
	switch c.Media.Driver {
	case media.DriverFS:
	case media.DriverS3:
		if strings.TrimSpace(c.Media.Bucket) == "" {
			return fmt.Errorf("config: media.bucket required for s3 driver")
		}
	default:
		return fmt.Errorf("config: unknown media driver %q", c.Media.Driver)
	}
	return nil
}

// TLS is enabled only when both files are configured.
func (c *Config) TLS() bool {
	return c.Certificate.Cert != "" && c.Certificate.Key != ""
}

func (c *Config) IsDev() bool { return c.Mode == "dev" }
