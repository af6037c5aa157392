package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Local    LocalConfig    `yaml:"local"`
	Archive  ArchiveConfig  `yaml:"archive"`
	NATS     NATSConfig     `yaml:"nats"`
	OCR      OCRConfig      `yaml:"ocr"`
	Image    ImageConfig    `yaml:"image"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	MaxConns int    `yaml:"max_conns"`
}

// Configured reports whether a remote database was configured at all.
// Without it the service runs against the local fallback store only.
func (d DatabaseConfig) Configured() bool {
	return d.Host != ""
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// LocalConfig controls the file-backed fallback store. QuotaBytes bounds the
// serialized size of any single key, mirroring a browser localStorage quota.
type LocalConfig struct {
	Dir        string `yaml:"dir"`
	QuotaBytes int64  `yaml:"quota_bytes"`
}

type ArchiveConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

func (a ArchiveConfig) Configured() bool {
	return a.Endpoint != ""
}

type NATSConfig struct {
	URL string `yaml:"url"`
}

type OCRConfig struct {
	// Language is the Tesseract traineddata language, default "por"
	// (Brazilian identity documents).
	Language    string `yaml:"language"`
	TessdataDir string `yaml:"tessdata_dir"`
}

type ImageConfig struct {
	MaxWidth    int `yaml:"max_width"`
	MaxHeight   int `yaml:"max_height"`
	JPEGQuality int `yaml:"jpeg_quality"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads config from YAML file and applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Local.Dir == "" {
		cfg.Local.Dir = "data"
	}
	if cfg.Local.QuotaBytes == 0 {
		cfg.Local.QuotaBytes = 5 * 1024 * 1024
	}
	if cfg.OCR.Language == "" {
		cfg.OCR.Language = "por"
	}
	if cfg.Image.MaxWidth == 0 {
		cfg.Image.MaxWidth = 1200
	}
	if cfg.Image.MaxHeight == 0 {
		cfg.Image.MaxHeight = 1200
	}
	if cfg.Image.JPEGQuality == 0 {
		cfg.Image.JPEGQuality = 70
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CATALOG_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CATALOG_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("CATALOG_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("CATALOG_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("CATALOG_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("CATALOG_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("CATALOG_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("CATALOG_LOCAL_DIR"); v != "" {
		cfg.Local.Dir = v
	}
	if v := os.Getenv("CATALOG_LOCAL_QUOTA_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Local.QuotaBytes = n
		}
	}
	if v := os.Getenv("CATALOG_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("CATALOG_ARCHIVE_ENDPOINT"); v != "" {
		cfg.Archive.Endpoint = v
	}
	if v := os.Getenv("CATALOG_ARCHIVE_ACCESS_KEY"); v != "" {
		cfg.Archive.AccessKey = v
	}
	if v := os.Getenv("CATALOG_ARCHIVE_SECRET_KEY"); v != "" {
		cfg.Archive.SecretKey = v
	}
	if v := os.Getenv("CATALOG_ARCHIVE_BUCKET"); v != "" {
		cfg.Archive.Bucket = v
	}
	if v := os.Getenv("CATALOG_OCR_LANGUAGE"); v != "" {
		cfg.OCR.Language = v
	}
	if v := os.Getenv("CATALOG_OCR_TESSDATA_DIR"); v != "" {
		cfg.OCR.TessdataDir = v
	}
}
