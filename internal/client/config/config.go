package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	TargetLocal = "local"
	TargetS3    = "s3"
)

// S3Config describes the bucket downloads are exported to when
// DownloadTarget is "s3".
type S3Config struct {
	Bucket    string `json:"bucket" yaml:"bucket"`
	Region    string `json:"region" yaml:"region"`
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	AccessKey string `json:"access_key" yaml:"access_key"`
	SecretKey string `json:"secret_key" yaml:"secret_key"`
	Prefix    string `json:"prefix" yaml:"prefix"`
}

// Config holds runtime settings for the mycloud CLI.
type Config struct {
	ServerBaseURL       string
	DataDir             string
	RequestTimeout      time.Duration
	RememberCredentials bool
	LogLevel            string
	LogFormat           string
	DownloadDir         string
	DownloadTarget      string
	S3                  S3Config
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8000"
	c.DataDir = defaultDataDir()
	c.RequestTimeout = 15 * time.Second
	c.RememberCredentials = false
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.DownloadDir = "downloads"
	c.DownloadTarget = TargetLocal
	c.S3 = S3Config{Region: "us-east-1"}
}

// userHomeDir is a seam for tests.
var userHomeDir = os.UserHomeDir

func defaultDataDir() string {
	home, err := userHomeDir()
	if err != nil || home == "" {
		return ".mycloud"
	}
	return filepath.Join(home, ".mycloud")
}

// StorePath is the SQLite file of the credential store.
func (c *Config) StorePath() string {
	return filepath.Join(expandHome(c.DataDir), "mycloud.db")
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := userHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	switch c.DownloadTarget {
	case TargetLocal:
	case TargetS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("download target %q needs s3.bucket", TargetS3)
		}
	default:
		return fmt.Errorf("unknown download target %q", c.DownloadTarget)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the config file (if given) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
