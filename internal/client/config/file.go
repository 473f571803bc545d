package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/mycloud/internal/flagx"
	"github.com/dmitrijs2005/mycloud/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for file unmarshalling. Absent keys
// leave the current value untouched.
type FileConfig struct {
	ServerBaseURL       string          `json:"server_base_url" yaml:"server_base_url"`
	DataDir             string          `json:"data_dir" yaml:"data_dir"`
	RequestTimeout      *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	RememberCredentials *bool           `json:"remember_credentials" yaml:"remember_credentials"`
	LogLevel            string          `json:"log_level" yaml:"log_level"`
	LogFormat           string          `json:"log_format" yaml:"log_format"`
	DownloadDir         string          `json:"download_dir" yaml:"download_dir"`
	DownloadTarget      string          `json:"download_target" yaml:"download_target"`
	S3                  *S3Config       `json:"s3" yaml:"s3"`
}

// parseFile overlays cfg with the file named by -c/-config. It panics on read
// or decode errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.ServerBaseURL, fc.ServerBaseURL)
	setString(&cfg.DataDir, fc.DataDir)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.DownloadDir, fc.DownloadDir)
	setString(&cfg.DownloadTarget, fc.DownloadTarget)

	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.RememberCredentials != nil {
		cfg.RememberCredentials = *fc.RememberCredentials
	}
	if fc.S3 != nil {
		setString(&cfg.S3.Bucket, fc.S3.Bucket)
		setString(&cfg.S3.Region, fc.S3.Region)
		setString(&cfg.S3.Endpoint, fc.S3.Endpoint)
		setString(&cfg.S3.AccessKey, fc.S3.AccessKey)
		setString(&cfg.S3.SecretKey, fc.S3.SecretKey)
		setString(&cfg.S3.Prefix, fc.S3.Prefix)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
