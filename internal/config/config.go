// Package config loads rangefetch settings from a YAML file and RANGEFETCH_
// environment variables. Command-line flags are merged on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tanq16/rangefetch/internal/utils"
	"gopkg.in/yaml.v3"
)

const envPrefix = "RANGEFETCH_"

type Config struct {
	Workers        int
	ChunkSize      int
	ParallelJobs   int
	Timeout        time.Duration
	RequestTimeout time.Duration
	ProxyURL       string
	ProxyUsername  string
	ProxyPassword  string
	UserAgent      string
	Headers        map[string]string
}

func Default() Config {
	return Config{
		Workers:      4,
		ChunkSize:    1024,
		ParallelJobs: 1,
		Timeout:      3 * time.Minute,
	}
}

// yamlConfig keeps sizes and durations as strings so that "1MiB" and "30s"
// can be written in the file.
type yamlConfig struct {
	Workers        int               `yaml:"workers"`
	ChunkSize      string            `yaml:"chunk_size"`
	ParallelJobs   int               `yaml:"parallel_jobs"`
	Timeout        string            `yaml:"timeout"`
	RequestTimeout string            `yaml:"request_timeout"`
	Proxy          string            `yaml:"proxy"`
	ProxyUsername  string            `yaml:"proxy_username"`
	ProxyPassword  string            `yaml:"proxy_password"`
	UserAgent      string            `yaml:"user_agent"`
	Headers        map[string]string `yaml:"headers"`
}

func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()
	if yc.Workers != 0 {
		cfg.Workers = yc.Workers
	}
	if yc.ChunkSize != "" {
		size, err := utils.ParseBytes(yc.ChunkSize)
		if err != nil {
			return Config{}, fmt.Errorf("parse chunk_size: %w", err)
		}
		cfg.ChunkSize = size
	}
	if yc.ParallelJobs != 0 {
		cfg.ParallelJobs = yc.ParallelJobs
	}
	if yc.Timeout != "" {
		d, err := time.ParseDuration(yc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if yc.RequestTimeout != "" {
		d, err := time.ParseDuration(yc.RequestTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse request_timeout: %w", err)
		}
		cfg.RequestTimeout = d
	}
	cfg.ProxyURL = yc.Proxy
	cfg.ProxyUsername = yc.ProxyUsername
	cfg.ProxyPassword = yc.ProxyPassword
	cfg.UserAgent = yc.UserAgent
	cfg.Headers = yc.Headers
	return cfg, nil
}

func (c *Config) LoadFromEnv() error {
	if v := os.Getenv(envPrefix + "WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %sWORKERS: %w", envPrefix, err)
		}
		c.Workers = n
	}
	if v := os.Getenv(envPrefix + "CHUNK_SIZE"); v != "" {
		size, err := utils.ParseBytes(v)
		if err != nil {
			return fmt.Errorf("parse %sCHUNK_SIZE: %w", envPrefix, err)
		}
		c.ChunkSize = size
	}
	if v := os.Getenv(envPrefix + "PARALLEL_JOBS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %sPARALLEL_JOBS: %w", envPrefix, err)
		}
		c.ParallelJobs = n
	}
	if v := os.Getenv(envPrefix + "TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %sTIMEOUT: %w", envPrefix, err)
		}
		c.Timeout = d
	}
	if v := os.Getenv(envPrefix + "REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %sREQUEST_TIMEOUT: %w", envPrefix, err)
		}
		c.RequestTimeout = d
	}
	if v := os.Getenv(envPrefix + "PROXY"); v != "" {
		c.ProxyURL = v
	}
	if v := os.Getenv(envPrefix + "PROXY_USERNAME"); v != "" {
		c.ProxyUsername = v
	}
	if v := os.Getenv(envPrefix + "PROXY_PASSWORD"); v != "" {
		c.ProxyPassword = v
	}
	if v := os.Getenv(envPrefix + "USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv(envPrefix + "HEADERS"); v != "" {
		headers := utils.ParseHeaderArgs(strings.Split(v, ";"))
		if c.Headers == nil {
			c.Headers = make(map[string]string)
		}
		for k, val := range headers {
			c.Headers[k] = val
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return errors.New("config: workers must be positive")
	}
	if c.ChunkSize <= 0 {
		return errors.New("config: chunk_size must be positive")
	}
	if c.ParallelJobs <= 0 {
		return errors.New("config: parallel_jobs must be positive")
	}
	if c.Timeout < 0 || c.RequestTimeout < 0 {
		return errors.New("config: timeouts must not be negative")
	}
	return nil
}

// Merge returns c with every non-zero field of override applied.
func (c Config) Merge(override Config) Config {
	if override.Workers != 0 {
		c.Workers = override.Workers
	}
	if override.ChunkSize != 0 {
		c.ChunkSize = override.ChunkSize
	}
	if override.ParallelJobs != 0 {
		c.ParallelJobs = override.ParallelJobs
	}
	if override.Timeout != 0 {
		c.Timeout = override.Timeout
	}
	if override.RequestTimeout != 0 {
		c.RequestTimeout = override.RequestTimeout
	}
	if override.ProxyURL != "" {
		c.ProxyURL = override.ProxyURL
	}
	if override.ProxyUsername != "" {
		c.ProxyUsername = override.ProxyUsername
	}
	if override.ProxyPassword != "" {
		c.ProxyPassword = override.ProxyPassword
	}
	if override.UserAgent != "" {
		c.UserAgent = override.UserAgent
	}
	if len(override.Headers) > 0 {
		merged := make(map[string]string, len(c.Headers)+len(override.Headers))
		for k, v := range c.Headers {
			merged[k] = v
		}
		for k, v := range override.Headers {
			merged[k] = v
		}
		c.Headers = merged
	}
	return c
}

// HTTPClientConfig converts the settings into the client configuration
// shared by all downloaders.
func (c Config) HTTPClientConfig() utils.HTTPClientConfig {
	return utils.HTTPClientConfig{
		Timeout:       c.Timeout,
		ProxyURL:      c.ProxyURL,
		ProxyUsername: c.ProxyUsername,
		ProxyPassword: c.ProxyPassword,
		UserAgent:     c.UserAgent,
		Headers:       c.Headers,
	}
}
