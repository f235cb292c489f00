package cfg

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/creativeprojects/onesecmail/api"
	"github.com/creativeprojects/onesecmail/lib"
	"github.com/creativeprojects/onesecmail/mailbox"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFileName = "onesecmail.yaml"
	EnvPrefix       = "onesecmail"
)

type Config struct {
	API API `yaml:"api"`
	// Store is the address book file
	Store string `yaml:"store"`
}

type API struct {
	BaseURL   string        `yaml:"baseURL"`
	UserAgent string        `yaml:"userAgent"`
	Timeout   time.Duration `yaml:"timeout"`
	Domains   []string      `yaml:"domains"`
	// DateOffset of the dates sent without timezone, like "+0200"
	DateOffset string `yaml:"dateOffset"`
	// DownloadRate in bytes per second, zero for no limit
	DownloadRate float64 `yaml:"downloadRate"`
}

// environment overrides the values from the configuration file
type environment struct {
	BaseURL      string        `envconfig:"BASE_URL"`
	UserAgent    string        `envconfig:"USER_AGENT"`
	Timeout      time.Duration `envconfig:"TIMEOUT"`
	DateOffset   string        `envconfig:"DATE_OFFSET"`
	DownloadRate float64       `envconfig:"DOWNLOAD_RATE"`
	Store        string        `envconfig:"STORE"`
}

func newConfig() *Config {
	return &Config{
		API: API{
			BaseURL:    api.DefaultBaseURL,
			UserAgent:  api.DefaultUserAgent,
			Timeout:    api.DefaultTimeout,
			DateOffset: "+0200",
		},
		Store: defaultStoreFile(),
	}
}

// Default returns the configuration without file, including the environment overrides
func Default() (*Config, error) {
	config := newConfig()
	err := config.loadEnvironment()
	if err != nil {
		return nil, err
	}
	return config, config.validate()
}

// LoadFromFile loads the configuration from the file. A missing file gives the default configuration.
func LoadFromFile(fileName string) (*Config, error) {
	file, err := os.Open(fileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default()
		}
		return nil, err
	}
	return loadConfig(file)
}

// loadConfig from a io.ReadCloser
func loadConfig(reader io.ReadCloser) (*Config, error) {
	defer reader.Close()
	decoder := yaml.NewDecoder(reader)
	config := newConfig()
	err := decoder.Decode(config)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("cannot parse configuration: %w", err)
	}
	err = config.loadEnvironment()
	if err != nil {
		return nil, err
	}
	return config, config.validate()
}

func (c *Config) loadEnvironment() error {
	env := environment{}
	err := envconfig.Process(EnvPrefix, &env)
	if err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	if env.BaseURL != "" {
		c.API.BaseURL = env.BaseURL
	}
	if env.UserAgent != "" {
		c.API.UserAgent = env.UserAgent
	}
	if env.Timeout > 0 {
		c.API.Timeout = env.Timeout
	}
	if env.DateOffset != "" {
		c.API.DateOffset = env.DateOffset
	}
	if env.DownloadRate > 0 {
		c.API.DownloadRate = env.DownloadRate
	}
	if env.Store != "" {
		c.Store = env.Store
	}
	return nil
}

func (c *Config) validate() error {
	if c.API.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %s", c.API.Timeout)
	}
	if c.API.DownloadRate < 0 {
		return fmt.Errorf("invalid download rate: %v", c.API.DownloadRate)
	}
	if _, err := mailbox.ParseOffset(c.API.DateOffset); err != nil {
		return err
	}
	return nil
}

// APIConfig returns the configuration of the API client
func (c *Config) APIConfig(logger lib.Logger) (api.Config, error) {
	location, err := mailbox.ParseOffset(c.API.DateOffset)
	if err != nil {
		return api.Config{}, err
	}
	return api.Config{
		BaseURL:      c.API.BaseURL,
		Domains:      c.API.Domains,
		UserAgent:    c.API.UserAgent,
		Timeout:      c.API.Timeout,
		Location:     location,
		DownloadRate: c.API.DownloadRate,
		DebugLogger:  logger,
	}, nil
}

func defaultStoreFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "onesecmail", "addresses.db")
}
