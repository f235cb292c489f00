package api

import (
	"net/http"
	"time"

	"github.com/creativeprojects/onesecmail/lib"
)

const (
	DefaultBaseURL   = "https://www.1secmail.com/api/v1/"
	DefaultUserAgent = "onesecmail-go"
	DefaultTimeout   = 30 * time.Second
	// DefaultOffset is the UTC offset of the dates sent without timezone by the service
	DefaultOffset = 2 * time.Hour
)

// DefaultDomains are the domains accepted by the service when no list is configured
var DefaultDomains = []string{
	"1secmail.com",
	"1secmail.org",
	"1secmail.net",
	"kzccv.com",
	"qiott.com",
	"wuuvo.com",
	"icznn.com",
	"ezztt.com",
}

type Config struct {
	// BaseURL of the API, all actions are sent to this single endpoint
	BaseURL string
	// Domains allowed for a mailbox address
	Domains   []string
	UserAgent string
	// Timeout of the default http client. Ignored when HTTPClient is set
	Timeout time.Duration
	// Location used to read the dates sent without a UTC offset
	Location *time.Location
	// DownloadRate limits attachment downloads in bytes per second. Zero means no limit
	DownloadRate  float64
	DownloadBurst int
	HTTPClient    *http.Client
	DebugLogger   lib.Logger
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if len(c.Domains) == 0 {
		c.Domains = DefaultDomains
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Location == nil {
		c.Location = time.FixedZone("", int(DefaultOffset.Seconds()))
	}
	if c.DownloadBurst <= 0 {
		c.DownloadBurst = 32 * 1024
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	c.DebugLogger = lib.LoggerOrDefault(c.DebugLogger)
	return c
}
