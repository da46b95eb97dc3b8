// Package config provides configuration management for go-starters.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
)

var AppVersion = "-unset-" // will be set at build time

const (
	// Default web settings
	DefaultListenPort  = 11980
	DefaultBodyLimit   = 100 * 1024 // bytes accepted by the body parser
	DefaultServiceName = "go-starters"
)

// MainConfig holds the main configuration for go-starters
type MainConfig struct {
	// Web interface settings
	Web *WebConfig `json:"web"`

	// OpenTelemetry export settings
	Telemetry TelemetryConfig `json:"telemetry"`

	// Address for the pprof web endpoint, empty disables profiling
	PprofAddr string `json:"pprof_addr,omitempty"`

	AppVersion string `json:"app_version"` // Application version, set at build time
}

// WebConfig holds web server configuration
type WebConfig struct {
	ListenPort     int      `json:"listen_port"`
	SSL            bool     `json:"ssl"`
	CertFile       string   `json:"cert_file,omitempty"`
	KeyFile        string   `json:"key_file,omitempty"`
	StaticDir      string   `json:"static_dir,omitempty"` // asset root for the hybrid sample, empty uses the embedded app
	ViewsDir       string   `json:"views_dir,omitempty"`  // template folder for the rendered sample, empty uses the embedded views
	BodyLimit      int64    `json:"body_limit"`
	TrustedProxies []string `json:"trusted_proxies"`
	Debug          bool     `json:"debug"` // Enable debug logging for routing and body parsing
}

// TelemetryConfig holds the OTLP exporter configuration
type TelemetryConfig struct {
	Endpoint    string `json:"otlp_endpoint,omitempty"` // host:port of an OTLP/gRPC collector, empty disables export
	ServiceName string `json:"service_name"`
	Insecure    bool   `json:"insecure"`
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *MainConfig {
	return &MainConfig{
		AppVersion: AppVersion,
		Web: &WebConfig{
			ListenPort:     DefaultListenPort,
			SSL:            false,
			BodyLimit:      DefaultBodyLimit,
			TrustedProxies: []string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"},
		},
		Telemetry: TelemetryConfig{
			ServiceName: DefaultServiceName,
			Insecure:    true,
		},
	}
}

// LoadConfig reads a JSON config file on top of the defaults.
// An empty path returns the defaults unchanged.
func LoadConfig(path string) (*MainConfig, error) {
	cfg := NewDefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Web == nil {
		cfg.Web = NewDefaultConfig().Web
	}
	cfg.AppVersion = AppVersion
	log.Printf("[CONFIG]: Loaded configuration from %s", path)
	return cfg, nil
}

// Validate checks the values a server cannot start without
func (c *MainConfig) Validate() error {
	if c.Web == nil {
		return errors.New("missing web configuration")
	}
	if c.Web.ListenPort < 1024 || c.Web.ListenPort > 65535 {
		return fmt.Errorf("invalid port number: %d (must be between 1024 and 65535)", c.Web.ListenPort)
	}
	if c.Web.SSL && (c.Web.CertFile == "" || c.Web.KeyFile == "") {
		return errors.New("SSL enabled but cert_file or key_file not specified in config")
	}
	if c.Web.BodyLimit <= 0 {
		return fmt.Errorf("invalid body limit: %d", c.Web.BodyLimit)
	}
	return nil
}
