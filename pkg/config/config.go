package config

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/signatories/pkg/logging"
)

const (
	DefaultConfigPath = "/etc/signatories"
	ConfigFileName    = "signatories.yml"
)

// Config holds all signatories service settings
type Config struct {
	// CertificateBaseURL is the base of the remote certificates resource the
	// editor reads and writes signatories from
	CertificateBaseURL string `yaml:"certificate_base_url" json:"certificate_base_url"`

	// BindAddress is the address the server listens on
	BindAddress string `yaml:"bind_address" json:"bind_address"`

	// Port is the port the server listens on
	Port int `yaml:"port" json:"port"`

	// DatabaseURL is the PostgreSQL URL of the signatories API store
	DatabaseURL string `yaml:"database_url" json:"database_url"`

	// Language selects the editor's localized strings
	Language string `yaml:"language" json:"language"`

	// TemplateDir overrides the embedded editor templates
	TemplateDir string `yaml:"template_dir" json:"template_dir"`

	// LogLevel is the minimum application log level
	LogLevel string `yaml:"log_level" json:"log_level"`

	// LogFormat is "dev" or "prod"
	LogFormat string `yaml:"log_format" json:"log_format"`

	// EditorSessionTTL is how long an idle editor page is kept, in seconds
	EditorSessionTTL int `yaml:"editor_session_ttl" json:"editor_session_ttl"`

	// RemoteTimeout bounds requests to the certificates resource, in seconds
	RemoteTimeout int `yaml:"remote_timeout" json:"remote_timeout"`

	// EditingAllCollections marks editor pages as editing several certificates
	EditingAllCollections bool `yaml:"editing_all_collections" json:"editing_all_collections"`

	// TrustedProxies lists the proxy addresses or CIDRs, comma separated,
	// whose X-Forwarded-For and X-Real-IP headers are believed
	TrustedProxies string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment. The global
// configuration is replaced only when the new one is valid.
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		BindAddress:      "0.0.0.0",
		Port:             8000,
		Language:         "en",
		LogLevel:         "info",
		LogFormat:        "dev",
		EditorSessionTTL: 1800,
		RemoteTimeout:    15,
		sources:          make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("SIGNATORIES_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"certificate_base_url", "bind_address", "port", "database_url",
		"language", "template_dir", "log_level", "log_format",
		"editor_session_ttl", "remote_timeout", "editing_all_collections",
		"trusted_proxies",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	setString := func(name string, dst *string, v string) {
		if v != "" {
			*dst = v
			c.sources[name] = "file"
		}
	}
	setInt := func(name string, dst *int, v int) {
		if v != 0 {
			*dst = v
			c.sources[name] = "file"
		}
	}

	setString("certificate_base_url", &c.CertificateBaseURL, file.CertificateBaseURL)
	setString("bind_address", &c.BindAddress, file.BindAddress)
	setInt("port", &c.Port, file.Port)
	setString("database_url", &c.DatabaseURL, file.DatabaseURL)
	setString("language", &c.Language, file.Language)
	setString("template_dir", &c.TemplateDir, file.TemplateDir)
	setString("log_level", &c.LogLevel, file.LogLevel)
	setString("log_format", &c.LogFormat, file.LogFormat)
	setInt("editor_session_ttl", &c.EditorSessionTTL, file.EditorSessionTTL)
	setInt("remote_timeout", &c.RemoteTimeout, file.RemoteTimeout)
	setString("trusted_proxies", &c.TrustedProxies, file.TrustedProxies)
	if file.EditingAllCollections {
		c.EditingAllCollections = true
		c.sources["editing_all_collections"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	setString := func(name, env string, dst *string) {
		if val := os.Getenv(env); val != "" {
			*dst = val
			c.sources[name] = "environment"
		}
	}
	setInt := func(name, env string, dst *int) {
		if val := os.Getenv(env); val != "" {
			if i, err := strconv.Atoi(val); err == nil {
				*dst = i
				c.sources[name] = "environment"
			}
		}
	}

	setString("certificate_base_url", "SIGNATORIES_CERTIFICATE_BASE_URL", &c.CertificateBaseURL)
	setString("bind_address", "BIND_ADDRESS", &c.BindAddress)
	setInt("port", "PORT", &c.Port)
	setString("database_url", "DATABASE_URL", &c.DatabaseURL)
	setString("language", "SIGNATORIES_LANGUAGE", &c.Language)
	setString("template_dir", "SIGNATORIES_TEMPLATE_DIR", &c.TemplateDir)
	setString("log_level", "SIGNATORIES_LOG_LEVEL", &c.LogLevel)
	setString("log_format", "SIGNATORIES_LOG_FORMAT", &c.LogFormat)
	setInt("editor_session_ttl", "SIGNATORIES_EDITOR_SESSION_TTL", &c.EditorSessionTTL)
	setInt("remote_timeout", "SIGNATORIES_REMOTE_TIMEOUT", &c.RemoteTimeout)
	setString("trusted_proxies", "SIGNATORIES_TRUSTED_PROXIES", &c.TrustedProxies)
	if val := os.Getenv("SIGNATORIES_EDITING_ALL_COLLECTIONS"); val != "" {
		c.EditingAllCollections = val == "true" || val == "1"
		c.sources["editing_all_collections"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return c.BindAddress + ":" + strconv.Itoa(c.Port)
}

// SessionTTL returns the editor session TTL as a duration
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.EditorSessionTTL) * time.Second
}

// RemoteTimeoutDuration returns the remote request timeout as a duration
func (c *Config) RemoteTimeoutDuration() time.Duration {
	return time.Duration(c.RemoteTimeout) * time.Second
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.CertificateBaseURL != "" {
		u, err := url.Parse(c.CertificateBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid certificate_base_url value: %s", c.CertificateBaseURL)
		}
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port value: %d", c.Port)
	}

	if c.Language != "" {
		if _, err := language.Parse(c.Language); err != nil {
			return fmt.Errorf("invalid language value: %s", c.Language)
		}
	}

	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level value: %s", c.LogLevel)
	}

	if c.EditorSessionTTL <= 0 {
		return fmt.Errorf("invalid editor_session_ttl value: %d", c.EditorSessionTTL)
	}
	if c.RemoteTimeout <= 0 {
		return fmt.Errorf("invalid remote_timeout value: %d", c.RemoteTimeout)
	}

	for _, proxy := range strings.Split(c.TrustedProxies, ",") {
		proxy = strings.TrimSpace(proxy)
		if proxy == "" {
			continue
		}
		if _, _, err := net.ParseCIDR(proxy); err != nil && net.ParseIP(proxy) == nil {
			return fmt.Errorf("invalid trusted_proxies entry: %s", proxy)
		}
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "certificate_base_url", Value: c.CertificateBaseURL, Source: c.Source("certificate_base_url")},
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "port", Value: strconv.Itoa(c.Port), Source: c.Source("port")},
		{Name: "database_url", Value: redactURL(c.DatabaseURL), Source: c.Source("database_url")},
		{Name: "language", Value: c.Language, Source: c.Source("language")},
		{Name: "template_dir", Value: c.TemplateDir, Source: c.Source("template_dir")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "log_format", Value: c.LogFormat, Source: c.Source("log_format")},
		{Name: "editor_session_ttl", Value: strconv.Itoa(c.EditorSessionTTL), Source: c.Source("editor_session_ttl")},
		{Name: "remote_timeout", Value: strconv.Itoa(c.RemoteTimeout), Source: c.Source("remote_timeout")},
		{Name: "editing_all_collections", Value: strconv.FormatBool(c.EditingAllCollections), Source: c.Source("editing_all_collections")},
		{Name: "trusted_proxies", Value: c.TrustedProxies, Source: c.Source("trusted_proxies")},
	}
}

// Changed returns the names of the attributes whose values differ in next
func (c *Config) Changed(next *Config) []string {
	var names []string
	nextAttrs := next.Attributes()
	for i, attr := range c.Attributes() {
		if attr.Value != nextAttrs[i].Value {
			names = append(names, attr.Name)
		}
	}
	return names
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// redactURL hides the password of a connection URL
func redactURL(s string) string {
	u, err := url.Parse(s)
	if err != nil || u.User == nil {
		return s
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
