package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/docvault/config"
	ConfigFileName    = "docvault.yml"

	DefaultProcessorURL = "http://python-backend-url/trigger"
)

// ErrMissingTokenSecret is returned by Validate when no token signing secret is configured.
var ErrMissingTokenSecret = errors.New("token_secret is required (set DOCVAULT_TOKEN_SECRET or JWT_SECRET)")

// ValidLogLevels is the list of accepted log_level values
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Config holds all docvault configuration settings.
// It is loaded once at startup and passed explicitly to the components that need it.
type Config struct {
	// BindAddress is the interface the HTTP server listens on
	BindAddress string `yaml:"bind_address" json:"bind_address"`

	// Port is the HTTP listen port
	Port int `yaml:"port" json:"port"`

	// DatabaseURL is the PostgreSQL connection string
	DatabaseURL string `yaml:"database_url" json:"database_url"`

	// TokenSecret is the HMAC key used to sign session tokens
	TokenSecret string `yaml:"token_secret" json:"token_secret"`

	// TokenTTL is the session token lifetime in seconds
	TokenTTL int `yaml:"token_ttl" json:"token_ttl"`

	// BcryptCost is the work factor for password hashes
	BcryptCost int `yaml:"bcrypt_cost" json:"bcrypt_cost"`

	// ProcessorURL is the endpoint the ingestion trigger POSTs to
	ProcessorURL string `yaml:"processor_url" json:"processor_url"`

	// ProcessorTimeout bounds each processor call, in seconds
	ProcessorTimeout int `yaml:"processor_timeout" json:"processor_timeout"`

	// ProcessorRetries is the number of extra attempts after a failed call (0 or 1)
	ProcessorRetries int `yaml:"processor_retries" json:"processor_retries"`

	// EnforceRoles gates write operations on the caller's role
	EnforceRoles bool `yaml:"enforce_roles" json:"enforce_roles"`

	// AuditEnabled turns audit logging on or off
	AuditEnabled bool `yaml:"audit_enabled" json:"audit_enabled"`

	// AuditDatabaseURL optionally persists audit messages to a database
	AuditDatabaseURL string `yaml:"audit_database_url" json:"audit_database_url"`

	// Storage settings for document content. Empty StorageEndpoint disables it.
	StorageEndpoint  string `yaml:"storage_endpoint" json:"storage_endpoint"`
	StorageAccessKey string `yaml:"storage_access_key" json:"storage_access_key"`
	StorageSecretKey string `yaml:"storage_secret_key" json:"storage_secret_key"`
	StorageBucket    string `yaml:"storage_bucket" json:"storage_bucket"`
	StorageRegion    string `yaml:"storage_region" json:"storage_region"`
	StorageUseSSL    bool   `yaml:"storage_use_ssl" json:"storage_use_ssl"`

	// LogLevel is the application log level (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level"`

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

// fileConfig mirrors Config with pointer fields so that explicit zero values
// in the file (port: 0, enforce_roles: false) can be told apart from absent keys.
type fileConfig struct {
	BindAddress      *string `yaml:"bind_address"`
	Port             *int    `yaml:"port"`
	DatabaseURL      *string `yaml:"database_url"`
	TokenSecret      *string `yaml:"token_secret"`
	TokenTTL         *int    `yaml:"token_ttl"`
	BcryptCost       *int    `yaml:"bcrypt_cost"`
	ProcessorURL     *string `yaml:"processor_url"`
	ProcessorTimeout *int    `yaml:"processor_timeout"`
	ProcessorRetries *int    `yaml:"processor_retries"`
	EnforceRoles     *bool   `yaml:"enforce_roles"`
	AuditEnabled     *bool   `yaml:"audit_enabled"`
	AuditDatabaseURL *string `yaml:"audit_database_url"`
	StorageEndpoint  *string `yaml:"storage_endpoint"`
	StorageAccessKey *string `yaml:"storage_access_key"`
	StorageSecretKey *string `yaml:"storage_secret_key"`
	StorageBucket    *string `yaml:"storage_bucket"`
	StorageRegion    *string `yaml:"storage_region"`
	StorageUseSSL    *bool   `yaml:"storage_use_ssl"`
	LogLevel         *string `yaml:"log_level"`
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		BindAddress:      "0.0.0.0",
		Port:             3000,
		TokenTTL:         3600,
		BcryptCost:       bcrypt.DefaultCost,
		ProcessorURL:     DefaultProcessorURL,
		ProcessorTimeout: 30,
		ProcessorRetries: 0,
		EnforceRoles:     false,
		AuditEnabled:     true,
		StorageBucket:    "docvault-documents",
		LogLevel:         "info",
		sources:          make(map[string]string),
	}
}

// Load loads configuration from the config file and environment variables.
// The file lives in DOCVAULT_CONFIG_PATH (or DefaultConfigPath).
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	configPath := os.Getenv("DOCVAULT_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	return LoadFrom(filepath.Join(configPath, ConfigFileName))
}

// LoadFrom loads configuration from the given file path and the environment.
// A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	config := newDefault()
	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}
	config.configFilePath = path

	if data, err := os.ReadFile(path); err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		config.applyFileConfig(&file)
	}

	if err := config.applyEnvConfig(); err != nil {
		return nil, err
	}

	return config, nil
}

func attributeNames() []string {
	return []string{
		"bind_address", "port", "database_url", "token_secret", "token_ttl",
		"bcrypt_cost", "processor_url", "processor_timeout", "processor_retries",
		"enforce_roles", "audit_enabled", "audit_database_url",
		"storage_endpoint", "storage_access_key", "storage_secret_key",
		"storage_bucket", "storage_region", "storage_use_ssl", "log_level",
	}
}

func (c *Config) applyFileConfig(file *fileConfig) {
	setString(&c.BindAddress, file.BindAddress, c.sources, "bind_address")
	setInt(&c.Port, file.Port, c.sources, "port")
	setString(&c.DatabaseURL, file.DatabaseURL, c.sources, "database_url")
	setString(&c.TokenSecret, file.TokenSecret, c.sources, "token_secret")
	setInt(&c.TokenTTL, file.TokenTTL, c.sources, "token_ttl")
	setInt(&c.BcryptCost, file.BcryptCost, c.sources, "bcrypt_cost")
	setString(&c.ProcessorURL, file.ProcessorURL, c.sources, "processor_url")
	setInt(&c.ProcessorTimeout, file.ProcessorTimeout, c.sources, "processor_timeout")
	setInt(&c.ProcessorRetries, file.ProcessorRetries, c.sources, "processor_retries")
	setBool(&c.EnforceRoles, file.EnforceRoles, c.sources, "enforce_roles")
	setBool(&c.AuditEnabled, file.AuditEnabled, c.sources, "audit_enabled")
	setString(&c.AuditDatabaseURL, file.AuditDatabaseURL, c.sources, "audit_database_url")
	setString(&c.StorageEndpoint, file.StorageEndpoint, c.sources, "storage_endpoint")
	setString(&c.StorageAccessKey, file.StorageAccessKey, c.sources, "storage_access_key")
	setString(&c.StorageSecretKey, file.StorageSecretKey, c.sources, "storage_secret_key")
	setString(&c.StorageBucket, file.StorageBucket, c.sources, "storage_bucket")
	setString(&c.StorageRegion, file.StorageRegion, c.sources, "storage_region")
	setBool(&c.StorageUseSSL, file.StorageUseSSL, c.sources, "storage_use_ssl")
	setString(&c.LogLevel, file.LogLevel, c.sources, "log_level")
}

func setString(dst *string, src *string, sources map[string]string, name string) {
	if src != nil {
		*dst = *src
		sources[name] = "file"
	}
}

func setInt(dst *int, src *int, sources map[string]string, name string) {
	if src != nil {
		*dst = *src
		sources[name] = "file"
	}
}

func setBool(dst *bool, src *bool, sources map[string]string, name string) {
	if src != nil {
		*dst = *src
		sources[name] = "file"
	}
}

// envString maps environment variables to string attributes.
// When several variables are listed the first one set wins.
var envString = []struct {
	name string
	vars []string
	dst  func(c *Config) *string
}{
	{"bind_address", []string{"BIND_ADDRESS"}, func(c *Config) *string { return &c.BindAddress }},
	{"database_url", []string{"DATABASE_URL"}, func(c *Config) *string { return &c.DatabaseURL }},
	{"token_secret", []string{"DOCVAULT_TOKEN_SECRET", "JWT_SECRET"}, func(c *Config) *string { return &c.TokenSecret }},
	{"processor_url", []string{"DOCVAULT_PROCESSOR_URL"}, func(c *Config) *string { return &c.ProcessorURL }},
	{"audit_database_url", []string{"AUDIT_DATABASE_URL"}, func(c *Config) *string { return &c.AuditDatabaseURL }},
	{"storage_endpoint", []string{"DOCVAULT_STORAGE_ENDPOINT"}, func(c *Config) *string { return &c.StorageEndpoint }},
	{"storage_access_key", []string{"DOCVAULT_STORAGE_ACCESS_KEY"}, func(c *Config) *string { return &c.StorageAccessKey }},
	{"storage_secret_key", []string{"DOCVAULT_STORAGE_SECRET_KEY"}, func(c *Config) *string { return &c.StorageSecretKey }},
	{"storage_bucket", []string{"DOCVAULT_STORAGE_BUCKET"}, func(c *Config) *string { return &c.StorageBucket }},
	{"storage_region", []string{"DOCVAULT_STORAGE_REGION"}, func(c *Config) *string { return &c.StorageRegion }},
	{"log_level", []string{"DOCVAULT_LOG_LEVEL"}, func(c *Config) *string { return &c.LogLevel }},
}

var envInt = []struct {
	name string
	vars []string
	dst  func(c *Config) *int
}{
	{"port", []string{"PORT"}, func(c *Config) *int { return &c.Port }},
	{"token_ttl", []string{"DOCVAULT_TOKEN_TTL"}, func(c *Config) *int { return &c.TokenTTL }},
	{"bcrypt_cost", []string{"DOCVAULT_BCRYPT_COST"}, func(c *Config) *int { return &c.BcryptCost }},
	{"processor_timeout", []string{"DOCVAULT_PROCESSOR_TIMEOUT"}, func(c *Config) *int { return &c.ProcessorTimeout }},
	{"processor_retries", []string{"DOCVAULT_PROCESSOR_RETRIES"}, func(c *Config) *int { return &c.ProcessorRetries }},
}

var envBool = []struct {
	name string
	vars []string
	dst  func(c *Config) *bool
}{
	{"enforce_roles", []string{"DOCVAULT_ENFORCE_ROLES"}, func(c *Config) *bool { return &c.EnforceRoles }},
	{"audit_enabled", []string{"DOCVAULT_AUDIT_ENABLED"}, func(c *Config) *bool { return &c.AuditEnabled }},
	{"storage_use_ssl", []string{"DOCVAULT_STORAGE_USE_SSL"}, func(c *Config) *bool { return &c.StorageUseSSL }},
}

func lookupFirst(vars []string) (string, string, bool) {
	for _, v := range vars {
		if val := os.Getenv(v); val != "" {
			return v, val, true
		}
	}
	return "", "", false
}

func (c *Config) applyEnvConfig() error {
	for _, e := range envString {
		if _, val, ok := lookupFirst(e.vars); ok {
			*e.dst(c) = val
			c.sources[e.name] = "environment"
		}
	}
	for _, e := range envInt {
		if v, val, ok := lookupFirst(e.vars); ok {
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid %s value %q: %w", v, val, err)
			}
			*e.dst(c) = i
			c.sources[e.name] = "environment"
		}
	}
	for _, e := range envBool {
		if _, val, ok := lookupFirst(e.vars); ok {
			*e.dst(c) = val == "true" || val == "1"
			c.sources[e.name] = "environment"
		}
	}
	return nil
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

// Addr returns the host:port the server listens on
func (c *Config) Addr() string {
	return c.BindAddress + ":" + strconv.Itoa(c.Port)
}

// TokenLifetime returns the token TTL as a duration
func (c *Config) TokenLifetime() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

// ProcessorTimeoutDuration returns the processor timeout as a duration
func (c *Config) ProcessorTimeoutDuration() time.Duration {
	return time.Duration(c.ProcessorTimeout) * time.Second
}

// StorageEnabled reports whether document content is written to object storage
func (c *Config) StorageEnabled() bool {
	return c.StorageEndpoint != ""
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.TokenSecret == "" {
		return ErrMissingTokenSecret
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive, got %d", c.TokenTTL)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}

	u, err := url.Parse(c.ProcessorURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid processor_url: %q", c.ProcessorURL)
	}
	if c.ProcessorTimeout <= 0 {
		return fmt.Errorf("processor_timeout must be positive, got %d", c.ProcessorTimeout)
	}
	if c.ProcessorRetries < 0 || c.ProcessorRetries > 1 {
		return fmt.Errorf("processor_retries must be 0 or 1, got %d", c.ProcessorRetries)
	}

	validLevel := false
	for _, l := range ValidLogLevels {
		if c.LogLevel == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}

	if c.StorageEnabled() && c.StorageBucket == "" {
		return fmt.Errorf("storage_bucket is required when storage_endpoint is set")
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources.
// Secrets are redacted.
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "port", Value: strconv.Itoa(c.Port), Source: c.Source("port")},
		{Name: "database_url", Value: redactURL(c.DatabaseURL), Source: c.Source("database_url")},
		{Name: "token_secret", Value: redact(c.TokenSecret), Source: c.Source("token_secret")},
		{Name: "token_ttl", Value: strconv.Itoa(c.TokenTTL), Source: c.Source("token_ttl")},
		{Name: "bcrypt_cost", Value: strconv.Itoa(c.BcryptCost), Source: c.Source("bcrypt_cost")},
		{Name: "processor_url", Value: c.ProcessorURL, Source: c.Source("processor_url")},
		{Name: "processor_timeout", Value: strconv.Itoa(c.ProcessorTimeout), Source: c.Source("processor_timeout")},
		{Name: "processor_retries", Value: strconv.Itoa(c.ProcessorRetries), Source: c.Source("processor_retries")},
		{Name: "enforce_roles", Value: strconv.FormatBool(c.EnforceRoles), Source: c.Source("enforce_roles")},
		{Name: "audit_enabled", Value: strconv.FormatBool(c.AuditEnabled), Source: c.Source("audit_enabled")},
		{Name: "audit_database_url", Value: redactURL(c.AuditDatabaseURL), Source: c.Source("audit_database_url")},
		{Name: "storage_endpoint", Value: c.StorageEndpoint, Source: c.Source("storage_endpoint")},
		{Name: "storage_access_key", Value: c.StorageAccessKey, Source: c.Source("storage_access_key")},
		{Name: "storage_secret_key", Value: redact(c.StorageSecretKey), Source: c.Source("storage_secret_key")},
		{Name: "storage_bucket", Value: c.StorageBucket, Source: c.Source("storage_bucket")},
		{Name: "storage_region", Value: c.StorageRegion, Source: c.Source("storage_region")},
		{Name: "storage_use_ssl", Value: strconv.FormatBool(c.StorageUseSSL), Source: c.Source("storage_use_ssl")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-24s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-24s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-24s %-40s %s\n", attr.Name, value, attr.Source))
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

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}

// redactURL hides the password of a connection URL
func redactURL(s string) string {
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil || u.User == nil {
		return s
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
