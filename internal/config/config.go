package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/patagonia-pages/bookpage/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "bookpage.json"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "BOOKPAGE_"

	// DefaultPort is the default server port.
	DefaultPort = 8080

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultOutput is the default export output directory.
	DefaultOutput = "dist"

	// PagesBasePath is the base path of the GitHub Pages deployment.
	PagesBasePath = "/Patagonia-Pages/"
)

// Duration is a time.Duration written as a string ("1s", "30m") in
// bookpage.json and in environment variables.
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config represents the complete bookpage.json configuration.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `json:"server"`

	// Site contains the values rendered on the page.
	Site SiteConfig `json:"site"`

	// Session contains visitor session limits.
	Session SessionConfig `json:"session"`

	// Log contains logging settings.
	Log LogConfig `json:"log"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `json:"tracing"`

	// Export contains static export settings.
	Export ExportConfig `json:"export"`

	// Social are the footer links. They are not read from the environment.
	Social []SocialLink `json:"social,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty" env:"HOST"`
	Port int    `json:"port,omitempty" env:"PORT"`

	// BasePath is the path the site is mounted under (default: "/").
	BasePath string `json:"basePath,omitempty" env:"BASE_PATH"`

	// StaticPrefix is the URL prefix of static assets, relative to
	// BasePath (default: "static/").
	StaticPrefix string `json:"staticPrefix,omitempty" env:"STATIC_PREFIX"`

	// ShutdownTimeout bounds graceful shutdown (default: 10s).
	ShutdownTimeout Duration `json:"shutdownTimeout,omitempty" env:"SHUTDOWN_TIMEOUT"`
}

// SocialLink is a footer link.
type SocialLink struct {
	Name   string `json:"name"`
	Href   string `json:"href"`
	TestID string `json:"testId"`
}

// SiteConfig contains the values rendered on the page.
type SiteConfig struct {
	Title      string `json:"title,omitempty" env:"TITLE"`
	Email      string `json:"email,omitempty" env:"EMAIL"`
	AuthorName string `json:"authorName,omitempty" env:"AUTHOR_NAME"`

	// PreorderForm renders the waitlist form. When false the call to
	// action links to PreorderURL.
	PreorderForm bool   `json:"preorderForm" env:"PREORDER_FORM"`
	PreorderURL  string `json:"preorderUrl,omitempty" env:"PREORDER_URL"`

	// WaitlistDelay is the simulated submission time (default: 1s).
	WaitlistDelay Duration `json:"waitlistDelay,omitempty" env:"WAITLIST_DELAY"`

	// ToastRemoveDelay is how long a dismissed toast stays before removal.
	ToastRemoveDelay Duration `json:"toastRemoveDelay,omitempty" env:"TOAST_REMOVE_DELAY"`
}

// SessionConfig contains visitor session limits.
type SessionConfig struct {
	IdleTimeout      Duration `json:"idleTimeout,omitempty" env:"IDLE_TIMEOUT"`
	MaxSessions      int      `json:"maxSessions,omitempty" env:"MAX_SESSIONS"`
	MaxSessionsPerIP int      `json:"maxSessionsPerIp,omitempty" env:"MAX_SESSIONS_PER_IP"`

	// Eviction is the eviction policy: "oldest", "lru" or "random".
	Eviction string `json:"eviction,omitempty" env:"EVICTION"`

	// SecureCookies marks cookies Secure.
	SecureCookies bool `json:"secureCookies,omitempty" env:"SECURE_COOKIES"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error (default: info).
	Level string `json:"level,omitempty" env:"LEVEL"`

	// Format is text or json (default: text).
	Format string `json:"format,omitempty" env:"FORMAT"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" env:"ENABLED"`
	Namespace string `json:"namespace,omitempty" env:"NAMESPACE"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled bool   `json:"enabled" env:"ENABLED"`
	Name    string `json:"name,omitempty" env:"NAME"`
}

// ExportConfig contains static export settings.
type ExportConfig struct {
	Output string `json:"output,omitempty" env:"OUTPUT"`

	// BasePath is the base path of the exported site.
	BasePath string `json:"basePath,omitempty" env:"BASE_PATH"`

	// Bucket enables upload to S3 when set.
	Bucket string `json:"bucket,omitempty" env:"BUCKET"`
	Prefix string `json:"prefix,omitempty" env:"PREFIX"`
	Region string `json:"region,omitempty" env:"REGION"`

	// Endpoint points the upload at an S3-compatible store.
	Endpoint string `json:"endpoint,omitempty" env:"ENDPOINT"`
}

// hosting holds unprefixed variables set by static hosting builds.
type hosting struct {
	GitHubPages bool `env:"GITHUB_PAGES"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			BasePath:        "/",
			StaticPrefix:    "static/",
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Site: SiteConfig{
			Title:            "Un Andrés Más",
			Email:            "hello@unandreasmas.com",
			AuthorName:       "Andrés David Serrano",
			PreorderForm:     true,
			PreorderURL:      "#",
			WaitlistDelay:    Duration(time.Second),
			ToastRemoveDelay: Duration(1000000 * time.Millisecond),
		},
		Session: SessionConfig{
			IdleTimeout:      Duration(30 * time.Minute),
			MaxSessions:      10000,
			MaxSessionsPerIP: 100,
			Eviction:         "oldest",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "bookpage",
		},
		Tracing: TracingConfig{
			Enabled: true,
			Name:    "bookpage",
		},
		Export: ExportConfig{
			Output:   DefaultOutput,
			BasePath: PagesBasePath,
		},
		Social: []SocialLink{
			{Name: "Instagram", Href: "#", TestID: "link-instagram"},
			{Name: "Facebook", Href: "#", TestID: "link-facebook"},
			{Name: "X", Href: "#", TestID: "link-twitter"},
		},
	}
}

// Load reads bookpage.json from the specified directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E101").
				WithDetail("No " + ConfigFileName + " found at " + path).
				WithSuggestion("Create " + ConfigFileName + " or run without --config to use defaults")
		}
		return nil, errors.New("E102").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E102").
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Resolve loads the configuration the way the CLI does: path when given,
// else bookpage.json in dir when present, else defaults. Environment
// overrides are applied and the result validated.
func Resolve(path, dir string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	switch {
	case path != "":
		cfg, err = LoadFile(path)
	case Exists(dir):
		cfg, err = Load(dir)
	default:
		cfg = New()
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from BOOKPAGE_* environment variables, for
// example BOOKPAGE_SERVER_PORT or BOOKPAGE_SITE_PREORDER_FORM.
// GITHUB_PAGES=true turns the pre-order form off.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(env.Options{Prefix: EnvPrefix})
}

func (c *Config) applyEnv(opts env.Options) error {
	sections := []struct {
		prefix string
		target any
	}{
		{"SERVER_", &c.Server},
		{"SITE_", &c.Site},
		{"SESSION_", &c.Session},
		{"LOG_", &c.Log},
		{"METRICS_", &c.Metrics},
		{"TRACING_", &c.Tracing},
		{"EXPORT_", &c.Export},
	}
	base := opts.Prefix
	for _, s := range sections {
		opts.Prefix = base + s.prefix
		if err := env.ParseWithOptions(s.target, opts); err != nil {
			return errors.New("E104").Wrap(err)
		}
	}

	var h hosting
	hostOpts := opts
	hostOpts.Prefix = ""
	if err := env.ParseWithOptions(&h, hostOpts); err != nil {
		return errors.New("E104").Wrap(err)
	}
	if h.GitHubPages {
		c.Site.PreorderForm = false
	}

	c.applyDefaults()
	return nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E102").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E102").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Normalize fills defaults and normalizes paths. Call it after changing
// fields by hand, as command line overrides do.
func (c *Config) Normalize() {
	c.applyDefaults()
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	d := New()

	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	c.Server.BasePath = normalizeBase(c.Server.BasePath)
	if c.Server.StaticPrefix == "" {
		c.Server.StaticPrefix = d.Server.StaticPrefix
	}
	if !strings.HasSuffix(c.Server.StaticPrefix, "/") {
		c.Server.StaticPrefix += "/"
	}
	c.Server.StaticPrefix = strings.TrimPrefix(c.Server.StaticPrefix, "/")
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}

	if c.Site.Title == "" {
		c.Site.Title = d.Site.Title
	}
	if c.Site.Email == "" {
		c.Site.Email = d.Site.Email
	}
	if c.Site.AuthorName == "" {
		c.Site.AuthorName = d.Site.AuthorName
	}
	if c.Site.PreorderURL == "" {
		c.Site.PreorderURL = d.Site.PreorderURL
	}
	if c.Social == nil {
		c.Social = d.Social
	}
	if c.Site.WaitlistDelay == 0 {
		c.Site.WaitlistDelay = d.Site.WaitlistDelay
	}
	if c.Site.ToastRemoveDelay == 0 {
		c.Site.ToastRemoveDelay = d.Site.ToastRemoveDelay
	}

	if c.Session.IdleTimeout == 0 {
		c.Session.IdleTimeout = d.Session.IdleTimeout
	}
	if c.Session.Eviction == "" {
		c.Session.Eviction = d.Session.Eviction
	}

	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = d.Metrics.Namespace
	}
	if c.Tracing.Name == "" {
		c.Tracing.Name = d.Tracing.Name
	}

	if c.Export.Output == "" {
		c.Export.Output = d.Export.Output
	}
	c.Export.BasePath = normalizeBase(c.Export.BasePath)
}

// normalizeBase returns base with a leading and a trailing slash.
func normalizeBase(base string) string {
	base = strings.Trim(base, "/")
	if base == "" {
		return "/"
	}
	return "/" + base + "/"
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(field, format string, args ...any) {
		errs = append(errs, errors.New("E103").
			WithDetailf("%s: %s", field, fmt.Sprintf(format, args...)))
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		invalid("server.port", "must be between 0 and 65535, got %d", c.Server.Port)
	}
	if c.Session.MaxSessions < 0 {
		invalid("session.maxSessions", "must not be negative")
	}
	if c.Session.MaxSessionsPerIP < 0 {
		invalid("session.maxSessionsPerIp", "must not be negative")
	}
	switch c.Session.Eviction {
	case "oldest", "lru", "random":
	default:
		invalid("session.eviction", "unknown policy %q", c.Session.Eviction)
	}
	if c.Site.WaitlistDelay < 0 || c.Site.ToastRemoveDelay < 0 {
		invalid("site", "delays must not be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		invalid("log.level", "unknown level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		invalid("log.format", "must be text or json, got %q", c.Log.Format)
	}
	if !c.Site.PreorderForm && c.Site.PreorderURL == "" {
		invalid("site.preorderUrl", "required when the pre-order form is off")
	}

	return stderrors.Join(errs...)
}

// Address returns the listen address of the server.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// StaticPath returns the URL path static assets are served under.
func (c *Config) StaticPath() string {
	return c.Server.BasePath + c.Server.StaticPrefix
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
