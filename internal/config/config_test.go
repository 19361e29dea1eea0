package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/patagonia-pages/bookpage/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if !cfg.Site.PreorderForm {
		t.Error("pre-order form should be on by default")
	}
	if cfg.Site.WaitlistDelay.Std() != time.Second {
		t.Errorf("WaitlistDelay = %v, want 1s", cfg.Site.WaitlistDelay.Std())
	}
	if cfg.Export.BasePath != PagesBasePath {
		t.Errorf("Export.BasePath = %q", cfg.Export.BasePath)
	}
	if len(cfg.Social) != 3 {
		t.Errorf("Social = %v", cfg.Social)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	if !errors.HasCode(err, "E101") {
		t.Fatalf("Load() on empty dir error = %v, want E101", err)
	}

	configJSON := `{
  "server": {"port": 9000, "basePath": "book"},
  "site": {"preorderForm": false, "preorderUrl": "https://forms.example.com/x", "waitlistDelay": "250ms"},
  "session": {"idleTimeout": "5m", "eviction": "lru"},
  "social": [{"name": "Instagram", "href": "https://instagram.com/x", "testId": "link-instagram"}]
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Server.BasePath != "/book/" {
		t.Errorf("Server.BasePath = %q, want /book/", cfg.Server.BasePath)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("missing host should default, got %q", cfg.Server.Host)
	}
	if cfg.Site.PreorderForm {
		t.Error("preorderForm false should be kept")
	}
	if cfg.Site.WaitlistDelay.Std() != 250*time.Millisecond {
		t.Errorf("WaitlistDelay = %v", cfg.Site.WaitlistDelay.Std())
	}
	if cfg.Session.IdleTimeout.Std() != 5*time.Minute || cfg.Session.Eviction != "lru" {
		t.Errorf("Session = %+v", cfg.Session)
	}
	if cfg.Session.MaxSessions != 10000 {
		t.Errorf("MaxSessions should keep its default, got %d", cfg.Session.MaxSessions)
	}
	if len(cfg.Social) != 1 || cfg.Social[0].Href != "https://instagram.com/x" {
		t.Errorf("Social = %+v", cfg.Social)
	}
	if cfg.Path() != filepath.Join(tmpDir, ConfigFileName) {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(`{"server": `), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	if !errors.HasCode(err, "E102") {
		t.Errorf("LoadFile() error = %v, want E102", err)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(`{"site": {"waitlistDelay": "soon"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); !errors.HasCode(err, "E102") {
		t.Errorf("LoadFile() error = %v, want E102", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)

	cfg := New()
	cfg.Server.Port = 7000
	cfg.Site.ToastRemoveDelay = Duration(3 * time.Second)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"toastRemoveDelay": "3s"`) {
		t.Errorf("durations should be written as strings:\n%s", data)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if loaded.Server.Port != 7000 || loaded.Site.ToastRemoveDelay.Std() != 3*time.Second {
		t.Errorf("round trip lost values: %+v", loaded.Server)
	}

	loaded.Server.Port = 7001
	if err := loaded.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := New().Save(); err == nil {
		t.Error("Save() without a path should fail")
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name  string
		vars  map[string]string
		check func(t *testing.T, c *Config)
	}{
		{
			name: "server port",
			vars: map[string]string{"BOOKPAGE_SERVER_PORT": "9999"},
			check: func(t *testing.T, c *Config) {
				if c.Server.Port != 9999 {
					t.Errorf("Port = %d", c.Server.Port)
				}
			},
		},
		{
			name: "durations",
			vars: map[string]string{
				"BOOKPAGE_SESSION_IDLE_TIMEOUT":    "10m",
				"BOOKPAGE_SITE_WAITLIST_DELAY":     "2s",
				"BOOKPAGE_SITE_TOAST_REMOVE_DELAY": "5s",
				"BOOKPAGE_LOG_LEVEL":               "debug",
				"BOOKPAGE_EXPORT_BUCKET":           "pages",
				"BOOKPAGE_EXPORT_OUTPUT":           "public",
				"BOOKPAGE_SERVER_BASE_PATH":        "sub",
				"BOOKPAGE_SERVER_STATIC_PREFIX":    "assets",
				"BOOKPAGE_METRICS_ENABLED":         "false",
				"BOOKPAGE_TRACING_NAME":            "book",
				"BOOKPAGE_SITE_PREORDER_URL":       "https://example.com/form",
				"BOOKPAGE_SESSION_MAX_SESSIONS":    "5",
				"BOOKPAGE_SESSION_EVICTION":        "random",
			},
			check: func(t *testing.T, c *Config) {
				if c.Session.IdleTimeout.Std() != 10*time.Minute {
					t.Errorf("IdleTimeout = %v", c.Session.IdleTimeout.Std())
				}
				if c.Site.WaitlistDelay.Std() != 2*time.Second {
					t.Errorf("WaitlistDelay = %v", c.Site.WaitlistDelay.Std())
				}
				if c.Log.Level != "debug" || c.Export.Bucket != "pages" || c.Tracing.Name != "book" {
					t.Errorf("overrides not applied: %+v %+v %+v", c.Log, c.Export, c.Tracing)
				}
				if c.Server.BasePath != "/sub/" || c.Server.StaticPrefix != "assets/" {
					t.Errorf("paths not normalized: %q %q", c.Server.BasePath, c.Server.StaticPrefix)
				}
				if c.Metrics.Enabled {
					t.Error("metrics should be disabled")
				}
				if c.StaticPath() != "/sub/assets/" {
					t.Errorf("StaticPath() = %q", c.StaticPath())
				}
			},
		},
		{
			name: "github pages turns the form off",
			vars: map[string]string{"GITHUB_PAGES": "true"},
			check: func(t *testing.T, c *Config) {
				if c.Site.PreorderForm {
					t.Error("GITHUB_PAGES=true should turn the form off")
				}
			},
		},
		{
			name: "github pages false keeps the form",
			vars: map[string]string{"GITHUB_PAGES": "false"},
			check: func(t *testing.T, c *Config) {
				if !c.Site.PreorderForm {
					t.Error("form should stay on")
				}
			},
		},
		{
			name: "unprefixed variables are ignored",
			vars: map[string]string{"SERVER_PORT": "1"},
			check: func(t *testing.T, c *Config) {
				if c.Server.Port != DefaultPort {
					t.Errorf("Port = %d", c.Server.Port)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			if err := cfg.applyEnv(env.Options{Prefix: EnvPrefix, Environment: tt.vars}); err != nil {
				t.Fatalf("applyEnv() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	cfg := New()
	err := cfg.applyEnv(env.Options{
		Prefix:      EnvPrefix,
		Environment: map[string]string{"BOOKPAGE_SERVER_PORT": "eighty"},
	})
	if !errors.HasCode(err, "E104") {
		t.Errorf("applyEnv() error = %v, want E104", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"negative max sessions", func(c *Config) { c.Session.MaxSessions = -1 }, true},
		{"unknown eviction", func(c *Config) { c.Session.Eviction = "fifo" }, true},
		{"unknown level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"unknown format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"form off without url", func(c *Config) {
			c.Site.PreorderForm = false
			c.Site.PreorderURL = ""
		}, true},
		{"negative delay", func(c *Config) { c.Site.WaitlistDelay = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.HasCode(err, "E103") {
				t.Errorf("Validate() error = %v, want E103", err)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Resolve("", dir)
	if err != nil {
		t.Fatalf("Resolve() without file error = %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("defaults should have no path, got %q", cfg.Path())
	}

	if _, err := Resolve(filepath.Join(dir, "missing.json"), dir); !errors.HasCode(err, "E101") {
		t.Errorf("Resolve() with missing explicit file error = %v, want E101", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`{"server": {"port": 1234}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Resolve("", dir)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Server.Port != 1234 {
		t.Errorf("Port = %d, want 1234", cfg.Server.Port)
	}
	if cfg.Address() != "localhost:1234" {
		t.Errorf("Address() = %q", cfg.Address())
	}
}
