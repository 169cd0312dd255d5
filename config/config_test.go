package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected logging defaults, got level %q", cfg.Logging.Level)
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if !cfg.IsProduction() {
			t.Error("expected IsProduction")
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
		errMsg  string
	}{
		{"valid development", ServiceConfig{Name: "svc", Environment: "development"}, false, ""},
		{"valid production", ServiceConfig{Name: "svc", Environment: "production"}, false, ""},
		{"missing name", ServiceConfig{Environment: "production"}, true, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "invalid"}, true, "config.environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

type testJWT struct {
	Secret     string `mapstructure:"secret"`
	Expiration int64  `mapstructure:"expiration"`
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	JWT           testJWT `yaml:"jwt" mapstructure:"jwt"`
}

func (c *testConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.JWT.Expiration == 0 {
		c.JWT.Expiration = 86400000
	}
}

func (c *testConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("jwt.secret must be at least 32 bytes")
	}
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: mddapi
environment: staging
jwt:
  secret: "0123456789abcdef0123456789abcdef"
  expiration: 60000
`)

	var cfg testConfig
	if err := LoadConfig("mddapi", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Name != "mddapi" {
		t.Errorf("expected name 'mddapi', got %q", cfg.Name)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if cfg.JWT.Expiration != 60000 {
		t.Errorf("expected expiration 60000, got %d", cfg.JWT.Expiration)
	}
}

func TestLoadConfigEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: mddapi
jwt:
  secret: "from-yaml-from-yaml-from-yaml-xx"
  expiration: 60000
`)
	t.Setenv("JWT_SECRET", "from-env-from-env-from-env-from-env")
	t.Setenv("JWT_EXPIRATION", "1000")

	var cfg testConfig
	if err := LoadConfig("mddapi", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.JWT.Secret != "from-env-from-env-from-env-from-env" {
		t.Errorf("expected env secret, got %q", cfg.JWT.Secret)
	}
	if cfg.JWT.Expiration != 1000 {
		t.Errorf("expected env expiration 1000, got %d", cfg.JWT.Expiration)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestLoadConfigBrokenYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", "name: [unclosed")
	var cfg testConfig
	if err := LoadConfig("mddapi", &cfg, WithConfigFile(path)); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestLoad_AppliesDefaultsAndValidates(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yml", `
name: mddapi
jwt:
  secret: "0123456789abcdef0123456789abcdef"
`)
	cfg, err := Load[testConfig]("mddapi", WithConfigFile(good))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.JWT.Expiration != 86400000 {
		t.Errorf("expected default expiration, got %d", cfg.JWT.Expiration)
	}
	if cfg.Environment != "development" {
		t.Errorf("expected default environment, got %q", cfg.Environment)
	}

	bad := writeFile(t, dir, "bad.yml", `
name: mddapi
jwt:
  secret: "short"
`)
	if _, err := Load[testConfig]("mddapi", WithConfigFile(bad)); err == nil {
		t.Fatal("expected validation error for short secret")
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/mddapi/config.yml": true,
		"./.env":                  true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("mddapi", LoaderConfig{})
	if files.ConfigFile != "./cmd/mddapi/config.yml" {
		t.Errorf("expected config file at ./cmd/mddapi/config.yml, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("expected env file ./.env, got %q", files.EnvFile)
	}
}

func TestResolverExplicitPathsWin(t *testing.T) {
	resolver := &Resolver{FileSystem: &mockFS{files: map[string]bool{"./config.yml": true}}}
	files := resolver.ResolveFiles("mddapi", LoaderConfig{ConfigFile: "/etc/mddapi.yml", EnvFile: "/etc/mddapi.env"})
	if files.ConfigFile != "/etc/mddapi.yml" || files.EnvFile != "/etc/mddapi.env" {
		t.Errorf("expected explicit paths, got %+v", files)
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	WithFileSystem(fs)(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)

	if lc.FileSystem == nil {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/config.yml" {
		t.Errorf("expected config file path, got %q", lc.ConfigFile)
	}
	if lc.EnvFile != "/path/to/.env" {
		t.Errorf("expected env file path, got %q", lc.EnvFile)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	tests := []struct {
		key  string
		want []string
	}{
		{"PORT", []string{"port"}},
		{"JWT_SECRET", []string{"jwt_secret", "jwt.secret"}},
		{"REVOCATION_CLEANUP_PERIOD", []string{"revocation.cleanup_period", "revocation_cleanup.period"}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := generateEnvKeyVariants(tt.key)
			for _, w := range tt.want {
				if !slices.Contains(got, w) {
					t.Errorf("expected %q in %v", w, got)
				}
			}
		})
	}
}
