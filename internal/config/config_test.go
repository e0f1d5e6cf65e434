package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/storytime-labs/storytime/internal/config"
)

const baseConfig = `
version = "1.0.0"
shutdown_timeout = "45s"

[server]
host = "127.0.0.1"
port = 8080

[database]
name = "storytime"
user = "storytime"

[storage]
driver = "filesystem"
container_name = "storybooks"

[generation]
openai_key = "sk-test"
google_key = "g-test"

[api]
base_path = "/api"
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()

	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(orig)
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "1.0.0" {
		t.Errorf("version: got %s, want 1.0.0", cfg.Version)
	}
	if cfg.ShutdownTimeout != "45s" {
		t.Errorf("shutdown_timeout: got %s, want 45s", cfg.ShutdownTimeout)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server host: got %s, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "storytime" {
		t.Errorf("db name: got %s, want storytime", cfg.Database.Name)
	}
	if cfg.Storage.ContainerName != "storybooks" {
		t.Errorf("storage container: got %s, want storybooks", cfg.Storage.ContainerName)
	}
	if cfg.Generation.OpenAIKey != "sk-test" {
		t.Errorf("generation openai_key: got %s, want sk-test", cfg.Generation.OpenAIKey)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("api base_path: got %s, want /api", cfg.API.BasePath)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv("STORYTIME_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("db host: got %s, want prodhost (from overlay)", cfg.Database.Host)
	}
	if cfg.Database.Name != "storytime" {
		t.Errorf("db name: got %s, want storytime (from base)", cfg.Database.Name)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("STORYTIME_VERSION", "2.0.0")
	t.Setenv("STORYTIME_SERVER_PORT", "3000")
	t.Setenv("STORYTIME_TEXT_MODEL", "gpt-4o-mini")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.Generation.TextModel != "gpt-4o-mini" {
		t.Errorf("text model: got %s, want gpt-4o-mini", cfg.Generation.TextModel)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv("STORYTIME_DB_NAME", "testdb")
	t.Setenv("STORYTIME_DB_USER", "testuser")
	t.Setenv("STORYTIME_OPENAI_API_KEY", "sk-env")
	t.Setenv("STORYTIME_GOOGLE_API_KEY", "g-env")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "testdb" {
		t.Errorf("db name from env: got %s, want testdb", cfg.Database.Name)
	}
	if cfg.Generation.OpenAIKey != "sk-env" {
		t.Errorf("openai key from env: got %s, want sk-env", cfg.Generation.OpenAIKey)
	}
	if cfg.Storage.Driver != "filesystem" {
		t.Errorf("storage driver default: got %s, want filesystem", cfg.Storage.Driver)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", `version = `)
	chdir(t, dir)

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestLoadMissingGenerationKeys(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv("STORYTIME_DB_NAME", "testdb")
	t.Setenv("STORYTIME_DB_USER", "testuser")

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error when generation keys are absent")
	}
	if !strings.Contains(err.Error(), "openai_key required") {
		t.Errorf("error %q does not mention openai_key", err.Error())
	}
}

func TestEnvDefault(t *testing.T) {
	cfg := &config.Config{}
	if cfg.Env() != "local" {
		t.Errorf("env: got %s, want local", cfg.Env())
	}
}

func TestEnvFromEnvVar(t *testing.T) {
	t.Setenv("STORYTIME_ENV", "production")

	cfg := &config.Config{}
	if cfg.Env() != "production" {
		t.Errorf("env: got %s, want production", cfg.Env())
	}
}

func TestShutdownTimeoutDuration(t *testing.T) {
	cfg := &config.Config{ShutdownTimeout: "45s"}
	if got := cfg.ShutdownTimeoutDuration(); got != 45*time.Second {
		t.Errorf("shutdown timeout: got %v, want 45s", got)
	}
}

func TestServerAddr(t *testing.T) {
	cfg := config.ServerConfig{Host: "0.0.0.0", Port: 9000}
	if got := cfg.Addr(); got != "0.0.0.0:9000" {
		t.Errorf("addr: got %s, want 0.0.0.0:9000", got)
	}
}

func TestPaginationDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.API.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default_page_size: got %d, want 20", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 100 {
		t.Errorf("pagination max_page_size: got %d, want 100", cfg.API.Pagination.MaxPageSize)
	}
}

func TestPaginationEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("STORYTIME_PAGINATION_DEFAULT_PAGE_SIZE", "10")
	t.Setenv("STORYTIME_PAGINATION_MAX_PAGE_SIZE", "40")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.API.Pagination.DefaultPageSize != 10 {
		t.Errorf("pagination default_page_size: got %d, want 10", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 40 {
		t.Errorf("pagination max_page_size: got %d, want 40", cfg.API.Pagination.MaxPageSize)
	}
}

func TestMaxUploadSizeBytes(t *testing.T) {
	cfg := config.APIConfig{MaxUploadSize: "10MB"}
	if got := cfg.MaxUploadSizeBytes(); got != 10*1024*1024 {
		t.Errorf("max upload size: got %d, want %d", got, 10*1024*1024)
	}
}

func TestMaxUploadSizeFallback(t *testing.T) {
	cfg := config.APIConfig{MaxUploadSize: "not-a-size"}
	if got := cfg.MaxUploadSizeBytes(); got != 50*1024*1024 {
		t.Errorf("max upload size fallback: got %d, want %d", got, 50*1024*1024)
	}
}

func TestMaxUploadSizeEnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("STORYTIME_API_MAX_UPLOAD_SIZE", "5MB")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if got := cfg.API.MaxUploadSizeBytes(); got != 5*1024*1024 {
		t.Errorf("max upload size: got %d, want %d", got, 5*1024*1024)
	}
}

func TestServerValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ServerConfig
		wantErr string
	}{
		{
			name:    "negative port",
			cfg:     config.ServerConfig{Port: -1},
			wantErr: "invalid port",
		},
		{
			name:    "port too large",
			cfg:     config.ServerConfig{Port: 70000},
			wantErr: "invalid port",
		},
		{
			name:    "bad read timeout",
			cfg:     config.ServerConfig{ReadTimeout: "soon"},
			wantErr: "invalid read_timeout",
		},
		{
			name: "defaults valid",
			cfg:  config.ServerConfig{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestGenerationDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Generation.TextModel != "gpt-4o" {
		t.Errorf("text model: got %s, want gpt-4o", cfg.Generation.TextModel)
	}
	if cfg.Generation.ImageModel != "gemini-2.5-flash-image" {
		t.Errorf("image model: got %s, want gemini-2.5-flash-image", cfg.Generation.ImageModel)
	}
	if cfg.Generation.RequestsPerMinute != 12 {
		t.Errorf("requests per minute: got %d, want 12", cfg.Generation.RequestsPerMinute)
	}
	if cfg.Generation.MaxRetries != 3 {
		t.Errorf("max retries: got %d, want 3", cfg.Generation.MaxRetries)
	}
}
