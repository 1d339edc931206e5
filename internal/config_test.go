package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paniterce/notecraftr/internal/kvstore"
	"github.com/paniterce/notecraftr/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestStoreConfig_DriverValidation(t *testing.T) {
	for _, driver := range []string{kvstore.DriverSQLite, kvstore.DriverDiskv} {
		cfg := StoreConfig{Driver: driver, Path: "./data"}
		if err := cfg.Validate(); err != nil {
			t.Errorf("driver %q should pass: %v", driver, err)
		}
	}
	cfg := StoreConfig{Driver: "redis", Path: "./data"}
	if err := cfg.Validate(); err == nil {
		t.Error("unknown driver should fail validation")
	}
	cfg = StoreConfig{Driver: kvstore.DriverSQLite}
	if err := cfg.Validate(); err == nil {
		t.Error("empty path should fail validation")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("NOTECRAFTR_TEST_TOKEN", "from-env")
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
app:
  http:
    port: 9000
store:
  driver: diskv
  path: ./data
auth:
  mode: token
  token: ${NOTECRAFTR_TEST_TOKEN}
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := NewDefaultConfig()
	if err := config.Load(path, cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.Token != "from-env" {
		t.Errorf("token = %q", cfg.Auth.Token)
	}
	if cfg.App.HTTP.Port != 9000 || cfg.Store.Driver != kvstore.DriverDiskv {
		t.Errorf("config = %+v", cfg)
	}
}
