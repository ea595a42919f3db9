package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Entrypoint != "manage.py" {
		t.Errorf("Entrypoint = %q, want manage.py", cfg.Entrypoint)
	}
	if !cfg.Defaults.IncludeProductsSales {
		t.Error("IncludeProductsSales = false, want true")
	}
	if cfg.Defaults.Notify {
		t.Error("Notify = true, want false")
	}
}

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posterjob.yaml")
	content := `base_dir: /srv/poster-reports
interpreter: /usr/local/bin/python3.12
entrypoint: manage.py
defaults:
  include_products_sales: false
  json: true
  notify: true
env:
  DJANGO_SETTINGS_MODULE: project.settings
telegram:
  token: "123456:ABC-DEF"
  chat_id: "-100123"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.BaseDir != "/srv/poster-reports" {
		t.Errorf("BaseDir = %q", cfg.BaseDir)
	}
	if cfg.Interpreter != "/usr/local/bin/python3.12" {
		t.Errorf("Interpreter = %q", cfg.Interpreter)
	}
	if cfg.Defaults.IncludeProductsSales {
		t.Error("IncludeProductsSales = true, want false (overridden)")
	}
	if !cfg.Defaults.JSON || !cfg.Defaults.Notify {
		t.Errorf("Defaults = %+v, want json and notify enabled", cfg.Defaults)
	}
	if cfg.Env["DJANGO_SETTINGS_MODULE"] != "project.settings" {
		t.Errorf("Env = %v", cfg.Env)
	}
	if cfg.Telegram.Token != "123456:ABC-DEF" || cfg.Telegram.ChatID != "-100123" {
		t.Errorf("Telegram = %+v", cfg.Telegram)
	}
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posterjob.yaml")
	if err := os.WriteFile(path, []byte("base_dir: /srv/poster\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Entrypoint != "manage.py" {
		t.Errorf("Entrypoint = %q, want default manage.py", cfg.Entrypoint)
	}
	if !cfg.Defaults.IncludeProductsSales {
		t.Error("IncludeProductsSales default lost")
	}
}

func TestLoadFrom_Missing(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("LoadFrom() expected error for missing file")
	}
}

func TestResolveInterpreter(t *testing.T) {
	cfg := &Config{BaseDir: "/srv/poster"}
	want := filepath.Join("/srv/poster", ".venv", "bin", "python")
	if got := cfg.ResolveInterpreter(); got != want {
		t.Errorf("ResolveInterpreter() = %q, want %q", got, want)
	}

	cfg.Interpreter = "/usr/bin/python3"
	if got := cfg.ResolveInterpreter(); got != "/usr/bin/python3" {
		t.Errorf("ResolveInterpreter() = %q, want explicit interpreter", got)
	}

	if got := DefaultInterpreter(""); got != "" {
		t.Errorf("DefaultInterpreter(\"\") = %q, want empty", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("POSTERJOB_BASE_DIR", "/opt/poster")
	t.Setenv("POSTERJOB_TELEGRAM_TOKEN", "env-token")

	cfg := DefaultConfig()
	cfg.BaseDir = "/srv/poster"
	cfg.Telegram.Token = "yaml-token"
	cfg.Telegram.ChatID = "42"

	ApplyEnvOverrides(cfg)

	if cfg.BaseDir != "/opt/poster" {
		t.Errorf("BaseDir = %q, want env override", cfg.BaseDir)
	}
	if cfg.Telegram.Token != "env-token" {
		t.Errorf("Telegram.Token = %q, want env override", cfg.Telegram.Token)
	}
	if cfg.Telegram.ChatID != "42" {
		t.Errorf("Telegram.ChatID = %q, want yaml value kept", cfg.Telegram.ChatID)
	}
}

func TestBuildEnv(t *testing.T) {
	base := t.TempDir()
	dotenv := "POSTER_TOKEN=from-dotenv\nPOSTER_ACCOUNT=demo\n"
	if err := os.WriteFile(filepath.Join(base, ".env"), []byte(dotenv), 0644); err != nil {
		t.Fatal(err)
	}

	env := BuildEnv(base, map[string]string{"DJANGO_SETTINGS_MODULE": "project.settings"})

	for _, want := range []string{
		"POSTER_TOKEN=from-dotenv",
		"POSTER_ACCOUNT=demo",
		"DJANGO_SETTINGS_MODULE=project.settings",
	} {
		if !slices.Contains(env, want) {
			t.Errorf("BuildEnv() missing %q", want)
		}
	}

	// The dotenv entries come after the inherited environment, so they win
	// on duplicate keys.
	if len(env) < 3 {
		t.Fatalf("BuildEnv() returned %d entries", len(env))
	}
}

func TestBuildEnv_NoDotenv(t *testing.T) {
	env := BuildEnv(t.TempDir(), nil)
	if len(env) != len(os.Environ()) {
		t.Errorf("BuildEnv() = %d entries, want %d (inherited only)", len(env), len(os.Environ()))
	}
}
