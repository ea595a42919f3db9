package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
)

// ApplyEnvOverrides applies POSTERJOB_* environment variables on top of the
// loaded config (env overrides yaml, flags override both).
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("POSTERJOB_BASE_DIR"); v != "" {
		cfg.BaseDir = v
	}
	if v := os.Getenv("POSTERJOB_INTERPRETER"); v != "" {
		cfg.Interpreter = v
	}
	if v := os.Getenv("POSTERJOB_ENTRYPOINT"); v != "" {
		cfg.Entrypoint = v
	}
	if v := os.Getenv("POSTERJOB_TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("POSTERJOB_TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
}

// BuildEnv assembles the environment for the child processes: the parent
// environment, then <baseDir>/.env if present, then the config's env map.
// Later entries win on duplicate keys.
func BuildEnv(baseDir string, extra map[string]string) []string {
	env := os.Environ()

	if baseDir != "" {
		if dotenv, err := godotenv.Read(filepath.Join(baseDir, ".env")); err == nil {
			env = appendSorted(env, dotenv)
		}
	}

	return appendSorted(env, extra)
}

// appendSorted appends a map as KEY=value pairs in a stable order.
func appendSorted(env []string, vars map[string]string) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		env = append(env, fmt.Sprintf("%s=%s", k, vars[k]))
	}
	return env
}
