package config

import (
	"os"
	"strings"
)

// Config is read once at startup from the environment.
type Config struct {
	Host           string
	Port           string
	DatabaseURL    string
	MigrationsPath string
	LogMode        string
	DataDir        string
	PolicyFile     string
	KeySuffix      string
	SurveyPhase    string
	ReportFonts    []string
}

var defaultFonts = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

// FromEnv reads the process environment.
func FromEnv() Config {
	return Load(os.Getenv)
}

// Load builds a Config from getenv, applying defaults for unset variables.
// DATABASE_URL has no default: without it the postgres source is disabled.
func Load(getenv func(string) string) Config {
	cfg := Config{
		Host:           str(getenv, "HOST", "127.0.0.1"),
		Port:           str(getenv, "PORT", "8080"),
		DatabaseURL:    str(getenv, "DATABASE_URL", ""),
		MigrationsPath: str(getenv, "MIGRATIONS_PATH", "file://migrations"),
		LogMode:        str(getenv, "LOG_MODE", "dev"),
		DataDir:        str(getenv, "DATA_DIR", "data"),
		PolicyFile:     str(getenv, "POLICY_FILE", ""),
		SurveyPhase:    str(getenv, "SURVEY_PHASE", ""),
		ReportFonts:    defaultFonts,
	}
	// KEY_SUFFIX=none disables suffix matching.
	if v, ok := lookup(getenv, "KEY_SUFFIX"); ok {
		cfg.KeySuffix = v
	} else {
		cfg.KeySuffix = ".json"
	}
	if v := strings.TrimSpace(getenv("REPORT_FONT")); v != "" {
		cfg.ReportFonts = append([]string{v}, defaultFonts...)
	}
	return cfg
}

// Addr is the listen address.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

func str(getenv func(string) string, name, def string) string {
	v := strings.TrimSpace(getenv(name))
	if v == "" {
		return def
	}
	return v
}

// lookup treats the literal value "none" as set but empty.
func lookup(getenv func(string) string, name string) (string, bool) {
	v := strings.TrimSpace(getenv(name))
	switch v {
	case "":
		return "", false
	case "none":
		return "", true
	default:
		return v, true
	}
}
