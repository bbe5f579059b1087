package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load(env(nil))

	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
	assert.Equal(t, "dev", cfg.LogMode)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, ".json", cfg.KeySuffix)
	assert.Empty(t, cfg.SurveyPhase)
	assert.Equal(t, defaultFonts, cfg.ReportFonts)
}

func TestLoadOverrides(t *testing.T) {
	cfg := Load(env(map[string]string{
		"HOST":         "0.0.0.0",
		"PORT":         " 9090 ",
		"DATABASE_URL": "postgres://localhost/studentlife",
		"LOG_MODE":     "prod",
		"DATA_DIR":     "/srv/studentlife",
		"POLICY_FILE":  "policy.yaml",
		"KEY_SUFFIX":   "none",
		"SURVEY_PHASE": "pre",
		"REPORT_FONT":  "/fonts/Inter.ttf",
	}))

	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.Equal(t, "postgres://localhost/studentlife", cfg.DatabaseURL)
	assert.Equal(t, "prod", cfg.LogMode)
	assert.Equal(t, "/srv/studentlife", cfg.DataDir)
	assert.Equal(t, "policy.yaml", cfg.PolicyFile)
	assert.Empty(t, cfg.KeySuffix)
	assert.Equal(t, "pre", cfg.SurveyPhase)
	assert.Equal(t, "/fonts/Inter.ttf", cfg.ReportFonts[0])
	assert.Len(t, cfg.ReportFonts, len(defaultFonts)+1)
}
