package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/danmuck/edgeapi/internal/testutil/testlog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "envctl.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadTemplateMatchesDefaults(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "envctl.toml")
	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("template differs from defaults: got=%+v want=%+v", cfg, Default())
	}
}

func TestLoadOverridesDefinedKeysOnly(t *testing.T) {
	testlog.Start(t)
	cfg, err := Load(writeConfig(t, "type_tags = true\noutput = \" RAW \"\nmax_frame_bytes = 1024\n"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.TypeTags {
		t.Fatalf("expected type tags enabled")
	}
	if cfg.Output != OutputRaw {
		t.Fatalf("unexpected output: %q", cfg.Output)
	}
	if cfg.Limits().MaxPayloadBytes != 1024 {
		t.Fatalf("unexpected limits: %+v", cfg.Limits())
	}
	if cfg.Framed {
		t.Fatalf("framed should keep its default")
	}
	if cfg.LogLevel != zerolog.WarnLevel {
		t.Fatalf("log level should keep its default, got %v", cfg.LogLevel)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	testlog.Start(t)
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "output", body: `output = "base64"`, want: "config output"},
		{name: "max frame zero", body: `max_frame_bytes = 0`, want: "max_frame_bytes"},
		{name: "max frame overflow", body: `max_frame_bytes = 5000000000`, want: "max_frame_bytes"},
		{name: "log level", body: `log_level = "loud"`, want: "log_level"},
		{name: "unknown key", body: `tags = true`, want: "unknown key"},
		{name: "syntax", body: `output = `, want: "load envctl config"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	testlog.Start(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestWriteTemplateRefusesOverwrite(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, "framed = true\n")
	if err := WriteTemplate(path, false); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	if err := WriteTemplate(path, true); err != nil {
		t.Fatalf("overwrite template: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != Template {
		t.Fatalf("template not written: %v", err)
	}
}
