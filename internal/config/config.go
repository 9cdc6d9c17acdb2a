package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/danmuck/edgeapi/internal/logging"
	"github.com/danmuck/edgeapi/internal/protocol/frame"
)

// Output formats for encoded envelopes.
const (
	OutputHex = "hex"
	OutputRaw = "raw"
)

// Config drives envctl: how envelopes are encoded and how they are written.
type Config struct {
	TypeTags      bool
	Output        string
	Framed        bool
	MaxFrameBytes uint32
	LogLevel      zerolog.Level
}

func Default() Config {
	return Config{
		Output:        OutputHex,
		MaxFrameBytes: frame.DefaultLimits().MaxPayloadBytes,
		LogLevel:      zerolog.WarnLevel,
	}
}

type fileConfig struct {
	TypeTags      bool   `toml:"type_tags"`
	Output        string `toml:"output"`
	Framed        bool   `toml:"framed"`
	MaxFrameBytes int64  `toml:"max_frame_bytes"`
	LogLevel      string `toml:"log_level"`
}

// Load overlays the keys defined in the TOML file at path on Default.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load envctl config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load envctl config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("type_tags") {
		cfg.TypeTags = raw.TypeTags
	}
	if meta.IsDefined("output") {
		cfg.Output = strings.ToLower(strings.TrimSpace(raw.Output))
	}
	if meta.IsDefined("framed") {
		cfg.Framed = raw.Framed
	}
	if meta.IsDefined("max_frame_bytes") {
		if raw.MaxFrameBytes <= 0 || raw.MaxFrameBytes > int64(^uint32(0)) {
			return Config{}, fmt.Errorf("max_frame_bytes out of range: %d", raw.MaxFrameBytes)
		}
		cfg.MaxFrameBytes = uint32(raw.MaxFrameBytes)
	}
	if meta.IsDefined("log_level") {
		level, ok := logging.ParseLevel(raw.LogLevel)
		if !ok {
			return Config{}, fmt.Errorf("parse log_level: unknown level %q", raw.LogLevel)
		}
		cfg.LogLevel = level
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Output {
	case OutputHex, OutputRaw:
	default:
		return fmt.Errorf("config output must be %q or %q, got %q", OutputHex, OutputRaw, c.Output)
	}
	if c.MaxFrameBytes == 0 {
		return fmt.Errorf("config max_frame_bytes must be positive")
	}
	return nil
}

// Limits returns the frame limits implied by the config.
func (c Config) Limits() frame.Limits {
	return frame.Limits{MaxPayloadBytes: c.MaxFrameBytes}
}
