package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/danmuck/edgeapi/internal/config"
	"github.com/danmuck/edgeapi/internal/logging"
	"github.com/danmuck/edgeapi/internal/observability"
	"github.com/danmuck/edgeapi/internal/protocol/envelope"
	"github.com/danmuck/edgeapi/internal/protocol/frame"
)

// cli holds flag values and the effective config of one envctl invocation.
type cli struct {
	configPath string
	tags       bool
	output     string
	framed     bool
	logLevel   string
	metrics    bool

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{cfg: config.Default()}
	root := &cobra.Command{
		Use:                "envctl",
		Short:              "Build, encode and inspect request/response envelopes",
		SilenceUsage:       true,
		PersistentPreRunE:  c.setup,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if !c.metrics {
				return nil
			}
			return observability.WriteText(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "path to an envctl TOML config")
	flags.BoolVar(&c.tags, "tags", false, "emit envelope type tags")
	flags.StringVar(&c.output, "output", config.OutputHex, "message encoding on stdout/stdin: hex or raw")
	flags.BoolVar(&c.framed, "framed", false, "wrap messages in length-delimited frames")
	flags.StringVar(&c.logLevel, "log-level", "", "log level (trace, debug, info, warn, error, off)")
	flags.BoolVar(&c.metrics, "metrics", false, "print envelope metrics to stderr when done")

	root.AddCommand(
		c.newRequestCmd(),
		c.newResponseCmd(),
		c.newErrorCmd(),
		c.newDecodeCmd(),
		newSchemaCmd(),
		newConfigCmd(),
	)
	return root
}

// setup resolves the effective config: defaults, then the config file, then
// flags that were set explicitly.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if c.configPath != "" {
		loaded, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("tags") {
		cfg.TypeTags = c.tags
	}
	if flags.Changed("output") {
		cfg.Output = strings.ToLower(strings.TrimSpace(c.output))
	}
	if flags.Changed("framed") {
		cfg.Framed = c.framed
	}
	if flags.Changed("log-level") {
		level, ok := logging.ParseLevel(c.logLevel)
		if !ok {
			return fmt.Errorf("unknown log level %q", c.logLevel)
		}
		cfg.LogLevel = level
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.cfg = cfg
	envelope.SetTypeTags(cfg.TypeTags)
	logging.SetLevel(cfg.LogLevel)
	log.Debug().
		Bool("type_tags", cfg.TypeTags).
		Str("output", cfg.Output).
		Bool("framed", cfg.Framed).
		Uint32("max_frame_bytes", cfg.MaxFrameBytes).
		Msg("envctl config resolved")
	return nil
}

// emit writes one encoded message, framed and hex encoded as configured.
func (c *cli) emit(w io.Writer, kind uint8, hasBody bool, msg []byte) error {
	name := kindRequest
	if kind == frame.KindResponse {
		name = kindResponse
	}
	observability.RecordEncode(name, hasBody, len(msg))
	if c.cfg.Framed {
		var flags uint16
		if hasBody {
			flags |= frame.FlagHasBody
		}
		var buf bytes.Buffer
		f := frame.Frame{Header: frame.Header{Kind: kind, Flags: flags}, Payload: msg}
		if err := frame.WriteFrame(&buf, f, c.cfg.Limits()); err != nil {
			return err
		}
		observability.RecordFrame("write", kind)
		msg = buf.Bytes()
	}
	if c.cfg.Output == config.OutputRaw {
		_, err := w.Write(msg)
		return err
	}
	_, err := fmt.Fprintln(w, hex.EncodeToString(msg))
	return err
}

// readInput returns the message bytes from the positional argument (always
// hex) or from stdin in the configured output encoding.
func (c *cli) readInput(r io.Reader, args []string) ([]byte, error) {
	if len(args) > 0 {
		return decodeHex(args[0])
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if c.cfg.Output == config.OutputRaw {
		return data, nil
	}
	return decodeHex(string(data))
}

func decodeHex(s string) ([]byte, error) {
	data, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		return nil, fmt.Errorf("decode hex input: %w", err)
	}
	return data, nil
}
