package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danmuck/edgeapi/internal/protocol/envelope"
	"github.com/danmuck/edgeapi/internal/protocol/frame"
)

func (c *cli) newRequestCmd() *cobra.Command {
	var (
		id   string
		body string
	)
	cmd := &cobra.Command{
		Use:   "request <method> <path>",
		Short: "Encode a request header and an optional JSON body",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method, err := envelope.ParseMethod(args[0])
			if err != nil {
				return err
			}
			b := envelope.NewRequestBuilder(method, args[1])
			if cmd.Flags().Changed("id") {
				parsed, err := parseID(id)
				if err != nil {
					return err
				}
				b.ID(parsed)
			}

			var buf bytes.Buffer
			if body == "" {
				err = b.Encode(&buf)
			} else {
				v, perr := parseJSONBody(body)
				if perr != nil {
					return perr
				}
				err = envelope.RequestBody(b, v).Encode(&buf)
			}
			if err != nil {
				return fmt.Errorf("encode request: %w", err)
			}
			return c.emit(cmd.OutOrStdout(), frame.KindRequest, body != "", buf.Bytes())
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "request id in hex (random when unset)")
	cmd.Flags().StringVar(&body, "body", "", "JSON body, re-encoded after the header")
	return cmd
}

func (c *cli) newResponseCmd() *cobra.Command {
	var (
		id   string
		body string
	)
	cmd := &cobra.Command{
		Use:   "response <re> <status>",
		Short: "Encode a response header for request id <re> and an optional JSON body",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := parseStatus(args[1])
			if err != nil {
				return err
			}
			b := envelope.NewResponseBuilder(re, status)
			if cmd.Flags().Changed("id") {
				parsed, err := parseID(id)
				if err != nil {
					return err
				}
				b.ID(parsed)
			}

			var buf bytes.Buffer
			if body == "" {
				err = b.Encode(&buf)
			} else {
				v, perr := parseJSONBody(body)
				if perr != nil {
					return perr
				}
				err = envelope.ResponseBody(b, v).Encode(&buf)
			}
			if err != nil {
				return fmt.Errorf("encode response: %w", err)
			}
			return c.emit(cmd.OutOrStdout(), frame.KindResponse, body != "", buf.Bytes())
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "response id in hex (random when unset)")
	cmd.Flags().StringVar(&body, "body", "", "JSON body, re-encoded after the header")
	return cmd
}

// newErrorCmd encodes a response whose body is an error value.
func (c *cli) newErrorCmd() *cobra.Command {
	var (
		status  string
		method  string
		message string
	)
	cmd := &cobra.Command{
		Use:   "error <re> <path>",
		Short: "Encode an error response for request id <re> on <path>",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := parseStatus(status)
			if err != nil {
				return err
			}
			body := envelope.NewError(args[1])
			if method != "" {
				m, err := envelope.ParseMethod(method)
				if err != nil {
					return err
				}
				body = body.WithMethod(m)
			}
			if cmd.Flags().Changed("message") {
				body = body.WithMessage(message)
			}

			var buf bytes.Buffer
			if err := envelope.ResponseBody(envelope.NewResponseBuilder(re, st), body).Encode(&buf); err != nil {
				return fmt.Errorf("encode error response: %w", err)
			}
			return c.emit(cmd.OutOrStdout(), frame.KindResponse, true, buf.Bytes())
		},
	}
	cmd.Flags().StringVar(&status, "status", "400", "response status code")
	cmd.Flags().StringVar(&method, "method", "", "method of the failed request")
	cmd.Flags().StringVar(&message, "message", "", "error message")
	return cmd
}

func parseID(s string) (envelope.ID, error) {
	raw := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("parse id %q: %w", s, err)
	}
	return envelope.ID(v), nil
}

func parseStatus(s string) (envelope.Status, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil {
		return 0, fmt.Errorf("parse status %q: %w", s, err)
	}
	status := envelope.Status(v)
	if !status.Known() {
		return 0, fmt.Errorf("%w: %d", envelope.ErrUnknownStatus, v)
	}
	return status, nil
}

// parseJSONBody decodes a JSON document into plain values. Integral numbers
// stay integers so they encode as CBOR integers rather than floats.
func parseJSONBody(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parse body: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("parse body: trailing data after JSON value")
	}
	return normalizeJSON(v), nil
}

func normalizeJSON(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, item := range t {
			t[k] = normalizeJSON(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = normalizeJSON(item)
		}
		return t
	default:
		return v
	}
}
