package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"

	"github.com/danmuck/edgeapi/internal/observability"
	"github.com/danmuck/edgeapi/internal/protocol/envelope"
	"github.com/danmuck/edgeapi/internal/protocol/frame"
)

const (
	kindAuto     = "auto"
	kindRequest  = "request"
	kindResponse = "response"
	kindError    = "error"
)

func (c *cli) newDecodeCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "decode [hex]",
		Short: "Decode a message and print its header and body",
		Long: "Decode a message given as a hex argument or on stdin. Framed input may " +
			"hold several frames; the frame kind selects the envelope.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !c.cfg.Framed {
				return describe(out, kind, data)
			}

			r := bytes.NewReader(data)
			for r.Len() > 0 {
				f, err := frame.ReadFrame(r, c.cfg.Limits())
				if err != nil {
					return err
				}
				observability.RecordFrame("read", f.Header.Kind)
				k := kindRequest
				if f.Header.Kind == frame.KindResponse {
					k = kindResponse
				}
				if err := describe(out, k, f.Payload); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", kindAuto, "envelope kind: request, response, error or auto")
	return cmd
}

func describe(w io.Writer, kind string, data []byte) error {
	switch kind {
	case kindRequest:
		return describeRequest(w, data)
	case kindResponse:
		return describeResponse(w, data)
	case kindError:
		return describeError(w, data)
	case kindAuto:
		var errs []error
		for _, fn := range []func(io.Writer, []byte) error{describeRequest, describeResponse, describeError} {
			err := fn(w, data)
			if err == nil {
				return nil
			}
			errs = append(errs, err)
		}
		return fmt.Errorf("input is not an envelope: %w", errors.Join(errs...))
	default:
		return fmt.Errorf("unknown kind %q", kind)
	}
}

func describeRequest(w io.Writer, data []byte) error {
	var req envelope.Request
	rest, err := envelope.Decode(data, &req)
	observability.RecordDecode(kindRequest, err)
	if err != nil {
		return err
	}
	method := "-"
	if m, ok := req.Method(); ok {
		method = m.String()
	}
	fmt.Fprintf(w, "request id=%s method=%s path=%s has_body=%t\n", req.ID(), method, req.Path(), req.HasBody())
	return describeBody(w, req.HasBody(), rest, false)
}

func describeResponse(w io.Writer, data []byte) error {
	var res envelope.Response
	rest, err := envelope.Decode(data, &res)
	observability.RecordDecode(kindResponse, err)
	if err != nil {
		return err
	}
	status, ok := res.Status()
	statusText := "-"
	if ok {
		statusText = status.String()
	}
	fmt.Fprintf(w, "response id=%s re=%s status=%q has_body=%t\n", res.ID(), res.Re(), statusText, res.HasBody())
	return describeBody(w, res.HasBody(), rest, !ok || status != envelope.StatusOK)
}

func describeError(w io.Writer, data []byte) error {
	var e envelope.Error
	rest, err := envelope.Decode(data, &e)
	observability.RecordDecode(kindError, err)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "error %s\n", e.Error())
	return describeTrailing(w, rest)
}

// describeBody prints the body in diagnostic notation. Error bodies of
// failed responses are printed in their readable form as well.
func describeBody(w io.Writer, hasBody bool, rest []byte, failed bool) error {
	if !hasBody {
		return describeTrailing(w, rest)
	}
	if len(rest) == 0 {
		fmt.Fprintln(w, "body missing")
		return nil
	}
	diag, after, err := cbor.DiagnoseFirst(rest)
	if err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	fmt.Fprintf(w, "body %s\n", diag)
	if failed {
		var e envelope.Error
		if _, err := envelope.Decode(rest, &e); err == nil {
			fmt.Fprintf(w, "error %s\n", e.Error())
		}
	}
	return describeTrailing(w, after)
}

func describeTrailing(w io.Writer, rest []byte) error {
	if len(rest) > 0 {
		fmt.Fprintf(w, "trailing %d bytes\n", len(rest))
	}
	return nil
}
