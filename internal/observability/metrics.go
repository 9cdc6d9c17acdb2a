package observability

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/danmuck/edgeapi/internal/protocol/envelope"
	"github.com/danmuck/edgeapi/internal/protocol/frame"
	"github.com/danmuck/edgeapi/internal/protocol/schema"
)

// Decode results used as the "result" label.
const (
	ResultOK           = "ok"
	ResultTagMismatch  = "tag_mismatch"
	ResultMissingField = "missing_field"
	ResultMalformed    = "malformed"
)

var (
	registerOnce sync.Once
	registry     = prometheus.NewRegistry()

	envelopesEncoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edgeapi",
			Subsystem: "envelope",
			Name:      "encoded_total",
			Help:      "Envelope messages encoded.",
		},
		[]string{"envelope", "has_body"},
	)
	envelopesDecoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edgeapi",
			Subsystem: "envelope",
			Name:      "decoded_total",
			Help:      "Envelope decode attempts by result.",
		},
		[]string{"envelope", "result"},
	)
	messageBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "edgeapi",
			Subsystem: "envelope",
			Name:      "message_bytes",
			Help:      "Size of encoded messages, header and body.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		},
		[]string{"envelope"},
	)
	framesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edgeapi",
			Subsystem: "frame",
			Name:      "frames_total",
			Help:      "Frames written or read.",
		},
		[]string{"direction", "kind"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		registry.MustRegister(envelopesEncoded, envelopesDecoded, messageBytes, framesTotal)
	})
}

// Registry returns the registry holding the envelope metrics.
func Registry() *prometheus.Registry {
	RegisterMetrics()
	return registry
}

func RecordEncode(envelopeName string, hasBody bool, size int) {
	RegisterMetrics()
	envelopesEncoded.WithLabelValues(envelopeName, fmt.Sprint(hasBody)).Inc()
	messageBytes.WithLabelValues(envelopeName).Observe(float64(size))
}

func RecordDecode(envelopeName string, err error) {
	RegisterMetrics()
	envelopesDecoded.WithLabelValues(envelopeName, DecodeResult(err)).Inc()
}

func RecordFrame(direction string, kind uint8) {
	RegisterMetrics()
	framesTotal.WithLabelValues(direction, frameKind(kind)).Inc()
}

// DecodeResult classifies a decode error into a result label.
func DecodeResult(err error) string {
	if err == nil {
		return ResultOK
	}
	var tm *envelope.TagMismatchError
	if errors.As(err, &tm) {
		return ResultTagMismatch
	}
	var ve schema.ValidationError
	if errors.As(err, &ve) {
		return ResultMissingField
	}
	return ResultMalformed
}

func frameKind(kind uint8) string {
	switch kind {
	case frame.KindRequest:
		return "request"
	case frame.KindResponse:
		return "response"
	default:
		return "unknown"
	}
}

// WriteText writes every registered metric in the Prometheus text format.
func WriteText(w io.Writer) error {
	families, err := Registry().Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
