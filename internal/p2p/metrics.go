package p2p

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var ErrFailedToRegisterMetrics = errors.New("failed to register metrics")

const (
	rejectReasonMagic    = "magic"
	rejectReasonSize     = "size"
	rejectReasonChecksum = "checksum"
	rejectReasonRead     = "read"
)

// Metrics counts frames passing through a WireReader.
type Metrics struct {
	framesRead     *prometheus.CounterVec
	framesRejected *prometheus.CounterVec
	payloadBytes   prometheus.Histogram
}

// NewMetrics creates the frame metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		framesRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "p2pwire_frames_read_total",
			Help: "Nr of frames read, by command",
		}, []string{"command"}),
		framesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "p2pwire_frames_rejected_total",
			Help: "Nr of frames rejected, by reason",
		}, []string{"reason"}),
		payloadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "p2pwire_frame_payload_bytes",
			Help:    "Payload size of frames read",
			Buckets: prometheus.ExponentialBuckets(32, 4, 10),
		}),
	}

	for _, c := range []prometheus.Collector{m.framesRead, m.framesRejected, m.payloadBytes} {
		err := reg.Register(c)
		if err != nil {
			return nil, errors.Join(ErrFailedToRegisterMetrics, err)
		}
	}

	return m, nil
}

func (m *Metrics) frameRead(command string, size int) {
	if m == nil {
		return
	}

	m.framesRead.WithLabelValues(command).Inc()
	m.payloadBytes.Observe(float64(size))
}

func (m *Metrics) frameRejected(reason string) {
	if m == nil {
		return
	}

	m.framesRejected.WithLabelValues(reason).Inc()
}
