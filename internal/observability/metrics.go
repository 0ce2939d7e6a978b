package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	framesRead = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "framewire",
			Subsystem: "stream",
			Name:      "frames_read_total",
			Help:      "Complete frames decoded from the transport.",
		},
		[]string{"peer"},
	)
	framesWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "framewire",
			Subsystem: "stream",
			Name:      "frames_written_total",
			Help:      "Frames fully flushed to the transport.",
		},
		[]string{"peer"},
	)
	bytesRead = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "framewire",
			Subsystem: "stream",
			Name:      "bytes_read_total",
			Help:      "Raw bytes accepted from the transport read half.",
		},
		[]string{"peer"},
	)
	bytesWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "framewire",
			Subsystem: "stream",
			Name:      "bytes_written_total",
			Help:      "Raw bytes accepted by the transport write half.",
		},
		[]string{"peer"},
	)
	decodeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "framewire",
			Subsystem: "stream",
			Name:      "decode_errors_total",
			Help:      "Header or payload decode failures.",
		},
		[]string{"peer", "stage"},
	)
	disconnects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "framewire",
			Subsystem: "stream",
			Name:      "disconnects_total",
			Help:      "Peer disconnections observed mid-read or mid-write.",
		},
		[]string{"peer"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(framesRead, framesWritten, bytesRead, bytesWritten, decodeErrors, disconnects)
	})
}

func RecordFrameRead(peer string) {
	RegisterMetrics()
	framesRead.WithLabelValues(peer).Inc()
}

func RecordFrameWritten(peer string) {
	RegisterMetrics()
	framesWritten.WithLabelValues(peer).Inc()
}

func RecordBytesRead(peer string, n int) {
	RegisterMetrics()
	bytesRead.WithLabelValues(peer).Add(float64(n))
}

func RecordBytesWritten(peer string, n int) {
	RegisterMetrics()
	bytesWritten.WithLabelValues(peer).Add(float64(n))
}

func RecordDecodeError(peer, stage string) {
	RegisterMetrics()
	decodeErrors.WithLabelValues(peer, stage).Inc()
}

func RecordDisconnect(peer string) {
	RegisterMetrics()
	disconnects.WithLabelValues(peer).Inc()
}
