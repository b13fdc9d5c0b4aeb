package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics mirrors the teacher's internal/metrics declare-and-Register
// pattern, scoped to decode throughput instead of ingestion/storage.
var (
	FramesReceivedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bgpdump_frames_received_total",
		Help: "Transport frames read from a source, before BMP/MRT framing.",
	}, []string{"source"})

	MessagesDecodedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bgpdump_messages_decoded_total",
		Help: "BGP messages successfully decoded, by BGP message type.",
	}, []string{"source", "bgp_type"})

	DecodeErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bgpdump_decode_errors_total",
		Help: "Decode failures, by source and the pipeline stage that failed.",
	}, []string{"source", "stage"})

	TruncatedMessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bgpdump_truncated_messages_total",
		Help: "Messages decoded best-effort from a short buffer.",
	}, []string{"source"})

	PrefixesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bgpdump_prefixes_total",
		Help: "NLRI prefixes seen in UPDATE messages, by announce/withdraw.",
	}, []string{"source", "action"})

	BytesProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bgpdump_bytes_processed_total",
		Help: "Raw bytes consumed from a source.",
	}, []string{"source"})

	DecodeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bgpdump_decode_duration_seconds",
		Help:    "Wall time spent decoding one transport frame end to end.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
)

func registerMetrics() {
	prometheus.MustRegister(
		FramesReceivedTotal,
		MessagesDecodedTotal,
		DecodeErrorsTotal,
		TruncatedMessagesTotal,
		PrefixesTotal,
		BytesProcessed,
		DecodeDuration,
	)
}

// metricsServer is a trimmed adaptation of the teacher's internal/http
// server: just /healthz and /metrics, with no DB/Kafka readiness checks
// since this binary has no persistence layer to report on.
type metricsServer struct {
	srv *http.Server
}

func newMetricsServer(addr string) *metricsServer {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	return &metricsServer{srv: &http.Server{
		Addr:    addr,
		Handler: mux,
	}}
}

func (s *metricsServer) Start() error {
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *metricsServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
