// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

// Wrapper decorates the handler serving every request.
type Wrapper interface {
	WrapHandler(h http.Handler) http.Handler
}

var _ Wrapper = (*RequestMetrics)(nil)

// RequestMetrics counts requests by status code and times them.
type RequestMetrics struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
}

func NewRequestMetrics(registerer prometheus.Registerer) (*RequestMetrics, error) {
	m := &RequestMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "api",
			Name:      "requests",
			Help:      "number of api requests by method and status code",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "api",
			Name:      "request_duration",
			Help:      "time spent serving api requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.requests),
		registerer.Register(m.duration),
	)
	return m, errs.Err
}

func (m *RequestMetrics) WrapHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		h.ServeHTTP(rw, r)
		m.requests.WithLabelValues(r.Method, strconv.Itoa(rw.code)).Inc()
		m.duration.Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

var errNotHijacker = errors.New("response does not implement http.Hijacker")

// Hijack is required by websocket upgrades.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errNotHijacker
	}
	w.code = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
