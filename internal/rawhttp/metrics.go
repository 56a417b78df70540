package rawhttp

//
// Metrics definitions
//

import (
	"net"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metricsSummaryObjectives returns the summary objectives for the
// request duration summary.
func metricsSummaryObjectives() map[float64]float64 {
	// See https://grafana.com/blog/2022/03/01/how-summary-metrics-work-in-prometheus/
	return map[float64]float64{
		0.25: 0.010,
		0.5:  0.010,
		0.75: 0.010,
		0.9:  0.010,
		0.99: 0.001,
	}
}

// Metrics contains the collectors updated by [*Client.Do].
//
// A nil *Metrics is valid and does not record anything.
type Metrics struct {
	// Requests counts requests by failure ("" on success).
	Requests *prometheus.CounterVec

	// BytesSent counts the bytes we sent.
	BytesSent prometheus.Counter

	// BytesReceived counts the bytes we received.
	BytesReceived prometheus.Counter

	// BufferGrowths counts how many times receive buffers grew.
	BufferGrowths prometheus.Counter

	// RequestDuration summarizes the duration of Do.
	RequestDuration prometheus.Summary
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "minihttp_requests_total",
			Help: "Total number of requests by failure",
		}, []string{"failure"}),
		BytesSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "minihttp_bytes_sent_total",
			Help: "Total number of bytes sent",
		}),
		BytesReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "minihttp_bytes_received_total",
			Help: "Total number of bytes received",
		}),
		BufferGrowths: factory.NewCounter(prometheus.CounterOpts{
			Name: "minihttp_buffer_growths_total",
			Help: "Total number of times a receive buffer doubled its capacity",
		}),
		RequestDuration: factory.NewSummary(prometheus.SummaryOpts{
			Name:       "minihttp_request_duration_seconds",
			Help:       "Summarizes the time to complete a request (in seconds)",
			Objectives: metricsSummaryObjectives(),
		}),
	}
}

// requestStats contains what we observe during a request. Each
// call to Do owns its requestStats, so there is no locking.
type requestStats struct {
	failure  string
	sent     int64
	received int64
	growths  int
	elapsed  time.Duration
}

func (m *Metrics) observe(stats *requestStats) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(stats.failure).Inc()
	m.BytesSent.Add(float64(stats.sent))
	m.BytesReceived.Add(float64(stats.received))
	m.BufferGrowths.Add(float64(stats.growths))
	m.RequestDuration.Observe(stats.elapsed.Seconds())
}

// meter returns a conn that adds the bytes it transfers to the
// sent and received counts of stats.
func (stats *requestStats) meter(conn net.Conn) net.Conn {
	return &meteredConn{Conn: conn, stats: stats}
}

// meteredConn counts the request and response bytes. It embeds the
// timeout-enforcing conn returned by the Connector, so deadlines and
// Close still reach it.
type meteredConn struct {
	net.Conn
	stats *requestStats
}

func (c *meteredConn) Read(p []byte) (int, error) {
	count, err := c.Conn.Read(p)
	if count > 0 {
		c.stats.received += int64(count)
	}
	return count, err
}

func (c *meteredConn) Write(p []byte) (int, error) {
	count, err := c.Conn.Write(p)
	if count > 0 {
		c.stats.sent += int64(count)
	}
	return count, err
}
