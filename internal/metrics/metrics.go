package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workpulse_login_attempts_total",
			Help: "Login attempts by result.",
		},
		[]string{"result"},
	)

	OTPVerifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workpulse_otp_verifications_total",
			Help: "OTP verifications by result.",
		},
		[]string{"result"},
	)

	OTPSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "workpulse_otp_sent_total",
		Help: "OTP challenges issued.",
	})

	InviteAcceptances = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workpulse_invite_acceptances_total",
			Help: "Invite acceptance attempts by result.",
		},
		[]string{"result"},
	)

	ActiveClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "workpulse_active_clients",
		Help: "Client session stores currently held in memory.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Register adds every collector to the default registry. Safe to call more
// than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			LoginAttempts,
			OTPVerifications,
			OTPSent,
			InviteAcceptances,
			ActiveClients,
			httpRequestsTotal,
			httpRequestDuration,
		)
	})
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Instrument records request count and latency labelled by route template.
func Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

// Result maps an error to the "ok"/"error code" label used by the counters.
func Result(code string) string {
	if code == "" {
		return "ok"
	}
	return code
}
