package server

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vibella",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"endpoint", "status"},
	)

	modelFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vibella",
			Name:      "model_failures_total",
			Help:      "Chat responses produced from a failed model call",
		},
	)
)

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		requestsTotal.WithLabelValues(endpoint, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
