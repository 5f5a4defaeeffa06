package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// MetricsHandler exposes the Prometheus registry.
type MetricsHandler struct {
	logger   *logrus.Logger
	gatherer prometheus.Gatherer
}

func NewMetricsHandler(logger *logrus.Logger, gatherer prometheus.Gatherer) *MetricsHandler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &MetricsHandler{
		logger:   logger,
		gatherer: gatherer,
	}
}

func (h *MetricsHandler) Serve() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{
		ErrorLog: h.logger,
	}))
}
