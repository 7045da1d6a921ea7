// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector registers and updates the application metrics.
type Collector struct {
	httpRequests  *prometheus.CounterVec
	ordersCreated prometheus.Counter
	logins        prometheus.Counter
	loginFailures prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "okeetropics_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "okeetropics_orders_created_total",
			Help: "Orders placed through the API.",
		}),
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "okeetropics_logins_total",
			Help: "Successful logins.",
		}),
		loginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "okeetropics_login_failures_total",
			Help: "Rejected login attempts.",
		}),
	}

	reg.MustRegister(c.httpRequests, c.ordersCreated, c.logins, c.loginFailures)
	return c
}

// RecordRequest counts one handled HTTP request.
func (c *Collector) RecordRequest(method, route string, status int) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// RecordOrderCreated counts one placed order.
func (c *Collector) RecordOrderCreated() {
	c.ordersCreated.Inc()
}

// RecordLogin counts one successful login.
func (c *Collector) RecordLogin() {
	c.logins.Inc()
}

// RecordLoginFailure counts one rejected login attempt.
func (c *Collector) RecordLoginFailure() {
	c.loginFailures.Inc()
}

// Middleware returns a fiber handler recording every request against the
// matched route pattern.
func (c *Collector) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()

		route := ctx.Route().Path
		status := ctx.Response().StatusCode()
		if ferr, ok := err.(*fiber.Error); ok {
			status = ferr.Code
		}
		c.RecordRequest(ctx.Method(), route, status)

		return err
	}
}
