// Package metrics counts the outcomes the auth and catalog flows care about
// and exposes them for Prometheus scraping. All methods are nil-safe so
// callers can run without metrics wired (tests, disabled config).
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counter set for the backend.
type Metrics struct {
	registry *prometheus.Registry

	signupTotal    prometheus.Counter
	loginSuccess   prometheus.Counter
	loginFailure   prometheus.Counter
	refreshSuccess prometheus.Counter
	refreshFailure prometheus.Counter
	logoutTotal    prometheus.Counter

	catalogCacheHits   prometheus.Counter
	catalogCacheMisses prometheus.Counter
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		signupTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "shopcore_auth_signup_total",
			Help: "Accounts created.",
		}),
		loginSuccess: factory.NewCounter(prometheus.CounterOpts{
			Name: "shopcore_auth_login_success_total",
			Help: "Successful logins.",
		}),
		loginFailure: factory.NewCounter(prometheus.CounterOpts{
			Name: "shopcore_auth_login_failure_total",
			Help: "Rejected logins (unknown email or bad password).",
		}),
		refreshSuccess: factory.NewCounter(prometheus.CounterOpts{
			Name: "shopcore_auth_refresh_success_total",
			Help: "Access tokens minted through the refresh flow.",
		}),
		refreshFailure: factory.NewCounter(prometheus.CounterOpts{
			Name: "shopcore_auth_refresh_failure_total",
			Help: "Rejected refresh attempts (missing, invalid, or revoked tokens).",
		}),
		logoutTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "shopcore_auth_logout_total",
			Help: "Logout requests handled.",
		}),
		catalogCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "shopcore_catalog_cache_hits_total",
			Help: "Featured-product reads served from Redis.",
		}),
		catalogCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "shopcore_catalog_cache_misses_total",
			Help: "Featured-product reads that fell through to the database.",
		}),
	}
}

// Handler returns the Prometheus exposition endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IncSignup records a created account.
func (m *Metrics) IncSignup() {
	if m != nil {
		m.signupTotal.Inc()
	}
}

// IncLoginSuccess records a successful login.
func (m *Metrics) IncLoginSuccess() {
	if m != nil {
		m.loginSuccess.Inc()
	}
}

// IncLoginFailure records a rejected login.
func (m *Metrics) IncLoginFailure() {
	if m != nil {
		m.loginFailure.Inc()
	}
}

// IncRefreshSuccess records a successful refresh.
func (m *Metrics) IncRefreshSuccess() {
	if m != nil {
		m.refreshSuccess.Inc()
	}
}

// IncRefreshFailure records a rejected refresh.
func (m *Metrics) IncRefreshFailure() {
	if m != nil {
		m.refreshFailure.Inc()
	}
}

// IncLogout records a logout.
func (m *Metrics) IncLogout() {
	if m != nil {
		m.logoutTotal.Inc()
	}
}

// IncCatalogCacheHit records a featured-cache hit.
func (m *Metrics) IncCatalogCacheHit() {
	if m != nil {
		m.catalogCacheHits.Inc()
	}
}

// IncCatalogCacheMiss records a featured-cache miss.
func (m *Metrics) IncCatalogCacheMiss() {
	if m != nil {
		m.catalogCacheMisses.Inc()
	}
}
