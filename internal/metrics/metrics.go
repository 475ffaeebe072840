// Package metrics provides Prometheus instrumentation for the ingester.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// APIRequests counts data-api requests by endpoint path and outcome.
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polyingest_api_requests_total",
		Help: "Total data API requests",
	}, []string{"path", "status"})

	// APIRetries counts retried requests.
	APIRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polyingest_api_retries_total",
		Help: "Total data API request retries",
	})

	// UsersProcessed counts processed leaderboard users by outcome.
	UsersProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polyingest_users_total",
		Help: "Leaderboard users processed",
	}, []string{"status"})

	// RowsSaved counts persisted position rows by kind.
	RowsSaved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polyingest_rows_saved_total",
		Help: "Position rows persisted",
	}, []string{"kind"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
