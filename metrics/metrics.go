// Package metrics exposes the app's prometheus collectors. Collectors are
// registered on the default registry; the http server serves them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheepsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chirp_cheeps_created_total",
		Help: "Cheeps created.",
	})

	LikeToggles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chirp_like_toggles_total",
		Help: "Like/unlike toggles applied.",
	})

	FollowToggles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chirp_follow_toggles_total",
		Help: "Follow/unfollow toggles applied.",
	})

	AccountsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chirp_accounts_deleted_total",
		Help: "Accounts deleted, including their cheep cascade.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_http_requests_total",
		Help: "HTTP requests by method and route.",
	}, []string{"method", "path"})
)
