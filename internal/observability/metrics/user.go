package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UsersRegisteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "island_users_registered_total",
			Help: "Total number of successfully registered accounts",
		},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "island_logins_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	AvatarUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "island_avatar_uploads_total",
			Help: "Total number of avatar uploads by result",
		},
		[]string{"result"},
	)

	StarterStampsIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "island_starter_stamps_issued_total",
			Help: "Total number of starter stamps granted to new accounts",
		},
	)

	SessionTokensIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "island_session_tokens_issued_total",
			Help: "Total number of session tokens issued",
		},
	)
)
