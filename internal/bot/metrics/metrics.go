// Package metrics holds the process-wide Prometheus instruments, exposed by
// the keep-alive server on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JoinsCredited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "doorkeeper_joins_credited_total",
		Help: "Member joins attributed to an inviter",
	})

	JoinsUnattributed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "doorkeeper_joins_unattributed_total",
		Help: "Member joins with no observable invite delta",
	})

	Claims = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "doorkeeper_claims_total",
		Help: "Claim attempts by outcome",
	}, []string{"outcome"})

	PoolAccounts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "doorkeeper_pool_accounts",
		Help: "Unclaimed accounts remaining in the pool",
	})
)
