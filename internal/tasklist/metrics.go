package tasklist

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tasklist",
			Name:      "requests_total",
			Help:      "Fetch and create requests issued by the task list component, by outcome.",
		},
		[]string{"op", "outcome"},
	)

	staleResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tasklist",
			Name:      "stale_responses_total",
			Help:      "Responses dropped because a newer request of the same kind was issued.",
		},
		[]string{"op"},
	)
)

const (
	opFetch  = "fetch"
	opCreate = "create"
)
