package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultPublished   = "published"
	ResultHeld        = "held"
	ResultRateLimited = "rate_limited"

	RejectContent    = "content"
	RejectDisposable = "disposable_email"
)

var (
	ReviewDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "craftmarket_review_decisions_total",
			Help: "Review submission outcomes by decision result",
		},
		[]string{"result"},
	)

	ContactRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "craftmarket_contact_rejections_total",
			Help: "Contact messages rejected by the content gate",
		},
		[]string{"reason"},
	)
)
