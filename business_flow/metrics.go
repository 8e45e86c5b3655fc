package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Clicks that created a dedup record and counted
	clicksAttributed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_clicks_attributed_total",
		Help: "Unique clicks attributed to tracked links",
	})

	// Repeat visits rejected by the fingerprint check
	clicksDeduplicated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_clicks_deduplicated_total",
		Help: "Repeat visits rejected by fingerprint dedup",
	})

	// Wallet credits partitioned by ledger entry type
	payoutsCredited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_payouts_credited_total",
		Help: "Wallet credits written by the ledger",
	}, []string{"type"})

	// Post actions rejected before any write
	actionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_actions_rejected_total",
		Help: "Campaign actions rejected by quota or budget guards",
	}, []string{"reason"})

	// Accounting failures swallowed on the click path
	clickAccountingFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_click_accounting_failures_total",
		Help: "Click accounting transactions that failed after retries",
	})
)
