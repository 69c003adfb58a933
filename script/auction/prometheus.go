// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import "github.com/prometheus/client_golang/prometheus"

var (
	instructionsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_instructions_total",
		Help: "Counter of processed auction instructions by op and result",
	}, []string{"op", "result"})
	faultsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_faults_total",
		Help: "Counter of aborted auction instructions by fault kind",
	}, []string{"kind"})
	transfersCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auction_transfers_requested_total",
		Help: "Counter of transfer requests accepted by the ledger",
	})
	bidsSuppressedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_bids_suppressed_total",
		Help: "Counter of bids completed without a transfer, by reason",
	}, []string{"reason"})
)

func registerMetrics() {
	prometheus.MustRegister(instructionsCounter)
	prometheus.MustRegister(faultsCounter)
	prometheus.MustRegister(transfersCounter)
	prometheus.MustRegister(bidsSuppressedCounter)
}
