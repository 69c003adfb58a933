// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/accounts"
	"github.com/meterio/meter-auction/api/auctions"
	"github.com/meterio/meter-auction/api/events"
	"github.com/meterio/meter-auction/api/ledger"
	"github.com/meterio/meter-auction/api/node"
	"github.com/meterio/meter-auction/api/subscriptions"
	"github.com/meterio/meter-auction/api/transfers"
	"github.com/meterio/meter-auction/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New return api router
func New(rt *runtime.Runtime, allowedOrigins string, version string, clockOffset time.Duration) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(allowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	auctions.New(rt).
		Mount(router, "/auctions")
	accounts.New(rt).
		Mount(router, "/accounts")
	ledger.New(rt).
		Mount(router, "/ledger")
	node.New(rt, version, clockOffset).
		Mount(router, "/node")
	subscriptions.New(rt).
		Mount(router, "/subscriptions")
	if logDB := rt.LogDB(); logDB != nil {
		events.New(logDB).
			Mount(router, "/logs/events")
		transfers.New(logDB).
			Mount(router, "/logs/transfers")
	}
	router.Path("/metrics").Handler(promhttp.Handler())

	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}))(router).ServeHTTP
}
