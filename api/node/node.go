// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/runtime"
)

type Node struct {
	rt          *runtime.Runtime
	version     string
	clockOffset time.Duration
}

func New(rt *runtime.Runtime, version string, clockOffset time.Duration) *Node {
	return &Node{
		rt,
		version,
		clockOffset,
	}
}

func (n *Node) handleStatus(w http.ResponseWriter, req *http.Request) error {
	status := &Status{
		Version:     n.version,
		ProgramID:   n.rt.ProgramID(),
		Clock:       n.rt.Clock().UnixTimestamp(),
		ClockOffset: meter.PrettyDuration(n.clockOffset).String(),
		Journal:     n.rt.LogDB() != nil,
	}
	if db := n.rt.LogDB(); db != nil {
		status.DriverVersion = db.DriverVersion()
	}
	return utils.WriteJSON(w, status)
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/status").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(n.handleStatus))
}
