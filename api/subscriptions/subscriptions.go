// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/meterio/meter-auction/api/auctions"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/runtime"
	"github.com/pkg/errors"
)

const (
	receiptBuffer = 64
	pingPeriod    = 30 * time.Second
	pongWait      = 60 * time.Second
	writeWait     = 10 * time.Second
)

type Subscriptions struct {
	rt       *runtime.Runtime
	upgrader *websocket.Upgrader
	logger   *slog.Logger
}

func New(rt *runtime.Runtime) *Subscriptions {
	return &Subscriptions{
		rt: rt,
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// origins are checked by the CORS layer
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: slog.Default().With("pkg", "subscriptions"),
	}
}

// receiptFilter selects the receipts pushed to one subscriber.
type receiptFilter struct {
	auction *solana.PublicKey
	faults  bool
}

func (f *receiptFilter) Match(r *runtime.Receipt) bool {
	if f.auction != nil && r.Auction != *f.auction {
		return false
	}
	if r.Fault != nil && !f.faults {
		return false
	}
	return true
}

func parseFilter(req *http.Request) (*receiptFilter, error) {
	f := &receiptFilter{faults: true}
	query := req.URL.Query()
	if s := query.Get("auction"); s != "" {
		addr, err := solana.PublicKeyFromBase58(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "auction"))
		}
		f.auction = &addr
	}
	if s := query.Get("faults"); s != "" {
		faults, err := strconv.ParseBool(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "faults"))
		}
		f.faults = faults
	}
	return f, nil
}

func (s *Subscriptions) handleSubscribeReceipts(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseFilter(req)
	if err != nil {
		return err
	}
	// subscribe before the handshake completes so no receipt is missed
	receipts, unsubscribe := s.rt.Subscribe(receiptBuffer)
	defer unsubscribe()

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has replied already
		s.logger.Debug("upgrade failed", "err", err)
		return nil
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case r, ok := <-receipts:
			if !ok {
				return nil
			}
			if !filter.Match(r) {
				continue
			}
			out, err := auctions.ConvertReceipt(r)
			if err != nil {
				s.logger.Info("receipt dropped", "call", r.CallID, "err", err)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(out); err != nil {
				s.logger.Debug("write failed", "err", err)
				return nil
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case <-closed:
			return nil
		}
	}
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/receipts").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeReceipts))
}
