// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/ledger"
	"github.com/meterio/meter-auction/runtime"
	"github.com/pkg/errors"
)

type TokenAccount struct {
	Address solana.PublicKey `json:"address"`
	Owner   solana.PublicKey `json:"owner"`
	Amount  uint64           `json:"amount"`
}

type Ledger struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Ledger {
	return &Ledger{
		rt,
	}
}

func (l *Ledger) handleGetTokenAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddressVar(req)
	if err != nil {
		return err
	}
	acc, err := l.rt.TokenAccount(addr)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return utils.NotFound(err)
		}
		return err
	}
	return utils.WriteJSON(w, &TokenAccount{Address: addr, Owner: acc.Owner, Amount: acc.Amount})
}

func (l *Ledger) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(l.handleGetTokenAccount))
}
