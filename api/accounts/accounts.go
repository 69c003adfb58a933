// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/runtime"
	"github.com/meterio/meter-auction/state"
	"github.com/pkg/errors"
)

// maxSpace bounds account allocations requested over http.
const maxSpace = 10 * 1024

type Accounts struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Accounts {
	return &Accounts{
		rt,
	}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddressVar(req)
	if err != nil {
		return err
	}
	data, err := a.rt.Account(addr)
	if err != nil {
		if errors.Is(err, runtime.ErrAccountNotFound) {
			return utils.NotFound(err)
		}
		return err
	}
	return utils.WriteJSON(w, &Account{
		Address: addr,
		Len:     len(data),
		Data:    hexutil.Encode(data),
	})
}

func (a *Accounts) handleCreateAccount(w http.ResponseWriter, req *http.Request) error {
	var body CreateAccount
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	space := state.LatestLen
	if body.Space != nil {
		space = *body.Space
	}
	if space < 0 || space > maxSpace {
		return utils.BadRequest(errors.Errorf("space %d out of range [0, %d]", space, maxSpace))
	}
	if err := a.rt.CreateAccount(body.Address, space); err != nil {
		if errors.Is(err, runtime.ErrAccountExists) {
			return utils.HTTPError(err, http.StatusConflict)
		}
		return err
	}
	return utils.WriteJSON(w, &Account{
		Address: body.Address,
		Len:     space,
		Data:    hexutil.Encode(make([]byte, space)),
	})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(a.handleCreateAccount))
	sub.Path("/{address}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
}
