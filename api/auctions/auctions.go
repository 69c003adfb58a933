// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auctions

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/runtime"
	"github.com/meterio/meter-auction/state"
	"github.com/pkg/errors"
)

type Auctions struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Auctions {
	return &Auctions{
		rt,
	}
}

func (a *Auctions) getAuction(req *http.Request) (solana.PublicKey, state.AuctionVersion, error) {
	addr, err := utils.ParseAddressVar(req)
	if err != nil {
		return addr, nil, err
	}
	rec, err := a.rt.Auction(addr)
	if err != nil {
		if errors.Is(err, runtime.ErrAccountNotFound) {
			return addr, nil, utils.NotFound(err)
		}
		if errors.Is(err, state.ErrInvalidAccountData) {
			return addr, nil, utils.BadRequest(err)
		}
		return addr, nil, err
	}
	return addr, rec, nil
}

func (a *Auctions) handleGetAuction(w http.ResponseWriter, req *http.Request) error {
	addr, rec, err := a.getAuction(req)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertAuction(addr, rec, a.rt.Clock().UnixTimestamp()))
}

func (a *Auctions) handleListAuctions(w http.ResponseWriter, req *http.Request) error {
	addrs, err := a.rt.Auctions()
	if err != nil {
		return err
	}
	now := a.rt.Clock().UnixTimestamp()
	out := make([]*Auction, 0, len(addrs))
	for _, addr := range addrs {
		rec, err := a.rt.Auction(addr)
		if err != nil {
			return err
		}
		out = append(out, convertAuction(addr, rec, now))
	}
	return utils.WriteJSON(w, out)
}

func (a *Auctions) handleGetFee(w http.ResponseWriter, req *http.Request) error {
	_, rec, err := a.getAuction(req)
	if err != nil {
		return err
	}
	amount, err := strconv.ParseUint(req.URL.Query().Get("amount"), 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "amount"))
	}
	fee, ok := rec.GetFees().AuctionFee(uint256.NewInt(amount))
	if !ok || !fee.IsUint64() {
		return utils.BadRequest(errors.Errorf("no fee for amount %d with %v", amount, rec.GetFees()))
	}
	return utils.WriteJSON(w, &Fee{Amount: amount, Fee: fee.Uint64()})
}

func (a *Auctions) handleGetCalls(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddressVar(req)
	if err != nil {
		return err
	}
	if a.rt.LogDB() == nil {
		return utils.HTTPError(errors.New("journal disabled"), http.StatusServiceUnavailable)
	}
	calls, err := a.rt.LogDB().FilterCalls(req.Context(), &logdb.CallFilter{Auction: &addr})
	if err != nil {
		return err
	}
	out := make([]*Call, len(calls))
	for i, c := range calls {
		out[i] = convertCall(c)
	}
	return utils.WriteJSON(w, out)
}

func (a *Auctions) handleExecute(w http.ResponseWriter, req *http.Request) error {
	var body Instruction
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	data, err := hexutil.Decode(body.Data)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "data"))
	}
	programID := a.rt.ProgramID()
	if body.ProgramID != nil {
		programID = *body.ProgramID
	}
	metas := make(solana.AccountMetaSlice, 0, len(body.Accounts))
	for _, m := range body.Accounts {
		metas = append(metas, solana.NewAccountMeta(m.Address, m.IsWritable, m.IsSigner))
	}

	receipt, err := a.rt.Execute(solana.NewInstruction(programID, metas, data))
	if err != nil {
		return err
	}
	out, err := ConvertReceipt(receipt)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (a *Auctions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleListAuctions))
	sub.Path("/instructions").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(a.handleExecute))
	sub.Path("/{address}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetAuction))
	sub.Path("/{address}/fee").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetFee))
	sub.Path("/{address}/calls").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetCalls))
}
