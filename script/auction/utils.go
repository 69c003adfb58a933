// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/meterio/meter-auction/xenv"
	"github.com/pkg/errors"
)

// event topics of bids that completed without moving funds
var (
	AuctionEndedTopic      = meter.Blake2b([]byte("AuctionEnded"))
	AuctionNotStartedTopic = meter.Blake2b([]byte("AuctionNotStarted"))
	AuctionCanceledTopic   = meter.Blake2b([]byte("AuctionCanceled"))
)

// nextAccounts pulls n accounts off env in instruction order.
func nextAccounts(env *setypes.ScriptEnv, n int) ([]*xenv.AccountInfo, error) {
	accs := make([]*xenv.AccountInfo, 0, n)
	for i := 0; i < n; i++ {
		acc, err := env.NextAccount()
		if err != nil {
			return nil, err
		}
		accs = append(accs, acc)
	}
	return accs, nil
}

func loadRecord(acc *xenv.AccountInfo) (state.AuctionVersion, error) {
	rec, err := state.Unpack(acc.Data)
	if err != nil {
		return nil, errors.WithMessagef(err, "auction %s", acc.Key)
	}
	return rec, nil
}

func (a *Auction) transfer(env *setypes.ScriptEnv, t *tx.Transfer) error {
	if err := env.Transfer(t); err != nil {
		a.logger.Info("transfer rejected", "transfer", t, "err", err)
		return err
	}
	transfersCounter.Inc()
	return nil
}
