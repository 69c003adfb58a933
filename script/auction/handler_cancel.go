// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/meterio/meter-auction/instruction"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
	"github.com/pkg/errors"
)

// HandleCancel stores the supplied flag as the record's canceled byte.
// Accounts: auction.
func (a *Auction) HandleCancel(env *setypes.ScriptEnv, ix instruction.Cancel) error {
	auctionAcc, err := env.NextAccount()
	if err != nil {
		return err
	}
	rec, err := loadRecord(auctionAcc)
	if err != nil {
		return err
	}

	switch r := rec.(type) {
	case *state.AuctionV1:
		r.Canceled = ix.Canceled
	default:
		return errors.WithMessagef(ErrInvalidAccountData, "version %d", rec.Version())
	}
	if err := state.Pack(rec, auctionAcc.Data); err != nil {
		return errors.WithMessagef(err, "auction %s", auctionAcc.Key)
	}
	a.logger.Info("auction cancel flag set", "auction", auctionAcc.Key, "canceled", ix.Canceled)
	return nil
}
