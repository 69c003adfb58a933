// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/meterio/meter-auction/instruction"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
	"github.com/pkg/errors"
)

// HandleInitialize writes a fresh active record into the auction account.
// Accounts: auction, owner token, pool, fee account, token program.
func (a *Auction) HandleInitialize(env *setypes.ScriptEnv, ix instruction.Initialize) error {
	accs, err := nextAccounts(env, 5)
	if err != nil {
		return err
	}
	auctionAcc, tokenAcc, poolAcc, feeAcc, tokenProgramAcc := accs[0], accs[1], accs[2], accs[3], accs[4]

	if state.IsInitialized(auctionAcc.Data) {
		return errors.WithMessagef(ErrAlreadyInUse, "auction %s", auctionAcc.Key)
	}
	if err := ix.Fees.Validate(); err != nil {
		return err
	}

	rec := &state.AuctionV1{
		IsInitialized:  true,
		TokenProgramID: tokenProgramAcc.Key,
		Token:          tokenAcc.Key,
		Pool:           poolAcc.Key,
		FeeAccount:     feeAcc.Key,
		Fees:           ix.Fees,
		Nonce:          ix.Nonce,
		StartTimestamp: ix.StartTimestamp,
		EndTimestamp:   ix.EndTimestamp,
		Canceled:       meter.AUCTION_ACTIVE,
	}
	if err := state.Pack(rec, auctionAcc.Data); err != nil {
		return errors.WithMessagef(err, "auction %s", auctionAcc.Key)
	}
	a.logger.Info("auction initialized", "auction", auctionAcc.Key, "fees", ix.Fees, "start", ix.StartTimestamp, "end", ix.EndTimestamp)
	return nil
}
