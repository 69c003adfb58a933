// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/holiman/uint256"
	"github.com/meterio/meter-auction/instruction"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/tx"
	"github.com/pkg/errors"
)

// HandleWithdraw pays the bid out of the pool to the destination and the
// auction fee on it to the fee account. The record is never written.
// Accounts: auction, pool, destination, fee account, token program, authority.
func (a *Auction) HandleWithdraw(env *setypes.ScriptEnv, ix instruction.Withdraw) error {
	accs, err := nextAccounts(env, 6)
	if err != nil {
		return err
	}
	auctionAcc, poolAcc, destAcc, feeAcc, authorityAcc := accs[0], accs[1], accs[2], accs[3], accs[5]

	rec, err := loadRecord(auctionAcc)
	if err != nil {
		return err
	}

	fee, ok := rec.GetFees().AuctionFee(uint256.NewInt(ix.BidAmount))
	if !ok {
		return errors.WithMessagef(ErrFeeCalculationFailure, "bid %d fees %v", ix.BidAmount, rec.GetFees())
	}
	if !fee.IsUint64() {
		return errors.WithMessagef(ErrConversionFailure, "fee %s", fee.Hex())
	}

	if err := a.transfer(env, &tx.Transfer{
		Source:      poolAcc.Key,
		Destination: destAcc.Key,
		Authority:   authorityAcc.Key,
		Nonce:       rec.GetNonce(),
		Amount:      ix.BidAmount,
	}); err != nil {
		return err
	}
	return a.transfer(env, &tx.Transfer{
		Source:      poolAcc.Key,
		Destination: feeAcc.Key,
		Authority:   authorityAcc.Key,
		Nonce:       rec.GetNonce(),
		Amount:      fee.Uint64(),
	})
}
