// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/meterio/meter-auction/instruction"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/tx"
)

// HandlePlaceBid moves the bid from the deposit into the pool while the
// auction is open. Bids outside the window or on a canceled auction complete
// without a transfer and without an error.
// Accounts: auction, deposit, pool, token program, authority.
func (a *Auction) HandlePlaceBid(env *setypes.ScriptEnv, ix instruction.PlaceBid) error {
	accs, err := nextAccounts(env, 5)
	if err != nil {
		return err
	}
	auctionAcc, depositAcc, poolAcc, authorityAcc := accs[0], accs[1], accs[2], accs[4]

	rec, err := loadRecord(auctionAcc)
	if err != nil {
		return err
	}

	now := env.GetClock().UnixTimestamp()
	var (
		reason string
		topic  meter.Bytes32
	)
	switch {
	case now > rec.GetEndTimestamp():
		reason, topic = "ended", AuctionEndedTopic
	case now < rec.GetStartTimestamp():
		reason, topic = "not_started", AuctionNotStartedTopic
	case rec.GetCanceled() == meter.AUCTION_CANCELED:
		reason, topic = "canceled", AuctionCanceledTopic
	}
	if reason != "" {
		a.logger.Info("bid ignored", "auction", auctionAcc.Key, "reason", reason, "now", now,
			"start", rec.GetStartTimestamp(), "end", rec.GetEndTimestamp())
		env.AddEvent(auctionAcc.Key, []meter.Bytes32{topic}, nil)
		bidsSuppressedCounter.WithLabelValues(reason).Inc()
		return nil
	}

	return a.transfer(env, &tx.Transfer{
		Source:      depositAcc.Key,
		Destination: poolAcc.Key,
		Authority:   authorityAcc.Key,
		Nonce:       rec.GetNonce(),
		Amount:      ix.BidAmount,
	})
}
