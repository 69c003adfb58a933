// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"github.com/gagliardetto/solana-go"
	"github.com/meterio/meter-auction/script/auction"
)

const (
	AUCTION_MODULE_NAME = string("auction")
)

func ModuleAuctionInit(se *ScriptEngine, programID solana.PublicKey) *auction.Auction {
	a := auction.NewAuction()

	mod := &Module{
		modName:    AUCTION_MODULE_NAME,
		modID:      programID,
		modHandler: a.Process,
	}
	if err := se.modReg.Register(programID, mod); err != nil {
		panic("register auction module failed")
	}

	se.logger.Info("ScriptEngine", "started module", mod.modName, "programID", programID)
	return a
}
