// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

// instruction tags, the first byte of every auction instruction
const (
	OP_INITIALIZE = uint8(0)
	OP_PLACE_BID  = uint8(1)
	OP_WITHDRAW   = uint8(2)
	OP_CANCEL     = uint8(3)
)

// canceled flag values stored in the auction record
const (
	AUCTION_ACTIVE   = uint8(0)
	AUCTION_CANCELED = uint8(1)
)

func GetOpName(op uint8) string {
	switch op {
	case OP_INITIALIZE:
		return "Initialize"
	case OP_PLACE_BID:
		return "PlaceBid"
	case OP_WITHDRAW:
		return "Withdraw"
	case OP_CANCEL:
		return "Cancel"
	default:
		return "Unknown"
	}
}
