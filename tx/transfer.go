// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/pkg/errors"
)

// Transfer is a token movement requested from the ledger. Authority signs
// for Source; Nonce is the auction nonce it was derived with.
type Transfer struct {
	Source      solana.PublicKey
	Destination solana.PublicKey
	Authority   solana.PublicKey
	Nonce       uint8
	Amount      uint64
}

// Transfers slice of transfer requests.
type Transfers []*Transfer

func (t *Transfer) String() string {
	return fmt.Sprintf("Transfer{%s -> %s, Amount:%d, Authority:%s, Nonce:%d}",
		t.Source, t.Destination, t.Amount, t.Authority, t.Nonce)
}

// TokenInstruction renders the request as a token program transfer.
func (t *Transfer) TokenInstruction() (solana.Instruction, error) {
	ix, err := token.NewTransferInstruction(t.Amount, t.Source, t.Destination, t.Authority, nil).ValidateAndBuild()
	if err != nil {
		return nil, errors.WithMessage(err, "build token transfer")
	}
	return ix, nil
}

// Total sums the requested amounts, reporting false on overflow.
func (ts Transfers) Total() (uint64, bool) {
	var sum uint64
	for _, t := range ts {
		next, overflow := math.SafeAdd(sum, t.Amount)
		if overflow {
			return 0, false
		}
		sum = next
	}
	return sum, true
}
