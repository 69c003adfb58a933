// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package instruction

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gagliardetto/solana-go"
	"github.com/meterio/meter-auction/fees"
	"github.com/meterio/meter-auction/meter"
	"github.com/pkg/errors"
)

// NewInitialize builds an Initialize instruction. The auction account must
// sign and is written; the pool is written.
func NewInitialize(
	programID, auction, ownerToken, pool, feeAccount, tokenProgram solana.PublicKey,
	schedule fees.FeeSchedule, nonce uint8, start, end int64,
) *solana.GenericInstruction {
	data := Pack(Initialize{Fees: schedule, Nonce: nonce, StartTimestamp: start, EndTimestamp: end})
	return solana.NewInstruction(programID, solana.AccountMetaSlice{
		solana.NewAccountMeta(auction, true, true),
		solana.NewAccountMeta(ownerToken, false, false),
		solana.NewAccountMeta(pool, true, false),
		solana.NewAccountMeta(feeAccount, false, false),
		solana.NewAccountMeta(tokenProgram, false, false),
	}, data)
}

func NewPlaceBid(
	programID, auction, deposit, pool, tokenProgram, authority solana.PublicKey, bid uint64,
) *solana.GenericInstruction {
	return solana.NewInstruction(programID, solana.AccountMetaSlice{
		solana.NewAccountMeta(auction, false, false),
		solana.NewAccountMeta(deposit, true, false),
		solana.NewAccountMeta(pool, true, false),
		solana.NewAccountMeta(tokenProgram, false, false),
		solana.NewAccountMeta(authority, false, false),
	}, Pack(PlaceBid{BidAmount: bid}))
}

func NewWithdraw(
	programID, auction, pool, destination, feeAccount, tokenProgram, authority solana.PublicKey, bid uint64,
) *solana.GenericInstruction {
	return solana.NewInstruction(programID, solana.AccountMetaSlice{
		solana.NewAccountMeta(auction, false, false),
		solana.NewAccountMeta(pool, true, false),
		solana.NewAccountMeta(destination, true, false),
		solana.NewAccountMeta(feeAccount, true, false),
		solana.NewAccountMeta(tokenProgram, false, false),
		solana.NewAccountMeta(authority, false, false),
	}, Pack(Withdraw{BidAmount: bid}))
}

func NewCancel(programID, auction solana.PublicKey, canceled uint8) *solana.GenericInstruction {
	return solana.NewInstruction(programID, solana.AccountMetaSlice{
		solana.NewAccountMeta(auction, true, false),
	}, Pack(Cancel{Canceled: canceled}))
}

// ID returns the content id of a packed instruction.
func ID(data []byte) meter.Bytes32 {
	enc, err := rlp.EncodeToBytes(data)
	if err != nil {
		// byte slices always encode
		panic(err)
	}
	return meter.Blake2b(enc)
}

// AuthorityID derives the transfer authority the program signs for on
// behalf of an auction, seeded by the auction key and its nonce.
func AuthorityID(programID, auction solana.PublicKey, nonce uint8) (solana.PublicKey, error) {
	key, err := solana.CreateProgramAddress([][]byte{auction[:], {nonce}}, programID)
	if err != nil {
		return solana.PublicKey{}, errors.WithMessagef(err, "authority for %s nonce %d", auction, nonce)
	}
	return key, nil
}
