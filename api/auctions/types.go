// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auctions

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gagliardetto/solana-go"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/runtime"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/pkg/errors"
)

type Fees struct {
	Numerator   uint64 `json:"numerator"`
	Denominator uint64 `json:"denominator"`
}

type Auction struct {
	Address        solana.PublicKey `json:"address"`
	Version        uint8            `json:"version"`
	IsInitialized  bool             `json:"isInitialized"`
	TokenProgramID solana.PublicKey `json:"tokenProgramID"`
	TokenAccount   solana.PublicKey `json:"tokenAccount"`
	Pool           solana.PublicKey `json:"pool"`
	FeeAccount     solana.PublicKey `json:"feeAccount"`
	Fees           Fees             `json:"fees"`
	Nonce          uint8            `json:"nonce"`
	StartTimestamp int64            `json:"startTimestamp"`
	EndTimestamp   int64            `json:"endTimestamp"`
	Canceled       uint8            `json:"canceled"`
	Status         string           `json:"status"`
}

// status mirrors the order in which bids are refused.
func status(rec state.AuctionState, now int64) string {
	switch {
	case !rec.Initialized():
		return "uninitialized"
	case now > rec.GetEndTimestamp():
		return "ended"
	case now < rec.GetStartTimestamp():
		return "not_started"
	case rec.GetCanceled() == meter.AUCTION_CANCELED:
		return "canceled"
	default:
		return "active"
	}
}

func convertAuction(addr solana.PublicKey, rec state.AuctionVersion, now int64) *Auction {
	return &Auction{
		Address:        addr,
		Version:        rec.Version(),
		IsInitialized:  rec.Initialized(),
		TokenProgramID: rec.GetTokenProgramID(),
		TokenAccount:   rec.GetTokenAccount(),
		Pool:           rec.GetPool(),
		FeeAccount:     rec.GetFeeAccount(),
		Fees:           Fees{rec.GetFees().Numerator, rec.GetFees().Denominator},
		Nonce:          rec.GetNonce(),
		StartTimestamp: rec.GetStartTimestamp(),
		EndTimestamp:   rec.GetEndTimestamp(),
		Canceled:       rec.GetCanceled(),
		Status:         status(rec, now),
	}
}

type Fee struct {
	Amount uint64 `json:"amount"`
	Fee    uint64 `json:"fee"`
}

type AccountMeta struct {
	Address    solana.PublicKey `json:"address"`
	IsSigner   bool             `json:"isSigner"`
	IsWritable bool             `json:"isWritable"`
}

// Instruction is a raw instruction submitted for execution. ProgramID
// defaults to the auction program.
type Instruction struct {
	ProgramID *solana.PublicKey `json:"programID"`
	Accounts  []AccountMeta     `json:"accounts"`
	Data      string            `json:"data"`
}

// Transfer is a transfer request together with the token program
// instruction a forwarding host would submit for it.
type Transfer struct {
	Source       solana.PublicKey `json:"source"`
	Destination  solana.PublicKey `json:"destination"`
	Authority    solana.PublicKey `json:"authority"`
	Nonce        uint8            `json:"nonce"`
	Amount       uint64           `json:"amount"`
	TokenProgram solana.PublicKey `json:"tokenProgram"`
	TokenData    string           `json:"tokenData"`
}

type Event struct {
	Address solana.PublicKey `json:"address"`
	Topics  []meter.Bytes32  `json:"topics"`
	Data    string           `json:"data"`
}

type Receipt struct {
	CallID        string           `json:"callID"`
	InstructionID meter.Bytes32    `json:"instructionID"`
	Auction       solana.PublicKey `json:"auction"`
	Op            string           `json:"op"`
	Clock         int64            `json:"clock"`
	Transfers     []*Transfer      `json:"transfers"`
	Total         *uint64          `json:"total,omitempty"`
	Events        []*Event         `json:"events"`
	Fault         string           `json:"fault,omitempty"`
}

func convertTransfers(ts tx.Transfers) ([]*Transfer, error) {
	out := make([]*Transfer, 0, len(ts))
	for _, t := range ts {
		ix, err := t.TokenInstruction()
		if err != nil {
			return nil, err
		}
		data, err := ix.Data()
		if err != nil {
			return nil, errors.WithMessage(err, "token transfer data")
		}
		out = append(out, &Transfer{
			Source:       t.Source,
			Destination:  t.Destination,
			Authority:    t.Authority,
			Nonce:        t.Nonce,
			Amount:       t.Amount,
			TokenProgram: ix.ProgramID(),
			TokenData:    hexutil.Encode(data),
		})
	}
	return out, nil
}

func convertEvents(es tx.Events) []*Event {
	out := make([]*Event, 0, len(es))
	for _, e := range es {
		out = append(out, &Event{e.Address, e.Topics, hexutil.Encode(e.Data)})
	}
	return out
}

// ConvertReceipt renders a runtime receipt for the wire. Total is left out
// when the requested amounts overflow u64.
func ConvertReceipt(r *runtime.Receipt) (*Receipt, error) {
	transfers, err := convertTransfers(r.Transfers)
	if err != nil {
		return nil, err
	}
	receipt := &Receipt{
		CallID:        r.CallID.String(),
		InstructionID: r.InstructionID,
		Auction:       r.Auction,
		Op:            meter.GetOpName(r.Op),
		Clock:         r.Clock,
		Transfers:     transfers,
		Events:        convertEvents(r.Events),
	}
	if total, ok := r.Transfers.Total(); ok {
		receipt.Total = &total
	}
	if r.Fault != nil {
		receipt.Fault = r.Fault.Error()
	}
	return receipt, nil
}

type Call struct {
	Seq           uint64        `json:"seq"`
	CallID        string        `json:"callID"`
	InstructionID meter.Bytes32 `json:"instructionID"`
	Op            string        `json:"op"`
	Result        string        `json:"result"`
	Clock         int64         `json:"clock"`
}

func convertCall(c *logdb.Call) *Call {
	return &Call{
		Seq:           c.Seq,
		CallID:        c.CallID.String(),
		InstructionID: c.InstructionID,
		Op:            meter.GetOpName(c.Op),
		Result:        c.Result,
		Clock:         c.Clock,
	}
}
