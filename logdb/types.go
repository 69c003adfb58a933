// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
)

// Call is one processed instruction.
type Call struct {
	Seq           uint64
	CallID        uuid.UUID
	InstructionID meter.Bytes32
	Program       solana.PublicKey
	Auction       solana.PublicKey // first account, zero when none was passed
	Op            uint8
	Result        string // "ok" or the fault
	Clock         int64
}

// Event represents tx.Event that can be stored in db.
type Event struct {
	Seq     uint64
	Index   uint32
	Clock   int64
	CallID  uuid.UUID
	Address solana.PublicKey
	Topics  [5]*meter.Bytes32
	Data    []byte
}

// newEvent converts tx.Event to Event.
func newEvent(call *Call, index uint32, txEvent *tx.Event) *Event {
	ev := &Event{
		Index:   index,
		Clock:   call.Clock,
		CallID:  call.CallID,
		Address: txEvent.Address,
		Data:    txEvent.Data,
	}
	for i := 0; i < len(txEvent.Topics) && i < len(ev.Topics); i++ {
		topic := txEvent.Topics[i]
		ev.Topics[i] = &topic
	}
	return ev
}

// Transfer represents tx.Transfer that can be stored in db.
type Transfer struct {
	Seq         uint64
	Index       uint32
	Clock       int64
	CallID      uuid.UUID
	Source      solana.PublicKey
	Destination solana.PublicKey
	Authority   solana.PublicKey
	Nonce       uint8
	Amount      uint64
}

// newTransfer converts tx.Transfer to Transfer.
func newTransfer(call *Call, index uint32, transfer *tx.Transfer) *Transfer {
	return &Transfer{
		Index:       index,
		Clock:       call.Clock,
		CallID:      call.CallID,
		Source:      transfer.Source,
		Destination: transfer.Destination,
		Authority:   transfer.Authority,
		Nonce:       transfer.Nonce,
		Amount:      transfer.Amount,
	}
}

// sqlite integers are signed, so amounts are stored as big-endian bytes.
func amountValue(v uint64) []byte {
	return new(big.Int).SetUint64(v).Bytes()
}

type RangeType string

const (
	Seq  RangeType = "seq"
	Time RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType
	From int64
	To   int64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type CallFilter struct {
	Auction *solana.PublicKey
	Range   *Range
	Options *Options
	Order   Order //default asc
}

type EventCriteria struct {
	Address *solana.PublicKey
	Topics  [5]*meter.Bytes32
}

// EventFilter filter
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order //default asc
}

type TransferCriteria struct {
	Source      *solana.PublicKey
	Destination *solana.PublicKey
	Authority   *solana.PublicKey
}

type TransferFilter struct {
	CallID      *uuid.UUID
	CriteriaSet []*TransferCriteria
	Range       *Range
	Options     *Options
	Order       Order //default asc
}
