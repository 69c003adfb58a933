// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package instruction

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/meterio/meter-auction/fees"
	"github.com/meterio/meter-auction/meter"
	"github.com/pkg/errors"
)

var ErrInvalidInstruction = errors.New("invalid instruction")

// Instruction is one of Initialize, PlaceBid, Withdraw or Cancel.
type Instruction interface {
	Tag() uint8
	encode(enc *bin.Encoder) error
}

// Initialize creates a new auction record.
type Initialize struct {
	Fees           fees.FeeSchedule
	Nonce          uint8
	StartTimestamp int64
	EndTimestamp   int64
}

// PlaceBid moves BidAmount from the bidder's deposit into the pool.
type PlaceBid struct {
	BidAmount uint64
}

// Withdraw pays BidAmount out of the pool and charges the auction fee on it.
type Withdraw struct {
	BidAmount uint64
}

// Cancel overwrites the canceled flag of the record.
type Cancel struct {
	Canceled uint8
}

func (Initialize) Tag() uint8 { return meter.OP_INITIALIZE }
func (PlaceBid) Tag() uint8   { return meter.OP_PLACE_BID }
func (Withdraw) Tag() uint8   { return meter.OP_WITHDRAW }
func (Cancel) Tag() uint8     { return meter.OP_CANCEL }

func (ix Initialize) String() string {
	return fmt.Sprintf("Initialize{Fees:%v Nonce:%d Start:%d End:%d}", ix.Fees, ix.Nonce, ix.StartTimestamp, ix.EndTimestamp)
}
func (ix PlaceBid) String() string { return fmt.Sprintf("PlaceBid{BidAmount:%d}", ix.BidAmount) }
func (ix Withdraw) String() string { return fmt.Sprintf("Withdraw{BidAmount:%d}", ix.BidAmount) }
func (ix Cancel) String() string   { return fmt.Sprintf("Cancel{Canceled:%d}", ix.Canceled) }

func (ix Initialize) encode(enc *bin.Encoder) error {
	if err := enc.WriteUint64(ix.Fees.Numerator, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteUint64(ix.Fees.Denominator, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteUint8(ix.Nonce); err != nil {
		return err
	}
	if err := enc.WriteInt64(ix.StartTimestamp, bin.LE); err != nil {
		return err
	}
	return enc.WriteInt64(ix.EndTimestamp, bin.LE)
}

func (ix PlaceBid) encode(enc *bin.Encoder) error { return enc.WriteUint64(ix.BidAmount, bin.LE) }
func (ix Withdraw) encode(enc *bin.Encoder) error { return enc.WriteUint64(ix.BidAmount, bin.LE) }
func (ix Cancel) encode(enc *bin.Encoder) error   { return enc.WriteUint8(ix.Canceled) }

// Pack serializes ix as its tag byte followed by the little-endian payload.
func Pack(ix Instruction) []byte {
	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)
	// writes into a bytes.Buffer cannot fail
	_ = enc.WriteUint8(ix.Tag())
	_ = ix.encode(enc)
	return buf.Bytes()
}

// Unpack decodes a tagged instruction. Bytes following a complete payload
// are ignored.
func Unpack(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, errors.WithMessage(ErrInvalidInstruction, "empty")
	}
	dec := bin.NewBinDecoder(data[1:])
	var (
		ix  Instruction
		err error
	)
	switch tag := data[0]; tag {
	case meter.OP_INITIALIZE:
		ix, err = decodeInitialize(dec)
	case meter.OP_PLACE_BID:
		var amount uint64
		amount, err = dec.ReadUint64(bin.LE)
		ix = PlaceBid{BidAmount: amount}
	case meter.OP_WITHDRAW:
		var amount uint64
		amount, err = dec.ReadUint64(bin.LE)
		ix = Withdraw{BidAmount: amount}
	case meter.OP_CANCEL:
		var flag uint8
		flag, err = dec.ReadUint8()
		ix = Cancel{Canceled: flag}
	default:
		return nil, errors.WithMessagef(ErrInvalidInstruction, "unknown tag %d", tag)
	}
	if err != nil {
		return nil, errors.WithMessagef(ErrInvalidInstruction, "%s: %v", meter.GetOpName(data[0]), err)
	}
	return ix, nil
}

func decodeInitialize(dec *bin.Decoder) (Instruction, error) {
	var (
		ix  Initialize
		err error
	)
	if ix.Fees.Numerator, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ix.Fees.Denominator, err = dec.ReadUint64(bin.LE); err != nil {
		return nil, err
	}
	if ix.Nonce, err = dec.ReadUint8(); err != nil {
		return nil, err
	}
	if ix.StartTimestamp, err = dec.ReadInt64(bin.LE); err != nil {
		return nil, err
	}
	if ix.EndTimestamp, err = dec.ReadInt64(bin.LE); err != nil {
		return nil, err
	}
	return ix, nil
}
