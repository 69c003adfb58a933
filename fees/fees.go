// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fees

import (
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Len is the packed size of a FeeSchedule.
const Len = 16

// fee arithmetic is defined over u128; uint256 is only the widened intermediate
const maxBits = 128

var (
	ErrInvalidFee   = errors.New("the provided fee does not match the program owner's constraints")
	ErrFeeDataShort = errors.New("fee schedule data too short")
)

// FeeSchedule is the withdrawal fee fraction embedded in every auction record.
// Either both fields are zero (no fee) or Numerator < Denominator.
type FeeSchedule struct {
	Numerator   uint64
	Denominator uint64
}

func (f FeeSchedule) String() string {
	return fmt.Sprintf("FeeSchedule(%v/%v)", f.Numerator, f.Denominator)
}

// CalculateFee returns floor(amount*numerator/denominator) with a minimum
// of one token whenever a fee is owed. A zero numerator or amount owes
// nothing. The boolean is false when the computation has no value: an input
// or the product wider than 128 bits, or a zero denominator.
func CalculateFee(amount, numerator, denominator *uint256.Int) (*uint256.Int, bool) {
	if numerator.IsZero() || amount.IsZero() {
		return new(uint256.Int), true
	}
	if amount.BitLen() > maxBits || numerator.BitLen() > maxBits || denominator.BitLen() > maxBits {
		return nil, false
	}
	product, overflow := new(uint256.Int).MulOverflow(amount, numerator)
	if overflow || product.BitLen() > maxBits {
		return nil, false
	}
	if denominator.IsZero() {
		return nil, false
	}
	fee := product.Div(product, denominator)
	if fee.IsZero() {
		// minimum fee of one token
		return fee.SetOne(), true
	}
	return fee, true
}

func validateFraction(numerator, denominator uint64) error {
	if numerator == 0 && denominator == 0 {
		return nil
	}
	if numerator >= denominator {
		return errors.WithMessage(ErrInvalidFee, fmt.Sprintf("%v/%v", numerator, denominator))
	}
	return nil
}

// Validate checks the schedule is either the zero pair or a proper fraction.
func (f FeeSchedule) Validate() error {
	return validateFraction(f.Numerator, f.Denominator)
}

// AuctionFee computes the withdrawal fee for poolTokens with the schedule's
// own fraction.
func (f FeeSchedule) AuctionFee(poolTokens *uint256.Int) (*uint256.Int, bool) {
	return CalculateFee(
		poolTokens,
		uint256.NewInt(f.Numerator),
		uint256.NewInt(f.Denominator),
	)
}

// Pack writes the 16 byte sub-record: numerator then denominator, little endian.
func (f FeeSchedule) Pack(dst []byte) error {
	if len(dst) < Len {
		return errors.WithMessage(ErrFeeDataShort, fmt.Sprintf("need %d bytes, got %d", Len, len(dst)))
	}
	binary.LittleEndian.PutUint64(dst[0:8], f.Numerator)
	binary.LittleEndian.PutUint64(dst[8:16], f.Denominator)
	return nil
}

// Unpack reads a FeeSchedule from the first 16 bytes of src. The fraction is
// not validated here.
func Unpack(src []byte) (FeeSchedule, error) {
	if len(src) < Len {
		return FeeSchedule{}, errors.WithMessage(ErrFeeDataShort, fmt.Sprintf("need %d bytes, got %d", Len, len(src)))
	}
	return FeeSchedule{
		Numerator:   binary.LittleEndian.Uint64(src[0:8]),
		Denominator: binary.LittleEndian.Uint64(src[8:16]),
	}, nil
}
