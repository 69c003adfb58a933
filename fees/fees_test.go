// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fees_test

import (
	"errors"
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/meterio/meter-auction/fees"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u(v uint64) *uint256.Int { return uint256.NewInt(v) }

func TestCalculateFee(t *testing.T) {
	tests := []struct {
		amount, num, den uint64
		want             uint64
	}{
		{0, 1, 100, 0},
		{1000, 0, 0, 0},
		{1000, 0, 100, 0},
		{50, 1, 100, 1},
		{99, 1, 100, 1},
		{100, 1, 100, 1},
		{250, 1, 100, 2},
		{1000, 3, 1000, 3},
		{1, 999, 1000, 1},
		{math.MaxUint64, 1, 2, math.MaxUint64 / 2},
		{math.MaxUint64, math.MaxUint64 - 1, math.MaxUint64, math.MaxUint64 - 1},
	}
	for _, tt := range tests {
		fee, ok := fees.CalculateFee(u(tt.amount), u(tt.num), u(tt.den))
		require.True(t, ok, "amount=%v num=%v den=%v", tt.amount, tt.num, tt.den)
		assert.Equal(t, tt.want, fee.Uint64(), "amount=%v num=%v den=%v", tt.amount, tt.num, tt.den)
	}
}

func TestCalculateFeeNoValue(t *testing.T) {
	wide := new(uint256.Int).Lsh(u(1), 128)
	half := new(uint256.Int).Lsh(u(1), 64)

	_, ok := fees.CalculateFee(u(10), u(1), u(0))
	assert.False(t, ok, "zero denominator")

	_, ok = fees.CalculateFee(wide, u(1), u(2))
	assert.False(t, ok, "amount wider than 128 bits")

	_, ok = fees.CalculateFee(half, half, u(2))
	assert.False(t, ok, "product wider than 128 bits")

	fee, ok := fees.CalculateFee(half, new(uint256.Int).Sub(half, u(1)), half)
	require.True(t, ok, "product fits in 128 bits")
	assert.Equal(t, new(uint256.Int).Sub(half, u(1)), fee)
}

func TestCalculateFeeMonotonic(t *testing.T) {
	fractions := [][2]uint64{{0, 0}, {1, 100}, {3, 7}, {99, 100}, {1, math.MaxUint64}}
	for _, f := range fractions {
		prev := uint64(0)
		for amount := uint64(0); amount < 2000; amount++ {
			fee, ok := fees.CalculateFee(u(amount), u(f[0]), u(f[1]))
			require.True(t, ok)
			assert.GreaterOrEqual(t, fee.Uint64(), prev, "fraction %v/%v amount %v", f[0], f[1], amount)

			if f[0] == 0 || amount == 0 {
				assert.Zero(t, fee.Uint64())
			} else {
				floor := amount * f[0] / f[1]
				if floor == 0 {
					floor = 1
				}
				assert.Equal(t, floor, fee.Uint64())
			}
			prev = fee.Uint64()
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		fees fees.FeeSchedule
		ok   bool
	}{
		{fees.FeeSchedule{Numerator: 0, Denominator: 0}, true},
		{fees.FeeSchedule{Numerator: 0, Denominator: 1}, true},
		{fees.FeeSchedule{Numerator: 1, Denominator: 100}, true},
		{fees.FeeSchedule{Numerator: 99, Denominator: 100}, true},
		{fees.FeeSchedule{Numerator: 100, Denominator: 100}, false},
		{fees.FeeSchedule{Numerator: 101, Denominator: 100}, false},
		{fees.FeeSchedule{Numerator: 1, Denominator: 0}, false},
	}
	for _, tt := range tests {
		err := tt.fees.Validate()
		if tt.ok {
			assert.NoError(t, err, tt.fees.String())
		} else {
			assert.True(t, errors.Is(err, fees.ErrInvalidFee), tt.fees.String())
		}
	}
}

func TestAuctionFee(t *testing.T) {
	schedule := fees.FeeSchedule{Numerator: 1, Denominator: 100}
	fee, ok := schedule.AuctionFee(u(50))
	require.True(t, ok)
	assert.Equal(t, uint64(1), fee.Uint64())

	fee, ok = schedule.AuctionFee(u(12345))
	require.True(t, ok)
	assert.Equal(t, uint64(123), fee.Uint64())

	fee, ok = fees.FeeSchedule{}.AuctionFee(u(12345))
	require.True(t, ok)
	assert.True(t, fee.IsZero())
}

func TestPackUnpack(t *testing.T) {
	schedule := fees.FeeSchedule{Numerator: 0x0102030405060708, Denominator: math.MaxUint64}
	buf := make([]byte, fees.Len)
	require.NoError(t, schedule.Pack(buf))

	assert.Equal(t, []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}, buf[:8])
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, buf[8:])

	got, err := fees.Unpack(buf)
	require.NoError(t, err)
	assert.Equal(t, schedule, got)

	_, err = fees.Unpack(buf[:15])
	assert.True(t, errors.Is(err, fees.ErrFeeDataShort))
	assert.True(t, errors.Is(schedule.Pack(make([]byte, 8)), fees.ErrFeeDataShort))
}
