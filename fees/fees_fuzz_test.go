// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fees

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
)

// FuzzCalculateFee checks the widened computation against math/big.
func FuzzCalculateFee(f *testing.F) {
	f.Add(uint64(0), uint64(0), uint64(0))
	f.Add(uint64(50), uint64(1), uint64(100))
	f.Add(uint64(1<<63), uint64(1<<62), uint64(1<<63))
	f.Add(^uint64(0), ^uint64(0)-1, ^uint64(0))

	f.Fuzz(func(t *testing.T, amount, num, den uint64) {
		fee, ok := CalculateFee(uint256.NewInt(amount), uint256.NewInt(num), uint256.NewInt(den))
		if num == 0 || amount == 0 {
			if !ok || !fee.IsZero() {
				t.Fatalf("expected zero fee for %v*%v/%v", amount, num, den)
			}
			return
		}
		if den == 0 {
			if ok {
				t.Fatalf("expected no value for zero denominator")
			}
			return
		}
		if !ok {
			t.Fatalf("u64 inputs never overflow u128: %v*%v/%v", amount, num, den)
		}
		want := new(big.Int).Mul(new(big.Int).SetUint64(amount), new(big.Int).SetUint64(num))
		want.Div(want, new(big.Int).SetUint64(den))
		if want.Sign() == 0 {
			want.SetInt64(1)
		}
		if fee.ToBig().Cmp(want) != 0 {
			t.Fatalf("fee %v, want %v", fee, want)
		}
	})
}

// FuzzValidate checks Validate accepts exactly the zero pair and proper fractions.
func FuzzValidate(f *testing.F) {
	f.Add(uint64(0), uint64(0))
	f.Add(uint64(1), uint64(0))
	f.Add(uint64(5), uint64(5))

	f.Fuzz(func(t *testing.T, num, den uint64) {
		err := FeeSchedule{Numerator: num, Denominator: den}.Validate()
		valid := (num == 0 && den == 0) || num < den
		if valid != (err == nil) {
			t.Fatalf("Validate(%v/%v) = %v", num, den, err)
		}
	})
}
