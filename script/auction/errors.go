// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/meterio/meter-auction/fees"
	"github.com/meterio/meter-auction/instruction"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
	"github.com/pkg/errors"
)

var (
	ErrAlreadyInUse          = errors.New("auction account already in use")
	ErrFeeCalculationFailure = errors.New("fee calculation failure")
	ErrConversionFailure     = errors.New("conversion failure")

	ErrInvalidInstruction   = instruction.ErrInvalidInstruction
	ErrInvalidFee           = fees.ErrInvalidFee
	ErrInvalidAccountData   = state.ErrInvalidAccountData
	ErrAccountDataTooSmall  = state.ErrAccountDataTooSmall
	ErrNotEnoughAccountKeys = setypes.ErrNotEnoughAccountKeys
)

var faultKinds = []struct {
	err  error
	kind string
}{
	{ErrInvalidInstruction, "invalid_instruction"},
	{ErrAlreadyInUse, "already_in_use"},
	{ErrInvalidFee, "invalid_fee"},
	{ErrFeeCalculationFailure, "fee_calculation_failure"},
	{ErrConversionFailure, "conversion_failure"},
	{ErrInvalidAccountData, "invalid_account_data"},
	{ErrAccountDataTooSmall, "account_data_too_small"},
	{ErrNotEnoughAccountKeys, "not_enough_account_keys"},
}

// faultKind labels err for metrics. Errors raised by the ledger are
// reported as "ledger".
func faultKind(err error) string {
	for _, k := range faultKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "ledger"
}
