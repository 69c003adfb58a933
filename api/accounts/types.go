// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/gagliardetto/solana-go"
)

// Account is the raw data buffer of an account.
type Account struct {
	Address solana.PublicKey `json:"address"`
	Len     int              `json:"len"`
	Data    string           `json:"data"`
}

// CreateAccount allocates a zeroed account. Space defaults to the size of
// an auction record.
type CreateAccount struct {
	Address solana.PublicKey `json:"address"`
	Space   *int             `json:"space"`
}
