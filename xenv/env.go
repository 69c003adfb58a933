// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
)

// AccountInfo is an account handed to a program by the host. Signer and
// ownership checks are the host's job; programs only read these flags.
type AccountInfo struct {
	Key        solana.PublicKey
	Owner      solana.PublicKey
	IsSigner   bool
	IsWritable bool
	Data       []byte
}

func (a *AccountInfo) String() string {
	return fmt.Sprintf("Account{Key:%s Owner:%s Signer:%v Writable:%v Len:%d}",
		a.Key, a.Owner, a.IsSigner, a.IsWritable, len(a.Data))
}

// Clock supplies the trusted unix timestamp of the current execution.
type Clock interface {
	UnixTimestamp() int64
}

// FixedClock always reports the same timestamp.
type FixedClock int64

func (c FixedClock) UnixTimestamp() int64 { return int64(c) }

// SystemClock reports local wall time, shifted by Offset.
type SystemClock struct {
	Offset time.Duration
}

func (c SystemClock) UnixTimestamp() int64 { return time.Now().Add(c.Offset).Unix() }
