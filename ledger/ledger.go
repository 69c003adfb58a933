// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gagliardetto/solana-go"
	"github.com/meterio/meter-auction/kv"
	"github.com/meterio/meter-auction/tx"
	"github.com/pkg/errors"
)

var (
	ErrAccountNotFound   = errors.New("token account not found")
	ErrOwnerMismatch     = errors.New("authority does not own source account")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrOverflow          = errors.New("balance overflow")
)

var accountPrefix = []byte("t/")

// Account is a token account: a balance and the key allowed to move it.
type Account struct {
	Owner  solana.PublicKey
	Amount uint64
}

func (a *Account) String() string {
	return fmt.Sprintf("TokenAccount{Owner:%s Amount:%d}", a.Owner, a.Amount)
}

// AccountKey is the store key of a token account.
func AccountKey(addr solana.PublicKey) []byte {
	return append(append([]byte{}, accountPrefix...), addr[:]...)
}

// Ledger executes transfer requests on token accounts. Changes are staged
// in memory until Flush.
type Ledger struct {
	store  kv.Getter
	staged map[solana.PublicKey]*Account
	logger *slog.Logger
}

func New(store kv.Getter) *Ledger {
	return &Ledger{
		store:  store,
		staged: make(map[solana.PublicKey]*Account),
		logger: slog.Default().With("pkg", "ledger"),
	}
}

// Get returns a copy of the account at addr, staged changes included.
func (l *Ledger) Get(addr solana.PublicKey) (*Account, error) {
	if acc, ok := l.staged[addr]; ok {
		cpy := *acc
		return &cpy, nil
	}
	raw, err := l.store.Get(AccountKey(addr))
	if err != nil {
		if l.store.IsNotFound(err) {
			return nil, errors.WithMessagef(ErrAccountNotFound, "%s", addr)
		}
		return nil, err
	}
	var acc Account
	if err := rlp.DecodeBytes(raw, &acc); err != nil {
		return nil, errors.Wrapf(err, "decode token account %s", addr)
	}
	return &acc, nil
}

// Mint creates the account if missing and credits amount to it.
func (l *Ledger) Mint(addr, owner solana.PublicKey, amount uint64) error {
	acc, err := l.Get(addr)
	if err != nil {
		if !errors.Is(err, ErrAccountNotFound) {
			return err
		}
		acc = &Account{Owner: owner}
	}
	sum, overflow := math.SafeAdd(acc.Amount, amount)
	if overflow {
		return errors.WithMessagef(ErrOverflow, "%s", addr)
	}
	acc.Amount = sum
	l.staged[addr] = acc
	return nil
}

// InvokeTransfer moves t.Amount from t.Source to t.Destination. The
// authority must own the source account.
func (l *Ledger) InvokeTransfer(t *tx.Transfer) error {
	src, err := l.Get(t.Source)
	if err != nil {
		return errors.WithMessage(err, "source")
	}
	dst, err := l.Get(t.Destination)
	if err != nil {
		return errors.WithMessage(err, "destination")
	}
	if src.Owner != t.Authority {
		return errors.WithMessagef(ErrOwnerMismatch, "%s is owned by %s", t.Source, src.Owner)
	}
	remain, underflow := math.SafeSub(src.Amount, t.Amount)
	if underflow {
		return errors.WithMessagef(ErrInsufficientFunds, "%s has %d, need %d", t.Source, src.Amount, t.Amount)
	}
	if t.Source == t.Destination {
		return nil
	}
	credited, overflow := math.SafeAdd(dst.Amount, t.Amount)
	if overflow {
		return errors.WithMessagef(ErrOverflow, "%s", t.Destination)
	}
	src.Amount = remain
	dst.Amount = credited
	l.staged[t.Source] = src
	l.staged[t.Destination] = dst
	l.logger.Debug("transfer", "transfer", t)
	return nil
}

// Staged reports how many accounts carry unflushed changes.
func (l *Ledger) Staged() int { return len(l.staged) }

// Flush writes staged accounts to w and clears the stage.
func (l *Ledger) Flush(w kv.Putter) error {
	for addr, acc := range l.staged {
		raw, err := rlp.EncodeToBytes(acc)
		if err != nil {
			return errors.Wrapf(err, "encode token account %s", addr)
		}
		if err := w.Put(AccountKey(addr), raw); err != nil {
			return err
		}
	}
	l.Reset()
	return nil
}

// Reset drops staged changes.
func (l *Ledger) Reset() {
	l.staged = make(map[solana.PublicKey]*Account)
}
