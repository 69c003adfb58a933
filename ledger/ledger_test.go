// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger_test

import (
	"errors"
	"math"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/meterio/meter-auction/ledger"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = solana.PublicKey{1}
	bob   = solana.PublicKey{2}
	carol = solana.PublicKey{3}
)

func newLedger(t *testing.T) (*ledger.Ledger, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l := ledger.New(db)
	require.NoError(t, l.Mint(alice, alice, 100))
	require.NoError(t, l.Mint(bob, bob, 0))
	require.NoError(t, l.Flush(db))
	return l, db
}

func TestTransfer(t *testing.T) {
	l, db := newLedger(t)

	require.NoError(t, l.InvokeTransfer(&tx.Transfer{Source: alice, Destination: bob, Authority: alice, Amount: 40}))
	a, err := l.Get(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), a.Amount)
	b, err := l.Get(bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), b.Amount)
	assert.Equal(t, 2, l.Staged())

	// store untouched until flushed
	fresh := ledger.New(db)
	a, err = fresh.Get(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), a.Amount)

	require.NoError(t, l.Flush(db))
	assert.Zero(t, l.Staged())
	a, err = fresh.Get(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), a.Amount)
}

func TestTransferFaults(t *testing.T) {
	tests := []struct {
		name string
		t    *tx.Transfer
		err  error
	}{
		{"missing source", &tx.Transfer{Source: carol, Destination: bob, Authority: carol, Amount: 1}, ledger.ErrAccountNotFound},
		{"missing destination", &tx.Transfer{Source: alice, Destination: carol, Authority: alice, Amount: 1}, ledger.ErrAccountNotFound},
		{"wrong authority", &tx.Transfer{Source: alice, Destination: bob, Authority: bob, Amount: 1}, ledger.ErrOwnerMismatch},
		{"insufficient", &tx.Transfer{Source: alice, Destination: bob, Authority: alice, Amount: 101}, ledger.ErrInsufficientFunds},
	}
	for _, tt := range tests {
		l, _ := newLedger(t)
		err := l.InvokeTransfer(tt.t)
		assert.True(t, errors.Is(err, tt.err), "%s: %v", tt.name, err)
		assert.Zero(t, l.Staged(), tt.name)
	}
}

func TestTransferOverflow(t *testing.T) {
	l, _ := newLedger(t)
	require.NoError(t, l.Mint(bob, bob, math.MaxUint64))
	err := l.InvokeTransfer(&tx.Transfer{Source: alice, Destination: bob, Authority: alice, Amount: 1})
	assert.True(t, errors.Is(err, ledger.ErrOverflow))

	err = l.Mint(bob, bob, 1)
	assert.True(t, errors.Is(err, ledger.ErrOverflow))
}

func TestSelfTransfer(t *testing.T) {
	l, _ := newLedger(t)
	require.NoError(t, l.InvokeTransfer(&tx.Transfer{Source: alice, Destination: alice, Authority: alice, Amount: 100}))
	a, err := l.Get(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), a.Amount)
}

func TestReset(t *testing.T) {
	l, _ := newLedger(t)
	require.NoError(t, l.InvokeTransfer(&tx.Transfer{Source: alice, Destination: bob, Authority: alice, Amount: 1}))
	l.Reset()
	a, err := l.Get(alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), a.Amount)
}
