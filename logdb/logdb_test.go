// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	program = solana.PublicKey{1}
	auction = solana.PublicKey{2}
	from    = solana.PublicKey{3}
	to      = solana.PublicKey{4}
)

func newCall(clock int64) *logdb.Call {
	return &logdb.Call{
		CallID:        uuid.New(),
		InstructionID: meter.Blake2b([]byte("ix")),
		Program:       program,
		Auction:       auction,
		Op:            meter.OP_PLACE_BID,
		Result:        "ok",
		Clock:         clock,
	}
}

func TestEvents(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	t0 := meter.BytesToBytes32([]byte("topic0"))
	t1 := meter.BytesToBytes32([]byte("topic1"))
	txEvent := &tx.Event{
		Address: auction,
		Topics:  []meter.Bytes32{t0, t1},
		Data:    []byte{97, 48},
	}
	for i := 0; i < 100; i++ {
		require.NoError(t, db.Prepare(newCall(int64(i))).Insert(tx.Events{txEvent}, nil).Commit())
	}

	limit := 5
	es, err := db.FilterEvents(context.Background(), &logdb.EventFilter{
		Range:   &logdb.Range{Unit: logdb.Seq, From: 0, To: 10},
		Options: &logdb.Options{Offset: 0, Limit: uint64(limit)},
		Order:   logdb.DESC,
		CriteriaSet: []*logdb.EventCriteria{
			{Address: &auction},
			{Address: &auction, Topics: [5]*meter.Bytes32{&t0, &t1}},
		},
	})
	require.NoError(t, err)
	require.Len(t, es, limit)
	assert.Equal(t, uint64(10), es[0].Seq)
	assert.Equal(t, &t0, es[0].Topics[0])
	assert.Nil(t, es[0].Topics[2])
	assert.Equal(t, []byte{97, 48}, es[0].Data)

	other := solana.PublicKey{9}
	es, err = db.FilterEvents(context.Background(), &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Address: &other}},
	})
	require.NoError(t, err)
	assert.Empty(t, es)
}

func TestTransfers(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	count := 100
	var last *logdb.Call
	for i := 0; i < count; i++ {
		last = newCall(int64(1000 + i))
		require.NoError(t, db.Prepare(last).Insert(nil, tx.Transfers{
			{Source: from, Destination: to, Authority: from, Nonce: 7, Amount: 10},
			{Source: to, Destination: from, Authority: to, Nonce: 7, Amount: math.MaxUint64},
		}).Commit())
	}
	assert.Equal(t, uint64(count), last.Seq)

	ts, err := db.FilterTransfers(context.Background(), &logdb.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{Source: &from, Destination: &to}},
		Range:       &logdb.Range{Unit: logdb.Time, From: 1000, To: 2000},
		Options:     &logdb.Options{Offset: 0, Limit: uint64(count)},
		Order:       logdb.DESC,
	})
	require.NoError(t, err)
	assert.Len(t, ts, count)
	assert.Equal(t, uint64(10), ts[0].Amount)
	assert.Equal(t, int64(1099), ts[0].Clock)

	ts, err = db.FilterTransfers(context.Background(), &logdb.TransferFilter{CallID: &last.CallID})
	require.NoError(t, err)
	require.Len(t, ts, 2)
	assert.Equal(t, uint32(1), ts[1].Index)
	assert.Equal(t, uint64(math.MaxUint64), ts[1].Amount)
	assert.Equal(t, uint8(7), ts[1].Nonce)

	all, err := db.FilterTransfers(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2*count)
}

func TestCalls(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	failed := newCall(5)
	failed.Result = "invalid instruction"
	require.NoError(t, db.Prepare(newCall(1)).Commit())
	require.NoError(t, db.Prepare(failed).Commit())
	noAuction := newCall(9)
	noAuction.Auction = solana.PublicKey{}
	require.NoError(t, db.Prepare(noAuction).Commit())

	calls, err := db.FilterCalls(context.Background(), &logdb.CallFilter{Auction: &auction, Order: logdb.DESC})
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, failed.CallID, calls[0].CallID)
	assert.Equal(t, "invalid instruction", calls[0].Result)
	assert.Equal(t, meter.OP_PLACE_BID, calls[0].Op)

	calls, err = db.FilterCalls(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, calls, 3)
	assert.True(t, calls[2].Auction.IsZero())

	// call ids are unique
	assert.Error(t, db.Prepare(failed).Commit())
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.db")
	db, err := logdb.New(path)
	require.NoError(t, err)
	assert.Equal(t, path, db.Path())
	assert.NotEmpty(t, db.DriverVersion())
	require.NoError(t, db.Prepare(newCall(1)).Commit())
	db.Close()

	db, err = logdb.New(path)
	require.NoError(t, err)
	defer db.Close()
	calls, err := db.FilterCalls(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, calls, 1)
}

func BenchmarkLog(b *testing.B) {
	db, err := logdb.New(filepath.Join(b.TempDir(), "log.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer db.Close()
	l := &tx.Event{
		Address: auction,
		Topics:  []meter.Bytes32{meter.BytesToBytes32([]byte("topic0"))},
		Data:    []byte("data"),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		batch := db.Prepare(newCall(int64(i)))
		for j := 0; j < 100; j++ {
			batch.Insert(tx.Events{l}, nil)
		}
		if err := batch.Commit(); err != nil {
			b.Fatal(err)
		}
	}
}
