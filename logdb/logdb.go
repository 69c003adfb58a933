// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// LogDB journals processed instructions with the events and transfers they produced.
type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	logger        *slog.Logger
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	logger := slog.Default().With("pkg", "logdb")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			if err := db.Close(); err != nil {
				logger.Warn("could not close logdb", "err", err)
			}
		}
	}()
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(callTableSchema + eventTableSchema + transferTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		logger:        logger,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() {
	if err := db.db.Close(); err != nil {
		db.logger.Warn("could not close logdb", "err", err)
	}
}

func (db *LogDB) Path() string {
	return db.path
}

func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// Prepare starts a batch journaling call.
func (db *LogDB) Prepare(call *Call) *CallBatch {
	return &CallBatch{
		db:   db.db,
		call: call,
	}
}

func appendRange(stmt string, args []interface{}, r *Range) (string, []interface{}) {
	if r == nil {
		return stmt, args
	}
	condition := "seq"
	if r.Unit == Time {
		condition = "clock"
	}
	args = append(args, r.From)
	stmt += " AND " + condition + " >= ? "
	if r.To >= r.From {
		args = append(args, r.To)
		stmt += " AND " + condition + " <= ? "
	}
	return stmt, args
}

func appendOptions(stmt string, args []interface{}, opts *Options) (string, []interface{}) {
	if opts == nil {
		return stmt, args
	}
	return stmt + " limit ?, ? ", append(args, opts.Offset, opts.Limit)
}

func (db *LogDB) FilterCalls(ctx context.Context, filter *CallFilter) ([]*Call, error) {
	const sel = "SELECT seq, callID, instructionID, program, auction, op, result, clock FROM call"
	if filter == nil {
		return db.queryCalls(ctx, sel)
	}
	var args []interface{}
	stmt := sel + " WHERE 1"
	stmt, args = appendRange(stmt, args, filter.Range)
	if filter.Auction != nil {
		args = append(args, filter.Auction.Bytes())
		stmt += " AND auction = ? "
	}
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}
	stmt, args = appendOptions(stmt, args, filter.Options)
	return db.queryCalls(ctx, stmt, args...)
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	const sel = "SELECT seq, eventIndex, clock, callID, address, topic0, topic1, topic2, topic3, topic4, data FROM event"
	if filter == nil {
		return db.queryEvents(ctx, sel)
	}
	var args []interface{}
	stmt := sel + " WHERE 1"
	stmt, args = appendRange(stmt, args, filter.Range)
	length := len(filter.CriteriaSet)
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.Bytes())
			stmt += " AND address = ? "
		}
		for j, topic := range criteria.Topics {
			if topic != nil {
				args = append(args, topic.Bytes())
				stmt += fmt.Sprintf(" AND topic%v = ?", j)
			}
		}
		if i == length-1 {
			stmt += " )) "
		} else {
			stmt += " ) "
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC,eventIndex DESC "
	} else {
		stmt += " ORDER BY seq ASC,eventIndex ASC "
	}
	stmt, args = appendOptions(stmt, args, filter.Options)
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	const sel = "SELECT seq, transferIndex, clock, callID, source, destination, authority, nonce, amount FROM transfer"
	if filter == nil {
		return db.queryTransfers(ctx, sel)
	}
	var args []interface{}
	stmt := sel + " WHERE 1"
	stmt, args = appendRange(stmt, args, filter.Range)
	if filter.CallID != nil {
		args = append(args, filter.CallID.String())
		stmt += " AND callID = ? "
	}
	length := len(filter.CriteriaSet)
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1 "
		} else {
			stmt += " OR ( 1 "
		}
		if criteria.Source != nil {
			args = append(args, criteria.Source.Bytes())
			stmt += " AND source = ? "
		}
		if criteria.Destination != nil {
			args = append(args, criteria.Destination.Bytes())
			stmt += " AND destination = ? "
		}
		if criteria.Authority != nil {
			args = append(args, criteria.Authority.Bytes())
			stmt += " AND authority = ? "
		}
		if i == length-1 {
			stmt += " )) "
		} else {
			stmt += " ) "
		}
	}
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC,transferIndex DESC "
	} else {
		stmt += " ORDER BY seq ASC,transferIndex ASC "
	}
	stmt, args = appendOptions(stmt, args, filter.Options)
	return db.queryTransfers(ctx, stmt, args...)
}

func parseCallID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, errors.Wrap(err, "call id")
	}
	return id, nil
}

func (db *LogDB) queryCalls(ctx context.Context, stmt string, args ...interface{}) ([]*Call, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var calls []*Call
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq           uint64
			callID        string
			instructionID []byte
			program       []byte
			auction       []byte
			op            uint8
			result        string
			clock         int64
		)
		if err := rows.Scan(&seq, &callID, &instructionID, &program, &auction, &op, &result, &clock); err != nil {
			return nil, err
		}
		id, err := parseCallID(callID)
		if err != nil {
			return nil, err
		}
		calls = append(calls, &Call{
			Seq:           seq,
			CallID:        id,
			InstructionID: meter.BytesToBytes32(instructionID),
			Program:       solana.PublicKeyFromBytes(program),
			Auction:       keyValue(auction),
			Op:            op,
			Result:        result,
			Clock:         clock,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return calls, nil
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...interface{}) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq     uint64
			index   uint32
			clock   int64
			callID  string
			address []byte
			topics  [5][]byte
			data    []byte
		)
		if err := rows.Scan(
			&seq,
			&index,
			&clock,
			&callID,
			&address,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&topics[4],
			&data,
		); err != nil {
			return nil, err
		}
		id, err := parseCallID(callID)
		if err != nil {
			return nil, err
		}
		event := &Event{
			Seq:     seq,
			Index:   index,
			Clock:   clock,
			CallID:  id,
			Address: solana.PublicKeyFromBytes(address),
			Data:    data,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := meter.BytesToBytes32(topic)
				event.Topics[i] = &h
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) queryTransfers(ctx context.Context, stmt string, args ...interface{}) ([]*Transfer, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var transfers []*Transfer
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq         uint64
			index       uint32
			clock       int64
			callID      string
			source      []byte
			destination []byte
			authority   []byte
			nonce       uint8
			amount      []byte
		)
		if err := rows.Scan(
			&seq,
			&index,
			&clock,
			&callID,
			&source,
			&destination,
			&authority,
			&nonce,
			&amount,
		); err != nil {
			return nil, err
		}
		id, err := parseCallID(callID)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, &Transfer{
			Seq:         seq,
			Index:       index,
			Clock:       clock,
			CallID:      id,
			Source:      solana.PublicKeyFromBytes(source),
			Destination: solana.PublicKeyFromBytes(destination),
			Authority:   solana.PublicKeyFromBytes(authority),
			Nonce:       nonce,
			Amount:      new(big.Int).SetBytes(amount).Uint64(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

func topicValue(topic *meter.Bytes32) []byte {
	if topic == nil {
		return nil
	}
	return topic.Bytes()
}

func keyValue(b []byte) solana.PublicKey {
	if len(b) == 0 {
		return solana.PublicKey{}
	}
	return solana.PublicKeyFromBytes(b)
}

// CallBatch collects the output of one call and writes it in one sql transaction.
type CallBatch struct {
	db        *sql.DB
	call      *Call
	events    []*Event
	transfers []*Transfer
}

func (cb *CallBatch) execInTx(proc func(*sql.Tx) error) (err error) {
	tx, err := cb.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		if e := tx.Rollback(); e != nil {
			slog.Default().With("pkg", "logdb").Warn("could not rollback", "err", e)
		}
		return err
	}
	return tx.Commit()
}

// Insert appends the events and transfers emitted by the call.
func (cb *CallBatch) Insert(events tx.Events, transfers tx.Transfers) *CallBatch {
	for _, event := range events {
		cb.events = append(cb.events, newEvent(cb.call, uint32(len(cb.events)), event))
	}
	for _, transfer := range transfers {
		cb.transfers = append(cb.transfers, newTransfer(cb.call, uint32(len(cb.transfers)), transfer))
	}
	return cb
}

// Commit writes the call and its output, assigning the journal sequence.
func (cb *CallBatch) Commit() error {
	return cb.execInTx(func(tx *sql.Tx) error {
		var auction []byte
		if !cb.call.Auction.IsZero() {
			auction = cb.call.Auction.Bytes()
		}
		res, err := tx.Exec("INSERT INTO call(callID, instructionID, program, auction, op, result, clock) VALUES (?, ?, ?, ?, ?, ?, ?);",
			cb.call.CallID.String(),
			cb.call.InstructionID.Bytes(),
			cb.call.Program.Bytes(),
			auction,
			cb.call.Op,
			cb.call.Result,
			cb.call.Clock,
		)
		if err != nil {
			return err
		}
		seq, err := res.LastInsertId()
		if err != nil {
			return err
		}
		cb.call.Seq = uint64(seq)

		for _, event := range cb.events {
			event.Seq = cb.call.Seq
			if _, err := tx.Exec("INSERT OR REPLACE INTO event(seq, eventIndex, clock, callID, address, topic0, topic1, topic2, topic3, topic4, data) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);",
				event.Seq,
				event.Index,
				event.Clock,
				event.CallID.String(),
				event.Address.Bytes(),
				topicValue(event.Topics[0]),
				topicValue(event.Topics[1]),
				topicValue(event.Topics[2]),
				topicValue(event.Topics[3]),
				topicValue(event.Topics[4]),
				event.Data,
			); err != nil {
				return err
			}
		}

		for _, transfer := range cb.transfers {
			transfer.Seq = cb.call.Seq
			if _, err := tx.Exec("INSERT OR REPLACE INTO transfer(seq, transferIndex, clock, callID, source, destination, authority, nonce, amount) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);",
				transfer.Seq,
				transfer.Index,
				transfer.Clock,
				transfer.CallID.String(),
				transfer.Source.Bytes(),
				transfer.Destination.Bytes(),
				transfer.Authority.Bytes(),
				transfer.Nonce,
				amountValue(transfer.Amount),
			); err != nil {
				return err
			}
		}
		return nil
	})
}
