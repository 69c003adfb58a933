// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"bytes"
	"log/slog"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/meterio/meter-auction/instruction"
	"github.com/meterio/meter-auction/kv"
	"github.com/meterio/meter-auction/ledger"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/meterio/meter-auction/xenv"
	"github.com/pkg/errors"
)

var (
	ErrReadonlyModified = errors.New("read-only account modified")
	ErrAccountExists    = errors.New("account already exists")
	ErrAccountNotFound  = errors.New("account not found")
)

var accountPrefix = []byte("a/")

// AccountKey is the store key of an account's data buffer.
func AccountKey(addr solana.PublicKey) []byte {
	return append(append([]byte{}, accountPrefix...), addr[:]...)
}

// Receipt is the outcome of one executed instruction.
type Receipt struct {
	CallID        uuid.UUID
	InstructionID meter.Bytes32
	Program       solana.PublicKey
	Auction       solana.PublicKey // first account of the instruction
	Op            uint8
	Clock         int64
	Transfers     tx.Transfers
	Events        tx.Events
	Fault         error // nil on success
}

// Runtime executes instructions one at a time against the account store.
// Account data and ledger changes of an instruction are committed together,
// and only if the instruction succeeds.
type Runtime struct {
	programID solana.PublicKey
	store     kv.GetPutter
	logDB     *logdb.LogDB
	engine    *script.ScriptEngine
	clock     xenv.Clock
	records   *state.RecordCache
	logger    *slog.Logger
	mu        sync.Mutex

	subMu   sync.Mutex
	subs    map[int]chan *Receipt
	nextSub int
}

const recordCacheSize = 256

// New create a Runtime object. logDB may be nil to skip journaling.
func New(programID solana.PublicKey, store kv.GetPutter, logDB *logdb.LogDB, clock xenv.Clock) *Runtime {
	records, err := state.NewRecordCache(recordCacheSize)
	if err != nil {
		// constant positive size
		panic(err)
	}
	return &Runtime{
		programID: programID,
		store:     store,
		logDB:     logDB,
		engine:    script.NewScriptEngine(programID),
		clock:     clock,
		records:   records,
		subs:      make(map[int]chan *Receipt),
		logger:    slog.Default().With("pkg", "runtime"),
	}
}

func (rt *Runtime) ProgramID() solana.PublicKey { return rt.programID }
func (rt *Runtime) LogDB() *logdb.LogDB         { return rt.logDB }
func (rt *Runtime) Clock() xenv.Clock           { return rt.clock }

// Account returns the data buffer of addr.
func (rt *Runtime) Account(addr solana.PublicKey) ([]byte, error) {
	data, err := rt.store.Get(AccountKey(addr))
	if err != nil {
		if rt.store.IsNotFound(err) {
			return nil, errors.WithMessagef(ErrAccountNotFound, "%s", addr)
		}
		return nil, err
	}
	return data, nil
}

// Auction decodes the auction record held by addr.
func (rt *Runtime) Auction(addr solana.PublicKey) (state.AuctionVersion, error) {
	data, err := rt.Account(addr)
	if err != nil {
		return nil, err
	}
	return rt.records.Unpack(data)
}

// Auctions lists the accounts holding an initialized auction record, in key order.
func (rt *Runtime) Auctions() ([]solana.PublicKey, error) {
	it := rt.store.NewIterator(accountPrefix)
	defer it.Release()
	var out []solana.PublicKey
	for it.Next() {
		if state.IsInitialized(it.Value()) {
			out = append(out, solana.PublicKeyFromBytes(it.Key()[len(accountPrefix):]))
		}
	}
	return out, it.Error()
}

// CreateAccount allocates a zeroed data buffer of the given size.
func (rt *Runtime) CreateAccount(addr solana.PublicKey, space int) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	has, err := rt.store.Has(AccountKey(addr))
	if err != nil {
		return err
	}
	if has {
		return errors.WithMessagef(ErrAccountExists, "%s", addr)
	}
	return rt.store.Put(AccountKey(addr), make([]byte, space))
}

// TokenAccount reads a ledger account.
func (rt *Runtime) TokenAccount(addr solana.PublicKey) (*ledger.Account, error) {
	return ledger.New(rt.store).Get(addr)
}

// Mint credits amount to a token account, creating it for owner if missing.
func (rt *Runtime) Mint(addr, owner solana.PublicKey, amount uint64) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	l := ledger.New(rt.store)
	if err := l.Mint(addr, owner, amount); err != nil {
		return err
	}
	batch := rt.store.NewBatch()
	if err := l.Flush(batch); err != nil {
		return err
	}
	return batch.Write()
}

// Execute runs ix. A fault is reported in the receipt; the returned error
// is reserved for failures of the host itself.
func (rt *Runtime) Execute(ix solana.Instruction) (*Receipt, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	start := time.Now()
	data, err := ix.Data()
	if err != nil {
		return nil, errors.Wrap(err, "instruction data")
	}

	metas := ix.Accounts()
	accounts := make([]*xenv.AccountInfo, 0, len(metas))
	original := make([][]byte, 0, len(metas))
	for _, m := range metas {
		buf, err := rt.store.Get(AccountKey(m.PublicKey))
		if err != nil && !rt.store.IsNotFound(err) {
			return nil, err
		}
		accounts = append(accounts, &xenv.AccountInfo{
			Key:        m.PublicKey,
			Owner:      ix.ProgramID(),
			IsSigner:   m.IsSigner,
			IsWritable: m.IsWritable,
			Data:       buf,
		})
		original = append(original, append([]byte(nil), buf...))
	}

	receipt := &Receipt{
		CallID:        uuid.New(),
		InstructionID: instruction.ID(data),
		Program:       ix.ProgramID(),
		Clock:         rt.clock.UnixTimestamp(),
	}
	if len(data) > 0 {
		receipt.Op = data[0]
	}
	if len(accounts) > 0 {
		receipt.Auction = accounts[0].Key
	}

	l := ledger.New(rt.store)
	env := setypes.NewScriptEnv(ix.ProgramID(), accounts, xenv.FixedClock(receipt.Clock), l)
	out, fault := rt.engine.HandleScriptData(env, data)
	if fault == nil {
		fault = checkReadonly(accounts, original)
	}

	if fault != nil {
		receipt.Fault = fault
		rt.logger.Info("instruction failed", "callID", receipt.CallID, "op", meter.GetOpName(receipt.Op), "err", fault)
	} else {
		receipt.Transfers = out.GetTransfers()
		receipt.Events = out.GetEvents()

		batch := rt.store.NewBatch()
		for i, acc := range accounts {
			if acc.IsWritable && !bytes.Equal(acc.Data, original[i]) {
				if err := batch.Put(AccountKey(acc.Key), acc.Data); err != nil {
					return nil, err
				}
			}
		}
		if err := l.Flush(batch); err != nil {
			return nil, err
		}
		if err := batch.Write(); err != nil {
			return nil, errors.Wrap(err, "commit")
		}
		rt.logger.Debug("instruction committed", "callID", receipt.CallID, "op", meter.GetOpName(receipt.Op),
			"transfers", len(receipt.Transfers), "elapsed", meter.PrettyDuration(time.Since(start)))
	}

	rt.journal(receipt)
	rt.notify(receipt)
	return receipt, nil
}

func checkReadonly(accounts []*xenv.AccountInfo, original [][]byte) error {
	for i, acc := range accounts {
		if !acc.IsWritable && !bytes.Equal(acc.Data, original[i]) {
			return errors.WithMessagef(ErrReadonlyModified, "%s", acc.Key)
		}
	}
	return nil
}

func (rt *Runtime) journal(receipt *Receipt) {
	if rt.logDB == nil {
		return
	}
	call := &logdb.Call{
		CallID:        receipt.CallID,
		InstructionID: receipt.InstructionID,
		Program:       receipt.Program,
		Auction:       receipt.Auction,
		Op:            receipt.Op,
		Result:        "ok",
		Clock:         receipt.Clock,
	}
	if receipt.Fault != nil {
		call.Result = receipt.Fault.Error()
	}
	if err := rt.logDB.Prepare(call).Insert(receipt.Events, receipt.Transfers).Commit(); err != nil {
		rt.logger.Warn("journal failed", "callID", receipt.CallID, "err", err)
	}
}

// Subscribe returns a channel receiving the receipt of every executed
// instruction. Receipts are dropped for a subscriber whose buffer is full.
// The returned func unsubscribes and closes the channel.
func (rt *Runtime) Subscribe(buffer int) (<-chan *Receipt, func()) {
	rt.subMu.Lock()
	defer rt.subMu.Unlock()
	id := rt.nextSub
	rt.nextSub++
	ch := make(chan *Receipt, buffer)
	rt.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			rt.subMu.Lock()
			defer rt.subMu.Unlock()
			delete(rt.subs, id)
			close(ch)
		})
	}
}

func (rt *Runtime) notify(receipt *Receipt) {
	rt.subMu.Lock()
	defer rt.subMu.Unlock()
	for id, ch := range rt.subs {
		select {
		case ch <- receipt:
		default:
			rt.logger.Debug("subscriber lagging, receipt dropped", "sub", id, "callID", receipt.CallID)
		}
	}
}
