// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"github.com/gagliardetto/solana-go"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
	"github.com/meterio/meter-auction/xenv"
	"github.com/pkg/errors"
)

var ErrNotEnoughAccountKeys = errors.New("not enough account keys")

// TransferInvoker executes a transfer request against the token ledger.
type TransferInvoker interface {
	InvokeTransfer(t *tx.Transfer) error
}

// ScriptEnv is the context of one program invocation.
type ScriptEnv struct {
	programID solana.PublicKey
	accounts  []*xenv.AccountInfo
	next      int
	clock     xenv.Clock
	invoker   TransferInvoker

	returnData []byte
	transfers  []*tx.Transfer
	events     []*tx.Event
}

func NewScriptEnv(programID solana.PublicKey, accounts []*xenv.AccountInfo, clock xenv.Clock, invoker TransferInvoker) *ScriptEnv {
	return &ScriptEnv{
		programID:  programID,
		accounts:   accounts,
		clock:      clock,
		invoker:    invoker,
		returnData: make([]byte, 0),
		transfers:  make([]*tx.Transfer, 0),
		events:     make([]*tx.Event, 0),
	}
}

func (env *ScriptEnv) GetProgramID() solana.PublicKey   { return env.programID }
func (env *ScriptEnv) GetAccounts() []*xenv.AccountInfo { return env.accounts }
func (env *ScriptEnv) GetClock() xenv.Clock             { return env.clock }

// NextAccount returns the next account in instruction order.
func (env *ScriptEnv) NextAccount() (*xenv.AccountInfo, error) {
	if env.next >= len(env.accounts) {
		return nil, errors.WithMessagef(ErrNotEnoughAccountKeys, "account #%d", env.next)
	}
	acc := env.accounts[env.next]
	env.next++
	return acc, nil
}

func (env *ScriptEnv) SetReturnData(data []byte) {
	env.returnData = data
}
func (env *ScriptEnv) GetReturnData() []byte {
	if len(env.returnData) == 0 {
		return nil
	}
	return env.returnData
}

// Transfer hands t to the ledger and records it once the ledger accepts.
func (env *ScriptEnv) Transfer(t *tx.Transfer) error {
	if env.invoker == nil {
		return errors.New("no transfer invoker")
	}
	if err := env.invoker.InvokeTransfer(t); err != nil {
		return err
	}
	env.transfers = append(env.transfers, t)
	return nil
}

func (env *ScriptEnv) AddEvent(address solana.PublicKey, topics []meter.Bytes32, data []byte) {
	env.events = append(env.events, &tx.Event{
		Address: address,
		Topics:  topics,
		Data:    data,
	})
}

func (env *ScriptEnv) GetTransfers() tx.Transfers {
	return env.transfers
}

func (env *ScriptEnv) GetEvents() tx.Events {
	return env.events
}

func (env *ScriptEnv) GetOutput() *ScriptEngineOutput {
	return &ScriptEngineOutput{
		data:      env.GetReturnData(),
		transfers: env.transfers,
		events:    env.events,
	}
}
