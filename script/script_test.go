// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script_test

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/meterio/meter-auction/fees"
	"github.com/meterio/meter-auction/instruction"
	"github.com/meterio/meter-auction/script"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/xenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineRoutesToAuction(t *testing.T) {
	programID := solana.PublicKey{1}
	se := script.NewScriptEngine(programID)

	mods := se.Registry().All()
	require.Len(t, mods, 1)
	assert.Equal(t, script.AUCTION_MODULE_NAME, mods[0].Name())
	assert.Equal(t, programID, mods[0].ID())

	data := make([]byte, state.LatestLen)
	accounts := []*xenv.AccountInfo{
		{Key: solana.PublicKey{2}, Data: data},
		{Key: solana.PublicKey{3}},
		{Key: solana.PublicKey{4}},
		{Key: solana.PublicKey{5}},
		{Key: solana.PublicKey{6}},
	}
	env := setypes.NewScriptEnv(programID, accounts, xenv.FixedClock(0), nil)
	out, err := se.HandleScriptData(env, instruction.Pack(instruction.Initialize{Fees: fees.FeeSchedule{}, StartTimestamp: 1, EndTimestamp: 2}))
	require.NoError(t, err)
	assert.Empty(t, out.GetTransfers())
	assert.True(t, state.IsInitialized(data))
}

func TestEngineUnknownProgram(t *testing.T) {
	se := script.NewScriptEngine(solana.PublicKey{1})
	env := setypes.NewScriptEnv(solana.PublicKey{9}, nil, xenv.FixedClock(0), nil)
	_, err := se.HandleScriptData(env, []byte{3, 1})
	assert.True(t, errors.Is(err, script.ErrUnknownProgram))
}

func TestRegistry(t *testing.T) {
	var r script.Registry
	id := solana.PublicKey{7}
	assert.NoError(t, r.Register(id, &script.Module{}))
	assert.Error(t, r.Register(id, &script.Module{}))
	assert.NoError(t, r.ForceRegister(id, &script.Module{}))

	_, ok := r.Find(id)
	assert.True(t, ok)
	_, ok = r.Find(solana.PublicKey{8})
	assert.False(t, ok)
}
