// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"log/slog"

	"github.com/gagliardetto/solana-go"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/pkg/errors"
)

var ErrUnknownProgram = errors.New("unknown program")

// ScriptEngine routes instructions to the program registered for the
// env's program id.
type ScriptEngine struct {
	logger *slog.Logger
	modReg Registry
}

// NewScriptEngine creates an engine with the auction program registered
// under auctionProgramID.
func NewScriptEngine(auctionProgramID solana.PublicKey) *ScriptEngine {
	se := &ScriptEngine{
		logger: slog.Default().With("pkg", "se"),
	}
	ModuleAuctionInit(se, auctionProgramID)
	return se
}

func (se *ScriptEngine) Registry() *Registry { return &se.modReg }

// HandleScriptData runs data against the program of senv. On error the
// output must be discarded.
func (se *ScriptEngine) HandleScriptData(senv *setypes.ScriptEnv, data []byte) (*setypes.ScriptEngineOutput, error) {
	programID := senv.GetProgramID()
	mod, find := se.modReg.Find(programID)
	if !find {
		return nil, errors.WithMessagef(ErrUnknownProgram, "%s", programID)
	}
	se.logger.Debug("script data", "module", mod.modName, "len", len(data))

	if err := mod.modHandler(senv, data); err != nil {
		return nil, err
	}
	return senv.GetOutput(), nil
}
