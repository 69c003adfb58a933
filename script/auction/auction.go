// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"log/slog"
	"sync"
	"time"

	"github.com/meterio/meter-auction/instruction"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/pkg/errors"
)

var registerMetricsOnce sync.Once

// Auction processes auction instructions against the accounts of a ScriptEnv.
type Auction struct {
	logger *slog.Logger
}

func NewAuction() *Auction {
	registerMetricsOnce.Do(registerMetrics)
	return &Auction{
		logger: slog.Default().With("pkg", "auction"),
	}
}

// Process decodes data and runs the matching handler. Any error aborts the
// instruction; the caller must discard the account data and ledger writes.
func (a *Auction) Process(env *setypes.ScriptEnv, data []byte) (err error) {
	start := time.Now()
	op := "Unknown"
	defer func() {
		result := "ok"
		if err != nil {
			result = "fault"
			env.SetReturnData([]byte(err.Error()))
			faultsCounter.WithLabelValues(faultKind(err)).Inc()
			a.logger.Debug("instruction failed", "op", op, "err", err)
		}
		instructionsCounter.WithLabelValues(op, result).Inc()
		a.logger.Debug("instruction completed", "op", op, "elapsed", meter.PrettyDuration(time.Since(start)))
	}()

	ix, err := instruction.Unpack(data)
	if err != nil {
		return err
	}
	op = meter.GetOpName(ix.Tag())
	a.logger.Debug("received instruction", "ix", ix)

	switch ix := ix.(type) {
	case instruction.Initialize:
		err = a.HandleInitialize(env, ix)
	case instruction.PlaceBid:
		err = a.HandlePlaceBid(env, ix)
	case instruction.Withdraw:
		err = a.HandleWithdraw(env, ix)
	case instruction.Cancel:
		err = a.HandleCancel(env, ix)
	default:
		err = errors.WithMessagef(ErrInvalidInstruction, "unhandled %T", ix)
	}
	return err
}
