// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"github.com/gagliardetto/solana-go"
)

type Status struct {
	Version       string           `json:"version"`
	ProgramID     solana.PublicKey `json:"programID"`
	Clock         int64            `json:"clock"`
	ClockOffset   string           `json:"clockOffset"`
	Journal       bool             `json:"journal"`
	DriverVersion string           `json:"driverVersion,omitempty"`
}
