// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/meterio/meter-auction/api/events"
	"github.com/meterio/meter-auction/logdb"
)

type FilteredTransfer struct {
	Source      solana.PublicKey `json:"source"`
	Destination solana.PublicKey `json:"destination"`
	Authority   solana.PublicKey `json:"authority"`
	Nonce       uint8            `json:"nonce"`
	Amount      uint64           `json:"amount"`
	Meta        events.LogMeta   `json:"meta"`
}

func convertTransfer(transfer *logdb.Transfer) *FilteredTransfer {
	return &FilteredTransfer{
		Source:      transfer.Source,
		Destination: transfer.Destination,
		Authority:   transfer.Authority,
		Nonce:       transfer.Nonce,
		Amount:      transfer.Amount,
		Meta: events.LogMeta{
			Seq:    transfer.Seq,
			Clock:  transfer.Clock,
			CallID: transfer.CallID.String(),
		},
	}
}

type TransferCriteria struct {
	Source      *solana.PublicKey `json:"source"`
	Destination *solana.PublicKey `json:"destination"`
	Authority   *solana.PublicKey `json:"authority"`
}

type TransferFilter struct {
	CallID      *uuid.UUID          `json:"callID"`
	CriteriaSet []*TransferCriteria `json:"criteriaSet"`
	Range       *logdb.Range        `json:"range"`
	Options     *logdb.Options      `json:"options"`
	Order       logdb.Order         `json:"order"`
}

func convertTransferFilter(filter *TransferFilter) *logdb.TransferFilter {
	f := &logdb.TransferFilter{
		CallID:  filter.CallID,
		Range:   filter.Range,
		Options: filter.Options,
		Order:   filter.Order,
	}
	for _, c := range filter.CriteriaSet {
		f.CriteriaSet = append(f.CriteriaSet, &logdb.TransferCriteria{
			Source:      c.Source,
			Destination: c.Destination,
			Authority:   c.Authority,
		})
	}
	return f
}
