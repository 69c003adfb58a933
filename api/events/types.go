// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gagliardetto/solana-go"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
)

type TopicSet struct {
	Topic0 *meter.Bytes32 `json:"topic0"`
	Topic1 *meter.Bytes32 `json:"topic1"`
	Topic2 *meter.Bytes32 `json:"topic2"`
	Topic3 *meter.Bytes32 `json:"topic3"`
	Topic4 *meter.Bytes32 `json:"topic4"`
}

func (ts *TopicSet) array() [5]*meter.Bytes32 {
	return [5]*meter.Bytes32{ts.Topic0, ts.Topic1, ts.Topic2, ts.Topic3, ts.Topic4}
}

// LogMeta locates a journal row.
type LogMeta struct {
	Seq    uint64 `json:"seq"`
	Clock  int64  `json:"clock"`
	CallID string `json:"callID"`
}

func newLogMeta(seq uint64, clock int64, callID string) LogMeta {
	return LogMeta{Seq: seq, Clock: clock, CallID: callID}
}

type FilteredEvent struct {
	Address solana.PublicKey `json:"address"`
	Topics  []*meter.Bytes32 `json:"topics"`
	Data    string           `json:"data"`
	Meta    LogMeta          `json:"meta"`
}

func convertEvent(event *logdb.Event) *FilteredEvent {
	topics := make([]*meter.Bytes32, 0, len(event.Topics))
	for _, t := range event.Topics {
		if t != nil {
			topics = append(topics, t)
		}
	}
	return &FilteredEvent{
		Address: event.Address,
		Topics:  topics,
		Data:    hexutil.Encode(event.Data),
		Meta:    newLogMeta(event.Seq, event.Clock, event.CallID.String()),
	}
}

// EventCriteria matches events by emitter and topics. Name is a shortcut
// for the topic0 of a named auction event, e.g. "AuctionCanceled".
type EventCriteria struct {
	Address *solana.PublicKey `json:"address"`
	Name    string            `json:"name"`
	TopicSet
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *logdb.Range     `json:"range"`
	Options     *logdb.Options   `json:"options"`
	Order       logdb.Order      `json:"order"`
}

func convertEventFilter(filter *EventFilter) *logdb.EventFilter {
	f := &logdb.EventFilter{
		Range:   filter.Range,
		Options: filter.Options,
		Order:   filter.Order,
	}
	for _, c := range filter.CriteriaSet {
		f.CriteriaSet = append(f.CriteriaSet, &logdb.EventCriteria{
			Address: c.Address,
			Topics:  c.TopicSet.array(),
		})
	}
	return f
}
