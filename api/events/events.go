// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/pkg/errors"
)

// MaxLimit caps the page size of journal queries.
const MaxLimit = 1000

// named events emitted by the auction program
var namedTopics = map[string]meter.Bytes32{
	"AuctionEnded":      auction.AuctionEndedTopic,
	"AuctionNotStarted": auction.AuctionNotStartedTopic,
	"AuctionCanceled":   auction.AuctionCanceledTopic,
}

type Events struct {
	db     *logdb.LogDB
	logger *slog.Logger
}

func New(db *logdb.LogDB) *Events {
	return &Events{
		db:     db,
		logger: slog.Default().With("pkg", "events"),
	}
}

// LimitOptions fills in the default page and rejects pages above MaxLimit.
func LimitOptions(opts *logdb.Options) (*logdb.Options, error) {
	if opts == nil {
		return &logdb.Options{Offset: 0, Limit: MaxLimit}, nil
	}
	if opts.Limit > MaxLimit {
		return nil, errors.Errorf("options.limit %d exceeds %d", opts.Limit, MaxLimit)
	}
	return opts, nil
}

// resolveNames turns criteria names into topic0 values.
func resolveNames(filter *EventFilter) error {
	for _, c := range filter.CriteriaSet {
		if c.Name == "" {
			continue
		}
		topic, ok := namedTopics[c.Name]
		if !ok {
			return errors.Errorf("unknown event name %q", c.Name)
		}
		if c.Topic0 != nil && *c.Topic0 != topic {
			return errors.Errorf("event name %q conflicts with topic0", c.Name)
		}
		c.Topic0 = &topic
	}
	return nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := resolveNames(&filter); err != nil {
		return utils.BadRequest(err)
	}
	opts, err := LimitOptions(filter.Options)
	if err != nil {
		return utils.BadRequest(err)
	}
	filter.Options = opts

	start := time.Now()
	events, err := e.db.FilterEvents(req.Context(), convertEventFilter(&filter))
	if err != nil {
		return err
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		e.logger.Info("slow event query", "criteria", len(filter.CriteriaSet), "elapsed", meter.PrettyDuration(elapsed))
	}

	out := make([]*FilteredEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, convertEvent(ev))
	}
	return utils.WriteJSON(w, out)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
