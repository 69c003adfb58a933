// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gagliardetto/solana-go"
	"github.com/meterio/meter-auction/api"
	"github.com/meterio/meter-auction/api/accounts"
	"github.com/meterio/meter-auction/api/auctions"
	"github.com/meterio/meter-auction/api/events"
	"github.com/meterio/meter-auction/api/ledger"
	"github.com/meterio/meter-auction/api/node"
	"github.com/meterio/meter-auction/api/transfers"
	"github.com/meterio/meter-auction/fees"
	"github.com/meterio/meter-auction/instruction"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/runtime"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/xenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	programID    = solana.PublicKey{0x20}
	auctionKey   = solana.PublicKey{0x21}
	ownerToken   = solana.PublicKey{0x22}
	pool         = solana.PublicKey{0x23}
	feeAccount   = solana.PublicKey{0x24}
	tokenProgram = solana.TokenProgramID
	deposit      = solana.PublicKey{0x25}
	authority    = solana.PublicKey{0x26}
)

var ts *httptest.Server

func initServer(t *testing.T) *runtime.Runtime {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
		logDB.Close()
	})

	rt := runtime.New(programID, db, logDB, xenv.FixedClock(150))
	require.NoError(t, rt.Mint(deposit, authority, 1000))
	require.NoError(t, rt.Mint(pool, authority, 0))

	ts = httptest.NewServer(api.New(rt, "*", "test", time.Millisecond))
	t.Cleanup(ts.Close)
	return rt
}

func httpGet(t *testing.T, url string) (int, []byte) {
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, body
}

func httpPost(t *testing.T, url string, obj interface{}) (int, []byte) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, body
}

func execute(t *testing.T, ix *solana.GenericInstruction) *auctions.Receipt {
	metas := make([]auctions.AccountMeta, 0, len(ix.Accounts()))
	for _, m := range ix.Accounts() {
		metas = append(metas, auctions.AccountMeta{Address: m.PublicKey, IsSigner: m.IsSigner, IsWritable: m.IsWritable})
	}
	status, body := httpPost(t, ts.URL+"/auctions/instructions", &auctions.Instruction{
		Accounts: metas,
		Data:     hexutil.Encode(ix.DataBytes),
	})
	require.Equal(t, http.StatusOK, status, string(body))
	var receipt auctions.Receipt
	require.NoError(t, json.Unmarshal(body, &receipt))
	return &receipt
}

func TestAuctionLifecycle(t *testing.T) {
	initServer(t)

	status, body := httpPost(t, ts.URL+"/accounts", &accounts.CreateAccount{Address: auctionKey})
	require.Equal(t, http.StatusOK, status, string(body))
	status, _ = httpPost(t, ts.URL+"/accounts", &accounts.CreateAccount{Address: auctionKey})
	assert.Equal(t, http.StatusConflict, status)

	receipt := execute(t, instruction.NewInitialize(programID, auctionKey, ownerToken, pool, feeAccount, tokenProgram,
		fees.FeeSchedule{Numerator: 1, Denominator: 100}, 4, 100, 200))
	require.Empty(t, receipt.Fault)
	assert.Equal(t, "Initialize", receipt.Op)

	status, body = httpGet(t, ts.URL+"/auctions/"+auctionKey.String())
	require.Equal(t, http.StatusOK, status, string(body))
	var a auctions.Auction
	require.NoError(t, json.Unmarshal(body, &a))
	assert.Equal(t, pool, a.Pool)
	assert.Equal(t, auctions.Fees{Numerator: 1, Denominator: 100}, a.Fees)
	assert.Equal(t, "active", a.Status)
	assert.Equal(t, state.VersionV1, a.Version)

	status, body = httpGet(t, ts.URL+"/auctions")
	require.Equal(t, http.StatusOK, status, string(body))
	var list []*auctions.Auction
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, auctionKey, list[0].Address)

	receipt = execute(t, instruction.NewPlaceBid(programID, auctionKey, deposit, pool, tokenProgram, authority, 300))
	require.Empty(t, receipt.Fault)
	require.Len(t, receipt.Transfers, 1)
	assert.Equal(t, uint64(300), receipt.Transfers[0].Amount)
	assert.Equal(t, solana.TokenProgramID, receipt.Transfers[0].TokenProgram)
	// token Transfer tag followed by the LE amount
	assert.Equal(t, "0x032c01000000000000", receipt.Transfers[0].TokenData)
	require.NotNil(t, receipt.Total)
	assert.Equal(t, uint64(300), *receipt.Total)

	status, body = httpGet(t, ts.URL+"/ledger/"+pool.String())
	require.Equal(t, http.StatusOK, status, string(body))
	var acc ledger.TokenAccount
	require.NoError(t, json.Unmarshal(body, &acc))
	assert.Equal(t, uint64(300), acc.Amount)
	assert.Equal(t, authority, acc.Owner)

	status, body = httpGet(t, ts.URL+"/auctions/"+auctionKey.String()+"/fee?amount=50")
	require.Equal(t, http.StatusOK, status, string(body))
	var fee auctions.Fee
	require.NoError(t, json.Unmarshal(body, &fee))
	assert.Equal(t, auctions.Fee{Amount: 50, Fee: 1}, fee)

	status, body = httpGet(t, ts.URL+"/auctions/"+auctionKey.String()+"/calls")
	require.Equal(t, http.StatusOK, status)
	var calls []*auctions.Call
	require.NoError(t, json.Unmarshal(body, &calls))
	require.Len(t, calls, 2)
	assert.Equal(t, "PlaceBid", calls[1].Op)
	assert.Equal(t, "ok", calls[1].Result)

	status, body = httpPost(t, ts.URL+"/logs/transfers", &transfers.TransferFilter{
		CriteriaSet: []*transfers.TransferCriteria{{Destination: &pool}},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	var tLogs []*transfers.FilteredTransfer
	require.NoError(t, json.Unmarshal(body, &tLogs))
	require.Len(t, tLogs, 1)
	assert.Equal(t, deposit, tLogs[0].Source)
	assert.Equal(t, calls[1].CallID, tLogs[0].Meta.CallID)

	receipt = execute(t, instruction.NewCancel(programID, auctionKey, 1))
	require.Empty(t, receipt.Fault)
	receipt = execute(t, instruction.NewPlaceBid(programID, auctionKey, deposit, pool, tokenProgram, authority, 300))
	require.Empty(t, receipt.Fault)
	assert.Empty(t, receipt.Transfers)
	require.Len(t, receipt.Events, 1)

	status, body = httpPost(t, ts.URL+"/logs/events", &events.EventFilter{
		CriteriaSet: []*events.EventCriteria{{Address: &auctionKey, TopicSet: events.TopicSet{Topic0: &auction.AuctionCanceledTopic}}},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	var fes []*events.FilteredEvent
	require.NoError(t, json.Unmarshal(body, &fes))
	assert.Len(t, fes, 1)

	status, body = httpPost(t, ts.URL+"/logs/events", &events.EventFilter{
		CriteriaSet: []*events.EventCriteria{{Name: "AuctionCanceled"}},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &fes))
	require.Len(t, fes, 1)
	assert.Equal(t, auction.AuctionCanceledTopic, *fes[0].Topics[0])

	status, _ = httpPost(t, ts.URL+"/logs/events", &events.EventFilter{
		CriteriaSet: []*events.EventCriteria{{Name: "AuctionStarted"}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = httpPost(t, ts.URL+"/logs/transfers", map[string]interface{}{"options": map[string]uint64{"limit": events.MaxLimit + 1}})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestFaultsAndErrors(t *testing.T) {
	initServer(t)

	receipt := execute(t, instruction.NewCancel(programID, auctionKey, 1))
	assert.Contains(t, receipt.Fault, "invalid account data")

	status, _ := httpGet(t, ts.URL+"/auctions/not-base58!")
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = httpGet(t, ts.URL+"/auctions/"+solana.PublicKey{0x99}.String())
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = httpGet(t, ts.URL+"/ledger/"+solana.PublicKey{0x99}.String())
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = httpGet(t, ts.URL+"/accounts/"+solana.PublicKey{0x99}.String())
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = httpPost(t, ts.URL+"/auctions/instructions", map[string]string{"data": "zz"})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = httpPost(t, ts.URL+"/auctions/instructions", map[string]string{"unknown": "0x"})
	assert.Equal(t, http.StatusBadRequest, status)

	space := -1
	status, _ = httpPost(t, ts.URL+"/accounts", &accounts.CreateAccount{Address: auctionKey, Space: &space})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestNodeAndMetrics(t *testing.T) {
	initServer(t)

	status, body := httpGet(t, ts.URL+"/node/status")
	require.Equal(t, http.StatusOK, status)
	var s node.Status
	require.NoError(t, json.Unmarshal(body, &s))
	assert.Equal(t, programID, s.ProgramID)
	assert.Equal(t, int64(150), s.Clock)
	assert.True(t, s.Journal)
	assert.Equal(t, "test", s.Version)

	// ensure at least one auction metric has been touched
	execute(t, instruction.NewCancel(programID, auctionKey, 1))
	status, body = httpGet(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, strings.Contains(string(body), "auction_instructions_total"))
}
