// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/gagliardetto/solana-go"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/meterio/meter-auction/instruction"
	"github.com/meterio/meter-auction/ledger"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/preset"
	"github.com/meterio/meter-auction/runtime"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
)

const maxClockOffset = 2 * time.Second

func logLevel(verbosity int) slog.Level {
	switch {
	case verbosity <= 1:
		return slog.LevelError
	case verbosity == 2:
		return slog.LevelWarn
	case verbosity == 3:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func initLogger(verbosity int) {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevel(verbosity),
		TimeFormat: time.DateTime,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})
	slog.SetDefault(slog.New(handler))
}

// loadConfig merges the optional config file with the flags set on the command line.
func loadConfig(ctx *cli.Context) *preset.Config {
	cfg := preset.DefaultConfig()
	cfg.DataDir = ctx.String(dataDirFlag.Name)
	if path := ctx.String(configFlag.Name); path != "" {
		loaded, err := preset.LoadConfig(path)
		if err != nil {
			fatal(err)
		}
		cfg = loaded
		if cfg.DataDir == "" {
			cfg.DataDir = ctx.String(dataDirFlag.Name)
		}
	}

	if ctx.IsSet(dataDirFlag.Name) {
		cfg.DataDir = ctx.String(dataDirFlag.Name)
	}
	if ctx.IsSet(apiAddrFlag.Name) {
		cfg.APIAddr = ctx.String(apiAddrFlag.Name)
	}
	if ctx.IsSet(apiCorsFlag.Name) {
		cfg.APICors = ctx.String(apiCorsFlag.Name)
	}
	if ctx.IsSet(apiTimeoutFlag.Name) {
		cfg.APITimeout = ctx.Int(apiTimeoutFlag.Name)
	}
	if ctx.IsSet(programIDFlag.Name) {
		cfg.ProgramID = ctx.String(programIDFlag.Name)
	}
	if ctx.IsSet(ntpServerFlag.Name) {
		cfg.NTPServer = ctx.String(ntpServerFlag.Name)
	}
	if ctx.IsSet(verbosityFlag.Name) {
		cfg.Verbosity = ctx.Int(verbosityFlag.Name)
	}
	if ctx.IsSet(noJournalFlag.Name) {
		cfg.NoJournal = ctx.Bool(noJournalFlag.Name)
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}
	return cfg
}

func makeDataDir(dataDir string) string {
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

func openMainDB(dataDir string) *lvldb.LevelDB {
	if _, err := fdlimit.Raise(5120 * 4); err != nil {
		fatal("failed to increase fd limit", err)
	}
	limit, err := fdlimit.Current()
	if err != nil {
		fatal("failed to get fd limit:", err)
	}
	if limit <= 1024 {
		slog.Warn("low fd limit, increase it if possible", "limit", limit)
	} else {
		slog.Info("fd limit", "limit", limit)
	}

	fileCache := limit / 2
	if fileCache > 1024 {
		fileCache = 1024
	}

	dir := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: fileCache,
	})
	if err != nil {
		fatal(fmt.Sprintf("open account database [%v]: %v", dir, err))
	}
	return db
}

func openLogDB(dataDir string) *logdb.LogDB {
	dir := filepath.Join(dataDir, "logs.db")
	db, err := logdb.New(dir)
	if err != nil {
		fatal(fmt.Sprintf("open log database [%v]: %v", dir, err))
	}
	return db
}

func openMemMainDB() *lvldb.LevelDB {
	db, err := lvldb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open account database: %v", err))
	}
	return db
}

func openMemLogDB() *logdb.LogDB {
	db, err := logdb.NewMem()
	if err != nil {
		fatal("open log database:", err)
	}
	return db
}

// checkClockOffset queries server and returns the local clock correction.
func checkClockOffset(server string) time.Duration {
	if server == "" {
		return 0
	}
	resp, err := ntp.Query(server)
	if err != nil {
		slog.Warn("failed to access NTP", "server", server, "err", err)
		return 0
	}
	if err := resp.Validate(); err != nil {
		slog.Warn("invalid NTP response", "server", server, "err", err)
		return 0
	}
	offset := resp.ClockOffset
	if offset > maxClockOffset || offset < -maxClockOffset {
		slog.Warn("clock offset detected", "offset", meter.PrettyDuration(offset))
	} else {
		slog.Debug("clock offset", "offset", meter.PrettyDuration(offset))
	}
	return offset
}

// mintGenesis creates the configured token accounts that do not exist yet.
func mintGenesis(rt *runtime.Runtime, accounts []preset.GenesisAccount) error {
	for _, g := range accounts {
		addr, owner, err := g.Keys()
		if err != nil {
			return err
		}
		if _, err := rt.TokenAccount(addr); err == nil {
			continue
		} else if !errors.Is(err, ledger.ErrAccountNotFound) {
			return err
		}
		if err := rt.Mint(addr, owner, g.Amount); err != nil {
			return errors.WithMessagef(err, "mint %v", addr)
		}
		slog.Info("genesis account minted", "address", addr, "owner", owner, "amount", g.Amount)
	}
	return nil
}

func startAPIServer(cfg *preset.Config, handler http.Handler) (string, func()) {
	listener, err := net.Listen("tcp", cfg.APIAddr)
	if err != nil {
		fatal(fmt.Sprintf("listen API addr [%v]: %v", cfg.APIAddr, err))
	}

	if cfg.APITimeout > 0 {
		handler = handleAPITimeout(handler, time.Duration(cfg.APITimeout)*time.Millisecond)
	}
	handler = handleXAuctionVersion(handler)
	handler = requestBodyLimit(handler)
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			slog.Error("API server stopped", "err", err)
		}
	}()

	return "http://" + listener.Addr().String() + "/", func() {
		if err := srv.Close(); err != nil {
			slog.Warn("could not close API service", "err", err)
		}
		wg.Wait()
	}
}

func printStartupMessage(programID solana.PublicKey, dataDir string, apiURL string, clockOffset time.Duration, journal bool) {
	fmt.Printf(`Starting %v
    Program     [ %v ]
    Data dir    [ %v ]
    Journal     [ %v ]
    Clock skew  [ %v ]
    API portal  [ %v ]
`,
		fullVersion(),
		programID,
		dataDir,
		journal,
		meter.PrettyDuration(clockOffset),
		apiURL)
}

// transferAuthority derives the authority that bids and withdrawals of an
// auction are signed with. An empty program id selects the default program.
func transferAuthority(programID, auction string, nonce uint) (solana.PublicKey, error) {
	cfg := preset.Config{ProgramID: programID}
	program, err := cfg.Program()
	if err != nil {
		return solana.PublicKey{}, err
	}
	auctionKey, err := solana.PublicKeyFromBase58(auction)
	if err != nil {
		return solana.PublicKey{}, errors.WithMessage(err, "auction")
	}
	if nonce > 255 {
		return solana.PublicKey{}, errors.Errorf("nonce %d out of range", nonce)
	}
	return instruction.AuthorityID(program, auctionKey, uint8(nonce))
}
