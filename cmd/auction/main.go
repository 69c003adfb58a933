// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"github.com/meterio/meter-auction/api"
	"github.com/meterio/meter-auction/fees"
	"github.com/meterio/meter-auction/instruction"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/runtime"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/xenv"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	serveFlags := []cli.Flag{
		configFlag,
		dataDirFlag,
		memoryFlag,
		apiAddrFlag,
		apiCorsFlag,
		apiTimeoutFlag,
		programIDFlag,
		ntpServerFlag,
		noJournalFlag,
		verbosityFlag,
	}
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Auction",
		Usage:     "Fixed-price deposit auction host",
		Copyright: "2020 Meter Foundation <https://meter.io/>",
		Flags:     serveFlags,
		Action:    serveAction,
		Commands: []cli.Command{
			{
				Name:   "serve",
				Usage:  "run the auction host with its HTTP API",
				Flags:  serveFlags,
				Action: serveAction,
			},
			{
				Name:  "encode",
				Usage: "print the hex encoding of an instruction",
				Subcommands: []cli.Command{
					{
						Name:   "initialize",
						Flags:  []cli.Flag{numeratorFlag, denominatorFlag, nonceFlag, startFlag, endFlag},
						Action: encodeAction,
					},
					{
						Name:   "place-bid",
						Flags:  []cli.Flag{amountFlag, auctionFlag, nonceFlag, programIDFlag},
						Action: encodeAction,
					},
					{
						Name:   "withdraw",
						Flags:  []cli.Flag{amountFlag, auctionFlag, nonceFlag, programIDFlag},
						Action: encodeAction,
					},
					{
						Name:   "cancel",
						Flags:  []cli.Flag{canceledFlag},
						Action: encodeAction,
					},
				},
			},
			{
				Name:      "decode",
				Usage:     "decode a hex instruction",
				ArgsUsage: "<hex>",
				Action:    decodeAction,
			},
			{
				Name:      "inspect",
				Usage:     "decode an auction record, given as hex or as the address of a stored account",
				ArgsUsage: "<hex|address>",
				Flags:     []cli.Flag{dataDirFlag, amountFlag, dumpFlag},
				Action:    inspectAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()

	defer func() { slog.Info("exited") }()

	cfg := loadConfig(ctx)
	initLogger(cfg.Verbosity)
	slog.Debug("config loaded", "config", cfg)

	programID, err := cfg.Program()
	if err != nil {
		return err
	}

	var (
		mainDB  *lvldb.LevelDB
		logDB   *logdb.LogDB
		dataDir string
	)
	if ctx.Bool(memoryFlag.Name) {
		dataDir = "Memory"
		mainDB = openMemMainDB()
		if !cfg.NoJournal {
			logDB = openMemLogDB()
		}
	} else {
		dataDir = makeDataDir(cfg.DataDir)
		mainDB = openMainDB(dataDir)
		if !cfg.NoJournal {
			logDB = openLogDB(dataDir)
		}
	}
	defer func() { slog.Info("closing main database..."); mainDB.Close() }()
	if logDB != nil {
		defer func() { slog.Info("closing log database..."); logDB.Close() }()
	}

	clockOffset := checkClockOffset(cfg.NTPServer)
	rt := runtime.New(programID, mainDB, logDB, xenv.SystemClock{Offset: clockOffset})
	if err := mintGenesis(rt, cfg.Genesis); err != nil {
		return err
	}

	apiURL, srvCloser := startAPIServer(cfg, api.New(rt, cfg.APICors, fullVersion(), clockOffset))
	defer func() { slog.Info("stopping API server..."); srvCloser() }()

	printStartupMessage(programID, dataDir, apiURL, clockOffset, logDB != nil)

	<-exitSignal.Done()
	return nil
}

func encodeAction(ctx *cli.Context) error {
	var ix instruction.Instruction
	switch ctx.Command.Name {
	case "initialize":
		if ctx.Uint(nonceFlag.Name) > 255 {
			return errors.Errorf("nonce %d out of range", ctx.Uint(nonceFlag.Name))
		}
		initIx := instruction.Initialize{
			Fees: fees.FeeSchedule{
				Numerator:   ctx.Uint64(numeratorFlag.Name),
				Denominator: ctx.Uint64(denominatorFlag.Name),
			},
			Nonce:          uint8(ctx.Uint(nonceFlag.Name)),
			StartTimestamp: ctx.Int64(startFlag.Name),
			EndTimestamp:   ctx.Int64(endFlag.Name),
		}
		if err := initIx.Fees.Validate(); err != nil {
			return err
		}
		ix = initIx
	case "place-bid":
		ix = instruction.PlaceBid{BidAmount: ctx.Uint64(amountFlag.Name)}
	case "withdraw":
		ix = instruction.Withdraw{BidAmount: ctx.Uint64(amountFlag.Name)}
	case "cancel":
		if ctx.Uint(canceledFlag.Name) > 255 {
			return errors.Errorf("canceled %d out of range", ctx.Uint(canceledFlag.Name))
		}
		ix = instruction.Cancel{Canceled: uint8(ctx.Uint(canceledFlag.Name))}
	default:
		return errors.Errorf("unknown instruction %v", ctx.Command.Name)
	}
	fmt.Println(hexutil.Encode(instruction.Pack(ix)))

	if ctx.IsSet(auctionFlag.Name) {
		authority, err := transferAuthority(ctx.String(programIDFlag.Name), ctx.String(auctionFlag.Name), ctx.Uint(nonceFlag.Name))
		if err != nil {
			return err
		}
		fmt.Println("authority:", authority)
	}
	return nil
}

func decodeAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("expected one hex argument")
	}
	data, err := hexutil.Decode(ctx.Args().First())
	if err != nil {
		return errors.WithMessage(err, "hex")
	}
	ix, err := instruction.Unpack(data)
	if err != nil {
		return err
	}
	fmt.Println(ix)
	fmt.Println("ID:", instruction.ID(data))
	return nil
}

func inspectAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("expected one argument")
	}
	arg := ctx.Args().First()

	var data []byte
	if strings.HasPrefix(arg, "0x") {
		decoded, err := hexutil.Decode(arg)
		if err != nil {
			return errors.WithMessage(err, "hex")
		}
		data = decoded
	} else {
		addr, err := solana.PublicKeyFromBase58(arg)
		if err != nil {
			return errors.WithMessage(err, "address")
		}
		db := openMainDB(makeDataDir(ctx.String(dataDirFlag.Name)))
		defer db.Close()
		rt := runtime.New(solana.PublicKey{}, db, nil, xenv.SystemClock{})
		if data, err = rt.Account(addr); err != nil {
			return err
		}
	}

	rec, err := state.Unpack(data)
	if err != nil {
		return err
	}
	if ctx.Bool(dumpFlag.Name) {
		spew.Dump(rec)
	} else {
		fmt.Println(rec)
	}
	if !rec.Initialized() {
		return nil
	}
	fmt.Println("Start:", time.Unix(rec.GetStartTimestamp(), 0).UTC())
	fmt.Println("End:  ", time.Unix(rec.GetEndTimestamp(), 0).UTC())
	if ctx.IsSet(amountFlag.Name) {
		amount := ctx.Uint64(amountFlag.Name)
		fee, ok := rec.GetFees().AuctionFee(uint256.NewInt(amount))
		if !ok {
			return errors.Errorf("fee calculation failed for %d", amount)
		}
		fmt.Printf("Fee for %d: %v\n", amount, fee.ToBig())
	}
	return nil
}
