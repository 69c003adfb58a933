// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "yaml config file, flags take precedence over its values",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for account and journal databases",
	}
	memoryFlag = cli.BoolFlag{
		Name:  "memory",
		Usage: "keep all databases in memory",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTimeoutFlag = cli.IntFlag{
		Name:  "api-timeout",
		Value: 10000,
		Usage: "API request timeout value in milliseconds",
	}
	programIDFlag = cli.StringFlag{
		Name:  "program-id",
		Usage: "base58 id of the auction program",
	}
	ntpServerFlag = cli.StringFlag{
		Name:  "ntp-server",
		Value: "ap.pool.ntp.org",
		Usage: "NTP server used to correct the trusted clock, empty to disable",
	}
	noJournalFlag = cli.BoolFlag{
		Name:  "no-journal",
		Usage: "disable the sqlite call journal",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}

	numeratorFlag = cli.Uint64Flag{
		Name:  "numerator",
		Usage: "fee numerator",
	}
	denominatorFlag = cli.Uint64Flag{
		Name:  "denominator",
		Usage: "fee denominator",
	}
	nonceFlag = cli.UintFlag{
		Name:  "nonce",
		Usage: "transfer authority nonce",
	}
	startFlag = cli.Int64Flag{
		Name:  "start",
		Usage: "auction start, unix seconds",
	}
	endFlag = cli.Int64Flag{
		Name:  "end",
		Usage: "auction end, unix seconds",
	}
	amountFlag = cli.Uint64Flag{
		Name:  "amount",
		Usage: "bid amount in token base units",
	}
	auctionFlag = cli.StringFlag{
		Name:  "auction",
		Usage: "base58 auction address, prints the transfer authority derived with --nonce",
	}
	dumpFlag = cli.BoolFlag{
		Name:  "dump",
		Usage: "dump the decoded record with all fields",
	}
	canceledFlag = cli.UintFlag{
		Name:  "canceled",
		Value: 1,
		Usage: "canceled flag written to the record",
	}
)
