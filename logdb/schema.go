// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

const (
	callTableSchema = `CREATE TABLE IF NOT EXISTS call (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	callID TEXT NOT NULL UNIQUE,
	instructionID BLOB(32) NOT NULL,
	program BLOB(32) NOT NULL,
	auction BLOB(32),
	op INTEGER NOT NULL,
	result TEXT NOT NULL,
	clock INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS prefixCallAuction ON call(auction);
`

	eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER NOT NULL,
	eventIndex INTEGER NOT NULL,
	clock INTEGER NOT NULL,
	callID TEXT NOT NULL,
	address BLOB(32) NOT NULL,
	topic0 BLOB(32),
	topic1 BLOB(32),
	topic2 BLOB(32),
	topic3 BLOB(32),
	topic4 BLOB(32),
	data BLOB,
	PRIMARY KEY (seq, eventIndex)
);
CREATE INDEX IF NOT EXISTS prefixEventAddress ON event(address);
`

	transferTableSchema = `CREATE TABLE IF NOT EXISTS transfer (
	seq INTEGER NOT NULL,
	transferIndex INTEGER NOT NULL,
	clock INTEGER NOT NULL,
	callID TEXT NOT NULL,
	source BLOB(32) NOT NULL,
	destination BLOB(32) NOT NULL,
	authority BLOB(32) NOT NULL,
	nonce INTEGER NOT NULL,
	amount BLOB(8),
	PRIMARY KEY (seq, transferIndex)
);
CREATE INDEX IF NOT EXISTS prefixTransferSource ON transfer(source);
CREATE INDEX IF NOT EXISTS prefixTransferDestination ON transfer(destination);
`
)
