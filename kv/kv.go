// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Getter defines methods to read kv.
type Getter interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

// Putter defines methods to write kv.
type Putter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// Batch defines batch writes.
type Batch interface {
	Putter
	Len() int
	Write() error
}

// Iterator iterates keys in order.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// GetPutter defines methods to read/write kv.
type GetPutter interface {
	Getter
	Putter
	NewBatch() Batch
	NewIterator(prefix []byte) Iterator
}

// Store is a closable GetPutter.
type Store interface {
	GetPutter
	Close() error
}
