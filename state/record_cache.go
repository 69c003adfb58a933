// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/meterio/meter-auction/meter"
	"github.com/pkg/errors"
)

// RecordCache memoizes decoded records by the hash of their raw bytes, so
// read paths that inspect the same unchanged account repeatedly skip the
// decode. Only successful decodes are cached.
type RecordCache struct {
	cache *lru.Cache
}

func NewRecordCache(size int) (*RecordCache, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, errors.WithMessage(err, "record cache")
	}
	return &RecordCache{cache: cache}, nil
}

// Unpack behaves like the package level Unpack. The returned record is a
// private copy the caller may modify.
func (c *RecordCache) Unpack(src []byte) (AuctionVersion, error) {
	key := meter.Blake2b(src)
	if v, ok := c.cache.Get(key); ok {
		return v.(AuctionVersion).clone(), nil
	}
	a, err := Unpack(src)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, a.clone())
	return a, nil
}

func (c *RecordCache) Len() int {
	return c.cache.Len()
}
