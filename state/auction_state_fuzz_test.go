// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"testing"
)

// FuzzUnpack checks that decoding never panics and that every record that
// decodes packs back to the same meaningful bytes.
func FuzzUnpack(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{1})
	f.Add(make([]byte, LatestLen))
	seed := make([]byte, LatestLen)
	_ = Pack(&AuctionV1{IsInitialized: true, Nonce: 3, StartTimestamp: -5, EndTimestamp: 99}, seed)
	f.Add(seed)

	f.Fuzz(func(t *testing.T, data []byte) {
		a, err := Unpack(data)
		if err != nil {
			if IsInitialized(data) {
				t.Fatal("undecodable data probed as initialized")
			}
			return
		}
		out := make([]byte, LatestLen)
		if err := Pack(a, out); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(out[:1+v1UsedLen], data[:1+v1UsedLen]) {
			t.Fatalf("repack mismatch\n got %x\nwant %x", out[:1+v1UsedLen], data[:1+v1UsedLen])
		}
	})
}
