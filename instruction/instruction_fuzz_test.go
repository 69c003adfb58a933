// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package instruction

import (
	"bytes"
	"testing"
)

func FuzzUnpack(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0, 1, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 3, 4, 0, 0, 0, 0, 0, 0, 0, 5, 0, 0, 0, 0, 0, 0, 0})
	f.Add([]byte{1, 1, 2, 3, 4, 5, 6, 7, 8})
	f.Add([]byte{2, 8, 7, 6, 5, 4, 3, 2, 1})
	f.Add([]byte{3, 1})

	f.Fuzz(func(t *testing.T, data []byte) {
		ix, err := Unpack(data)
		if err != nil {
			return
		}
		packed := Pack(ix)
		if !bytes.HasPrefix(data, packed) {
			t.Fatalf("repack mismatch: %x is not a prefix of %x", packed, data)
		}
		again, err := Unpack(packed)
		if err != nil || again != ix {
			t.Fatalf("round trip: %v != %v (%v)", again, ix, err)
		}
	})
}
