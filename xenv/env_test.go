// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv_test

import (
	"testing"
	"time"

	"github.com/meterio/meter-auction/xenv"
	"github.com/stretchr/testify/assert"
)

func TestClocks(t *testing.T) {
	assert.Equal(t, int64(-5), xenv.FixedClock(-5).UnixTimestamp())

	now := time.Now().Unix()
	got := xenv.SystemClock{}.UnixTimestamp()
	assert.InDelta(t, now, got, 2)

	shifted := xenv.SystemClock{Offset: time.Hour}.UnixTimestamp()
	assert.InDelta(t, now+3600, shifted, 2)
}
