// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb_test

import (
	"path/filepath"
	"testing"

	"github.com/fortytw2/leaktest"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMem(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Get([]byte("missing"))
	assert.True(t, db.IsNotFound(err))

	require.NoError(t, db.Put([]byte("a"), []byte("1")))
	v, err := db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	has, err := db.Has([]byte("a"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, db.Delete([]byte("a")))
	has, err = db.Has([]byte("a"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBatchAndIterator(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	b := db.NewBatch()
	require.NoError(t, b.Put([]byte("p/2"), []byte("b")))
	require.NoError(t, b.Put([]byte("p/1"), []byte("a")))
	require.NoError(t, b.Put([]byte("q/1"), []byte("c")))
	assert.Equal(t, 3, b.Len())

	_, err = db.Get([]byte("p/1"))
	assert.True(t, db.IsNotFound(err), "batch is not visible before Write")
	require.NoError(t, b.Write())

	it := db.NewIterator([]byte("p/"))
	defer it.Release()
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.NoError(t, it.Error())
	assert.Equal(t, []string{"p/1", "p/2"}, keys)
}

func TestFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "main.db")
	db, err := lvldb.New(dir, lvldb.Options{})
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	require.NoError(t, db.Close())

	db, err = lvldb.New(dir, lvldb.Options{CacheSize: 64})
	require.NoError(t, err)
	defer db.Close()
	v, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}

func TestCloseReleasesGoroutines(t *testing.T) {
	defer leaktest.Check(t)()

	db, err := lvldb.New(filepath.Join(t.TempDir(), "main.db"), lvldb.Options{})
	require.NoError(t, err)
	batch := db.NewBatch()
	require.NoError(t, batch.Put([]byte("k"), []byte("v")))
	require.NoError(t, batch.Write())
	require.NoError(t, db.Close())
}
