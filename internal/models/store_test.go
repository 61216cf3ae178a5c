package models

import (
	"fmt"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetMissing(t *testing.T) {
	s := NewStore()
	_, ok := s.Get("nope")
	assert.False(t, ok)
}

func TestStore_PutIncrementsVersion(t *testing.T) {
	s := NewStore()

	v1 := s.Put("k", json.RawMessage(`"a"`))
	v2 := s.Put("k", json.RawMessage(`"b"`))

	assert.Equal(t, uint64(1), v1)
	assert.Equal(t, uint64(2), v2)

	row, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, uint64(2), row.Version)
	assert.Equal(t, json.RawMessage(`"b"`), row.Value)
}

func TestStore_CompareAndSetInsertOnly(t *testing.T) {
	s := NewStore()

	ver, ok := s.CompareAndSet("k", 0, json.RawMessage(`"a"`))
	require.True(t, ok)
	assert.Equal(t, uint64(1), ver)

	// A second insert against version 0 must lose.
	cur, ok := s.CompareAndSet("k", 0, json.RawMessage(`"b"`))
	assert.False(t, ok)
	assert.Equal(t, uint64(1), cur)
}

func TestStore_CompareAndSetWrongVersion(t *testing.T) {
	s := NewStore()
	s.Put("k", json.RawMessage(`"a"`))

	cur, ok := s.CompareAndSet("k", 7, json.RawMessage(`"b"`))
	assert.False(t, ok)
	assert.Equal(t, uint64(1), cur)

	row, _ := s.Get("k")
	assert.Equal(t, json.RawMessage(`"a"`), row.Value)
}

func TestStore_ScanFiltersByPrefix(t *testing.T) {
	s := NewStore()
	s.Put(TeamKey("t1"), json.RawMessage(`{}`))
	s.Put(TeamKey("t2"), json.RawMessage(`{}`))
	s.Put(TokenKey("t1"), json.RawMessage(`{}`))

	teams := s.Scan(TeamPrefix())
	assert.Len(t, teams, 2)
	assert.Contains(t, teams, TeamKey("t1"))
	assert.Contains(t, teams, TeamKey("t2"))
}

func TestStore_RestoreRoundtrip(t *testing.T) {
	s := NewStore()
	s.Put("a", json.RawMessage(`1`))
	s.Put("b", json.RawMessage(`2`))

	dump := s.Rows()

	fresh := NewStore()
	fresh.Restore(dump)

	assert.Equal(t, 2, fresh.Len())
	row, ok := fresh.Get("a")
	require.True(t, ok)
	assert.Equal(t, uint64(1), row.Version)
}

// Concurrent CAS increments against one row must not lose updates when each
// writer retries on conflict.
func TestStore_ConcurrentCompareAndSet(t *testing.T) {
	s := NewStore()
	s.Put("counter", json.RawMessage(`0`))

	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				for {
					row, _ := s.Get("counter")
					var n int
					_ = json.Unmarshal(row.Value, &n)
					next := json.RawMessage(fmt.Sprintf("%d", n+1))
					if _, ok := s.CompareAndSet("counter", row.Version, next); ok {
						break
					}
				}
			}
		}()
	}
	wg.Wait()

	row, _ := s.Get("counter")
	var n int
	require.NoError(t, json.Unmarshal(row.Value, &n))
	assert.Equal(t, writers*perWriter, n)
}

func TestRatingKey_SeparatesKinds(t *testing.T) {
	assert.NotEqual(t, RatingKey(RatingPeer, "x"), RatingKey(RatingJudgeFinal, "x"))
	assert.Contains(t, RatingKey(RatingPeer, "x"), string(RatingPeer))
}
