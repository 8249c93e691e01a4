package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentStoreInsertThenLookupRoundTrip(t *testing.T) {
	cs := NewContentStore(4, 1024)
	now := int64(1000)
	ok := cs.Insert(42, []byte("hello"), 0, 0, 10, now)
	require.True(t, ok)

	e, found := cs.Lookup(42, now+5)
	require.True(t, found)
	assert.Equal(t, []byte("hello"), e.Content)
}

func TestContentStoreExpiredEntryIsMiss(t *testing.T) {
	cs := NewContentStore(4, 1024)
	now := int64(1000)
	cs.Insert(1, []byte("x"), 0, 0, 10, now)

	_, found := cs.Lookup(1, now+10) // now_sec == insertion+ttl -> not valid
	assert.False(t, found)

	_, found = cs.Lookup(1, now+9)
	assert.True(t, found)
}

func TestContentStoreRejectsOversizedContent(t *testing.T) {
	cs := NewContentStore(4, 4)
	ok := cs.Insert(1, []byte("toolong"), 0, 0, 10, 0)
	assert.False(t, ok)
	_, found := cs.Lookup(1, 0)
	assert.False(t, found)
}

func TestContentStoreEvictsLRUWhenFull(t *testing.T) {
	cs := NewContentStore(2, 1024)
	cs.Insert(1, []byte("a"), 0, 0, 100, 0)
	cs.Insert(2, []byte("b"), 0, 0, 100, 0)
	// touch 1 so it becomes MRU, 2 stays LRU
	cs.Lookup(1, 0)
	cs.Insert(3, []byte("c"), 0, 0, 100, 0)

	_, found2 := cs.Lookup(2, 0)
	assert.False(t, found2, "entry 2 should have been evicted as least-recently-used")

	_, found1 := cs.Lookup(1, 0)
	assert.True(t, found1)
	_, found3 := cs.Lookup(3, 0)
	assert.True(t, found3, "new entry must be present immediately")
}

func TestContentStoreInspectReportsSizesNotContentByDefault(t *testing.T) {
	cs := NewContentStore(4, 1024)
	cs.Insert(7, []byte("payload"), 0, 0, 10, 5)

	entries := cs.Inspect(false)
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(7), entries[0].NameHash)
	assert.Equal(t, len("payload"), entries[0].ContentSize)
	assert.Nil(t, entries[0].Content)

	withContent := cs.Inspect(true)
	assert.Equal(t, []byte("payload"), withContent[0].Content)
}
