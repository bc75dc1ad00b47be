package search

import (
	"slices"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func search(tr *Trie[string], term string) []string {
	out := tr.Search(term).Slice()
	slices.Sort(out)
	return out
}

func TestTriePrefixProperty(t *testing.T) {
	tr := NewTrie[string]()
	tr.Insert("longview", "a")
	tr.Insert("long", "b")
	tr.Insert("lodi", "c")

	word := "longview"
	for i := 1; i <= len(word); i++ {
		assert.Contains(t, search(tr, word[:i]), "a", "prefix %q", word[:i])
	}

	if diff := cmp.Diff([]string{"a", "b", "c"}, search(tr, "lo")); diff != "" {
		t.Errorf("search(lo) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, search(tr, "long")); diff != "" {
		t.Errorf("search(long) mismatch (-want +got):\n%s", diff)
	}
}

func TestTrieNoMatch(t *testing.T) {
	tr := NewTrie[string]()
	tr.Insert("basket", "a")

	assert.True(t, tr.Search("").Empty())
	assert.True(t, tr.Search("x").Empty())
	assert.True(t, tr.Search("baskets").Empty())
	assert.True(t, tr.Search("bx").Empty())

	empty := NewTrie[string]()
	assert.True(t, empty.Search("a").Empty())
}

func TestTrieRootHoldsNothing(t *testing.T) {
	tr := NewTrie[int]()
	tr.Insert("", 1)
	assert.Equal(t, 1, tr.Nodes())
	assert.True(t, tr.Search("").Empty())
}

func TestTrieDuplicateInsert(t *testing.T) {
	tr := NewTrie[int]()
	tr.Insert("ab", 1)
	tr.Insert("ab", 1)
	assert.Equal(t, 1, tr.Search("a").Len())
	assert.Equal(t, 3, tr.Nodes())
}

func TestTrieCompactPromotion(t *testing.T) {
	tr := NewTrie[int]()
	tr.Insert("ab", 1)
	tr.Insert("ac", 2)
	tr.Insert("ad", 3)

	require.Equal(t, 5, tr.Nodes())
	assert.Equal(t, 3, tr.Search("a").Len())
	assert.True(t, tr.Search("ac").Contains(2))
	assert.False(t, tr.Search("ac").Contains(1))
	assert.True(t, tr.Search("ad").Contains(3))
}

func TestTrieMultibyteRunes(t *testing.T) {
	tr := NewTrie[int]()
	tr.Insert("日本語", 7)
	assert.True(t, tr.Search("日").Contains(7))
	assert.True(t, tr.Search("日本").Contains(7))
	assert.Equal(t, 4, tr.Nodes())
}

func TestTrieConcurrentSearch(t *testing.T) {
	tr := NewTrie[int]()
	for i, w := range []string{"green", "greenday", "grey", "punk"} {
		tr.Insert(w, i)
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				assert.Equal(t, 3, tr.Search("gre").Len())
			}
		}()
	}
	wg.Wait()
}
