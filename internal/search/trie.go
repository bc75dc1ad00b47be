package search

import "github.com/mmcdole/avalon/internal/set"

// Trie maps tokens to the elements indexed under them. Every non-empty prefix
// of an inserted token resolves to the element, so lookups answer "starts
// with" queries in O(len(term)).
//
// A Trie is built with Insert and then published; once published it is
// read-only and safe for concurrent Search calls. Insert must never run
// concurrently with Search on the same Trie.
type Trie[T comparable] struct {
	root  node[T]
	nodes int
}

// NewTrie returns an empty trie
func NewTrie[T comparable]() *Trie[T] {
	return &Trie[T]{nodes: 1}
}

// Insert records elem under every non-empty prefix of token
func (t *Trie[T]) Insert(token string, elem T) {
	n := &t.root
	for _, r := range token {
		child := n.children.get(r)
		if child == nil {
			child = &node[T]{}
			n.children.put(r, child)
			t.nodes++
		}
		child.elems.add(elem)
		n = child
	}
}

// Search returns the elements recorded at the node reached by term, or an
// empty set when term was never inserted as a prefix.
func (t *Trie[T]) Search(term string) set.Set[T] {
	if term == "" {
		return set.Set[T]{}
	}
	n := &t.root
	for _, r := range term {
		n = n.children.get(r)
		if n == nil {
			return set.Set[T]{}
		}
	}
	return n.elems.set()
}

// Nodes returns the number of nodes in the trie, including the root
func (t *Trie[T]) Nodes() int {
	return t.nodes
}

type node[T comparable] struct {
	elems    elements[T]
	children edges[T]
}

// === Compact node storage ===
//
// Most nodes deep in a name have exactly one child and one element, so both
// are held inline and only promoted to a map on the second distinct entry.

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOne
	slotMany
)

type elements[T comparable] struct {
	state slotState
	one   T
	many  map[T]struct{}
}

func (e *elements[T]) add(v T) {
	switch e.state {
	case slotEmpty:
		e.one = v
		e.state = slotOne
	case slotOne:
		if e.one == v {
			return
		}
		e.many = map[T]struct{}{e.one: {}, v: {}}
		var zero T
		e.one = zero
		e.state = slotMany
	case slotMany:
		e.many[v] = struct{}{}
	}
}

// set exposes the elements as an immutable Set. The many-map is shared, not
// copied, which is safe because published tries never change.
func (e *elements[T]) set() set.Set[T] {
	switch e.state {
	case slotOne:
		return set.Of(e.one)
	case slotMany:
		return set.Freeze(e.many)
	default:
		return set.Set[T]{}
	}
}

type edges[T comparable] struct {
	label rune
	next  *node[T]
	many  map[rune]*node[T]
}

func (e *edges[T]) get(r rune) *node[T] {
	if e.many != nil {
		return e.many[r]
	}
	if e.next != nil && e.label == r {
		return e.next
	}
	return nil
}

func (e *edges[T]) put(r rune, n *node[T]) {
	switch {
	case e.many != nil:
		e.many[r] = n
	case e.next == nil:
		e.label, e.next = r, n
	default:
		e.many = map[rune]*node[T]{e.label: e.next, r: n}
		e.label, e.next = 0, nil
	}
}
