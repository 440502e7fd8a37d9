// Package index provides [ArtistIndex], a prefix tree over normalized artist names.
//
// Membership is deliberately permissive: a query matches as soon as its walk
// passes through the end of any inserted name, so "BAND X FEAT. Y" matches an
// index holding "BAND X". Catalog credits often carry trailing noise that the
// playback service's artist name does not.
package index

type node struct {
	children map[rune]*node
	terminal bool
}

func newNode() *node {
	return &node{children: make(map[rune]*node)}
}

// ArtistIndex is a trie of artist names. The zero value is not usable; call [New].
type ArtistIndex struct {
	root *node
	size int
}

// New returns an empty index.
func New() *ArtistIndex {
	return &ArtistIndex{root: newNode()}
}

// Insert adds name to the index. Inserting a name twice is a no-op.
func (a *ArtistIndex) Insert(name string) {
	curr := a.root
	for _, c := range name {
		next, ok := curr.children[c]
		if !ok {
			next = newNode()
			curr.children[c] = next
		}
		curr = next
	}

	if !curr.terminal {
		curr.terminal = true
		a.size++
	}
}

// Contains reports whether query spells an inserted name or extends one.
func (a *ArtistIndex) Contains(query string) bool {
	curr := a.root
	for _, c := range query {
		if curr.terminal {
			return true
		}
		next, ok := curr.children[c]
		if !ok {
			return false
		}
		curr = next
	}

	return curr.terminal
}

// Len returns the number of distinct names inserted.
func (a *ArtistIndex) Len() int {
	return a.size
}
