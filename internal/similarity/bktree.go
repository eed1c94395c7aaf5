// Package similarity provides approximate word lookup using BK-trees.
package similarity

import (
	"errors"
	"fmt"
	"iter"
)

var (
	// ErrInvalidConstruction is returned when a tree would be built without a root word.
	ErrInvalidConstruction = errors.New("bk-tree needs a non-empty root word")

	// ErrDuplicateValue is returned by Insert when the word is already stored.
	ErrDuplicateValue = errors.New("word already in tree")
)

// TokenSource yields dictionary words one at a time.
// Next returns false once the source is exhausted. A source that can fail
// may also implement Err() error, which Build checks after the last token.
type TokenSource interface {
	Next() (string, bool)
}

// Tree is a BK-tree keyed by Levenshtein distance.
// BK-trees are space-partitioning data structures for metric spaces,
// particularly useful for spelling correction and fuzzy matching.
//
// A Tree is not safe for concurrent mutation. Once fully built it can be
// queried from any number of goroutines.
type Tree struct {
	root       *node
	size       int
	duplicates int
}

// node owns its children; edge is the distance to the parent's value.
type node struct {
	value    string
	edge     int
	children []*node
}

// New creates a tree holding a single root word.
func New(root string) (*Tree, error) {
	if root == "" {
		return nil, ErrInvalidConstruction
	}
	return &Tree{
		root: &node{value: root},
		size: 1,
	}, nil
}

// Build creates a tree from a token stream. The first token becomes the
// root and every following token is inserted in the order it is read.
// Repeated tokens are skipped and counted in Duplicates.
func Build(src TokenSource) (*Tree, error) {
	first, ok := src.Next()
	if !ok {
		if err := sourceErr(src); err != nil {
			return nil, err
		}
		return nil, ErrInvalidConstruction
	}

	t, err := New(first)
	if err != nil {
		return nil, err
	}

	for {
		word, ok := src.Next()
		if !ok {
			break
		}
		if err := t.Insert(word); err != nil {
			if errors.Is(err, ErrDuplicateValue) {
				t.duplicates++
				continue
			}
			return nil, err
		}
	}

	if err := sourceErr(src); err != nil {
		return nil, err
	}
	return t, nil
}

func sourceErr(src TokenSource) error {
	s, ok := src.(interface{ Err() error })
	if !ok || s.Err() == nil {
		return nil
	}
	return fmt.Errorf("reading tokens: %w", s.Err())
}

// Insert adds a word to the tree. Inserting a word that is already stored
// leaves the tree unchanged and returns ErrDuplicateValue.
func (t *Tree) Insert(word string) error {
	if t.root == nil {
		if word == "" {
			return ErrInvalidConstruction
		}
		t.root = &node{value: word}
		t.size = 1
		return nil
	}

	current := t.root
	for {
		dist := Distance(current.value, word)
		if dist == 0 {
			return fmt.Errorf("%w: %q", ErrDuplicateValue, word)
		}

		next := current.childAt(dist)
		if next == nil {
			current.children = append(current.children, &node{
				value: word,
				edge:  dist,
			})
			t.size++
			return nil
		}
		current = next
	}
}

// childAt returns the child whose edge distance equals dist, if any.
func (n *node) childAt(dist int) *node {
	for _, child := range n.children {
		if child.edge == dist {
			return child
		}
	}
	return nil
}

// Query returns every stored word within accuracy edits of word, in the
// order they were discovered. When word itself is stored, the result holds
// only that word.
func (t *Tree) Query(word string, accuracy int) []string {
	res, _ := t.Search(word, accuracy, SearchOptions{})
	return res.Words()
}

// Contains reports whether word is stored in the tree.
func (t *Tree) Contains(word string) bool {
	res, _ := t.Search(word, 0, SearchOptions{})
	return res.Exact
}

// Size returns the number of words in the tree.
func (t *Tree) Size() int {
	return t.size
}

// Duplicates returns how many repeated tokens Build skipped.
func (t *Tree) Duplicates() int {
	return t.duplicates
}

// NodeInfo describes a node during a walk.
type NodeInfo struct {
	Value        string
	Depth        int
	EdgeDistance int
	Children     int
}

// Walk visits every node breadth-first from the root until fn returns false.
func (t *Tree) Walk(fn func(NodeInfo) bool) {
	if t.root == nil {
		return
	}

	type entry struct {
		n     *node
		depth int
	}
	queue := []entry{{t.root, 0}}
	for head := 0; head < len(queue); head++ {
		e := queue[head]
		info := NodeInfo{
			Value:        e.n.value,
			Depth:        e.depth,
			EdgeDistance: e.n.edge,
			Children:     len(e.n.children),
		}
		if !fn(info) {
			return
		}
		for _, child := range e.n.children {
			queue = append(queue, entry{child, e.depth + 1})
		}
	}
}

// WalkDepthFirst visits every node in pre-order until fn returns false.
func (t *Tree) WalkDepthFirst(fn func(NodeInfo) bool) {
	if t.root == nil {
		return
	}
	t.root.walk(0, fn)
}

func (n *node) walk(depth int, fn func(NodeInfo) bool) bool {
	info := NodeInfo{
		Value:        n.value,
		Depth:        depth,
		EdgeDistance: n.edge,
		Children:     len(n.children),
	}
	if !fn(info) {
		return false
	}
	for _, child := range n.children {
		if !child.walk(depth+1, fn) {
			return false
		}
	}
	return true
}

// Values returns a lazy breadth-first sequence of every stored word.
func (t *Tree) Values() iter.Seq[string] {
	return func(yield func(string) bool) {
		t.Walk(func(info NodeInfo) bool {
			return yield(info.Value)
		})
	}
}

// TreeStats summarizes the shape of a tree.
type TreeStats struct {
	Nodes     int `json:"nodes"`
	Height    int `json:"height"`
	MaxFanout int `json:"max_fanout"`
	Leaves    int `json:"leaves"`
}

// Stats walks the tree and reports its shape.
func (t *Tree) Stats() TreeStats {
	var s TreeStats
	t.Walk(func(info NodeInfo) bool {
		s.Nodes++
		if info.Depth+1 > s.Height {
			s.Height = info.Depth + 1
		}
		if info.Children > s.MaxFanout {
			s.MaxFanout = info.Children
		}
		if info.Children == 0 {
			s.Leaves++
		}
		return true
	})
	return s
}
