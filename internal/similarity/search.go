package similarity

import "errors"

// ErrBudgetExceeded is returned by Search when MaxVisits nodes were compared
// before the walk finished. The partial result is still returned.
var ErrBudgetExceeded = errors.New("query visit budget exceeded")

// SearchOptions tunes a single Search call.
type SearchOptions struct {
	// MaxVisits caps the number of distance computations. Zero means no limit.
	MaxVisits int
}

// Match is a stored word found by a search.
type Match struct {
	Word     string `json:"word"`
	Distance int    `json:"distance"`
}

// QueryStats counts the work done by one search.
type QueryStats struct {
	Visited int `json:"visited"`
	Pruned  int `json:"pruned"`
}

// SearchResult holds the matches and statistics of one search.
type SearchResult struct {
	Query    string     `json:"query"`
	Accuracy int        `json:"accuracy"`
	Exact    bool       `json:"exact"`
	Matches  []Match    `json:"matches"`
	Stats    QueryStats `json:"stats"`
}

// Words returns the matched words in discovery order.
func (r *SearchResult) Words() []string {
	words := make([]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		words = append(words, m.Word)
	}
	return words
}

// Search walks the tree breadth-first and collects every word within
// accuracy edits of word. A child is only visited when its edge distance
// lies in [d-accuracy, d+accuracy], d being the distance at its parent.
// An exact match ends the walk and replaces anything collected so far.
func (t *Tree) Search(word string, accuracy int, opts SearchOptions) (*SearchResult, error) {
	res := &SearchResult{Query: word, Accuracy: accuracy}
	if t.root == nil || accuracy < 0 {
		return res, nil
	}

	queue := []*node{t.root}
	for head := 0; head < len(queue); head++ {
		if opts.MaxVisits > 0 && res.Stats.Visited >= opts.MaxVisits {
			return res, ErrBudgetExceeded
		}

		n := queue[head]
		res.Stats.Visited++

		dist := Distance(n.value, word)
		if dist == 0 {
			res.Exact = true
			res.Matches = []Match{{Word: n.value}}
			return res, nil
		}

		if dist <= accuracy {
			res.Matches = append(res.Matches, Match{Word: n.value, Distance: dist})
		}

		lo, hi := dist-accuracy, dist+accuracy
		for _, child := range n.children {
			if child.edge >= lo && child.edge <= hi {
				queue = append(queue, child)
			} else {
				res.Stats.Pruned++
			}
		}
	}

	return res, nil
}
