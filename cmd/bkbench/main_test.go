package main

import (
	"sort"
	"testing"

	"bkspell/internal/ingest"
	"bkspell/internal/similarity"
)

func TestMeasureAgreesWithLinearScan(t *testing.T) {
	words := []string{"book", "rook", "nooks", "boon", "look", "cook", "back", "hello"}
	tree, err := similarity.Build(ingest.Words(words...))
	if err != nil {
		t.Fatal(err)
	}

	for _, q := range []string{"took", "bok", "hallo", "zzz"} {
		for acc := 0; acc <= 2; acc++ {
			got := tree.Query(q, acc)
			want := linearScan(words, q, acc)
			sort.Strings(got)
			sort.Strings(want)
			if len(got) != len(want) {
				t.Errorf("Query(%q, %d) = %v, linear scan = %v", q, acc, got, want)
				continue
			}
			for i := range got {
				if got[i] != want[i] {
					t.Errorf("Query(%q, %d) = %v, linear scan = %v", q, acc, got, want)
					break
				}
			}
		}
	}

	res := measure(tree, words, []string{"took"}, 1, 3)
	if res.Queries != 1 || res.MeanMatches != 4 {
		t.Errorf("measure() = %+v, want 1 query with 4 matches", res)
	}
}

func TestSampleQueries(t *testing.T) {
	qs := sampleQueries([]string{"a", "b", "c"}, 20)
	if len(qs) != 3 || qs[0] != "ax" {
		t.Errorf("sampleQueries() = %v", qs)
	}
}
