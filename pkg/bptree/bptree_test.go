package bptree_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/ssargent/survex3d/pkg/bptree"
	"github.com/stretchr/testify/assert"
)

func TestBPlusTree_InsertAndSearch(t *testing.T) {
	type search struct {
		key      string
		expected int
		found    bool
	}
	tests := map[string]struct {
		inserts  []string
		searches []search
	}{
		"Insert and search labels": {
			inserts: []string{"mig.1", "mig.2", "mig.10", "entrance", "mig.3"},
			searches: []search{
				{"mig.1", 0, true},
				{"mig.2", 1, true},
				{"mig.10", 2, true},
				{"entrance", 3, true},
				{"mig.3", 4, true},
				{"mig.4", 0, false},
			},
		},
		"Insert duplicate keys": {
			inserts:  []string{"a", "a"},
			searches: []search{{"a", 1, true}},
		},
		"Search empty tree": {
			searches: []search{{"a", 0, false}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tree := bptree.NewBPlusTree[string, int](4)
			for i, k := range tt.inserts {
				tree.Insert(k, i)
			}
			for _, s := range tt.searches {
				value, found := tree.Search(s.key)
				if found != s.found || value != s.expected {
					t.Errorf("Search(%q) = %v, %v; want %v, %v", s.key, value, found, s.expected, s.found)
				}
			}
		})
	}
}

func TestBPlusTree_GrowsAndStaysOrdered(t *testing.T) {
	tree := bptree.NewBPlusTree[int, int](3)
	// insert in a scrambled order
	for i := 0; i < 500; i++ {
		k := (i * 137) % 500
		tree.Insert(k, k*10)
	}

	assert.Equal(t, 500, tree.Len())
	assert.Greater(t, tree.Height(), 3)

	values := tree.Values()
	assert.Len(t, values, 500)
	for i, v := range values {
		assert.Equal(t, i*10, v)
	}

	var seen []int
	tree.Ascend(495, func(k, v int) bool {
		seen = append(seen, k)
		return true
	})
	assert.Equal(t, []int{495, 496, 497, 498, 499}, seen)

	seen = nil
	tree.Ascend(100, func(k, v int) bool {
		seen = append(seen, k)
		return len(seen) < 3
	})
	assert.Equal(t, []int{100, 101, 102}, seen)
}

func TestScanPrefix(t *testing.T) {
	tree := bptree.NewBPlusTree[string, string](4)
	for _, cave := range []string{"alpha", "beta", "gamma"} {
		for i := 0; i < 20; i++ {
			label := fmt.Sprintf("%s.%02d", cave, i)
			tree.Insert(label, label)
		}
	}

	beta := bptree.ScanPrefix(tree, "beta.")
	assert.Len(t, beta, 20)
	assert.Equal(t, "beta.00", beta[0])
	assert.Equal(t, "beta.19", beta[19])

	assert.Equal(t, []string{"gamma.10", "gamma.11", "gamma.12", "gamma.13", "gamma.14",
		"gamma.15", "gamma.16", "gamma.17", "gamma.18", "gamma.19"}, bptree.ScanPrefix(tree, "gamma.1"))
	assert.Empty(t, bptree.ScanPrefix(tree, "delta"))
	assert.Len(t, bptree.ScanPrefix(tree, ""), 60)
}

func TestBPlusTree_Concurrency(t *testing.T) {
	tree := bptree.NewBPlusTree[int, string](4)

	// Insert keys concurrently
	var wg sync.WaitGroup
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tree.Insert(i, fmt.Sprintf("station.%d", i))
		}(i)
	}
	wg.Wait()

	// Search for keys concurrently
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, found := tree.Search(i); !found {
				t.Errorf("Expected to find key %d", i)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 100, tree.Len())
}
