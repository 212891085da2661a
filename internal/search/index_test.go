package search

import (
	"testing"
)

func TestSearchRanksTitleWords(t *testing.T) {
	index := Build([]Entry{
		{ID: "watchlist:1", Title: "Sousou no Frieren", List: "watchlist"},
		{ID: "watchlist:2", Title: "Spy x Family", List: "watchlist"},
		{ID: "readlist:1", Title: "Frieren Artbook", List: "readlist", Note: "vol.1"},
	})

	results := index.Search("frieren", 5)
	if len(results) != 2 {
		t.Fatalf("expected two results, got %#v", results)
	}
	if results[0].Entry.ID != "watchlist:1" && results[0].Entry.ID != "readlist:1" {
		t.Fatalf("unexpected first result: %#v", results[0])
	}

	results = index.Search("spy family", 5)
	if len(results) == 0 || results[0].Entry.Title != "Spy x Family" {
		t.Fatalf("expected Spy x Family first, got %#v", results)
	}
}

func TestSearchTypoFallback(t *testing.T) {
	index := Build([]Entry{
		{ID: "1", Title: "Frieren"},
		{ID: "2", Title: "Monster"},
	})

	entry, ok := index.Closest("Freiren")
	if !ok {
		t.Fatalf("expected typo fallback result")
	}
	if entry.Title != "Frieren" {
		t.Fatalf("expected Frieren, got %#v", entry)
	}

	if _, ok := index.Closest("Gintama"); ok {
		t.Fatalf("unrelated title should not match")
	}
}

func TestSearchDeterministicOrdering(t *testing.T) {
	index := Build([]Entry{
		{ID: "b", Title: "Alpha"},
		{ID: "a", Title: "Alpha"},
	})

	results := index.Search("alpha", 2)
	if len(results) != 2 {
		t.Fatalf("expected two results, got %d", len(results))
	}
	if results[0].Entry.ID != "a" || results[1].Entry.ID != "b" {
		t.Fatalf("expected stable tie-break by id, got %#v", results)
	}
}

func TestSearchEmpty(t *testing.T) {
	var empty *Index
	if got := empty.Search("anything", 3); got != nil {
		t.Fatalf("expected nil results from nil index, got %#v", got)
	}
	index := Build([]Entry{{ID: "1", Title: "!!!"}})
	if index.Len() != 0 {
		t.Fatalf("titles without words should not be indexed")
	}
	if got := Build([]Entry{{ID: "1", Title: "Monster"}}).Search("  ", 3); got != nil {
		t.Fatalf("blank query should return nothing, got %#v", got)
	}
}
