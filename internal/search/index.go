// Package search ranks saved titles against a loose query: BM25 over title
// words, with an edit-distance fallback for typos.
package search

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Entry is one searchable title.
type Entry struct {
	// ID must be unique within an index; ties are broken by it.
	ID    string
	Title string
	// List names where the title lives, e.g. "watchlist".
	List string
	// Note is searchable but weighs less than the title.
	Note string
}

type document struct {
	entry  Entry
	length int
	terms  map[string]int
}

type Index struct {
	documents    []document
	docFreq      map[string]int
	avgDocLength float64
}

type Result struct {
	Entry Entry
	Score float64
}

func Build(entries []Entry) *Index {
	documents := make([]document, 0, len(entries))
	docFreq := make(map[string]int)
	totalLength := 0

	for _, entry := range entries {
		terms := make(map[string]int)
		addWeighted(terms, entry.Title, 3)
		addWeighted(terms, entry.Note, 1)
		length := 0
		for _, count := range terms {
			length += count
		}
		if length == 0 {
			continue
		}
		documents = append(documents, document{entry: entry, length: length, terms: terms})
		totalLength += length
		for term := range terms {
			docFreq[term]++
		}
	}

	sort.Slice(documents, func(i, j int) bool {
		return documents[i].entry.ID < documents[j].entry.ID
	})

	avgDocLength := 0.0
	if len(documents) > 0 {
		avgDocLength = float64(totalLength) / float64(len(documents))
	}
	return &Index{documents: documents, docFreq: docFreq, avgDocLength: avgDocLength}
}

func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.documents)
}

// Search returns up to limit entries, best first. When no word matches it
// falls back to whole-title edit distance.
func (x *Index) Search(query string, limit int) []Result {
	if x.Len() == 0 {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	seen := make(map[string]bool)
	var queryTerms []string
	for _, term := range tokenize(query) {
		if !seen[term] {
			seen[term] = true
			queryTerms = append(queryTerms, term)
		}
	}
	if len(queryTerms) == 0 {
		return nil
	}

	const k1, b = 1.2, 0.75
	n := float64(len(x.documents))
	avgLen := x.avgDocLength
	if avgLen <= 0 {
		avgLen = 1
	}

	var results []Result
	for _, doc := range x.documents {
		score := 0.0
		docLen := float64(doc.length)
		for _, term := range queryTerms {
			tf := float64(doc.terms[term])
			df := float64(x.docFreq[term])
			if tf <= 0 || df <= 0 {
				continue
			}
			idf := math.Log(1.0 + ((n - df + 0.5) / (df + 0.5)))
			score += idf * (tf * (k1 + 1.0)) / (tf + k1*(1.0-b+b*(docLen/avgLen)))
		}
		if score > 0 {
			results = append(results, Result{Entry: doc.entry, Score: score})
		}
	}

	if len(results) == 0 {
		results = x.fuzzyTitles(query)
	}
	sortResults(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Closest returns the best match for a title that was not found verbatim.
func (x *Index) Closest(title string) (Entry, bool) {
	results := x.Search(title, 1)
	if len(results) == 0 {
		return Entry{}, false
	}
	return results[0].Entry, true
}

func (x *Index) fuzzyTitles(query string) []Result {
	needle := squash(query)
	if needle == "" {
		return nil
	}

	var results []Result
	for _, doc := range x.documents {
		candidate := squash(doc.entry.Title)
		if candidate == "" {
			continue
		}
		distance := levenshtein(needle, candidate)
		threshold := max(len([]rune(candidate))/3, 2)
		if distance > threshold {
			continue
		}
		results = append(results, Result{Entry: doc.entry, Score: 1.0 / float64(1+distance)})
	}
	return results
}

func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Entry.ID < results[j].Entry.ID
	})
}

func addWeighted(terms map[string]int, value string, weight int) {
	for _, token := range tokenize(value) {
		terms[token] += weight
	}
}

func tokenize(value string) []string {
	value = strings.ToLower(value)
	if value == "" {
		return nil
	}
	return tokenPattern.FindAllString(value, -1)
}

// squash joins the words of value: "Spy x Family!" becomes "spyxfamily".
func squash(value string) string {
	return strings.Join(tokenize(value), "")
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		current := make([]int, len(rb)+1)
		current[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			current[j] = min(current[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev = current
	}
	return prev[len(rb)]
}
