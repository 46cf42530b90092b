package services

import (
	"sort"
	"strings"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
)

// contextSeparator joins document contents in the context block
const contextSeparator = "\n\n"

// FilterByDistance keeps results whose distance is at most threshold.
// Distance is lower-is-better; input order is preserved.
func FilterByDistance(results []domain.RetrievalResult, threshold float64) []domain.RetrievalResult {
	kept := make([]domain.RetrievalResult, 0, len(results))
	for _, r := range results {
		if r.Distance <= threshold {
			kept = append(kept, r)
		}
	}
	return kept
}

// SortByDistance returns a copy of results ordered by ascending distance.
// Ties keep their retrieval order.
func SortByDistance(results []domain.RetrievalResult) []domain.RetrievalResult {
	sorted := make([]domain.RetrievalResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Distance < sorted[j].Distance
	})
	return sorted
}

// TopN returns at most n leading elements of results.
func TopN[T any](results []T, n int) []T {
	if n <= 0 {
		return []T{}
	}
	if n > len(results) {
		n = len(results)
	}
	return results[:n]
}

// BuildContext concatenates the documents' contents and collects their
// attribution from the same slice, so the two always correspond 1:1 and in order.
func BuildContext(docs []domain.Document) (string, []domain.Attribution) {
	contents := make([]string, len(docs))
	attribution := make([]domain.Attribution, len(docs))
	for i, doc := range docs {
		contents[i] = doc.Content
		attribution[i] = domain.AttributionFor(doc)
	}
	return strings.Join(contents, contextSeparator), attribution
}
