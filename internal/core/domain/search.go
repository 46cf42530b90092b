package domain

// RetrievalResult pairs a document with its distance to the query.
// Lower distance means a closer semantic match.
type RetrievalResult struct {
	Document Document `json:"document"`
	Distance float64  `json:"distance"`
}

// Documents extracts the documents from a result list, preserving order
func Documents(results []RetrievalResult) []Document {
	docs := make([]Document, len(results))
	for i, r := range results {
		docs[i] = r.Document
	}
	return docs
}
