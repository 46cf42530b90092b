package domain

// FAQEntry is one curated question and answer pair
type FAQEntry struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Keywords []string `json:"keywords,omitempty"`
}

// FAQMatch is the set of FAQ entries selected for a question
type FAQMatch struct {
	Entries  []FAQEntry
	FullList bool
}

// Empty reports whether nothing matched
func (m FAQMatch) Empty() bool {
	return len(m.Entries) == 0
}
