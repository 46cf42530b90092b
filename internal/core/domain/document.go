package domain

// Metadata keys every indexed document carries
const (
	MetadataDocID  = "doc_id"
	MetadataSource = "source"
)

// Document is an immutable unit of retrievable knowledge.
// Documents are created when the index is built and are read-only afterwards.
type Document struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// DocID returns the unique document identifier from metadata
func (d Document) DocID() string {
	return d.Metadata[MetadataDocID]
}

// Source returns the source label from metadata
func (d Document) Source() string {
	return d.Metadata[MetadataSource]
}

// Attribution identifies a document that backed a generated answer
type Attribution struct {
	DocID  string `json:"doc_id"`
	Source string `json:"source,omitempty"`
}

// AttributionFor builds the attribution record for a document
func AttributionFor(doc Document) Attribution {
	return Attribution{
		DocID:  doc.DocID(),
		Source: doc.Source(),
	}
}
