package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore implements driven.VectorStore on a pgvector table.
// Distances are L2 (the <-> operator): lower is closer.
type VectorStore struct {
	db *DB
}

// NewVectorStore creates a new VectorStore
func NewVectorStore(db *DB) *VectorStore {
	return &VectorStore{db: db}
}

const searchQuery = `
	SELECT doc_id, source, content, metadata, embedding <-> $1 AS distance
	FROM documents
	ORDER BY embedding <-> $1
	LIMIT $2
`

// Search returns the k nearest documents to embedding, closest first
func (s *VectorStore) Search(ctx context.Context, embedding []float32, k int) ([]domain.RetrievalResult, error) {
	if k <= 0 || len(embedding) == 0 {
		return []domain.RetrievalResult{}, nil
	}

	rows, err := s.db.QueryContext(ctx, searchQuery, pgvector.NewVector(embedding), k)
	if err != nil {
		return nil, classifyError("search documents", err)
	}
	defer rows.Close()

	results := make([]domain.RetrievalResult, 0, k)
	for rows.Next() {
		var (
			docID, source, content string
			rawMetadata            []byte
			distance               float64
		)
		if err := rows.Scan(&docID, &source, &content, &rawMetadata, &distance); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		results = append(results, domain.RetrievalResult{
			Document: domain.Document{
				Content:  content,
				Metadata: decodeMetadata(rawMetadata, docID, source),
			},
			Distance: distance,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("iterate documents", err)
	}
	return results, nil
}

// Count returns the number of indexed documents
func (s *VectorStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n); err != nil {
		return 0, classifyError("count documents", err)
	}
	return n, nil
}

// HealthCheck verifies the database is reachable
func (s *VectorStore) HealthCheck(ctx context.Context) error {
	return classifyError("vector store health check", s.db.Ping(ctx))
}

// decodeMetadata flattens the JSONB metadata column to strings.
// The doc_id and source columns always win over same-named metadata keys.
func decodeMetadata(raw []byte, docID, source string) map[string]string {
	meta := make(map[string]string)
	if len(raw) > 0 {
		var values map[string]any
		if err := json.Unmarshal(raw, &values); err == nil {
			for k, v := range values {
				switch val := v.(type) {
				case string:
					meta[k] = val
				case nil:
				default:
					encoded, _ := json.Marshal(val)
					meta[k] = string(encoded)
				}
			}
		}
	}
	meta[domain.MetadataDocID] = docID
	meta[domain.MetadataSource] = source
	return meta
}

func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrServiceUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
