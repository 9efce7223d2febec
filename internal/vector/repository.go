package vector

import "context"

// Document is one component profile with its feature vector.
type Document struct {
	Component string
	Vector    []float32
	Metadata  map[string]string
}

// SearchResult is a single match from a similarity search.
type SearchResult struct {
	Component string
	Score     float32
	Metadata  map[string]string
}

// Repository provides profile storage and similarity search.
type Repository interface {
	// EnsureCollection creates the profile collection when it is missing.
	EnsureCollection(ctx context.Context, dim int) error
	// Upsert inserts or updates component profiles.
	Upsert(ctx context.Context, docs []Document) error
	// Search finds the top-k profiles most similar to the vector.
	Search(ctx context.Context, vector []float32, topK int) ([]SearchResult, error)
	// Close releases resources.
	Close() error
}
