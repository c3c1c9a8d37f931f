package ports

import "context"

// Contract for embedding free-form interest text into the vector space
// shared with the POI catalog.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}
