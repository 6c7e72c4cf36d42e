package domain

import (
	"context"
	"time"
)

// CompletionClient sends one chat-completion request and returns the text
// of the first choice
type CompletionClient interface {
	Complete(ctx context.Context, req *ChatCompletionRequest) (string, error)
}

// OrderExtractor turns an utterance into an ExtractionResult. Implementations
// never fail: the worst outcome is a result with no items.
type OrderExtractor interface {
	Extract(ctx context.Context, utterance string, catalog []Product) ExtractionResult
}

// CatalogRepository stores catalog snapshots per merchant
type CatalogRepository interface {
	Get(ctx context.Context, merchantID string) ([]Product, error)
	Put(ctx context.Context, merchantID string, products []Product, ttl time.Duration) error
	Delete(ctx context.Context, merchantID string) error
}
