package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hinote/backend/internal/domain"
	"github.com/hinote/backend/internal/logger"
)

// MockOrderExtractor is a mock implementation of domain.OrderExtractor
type MockOrderExtractor struct {
	result        domain.ExtractionResult
	called        bool
	lastUtterance string
	lastCatalog   []domain.Product
}

func (m *MockOrderExtractor) Extract(ctx context.Context, utterance string, catalog []domain.Product) domain.ExtractionResult {
	m.called = true
	m.lastUtterance = utterance
	m.lastCatalog = catalog
	return m.result
}

// MockCatalogRepository is a mock implementation of domain.CatalogRepository
type MockCatalogRepository struct {
	data      map[string][]domain.Product
	getErr    error
	putErr    error
	deleteErr error
	lastTTL   time.Duration
}

func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{data: make(map[string][]domain.Product)}
}

func (m *MockCatalogRepository) Get(ctx context.Context, merchantID string) ([]domain.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	products, ok := m.data[merchantID]
	if !ok {
		return nil, domain.ErrCatalogNotFound
	}
	return products, nil
}

func (m *MockCatalogRepository) Put(ctx context.Context, merchantID string, products []domain.Product, ttl time.Duration) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.lastTTL = ttl
	m.data[merchantID] = products
	return nil
}

func (m *MockCatalogRepository) Delete(ctx context.Context, merchantID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.data, merchantID)
	return nil
}

func TestNewExtractionService(t *testing.T) {
	t.Run("creates service with default values", func(t *testing.T) {
		svc := NewExtractionService(&MockOrderExtractor{}, NewMockCatalogRepository(), ExtractionServiceConfig{}, nil)
		if svc == nil {
			t.Fatal("expected service to be created")
		}
		if svc.catalogTTL != 24*time.Hour {
			t.Errorf("catalogTTL = %v, want 24h", svc.catalogTTL)
		}
	})

	t.Run("creates service with custom values", func(t *testing.T) {
		svc := NewExtractionService(&MockOrderExtractor{}, nil, ExtractionServiceConfig{CatalogTTL: time.Hour}, logger.Discard())
		if svc.catalogTTL != time.Hour {
			t.Errorf("catalogTTL = %v, want 1h", svc.catalogTTL)
		}
	})
}

func TestExtractOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("returns error for nil request", func(t *testing.T) {
		svc := NewExtractionService(&MockOrderExtractor{}, NewMockCatalogRepository(), ExtractionServiceConfig{}, logger.Discard())

		_, err := svc.ExtractOrder(ctx, nil)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("uses inline products first", func(t *testing.T) {
		extractor := &MockOrderExtractor{result: domain.NewExtractionResult()}
		repo := NewMockCatalogRepository()
		repo.data["m1"] = []domain.Product{{ID: "stored"}}
		svc := NewExtractionService(extractor, repo, ExtractionServiceConfig{}, logger.Discard())

		inline := []domain.Product{{ID: "inline", Name: "Phở bò"}}
		_, err := svc.ExtractOrder(ctx, &domain.ExtractRequest{Utterance: "phở bò 35k", MerchantID: "m1", Products: inline})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(extractor.lastCatalog) != 1 || extractor.lastCatalog[0].ID != "inline" {
			t.Errorf("catalog = %+v, want inline products", extractor.lastCatalog)
		}
		if extractor.lastUtterance != "phở bò 35k" {
			t.Errorf("utterance = %q, want %q", extractor.lastUtterance, "phở bò 35k")
		}
	})

	t.Run("uses stored snapshot for merchant", func(t *testing.T) {
		extractor := &MockOrderExtractor{result: domain.NewExtractionResult()}
		repo := NewMockCatalogRepository()
		repo.data["m1"] = []domain.Product{{ID: "stored"}}
		svc := NewExtractionService(extractor, repo, ExtractionServiceConfig{}, logger.Discard())

		_, err := svc.ExtractOrder(ctx, &domain.ExtractRequest{Utterance: "x", MerchantID: "m1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(extractor.lastCatalog) != 1 || extractor.lastCatalog[0].ID != "stored" {
			t.Errorf("catalog = %+v, want stored snapshot", extractor.lastCatalog)
		}
	})

	t.Run("returns error for unknown merchant", func(t *testing.T) {
		extractor := &MockOrderExtractor{}
		svc := NewExtractionService(extractor, NewMockCatalogRepository(), ExtractionServiceConfig{}, logger.Discard())

		_, err := svc.ExtractOrder(ctx, &domain.ExtractRequest{Utterance: "x", MerchantID: "ghost"})
		if !errors.Is(err, domain.ErrCatalogNotFound) {
			t.Errorf("error = %v, want ErrCatalogNotFound", err)
		}
		if extractor.called {
			t.Error("extractor should not be called without a catalog")
		}
	})

	t.Run("runs with empty catalog when nothing is given", func(t *testing.T) {
		extractor := &MockOrderExtractor{result: FallbackExtract("trà sữa 20k", nil)}
		svc := NewExtractionService(extractor, nil, ExtractionServiceConfig{}, logger.Discard())

		result, err := svc.ExtractOrder(ctx, &domain.ExtractRequest{Utterance: "trà sữa 20k"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if extractor.lastCatalog != nil {
			t.Errorf("catalog = %+v, want nil", extractor.lastCatalog)
		}
		if len(result.NewProducts) != 1 || result.NewProducts[0] != "trà sữa" {
			t.Errorf("NewProducts = %v, want [trà sữa]", result.NewProducts)
		}
	})
}

func TestMatchProduct(t *testing.T) {
	ctx := context.Background()
	svc := NewExtractionService(&MockOrderExtractor{}, NewMockCatalogRepository(), ExtractionServiceConfig{}, logger.Discard())

	t.Run("finds by alias", func(t *testing.T) {
		product, err := svc.MatchProduct(ctx, &domain.MatchRequest{Name: "PHO BO", Products: testCatalog()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if product.ID != "p1" {
			t.Errorf("ID = %s, want p1", product.ID)
		}
	})

	t.Run("returns not found", func(t *testing.T) {
		_, err := svc.MatchProduct(ctx, &domain.MatchRequest{Name: "bún chả", Products: testCatalog()})
		if !errors.Is(err, domain.ErrProductNotFound) {
			t.Errorf("error = %v, want ErrProductNotFound", err)
		}
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := svc.MatchProduct(ctx, &domain.MatchRequest{})
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})
}

func TestSaveAndGetCatalog(t *testing.T) {
	ctx := context.Background()
	repo := NewMockCatalogRepository()
	svc := NewExtractionService(&MockOrderExtractor{}, repo, ExtractionServiceConfig{CatalogTTL: 2 * time.Hour}, logger.Discard())

	if err := svc.SaveCatalog(ctx, "m1", testCatalog()); err != nil {
		t.Fatalf("SaveCatalog() error = %v", err)
	}
	if repo.lastTTL != 2*time.Hour {
		t.Errorf("ttl = %v, want 2h", repo.lastTTL)
	}

	products, err := svc.GetCatalog(ctx, "m1")
	if err != nil {
		t.Fatalf("GetCatalog() error = %v", err)
	}
	if len(products) != 3 {
		t.Errorf("len(products) = %d, want 3", len(products))
	}

	if err := svc.SaveCatalog(ctx, "", nil); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("error = %v, want ErrInvalidRequest", err)
	}

	repo.putErr = errors.New("store down")
	if err := svc.SaveCatalog(ctx, "m1", nil); err == nil {
		t.Error("expected store error to propagate")
	}
}

func TestDeleteCatalog(t *testing.T) {
	ctx := context.Background()
	repo := NewMockCatalogRepository()
	svc := NewExtractionService(&MockOrderExtractor{}, repo, ExtractionServiceConfig{}, logger.Discard())

	if err := svc.SaveCatalog(ctx, "m1", testCatalog()); err != nil {
		t.Fatalf("SaveCatalog() error = %v", err)
	}
	if err := svc.DeleteCatalog(ctx, "m1"); err != nil {
		t.Fatalf("DeleteCatalog() error = %v", err)
	}
	if _, err := svc.GetCatalog(ctx, "m1"); !errors.Is(err, domain.ErrCatalogNotFound) {
		t.Errorf("GetCatalog() after delete error = %v, want ErrCatalogNotFound", err)
	}

	if err := svc.DeleteCatalog(ctx, "m1"); err != nil {
		t.Errorf("second DeleteCatalog() error = %v, want nil", err)
	}
	if err := svc.DeleteCatalog(ctx, ""); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("error = %v, want ErrInvalidRequest", err)
	}

	repo.deleteErr = errors.New("store down")
	if err := svc.DeleteCatalog(ctx, "m1"); err == nil {
		t.Error("expected store error to propagate")
	}

	noStore := NewExtractionService(&MockOrderExtractor{}, nil, ExtractionServiceConfig{}, logger.Discard())
	if err := noStore.DeleteCatalog(ctx, "m1"); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("error = %v, want ErrInvalidRequest without a store", err)
	}
}
