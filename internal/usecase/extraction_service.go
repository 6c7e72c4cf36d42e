package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/hinote/backend/internal/domain"
	"github.com/sirupsen/logrus"
)

// ExtractionServiceConfig holds configuration for the extraction service
type ExtractionServiceConfig struct {
	CatalogTTL time.Duration
}

// ExtractionService resolves the catalog snapshot for a request and runs the
// order extractor against it
type ExtractionService struct {
	extractor  domain.OrderExtractor
	catalogs   domain.CatalogRepository
	catalogTTL time.Duration
	log        logrus.FieldLogger
}

// NewExtractionService creates a new extraction service with dependencies
func NewExtractionService(
	extractor domain.OrderExtractor,
	catalogs domain.CatalogRepository,
	config ExtractionServiceConfig,
	log logrus.FieldLogger,
) *ExtractionService {
	catalogTTL := config.CatalogTTL
	if catalogTTL == 0 {
		catalogTTL = 24 * time.Hour
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &ExtractionService{
		extractor:  extractor,
		catalogs:   catalogs,
		catalogTTL: catalogTTL,
		log:        log.WithField("component", "extraction_service"),
	}
}

// ExtractOrder extracts an order from the request utterance.
// Flow: resolve catalog (inline -> stored snapshot -> empty) -> extract -> return
func (s *ExtractionService) ExtractOrder(ctx context.Context, request *domain.ExtractRequest) (domain.ExtractionResult, error) {
	if request == nil {
		return domain.ExtractionResult{}, domain.ErrInvalidRequest
	}

	catalog, err := s.resolveCatalog(ctx, request.MerchantID, request.Products)
	if err != nil {
		return domain.ExtractionResult{}, err
	}

	result := s.extractor.Extract(ctx, request.Utterance, catalog)

	s.log.WithFields(logrus.Fields{
		"merchant_id":  request.MerchantID,
		"catalog_size": len(catalog),
		"items":        len(result.Items),
		"new_products": len(result.NewProducts),
		"has_table":    result.Table != nil,
	}).Info("order extracted")

	return result, nil
}

// MatchProduct looks a product up by exact name or alias
func (s *ExtractionService) MatchProduct(ctx context.Context, request *domain.MatchRequest) (*domain.Product, error) {
	if request == nil || request.Name == "" {
		return nil, domain.ErrInvalidRequest
	}

	catalog, err := s.resolveCatalog(ctx, request.MerchantID, request.Products)
	if err != nil {
		return nil, err
	}

	product, ok := FindByName(request.Name, catalog)
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	match := *product
	return &match, nil
}

// SaveCatalog replaces the stored snapshot for a merchant
func (s *ExtractionService) SaveCatalog(ctx context.Context, merchantID string, products []domain.Product) error {
	if merchantID == "" || s.catalogs == nil {
		return domain.ErrInvalidRequest
	}
	if err := s.catalogs.Put(ctx, merchantID, products, s.catalogTTL); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"merchant_id": merchantID,
		"products":    len(products),
	}).Info("catalog snapshot stored")
	return nil
}

// GetCatalog returns the stored snapshot for a merchant
func (s *ExtractionService) GetCatalog(ctx context.Context, merchantID string) ([]domain.Product, error) {
	if merchantID == "" {
		return nil, domain.ErrInvalidRequest
	}
	if s.catalogs == nil {
		return nil, domain.ErrCatalogNotFound
	}
	return s.catalogs.Get(ctx, merchantID)
}

// DeleteCatalog drops the stored snapshot for a merchant. Deleting a
// snapshot that is not there succeeds.
func (s *ExtractionService) DeleteCatalog(ctx context.Context, merchantID string) error {
	if merchantID == "" || s.catalogs == nil {
		return domain.ErrInvalidRequest
	}
	if err := s.catalogs.Delete(ctx, merchantID); err != nil {
		return err
	}

	s.log.WithField("merchant_id", merchantID).Info("catalog snapshot deleted")
	return nil
}

// resolveCatalog prefers the inline products, then the stored snapshot.
// No merchant and no products means an empty catalog.
func (s *ExtractionService) resolveCatalog(ctx context.Context, merchantID string, inline []domain.Product) ([]domain.Product, error) {
	if inline != nil {
		return inline, nil
	}
	if merchantID == "" {
		return nil, nil
	}
	if s.catalogs == nil {
		return nil, domain.ErrCatalogNotFound
	}

	catalog, err := s.catalogs.Get(ctx, merchantID)
	if err != nil {
		if errors.Is(err, domain.ErrCatalogNotFound) {
			s.log.WithField("merchant_id", merchantID).Warn("no catalog snapshot for merchant")
		}
		return nil, err
	}
	return catalog, nil
}
