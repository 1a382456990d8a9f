package repository

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/stride/stride-backend/internal/catalog/domain"
)

var tracer = otel.Tracer("catalog-repository")

// GormCatalogRepositoryWithTracing wraps GormCatalogRepository with tracing
type GormCatalogRepositoryWithTracing struct {
	*GormCatalogRepository
}

// NewGormCatalogRepositoryWithTracing creates a new repository with tracing
func NewGormCatalogRepositoryWithTracing(db *gorm.DB) *GormCatalogRepositoryWithTracing {
	return &GormCatalogRepositoryWithTracing{
		GormCatalogRepository: NewGormCatalogRepository(db),
	}
}

// ListSneakersWithBrandContext traces the denormalized listing query
func (r *GormCatalogRepositoryWithTracing) ListSneakersWithBrandContext(ctx context.Context) ([]domain.SneakerWithBrand, error) {
	_, span := tracer.Start(ctx, "repository.ListSneakersWithBrand")
	defer span.End()

	rows, err := r.GormCatalogRepository.ListSneakersWithBrand()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("sneakers.count", len(rows)))
	return rows, nil
}

// PriceHistoryContext traces the price history range query
func (r *GormCatalogRepositoryWithTracing) PriceHistoryContext(ctx context.Context, sneakerIDs []uint, start, end *time.Time) ([]domain.PricePoint, error) {
	_, span := tracer.Start(ctx, "repository.PriceHistory",
		trace.WithAttributes(attribute.Int("sneakers.requested", len(sneakerIDs))),
	)
	defer span.End()

	points, err := r.GormCatalogRepository.PriceHistory(sneakerIDs, start, end)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("points.count", len(points)))
	return points, nil
}

// SneakerDetailContext traces the full three-way join
func (r *GormCatalogRepositoryWithTracing) SneakerDetailContext(ctx context.Context, id uint) (*domain.SneakerDetail, error) {
	_, span := tracer.Start(ctx, "repository.SneakerDetail",
		trace.WithAttributes(attribute.Int64("sneaker.id", int64(id))),
	)
	defer span.End()

	detail, err := r.GormCatalogRepository.SneakerDetail(id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return detail, nil
}

// CreatePricePointContext traces ad-hoc price inserts from the event consumer
func (r *GormCatalogRepositoryWithTracing) CreatePricePointContext(ctx context.Context, point *domain.PriceHistory) error {
	_, span := tracer.Start(ctx, "repository.CreatePricePoint",
		trace.WithAttributes(
			attribute.Int64("sneaker.id", int64(point.SneakerID)),
			attribute.Float64("price", point.Price),
		),
	)
	defer span.End()

	if err := r.GormCatalogRepository.CreatePricePoint(point); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
