package http

import (
	"context"

	"retailfx/internal/pipeline"
	"retailfx/internal/services"
)

// FeatureServiceInterface defines the read operations over published features
type FeatureServiceInterface interface {
	Manifest(ctx context.Context) (*pipeline.Manifest, error)
	ListCustomers(ctx context.Context, q services.CustomerQuery) (*services.Page, error)
	GetCustomer(ctx context.Context, id string) (services.Record, error)
	Segments(ctx context.Context) ([]services.SegmentSummary, error)
	ListProducts(ctx context.Context, q services.ProductQuery) (*services.Page, error)
	ListCountries(ctx context.Context) ([]services.Record, error)
}
