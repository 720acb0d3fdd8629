package repository

import (
	"context"
	"errors"

	"homedepot/scraper/internal/domain"
)

// ProductRepository persists the products extracted by one run.
type ProductRepository interface {
	SaveProducts(ctx context.Context, runID string, products []domain.ProductRecord) error
}

type multiRepository struct {
	repositories []ProductRepository
}

// NewMultiRepository saves to every repository in order and joins their errors.
func NewMultiRepository(repositories ...ProductRepository) ProductRepository {
	return &multiRepository{repositories: repositories}
}

func (m *multiRepository) SaveProducts(ctx context.Context, runID string, products []domain.ProductRecord) error {
	var errs []error
	for _, r := range m.repositories {
		if err := r.SaveProducts(ctx, runID, products); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
