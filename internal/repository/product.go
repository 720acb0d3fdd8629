package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"homedepot/scraper/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

const productsSchema = `
CREATE TABLE IF NOT EXISTS products (
	id           BIGSERIAL PRIMARY KEY,
	run_id       UUID NOT NULL,
	item_id      TEXT NOT NULL,
	store_id     TEXT NOT NULL,
	delivery_zip TEXT NOT NULL,
	scraped_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	data         JSONB NOT NULL
)`

const insertProduct = `
INSERT INTO products (run_id, item_id, store_id, delivery_zip, data)
VALUES ($1, $2, $3, $4, $5::jsonb)`

type postgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository mirrors every run into the products table. Rows are only ever
// inserted, like the file they mirror.
func NewPostgresRepository(db *pgxpool.Pool) ProductRepository {
	return &postgresRepository{
		db: db,
	}
}

func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, productsSchema); err != nil {
		return fmt.Errorf("failed to create products table: %w", err)
	}
	return nil
}

func (r *postgresRepository) SaveProducts(ctx context.Context, runID string, products []domain.ProductRecord) error {
	if len(products) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, p := range products {
		args, err := productRow(runID, p)
		if err != nil {
			return err
		}
		batch.Queue(insertProduct, args...)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for i := range products {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save product %s: %w", products[i].ItemID, err)
		}
	}

	log.Debugf("Mirrored %d products of run %s to postgres", len(products), runID)
	return nil
}

func productRow(runID string, p domain.ProductRecord) ([]any, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode product %s: %w", p.ItemID, err)
	}
	return []any{runID, p.ItemID, p.StoreID, p.DeliveryZip, string(data)}, nil
}
