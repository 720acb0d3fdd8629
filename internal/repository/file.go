package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"homedepot/scraper/internal/domain"
)

// FileRepository appends one {"products": [...]} document per run to a shared file.
// Documents are newline terminated; the file as a whole is a stream of JSON values,
// not a single JSON document.
type FileRepository struct {
	path  string
	mutex sync.Mutex
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Path() string {
	return r.path
}

func (r *FileRepository) SaveProducts(ctx context.Context, runID string, products []domain.ProductRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if products == nil {
		products = []domain.ProductRecord{}
	}

	data, err := json.Marshal(domain.Document{Products: products})
	if err != nil {
		return fmt.Errorf("failed to encode products: %w", err)
	}
	data = append(data, '\n')

	r.mutex.Lock()
	defer r.mutex.Unlock()

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", r.path, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to append products to %s: %w", r.path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", r.path, err)
	}
	return nil
}

// Load decodes every document in the file. A missing file holds no documents.
func (r *FileRepository) Load(ctx context.Context) ([]domain.Document, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", r.path, err)
	}
	defer f.Close()

	var docs []domain.Document
	decoder := json.NewDecoder(f)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var doc domain.Document
		err := decoder.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode document %d of %s: %w", len(docs)+1, r.path, err)
		}
		docs = append(docs, doc)
	}

	return docs, nil
}
