package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileRepository keeps the catalog as a pretty-printed JSON array in a single file.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Path() string { return r.path }

// Init creates an empty catalog file when none exists yet.
func (r *FileRepository) Init() error {
	_, err := os.Stat(r.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return r.Save(context.Background(), nil)
}

// record mirrors Product with pointer fields so absent keys can be told apart
// from zero values.
type record struct {
	ID          *string  `json:"id"`
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
}

func (r *FileRepository) Load(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, err
	}
	return decodeCatalog(data)
}

func (r *FileRepository) Save(ctx context.Context, products []Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if products == nil {
		products = []Product{}
	}
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(r.path, data)
}

func decodeCatalog(data []byte) ([]Product, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		return nil, errors.New("catalog is not a JSON array")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var records []record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after catalog array")
	}

	products := make([]Product, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		if rec.ID == nil || rec.Name == nil || rec.Price == nil || rec.Category == nil || rec.Description == nil {
			return nil, fmt.Errorf("catalog entry %d is missing fields", i)
		}
		if _, dup := seen[*rec.ID]; dup {
			return nil, fmt.Errorf("catalog entry %d duplicates id %q", i, *rec.ID)
		}
		seen[*rec.ID] = struct{}{}
		products = append(products, Product{
			ID:          *rec.ID,
			Name:        *rec.Name,
			Price:       *rec.Price,
			Category:    *rec.Category,
			Description: *rec.Description,
		})
	}
	return products, nil
}

// writeFileAtomic replaces path through a temp file in the same directory so
// readers never see a truncated catalog.
func writeFileAtomic(path string, data []byte) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, base+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
