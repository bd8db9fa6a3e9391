package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/catalog-admin-public/internal/validation"
)

// Repository loads and saves the whole catalog in one piece.
type Repository interface {
	Load(ctx context.Context) ([]Product, error)
	Save(ctx context.Context, products []Product) error
}

// Recorder receives the outcome of every catalog operation.
type Recorder interface {
	ObserveCatalogOp(op string, took time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveCatalogOp(string, time.Duration, error) {}

// Option customizes a Service.
type Option func(*Service)

func WithLogger(logger *log.Entry) Option {
	return func(s *Service) { s.logger = logger }
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithClock replaces the time source used for id generation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.ids = newIDGenerator(now) }
}

// Service is the catalog store. Every call re-reads the catalog from the
// repository; mutations rewrite it in full while holding the writer lock, so
// concurrent creates within one process never lose each other's updates.
type Service struct {
	repo      Repository
	mu        sync.RWMutex
	ids       *idGenerator
	validator *validation.Validator
	logger    *log.Entry
	recorder  Recorder
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		ids:       newIDGenerator(nil),
		validator: validation.New(),
		logger:    log.WithField("component", "catalog"),
		recorder:  nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every product in catalog order.
func (s *Service) List(ctx context.Context) (products []Product, err error) {
	defer s.observe("list", time.Now(), &err)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load(ctx)
}

// Get returns the product with the given id.
func (s *Service) Get(ctx context.Context, id string) (product Product, err error) {
	defer s.observe("get", time.Now(), &err)
	s.mu.RLock()
	defer s.mu.RUnlock()

	products, err := s.load(ctx)
	if err != nil {
		return Product{}, err
	}
	if i := indexOf(products, id); i >= 0 {
		return products[i], nil
	}
	return Product{}, ErrNotFound
}

// Create validates fields, assigns a fresh id and appends the product.
func (s *Service) Create(ctx context.Context, fields Fields) (product Product, err error) {
	defer s.observe("create", time.Now(), &err)
	if err := s.validate(fields); err != nil {
		return Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.load(ctx)
	if err != nil {
		return Product{}, err
	}
	product = Product{ID: s.ids.uniqueID(products)}
	fields.apply(&product)

	if err := s.save(ctx, append(products, product)); err != nil {
		return Product{}, err
	}
	s.logger.WithField("product_id", product.ID).Info("product created")
	return product, nil
}

// Update replaces the mutable fields of an existing product. The id never changes.
func (s *Service) Update(ctx context.Context, id string, fields Fields) (product Product, err error) {
	defer s.observe("update", time.Now(), &err)
	if err := s.validate(fields); err != nil {
		return Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.load(ctx)
	if err != nil {
		return Product{}, err
	}
	i := indexOf(products, id)
	if i < 0 {
		return Product{}, ErrNotFound
	}
	fields.apply(&products[i])

	if err := s.save(ctx, products); err != nil {
		return Product{}, err
	}
	s.logger.WithField("product_id", id).Info("product updated")
	return products[i], nil
}

// Delete removes the product with the given id, keeping the order of the rest.
func (s *Service) Delete(ctx context.Context, id string) (err error) {
	defer s.observe("delete", time.Now(), &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := make([]Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(products) {
		return ErrNotFound
	}

	if err := s.save(ctx, kept); err != nil {
		return err
	}
	s.logger.WithField("product_id", id).Info("product deleted")
	return nil
}

func (s *Service) validate(fields Fields) error {
	invalid, err := s.validator.InvalidFields(fields)
	if err != nil {
		return err
	}
	if len(invalid) > 0 {
		return &ValidationError{Fields: invalid}
	}
	return nil
}

func (s *Service) load(ctx context.Context) ([]Product, error) {
	products, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.WithError(err).Error("load catalog")
		return nil, fmt.Errorf("%w: %w", ErrStorageRead, err)
	}
	return products, nil
}

func (s *Service) save(ctx context.Context, products []Product) error {
	if err := s.repo.Save(ctx, products); err != nil {
		s.logger.WithError(err).Error("save catalog")
		return fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}
	return nil
}

func (s *Service) observe(op string, start time.Time, err *error) {
	s.recorder.ObserveCatalogOp(op, time.Since(start), *err)
}

func indexOf(products []Product, id string) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
