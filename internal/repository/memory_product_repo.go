package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samueldmelo/logfoto/internal/domain"
	"github.com/sirupsen/logrus"
)

type MemoryOption func(*memoryProductRepository)

// WithClock replaces the registration clock.
func WithClock(now func() time.Time) MemoryOption {
	return func(r *memoryProductRepository) {
		r.now = now
	}
}

// memoryProductRepository keeps products in process. It applies the same
// filter semantics as the remote backends, with date bounds read in loc.
type memoryProductRepository struct {
	mu    sync.RWMutex
	rows  map[string]productRow
	order []string
	loc   *time.Location
	now   func() time.Time
	log   *logrus.Logger
}

func NewMemoryProductRepository(loc *time.Location, logger *logrus.Logger, opts ...MemoryOption) domain.ProductStore {
	if loc == nil {
		loc = time.UTC
	}
	r := &memoryProductRepository{
		rows: make(map[string]productRow),
		loc:  loc,
		now:  time.Now,
		log:  logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *memoryProductRepository) Create(ctx context.Context, p domain.NewProduct) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStoreError("create", err)
	}
	cols := columnsMap(insertColumns(p))
	row := productRow{
		ID:               uuid.NewString(),
		SKU:              cols[colSKU],
		Categoria:        cols[colCategoria],
		Tamanho:          cols[colTamanho],
		Cor:              cols[colCor],
		DataHoraCadastro: r.now().In(r.loc),
	}

	r.mu.Lock()
	r.rows[row.ID] = row
	r.order = append(r.order, row.ID)
	r.mu.Unlock()

	r.log.Infof("MemoryStore: Product created with ID %s, SKU %s", row.ID, row.SKU)
	product := row.toDomain()
	return &product, nil
}

func (r *memoryProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStoreError("get", err)
	}
	r.mu.RLock()
	row, ok := r.rows[id]
	r.mu.RUnlock()
	if !ok {
		r.log.Warnf("MemoryStore: Product %s not found", id)
		return nil, domain.NewStoreError("get", fmt.Errorf("id %s: %w", id, domain.ErrNotFound))
	}
	product := row.toDomain()
	return &product, nil
}

func (r *memoryProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	return r.ListFiltered(ctx, domain.ProductFilter{})
}

func (r *memoryProductRepository) ListFiltered(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStoreError("list", err)
	}
	match, err := r.matcher(f)
	if err != nil {
		r.log.Errorf("MemoryStore: Rejected filter %+v: %v", f, err)
		return nil, domain.NewStoreError("list", err)
	}

	r.mu.RLock()
	result := make([]productRow, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		if row := r.rows[r.order[i]]; match(row) {
			result = append(result, row)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(result, func(a, b int) bool {
		return result[a].DataHoraCadastro.After(result[b].DataHoraCadastro)
	})

	r.log.Debugf("MemoryStore: Retrieved %d products", len(result))
	return toDomainList(result), nil
}

func (r *memoryProductRepository) matcher(f domain.ProductFilter) (func(productRow) bool, error) {
	var from, to time.Time
	var err error
	if f.DataInicio != "" {
		if from, err = domain.ParseBound(f.StartBound(), r.loc); err != nil {
			return nil, err
		}
	}
	if f.DataFim != "" {
		if to, err = domain.ParseBound(f.EndBound(), r.loc); err != nil {
			return nil, err
		}
	}
	cor := domain.NormalizeColor(f.Cor)

	return func(row productRow) bool {
		switch {
		case !containsFold(row.SKU, f.SKU):
			return false
		case !containsFold(row.Cor, cor):
			return false
		case f.Categoria != "" && row.Categoria != f.Categoria:
			return false
		case f.Tamanho != "" && row.Tamanho != f.Tamanho:
			return false
		case !from.IsZero() && row.DataHoraCadastro.Before(from):
			return false
		case !to.IsZero() && row.DataHoraCadastro.After(to):
			return false
		}
		return true
	}, nil
}

func (r *memoryProductRepository) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStoreError("update", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		r.log.Warnf("MemoryStore: Product %s not found for update", id)
		return nil, domain.NewStoreError("update", fmt.Errorf("id %s: %w", id, domain.ErrNotFound))
	}
	for _, c := range updateColumns(patch) {
		switch c.name {
		case colSKU:
			row.SKU = c.value
		case colCategoria:
			row.Categoria = c.value
		case colTamanho:
			row.Tamanho = c.value
		case colCor:
			row.Cor = c.value
		}
	}
	r.rows[id] = row

	r.log.Infof("MemoryStore: Product %s updated", id)
	product := row.toDomain()
	return &product, nil
}

func (r *memoryProductRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStoreError("delete", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		r.log.Warnf("MemoryStore: Delete of product %s matched nothing", id)
		return nil
	}
	delete(r.rows, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.log.Infof("MemoryStore: Product %s deleted", id)
	return nil
}
