package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/samueldmelo/logfoto/internal/domain"
	"github.com/sirupsen/logrus"
)

type ProductUseCase interface {
	Register(ctx context.Context, product domain.NewProduct) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Browse(ctx context.Context, filter domain.ProductFilter, mode ViewMode) (*Listing, error)
	Edit(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	Remove(ctx context.Context, id string) error
}

type productUseCase struct {
	store   domain.ProductStore
	timeout time.Duration
	log     *logrus.Logger
}

// NewProductUseCase bounds every store call by timeout. A zero timeout leaves
// the caller's deadline alone.
func NewProductUseCase(store domain.ProductStore, timeout time.Duration, logger *logrus.Logger) ProductUseCase {
	return &productUseCase{
		store:   store,
		timeout: timeout,
		log:     logger,
	}
}

func (uc *productUseCase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, uc.timeout)
}

func (uc *productUseCase) Register(ctx context.Context, product domain.NewProduct) (*domain.Product, error) {
	if err := domain.ValidateRegistration(product); err != nil {
		uc.log.Warnf("Use Case: Rejected registration for SKU '%s': %v", product.SKU, err)
		return nil, err
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	uc.log.Infof("Use Case: Attempting to register SKU '%s' (%s, %s)", product.SKU, product.Categoria, product.Tamanho)
	created, err := uc.store.Create(ctx, product)
	if err != nil {
		uc.log.Errorf("Use Case: Store failed to register SKU '%s': %v", product.SKU, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product '%s' registered successfully with ID %s", created.SKU, created.ID)
	return created, nil
}

func (uc *productUseCase) Get(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		uc.log.Warn("Use Case: Attempted to get product with empty ID")
		return nil, domain.NewStoreError("get", fmt.Errorf("empty id: %w", domain.ErrNotFound))
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	product, err := uc.store.GetByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Store failed to get product ID %s: %v", id, err)
		return nil, err
	}
	return product, nil
}

// Browse lists products newest first. An empty filter reads the whole table;
// an active one is pushed down to the store.
func (uc *productUseCase) Browse(ctx context.Context, filter domain.ProductFilter, mode ViewMode) (*Listing, error) {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	var (
		products []domain.Product
		err      error
	)
	if filter.State() == domain.FilterEmpty {
		products, err = uc.store.ListAll(ctx)
	} else {
		uc.log.Debugf("Use Case: Browsing with filter %+v", filter)
		products, err = uc.store.ListFiltered(ctx, filter)
	}
	if err != nil {
		uc.log.Errorf("Use Case: Store failed to list products: %v", err)
		return nil, err
	}

	listing := &Listing{Filter: filter, Mode: mode, Products: products, Stored: len(products) > 0}
	if !listing.Stored && filter.State() == domain.FilterActive {
		listing.Stored = uc.anyStored(ctx)
	}
	if mode == ViewGrouped {
		listing.Groups = domain.GroupBySKU(products)
	}

	uc.log.Infof("Use Case: %s", listing.Summary())
	return listing, nil
}

// anyStored reports whether the store holds any product. A failed check
// counts as yes, which only changes the empty-list wording.
func (uc *productUseCase) anyStored(ctx context.Context) bool {
	all, err := uc.store.ListAll(ctx)
	if err != nil {
		uc.log.Warnf("Use Case: Could not count stored products: %v", err)
		return true
	}
	return len(all) > 0
}

func (uc *productUseCase) Edit(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	if err := domain.ValidatePatch(patch); err != nil {
		uc.log.Warnf("Use Case: Rejected update for product ID %s: %v", id, err)
		return nil, err
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	if patch.IsEmpty() {
		uc.log.Infof("Use Case: Update for product ID %s carries no fields", id)
	}
	updated, err := uc.store.Update(ctx, id, patch)
	if err != nil {
		uc.log.Errorf("Use Case: Store failed to update product ID %s: %v", id, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product updated successfully for ID %s", updated.ID)
	return updated, nil
}

func (uc *productUseCase) Remove(ctx context.Context, id string) error {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	uc.log.Infof("Use Case: Attempting to delete product with ID %s", id)
	if err := uc.store.Delete(ctx, id); err != nil {
		uc.log.Errorf("Use Case: Store failed to delete product ID %s: %v", id, err)
		return err
	}
	return nil
}
