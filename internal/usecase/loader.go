package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/samueldmelo/logfoto/internal/domain"
)

// ErrStaleLoad is returned for a load that was overtaken by a newer one.
var ErrStaleLoad = errors.New("list load superseded by a newer one")

// Loader serializes list loads for one screen. Each load gets a generation;
// starting a load cancels the one in flight, and only the latest generation's
// result is ever handed back.
type Loader struct {
	uc ProductUseCase

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func NewLoader(uc ProductUseCase) *Loader {
	return &Loader{uc: uc}
}

// Load begins a load and runs it. The returned generation identifies this
// load; err is ErrStaleLoad when another load started before this one ended.
func (l *Loader) Load(ctx context.Context, filter domain.ProductFilter, mode ViewMode) (*Listing, uint64, error) {
	gen, ctx := l.Begin(ctx)
	listing, err := l.Run(ctx, gen, filter, mode)
	return listing, gen, err
}

// Begin takes the next generation and cancels the load in flight. Callers
// that run the load elsewhere call Begin at dispatch time, so generations
// follow the order loads were requested in.
func (l *Loader) Begin(parent context.Context) (uint64, context.Context) {
	ctx, cancel := context.WithCancel(parent)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	l.cancel = cancel
	return l.gen, ctx
}

// Run browses for generation gen, with the context Begin returned for it.
func (l *Loader) Run(ctx context.Context, gen uint64, filter domain.ProductFilter, mode ViewMode) (*Listing, error) {
	listing, err := l.uc.Browse(ctx, filter, mode)
	if !l.finish(gen) {
		return nil, ErrStaleLoad
	}
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// IsCurrent reports whether gen is still the latest load.
func (l *Loader) IsCurrent(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return gen == l.gen
}

// Cancel aborts the load in flight, if any, and makes its result stale.
func (l *Loader) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *Loader) finish(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return false
	}
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	return true
}
