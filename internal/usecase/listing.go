package usecase

import (
	"fmt"

	"github.com/samueldmelo/logfoto/internal/domain"
)

type ViewMode string

const (
	ViewGrouped    ViewMode = "grouped"
	ViewIndividual ViewMode = "individual"
)

// ParseViewMode falls back to the grouped view for anything it does not know.
func ParseViewMode(s string) ViewMode {
	if ViewMode(s) == ViewIndividual {
		return ViewIndividual
	}
	return ViewGrouped
}

func (m ViewMode) Toggle() ViewMode {
	if m == ViewGrouped {
		return ViewIndividual
	}
	return ViewGrouped
}

// Listing is one browse result. Groups is only filled in the grouped view.
// Stored tells whether the store holds any product at all, matched or not.
type Listing struct {
	Filter   domain.ProductFilter  `json:"filter"`
	Mode     ViewMode              `json:"mode"`
	Products []domain.Product      `json:"products"`
	Groups   []domain.ProductGroup `json:"groups,omitempty"`
	Stored   bool                  `json:"stored"`
}

func (l *Listing) ProductCount() int { return len(l.Products) }

func (l *Listing) SKUCount() int { return len(l.Groups) }

// Summary is the counter shown next to the list title.
func (l *Listing) Summary() string {
	produtos := plural(l.ProductCount(), "produto", "produtos")
	if l.Mode != ViewGrouped {
		return produtos
	}
	return fmt.Sprintf("%s (%s)", plural(l.SKUCount(), "SKU", "SKUs"), produtos)
}

// EmptyMessage is shown in place of the list when nothing matched.
func (l *Listing) EmptyMessage() string {
	if l.Stored {
		return "Nenhum produto encontrado com os filtros aplicados"
	}
	return "Nenhum produto cadastrado ainda"
}

// Variations labels the member count of a group card.
func Variations(n int) string {
	return plural(n, "variação", "variações")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
