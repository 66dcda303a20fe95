package domain

import (
	"fmt"
	"time"
)

type ProductFilter struct {
	SKU        string `json:"sku,omitempty" form:"sku"`
	Cor        string `json:"cor,omitempty" form:"cor"`
	Tamanho    string `json:"tamanho,omitempty" form:"tamanho"`
	Categoria  string `json:"categoria,omitempty" form:"categoria"`
	DataInicio string `json:"dataInicio,omitempty" form:"dataInicio"`
	DataFim    string `json:"dataFim,omitempty" form:"dataFim"`
}

type FilterField string

const (
	FilterSKU        FilterField = "sku"
	FilterCor        FilterField = "cor"
	FilterTamanho    FilterField = "tamanho"
	FilterCategoria  FilterField = "categoria"
	FilterDataInicio FilterField = "dataInicio"
	FilterDataFim    FilterField = "dataFim"
)

// FilterFields lists the filter panel fields in display order.
var FilterFields = []FilterField{
	FilterSKU, FilterCor, FilterCategoria, FilterTamanho, FilterDataInicio, FilterDataFim,
}

func ParseFilterField(name string) (FilterField, error) {
	for _, f := range FilterFields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown filter field %q", name)
}

type FilterState int

const (
	FilterEmpty FilterState = iota
	FilterActive
)

func (s FilterState) String() string {
	if s == FilterActive {
		return "active"
	}
	return "empty"
}

func (f ProductFilter) State() FilterState {
	if f.IsEmpty() {
		return FilterEmpty
	}
	return FilterActive
}

func (f ProductFilter) IsEmpty() bool {
	return f == ProductFilter{}
}

// With returns a copy of the filter with one field replaced. Values are kept
// as typed, except cor which the filter panel shows upper-cased.
func (f ProductFilter) With(field FilterField, value string) ProductFilter {
	switch field {
	case FilterSKU:
		f.SKU = value
	case FilterCor:
		f.Cor = NormalizeColor(value)
	case FilterTamanho:
		f.Tamanho = value
	case FilterCategoria:
		f.Categoria = value
	case FilterDataInicio:
		f.DataInicio = value
	case FilterDataFim:
		f.DataFim = value
	}
	return f
}

func (f ProductFilter) Get(field FilterField) string {
	switch field {
	case FilterSKU:
		return f.SKU
	case FilterCor:
		return f.Cor
	case FilterTamanho:
		return f.Tamanho
	case FilterCategoria:
		return f.Categoria
	case FilterDataInicio:
		return f.DataInicio
	case FilterDataFim:
		return f.DataFim
	}
	return ""
}

func (f ProductFilter) Clear() ProductFilter {
	return ProductFilter{}
}

// StartBound is the inclusive lower bound sent to the store for DataInicio.
func (f ProductFilter) StartBound() string {
	if f.DataInicio == "" {
		return ""
	}
	return f.DataInicio + "T00:00:00"
}

// EndBound is the inclusive upper bound sent to the store for DataFim.
func (f ProductFilter) EndBound() string {
	if f.DataFim == "" {
		return ""
	}
	return f.DataFim + "T23:59:59"
}

const boundLayout = "2006-01-02T15:04:05"

// ParseBound parses a bound produced by StartBound or EndBound in loc.
func ParseBound(bound string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(boundLayout, bound, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date bound %q: %w", bound, err)
	}
	return t, nil
}
