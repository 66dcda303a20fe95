package domain

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Categoria string

const (
	CategoriaBolsa     Categoria = "Bolsa"
	CategoriaCinto     Categoria = "Cinto"
	CategoriaAcessorio Categoria = "Acessório"
	CategoriaCarteira  Categoria = "Carteira"
)

// Categorias lists the categories in the order the forms offer them.
var Categorias = []Categoria{CategoriaBolsa, CategoriaCinto, CategoriaAcessorio, CategoriaCarteira}

type Tamanho string

const (
	TamanhoU  Tamanho = "U"
	TamanhoP  Tamanho = "P"
	TamanhoM  Tamanho = "M"
	TamanhoG  Tamanho = "G"
	TamanhoGG Tamanho = "GG"
	TamanhoXG Tamanho = "XG"
)

var Tamanhos = []Tamanho{TamanhoU, TamanhoP, TamanhoM, TamanhoG, TamanhoGG, TamanhoXG}

type Product struct {
	ID               string    `json:"id"`
	SKU              string    `json:"sku"`
	Categoria        string    `json:"categoria"`
	Tamanho          string    `json:"tamanho"`
	Cor              string    `json:"cor"`
	DataHoraCadastro time.Time `json:"dataHoraCadastro"`
}

// NewProduct carries the writable fields of a product registration.
type NewProduct struct {
	SKU       string `json:"sku" form:"sku" validate:"notblank"`
	Categoria string `json:"categoria" form:"categoria" validate:"categoria"`
	Tamanho   string `json:"tamanho" form:"tamanho" validate:"tamanho"`
	Cor       string `json:"cor" form:"cor" validate:"notblank"`
}

// ProductPatch holds one optional slot per mutable field. A nil slot leaves
// the stored value untouched.
type ProductPatch struct {
	SKU       *string `json:"sku,omitempty" validate:"omitempty,notblank"`
	Categoria *string `json:"categoria,omitempty" validate:"omitempty,categoria"`
	Tamanho   *string `json:"tamanho,omitempty" validate:"omitempty,tamanho"`
	Cor       *string `json:"cor,omitempty" validate:"omitempty,notblank"`
}

// PatchFromForm builds a patch from raw form values. Empty values count as
// "not provided", so a field can never be cleared from a form.
func PatchFromForm(sku, categoria, tamanho, cor string) ProductPatch {
	return ProductPatch{
		SKU:       optional(sku),
		Categoria: optional(categoria),
		Tamanho:   optional(tamanho),
		Cor:       optional(cor),
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// IsEmpty reports whether no slot is set.
func (p ProductPatch) IsEmpty() bool {
	return p.SKU == nil && p.Categoria == nil && p.Tamanho == nil && p.Cor == nil
}

// Apply returns a copy of product with the set slots written over it. Cor is
// normalized the same way a store write would.
func (p ProductPatch) Apply(product Product) Product {
	if p.SKU != nil {
		product.SKU = *p.SKU
	}
	if p.Categoria != nil {
		product.Categoria = *p.Categoria
	}
	if p.Tamanho != nil {
		product.Tamanho = *p.Tamanho
	}
	if p.Cor != nil {
		product.Cor = NormalizeColor(*p.Cor)
	}
	return product
}

// NormalizeColor upper-cases a color the way it is persisted.
func NormalizeColor(cor string) string {
	return cases.Upper(language.BrazilianPortuguese).String(cor)
}

func IsCategoria(v string) bool {
	for _, c := range Categorias {
		if string(c) == v {
			return true
		}
	}
	return false
}

func IsTamanho(v string) bool {
	for _, t := range Tamanhos {
		if string(t) == v {
			return true
		}
	}
	return false
}
