package repository

import (
	"strings"
	"time"

	"github.com/samueldmelo/logfoto/internal/domain"
)

const productsTable = "products"

// Column names of the products table. Nothing outside this package refers to them.
const (
	colID               = "id"
	colSKU              = "sku"
	colCategoria        = "categoria"
	colTamanho          = "tamanho"
	colCor              = "cor"
	colDataHoraCadastro = "data_hora_cadastro"
	colCreatedAt        = "created_at"
	colUpdatedAt        = "updated_at"
)

type productRow struct {
	ID               string    `json:"id"`
	SKU              string    `json:"sku"`
	Categoria        string    `json:"categoria"`
	Tamanho          string    `json:"tamanho"`
	Cor              string    `json:"cor"`
	DataHoraCadastro time.Time `json:"data_hora_cadastro"`
}

func (r productRow) toDomain() domain.Product {
	return domain.Product{
		ID:               r.ID,
		SKU:              r.SKU,
		Categoria:        r.Categoria,
		Tamanho:          r.Tamanho,
		Cor:              r.Cor,
		DataHoraCadastro: r.DataHoraCadastro,
	}
}

type column struct {
	name  string
	value string
}

// insertColumns maps a registration onto table columns, upper-casing cor.
func insertColumns(p domain.NewProduct) []column {
	return []column{
		{colSKU, p.SKU},
		{colCategoria, p.Categoria},
		{colTamanho, p.Tamanho},
		{colCor, domain.NormalizeColor(p.Cor)},
	}
}

// updateColumns maps the set slots of a patch onto table columns, in a fixed
// order, upper-casing cor. A slot holding "" counts as not provided, so no
// backend ever clears a field.
func updateColumns(p domain.ProductPatch) []column {
	var cols []column
	add := func(name string, v *string) {
		if v != nil && *v != "" {
			cols = append(cols, column{name, *v})
		}
	}
	add(colSKU, p.SKU)
	add(colCategoria, p.Categoria)
	add(colTamanho, p.Tamanho)
	if p.Cor != nil {
		cor := domain.NormalizeColor(*p.Cor)
		add(colCor, &cor)
	}
	return cols
}

func columnsMap(cols []column) map[string]string {
	m := make(map[string]string, len(cols))
	for _, c := range cols {
		m[c.name] = c.value
	}
	return m
}

func toDomainList(rows []productRow) []domain.Product {
	products := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		products = append(products, r.toDomain())
	}
	return products
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likeLiteral escapes the LIKE wildcards in v so it matches as plain text.
// Postgres uses backslash as the default LIKE escape.
func likeLiteral(v string) string {
	return likeEscaper.Replace(v)
}

// containsFold is the substring match every backend implements for sku and
// cor: literal and case-insensitive. An empty sub matches anything.
func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
