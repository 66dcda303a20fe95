package domain

import "sort"

type ProductGroup struct {
	SKU             string    `json:"sku"`
	Categoria       string    `json:"categoria"`
	Products        []Product `json:"products"`
	TotalVariations int       `json:"totalVariations"`
}

// GroupBySKU partitions products by SKU. Members keep their input order and
// the groups are ordered by their first member's registration time, newest
// first. The category of a group is the one of the first member seen; later
// members with a different category do not change it.
func GroupBySKU(products []Product) []ProductGroup {
	index := make(map[string]int)
	groups := []ProductGroup{}

	for _, p := range products {
		i, ok := index[p.SKU]
		if !ok {
			i = len(groups)
			index[p.SKU] = i
			groups = append(groups, ProductGroup{SKU: p.SKU, Categoria: p.Categoria})
		}
		groups[i].Products = append(groups[i].Products, p)
		groups[i].TotalVariations = len(groups[i].Products)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Products[0].DataHoraCadastro.After(groups[b].Products[0].DataHoraCadastro)
	})
	return groups
}

// Latest returns the first member, which is the newest one when the input was
// ordered newest first.
func (g ProductGroup) Latest() Product {
	return g.Products[0]
}

// Colors returns the distinct colors of the group in first-seen order.
func (g ProductGroup) Colors() []string {
	return distinct(g.Products, func(p Product) string { return p.Cor })
}

// Sizes returns the distinct sizes of the group in first-seen order.
func (g ProductGroup) Sizes() []string {
	return distinct(g.Products, func(p Product) string { return p.Tamanho })
}

func distinct(products []Product, field func(Product) string) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0, len(products))
	for _, p := range products {
		v := field(p)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
