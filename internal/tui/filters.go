package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samueldmelo/logfoto/internal/domain"
)

var filterLabels = map[domain.FilterField]string{
	domain.FilterSKU:        "SKU",
	domain.FilterCor:        "Cor",
	domain.FilterCategoria:  "Categoria",
	domain.FilterTamanho:    "Tamanho",
	domain.FilterDataInicio: "Data Início",
	domain.FilterDataFim:    "Data Fim",
}

// filterPanel edits the six filter fields. Categoria and tamanho are
// selectors; the rest are free text.
type filterPanel struct {
	inputs    map[domain.FilterField]*textinput.Model
	categoria selector
	tamanho   selector
	focus     int
}

func newFilterPanel() filterPanel {
	p := filterPanel{
		inputs:    make(map[domain.FilterField]*textinput.Model),
		categoria: newSelector(categoriaNames(), "Todas"),
		tamanho:   newSelector(tamanhoNames(), "Todos"),
	}
	placeholders := map[domain.FilterField]string{
		domain.FilterSKU:        "Buscar por SKU",
		domain.FilterCor:        "Buscar por cor",
		domain.FilterDataInicio: "AAAA-MM-DD",
		domain.FilterDataFim:    "AAAA-MM-DD",
	}
	for field, ph := range placeholders {
		ti := newTextInput(ph)
		ti.Width = 20
		p.inputs[field] = &ti
	}
	return p
}

func (p filterPanel) field() domain.FilterField {
	return domain.FilterFields[p.focus]
}

func (p *filterPanel) setFocus(i int) {
	n := len(domain.FilterFields)
	p.focus = (i%n + n) % n
	for field, ti := range p.inputs {
		if field == p.field() {
			ti.Focus()
		} else {
			ti.Blur()
		}
	}
}

func (p *filterPanel) blur() {
	for _, ti := range p.inputs {
		ti.Blur()
	}
}

// reset empties every field, matching a cleared filter.
func (p *filterPanel) reset() {
	for _, ti := range p.inputs {
		ti.SetValue("")
	}
	p.categoria.index = -1
	p.tamanho.index = -1
}

func (p filterPanel) value(field domain.FilterField) string {
	switch field {
	case domain.FilterCategoria:
		return p.categoria.value()
	case domain.FilterTamanho:
		return p.tamanho.value()
	}
	return p.inputs[field].Value()
}

// update applies one key to the focused field and returns the filter with
// that field replaced.
func (p filterPanel) update(msg tea.KeyMsg, filter domain.ProductFilter) (filterPanel, domain.ProductFilter, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		p.setFocus(p.focus + 1)
		return p, filter, nil
	case "shift+tab", "up":
		p.setFocus(p.focus - 1)
		return p, filter, nil
	}

	field := p.field()
	var cmd tea.Cmd
	switch field {
	case domain.FilterCategoria, domain.FilterTamanho:
		sel := &p.categoria
		if field == domain.FilterTamanho {
			sel = &p.tamanho
		}
		switch msg.String() {
		case "left":
			sel.step(-1)
		case "right":
			sel.step(1)
		}
	default:
		*p.inputs[field], cmd = p.inputs[field].Update(msg)
	}
	return p, filter.With(field, p.value(field)), cmd
}

func (p filterPanel) view(filter domain.ProductFilter, focused bool) string {
	var b strings.Builder
	for i, field := range domain.FilterFields {
		cursor := "  "
		if focused && i == p.focus {
			cursor = focusedStyle.Render("> ")
		}
		var value string
		switch field {
		case domain.FilterCategoria:
			value = p.categoria.view(focused && i == p.focus)
		case domain.FilterTamanho:
			value = p.tamanho.view(focused && i == p.focus)
		default:
			value = p.inputs[field].View()
		}
		fmt.Fprintf(&b, "%s%-12s %s\n", cursor, filterLabels[field], value)
	}
	if filter.State() == domain.FilterActive {
		fmt.Fprintf(&b, "  %s\n", mutedStyle.Render("[c] Limpar Filtros"))
	}
	return b.String()
}
