package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samueldmelo/logfoto/internal/domain"
)

// selector cycles through a fixed list of options. Index -1 is the blank
// choice, only reachable when blank is set.
type selector struct {
	options []string
	index   int
	blank   string
}

func newSelector(options []string, blank string) selector {
	return selector{options: options, index: -1, blank: blank}
}

func (s *selector) step(delta int) {
	lo := 0
	if s.blank != "" {
		lo = -1
	}
	n := len(s.options) - lo
	s.index = ((s.index-lo+delta)%n+n)%n + lo
}

func (s *selector) set(value string) {
	s.index = -1
	for i, o := range s.options {
		if o == value {
			s.index = i
			return
		}
	}
	if s.blank == "" && len(s.options) > 0 {
		s.index = 0
	}
}

func (s selector) value() string {
	if s.index < 0 {
		return ""
	}
	return s.options[s.index]
}

func (s selector) view(focused bool) string {
	label := s.blank
	if s.index >= 0 {
		label = s.options[s.index]
	}
	if focused {
		return focusedStyle.Render("‹ " + label + " ›")
	}
	return "  " + label
}

func categoriaNames() []string {
	out := make([]string, 0, len(domain.Categorias))
	for _, c := range domain.Categorias {
		out = append(out, string(c))
	}
	return out
}

func tamanhoNames() []string {
	out := make([]string, 0, len(domain.Tamanhos))
	for _, t := range domain.Tamanhos {
		out = append(out, string(t))
	}
	return out
}

type formField int

const (
	fieldSKU formField = iota
	fieldCategoria
	fieldTamanho
	fieldCor
	formFieldCount
)

// productForm holds the four product fields shared by the registration and
// edit screens.
type productForm struct {
	sku       textinput.Model
	cor       textinput.Model
	categoria selector
	tamanho   selector
	focus     formField
	errors    map[string]string
}

func newTextInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 64
	ti.Width = 32
	ti.Prompt = ""
	return ti
}

// newProductForm builds an empty form. allowBlank lets the selectors show
// the "select one" slot, as registration needs.
func newProductForm(allowBlank bool) productForm {
	catBlank, tamBlank := "", ""
	if allowBlank {
		catBlank, tamBlank = "Selecione uma categoria", "Selecione um tamanho"
	}
	f := productForm{
		sku:       newTextInput("Digite o SKU do produto"),
		cor:       newTextInput("Digite a cor do produto"),
		categoria: newSelector(categoriaNames(), catBlank),
		tamanho:   newSelector(tamanhoNames(), tamBlank),
	}
	f.sku.Focus()
	return f
}

func (f *productForm) fill(p domain.Product) {
	f.sku.SetValue(p.SKU)
	f.cor.SetValue(p.Cor)
	f.categoria.set(p.Categoria)
	f.tamanho.set(p.Tamanho)
	f.errors = nil
}

func (f productForm) values() domain.NewProduct {
	return domain.NewProduct{
		SKU:       f.sku.Value(),
		Categoria: f.categoria.value(),
		Tamanho:   f.tamanho.value(),
		Cor:       f.cor.Value(),
	}
}

func (f *productForm) setFocus(field formField) {
	f.focus = (field + formFieldCount) % formFieldCount
	f.sku.Blur()
	f.cor.Blur()
	switch f.focus {
	case fieldSKU:
		f.sku.Focus()
	case fieldCor:
		f.cor.Focus()
	}
}

// update handles navigation and typing. Enter is left to the caller.
func (f productForm) update(msg tea.KeyMsg) (productForm, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return f, nil
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return f, nil
	case "left", "right":
		delta := 1
		if msg.String() == "left" {
			delta = -1
		}
		switch f.focus {
		case fieldCategoria:
			f.categoria.step(delta)
			f.clearError("categoria")
			return f, nil
		case fieldTamanho:
			f.tamanho.step(delta)
			f.clearError("tamanho")
			return f, nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldSKU:
		f.sku, cmd = f.sku.Update(msg)
		f.clearError("sku")
	case fieldCor:
		f.cor, cmd = f.cor.Update(msg)
		f.clearError("cor")
	}
	return f, cmd
}

func (f *productForm) clearError(field string) {
	if f.errors != nil {
		delete(f.errors, field)
	}
}

func (f productForm) view(required bool) string {
	mark := ""
	if required {
		mark = " *"
	}
	var b strings.Builder
	row := func(field formField, key, label, value string) {
		cursor := "  "
		if f.focus == field {
			cursor = focusedStyle.Render("> ")
		}
		fmt.Fprintf(&b, "%s%s\n    %s\n", cursor, labelStyle.Render(label+mark), value)
		if msg := f.errors[key]; msg != "" {
			fmt.Fprintf(&b, "    %s\n", errorStyle.Render(msg))
		}
	}

	row(fieldSKU, "sku", "SKU", f.sku.View())
	row(fieldCategoria, "categoria", "Categoria", f.categoria.view(f.focus == fieldCategoria))
	row(fieldTamanho, "tamanho", "Tamanho", f.tamanho.view(f.focus == fieldTamanho))
	row(fieldCor, "cor", "Cor", f.cor.View()+mutedStyle.Render("  (será convertida para CAIXA ALTA)"))
	if v := f.cor.Value(); v != "" {
		fmt.Fprintf(&b, "    Será salva como: %s\n", labelStyle.Render(domain.NormalizeColor(v)))
	}
	return b.String()
}
