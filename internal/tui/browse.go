package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samueldmelo/logfoto/internal/domain"
	"github.com/samueldmelo/logfoto/internal/usecase"
)

const dateTimeLayout = "02/01/2006 15:04:05"

type browseMode int

const (
	browseList browseMode = iota
	browseFilters
	browseEdit
	browseConfirmDelete
)

// browseModel lists, filters, edits and deletes products.
type browseModel struct {
	ctx    context.Context
	uc     usecase.ProductUseCase
	loader *usecase.Loader
	loc    *time.Location

	filter domain.ProductFilter
	panel  filterPanel
	view   usecase.ViewMode
	mode   browseMode

	listing *usecase.Listing
	rows    []domain.Product
	cursor  int
	loading bool
	spinner spinner.Model

	edit    productForm
	editing *domain.Product
	saving  bool

	deleting bool

	notice string
	err    string
}

func newBrowseModel(ctx context.Context, uc usecase.ProductUseCase, loader *usecase.Loader, loc *time.Location) browseModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = focusedStyle
	return browseModel{
		ctx:     ctx,
		uc:      uc,
		loader:  loader,
		loc:     loc,
		panel:   newFilterPanel(),
		view:    usecase.ViewGrouped,
		spinner: sp,
	}
}

// load starts a list load for the current filter and view. The generation is
// taken here, in Update, so a later keystroke always wins whatever order the
// commands run in.
func (m browseModel) load() (browseModel, tea.Cmd) {
	m.loading = true
	gen, ctx := m.loader.Begin(m.ctx)
	loader, filter, view := m.loader, m.filter, m.view
	return m, tea.Batch(func() tea.Msg {
		listing, err := loader.Run(ctx, gen, filter, view)
		return listLoadedMsg{gen: gen, listing: listing, err: err}
	}, m.spinner.Tick)
}

func (m browseModel) Update(msg tea.Msg) (browseModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case listLoadedMsg:
		if errors.Is(msg.err, usecase.ErrStaleLoad) || !m.loader.IsCurrent(msg.gen) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = "Erro ao carregar produtos: " + msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.listing = msg.listing
		m.rows = rowsOf(msg.listing)
		if m.cursor >= len(m.rows) {
			m.cursor = len(m.rows) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case editedMsg:
		m.saving = false
		if msg.err != nil {
			var ve *domain.ValidationError
			if errors.As(msg.err, &ve) {
				m.edit.errors = ve.Fields
			} else {
				m.err = "Erro ao atualizar produto: " + msg.err.Error()
			}
			return m, nil
		}
		m.mode = browseList
		m.editing = nil
		m.notice = "Produto atualizado com sucesso!"
		return m.load()

	case deletedMsg:
		m.mode = browseList
		m.deleting = false
		if msg.err != nil {
			m.err = "Erro ao excluir produto: " + msg.err.Error()
			return m, nil
		}
		m.notice = "Produto excluído com sucesso!"
		return m.load()

	case tea.KeyMsg:
		switch m.mode {
		case browseFilters:
			return m.updateFilters(msg)
		case browseEdit:
			return m.updateEdit(msg)
		case browseConfirmDelete:
			return m.updateConfirm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m browseModel) updateList(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	switch msg.String() {
	case "/", "f":
		m.mode = browseFilters
		m.panel.setFocus(m.panel.focus)
	case "g":
		m.view = m.view.Toggle()
		m.cursor = 0
		return m.load()
	case "r":
		return m.load()
	case "c":
		if m.filter.State() == domain.FilterActive {
			m.filter = m.filter.Clear()
			m.panel.reset()
			return m.load()
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "e", "enter":
		if p, ok := m.selected(); ok {
			m.mode = browseEdit
			m.editing = &p
			m.edit = newProductForm(false)
			m.edit.fill(p)
			m.notice, m.err = "", ""
		}
	case "d", "x":
		if _, ok := m.selected(); ok {
			m.mode = browseConfirmDelete
			m.notice, m.err = "", ""
		}
	}
	return m, nil
}

// updateFilters reloads on every change, so the list follows the panel as
// the user types.
func (m browseModel) updateFilters(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.mode = browseList
		m.panel.blur()
		return m, nil
	}

	var (
		cmd    tea.Cmd
		filter domain.ProductFilter
	)
	m.panel, filter, cmd = m.panel.update(msg, m.filter)
	if filter == m.filter {
		return m, cmd
	}
	m.filter = filter
	m.cursor = 0
	m, load := m.load()
	return m, tea.Batch(cmd, load)
}

func (m browseModel) updateEdit(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = browseList
		m.editing = nil
		return m, nil
	case "enter":
		if m.saving || m.editing == nil {
			return m, nil
		}
		v := m.edit.values()
		patch := domain.PatchFromForm(v.SKU, v.Categoria, v.Tamanho, v.Cor)
		if err := domain.ValidatePatch(patch); err != nil {
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				m.edit.errors = ve.Fields
			}
			return m, nil
		}
		m.saving = true
		ctx, uc, id := m.ctx, m.uc, m.editing.ID
		return m, func() tea.Msg {
			p, err := uc.Edit(ctx, id, patch)
			return editedMsg{product: p, err: err}
		}
	}

	var cmd tea.Cmd
	m.edit, cmd = m.edit.update(msg)
	return m, cmd
}

// updateConfirm ignores keys once a delete is in flight.
func (m browseModel) updateConfirm(msg tea.KeyMsg) (browseModel, tea.Cmd) {
	if m.deleting {
		return m, nil
	}
	switch msg.String() {
	case "s", "y":
		p, ok := m.selected()
		if !ok {
			m.mode = browseList
			return m, nil
		}
		m.deleting = true
		ctx, uc := m.ctx, m.uc
		return m, func() tea.Msg {
			return deletedMsg{id: p.ID, err: uc.Remove(ctx, p.ID)}
		}
	case "n", "esc":
		m.mode = browseList
	}
	return m, nil
}

func (m browseModel) selected() (domain.Product, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return domain.Product{}, false
	}
	return m.rows[m.cursor], true
}

// capturesText reports whether printable keys go to a form field.
func (m browseModel) capturesText() bool {
	return m.mode == browseFilters || m.mode == browseEdit
}

// rowsOf lists products in display order: group by group in the grouped
// view, as returned otherwise.
func rowsOf(l *usecase.Listing) []domain.Product {
	if l == nil {
		return nil
	}
	if l.Mode != usecase.ViewGrouped {
		return l.Products
	}
	rows := make([]domain.Product, 0, len(l.Products))
	for _, g := range l.Groups {
		rows = append(rows, g.Products...)
	}
	return rows
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Consultar Produtos"))
	if m.listing != nil {
		b.WriteString("  " + badgeStyle.Render(m.listing.Summary()))
	}
	grouped, individual := "Agrupado", "Individual"
	if m.view == usecase.ViewGrouped {
		grouped = selectedStyle.Render("[Agrupado]")
	} else {
		individual = selectedStyle.Render("[Individual]")
	}
	fmt.Fprintf(&b, "   %s | %s\n\n", grouped, individual)

	if m.notice != "" {
		b.WriteString(okStyle.Render(m.notice) + "\n\n")
	}
	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err) + "\n\n")
	}

	switch m.mode {
	case browseEdit:
		b.WriteString(titleStyle.Render("Editar Produto") + "\n")
		if m.editing != nil {
			b.WriteString(mutedStyle.Render("Cadastrado em: "+m.format(m.editing.DataHoraCadastro)) + "\n\n")
		}
		b.WriteString(m.edit.view(false))
		if m.saving {
			b.WriteString(mutedStyle.Render("Salvando...") + "\n")
		}
		b.WriteString("\n" + mutedStyle.Render("enter: salvar • esc: cancelar"))
		return b.String()
	case browseConfirmDelete:
		if p, ok := m.selected(); ok {
			fmt.Fprintf(&b, "%s %s (%s, %s)\n", labelStyle.Render("SKU"), p.SKU, p.Tamanho, p.Cor)
		}
		if m.deleting {
			b.WriteString(mutedStyle.Render("Excluindo..."))
			return b.String()
		}
		b.WriteString(errorStyle.Render("Tem certeza que deseja excluir este produto? (s/n)"))
		return b.String()
	}

	b.WriteString(cardStyle.Render(strings.TrimRight(m.panel.view(m.filter, m.mode == browseFilters), "\n")))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Carregando produtos...\n")
	case m.listing == nil:
	case len(m.rows) == 0:
		b.WriteString(mutedStyle.Render(m.listing.EmptyMessage()) + "\n")
	case m.view == usecase.ViewGrouped:
		b.WriteString(m.groupedView())
	default:
		for i, p := range m.rows {
			b.WriteString(m.rowView(i, p, true) + "\n")
		}
	}

	b.WriteString("\n" + mutedStyle.Render("f: filtros • g: agrupado/individual • ↑/↓: selecionar • e: editar • d: excluir • r: recarregar"))
	return b.String()
}

func (m browseModel) groupedView() string {
	var b strings.Builder
	i := 0
	for _, g := range m.listing.Groups {
		var card strings.Builder
		fmt.Fprintf(&card, "%s %s  [%s] [%s]\n", mutedStyle.Render("SKU"), labelStyle.Render(g.SKU), g.Categoria, usecase.Variations(g.TotalVariations))
		fmt.Fprintf(&card, "Cores disponíveis: %s\n", strings.Join(g.Colors(), ", "))
		fmt.Fprintf(&card, "Tamanhos disponíveis: %s\n", strings.Join(g.Sizes(), ", "))
		fmt.Fprintf(&card, "Último cadastro: %s", m.format(g.Latest().DataHoraCadastro))
		for _, p := range g.Products {
			card.WriteString("\n" + m.rowView(i, p, false))
			i++
		}
		b.WriteString(cardStyle.Render(card.String()) + "\n")
	}
	return b.String()
}

func (m browseModel) rowView(i int, p domain.Product, withSKU bool) string {
	cursor := "  "
	if i == m.cursor {
		cursor = selectedStyle.Render("> ")
	}
	line := fmt.Sprintf("Tamanho: %-3s Cor: %-16s Cadastrado em: %s", p.Tamanho, p.Cor, m.format(p.DataHoraCadastro))
	if withSKU {
		line = fmt.Sprintf("%-12s %-10s %s", p.SKU, p.Categoria, line)
	}
	return cursor + line
}

func (m browseModel) format(t time.Time) string {
	return t.In(m.loc).Format(dateTimeLayout)
}
