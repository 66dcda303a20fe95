package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samueldmelo/logfoto/internal/usecase"
)

type tab int

const (
	tabCadastro tab = iota
	tabConsulta
)

// Model is the root of the terminal client: a registration tab and a
// browse tab sharing one use case.
type Model struct {
	tab      tab
	register registerModel
	browse   browseModel
	loader   *usecase.Loader

	// stale marks the browse list as out of date, either never loaded or
	// behind a registration made since.
	stale bool
}

func New(ctx context.Context, uc usecase.ProductUseCase, loader *usecase.Loader, loc *time.Location) Model {
	if loc == nil {
		loc = time.UTC
	}
	return Model{
		register: newRegisterModel(ctx, uc),
		browse:   newBrowseModel(ctx, uc, loader, loc),
		loader:   loader,
		stale:    true,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.loader.Cancel()
			return m, tea.Quit
		case "q":
			if m.tab == tabConsulta && !m.browse.capturesText() {
				m.loader.Cancel()
				return m, tea.Quit
			}
		case "f1":
			return m.switchTo(tabCadastro)
		case "f2":
			return m.switchTo(tabConsulta)
		case "ctrl+t":
			if m.tab == tabCadastro {
				return m.switchTo(tabConsulta)
			}
			return m.switchTo(tabCadastro)
		}

	case registeredMsg:
		if msg.err == nil {
			m.stale = true
		}
		var cmd tea.Cmd
		m.register, cmd = m.register.Update(msg)
		return m, cmd

	case flashExpiredMsg:
		var cmd tea.Cmd
		m.register, cmd = m.register.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	if m.tab == tabCadastro {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.register, cmd = m.register.Update(msg)
			return m, cmd
		}
	}
	m.browse, cmd = m.browse.Update(msg)
	return m, cmd
}

// switchTo changes tab. Entering the browse tab reloads the list when it is
// stale.
func (m Model) switchTo(t tab) (tea.Model, tea.Cmd) {
	m.tab = t
	if t != tabConsulta || !m.stale {
		return m, nil
	}
	m.stale = false
	var cmd tea.Cmd
	m.browse, cmd = m.browse.load()
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("LogFoto") + "  ")
	for _, t := range []struct {
		id    tab
		label string
	}{{tabCadastro, "F1 Cadastro"}, {tabConsulta, "F2 Consulta"}} {
		style := tabStyle
		if t.id == m.tab {
			style = activeTabStyle
		}
		b.WriteString(style.Render(t.label))
	}
	b.WriteString("\n\n")

	if m.tab == tabCadastro {
		b.WriteString(m.register.View())
	} else {
		b.WriteString(m.browse.View())
	}
	b.WriteString("\n\n" + mutedStyle.Render("ctrl+t: trocar aba • ctrl+c: sair"))
	return b.String()
}
