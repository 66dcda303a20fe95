package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samueldmelo/logfoto/internal/domain"
	"github.com/samueldmelo/logfoto/internal/usecase"
)

// registerModel is the registration screen.
type registerModel struct {
	ctx  context.Context
	uc   usecase.ProductUseCase
	form productForm

	saving  bool
	success bool
	flashID int
	err     string
}

func newRegisterModel(ctx context.Context, uc usecase.ProductUseCase) registerModel {
	return registerModel{ctx: ctx, uc: uc, form: newProductForm(true)}
}

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			return m.submit()
		}
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd

	case registeredMsg:
		m.saving = false
		if msg.err != nil {
			var ve *domain.ValidationError
			if errors.As(msg.err, &ve) {
				m.form.errors = ve.Fields
			} else {
				m.err = "Erro ao salvar produto: " + msg.err.Error()
			}
			return m, nil
		}
		m.form = newProductForm(true)
		m.success = true
		m.flashID++
		id := m.flashID
		return m, tea.Tick(domain.SuccessFlashDuration, func(_ time.Time) tea.Msg {
			return flashExpiredMsg{id: id}
		})

	case flashExpiredMsg:
		if msg.id == m.flashID {
			m.success = false
		}
	}
	return m, nil
}

// submit validates locally and, when the form is complete, starts one save.
// Enter pressed while a save is in flight is ignored.
func (m registerModel) submit() (registerModel, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	m.err = ""
	product := m.form.values()
	if err := domain.ValidateRegistration(product); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			m.form.errors = ve.Fields
		}
		return m, nil
	}

	m.form.errors = nil
	m.saving = true
	ctx, uc := m.ctx, m.uc
	return m, func() tea.Msg {
		p, err := uc.Register(ctx, product)
		return registeredMsg{product: p, err: err}
	}
}

func (m registerModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Cadastrar Produto") + "\n\n")
	if m.success {
		b.WriteString(okStyle.Render("✓ Produto cadastrado com sucesso!") + "\n\n")
	}
	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err) + "\n\n")
	}
	b.WriteString(m.form.view(true))
	b.WriteString("\n")
	if m.saving {
		b.WriteString(mutedStyle.Render("Salvando...") + "\n")
	}
	b.WriteString(mutedStyle.Render("tab/shift+tab: campos • ←/→: opções • enter: cadastrar"))
	return b.String()
}
