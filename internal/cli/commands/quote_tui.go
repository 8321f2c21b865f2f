package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lmstudios/lmsite/internal/cli/output"
	"github.com/lmstudios/lmsite/internal/content"
	"github.com/lmstudios/lmsite/internal/state"
	"github.com/lmstudios/lmsite/internal/wizard"
)

// submitFunc stores a submitted draft and returns the saved quote.
type submitFunc func(ctx context.Context, d wizard.Draft) (*state.Quote, error)

// submittedMsg reports the outcome of a submit.
type submittedMsg struct {
	quote *state.Quote
	err   error
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	problemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

// quoteModel drives wizard.Wizard from the terminal. Each step shows one
// text input per field; enter on the last field advances, esc goes back.
type quoteModel struct {
	ctx      context.Context
	wiz      *wizard.Wizard
	options  content.QuoteOptions
	submit   submitFunc
	inputs   []textinput.Model
	focus    int
	problems map[string]string
	notice   string
	quote    *state.Quote
	busy     bool
	quitting bool
}

func newQuoteModel(ctx context.Context, wiz *wizard.Wizard, opts content.QuoteOptions, submit submitFunc) quoteModel {
	m := quoteModel{ctx: ctx, wiz: wiz, options: opts, submit: submit}
	m.loadStep()
	return m
}

// loadStep builds inputs for the wizard's current step from the draft.
func (m *quoteModel) loadStep() {
	fields := wizard.StepFields(m.wiz.Step)
	m.inputs = make([]textinput.Model, len(fields))
	for i, name := range fields {
		in := textinput.New()
		in.Prompt = "> "
		in.CharLimit = wizard.MaxLength(name)
		in.SetValue(m.wiz.Draft.Get(name))
		if choices := m.choices(name); len(choices) > 0 {
			in.Placeholder = choices[0]
		}
		m.inputs[i] = in
	}
	m.focus = 0
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
}

func (m quoteModel) fieldName(i int) string {
	return wizard.StepFields(m.wiz.Step)[i]
}

func (m quoteModel) choices(field string) []string {
	switch field {
	case wizard.FieldProjectType:
		return m.options.ProjectTypes
	case wizard.FieldBudget:
		return m.options.Budgets
	case wizard.FieldTimeline:
		return m.options.Timelines
	}
	return nil
}

// values collects the current step's inputs.
func (m quoteModel) values() map[string]string {
	out := make(map[string]string, len(m.inputs))
	for i, in := range m.inputs {
		out[m.fieldName(i)] = in.Value()
	}
	return out
}

func (m quoteModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m quoteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		m.busy = false
		if msg.err != nil {
			m.notice = "Could not save your request: " + msg.err.Error()
			return m, nil
		}
		m.quote = msg.quote
		m.quitting = true
		return m, tea.Quit

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.Type {
		case tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyTab, tea.KeyDown:
			return m, m.moveFocus(1)
		case tea.KeyShiftTab, tea.KeyUp:
			return m, m.moveFocus(-1)
		case tea.KeyEsc:
			return m.back()
		case tea.KeyEnter:
			if m.focus < len(m.inputs)-1 {
				return m, m.moveFocus(1)
			}
			return m.advance()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *quoteModel) moveFocus(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

func (m quoteModel) back() (tea.Model, tea.Cmd) {
	if m.wiz.Step == wizard.FirstStep {
		m.quitting = true
		return m, tea.Quit
	}
	_ = m.wiz.Update(m.values())
	_ = m.wiz.Back()
	m.problems = nil
	m.notice = ""
	m.loadStep()
	return m, nil
}

func (m quoteModel) advance() (tea.Model, tea.Cmd) {
	m.notice = ""
	if err := m.wiz.Update(m.values()); err != nil {
		m.notice = err.Error()
		return m, nil
	}

	shown := m.wiz.Step
	if shown == wizard.LastStep {
		before := *m.wiz
		draft, err := m.wiz.Submit(time.Now())
		if err != nil {
			m.showError(err, shown)
			return m, nil
		}
		// Unsubmit until the store confirms, so a failed save can be retried.
		*m.wiz = before
		m.busy = true
		ctx, submit := m.ctx, m.submit
		return m, func() tea.Msg {
			q, err := submit(ctx, draft)
			return submittedMsg{quote: q, err: err}
		}
	}

	if err := m.wiz.Next(); err != nil {
		m.showError(err, shown)
		return m, nil
	}
	m.problems = nil
	m.loadStep()
	return m, nil
}

// showError displays err. Submit may jump back to an earlier incomplete
// step, in which case that step's inputs are loaded.
func (m *quoteModel) showError(err error, shown wizard.Step) {
	var inc *wizard.IncompleteStepError
	if errors.As(err, &inc) {
		m.problems = inc.Fields
		if m.wiz.Step != shown {
			m.loadStep()
		}
		return
	}
	m.notice = err.Error()
}

func (m quoteModel) View() string {
	if m.quote != nil {
		return doneStyle.Render("Thanks, "+m.quote.Name+". Your request was sent.") +
			"\n" + hintStyle.Render("Reference: "+m.quote.ID) + "\n"
	}
	if m.quitting {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render(fmt.Sprintf("Step %d of %d: %s",
		int(m.wiz.Step), len(wizard.Steps), m.wiz.Step.Title())))

	for i, in := range m.inputs {
		name := m.fieldName(i)
		label := output.Label(name)
		if wizard.Required(name) {
			label += " *"
		}
		b.WriteString(labelStyle.Render(label) + "\n")
		b.WriteString(in.View() + "\n")
		if choices := m.choices(name); len(choices) > 0 {
			b.WriteString(hintStyle.Render("  "+strings.Join(choices, " | ")) + "\n")
		}
		if p, ok := m.problems[name]; ok {
			b.WriteString(problemStyle.Render("  "+p) + "\n")
		}
		b.WriteString("\n")
	}

	if len(m.problems) > 0 {
		names := make([]string, 0, len(m.problems))
		for n := range m.problems {
			names = append(names, output.Label(n))
		}
		sort.Strings(names)
		b.WriteString(problemStyle.Render("Please fix: "+strings.Join(names, ", ")) + "\n")
	}
	if m.notice != "" {
		b.WriteString(problemStyle.Render(m.notice) + "\n")
	}

	action := "next"
	if m.wiz.Step == wizard.LastStep {
		action = "submit"
	}
	b.WriteString(hintStyle.Render(fmt.Sprintf("tab: next field  enter: %s  esc: back  ctrl+c: quit", action)))
	b.WriteString("\n")
	return b.String()
}
