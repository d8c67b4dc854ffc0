// Package tui is a terminal practice table.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"highrollers/internal/game"
	"highrollers/internal/session"
	"highrollers/internal/stats"
)

const sessionKey = "tui:local"

// dealerCardMsg carries a view pushed while the dealer draws.
type dealerCardMsg struct{ view game.View }

// actionDoneMsg reports the end of a table action.
type actionDoneMsg struct {
	action string
	err    error
}

// Model is the bubbletea model for a single local seat. Table actions run
// as commands so paced dealer draws never freeze the UI.
type Model struct {
	ctx     context.Context
	session *session.Session
	updates chan game.View
	logger  *log.Logger

	view    game.View
	summary stats.Summary
	status  string
	failed  bool
	busy    bool

	width    int
	quitting bool
}

// NewModel seats a practice session from sessions.
func NewModel(ctx context.Context, sessions *session.Manager, logger *log.Logger) *Model {
	m := &Model{
		ctx:     ctx,
		updates: make(chan game.View, 16),
		logger:  logger.WithPrefix("tui"),
		status:  "Press d to deal.",
	}
	m.session = sessions.GetOrCreate(sessionKey, game.OnDealerCard(m.forward))
	m.view = m.session.Table().View()
	return m
}

// forward runs under the table lock, so it must never block.
func (m *Model) forward(v game.View) {
	select {
	case m.updates <- v:
	default:
		m.logger.Debug("Dropped dealer update")
	}
}

func (m *Model) Init() tea.Cmd {
	return m.listen()
}

func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case v := <-m.updates:
			return dealerCardMsg{view: v}
		case <-m.ctx.Done():
			return tea.Quit()
		}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case dealerCardMsg:
		// A late draw must not overwrite the settled table.
		if m.busy {
			m.view = msg.view
		}
		return m, m.listen()

	case actionDoneMsg:
		m.busy = false
		m.view = m.session.Table().View()
		m.summary = m.session.Stats()
		m.failed = msg.err != nil
		if msg.err != nil {
			m.status = describe(msg.err)
			m.logger.Debug("Action rejected", "action", msg.action, "err", msg.err)
		} else {
			m.status = m.hint()
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "d":
			return m, m.run("deal", func(t *game.Table) error { return t.Deal(m.ctx, 0) })
		case "h":
			return m, m.run("hit", func(t *game.Table) error { return t.Hit(m.ctx) })
		case "s":
			return m, m.run("stand", func(t *game.Table) error { return t.Stand(m.ctx) })
		case "x":
			return m, m.run("double", func(t *game.Table) error { return t.Double(m.ctx) })
		case "p":
			return m, m.run("split", func(t *game.Table) error { return t.Split(m.ctx) })
		}
	}
	return m, nil
}

// run starts fn unless another action is still in flight.
func (m *Model) run(action string, fn func(t *game.Table) error) tea.Cmd {
	if m.busy {
		return nil
	}
	m.busy = true
	t := m.session.Table()
	return func() tea.Msg {
		return actionDoneMsg{action: action, err: fn(t)}
	}
}

func (m *Model) hint() string {
	switch m.view.Phase {
	case game.Playing.String():
		keys := []string{"h hit", "s stand"}
		if m.view.CanDouble {
			keys = append(keys, "x double")
		}
		if m.view.CanSplit {
			keys = append(keys, "p split")
		}
		return strings.Join(keys, " · ")
	case game.Finished.String():
		return "Press d to deal again."
	}
	return "Press d to deal."
}

func describe(err error) string {
	switch {
	case game.IsValidation(err):
		return "Not allowed: " + err.Error()
	default:
		return "Card supply failed, nothing changed: " + err.Error()
	}
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	table := PaneStyle.Render(m.renderTable())
	side := PaneStyle.Render(m.renderStats())
	body := lipgloss.JoinHorizontal(lipgloss.Top, table, side)

	status := InfoStyle.Render(m.status)
	if m.failed {
		status = ErrorStyle.Render(m.status)
	}
	keys := InfoStyle.Render("d deal · h hit · s stand · x double · p split · q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render("HighRollers · practice"),
		body,
		status,
		keys,
	)
}

func (m *Model) renderTable() string {
	var sb strings.Builder
	v := m.view

	sb.WriteString(LabelStyle.Render("Dealer"))
	if len(v.Dealer) > 0 {
		fmt.Fprintf(&sb, "  %s  (%d)", renderCards(v.Dealer), v.DealerTotal)
	}
	sb.WriteString("\n\n")

	if len(v.Hands) == 0 {
		sb.WriteString(InfoStyle.Render("No cards dealt yet."))
		return sb.String()
	}

	for i, h := range v.Hands {
		label := "You"
		if v.HasSplit {
			label = fmt.Sprintf("Hand %d", i+1)
		}
		marker := "  "
		if v.Phase == game.Playing.String() && i == v.Current {
			marker = WarningStyle.Render("▶ ")
		}
		fmt.Fprintf(&sb, "%s%s  %s  (%d)", marker, LabelStyle.Render(label), renderCards(h.Cards), h.Total)
		if h.Doubled {
			sb.WriteString(" x2")
		}
		if r := renderResult(h); r != "" {
			sb.WriteString("  " + r)
		}
		sb.WriteString("\n")
	}

	if len(v.Feedback) > 0 {
		sb.WriteString("\n")
		for _, f := range v.Feedback {
			if f.Correct {
				sb.WriteString(SuccessStyle.Render("✓ "+f.Message) + "\n")
			} else {
				sb.WriteString(ErrorStyle.Render("✗ "+f.Message) + "\n")
			}
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m *Model) renderStats() string {
	s := m.summary
	lines := []string{
		LabelStyle.Render("Stats"),
		fmt.Sprintf("Hands     %d", s.HandsPlayed),
		fmt.Sprintf("Accuracy  %d%%", s.Percent()),
		fmt.Sprintf("Correct   %d", s.CorrectMoves),
		fmt.Sprintf("Wrong     %d", s.WrongMoves),
		fmt.Sprintf("Streak    %s", streak(s)),
		fmt.Sprintf("Best run  %d", s.LongestWinStreak),
	}
	return strings.Join(lines, "\n")
}

func streak(s stats.Summary) string {
	switch {
	case s.WinStreak > 0:
		return SuccessStyle.Render(fmt.Sprintf("%dW", s.WinStreak))
	case s.LossStreak > 0:
		return ErrorStyle.Render(fmt.Sprintf("%dL", s.LossStreak))
	}
	return "-"
}

func renderCards(cards []game.CardView) string {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		parts = append(parts, renderCard(c))
	}
	return strings.Join(parts, " ")
}

func renderCard(c game.CardView) string {
	if c.Hidden {
		return HiddenCardStyle.Render("??")
	}
	suit := game.Suit(c.Suit)
	text := c.Rank + suit.Symbol()
	if suit == game.Hearts || suit == game.Diamonds {
		return RedCardStyle.Render(text)
	}
	return BlackCardStyle.Render(text)
}

func renderResult(h game.HandView) string {
	switch h.Result {
	case "win":
		if h.Natural {
			return SuccessStyle.Render("BLACKJACK")
		}
		return SuccessStyle.Render("WIN")
	case "push":
		return WarningStyle.Render("PUSH")
	case "lose":
		return ErrorStyle.Render("LOSE")
	}
	return ""
}
