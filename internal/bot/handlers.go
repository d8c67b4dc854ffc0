package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"highrollers/internal/auth"
	"highrollers/internal/config"
	"highrollers/internal/game"
	"highrollers/internal/player"
	"highrollers/internal/session"
)

// Sender is the part of the Telegram API the handler uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handler struct {
	bot      Sender
	cfg      *config.Config
	sessions *session.Manager
	repo     player.Repository
	logger   *log.Logger

	mu      sync.Mutex
	lastBet map[int64]int
}

func NewHandler(bot Sender, cfg *config.Config, sessions *session.Manager, repo player.Repository, logger *log.Logger) *Handler {
	return &Handler{
		bot:      bot,
		cfg:      cfg,
		sessions: sessions,
		repo:     repo,
		logger:   logger,
		lastBet:  make(map[int64]int),
	}
}

// ============ Helpers ============

func (h *Handler) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Error("Send failed", "chat", chatID, "err", err)
	}
}

func (h *Handler) sendWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Error("Send failed", "chat", chatID, "err", err)
	}
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Debug("Callback answer failed", "err", err)
	}
}

func sessionKey(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

// session returns the chat's seat, signing it in on first use. A Telegram
// chat is its own identity.
func (h *Handler) session(ctx context.Context, chatID int64) (*session.Session, error) {
	s := h.sessions.GetOrCreate(sessionKey(chatID))
	if s.Identity() != nil {
		return s, nil
	}
	if err := s.SignIn(ctx, &auth.Identity{UserID: sessionKey(chatID)}); err != nil {
		return nil, err
	}
	return s, nil
}

func (h *Handler) rememberBet(chatID int64, bet int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastBet[chatID] = bet
}

func (h *Handler) betFor(chatID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cfg.BetOrDefault(h.lastBet[chatID])
}

// ============ Formatting ============

func formatCards(cards []game.CardView) string {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		if c.Hidden {
			parts = append(parts, "?")
			continue
		}
		parts = append(parts, c.Rank+game.Suit(c.Suit).Symbol())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func resultText(result string, natural bool) string {
	switch {
	case result == "win" && natural:
		return "🎰 BLACKJACK!"
	case result == "win":
		return "🎉 Win"
	case result == "push":
		return "🤝 Push"
	case result == "lose":
		return "😞 Lose"
	}
	return ""
}

// formatView renders the table: dealer, each hand, then the feedback panel
// and, once the round is over, the results.
func formatView(v game.View, credits int64) string {
	var sb strings.Builder

	if v.Mode == game.Credit.String() {
		var stake int64
		for _, hv := range v.Hands {
			stake += hv.Stake
		}
		fmt.Fprintf(&sb, "💰 Stake: %d | Credits: %d\n\n", stake, credits)
	} else {
		sb.WriteString("🎓 Practice\n\n")
	}

	fmt.Fprintf(&sb, "🃏 Dealer: %s (%d)\n", formatCards(v.Dealer), v.DealerTotal)
	for i, hv := range v.Hands {
		label := "🎴 You"
		if v.HasSplit {
			label = fmt.Sprintf("🎴 Hand %d", i+1)
		}
		fmt.Fprintf(&sb, "%s: %s (%d)", label, formatCards(hv.Cards), hv.Total)
		if hv.Doubled {
			sb.WriteString(" x2")
		}
		if v.Phase == game.Playing.String() && v.HasSplit && i == v.Current {
			sb.WriteString(" ◀")
		}
		if r := resultText(hv.Result, hv.Natural); r != "" {
			sb.WriteString(" " + r)
		}
		sb.WriteString("\n")
	}

	if len(v.Feedback) > 0 {
		sb.WriteString("\n")
		for _, f := range v.Feedback {
			mark := "❌"
			if f.Correct {
				mark = "✅"
			}
			fmt.Fprintf(&sb, "%s %s\n", mark, f.Message)
		}
	}

	if o := v.Outcome; o != nil && v.Mode == game.Credit.String() {
		sb.WriteString("\n")
		switch {
		case o.Net > 0:
			fmt.Fprintf(&sb, "💰 +%d\n", o.Net)
		case o.Net < 0:
			fmt.Fprintf(&sb, "💸 %d\n", o.Net)
		default:
			sb.WriteString("↔️ 0\n")
		}
		fmt.Fprintf(&sb, "💵 Credits: %d", credits)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (h *Handler) errorText(err error) string {
	var supply *game.SupplyError
	switch {
	case errors.Is(err, game.ErrInvalidBet):
		if h.cfg.MaxBet > 0 {
			return fmt.Sprintf("❌ Bet must be between %d and %d", h.cfg.MinBet, h.cfg.MaxBet)
		}
		return fmt.Sprintf("❌ Minimum bet is %d", h.cfg.MinBet)
	case errors.Is(err, game.ErrInsufficientCredits):
		return "❌ Not enough credits"
	case errors.Is(err, game.ErrDoubleNotAllowed):
		return "❌ You can't double now"
	case errors.Is(err, game.ErrSplitNotAllowed):
		return "❌ You can't split now"
	case errors.Is(err, game.ErrNotAllowed):
		return "❌ Not now. Use /play or /practice to start a round"
	case errors.As(err, &supply):
		return "⚠️ The dealer fumbled the shoe. Nothing changed, try again."
	}
	return "⚠️ Something went wrong, try again later."
}

// show sends the table with the keyboard that fits its phase.
func (h *Handler) show(chatID int64, s *session.Session, v game.View) {
	text := formatView(v, s.Stats().Credits)
	if v.Phase == game.Playing.String() {
		h.sendWithKeyboard(chatID, text, GameKeyboard(GameKeyboardOptions{
			CanDouble: v.CanDouble,
			CanSplit:  v.CanSplit,
		}))
		return
	}
	h.sendWithKeyboard(chatID, text, EndGameKeyboard(v.Mode == game.Practice.String(), h.betFor(chatID)))
}

// ============ Commands ============

func (h *Handler) HandleStart(ctx context.Context, chatID int64) {
	s, err := h.session(ctx, chatID)
	if err != nil {
		h.logger.Error("Sign in failed", "chat", chatID, "err", err)
		h.send(chatID, h.errorText(err))
		return
	}

	h.send(chatID, fmt.Sprintf(
		"🎰 Welcome to HighRollers!\n\n"+
			"💵 Credits: %d\n\n"+
			"Every decision is checked against basic strategy.\n\n"+
			"/play [bet] — play for credits\n"+
			"/practice — play without stakes\n"+
			"/stats — your numbers\n"+
			"/top — leaderboard\n"+
			"/help — rules",
		s.Stats().Credits,
	))
}

func (h *Handler) HandleHelp(chatID int64) {
	r := h.cfg.Rules()
	soft17 := "stands"
	if r.HitSoft17 {
		soft17 = "hits"
	}
	h.send(chatID, fmt.Sprintf(
		"📖 Rules\n\n"+
			"Get closer to 21 than the dealer without going over.\n"+
			"Aces count 1 or 11, faces count 10.\n\n"+
			"• Blackjack pays 3:2, rounded down to whole credits (an odd bet loses the half credit)\n"+
			"• Dealer %s on soft 17\n"+
			"• %d decks, up to %d hands after splits\n"+
			"• Double on any two cards\n\n"+
			"Each move is graded: ✅ matches basic strategy, ❌ does not.",
		soft17, r.Decks, r.MaxHands,
	))
}

func (h *Handler) HandleStats(ctx context.Context, chatID int64) {
	s, err := h.session(ctx, chatID)
	if err != nil {
		h.send(chatID, h.errorText(err))
		return
	}

	st := s.Stats()
	h.send(chatID, fmt.Sprintf(
		"📊 Your stats\n\n"+
			"💵 Credits: %d\n"+
			"🎮 Hands: %d\n"+
			"🎯 Accuracy: %d%% (%d ✅ / %d ❌)\n"+
			"🔥 Longest win streak: %d\n"+
			"🥶 Longest loss streak: %d",
		st.Credits, st.HandsPlayed, st.Percent(), st.CorrectMoves, st.WrongMoves,
		st.LongestWinStreak, st.LongestLossStreak,
	))
}

func (h *Handler) HandleTop(ctx context.Context, chatID int64) {
	top, err := h.repo.Top(ctx, 10)
	if err != nil {
		h.logger.Error("Leaderboard failed", "err", err)
		h.send(chatID, h.errorText(err))
		return
	}
	if len(top) == 0 {
		h.send(chatID, "📊 Nobody has played yet")
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 Top players\n\n")
	medals := []string{"🥇", "🥈", "🥉"}
	for i, p := range top {
		medal := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			medal = medals[i]
		}
		name := p.UserID
		if p.UserID == sessionKey(chatID) {
			name = "you"
		}
		fmt.Fprintf(&sb, "%s %s | %d hands | %d 💰 | %d%%\n", medal, name, p.HandsPlayed, p.Credits, p.Accuracy)
	}
	h.send(chatID, strings.TrimRight(sb.String(), "\n"))
}

func (h *Handler) HandlePlay(ctx context.Context, chatID int64, args []string) {
	bet := h.betFor(chatID)
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			h.send(chatID, fmt.Sprintf("❌ Invalid bet. Example: /play %d", h.cfg.DefaultBet))
			return
		}
		bet = n
	}
	h.deal(ctx, chatID, false, bet)
}

func (h *Handler) HandlePractice(ctx context.Context, chatID int64) {
	h.deal(ctx, chatID, true, 0)
}

func (h *Handler) deal(ctx context.Context, chatID int64, practice bool, bet int) {
	s, err := h.session(ctx, chatID)
	if err != nil {
		h.send(chatID, h.errorText(err))
		return
	}
	if err := s.SetPractice(practice); err != nil {
		h.send(chatID, h.errorText(err))
		return
	}

	if err := s.Table().Deal(ctx, int64(bet)); err != nil {
		h.logFailure(chatID, "deal", err)
		h.send(chatID, h.errorText(err))
		return
	}
	if !practice {
		h.rememberBet(chatID, bet)
	}
	h.show(chatID, s, s.Table().View())
}

func (h *Handler) logFailure(chatID int64, op string, err error) {
	if game.IsValidation(err) {
		h.logger.Debug("Rejected", "chat", chatID, "op", op, "err", err)
		return
	}
	h.logger.Error("Action failed", "chat", chatID, "op", op, "err", err)
}

// ============ Callbacks ============

func (h *Handler) HandleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil || callback.Message.Chat == nil {
		h.answerCallback(callback.ID, "")
		return
	}
	chatID := callback.Message.Chat.ID

	switch callback.Data {
	case CallbackPlayAgain:
		h.answerCallback(callback.ID, "")
		h.deal(ctx, chatID, false, h.betFor(chatID))
		return
	case CallbackPracticeAgain:
		h.answerCallback(callback.ID, "")
		h.HandlePractice(ctx, chatID)
		return
	case CallbackStats:
		h.answerCallback(callback.ID, "")
		h.HandleStats(ctx, chatID)
		return
	}

	action, err := game.ParseAction(callback.Data)
	if err != nil {
		h.answerCallback(callback.ID, "")
		return
	}

	s, err := h.session(ctx, chatID)
	if err != nil {
		h.answerCallback(callback.ID, h.errorText(err))
		return
	}

	if err := h.act(ctx, s.Table(), action); err != nil {
		h.logFailure(chatID, action.String(), err)
		h.answerCallback(callback.ID, h.errorText(err))
		return
	}
	h.answerCallback(callback.ID, "")
	h.show(chatID, s, s.Table().View())
}

func (h *Handler) act(ctx context.Context, t *game.Table, a game.Action) error {
	switch a {
	case game.Hit:
		return t.Hit(ctx)
	case game.Stand:
		return t.Stand(ctx)
	case game.Double:
		return t.Double(ctx)
	case game.Split:
		return t.Split(ctx)
	}
	return game.ErrNotAllowed
}

// ============ Router ============

func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID

	if !msg.IsCommand() {
		h.send(chatID, "Use /play to start a round or /help for the rules")
		return
	}

	switch msg.Command() {
	case "start":
		h.HandleStart(ctx, chatID)
	case "help":
		h.HandleHelp(chatID)
	case "stats", "balance":
		h.HandleStats(ctx, chatID)
	case "top":
		h.HandleTop(ctx, chatID)
	case "play":
		h.HandlePlay(ctx, chatID, strings.Fields(msg.CommandArguments()))
	case "practice":
		h.HandlePractice(ctx, chatID)
	default:
		h.send(chatID, "Unknown command. /help")
	}
}
