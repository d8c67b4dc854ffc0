package bot

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"highrollers/internal/config"
	"highrollers/internal/database"
	"highrollers/internal/game"
	"highrollers/internal/player"
	"highrollers/internal/session"
	"highrollers/internal/strategy"
)

type fakeSender struct {
	mu        sync.Mutex
	messages  []tgbotapi.MessageConfig
	callbacks []tgbotapi.CallbackConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.messages = append(f.messages, m)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cb, ok := c.(tgbotapi.CallbackConfig); ok {
		f.callbacks = append(f.callbacks, cb)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.messages)
	return f.messages[len(f.messages)-1]
}

// tenNineShoe deals player 10,9 against dealer 7,K on every round.
type tenNineShoe struct{ n int }

func (s *tenNineShoe) Draw(_ context.Context, count int) ([]game.Card, error) {
	deal := []game.Card{
		game.NewCard(game.Ten, game.Spades),
		game.NewCard(game.Seven, game.Hearts),
		game.NewCard(game.Nine, game.Diamonds),
		game.NewCard(game.King, game.Clubs),
	}
	out := make([]game.Card, count)
	for i := range out {
		out[i] = deal[s.n%len(deal)]
		s.n++
	}
	return out, nil
}

func (s *tenNineShoe) Remaining() int                  { return 1000 }
func (s *tenNineShoe) Reshuffle(context.Context) error { return nil }

func newTestHandler(t *testing.T) (*Handler, *fakeSender, player.Repository) {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := player.NewRepository(db.DB)

	cfg := config.Defaults()
	cfg.ReshuffleAt = 0
	cfg.StartingCredits = 100
	cfg.MaxBet = 200

	logger := log.New(io.Discard)
	sessions := session.NewManager(session.Config{
		Rules:        cfg.Rules(),
		Advisor:      strategy.Basic{},
		NewShoe:      func() game.Shoe { return &tenNineShoe{} },
		Repo:         repo,
		StartCredits: int64(cfg.StartingCredits),
		Logger:       logger,
	})

	sender := &fakeSender{}
	return NewHandler(sender, cfg, sessions, repo, logger), sender, repo
}

func command(chatID int64, text string) *tgbotapi.Message {
	length := len(text)
	if i := strings.IndexByte(text, ' '); i >= 0 {
		length = i
	}
	return &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
	}
}

func press(chatID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb-" + data,
		Data:    data,
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
	}
}

func TestStartSignsInWithStartingCredits(t *testing.T) {
	h, sender, _ := newTestHandler(t)

	h.HandleMessage(context.Background(), command(7, "/start"))

	msg := sender.last(t)
	assert.Equal(t, int64(7), msg.ChatID)
	assert.Contains(t, msg.Text, "Credits: 100")
	s := h.sessions.Get("tg:7")
	require.NotNil(t, s)
	require.NotNil(t, s.Identity())
	assert.Equal(t, "tg:7", s.Identity().UserID)
}

func TestPlayAndStand(t *testing.T) {
	ctx := context.Background()
	h, sender, _ := newTestHandler(t)

	h.HandleMessage(ctx, command(7, "/play 10"))
	msg := sender.last(t)
	assert.Contains(t, msg.Text, "Stake: 10 | Credits: 90")
	assert.Contains(t, msg.Text, "Dealer: [7♥, ?] (7)")
	assert.Contains(t, msg.Text, "You: [10♠, 9♦] (19)")
	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Len(t, kb.InlineKeyboard[0], 3, "hit, stand and double")

	h.HandleCallback(ctx, press(7, CallbackStand))
	msg = sender.last(t)
	assert.Contains(t, msg.Text, "✅ Hand 1: stand is correct.")
	assert.Contains(t, msg.Text, "Dealer: [7♥, K♣] (17)")
	assert.Contains(t, msg.Text, "💰 +10")
	assert.Contains(t, msg.Text, "Credits: 110")
	kb, ok = msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, "🔄 Again (10)", kb.InlineKeyboard[0][0].Text)
}

func TestWrongMoveIsFlagged(t *testing.T) {
	ctx := context.Background()
	h, sender, _ := newTestHandler(t)

	h.HandleMessage(ctx, command(7, "/practice"))
	assert.Contains(t, sender.last(t).Text, "Practice")

	h.HandleCallback(ctx, press(7, CallbackHit))
	msg := sender.last(t)
	assert.Contains(t, msg.Text, "❌ Hand 1: you chose hit, basic strategy says stand.")
	assert.NotContains(t, msg.Text, "Credits")
}

func TestPlayRejections(t *testing.T) {
	ctx := context.Background()
	h, sender, _ := newTestHandler(t)

	h.HandleMessage(ctx, command(7, "/play abc"))
	assert.Contains(t, sender.last(t).Text, "Invalid bet")

	h.HandleMessage(ctx, command(7, "/play 150"))
	assert.Contains(t, sender.last(t).Text, "Not enough credits")

	h.HandleMessage(ctx, command(7, "/play 500"))
	assert.Contains(t, sender.last(t).Text, "between 1 and 200")

	s := h.sessions.Get("tg:7")
	assert.Equal(t, int64(100), s.Stats().Credits)
}

func TestActionWithoutRoundAnswersCallback(t *testing.T) {
	h, sender, _ := newTestHandler(t)

	h.HandleCallback(context.Background(), press(7, CallbackDouble))

	require.Len(t, sender.callbacks, 1)
	assert.Contains(t, sender.callbacks[0].Text, "Not now")
	assert.Empty(t, sender.messages)
}

func TestTopListsPlayers(t *testing.T) {
	ctx := context.Background()
	h, sender, repo := newTestHandler(t)
	require.NoError(t, repo.Save(ctx, &player.Record{UserID: "tg:1", HandsPlayed: 20, Credits: 300, CorrectMoves: 9, WrongMoves: 1}))
	require.NoError(t, repo.Save(ctx, &player.Record{UserID: "tg:7", HandsPlayed: 5, Credits: 80}))

	h.HandleMessage(ctx, command(7, "/top"))

	text := sender.last(t).Text
	assert.Contains(t, text, "🥇 tg:1 | 20 hands | 300 💰 | 90%")
	assert.Contains(t, text, "🥈 you | 5 hands")
}

func TestHelpExplainsOddBetRounding(t *testing.T) {
	h, sender, _ := newTestHandler(t)
	h.HandleHelp(9)
	text := sender.last(t).Text
	assert.Contains(t, text, "Blackjack pays 3:2")
	assert.Contains(t, text, "an odd bet loses the half credit")
}

func TestUnknownCommand(t *testing.T) {
	h, sender, _ := newTestHandler(t)
	h.HandleMessage(context.Background(), command(7, "/fold"))
	assert.Contains(t, sender.last(t).Text, "Unknown command")
}

func TestGameKeyboard(t *testing.T) {
	kb := GameKeyboard(GameKeyboardOptions{})
	assert.Len(t, kb.InlineKeyboard[0], 2)

	kb = GameKeyboard(GameKeyboardOptions{CanDouble: true, CanSplit: true})
	row := kb.InlineKeyboard[0]
	require.Len(t, row, 4)
	assert.Equal(t, CallbackSplit, *row[3].CallbackData)
}

func TestFormatViewMarksCurrentSplitHand(t *testing.T) {
	v := game.View{
		Mode:        "practice",
		Phase:       "playing",
		HasSplit:    true,
		Current:     1,
		DealerTotal: 6,
		Dealer:      []game.CardView{{Rank: "6", Suit: "HEARTS"}, {Hidden: true}},
		Hands: []game.HandView{
			{Cards: []game.CardView{{Rank: "8", Suit: "SPADES"}, {Rank: "3", Suit: "CLUBS"}}, Total: 11, Doubled: true},
			{Cards: []game.CardView{{Rank: "8", Suit: "DIAMONDS"}}, Total: 8},
		},
	}

	text := formatView(v, 0)
	assert.Contains(t, text, "Dealer: [6♥, ?] (6)")
	assert.Contains(t, text, "Hand 1: [8♠, 3♣] (11) x2\n")
	assert.Contains(t, text, "Hand 2: [8♦] (8) ◀")
}
