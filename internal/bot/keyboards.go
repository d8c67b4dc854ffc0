package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	CallbackHit           = "hit"
	CallbackStand         = "stand"
	CallbackDouble        = "double"
	CallbackSplit         = "split"
	CallbackPlayAgain     = "play_again"
	CallbackPracticeAgain = "practice_again"
	CallbackStats         = "stats"
)

type GameKeyboardOptions struct {
	CanDouble bool
	CanSplit  bool
}

func GameKeyboard(opts GameKeyboardOptions) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("👊 Hit", CallbackHit),
		tgbotapi.NewInlineKeyboardButtonData("✋ Stand", CallbackStand),
	}

	if opts.CanDouble {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("💰 Double", CallbackDouble))
	}
	if opts.CanSplit {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("✂️ Split", CallbackSplit))
	}

	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// EndGameKeyboard offers another round in the mode just played.
func EndGameKeyboard(practice bool, lastBet int) tgbotapi.InlineKeyboardMarkup {
	again := tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🔄 Again (%d)", lastBet), CallbackPlayAgain)
	if practice {
		again = tgbotapi.NewInlineKeyboardButtonData("🔄 Practice again", CallbackPracticeAgain)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			again,
			tgbotapi.NewInlineKeyboardButtonData("📊 Stats", CallbackStats),
		),
	)
}
