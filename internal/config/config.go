package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"highrollers/internal/game"
)

const (
	ShoeLocal       = "local"
	ShoeDeckOfCards = "deckofcards"
)

var ErrNoBotToken = errors.New("BOT_TOKEN is not set")

type Config struct {
	BotToken          string
	DatabaseURL       string
	HTTPAddr          string
	CORSOrigin        string
	FirebaseProjectID string
	ShoeSource        string
	DeckAPIURL        string
	LogLevel          string
	TableConfig       string

	Decks                 int
	ReshuffleAt           int
	HitSoft17             bool
	MaxHands              int
	MaxSplits             int
	DoubleAfterSplit      bool
	SplitNaturalsPayBonus bool
	MinBet                int
	MaxBet                int
	DefaultBet            int
	StartingCredits       int
	DealerPaceMS          int
}

func Defaults() *Config {
	return &Config{
		DatabaseURL:      "./highrollers.db",
		HTTPAddr:         ":8080",
		CORSOrigin:       "*",
		ShoeSource:       ShoeLocal,
		DeckAPIURL:       "https://deckofcardsapi.com",
		LogLevel:         "info",
		TableConfig:      "table.hcl",
		Decks:            5,
		ReshuffleAt:      30,
		MaxHands:         4,
		MaxSplits:        1,
		DoubleAfterSplit: true,
		MinBet:           1,
		DefaultBet:       10,
		DealerPaceMS:     400,
	}
}

// Load reads .env, then the optional table rules file, then the
// environment. Later sources win.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := Defaults()
	overrideString(&cfg.TableConfig, "TABLE_CONFIG")
	if err := loadTableFile(cfg.TableConfig, cfg); err != nil {
		return nil, err
	}

	overrideString(&cfg.BotToken, "BOT_TOKEN")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	overrideString(&cfg.HTTPAddr, "HTTP_ADDR")
	overrideString(&cfg.CORSOrigin, "CORS_ORIGIN")
	overrideString(&cfg.FirebaseProjectID, "FIREBASE_PROJECT_ID")
	overrideString(&cfg.ShoeSource, "SHOE_SOURCE")
	overrideString(&cfg.DeckAPIURL, "DECK_API_URL")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideInt(&cfg.Decks, "DECKS")
	overrideInt(&cfg.ReshuffleAt, "RESHUFFLE_AT")
	overrideBool(&cfg.HitSoft17, "HIT_SOFT_17")
	overrideInt(&cfg.MaxSplits, "MAX_SPLITS")
	overrideInt(&cfg.MinBet, "MIN_BET")
	overrideInt(&cfg.MaxBet, "MAX_BET")
	overrideInt(&cfg.DefaultBet, "DEFAULT_BET")
	overrideInt(&cfg.StartingCredits, "STARTING_CREDITS")
	overrideInt(&cfg.DealerPaceMS, "DEALER_PACE_MS")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Decks < 1 || c.Decks > 20:
		return fmt.Errorf("decks must be between 1 and 20, got %d", c.Decks)
	case c.ReshuffleAt < 0:
		return fmt.Errorf("reshuffle_at must not be negative, got %d", c.ReshuffleAt)
	case c.MaxHands < 1 || c.MaxHands > 4:
		return fmt.Errorf("max_hands must be between 1 and 4, got %d", c.MaxHands)
	case c.MaxSplits < 0:
		return fmt.Errorf("max_splits must not be negative, got %d", c.MaxSplits)
	case c.MinBet < 1:
		return fmt.Errorf("min_bet must be at least 1, got %d", c.MinBet)
	case c.MaxBet != 0 && c.MaxBet < c.MinBet:
		return fmt.Errorf("max_bet %d is below min_bet %d", c.MaxBet, c.MinBet)
	case c.StartingCredits < 0:
		return fmt.Errorf("starting credits must not be negative, got %d", c.StartingCredits)
	case c.ShoeSource != ShoeLocal && c.ShoeSource != ShoeDeckOfCards:
		return fmt.Errorf("unknown shoe source %q", c.ShoeSource)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// Rules is the single source of table rules for both the table and the
// strategy advisor.
func (c *Config) Rules() game.Rules {
	return game.Rules{
		Decks:                 c.Decks,
		ReshuffleAt:           c.ReshuffleAt,
		HitSoft17:             c.HitSoft17,
		MaxHands:              c.MaxHands,
		MaxSplits:             c.MaxSplits,
		DoubleAfterSplit:      c.DoubleAfterSplit,
		MinBet:                int64(c.MinBet),
		MaxBet:                int64(c.MaxBet),
		SplitNaturalsPayBonus: c.SplitNaturalsPayBonus,
	}
}

func (c *Config) DealerPace() time.Duration {
	return time.Duration(c.DealerPaceMS) * time.Millisecond
}

func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// BetOrDefault falls back to DEFAULT_BET when no bet was given.
func (c *Config) BetOrDefault(bet int) int {
	if bet <= 0 {
		return c.DefaultBet
	}
	return bet
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			log.Warn("Invalid config value", "key", envKey, "value", val)
		}
	}
}

func overrideBool(field *bool, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*field = b
		} else {
			log.Warn("Invalid config value", "key", envKey, "value", val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
