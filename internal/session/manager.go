package session

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"highrollers/internal/game"
	"highrollers/internal/player"
	"highrollers/internal/stats"
)

type Config struct {
	Rules   game.Rules
	Advisor game.Advisor
	// NewShoe is called once per session.
	NewShoe      func() game.Shoe
	Repo         player.Repository
	Saver        Saver
	StartCredits int64
	DealerPace   time.Duration
	Clock        quartz.Clock
	Logger       *log.Logger
}

// Manager holds the live sessions, keyed by chat or connection.
type Manager struct {
	cfg      Config
	sessions map[string]*Session
	mu       sync.RWMutex
}

func NewManager(cfg Config) *Manager {
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Manager{
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Get(key string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[key]
}

// GetOrCreate returns the session for key, creating an anonymous one with
// opts applied to its table when none exists.
func (m *Manager) GetOrCreate(key string, opts ...game.Option) *Session {
	if s := m.Get(key); s != nil {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[key]; ok {
		return s
	}
	s := m.newSession(key, opts)
	m.sessions[key] = s
	return s
}

func (m *Manager) newSession(key string, opts []game.Option) *Session {
	s := &Session{
		key:          key,
		stats:        stats.New(),
		repo:         m.cfg.Repo,
		saver:        m.cfg.Saver,
		startCredits: m.cfg.StartCredits,
		logger:       m.cfg.Logger,
	}
	base := []game.Option{
		game.WithRecorder(s.stats),
		game.WithWallet(s.stats),
		game.WithDealerPace(m.cfg.Clock, m.cfg.DealerPace),
		game.OnRoundFinished(s.roundFinished),
	}
	s.table = game.NewTable(m.cfg.NewShoe(), m.cfg.Advisor, m.cfg.Rules, append(base, opts...)...)
	return s
}

func (m *Manager) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
