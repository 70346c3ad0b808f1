package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/zus-calculator/internal/pension"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type stopper interface {
	Stop() bool
}

// afterFunc schedules f once after d, like time.AfterFunc.
type afterFunc func(d time.Duration, f func()) stopper

func realAfterFunc(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}

// Session is one browser's navigator plus its pending reveal and open notice.
type Session struct {
	ID string

	mu       sync.Mutex
	nav      *pension.Navigator
	notice   string
	reveal   stopper
	lastSeen time.Time
	after    afterFunc
	logger   *zap.Logger
}

func newSession(id string, now time.Time, after afterFunc, logger *zap.Logger) *Session {
	s := &Session{
		ID:       id,
		nav:      pension.NewNavigator(),
		lastSeen: now,
		after:    after,
		logger:   logger,
	}
	// Runs with s.mu held: every navigation happens inside update.
	s.nav.OnLeave(func(page pension.Page, _ uint64) {
		s.notice = ""
		if page == pension.PageSimulator {
			s.cancelReveal()
		}
	})
	return s
}

// update runs fn with the session locked and marks the session as used.
func (s *Session) update(now time.Time, fn func(nav *pension.Navigator) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.After(s.lastSeen) {
		s.lastSeen = now
	}
	return fn(s.nav)
}

// touch marks the session as used without changing its state.
func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.After(s.lastSeen) {
		s.lastSeen = now
	}
}

// view runs fn with the session locked.
func (s *Session) view(fn func(nav *pension.Navigator, notice string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.nav, s.notice)
}

// simulate must be called with s.mu held.
func (s *Session) simulate() {
	sim := s.nav.Simulator()
	if sim == nil || !sim.Simulate() {
		return
	}

	generation := s.nav.Generation()
	s.reveal = s.after(pension.OptionsRevealDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.nav.RevealOptions(generation) {
			s.reveal = nil
			s.logger.Debug("options revealed",
				zap.String("op", "server.Session.reveal"),
				zap.String("session", s.ID),
			)
		}
	})
}

// openNotice must be called with s.mu held.
func (s *Session) openNotice(offer pension.Offer) bool {
	sim := s.nav.Simulator()
	if sim == nil || !sim.OptionsVisible() {
		return false
	}
	s.notice = offer.Notice()
	return true
}

// dismissNotice must be called with s.mu held.
func (s *Session) dismissNotice() {
	s.notice = ""
}

// cancelReveal must be called with s.mu held.
func (s *Session) cancelReveal() {
	if s.reveal != nil {
		s.reveal.Stop()
		s.reveal = nil
	}
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelReveal()
}

// Store keeps the sessions of every connected browser in memory.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	after    afterFunc
	logger   *zap.Logger
}

// NewStore creates an empty store evicting sessions idle for longer than ttl.
func NewStore(logger *zap.Logger, ttl time.Duration) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		after:    realAfterFunc,
		logger:   logger,
	}
}

// Get returns the session with id, if any.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Create starts a new session on the calculator.
func (st *Store) Create() *Session {
	s := newSession(uuid.NewString(), st.now(), st.after, st.logger)

	st.mu.Lock()
	st.sessions[s.ID] = s
	count := len(st.sessions)
	st.mu.Unlock()

	st.logger.Debug("session created",
		zap.String("op", "server.Store.Create"),
		zap.String("session", s.ID),
		zap.Int("sessions", count),
	)
	return s
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep evicts idle sessions and cancels their pending reveals. It returns
// the number evicted.
func (st *Store) Sweep() int {
	now := st.now()

	st.mu.Lock()
	var expired []*Session
	for id, s := range st.sessions {
		if s.idleSince(now) > st.ttl {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	remaining := len(st.sessions)
	st.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	if len(expired) > 0 {
		st.logger.Info("idle sessions evicted",
			zap.String("op", "server.Store.Sweep"),
			zap.Int("evicted", len(expired)),
			zap.Int("sessions", remaining),
		)
	}
	return len(expired)
}

// Close evicts every session.
func (st *Store) Close() {
	st.mu.Lock()
	sessions := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}

// Sweeper runs Store.Sweep on a cron schedule.
type Sweeper struct {
	cron *cron.Cron
}

// NewSweeper schedules store sweeps. schedule accepts standard cron
// expressions and descriptors such as "@every 1m".
func NewSweeper(store *Store, schedule string) (*Sweeper, error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { store.Sweep() }); err != nil {
		return nil, err
	}
	return &Sweeper{cron: c}, nil
}

// Start starts the cron scheduler.
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}
