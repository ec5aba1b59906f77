package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/glade/domain"
	"github.com/beka-birhanu/glade/game"
	"github.com/beka-birhanu/glade/service/i"
	"github.com/google/uuid"
)

const (
	defaultTickInterval   = 16 * time.Millisecond
	defaultSessionTimeout = 30 * time.Minute
	subscriberBuffer      = 8
)

var ErrNoSession = errors.New("no game session")

type session struct {
	id          uuid.UUID
	player      i.Player
	difficulty  string
	game        *game.Game
	lastActive  time.Time
	recorded    bool // the current run has been saved
	closed      bool
	subscribers map[uuid.UUID]chan i.SessionState
	stop        chan struct{}
	stopOnce    sync.Once
	sync.Mutex
}

// GameSessionManager drives one game per player from a wall-clock ticker and records
// finished runs.
type GameSessionManager struct {
	presets      *game.Presets
	runs         i.RunRepo
	users        i.UserRepo
	leaderboard  i.Leaderboard
	tickInterval time.Duration
	timeout      time.Duration
	logger       game.Logger
	gameLogger   game.Logger
	sessions     map[uuid.UUID]*session // by player ID
	sync.RWMutex
}

// Config holds the dependencies of a GameSessionManager.
type Config struct {
	Presets      *game.Presets
	Runs         i.RunRepo
	Users        i.UserRepo
	Leaderboard  i.Leaderboard
	TickInterval time.Duration // Defaults to 16ms
	Timeout      time.Duration // Idle time before a session is dropped; defaults to 30m
	Logger       game.Logger
	GameLogger   game.Logger // Receives the simulation events; defaults to Logger
}

// NewGameSessionManager creates a session manager.
func NewGameSessionManager(c *Config) (*GameSessionManager, error) {
	if c.Presets == nil {
		return nil, errors.New("session manager needs difficulty presets")
	}
	if c.Runs == nil || c.Users == nil || c.Leaderboard == nil {
		return nil, errors.New("session manager needs run, user and leaderboard stores")
	}
	if c.Logger == nil {
		return nil, errors.New("session manager needs a logger")
	}

	gsm := &GameSessionManager{
		presets:      c.Presets,
		runs:         c.Runs,
		users:        c.Users,
		leaderboard:  c.Leaderboard,
		tickInterval: c.TickInterval,
		timeout:      c.Timeout,
		logger:       c.Logger,
		gameLogger:   c.GameLogger,
		sessions:     make(map[uuid.UUID]*session),
	}
	if gsm.tickInterval <= 0 {
		gsm.tickInterval = defaultTickInterval
	}
	if gsm.timeout <= 0 {
		gsm.timeout = defaultSessionTimeout
	}
	if gsm.gameLogger == nil {
		gsm.gameLogger = c.Logger
	}
	return gsm, nil
}

// Start replaces any running session of the player with a fresh game.
func (g *GameSessionManager) Start(p i.Player, difficulty string, seed *int64) (i.SessionState, error) {
	name, settings, err := g.presets.Lookup(difficulty)
	if err != nil {
		return i.SessionState{}, err
	}

	gm, err := game.New(settings, seed, g.gameLogger)
	if err != nil {
		return i.SessionState{}, fmt.Errorf("creating game: %w", err)
	}

	s := &session{
		id:          uuid.New(),
		player:      p,
		difficulty:  name,
		game:        gm,
		lastActive:  time.Now(),
		subscribers: make(map[uuid.UUID]chan i.SessionState),
		stop:        make(chan struct{}),
	}

	g.Lock()
	old := g.sessions[p.ID]
	g.sessions[p.ID] = s
	g.Unlock()

	if old != nil {
		g.abandon(old)
	}

	go g.run(s)
	g.logger.Info(fmt.Sprintf("started %s game for player %s (seed %d)", name, p.Username, gm.Seed()))

	s.Lock()
	defer s.Unlock()
	return s.stateLocked(), nil
}

// Current returns the state of the player's session.
func (g *GameSessionManager) Current(playerID uuid.UUID) (i.SessionState, error) {
	s, err := g.session(playerID)
	if err != nil {
		return i.SessionState{}, err
	}

	s.Lock()
	defer s.Unlock()
	return s.stateLocked(), nil
}

// Move forwards a player move to the game.
func (g *GameSessionManager) Move(playerID uuid.UUID, direction string) (game.MoveResult, i.SessionState, error) {
	s, err := g.session(playerID)
	if err != nil {
		return game.MoveResult{}, i.SessionState{}, err
	}

	s.Lock()
	s.lastActive = time.Now()
	result := s.game.AttemptPlayerMove(direction)
	var run *dmn.Run
	if result.Accepted {
		if s.game.Over() && !s.recorded {
			run = s.finishLocked(dmn.OutcomeAbandoned)
		}
		s.publishLocked()
	}
	state := s.stateLocked()
	s.Unlock()

	if run != nil {
		g.record(run)
	}
	return result, state, nil
}

// Restart regenerates the player's game. An empty difficulty keeps the current one.
func (g *GameSessionManager) Restart(playerID uuid.UUID, difficulty string, seed *int64) (i.SessionState, error) {
	s, err := g.session(playerID)
	if err != nil {
		return i.SessionState{}, err
	}

	s.Lock()
	if difficulty == "" {
		difficulty = s.difficulty
	}
	name, settings, err := g.presets.Lookup(difficulty)
	if err != nil {
		s.Unlock()
		return i.SessionState{}, err
	}

	var run *dmn.Run
	if !s.recorded && s.game.Moves() > 0 {
		run = s.finishLocked(dmn.OutcomeAbandoned)
	}
	if err := s.game.Restart(settings, seed); err != nil {
		s.Unlock()
		return i.SessionState{}, err
	}
	s.difficulty = name
	s.recorded = false
	s.lastActive = time.Now()
	s.publishLocked()
	state := s.stateLocked()
	s.Unlock()

	if run != nil {
		g.record(run)
	}
	g.logger.Info(fmt.Sprintf("restarted %s game for player %s", name, s.player.Username))
	return state, nil
}

// Close ends the player's session.
func (g *GameSessionManager) Close(playerID uuid.UUID) error {
	g.Lock()
	s, ok := g.sessions[playerID]
	delete(g.sessions, playerID)
	g.Unlock()
	if !ok {
		return ErrNoSession
	}

	g.abandon(s)
	return nil
}

// Subscribe streams the session states until the session ends or cancel is called.
// The current state is delivered first. Slow subscribers miss intermediate states.
func (g *GameSessionManager) Subscribe(playerID uuid.UUID) (<-chan i.SessionState, func(), error) {
	s, err := g.session(playerID)
	if err != nil {
		return nil, nil, err
	}

	s.Lock()
	defer s.Unlock()
	if s.closed {
		return nil, nil, ErrNoSession
	}

	id := uuid.New()
	ch := make(chan i.SessionState, subscriberBuffer)
	ch <- s.stateLocked()
	s.subscribers[id] = ch

	cancel := func() {
		s.Lock()
		defer s.Unlock()
		if c, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(c)
		}
	}
	return ch, cancel, nil
}

// StopAll ends every session.
func (g *GameSessionManager) StopAll() {
	g.Lock()
	sessions := g.sessions
	g.sessions = make(map[uuid.UUID]*session)
	g.Unlock()

	for _, s := range sessions {
		g.abandon(s)
	}
	g.logger.Info(fmt.Sprintf("stopped %d game sessions", len(sessions)))
}

func (g *GameSessionManager) session(playerID uuid.UUID) (*session, error) {
	g.RLock()
	defer g.RUnlock()
	s, ok := g.sessions[playerID]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

func (g *GameSessionManager) run(s *session) {
	ticker := time.NewTicker(g.tickInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			elapsed := now.Sub(last).Milliseconds()
			last = last.Add(time.Duration(elapsed) * time.Millisecond)
			g.step(s, elapsed, now)
		}
	}
}

// step advances a session by elapsedMs and drops it when idle for longer than the timeout.
func (g *GameSessionManager) step(s *session, elapsedMs int64, now time.Time) {
	s.Lock()
	var run *dmn.Run
	if !s.recorded && !s.closed {
		before := s.game.Version()
		s.game.Tick(elapsedMs)
		if s.game.Over() {
			run = s.finishLocked(dmn.OutcomeAbandoned)
		}
		if s.game.Version() != before {
			s.publishLocked()
		}
	}
	expired := now.Sub(s.lastActive) >= g.timeout
	if expired && run == nil && !s.recorded {
		run = s.finishLocked(dmn.OutcomeAbandoned)
	}
	s.Unlock()

	if run != nil {
		g.record(run)
	}
	if expired {
		g.Lock()
		if g.sessions[s.player.ID] == s {
			delete(g.sessions, s.player.ID)
		}
		g.Unlock()
		s.shutdown()
		g.logger.Info(fmt.Sprintf("session of player %s timed out", s.player.Username))
	}
}

// abandon records the unfinished run, if any, and stops the session.
func (g *GameSessionManager) abandon(s *session) {
	s.Lock()
	var run *dmn.Run
	if !s.recorded && s.game.Moves() > 0 {
		run = s.finishLocked(dmn.OutcomeAbandoned)
	}
	s.Unlock()

	if run != nil {
		g.record(run)
	}
	s.shutdown()
}

// record saves a finished run, updates the player's counters and offers escapes to the leaderboard.
func (g *GameSessionManager) record(run *dmn.Run) {
	if err := g.runs.Save(run); err != nil {
		g.logger.Error(fmt.Sprintf("saving run %s: %v", run.ID, err))
	}

	user, err := g.users.ByID(run.UserID)
	if err != nil {
		g.logger.Warning(fmt.Sprintf("updating stats of %s: %v", run.Username, err))
	} else {
		user.RecordRun(run)
		if err := g.users.Save(user); err != nil {
			g.logger.Error(fmt.Sprintf("saving stats of %s: %v", run.Username, err))
		}
	}

	if run.Outcome != dmn.OutcomeEscaped {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	best, err := g.leaderboard.Submit(ctx, run.Difficulty, run.Username, run.ElapsedMs)
	if err != nil {
		g.logger.Error(fmt.Sprintf("submitting escape of %s: %v", run.Username, err))
		return
	}
	if best {
		g.logger.Info(fmt.Sprintf("new best %s escape for %s: %dms", run.Difficulty, run.Username, run.ElapsedMs))
	}
}

// finishLocked marks the current run as recorded and builds its summary. A won or lost game
// overrides the given outcome.
func (s *session) finishLocked(outcome dmn.Outcome) *dmn.Run {
	s.recorded = true
	switch {
	case s.game.Victory():
		outcome = dmn.OutcomeEscaped
	case s.game.Defeat():
		outcome = dmn.OutcomeCaught
	}

	return &dmn.Run{
		ID:         uuid.New(),
		UserID:     s.player.ID,
		Username:   s.player.Username,
		Difficulty: s.difficulty,
		Seed:       s.game.Seed(),
		Outcome:    outcome,
		Moves:      s.game.Moves(),
		ElapsedMs:  s.game.Elapsed().Milliseconds(),
		FinishedAt: time.Now().UTC(),
	}
}

func (s *session) stateLocked() i.SessionState {
	return i.SessionState{
		SessionID:  s.id,
		Difficulty: s.difficulty,
		Snapshot:   s.game.Snapshot(),
	}
}

func (s *session) publishLocked() {
	if len(s.subscribers) == 0 {
		return
	}
	state := s.stateLocked()
	for _, ch := range s.subscribers {
		select {
		case ch <- state:
		default:
		}
	}
}

// shutdown stops the ticker loop and closes every subscription.
func (s *session) shutdown() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.Lock()
		defer s.Unlock()
		s.closed = true
		for id, ch := range s.subscribers {
			delete(s.subscribers, id)
			close(ch)
		}
	})
}
