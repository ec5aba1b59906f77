package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	dmn "github.com/beka-birhanu/glade/domain"
	"github.com/beka-birhanu/glade/game"
	"github.com/beka-birhanu/glade/game/maze"
	"github.com/beka-birhanu/glade/infrastruture/log"
	"github.com/beka-birhanu/glade/service/i"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuns struct {
	sync.Mutex
	saved []*dmn.Run
}

func (f *fakeRuns) Save(run *dmn.Run) error {
	f.Lock()
	defer f.Unlock()
	f.saved = append(f.saved, run)
	return nil
}

func (f *fakeRuns) ByUser(userID uuid.UUID, limit int) ([]*dmn.Run, error) {
	f.Lock()
	defer f.Unlock()
	var out []*dmn.Run
	for _, r := range f.saved {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRuns) all() []*dmn.Run {
	f.Lock()
	defer f.Unlock()
	return append([]*dmn.Run(nil), f.saved...)
}

type fakeUsers struct {
	sync.Mutex
	users map[uuid.UUID]*dmn.User
}

func (f *fakeUsers) Save(u *dmn.User) error {
	f.Lock()
	defer f.Unlock()
	f.users[u.ID] = u
	return nil
}

func (f *fakeUsers) ByID(id uuid.UUID) (*dmn.User, error) {
	f.Lock()
	defer f.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

func (f *fakeUsers) ByUsername(name string) (*dmn.User, error) {
	f.Lock()
	defer f.Unlock()
	for _, u := range f.users {
		if u.Username == name {
			return u, nil
		}
	}
	return nil, errors.New("user not found")
}

type submission struct {
	difficulty string
	username   string
	elapsedMs  int64
}

type fakeLeaderboard struct {
	sync.Mutex
	submitted []submission
}

func (f *fakeLeaderboard) Submit(_ context.Context, difficulty, username string, elapsedMs int64) (bool, error) {
	f.Lock()
	defer f.Unlock()
	f.submitted = append(f.submitted, submission{difficulty, username, elapsedMs})
	return true, nil
}

func (f *fakeLeaderboard) Top(context.Context, string, int64) ([]dmn.LeaderboardEntry, error) {
	return nil, nil
}

func (f *fakeLeaderboard) Count(context.Context, string) (int64, error) {
	return 0, nil
}

type fixture struct {
	gsm         *GameSessionManager
	runs        *fakeRuns
	users       *fakeUsers
	leaderboard *fakeLeaderboard
	player      i.Player
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	presets, err := game.LoadPresets("")
	require.NoError(t, err)
	logger, err := log.New("TEST", "", io.Discard)
	require.NoError(t, err)

	player := i.Player{ID: uuid.New(), Username: "thomas"}
	f := &fixture{
		runs:        &fakeRuns{},
		users:       &fakeUsers{users: map[uuid.UUID]*dmn.User{player.ID: {ID: player.ID, Username: player.Username}}},
		leaderboard: &fakeLeaderboard{},
		player:      player,
	}
	f.gsm, err = NewGameSessionManager(&Config{
		Presets:      presets,
		Runs:         f.runs,
		Users:        f.users,
		Leaderboard:  f.leaderboard,
		TickInterval: time.Hour,
		Timeout:      time.Minute,
		Logger:       logger,
	})
	require.NoError(t, err)
	t.Cleanup(f.gsm.StopAll)
	return f
}

var board = []string{
	"@@@@E@@@@",
	"@       @",
	"@ %%+%% @",
	"@ %...% @",
	"@ %...% @",
	"@ %...% @",
	"@ %%%%% @",
	"@       @",
	"@@@@@@@@@",
}

// plant installs a session over a hand-built board, without a ticker loop.
func (f *fixture) plant(t *testing.T, pursuers ...maze.CellPosition) *session {
	t.Helper()
	m, err := maze.Parse(board)
	require.NoError(t, err)
	settings := game.Settings{
		Width: 9, Height: 9, GateCount: 1,
		GateChangeInterval: time.Hour, ExitChangeInterval: time.Hour,
		MazeChangeInterval: time.Hour, PursuerInterval: 100 * time.Millisecond,
	}
	g, err := game.NewFromMaze(settings, m, m.Center(), pursuers, 1, nil)
	require.NoError(t, err)

	s := &session{
		id:          uuid.New(),
		player:      f.player,
		difficulty:  "normal",
		game:        g,
		lastActive:  time.Now(),
		subscribers: make(map[uuid.UUID]chan i.SessionState),
		stop:        make(chan struct{}),
	}
	f.gsm.Lock()
	f.gsm.sessions[f.player.ID] = s
	f.gsm.Unlock()
	return s
}

func TestNewGameSessionManager(t *testing.T) {
	_, err := NewGameSessionManager(&Config{})
	assert.Error(t, err)
}

func TestStart(t *testing.T) {
	f := newFixture(t)
	seed := int64(8)

	t.Run("unknown difficulty", func(t *testing.T) {
		_, err := f.gsm.Start(f.player, "impossible", &seed)
		assert.ErrorIs(t, err, game.ErrUnknownDifficulty)
	})

	state, err := f.gsm.Start(f.player, "easy", &seed)
	require.NoError(t, err)
	assert.Equal(t, "easy", state.Difficulty)
	assert.Equal(t, int64(8), state.Snapshot.Seed)
	assert.Equal(t, 21, state.Snapshot.Width)
	assert.True(t, state.Snapshot.Player.InSafeZone)

	current, err := f.gsm.Current(f.player.ID)
	require.NoError(t, err)
	assert.Equal(t, state.SessionID, current.SessionID)

	_, err = f.gsm.Current(uuid.New())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMoveAndRestart(t *testing.T) {
	f := newFixture(t)
	seed := int64(8)
	_, err := f.gsm.Start(f.player, "easy", &seed)
	require.NoError(t, err)

	result, state, err := f.gsm.Move(f.player.ID, "North")
	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Equal(t, 1, state.Snapshot.Moves)

	_, _, err = f.gsm.Move(uuid.New(), "North")
	assert.ErrorIs(t, err, ErrNoSession)

	other := int64(9)
	state, err = f.gsm.Restart(f.player.ID, "", &other)
	require.NoError(t, err)
	assert.Equal(t, "easy", state.Difficulty)
	assert.Equal(t, 0, state.Snapshot.Moves)
	assert.Equal(t, int64(9), state.Snapshot.Seed)

	runs := f.runs.all()
	require.Len(t, runs, 1)
	assert.Equal(t, dmn.OutcomeAbandoned, runs[0].Outcome)
	assert.Equal(t, 1, runs[0].Moves)

	state, err = f.gsm.Restart(f.player.ID, "hard", nil)
	require.NoError(t, err)
	assert.Equal(t, "hard", state.Difficulty)
	assert.Len(t, f.runs.all(), 1, "a run without moves is not recorded")
}

func TestEscapeIsRecorded(t *testing.T) {
	f := newFixture(t)
	f.plant(t)

	for n := 0; n < 3; n++ {
		result, _, err := f.gsm.Move(f.player.ID, "North")
		require.NoError(t, err)
		require.True(t, result.Accepted)
	}
	result, state, err := f.gsm.Move(f.player.ID, "North")
	require.NoError(t, err)
	assert.True(t, result.Victory)
	assert.True(t, state.Snapshot.Victory)

	runs := f.runs.all()
	require.Len(t, runs, 1)
	assert.Equal(t, dmn.OutcomeEscaped, runs[0].Outcome)
	assert.Equal(t, 4, runs[0].Moves)

	require.Len(t, f.leaderboard.submitted, 1)
	assert.Equal(t, submission{"normal", "thomas", 0}, f.leaderboard.submitted[0])

	u, err := f.users.ByID(f.player.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.Escapes)
	assert.Equal(t, 1, u.Runs)

	// the finished game stays visible until closed
	current, err := f.gsm.Current(f.player.ID)
	require.NoError(t, err)
	assert.True(t, current.Snapshot.Victory)
}

func TestStepRecordsDefeat(t *testing.T) {
	f := newFixture(t)
	s := f.plant(t, maze.CellPosition{Row: 1, Col: 1})

	f.gsm.Move(f.player.ID, "North")
	f.gsm.Move(f.player.ID, "North")
	f.gsm.Move(f.player.ID, "North")

	updates, cancel, err := f.gsm.Subscribe(f.player.ID)
	require.NoError(t, err)
	defer cancel()
	<-updates

	now := time.Now()
	for n := 0; n < 3; n++ {
		f.gsm.step(s, 100, now)
	}

	last := <-updates
	for len(updates) > 0 {
		last = <-updates
	}
	assert.True(t, last.Snapshot.Defeat)

	runs := f.runs.all()
	require.Len(t, runs, 1)
	assert.Equal(t, dmn.OutcomeCaught, runs[0].Outcome)
	assert.Equal(t, int64(300), runs[0].ElapsedMs)
	assert.Empty(t, f.leaderboard.submitted)

	f.gsm.step(s, 100, now)
	assert.Len(t, f.runs.all(), 1)
}

func TestStepExpiresIdleSessions(t *testing.T) {
	f := newFixture(t)
	s := f.plant(t)
	f.gsm.Move(f.player.ID, "North")

	updates, _, err := f.gsm.Subscribe(f.player.ID)
	require.NoError(t, err)

	f.gsm.step(s, 16, time.Now().Add(2*time.Minute))

	_, err = f.gsm.Current(f.player.ID)
	assert.ErrorIs(t, err, ErrNoSession)
	for range updates {
	}

	runs := f.runs.all()
	require.Len(t, runs, 1)
	assert.Equal(t, dmn.OutcomeAbandoned, runs[0].Outcome)
}

func TestCloseAndStopAll(t *testing.T) {
	f := newFixture(t)
	_, err := f.gsm.Start(f.player, "", nil)
	require.NoError(t, err)

	updates, cancel, err := f.gsm.Subscribe(f.player.ID)
	require.NoError(t, err)
	first := <-updates
	assert.Equal(t, "normal", first.Difficulty)

	require.NoError(t, f.gsm.Close(f.player.ID))
	for range updates {
	}
	cancel()
	assert.ErrorIs(t, f.gsm.Close(f.player.ID), ErrNoSession)
	assert.Empty(t, f.runs.all())

	second := i.Player{ID: uuid.New(), Username: "minho"}
	_, err = f.gsm.Start(f.player, "easy", nil)
	require.NoError(t, err)
	_, err = f.gsm.Start(second, "hard", nil)
	require.NoError(t, err)

	f.gsm.StopAll()
	_, err = f.gsm.Current(f.player.ID)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = f.gsm.Current(second.ID)
	assert.ErrorIs(t, err, ErrNoSession)
}
