package engine

import (
	"testing"
	"time"

	"go-typefight/pkg/events"
	"go-typefight/pkg/gameerrors"
	"go-typefight/pkg/glossary"
	"go-typefight/pkg/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRandom always returns the same value, which puts every spawn at (-50, -25)
type fixedRandom float64

func (r fixedRandom) Float64() float64 { return float64(r) }

func newTestEngine(t *testing.T, config Config, words ...string) (*Engine, *identity.ManualClock) {
	t.Helper()
	if len(words) == 0 {
		words = []string{"alpha", "bravo", "charlie"}
	}
	clock := identity.NewManualClock(time.UnixMilli(0))
	e, err := New(Options{
		Config: config,
		Clock:  clock,
		IDs:    &identity.SequentialIDs{},
		Words:  glossary.NewSequence(words...),
		Random: fixedRandom(0.25),
	})
	require.NoError(t, err)
	return e, clock
}

func typeKeys(e *Engine, clock *identity.ManualClock, step time.Duration, keys ...string) {
	for _, key := range keys {
		clock.Advance(step)
		e.Type(key, false)
	}
}

func sourceHit(word string) events.Event {
	return events.HitBySource(events.Enemy{ID: "source-" + word, Word: word, Speed: 8})
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	config := DefaultConfig()
	config.EnemySpeed = config.PlayerSpeed

	_, err := New(Options{Config: config})
	assert.Error(t, err)
}

func TestHealthFloorsAtZeroAndResetsOnPlay(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())
	assert.Equal(t, 0, e.Player().Health())

	e.Log().Emit(events.Play())
	assert.Equal(t, 25, e.Player().Health())

	e.Log().Emit(events.HitBySource(events.Enemy{ID: "a", Word: "aaaaaaaaaa"}))
	assert.Equal(t, 15, e.Player().Health())

	e.Log().Emit(events.HitBySource(events.Enemy{ID: "b", Word: "aaaaaaaaaa"}))
	e.Log().Emit(events.HitBySource(events.Enemy{ID: "c", Word: "aaaaaaaaaa"}))
	assert.Equal(t, 0, e.Player().Health())
	assert.True(t, e.Game().Over())

	e.Log().Emit(events.Play())
	assert.Equal(t, 25, e.Player().Health())
	assert.False(t, e.Game().Over())
}

func TestPauseAndResumeGuards(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())

	_, err := e.Game().Pause()
	require.ErrorIs(t, err, gameerrors.ErrNotInProgress)
	_, err = e.Game().Resume()
	require.ErrorIs(t, err, gameerrors.ErrNotInProgress)

	e.Game().Play()
	_, err = e.Game().Pause()
	require.NoError(t, err)
	_, err = e.Game().Pause()
	require.ErrorIs(t, err, gameerrors.ErrAlreadyPaused)

	_, err = e.Game().Resume()
	require.NoError(t, err)
	_, err = e.Game().Resume()
	require.ErrorIs(t, err, gameerrors.ErrAlreadyResumed)

	e.Log().Emit(sourceHit("aaaaaaaaaaaaaaaaaaaaaaaaa"))
	_, err = e.Game().Pause()
	require.ErrorIs(t, err, gameerrors.ErrGameOver)
	_, err = e.Game().Resume()
	require.ErrorIs(t, err, gameerrors.ErrGameOver)
}

func TestState(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())
	assert.Equal(t, StateNotStarted, e.Game().State())

	e.Game().Play()
	assert.Equal(t, StatePlaying, e.Game().State())

	_, err := e.Game().Pause()
	require.NoError(t, err)
	assert.Equal(t, StatePaused, e.Game().State())

	e.Log().Emit(sourceHit("aaaaaaaaaaaaaaaaaaaaaaaaa"))
	assert.Equal(t, StateOver, e.Game().State())
}

func TestElapsedTimeExcludesPauses(t *testing.T) {
	e, clock := newTestEngine(t, DefaultConfig())
	e.Game().Play()

	clock.Advance(5000 * time.Millisecond)
	_, err := e.Game().Pause()
	require.NoError(t, err)

	clock.Advance(5000 * time.Millisecond)
	_, err = e.Game().Resume()
	require.NoError(t, err)

	clock.Advance(5000 * time.Millisecond)
	e.Game().SyncClock()
	assert.Equal(t, 10000*time.Millisecond, e.Game().ElapsedTime())
}

func TestElapsedTimeExcludesTrailingPause(t *testing.T) {
	e, clock := newTestEngine(t, DefaultConfig())
	e.Game().Play()

	clock.Advance(3 * time.Second)
	_, err := e.Game().Pause()
	require.NoError(t, err)

	clock.Advance(time.Minute)
	e.Game().SyncClock()
	assert.Equal(t, 3*time.Second, e.Game().ElapsedTime())
}

func TestElapsedTimeFreezesWhenOver(t *testing.T) {
	e, clock := newTestEngine(t, DefaultConfig())
	e.Game().Play()

	clock.Advance(3 * time.Second)
	e.Log().Emit(sourceHit("aaaaaaaaaaaaaaaaaaaaaaaaa"))

	clock.Advance(10 * time.Second)
	e.Game().SyncClock()
	assert.True(t, e.Game().Over())
	assert.Equal(t, 3*time.Second, e.Game().ElapsedTime())
}

func TestElapsedTimeIsPinnedUntilATrigger(t *testing.T) {
	e, clock := newTestEngine(t, DefaultConfig())
	e.Game().Play()

	clock.Advance(time.Second)
	assert.Equal(t, time.Duration(0), e.Game().ElapsedTime())

	e.Game().SyncClock()
	assert.Equal(t, time.Second, e.Game().ElapsedTime())
}

func TestElapsedTimeSinceRejectsEventsOutsideTheSession(t *testing.T) {
	e, clock := newTestEngine(t, DefaultConfig())
	old := e.Game().Play()
	clock.Advance(time.Second)
	current := e.Game().Play()

	_, err := e.Game().ElapsedTimeSince(old, nil)
	require.ErrorIs(t, err, gameerrors.ErrTargetEventNotInSession)
	require.ErrorIs(t, err, gameerrors.ErrEventNotInSession)

	_, err = e.Game().ElapsedTimeSince(current, &old)
	require.ErrorIs(t, err, gameerrors.ErrLimitEventNotInSession)
	require.ErrorIs(t, err, gameerrors.ErrEventNotInSession)
	require.NotErrorIs(t, err, gameerrors.ErrTargetEventNotInSession)
}

func TestElapsedTimeSinceUsesLimit(t *testing.T) {
	e, clock := newTestEngine(t, DefaultConfig())
	play := e.Game().Play()

	clock.Advance(2 * time.Second)
	pause, err := e.Game().Pause()
	require.NoError(t, err)

	clock.Advance(4 * time.Second)
	e.Game().SyncClock()

	elapsed, err := e.Game().ElapsedTimeSince(play, &pause)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, elapsed)
}

func TestIsPausedAt(t *testing.T) {
	e, clock := newTestEngine(t, DefaultConfig())
	e.Game().Play()

	clock.Set(time.UnixMilli(1000))
	_, err := e.Game().Pause()
	require.NoError(t, err)
	clock.Set(time.UnixMilli(2000))
	_, err = e.Game().Resume()
	require.NoError(t, err)

	tests := []struct {
		at     int64
		paused bool
	}{
		{at: 500, paused: false},
		{at: 1000, paused: true},
		{at: 1500, paused: true},
		{at: 2000, paused: false},
		{at: 2500, paused: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.paused, e.Game().IsPausedAt(time.UnixMilli(tt.at)), "at %d", tt.at)
	}
}

func TestSpawnEmitsOneBatch(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())
	e.Game().Play()

	spawned, err := e.Spawn(2)
	require.NoError(t, err)
	require.Len(t, spawned, 2)
	assert.Equal(t, spawned[0].Timestamp, spawned[1].Timestamp)
	assert.Equal(t, "alpha", spawned[0].Spawn.Entity.Word)
	assert.Equal(t, "bravo", spawned[1].Spawn.Entity.Word)
	assert.Equal(t, 8.0, spawned[0].Spawn.Entity.Speed)
	assert.Equal(t, -50.0, spawned[0].Spawn.Position.X)
	assert.Equal(t, -25.0, spawned[0].Spawn.Position.Y)
	assert.NotEqual(t, spawned[0].Spawn.Entity.ID, spawned[1].Spawn.Entity.ID)

	all := e.Enemies().All()
	require.Len(t, all, 2)
	assert.Equal(t, "alpha", all[0].Word)
}

func TestEnemyHealthIsResolvedOnce(t *testing.T) {
	e, clock := newTestEngine(t, DefaultConfig())

	stranger := events.Enemy{ID: "stranger", Word: "nobody"}
	_, err := e.Enemies().Health(stranger)
	require.ErrorIs(t, err, gameerrors.ErrEnemyNotInSession)

	e.Game().Play()
	spawned, err := e.Enemies().Spawn(1)
	require.NoError(t, err)
	enemy := spawned[0].Spawn.Entity

	health, err := e.Enemies().Health(enemy)
	require.NoError(t, err)
	assert.Equal(t, 1, health)

	e.Log().Emit(events.HitOnTarget(enemy))
	for range 3 {
		clock.Advance(time.Second)
		e.Log().Emit(events.Pause(), events.Resume(), events.HitBySource(enemy))
		health, err = e.Enemies().Health(enemy)
		require.NoError(t, err)
		assert.Equal(t, 0, health)
	}
	hit, ok := e.Enemies().Resolution(enemy)
	require.True(t, ok)
	assert.True(t, hit.IsTargetHit())

	// a new session forgets the enemy
	e.Game().Play()
	_, err = e.Enemies().Health(enemy)
	require.ErrorIs(t, err, gameerrors.ErrEnemyNotInSession)
}

func TestDistanceAndPosition(t *testing.T) {
	e, clock := newTestEngine(t, DefaultConfig())
	e.Game().Play()
	spawned, err := e.Enemies().Spawn(1)
	require.NoError(t, err)
	enemy := spawned[0].Spawn.Entity

	distance, err := e.Enemies().Distance(enemy)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, distance, 1e-9)

	clock.Advance(4 * time.Second)
	e.Game().SyncClock()
	distance, err = e.Enemies().Distance(enemy)
	require.NoError(t, err)
	assert.InDelta(t, 80.0, distance, 1e-9)
	position, err := e.Enemies().Position(enemy)
	require.NoError(t, err)
	assert.InDelta(t, -40.0, position.X, 1e-9)
	assert.InDelta(t, -20.0, position.Y, 1e-9)

	// killed: frozen at 80, then the player keeps closing in
	e.Log().Emit(events.HitOnTarget(enemy))
	clock.Advance(2 * time.Second)
	e.Game().SyncClock()
	distance, err = e.Enemies().Distance(enemy)
	require.NoError(t, err)
	assert.InDelta(t, 74.0, distance, 1e-9)
	position, err = e.Enemies().Position(enemy)
	require.NoError(t, err)
	assert.InDelta(t, -46.0, position.X, 1e-9)
	assert.InDelta(t, -26.0, position.Y, 1e-9)
}

func TestDistanceIgnoresPauses(t *testing.T) {
	e, clock := newTestEngine(t, DefaultConfig())
	e.Game().Play()
	spawned, err := e.Enemies().Spawn(1)
	require.NoError(t, err)
	enemy := spawned[0].Spawn.Entity

	clock.Advance(time.Second)
	_, err = e.Game().Pause()
	require.NoError(t, err)
	clock.Advance(time.Hour)
	e.Game().SyncClock()

	distance, err := e.Enemies().Distance(enemy)
	require.NoError(t, err)
	assert.InDelta(t, 95.0, distance, 1e-9)
}

func TestPositionStopsAtOrigin(t *testing.T) {
	e, clock := newTestEngine(t, DefaultConfig())
	e.Game().Play()
	spawned, err := e.Enemies().Spawn(1)
	require.NoError(t, err)
	enemy := spawned[0].Spawn.Entity

	// keep the enemy from resolving so it walks past the player
	clock.Advance(30 * time.Second)
	e.Game().SyncClock()
	position, err := e.Enemies().Position(enemy)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, position.X, 1e-9)
	assert.InDelta(t, 0.0, position.Y, 1e-9)
}

func TestEnemySpawnedAfterGameOverStaysAtSpawn(t *testing.T) {
	config := DefaultConfig()
	config.MaxHealth = 3
	e, clock := newTestEngine(t, config)
	e.Game().Play()
	e.Log().Emit(events.HitBySource(events.Enemy{ID: "early", Word: "abc"}))
	require.True(t, e.Game().Over())

	clock.Advance(5 * time.Second)
	spawned, err := e.Spawn(1)
	require.NoError(t, err)
	enemy := spawned[0].Spawn.Entity

	clock.Advance(5 * time.Second)
	e.Game().SyncClock()
	distance, err := e.Enemies().Distance(enemy)
	require.NoError(t, err)
	assert.Equal(t, 100.0, distance)

	position, err := e.Enemies().Position(enemy)
	require.NoError(t, err)
	assert.Equal(t, -50.0, position.X)
	assert.Equal(t, -25.0, position.Y)
}

func TestSpawnWithoutQuantitySpawnsNothing(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())
	e.Game().Play()

	for _, quantity := range []int{0, -1} {
		spawned, err := e.Spawn(quantity)
		require.NoError(t, err)
		assert.Empty(t, spawned)
	}
	assert.Equal(t, 1, e.Log().Len())
	assert.Empty(t, e.Enemies().All())
}

func TestAutoDamageHitsOnce(t *testing.T) {
	e, clock := newTestEngine(t, DefaultConfig())
	e.Game().Play()
	_, err := e.Enemies().Spawn(1)
	require.NoError(t, err)

	clock.Advance(19 * time.Second)
	e.Tick()
	assert.Equal(t, 25, e.Player().Health())

	clock.Advance(time.Second)
	e.Tick()
	e.Tick()
	clock.Advance(time.Second)
	e.Tick()

	hits := 0
	for _, event := range e.Game().Session() {
		if event.IsSourceHit() {
			hits++
			assert.Equal(t, "alpha", event.Hit.Source.Word)
		}
	}
	assert.Equal(t, 1, hits)
	assert.Equal(t, 20, e.Player().Health())
}

func TestAutoDamageEndsTheGame(t *testing.T) {
	config := DefaultConfig()
	config.MaxHealth = 5
	e, clock := newTestEngine(t, config)
	e.Game().Play()
	_, err := e.Enemies().Spawn(2)
	require.NoError(t, err)

	clock.Advance(20 * time.Second)
	e.Tick()

	assert.True(t, e.Game().Over())
	assert.Equal(t, 0, e.Player().Health())
	death, ok := e.Game().DeathEvent()
	require.True(t, ok)
	assert.Equal(t, "alpha", death.Hit.Source.Word)

	// the second enemy never lands, and nothing spawns after the end
	count := len(e.Game().Session())
	clock.Advance(10 * time.Second)
	e.Tick()
	assert.Len(t, e.Game().Session(), count)
}

func TestAutoDamageWaitsWhilePaused(t *testing.T) {
	e, clock := newTestEngine(t, DefaultConfig())
	e.Game().Play()
	_, err := e.Enemies().Spawn(1)
	require.NoError(t, err)

	clock.Advance(10 * time.Second)
	_, err = e.Game().Pause()
	require.NoError(t, err)
	clock.Advance(time.Minute)
	e.Tick()

	assert.Equal(t, 25, e.Player().Health())
	assert.Len(t, e.Enemies().All(), 1)
}

func TestSpawnCadenceFollowsGameTime(t *testing.T) {
	e, clock := newTestEngine(t, DefaultConfig())
	e.Play()

	e.Tick()
	assert.Len(t, e.Enemies().All(), 1)
	e.Tick()
	assert.Len(t, e.Enemies().All(), 1)

	clock.Advance(2 * time.Second)
	e.Tick()
	assert.Len(t, e.Enemies().All(), 2)

	clock.Advance(time.Second)
	_, err := e.Pause()
	require.NoError(t, err)
	clock.Advance(5 * time.Second)
	e.Tick()
	assert.Len(t, e.Enemies().All(), 2)

	_, err = e.Resume()
	require.NoError(t, err)
	clock.Advance(time.Second)
	e.Tick()
	assert.Len(t, e.Enemies().All(), 3)

	// a new session restarts the cadence
	e.Play()
	assert.Empty(t, e.Enemies().All())
	e.Tick()
	assert.Len(t, e.Enemies().All(), 1)
}

func TestKeystrokesToHit(t *testing.T) {
	e, clock := newTestEngine(t, DefaultConfig(), "tab")

	stranger := events.Enemy{ID: "stranger", Word: "nobody"}
	_, err := e.Player().KeystrokesToHit(stranger)
	require.ErrorIs(t, err, gameerrors.ErrEnemyNotInSession)

	// typed before the spawn
	typeKeys(e, clock, time.Second, "t")
	clock.Advance(time.Second)
	e.Game().Play()
	spawned, err := e.Enemies().Spawn(1)
	require.NoError(t, err)
	enemy := spawned[0].Spawn.Entity

	typeKeys(e, clock, time.Second, "a")
	progress, err := e.Player().KeystrokesToHit(enemy)
	require.NoError(t, err)
	assert.Empty(t, progress)

	typeKeys(e, clock, time.Second, "t", "Shift", "a")
	progress, err = e.Player().KeystrokesToHit(enemy)
	require.NoError(t, err)
	require.Len(t, progress, 2)
	assert.Equal(t, "t", progress[0].Key)
	assert.Equal(t, "a", progress[1].Key)
}

func TestKeystrokesWhilePausedDoNotCount(t *testing.T) {
	e, clock := newTestEngine(t, DefaultConfig(), "tab")
	e.Game().Play()
	spawned, err := e.Enemies().Spawn(1)
	require.NoError(t, err)
	enemy := spawned[0].Spawn.Entity

	typeKeys(e, clock, time.Second, "t")
	clock.Advance(time.Second)
	_, err = e.Pause()
	require.NoError(t, err)
	typeKeys(e, clock, time.Second, "a")
	clock.Advance(time.Second)
	_, err = e.Resume()
	require.NoError(t, err)

	progress, err := e.Player().KeystrokesToHit(enemy)
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Equal(t, "t", progress[0].Key)

	typeKeys(e, clock, time.Second, "b")
	progress, err = e.Player().KeystrokesToHit(enemy)
	require.NoError(t, err)
	assert.Empty(t, progress)
}

func TestTargetPrefersEarliestProgress(t *testing.T) {
	e, clock := newTestEngine(t, DefaultConfig(), "tab", "stab")
	e.Game().Play()
	_, err := e.Enemies().Spawn(2)
	require.NoError(t, err)

	_, ok := e.Player().Target()
	assert.False(t, ok)
	assert.Empty(t, e.Player().KeystrokesToHitTarget())

	typeKeys(e, clock, time.Second, "s", "t")
	target, ok := e.Player().Target()
	require.True(t, ok)
	assert.Equal(t, "stab", target.Word)
	assert.Len(t, e.Player().KeystrokesToHitTarget(), 2)
}

func TestTargetTieKeepsEarlierSpawn(t *testing.T) {
	e, clock := newTestEngine(t, DefaultConfig(), "tab", "tub")
	e.Game().Play()
	_, err := e.Enemies().Spawn(2)
	require.NoError(t, err)

	typeKeys(e, clock, time.Second, "t")
	target, ok := e.Player().Target()
	require.True(t, ok)
	assert.Equal(t, "tab", target.Word)

	typeKeys(e, clock, time.Second, "u")
	target, ok = e.Player().Target()
	require.True(t, ok)
	assert.Equal(t, "tub", target.Word)
}

func TestTargetProgressSkipsNamedKeys(t *testing.T) {
	e, clock := newTestEngine(t, DefaultConfig(), "tab", "stab")
	e.Game().Play()
	_, err := e.Enemies().Spawn(2)
	require.NoError(t, err)

	typeKeys(e, clock, time.Second, "s", "Shift", "t")
	target, ok := e.Player().Target()
	require.True(t, ok)
	assert.Equal(t, "stab", target.Word)

	// the modifier neither breaks the word nor starts the progress
	progress := e.Player().KeystrokesToHitTarget()
	require.Len(t, progress, 2)
	assert.Equal(t, "s", progress[0].Key)
	assert.Equal(t, "t", progress[1].Key)

	tab, err := e.Player().KeystrokesToHit(e.Enemies().All()[0])
	require.NoError(t, err)
	require.Len(t, tab, 1)
	assert.True(t, tab[0].Timestamp.After(progress[0].Timestamp))
}

func TestAutoHitKillsTargetAndSpendsKeystrokes(t *testing.T) {
	e, clock := newTestEngine(t, DefaultConfig(), "tab", "stab")
	e.Game().Play()
	spawned, err := e.Enemies().Spawn(2)
	require.NoError(t, err)
	tab, stab := spawned[0].Spawn.Entity, spawned[1].Spawn.Entity

	// "stab" ends with "tab" too, but stab was started first
	typeKeys(e, clock, time.Second, "s", "t", "a", "b")

	health, err := e.Enemies().Health(stab)
	require.NoError(t, err)
	assert.Equal(t, 0, health)
	health, err = e.Enemies().Health(tab)
	require.NoError(t, err)
	assert.Equal(t, 1, health)

	_, ok := e.Player().Target()
	assert.False(t, ok)

	typeKeys(e, clock, time.Second, "t", "a")
	target, ok := e.Player().Target()
	require.True(t, ok)
	assert.Equal(t, tab.ID, target.ID)

	typeKeys(e, clock, time.Second, "b")
	health, err = e.Enemies().Health(tab)
	require.NoError(t, err)
	assert.Equal(t, 0, health)

	kills := 0
	for _, event := range e.Game().Session() {
		if event.IsTargetHit() {
			kills++
		}
	}
	assert.Equal(t, 2, kills)
}

func TestTypingThePlayWordStartsAndRestarts(t *testing.T) {
	config := DefaultConfig()
	config.MaxHealth = 5
	e, clock := newTestEngine(t, config)

	typeKeys(e, clock, time.Second, "Escape", "w", "a")
	assert.Equal(t, StateNotStarted, e.Game().State())
	assert.Len(t, e.Game().KeystrokesToPlay(), 2)

	typeKeys(e, clock, time.Second, "r")
	assert.Equal(t, StatePlaying, e.Game().State())
	assert.Equal(t, 5, e.Player().Health())

	// typing the word again mid-game does nothing
	typeKeys(e, clock, time.Second, "w", "a", "r")
	assert.Len(t, e.Log().Events(), 1)

	e.Log().Emit(sourceHit("alpha"))
	assert.Equal(t, StateOver, e.Game().State())
	assert.Empty(t, e.Game().KeystrokesToPlay())

	typeKeys(e, clock, time.Second, "w", "a", "r")
	assert.Equal(t, StatePlaying, e.Game().State())
	assert.Equal(t, 5, e.Player().Health())
}

func TestPauseKeyTogglesPause(t *testing.T) {
	e, clock := newTestEngine(t, DefaultConfig())
	typeKeys(e, clock, time.Second, "w", "a", "r")
	require.Equal(t, StatePlaying, e.Game().State())

	typeKeys(e, clock, time.Second, "Escape")
	assert.Equal(t, StatePaused, e.Game().State())

	// key repeats are dropped, so holding the key doesn't toggle
	assert.False(t, e.Type("Escape", true))
	assert.Equal(t, StatePaused, e.Game().State())

	typeKeys(e, clock, time.Second, "Escape")
	assert.Equal(t, StatePlaying, e.Game().State())
}

func TestSnapshot(t *testing.T) {
	e, clock := newTestEngine(t, DefaultConfig(), "tab", "stab")
	snapshot := e.Snapshot()
	assert.Equal(t, StateNotStarted, snapshot.State)
	assert.Empty(t, snapshot.Enemies)

	e.Game().Play()
	_, err := e.Enemies().Spawn(2)
	require.NoError(t, err)
	typeKeys(e, clock, time.Second, "s", "t")

	snapshot = e.Snapshot()
	assert.Equal(t, StatePlaying, snapshot.State)
	assert.Equal(t, 25, snapshot.Health)
	assert.Equal(t, 25, snapshot.MaxHealth)
	assert.Equal(t, 2*time.Second, snapshot.Elapsed)
	require.Len(t, snapshot.Enemies, 2)
	assert.Equal(t, snapshot.Enemies[1].ID, snapshot.TargetID)
	assert.True(t, snapshot.Enemies[1].Targeted)
	assert.Equal(t, 2, snapshot.Enemies[1].Typed)
	assert.Equal(t, 1, snapshot.Enemies[0].Typed)
	assert.False(t, snapshot.Enemies[0].Targeted)

	typeKeys(e, clock, time.Second, "a", "b")
	snapshot = e.Snapshot()
	assert.Equal(t, 1, snapshot.Kills)
	assert.False(t, snapshot.Enemies[1].Alive)
}
