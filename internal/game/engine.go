// internal/game/engine.go
//
// Round engine for a single player's session.
// Responsibilities:
//   - Deal boards for easy/medium/hard (8/12/16 tiles, one pair per color).
//   - Accept tile selections, evaluate pairs, keep score.
//   - Hold the pending window after each pair and clear it on a timer.
//   - Track state transitions: no round → playing ⇄ pending → complete.
//
// Notes:
//   - Scores change the moment a pair is evaluated; the reveal delay only
//     governs when the selection is cleared.
//   - Invalid selections are ignored, never reported as errors.
//   - All state lives in round and is guarded by mu. The reveal timer fires
//     on its own goroutine, so the callback takes mu like every command.
package game

import (
	"math/rand/v2"
	"sync"
	"time"
)

// DefaultRevealDelay is how long an evaluated pair stays selected.
const DefaultRevealDelay = time.Second

// round is the state owned by one round. Initialize replaces it wholesale.
type round struct {
	difficulty   Difficulty
	board        []Tile
	selection    []int
	currentScore int
	moves        int
	pending      bool
	gameOver     bool
}

// Engine is the round state machine. The zero value is not usable; call New.
type Engine struct {
	mu sync.Mutex

	palette []Color
	rng     *rand.Rand
	sched   Scheduler
	delay   time.Duration

	round      round
	totalScore int

	timer Timer
	// gen increments whenever the round is replaced or discarded, so a
	// clear armed for an older round is ignored if it still fires.
	gen uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler replaces the timer source (tests use a manual one).
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.sched = s
		}
	}
}

// WithRevealDelay sets the pending window length.
func WithRevealDelay(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.delay = d
		}
	}
}

// WithRand sets the shuffle source.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithPalette sets the colors boards are dealt from. Palettes with fewer
// than PaletteSize colors are ignored.
func WithPalette(p []Color) Option {
	return func(e *Engine) {
		if len(p) >= PaletteSize {
			e.palette = append([]Color(nil), p...)
		}
	}
}

// New constructs an engine with no active round and a total score of zero.
func New(opts ...Option) *Engine {
	e := &Engine{
		palette: DefaultPalette,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		sched:   RealScheduler,
		delay:   DefaultRevealDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize deals a fresh board for d and resets the per-round counters.
// The total score is kept. Any pending clear is cancelled.
func (e *Engine) Initialize(d Difficulty) error {
	n, err := d.TileCount()
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.startLocked(d, n)
	return nil
}

// PlayAgain re-deals the board at the current difficulty.
func (e *Engine) PlayAgain() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := e.round.difficulty
	n, err := d.TileCount()
	if err != nil {
		return ErrNoActiveRound
	}
	e.startLocked(d, n)
	return nil
}

// ReturnToMenu abandons the round. The total score is kept.
func (e *Engine) ReturnToMenu() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelLocked()
	e.round = round{}
}

// Close stops any outstanding timer. The engine must not be used afterwards.
func (e *Engine) Close() { e.ReturnToMenu() }

func (e *Engine) startLocked(d Difficulty, n int) {
	e.cancelLocked()
	e.round = round{
		difficulty: d,
		board:      newBoard(e.palette, n, e.rng),
		selection:  make([]int, 0, 2),
	}
}

// cancelLocked stops the reveal timer and invalidates any clear already
// in flight. Safe to call with no timer armed.
func (e *Engine) cancelLocked() {
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// SelectTile adds tile id to the selection. It is ignored when no round is
// active, the id is off the board, the tile is matched or already selected,
// or a pair is pending.
func (e *Engine) SelectTile(id int) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := &e.round
	if r.pending || id < 0 || id >= len(r.board) || r.board[id].Matched {
		return Outcome{}
	}
	for _, sel := range r.selection {
		if sel == id {
			return Outcome{}
		}
	}

	r.selection = append(r.selection, id)
	out := Outcome{Accepted: true}
	if len(r.selection) < 2 {
		return out
	}

	out.Evaluated = true
	r.pending = true
	r.moves++

	a, b := &r.board[r.selection[0]], &r.board[r.selection[1]]
	if a.Color == b.Color {
		a.Matched, b.Matched = true, true
		r.currentScore++
		e.totalScore++
		out.Matched = true
		if r.currentScore == len(r.board)/2 {
			r.gameOver = true
			out.Completed = true
		}
	}

	gen := e.gen
	e.timer = e.sched.AfterFunc(e.delay, func() { e.clearSelection(gen) })
	return out
}

// clearSelection ends the pending window armed in generation gen.
func (e *Engine) clearSelection(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return
	}
	e.round.selection = e.round.selection[:0]
	e.round.pending = false
	e.timer = nil
}

// TotalScore returns the pairs matched across all rounds of this engine.
func (e *Engine) TotalScore() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalScore
}

// Snapshot returns a copy of the current state. Colors of tiles that are
// neither matched nor selected are withheld.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := &e.round
	s := Snapshot{
		Phase:        e.phaseLocked(),
		Difficulty:   r.difficulty,
		Board:        make([]TileView, len(r.board)),
		Selection:    append([]int{}, r.selection...),
		CurrentScore: r.currentScore,
		TotalScore:   e.totalScore,
		Moves:        r.moves,
		Pairs:        len(r.board) / 2,
		Pending:      r.pending,
		GameOver:     r.gameOver,
	}

	selected := make(map[int]bool, len(r.selection))
	for _, id := range r.selection {
		selected[id] = true
	}
	for i, t := range r.board {
		v := TileView{ID: t.ID, Matched: t.Matched, Selected: selected[t.ID]}
		if t.Matched || v.Selected {
			v.Color = t.Color
		} else {
			v.Hidden = true
		}
		s.Board[i] = v
	}
	return s
}

func (e *Engine) phaseLocked() Phase {
	switch {
	case e.round.difficulty == DifficultyNone:
		return PhaseNoRound
	case e.round.gameOver:
		return PhaseComplete
	case e.round.pending:
		return PhasePending
	}
	return PhasePlaying
}
