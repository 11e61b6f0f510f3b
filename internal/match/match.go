// Package match runs rounds on top of a fight simulation: the pre-round
// freeze, the round clock, KO and time-over decisions, and the best-of
// series. It never changes how a tick is simulated.
package match

import (
	"fmt"

	"github.com/vovakirdan/tui-fighter/internal/config"
	"github.com/vovakirdan/tui-fighter/internal/fight"
	"github.com/vovakirdan/tui-fighter/internal/input"
)

// State is the phase of the match.
type State uint8

const (
	StateIntro     State = iota // characters frozen before the round
	StateFight                  // the simulation is running
	StateRoundOver              // the round is decided, waiting for the next
	StateOver                   // the match is decided
)

func (s State) String() string {
	switch s {
	case StateIntro:
		return "intro"
	case StateFight:
		return "fight"
	case StateRoundOver:
		return "round over"
	case StateOver:
		return "match over"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// EndReason describes how a round ended.
type EndReason uint8

const (
	ReasonKO EndReason = iota + 1
	ReasonDoubleKO
	ReasonTimeOver
)

func (r EndReason) String() string {
	switch r {
	case ReasonKO:
		return "K.O."
	case ReasonDoubleKO:
		return "Double K.O."
	case ReasonTimeOver:
		return "Time over"
	default:
		return "Unknown"
	}
}

func (r EndReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *EndReason) UnmarshalText(text []byte) error {
	for _, v := range []EndReason{ReasonKO, ReasonDoubleKO, ReasonTimeOver} {
		if v.String() == string(text) {
			*r = v
			return nil
		}
	}
	return fmt.Errorf("match: unknown end reason %q", text)
}

// RoundResult is the outcome of one round. Winner is meaningless when
// Draw is set.
type RoundResult struct {
	Round   int
	Winner  fight.Side
	Draw    bool
	Reason  EndReason
	Perfect bool
	Tick    int
}

// Result is the outcome of the whole match.
type Result struct {
	Winner fight.Side
	Draw   bool
	Wins   [2]int
	Rounds []RoundResult
	Ticks  int
}

// Update reports what one Step did.
type Update struct {
	Tick   int
	State  State
	Events []fight.HitEvent
	Round  *RoundResult // set on the tick a round is decided
	Over   bool
}

// Match drives a simulation through a best-of series.
type Match struct {
	cfg config.MatchConfig
	sim *fight.Simulation

	state  State
	round  int
	timer  int // ticks left in the intro or round-over pause
	clock  int // ticks left on the round clock
	wins   [2]int
	rounds []RoundResult
	ticks  int
}

// New creates a match over sim, using the match rules of its config.
func New(sim *fight.Simulation) *Match {
	m := &Match{cfg: sim.Config().Match, sim: sim}
	m.startRound()
	return m
}

// Simulation returns the underlying simulation.
func (m *Match) Simulation() *fight.Simulation {
	return m.sim
}

// State returns the current match state.
func (m *Match) State() State {
	return m.state
}

// Round returns the 1-based number of the current round.
func (m *Match) Round() int {
	return m.round
}

// Wins returns the rounds won by each side.
func (m *Match) Wins() [2]int {
	return m.wins
}

// Ticks returns the number of steps taken.
func (m *Match) Ticks() int {
	return m.ticks
}

// TimeLeft returns the round clock in whole seconds, rounded up, or -1
// when the clock is disabled.
func (m *Match) TimeLeft() int {
	if m.cfg.RoundSeconds <= 0 {
		return -1
	}
	return (m.clock + m.cfg.TicksPerSecond - 1) / m.cfg.TicksPerSecond
}

// MaxRounds is the series length after which the match ends regardless
// of wins, so drawn rounds cannot extend it forever.
func (m *Match) MaxRounds() int {
	return 2*m.cfg.RoundsToWin + 1
}

// Result summarises the match so far.
func (m *Match) Result() Result {
	r := Result{Wins: m.wins, Rounds: append([]RoundResult(nil), m.rounds...), Ticks: m.ticks}
	switch {
	case m.wins[fight.P1] > m.wins[fight.P2]:
		r.Winner = fight.P1
	case m.wins[fight.P2] > m.wins[fight.P1]:
		r.Winner = fight.P2
	default:
		r.Draw = true
	}
	return r
}

func (m *Match) startRound() {
	m.round++
	m.clock = m.cfg.RoundSeconds * m.cfg.TicksPerSecond
	m.timer = m.cfg.IntroTicks
	m.state = StateIntro
	if m.timer <= 0 {
		m.state = StateFight
	}
}

// Step advances the match by one tick. Inputs are ignored outside of
// StateFight.
func (m *Match) Step(p1, p2 input.Sample) (Update, error) {
	if m.state == StateOver {
		return Update{Tick: m.ticks, State: m.state, Over: true}, nil
	}
	upd := Update{Tick: m.ticks}
	m.ticks++

	switch m.state {
	case StateIntro:
		if m.timer--; m.timer <= 0 {
			m.state = StateFight
		}

	case StateFight:
		events, err := m.sim.AdvanceTick(p1, p2)
		if err != nil {
			return upd, err
		}
		upd.Events = events
		if m.cfg.RoundSeconds > 0 {
			m.clock--
		}
		if res, ok := m.decide(); ok {
			m.rounds = append(m.rounds, res)
			if !res.Draw {
				m.wins[res.Winner]++
			}
			decided := res
			upd.Round = &decided
			m.state = StateRoundOver
			m.timer = m.cfg.OutroTicks
		} else if m.cfg.RefillHealth && m.idle() {
			m.sim.Refill()
		}
		if m.state == StateRoundOver && m.timer <= 0 {
			m.next()
		}

	case StateRoundOver:
		if m.timer--; m.timer <= 0 {
			m.next()
		}
	}

	upd.State = m.state
	upd.Over = m.state == StateOver
	return upd, nil
}

// next ends the round-over pause: either the match is decided or the
// next round starts with meter carried over.
func (m *Match) next() {
	if m.wins[fight.P1] >= m.cfg.RoundsToWin || m.wins[fight.P2] >= m.cfg.RoundsToWin || len(m.rounds) >= m.MaxRounds() {
		m.state = StateOver
		return
	}
	m.sim.Reset(true)
	m.startRound()
}

// decide checks for a KO or the clock running out.
func (m *Match) decide() (RoundResult, bool) {
	p1, p2 := m.sim.Character(fight.P1), m.sim.Character(fight.P2)
	res := RoundResult{Round: m.round, Tick: m.sim.Tick() - 1}

	switch {
	case p1.KO() && p2.KO():
		res.Reason = ReasonDoubleKO
		res.Draw = true
	case p2.KO():
		res.Reason = ReasonKO
		res.Winner = fight.P1
		res.Perfect = p1.Health == p1.MaxHealth
	case p1.KO():
		res.Reason = ReasonKO
		res.Winner = fight.P2
		res.Perfect = p2.Health == p2.MaxHealth
	case m.cfg.RoundSeconds > 0 && m.clock <= 0:
		res.Reason = ReasonTimeOver
		// Compare health as a fraction of each side's maximum.
		a, b := p1.Health*p2.MaxHealth, p2.Health*p1.MaxHealth
		switch {
		case a > b:
			res.Winner = fight.P1
		case b > a:
			res.Winner = fight.P2
		default:
			res.Draw = true
		}
	default:
		return res, false
	}
	return res, true
}

// idle reports whether both characters are free to act, the point at
// which training mode refills health.
func (m *Match) idle() bool {
	return m.sim.Character(fight.P1).Actionable() && m.sim.Character(fight.P2).Actionable()
}
