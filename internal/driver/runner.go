package driver

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-fighter/internal/fight"
	"github.com/vovakirdan/tui-fighter/internal/match"
	"github.com/vovakirdan/tui-fighter/internal/replay"
)

// Frame is what one match step produced, as handed to sinks.
type Frame struct {
	Tick     int                `json:"tick"`
	State    string             `json:"state"`
	Round    int                `json:"round"`
	TimeLeft int                `json:"time_left"`
	Health   [2]int             `json:"health"`
	Meter    [2]int             `json:"meter"`
	Events   []fight.HitEvent   `json:"events,omitempty"`
	RoundEnd *match.RoundResult `json:"round_end,omitempty"`
	Over     bool               `json:"over"`
}

// Sink receives every frame. Publish must not block.
type Sink interface {
	Publish(f Frame)
}

// Options configures a Runner.
type Options struct {
	TickRate int // ticks per second for Run; 0 means 60
	MaxTicks int // stop after this many steps; 0 means until the match ends
	Logger   *log.Logger
	Sinks    []Sink
}

// Runner steps a recorded match with inputs from two sources.
type Runner struct {
	rec     *replay.Recorder
	sources [2]Source
	opts    Options
	logger  *log.Logger
	steps   int
}

// NewRunner creates a runner over rec.
func NewRunner(rec *replay.Recorder, p1, p2 Source, opts Options) *Runner {
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		rec:     rec,
		sources: [2]Source{p1, p2},
		opts:    opts,
		logger:  logger,
	}
}

// Recorder returns the runner's recorder.
func (r *Runner) Recorder() *replay.Recorder {
	return r.rec
}

// Done reports whether the match is over or the tick limit is reached.
func (r *Runner) Done() bool {
	if r.rec.Match().State() == match.StateOver {
		return true
	}
	return r.opts.MaxTicks > 0 && r.steps >= r.opts.MaxTicks
}

// Step polls both sources and advances the match by one tick.
func (r *Runner) Step() (Frame, error) {
	m := r.rec.Match()
	sim := m.Simulation()
	s1 := r.sources[fight.P1].Next(viewOf(sim, fight.P1))
	s2 := r.sources[fight.P2].Next(viewOf(sim, fight.P2))

	upd, err := r.rec.Step(s1, s2)
	if err != nil {
		r.logger.Error("simulation halted", "tick", upd.Tick, "err", err)
		return Frame{}, err
	}
	r.steps++

	f := r.frame(upd)
	for _, ev := range upd.Events {
		r.logger.Debug("contact", "event", ev.String())
	}
	if upd.Round != nil {
		r.logger.Info("round over",
			"round", upd.Round.Round,
			"reason", upd.Round.Reason.String(),
			"winner", winnerName(*upd.Round),
			"perfect", upd.Round.Perfect,
		)
	}
	for _, s := range r.opts.Sinks {
		s.Publish(f)
	}
	return f, nil
}

func (r *Runner) frame(upd match.Update) Frame {
	m := r.rec.Match()
	sim := m.Simulation()
	p1, p2 := sim.Character(fight.P1), sim.Character(fight.P2)
	return Frame{
		Tick:     upd.Tick,
		State:    upd.State.String(),
		Round:    m.Round(),
		TimeLeft: m.TimeLeft(),
		Health:   [2]int{p1.Health, p2.Health},
		Meter:    [2]int{p1.Meter, p2.Meter},
		Events:   upd.Events,
		RoundEnd: upd.Round,
		Over:     upd.Over,
	}
}

// Run steps the match on a ticker until it ends, the tick limit is hit or
// ctx is cancelled.
func (r *Runner) Run(ctx context.Context) (match.Result, error) {
	ticker := time.NewTicker(time.Second / time.Duration(r.opts.TickRate))
	defer ticker.Stop()

	for !r.Done() {
		select {
		case <-ctx.Done():
			return r.rec.Match().Result(), ctx.Err()
		case <-ticker.C:
			if _, err := r.Step(); err != nil {
				return r.rec.Match().Result(), err
			}
		}
	}
	return r.finish(), nil
}

// RunHeadless steps the match as fast as possible.
func (r *Runner) RunHeadless(ctx context.Context) (match.Result, error) {
	for !r.Done() {
		if err := ctx.Err(); err != nil {
			return r.rec.Match().Result(), err
		}
		if _, err := r.Step(); err != nil {
			return r.rec.Match().Result(), err
		}
	}
	return r.finish(), nil
}

func (r *Runner) finish() match.Result {
	res := r.rec.Match().Result()
	winner := "draw"
	if !res.Draw {
		winner = res.Winner.String()
	}
	r.logger.Info("match finished", "winner", winner, "wins", res.Wins, "ticks", res.Ticks)
	return res
}

func winnerName(res match.RoundResult) string {
	if res.Draw {
		return "draw"
	}
	return res.Winner.String()
}
