// Package replay records the per-tick inputs of a match and plays them
// back. A log holds everything needed to rebuild the match: the two
// character ids, the simulation config and one record per match tick.
package replay

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-fighter/internal/config"
	"github.com/vovakirdan/tui-fighter/internal/fight"
	"github.com/vovakirdan/tui-fighter/internal/input"
	"github.com/vovakirdan/tui-fighter/internal/match"
)

// Version is the log format written by this package.
const Version = 1

var (
	// ErrCorrupt is returned for logs that cannot be played back.
	ErrCorrupt = errors.New("replay: corrupt log")
	// ErrDesync is returned when a playback ends in a different state than
	// the one recorded.
	ErrDesync = errors.New("replay: state hash mismatch")
)

// Record is the screen-relative input of both players for one match tick.
type Record struct {
	Tick int          `yaml:"tick" json:"tick"`
	P1   input.Sample `yaml:"p1" json:"p1"`
	P2   input.Sample `yaml:"p2" json:"p2"`
}

// Log is a complete replay.
type Log struct {
	Version int              `yaml:"version" json:"version"`
	P1      string           `yaml:"p1" json:"p1"`
	P2      string           `yaml:"p2" json:"p2"`
	Config  config.SimConfig `yaml:"config" json:"config"`
	Records []Record         `yaml:"records" json:"records"`

	// Hash is the simulation state hash after the last record.
	Hash uint64 `yaml:"hash" json:"hash"`
}

// Check verifies the log can be played back: a known version and one
// record per tick, starting at zero.
func (l *Log) Check() error {
	if l.Version != Version {
		return fmt.Errorf("%w: unsupported version %d", ErrCorrupt, l.Version)
	}
	if l.P1 == "" || l.P2 == "" {
		return fmt.Errorf("%w: missing character id", ErrCorrupt)
	}
	for i, r := range l.Records {
		if r.Tick != i {
			return fmt.Errorf("%w: record %d has tick %d", ErrCorrupt, i, r.Tick)
		}
	}
	return nil
}

// Ticks returns the number of recorded ticks.
func (l *Log) Ticks() int {
	return len(l.Records)
}

// Recorder steps a match and logs every input pair it is fed.
type Recorder struct {
	m   *match.Match
	log Log
}

// NewRecorder starts recording m, whose characters are p1 and p2.
func NewRecorder(m *match.Match, p1, p2 string) *Recorder {
	return &Recorder{
		m: m,
		log: Log{
			Version: Version,
			P1:      p1,
			P2:      p2,
			Config:  m.Simulation().Config(),
		},
	}
}

// Match returns the recorded match.
func (r *Recorder) Match() *match.Match {
	return r.m
}

// Step records the inputs and advances the match. Steps after the match
// is over are not recorded.
func (r *Recorder) Step(p1, p2 input.Sample) (match.Update, error) {
	if r.m.State() == match.StateOver {
		return r.m.Step(p1, p2)
	}
	r.log.Records = append(r.log.Records, Record{Tick: len(r.log.Records), P1: p1, P2: p2})
	return r.m.Step(p1, p2)
}

// Log returns a copy of the log so far, stamped with the current state
// hash.
func (r *Recorder) Log() *Log {
	out := r.log
	out.Records = append([]Record(nil), r.log.Records...)
	out.Hash = r.m.Simulation().Hash()
	return &out
}

// Summary describes the outcome of a log for listings.
type Summary struct {
	Winner string
	Side   int // winning side, 1 or 2; 0 for a draw
	Draw   bool
	Rounds int
	Ticks  int
}

// Summarize reports the outcome of a played-back match.
func Summarize(l *Log, res match.Result) Summary {
	s := Summary{Draw: res.Draw, Rounds: len(res.Rounds), Ticks: l.Ticks()}
	if !res.Draw {
		s.Winner, s.Side = l.P1, 1
		if res.Winner == fight.P2 {
			s.Winner, s.Side = l.P2, 2
		}
	}
	return s
}
