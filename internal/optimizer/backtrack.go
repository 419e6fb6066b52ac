package optimizer

import (
	"context"

	"github.com/jonathan/relic-planner/internal/scoring"
	"github.com/jonathan/relic-planner/internal/types"
)

// ctxCheckInterval is how many nodes the search visits between context checks.
const ctxCheckInterval = 1024

// Backtracking is an exact depth-first search with branch and bound.
type Backtracking struct{}

func (Backtracking) Name() string { return "backtracking" }

func (Backtracking) Solve(ctx context.Context, p *Problem) Solution {
	n := len(p.Slots)
	s := &search{
		ctx:     ctx,
		p:       p,
		st:      p.Scorer.NewState(),
		curses:  newCurseLedger(p.CurseMax, p.Fixed),
		used:    make(map[uint32]bool),
		current: make([]*types.OwnedRelic, n),
		bound:   make([]int, n+1),
	}
	for _, r := range p.Fixed {
		if r != nil {
			s.used[r.Handle] = true
		}
	}
	for i := n - 1; i >= 0; i-- {
		s.bound[i] = s.bound[i+1] + slotBound(p.Scorer, p, i)
	}

	s.visit(0)

	if !s.found {
		s.best = append([]*types.OwnedRelic(nil), p.Fixed...)
	}
	return Solution{Relics: s.best, Complete: !s.stopped, Steps: s.steps}
}

// slotBound is the most slot i can add to any assignment.
func slotBound(sc *scoring.Scorer, p *Problem, i int) int {
	if r := p.Fixed[i]; r != nil {
		return sc.UpperBound(r)
	}
	best := 0
	for _, r := range p.Candidates[i] {
		if ub := sc.UpperBound(r); ub > best {
			best = ub
		}
	}
	return best
}

type search struct {
	ctx    context.Context
	p      *Problem
	st     *scoring.State
	curses *curseLedger
	used   map[uint32]bool

	current []*types.OwnedRelic
	bound   []int

	best      []*types.OwnedRelic
	bestScore int
	found     bool

	steps   int
	stopped bool
}

func (s *search) tick() bool {
	s.steps++
	if s.p.MaxSteps > 0 && s.steps > s.p.MaxSteps {
		s.stopped = true
	} else if s.steps%ctxCheckInterval == 0 && s.ctx.Err() != nil {
		s.stopped = true
	}
	return !s.stopped
}

// hopeless reports whether nothing below slot i can reach the best total.
func (s *search) hopeless(i int) bool {
	return s.found && s.st.Score()+s.bound[i] < s.bestScore
}

func (s *search) visit(i int) {
	if s.stopped || !s.tick() {
		return
	}
	if i == len(s.p.Slots) {
		s.consider()
		return
	}
	if s.hopeless(i) {
		return
	}

	if fixed := s.p.Fixed[i]; fixed != nil {
		s.current[i] = fixed
		s.st.Push(fixed)
		s.visit(i + 1)
		s.st.Pop()
		return
	}

	for _, r := range s.p.Candidates[i] {
		if s.used[r.Handle] || !s.curses.fits(r) {
			continue
		}
		s.st.Push(r)
		if !s.hopeless(i + 1) {
			s.used[r.Handle] = true
			s.curses.add(r)
			s.current[i] = r
			s.visit(i + 1)
			s.current[i] = nil
			s.curses.remove(r)
			delete(s.used, r.Handle)
		}
		s.st.Pop()
		if s.stopped {
			return
		}
	}

	s.current[i] = nil
	s.visit(i + 1)
}

func (s *search) consider() {
	score := s.st.Score()
	if s.found && !better(score, s.current, s.bestScore, s.best) {
		return
	}
	s.best = append(s.best[:0], s.current...)
	s.bestScore = score
	s.found = true
}
