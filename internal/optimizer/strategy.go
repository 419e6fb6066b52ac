package optimizer

import (
	"context"

	"github.com/jonathan/relic-planner/internal/scoring"
	"github.com/jonathan/relic-planner/internal/types"
)

// Problem is one vessel's search space.
type Problem struct {
	Scorer *scoring.Scorer
	Slots  []types.Color
	// Fixed holds pinned relics at their slot index; other entries are nil.
	Fixed []*types.OwnedRelic
	// Candidates lists, per free slot, the relics it may hold, best first.
	// Entries for fixed slots are empty.
	Candidates [][]*types.OwnedRelic
	CurseMax   int
	// MaxSteps bounds the search; zero means unbounded.
	MaxSteps int
}

// Size is the total number of candidates across slots.
func (p *Problem) Size() int {
	n := 0
	for _, c := range p.Candidates {
		n += len(c)
	}
	return n
}

// Solution is the chosen relic per slot (nil for empty).
type Solution struct {
	Relics []*types.OwnedRelic
	// Complete is false when the search stopped on its budget.
	Complete bool
	Steps    int
}

// Strategy finds an assignment for a Problem.
type Strategy interface {
	Name() string
	Solve(ctx context.Context, p *Problem) Solution
}

// Limits decide when exhaustive search is affordable.
type Limits struct {
	MaxCandidatesTotal   int
	MaxCandidatesPerSlot int
}

// Select picks backtracking for small problems and greedy otherwise.
func Select(p *Problem, l Limits) Strategy {
	if l.MaxCandidatesTotal > 0 && p.Size() > l.MaxCandidatesTotal {
		return Greedy{}
	}
	if l.MaxCandidatesPerSlot > 0 {
		for _, c := range p.Candidates {
			if len(c) > l.MaxCandidatesPerSlot {
				return Greedy{}
			}
		}
	}
	return Backtracking{}
}

// curseLedger enforces the per-curse cap across pinned and chosen relics.
type curseLedger struct {
	max    int
	counts map[uint32]int
}

func newCurseLedger(max int, fixed []*types.OwnedRelic) *curseLedger {
	l := &curseLedger{max: max, counts: make(map[uint32]int)}
	for _, r := range fixed {
		if r != nil {
			l.add(r)
		}
	}
	return l
}

func (l *curseLedger) fits(r *types.OwnedRelic) bool {
	for _, c := range r.ActiveCurses() {
		if l.counts[c]+1 > l.max {
			return false
		}
	}
	return true
}

func (l *curseLedger) add(r *types.OwnedRelic) {
	for _, c := range r.ActiveCurses() {
		l.counts[c]++
	}
}

func (l *curseLedger) remove(r *types.OwnedRelic) {
	for _, c := range r.ActiveCurses() {
		l.counts[c]--
	}
}

// better orders full assignments: higher score, then fewer filled deep
// slots, then lower handles compared slot by slot. Empty slots compare
// after any relic.
func better(score int, relics []*types.OwnedRelic, bestScore int, best []*types.OwnedRelic) bool {
	if score != bestScore {
		return score > bestScore
	}
	if a, b := deepUsed(relics), deepUsed(best); a != b {
		return a < b
	}
	for i := range relics {
		a, b := handleOf(relics[i]), handleOf(best[i])
		if a != b {
			return a < b
		}
	}
	return false
}

func deepUsed(relics []*types.OwnedRelic) int {
	n := 0
	for i, r := range relics {
		if r != nil && types.IsDeepSlot(i) {
			n++
		}
	}
	return n
}

func handleOf(r *types.OwnedRelic) uint32 {
	if r == nil {
		return ^uint32(0)
	}
	return r.Handle
}
