package optimizer

import (
	"context"

	"github.com/jonathan/relic-planner/internal/types"
)

// Greedy fills free slots in order, each with the legal relic that adds the
// most to what is already placed. A slot stays empty when nothing adds a
// positive amount.
type Greedy struct{}

func (Greedy) Name() string { return "greedy" }

func (Greedy) Solve(ctx context.Context, p *Problem) Solution {
	relics := append([]*types.OwnedRelic(nil), p.Fixed...)
	st := p.Scorer.NewState()
	curses := newCurseLedger(p.CurseMax, p.Fixed)
	used := make(map[uint32]bool)
	for _, r := range p.Fixed {
		if r != nil {
			st.Push(r)
			used[r.Handle] = true
		}
	}

	sol := Solution{Complete: true}
	for i := range p.Slots {
		if relics[i] != nil || len(p.Candidates[i]) == 0 {
			continue
		}
		if ctx.Err() != nil || (p.MaxSteps > 0 && sol.Steps >= p.MaxSteps) {
			sol.Complete = false
			break
		}

		var pick *types.OwnedRelic
		bestGain := 0
		for _, r := range p.Candidates[i] {
			if used[r.Handle] || !curses.fits(r) {
				continue
			}
			sol.Steps++
			if gain := st.Marginal(r); gain > bestGain {
				pick, bestGain = r, gain
			}
		}
		if pick == nil {
			continue
		}
		relics[i] = pick
		used[pick.Handle] = true
		curses.add(pick)
		st.Push(pick)
	}

	sol.Relics = relics
	return sol
}
