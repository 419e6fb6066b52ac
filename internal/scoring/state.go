package scoring

import (
	"sort"

	"github.com/jonathan/relic-planner/internal/types"
)

// State tracks what a partial assignment already provides. Relics are added
// with Push and removed with Pop in LIFO order, so a depth-first search can
// score incrementally.
type State struct {
	s *Scorer

	ids      map[uint32]int
	families map[string]int
	groups   map[int32]int
	curses   map[uint32]int
	best     map[string]familyBest

	// winners points at the credited breakdown entry per exclusive family.
	// It is only set while explaining, so Evaluate can demote it.
	winners map[string]*types.BreakdownEntry

	frames   []frame
	score    int
	excluded int
}

// familyBest is the strongest credited member of an exclusive family.
type familyBest struct {
	rank  int
	score int
}

// frame remembers what one Push changed so Pop can undo it.
type frame struct {
	infos    []effectInfo
	restore  []familyRestore
	score    int
	excluded int
}

type familyRestore struct {
	family string
	prev   familyBest
	had    bool
}

// NewState returns an empty assignment state.
func (s *Scorer) NewState() *State {
	return &State{
		s:        s,
		ids:      make(map[uint32]int),
		families: make(map[string]int),
		groups:   make(map[int32]int),
		curses:   make(map[uint32]int),
		best:     make(map[string]familyBest),
	}
}

// Score is the running total of every pushed relic.
func (st *State) Score() int {
	return st.score
}

// Excluded reports whether any pushed relic carries an exclusion-tier effect.
func (st *State) Excluded() bool {
	return st.excluded > 0
}

// Push adds r and returns what it contributed.
func (st *State) Push(r *types.OwnedRelic) int {
	before := st.score
	st.push(r, false)
	return st.score - before
}

// Pop removes the most recently pushed relic.
func (st *State) Pop() {
	n := len(st.frames)
	if n == 0 {
		return
	}
	f := st.frames[n-1]
	st.frames = st.frames[:n-1]
	st.score -= f.score
	st.excluded -= f.excluded
	for j := len(f.restore) - 1; j >= 0; j-- {
		r := f.restore[j]
		if r.had {
			st.best[r.family] = r.prev
		} else {
			delete(st.best, r.family)
		}
	}
	for _, in := range f.infos {
		decr(st.ids, in.canonical)
		if in.family != "" {
			decr(st.families, in.family)
		}
		if in.desc.ConflictGroup != 0 {
			decr(st.groups, in.desc.ConflictGroup)
		}
		if in.curse {
			decr(st.curses, in.id)
		}
	}
}

// Marginal is what r would add to the current state.
func (st *State) Marginal(r *types.OwnedRelic) int {
	gain := st.Push(r)
	st.Pop()
	return gain
}

func decr[K comparable](m map[K]int, k K) {
	if m[k] <= 1 {
		delete(m, k)
		return
	}
	m[k]--
}

// push applies r's effects then curses in slot order. Each effect is judged
// against everything applied before it, including earlier effects of r.
func (st *State) push(r *types.OwnedRelic, explain bool) []types.BreakdownEntry {
	f := frame{}
	var entries []types.BreakdownEntry
	if explain {
		entries = make([]types.BreakdownEntry, 0, 6)
	}

	apply := func(id uint32, curse bool) {
		in := st.s.info(id)
		in.curse = curse
		w := st.s.weight(in)

		status := ""
		if w != 0 {
			status = st.redundancy(in)
		}
		credited := false
		if status == "" && w != 0 && in.ranked() {
			prev, had := st.best[in.family]
			if had && prev.rank >= in.rank {
				status = StatusOverridden
			} else {
				// The stronger member takes over; the weaker one stops counting.
				f.restore = append(f.restore, familyRestore{family: in.family, prev: prev, had: had})
				st.best[in.family] = familyBest{rank: in.rank, score: w}
				f.score -= prev.score
				credited = true
				if e := st.winners[in.family]; had && e != nil {
					e.Score = 0
					e.Redundant = true
					e.OverrideStatus = StatusOverridden
				}
			}
		}
		score := w
		if status != "" {
			score = 0
		}
		excluded := st.s.isExclusion(in)
		if excluded {
			f.excluded++
		}
		f.score += score

		st.ids[in.canonical]++
		if in.family != "" {
			st.families[in.family]++
		}
		if in.desc.ConflictGroup != 0 {
			st.groups[in.desc.ConflictGroup]++
		}
		if curse {
			st.curses[id]++
		}
		f.infos = append(f.infos, in)

		if explain {
			e := types.BreakdownEntry{
				EffectID:       id,
				Name:           in.desc.Name,
				Score:          score,
				IsCurse:        curse,
				Redundant:      status != "",
				OverrideStatus: status,
				Excluded:       excluded,
				Unknown:        in.desc.Unknown,
			}
			if in.tier != noTier {
				e.Tier = st.s.tiers[in.tier].Key
			}
			entries = append(entries, e)
			if credited && st.winners != nil {
				st.winners[in.family] = &entries[len(entries)-1]
			}
		}
	}

	for _, e := range r.Effects {
		if !types.IsEmptyEffect(e) {
			apply(e, false)
		}
	}
	for _, c := range r.Curses {
		if !types.IsEmptyEffect(c) {
			apply(c, true)
		}
	}

	st.score += f.score
	st.excluded += f.excluded
	st.frames = append(st.frames, f)
	return entries
}

// redundancy returns the override status for an effect that something
// already applied provides, or "" when the effect still counts. Exclusive
// family ranking is settled by the caller.
func (st *State) redundancy(in effectInfo) string {
	dup := st.ids[in.canonical] > 0
	switch in.desc.Policy() {
	case types.StackingStack:
		return ""
	case types.StackingUnique:
		if dup {
			return StatusDuplicate
		}
		return ""
	default:
		if dup {
			return StatusDuplicate
		}
		if in.desc.ConflictGroup != 0 && st.groups[in.desc.ConflictGroup] > 0 {
			return StatusOverridden
		}
		return ""
	}
}

// Missing lists required effect ids and families the state does not provide.
func (st *State) Missing() ([]uint32, []string) {
	var ids []uint32
	for _, id := range st.s.requiredIDs {
		canonical := id
		if desc, ok := st.s.ref.Effect(id); ok {
			canonical = desc.ID
		}
		if st.ids[canonical] == 0 {
			ids = append(ids, id)
		}
	}
	var fams []string
	for _, fam := range st.s.requiredFamilies {
		if st.families[fam] == 0 {
			fams = append(fams, fam)
		}
	}
	return ids, fams
}

// CurseOverflow lists curse ids present more often than the build allows,
// in ascending order.
func (st *State) CurseOverflow() []uint32 {
	var out []uint32
	for id, n := range st.curses {
		if n > st.s.build.CurseMax {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
