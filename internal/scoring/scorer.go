// Package scoring scores relic assignments against a build definition with
// stacking awareness.
package scoring

import (
	"fmt"

	"github.com/jonathan/relic-planner/internal/gamedata"
	"github.com/jonathan/relic-planner/internal/types"
)

// Override statuses reported on redundant breakdown entries.
const (
	StatusDuplicate  = "duplicate"
	StatusOverridden = "overridden"
)

const noTier = -1

// Scorer holds a build's tier lookups. It is immutable after New and safe
// for concurrent use; per-assignment bookkeeping lives in State.
type Scorer struct {
	ref   gamedata.Reference
	build *types.BuildDefinition
	tiers []types.TierConfig

	weights    []int
	direct     map[uint32]int
	familyTier map[string]int

	required         types.TierConfig
	hasRequired      bool
	requiredIDs      []uint32
	requiredFamilies []string
}

// effectInfo is everything the scorer needs to know about one effect id.
type effectInfo struct {
	id        uint32
	canonical uint32
	desc      types.EffectDescriptor
	tier      int
	family    string
	exclusive bool
	curse     bool

	// rank is the 1-based position in the family, weakest first; famSize is
	// the member count. viaFamily is set when the tier came from FamilyTiers.
	rank      int
	famSize   int
	viaFamily bool
}

// New prepares a scorer for build using the dataset's tier table.
func New(ref gamedata.Reference, build *types.BuildDefinition) (*Scorer, error) {
	if ref == nil {
		return nil, fmt.Errorf("scoring: nil reference dataset")
	}
	if build == nil {
		return nil, fmt.Errorf("scoring: nil build")
	}
	tiers := ref.TierTable()
	if len(tiers) == 0 {
		tiers = types.DefaultTiers()
	}
	if err := build.Validate(tiers); err != nil {
		return nil, fmt.Errorf("scoring: %w", err)
	}

	s := &Scorer{
		ref:        ref,
		build:      build,
		tiers:      tiers,
		weights:    make([]int, len(tiers)),
		direct:     make(map[uint32]int),
		familyTier: make(map[string]int),
	}
	for i, t := range tiers {
		s.weights[i] = build.EffectiveWeight(t)
		for _, id := range build.Tiers[t.Key] {
			s.assignDirect(id, i)
			if desc, ok := ref.Effect(id); ok {
				s.assignDirect(desc.ID, i)
			}
		}
		for _, fam := range build.FamilyTiers[t.Key] {
			if _, taken := s.familyTier[fam]; !taken {
				s.familyTier[fam] = i
			}
		}
	}

	s.required, s.hasRequired = types.RequiredTier(tiers)
	if s.hasRequired {
		s.requiredIDs = build.Tiers[s.required.Key]
		s.requiredFamilies = build.FamilyTiers[s.required.Key]
	}
	return s, nil
}

func (s *Scorer) assignDirect(id uint32, tier int) {
	if _, taken := s.direct[id]; !taken {
		s.direct[id] = tier
	}
}

// Build returns the build being scored.
func (s *Scorer) Build() *types.BuildDefinition {
	return s.build
}

// Tiers returns the tier table in priority order.
func (s *Scorer) Tiers() []types.TierConfig {
	return s.tiers
}

func (s *Scorer) info(id uint32) effectInfo {
	desc, ok := s.ref.Effect(id)
	if !ok {
		desc = types.UnknownEffect(id)
	}
	in := effectInfo{id: id, canonical: desc.ID, desc: desc, tier: noTier}

	if fam, ok := s.ref.FamilyOf(id); ok {
		in.family = fam
		if f, ok := s.ref.Family(fam); ok {
			in.exclusive = f.Exclusive
			in.famSize = len(f.Members)
			in.rank = familyRank(f, id, in.canonical)
		}
	}

	if t, ok := s.direct[id]; ok {
		in.tier = t
	} else if t, ok := s.direct[in.canonical]; ok {
		in.tier = t
	} else if in.family != "" {
		if t, ok := s.familyTier[in.family]; ok {
			in.tier = t
			in.viaFamily = true
		}
	}
	return in
}

func familyRank(f types.FamilyDescriptor, ids ...uint32) int {
	for i, m := range f.Members {
		for _, id := range ids {
			if m == id {
				return i + 1
			}
		}
	}
	return len(f.Members)
}

// weight is what the effect scores when it is not redundant. A positive
// weight reached through a family tier is scaled by rank/size, so +1 of a
// three-member family earns a third of the tier weight.
func (s *Scorer) weight(in effectInfo) int {
	if in.tier == noTier || in.desc.Unknown || !s.tiers[in.tier].Scored {
		return 0
	}
	w := s.weights[in.tier]
	if in.viaFamily && w > 0 && in.famSize > 0 {
		w = w * in.rank / in.famSize
	}
	return w
}

// ranked reports whether in competes with the other members of an exclusive
// family, the strongest present member being the only one credited.
func (in effectInfo) ranked() bool {
	return in.exclusive && in.desc.Policy() == types.StackingNoStack
}

func (s *Scorer) isExclusion(in effectInfo) bool {
	return in.tier != noTier && s.tiers[in.tier].IsExclusion
}

// PreScore is the relic's score ignoring stacking with other relics.
func (s *Scorer) PreScore(r *types.OwnedRelic) int {
	total := 0
	for _, id := range r.AllEffects() {
		total += s.weight(s.info(id))
	}
	return total
}

// UpperBound is the most the relic can add to any assignment.
func (s *Scorer) UpperBound(r *types.OwnedRelic) int {
	total := 0
	for _, id := range r.AllEffects() {
		if w := s.weight(s.info(id)); w > 0 {
			total += w
		}
	}
	return total
}

// HasExclusion reports whether any effect or curse of r is in an exclusion tier.
func (s *Scorer) HasExclusion(r *types.OwnedRelic) bool {
	for _, id := range r.AllEffects() {
		if s.isExclusion(s.info(id)) {
			return true
		}
	}
	return false
}

// SlotScore is one slot's contribution.
type SlotScore struct {
	Score     int                    `json:"score"`
	Breakdown []types.BreakdownEntry `json:"breakdown"`
}

// Evaluation is the full score of one assignment.
type Evaluation struct {
	Slots             []SlotScore `json:"slots"`
	Total             int         `json:"total"`
	MeetsRequirements bool        `json:"meets_requirements"`
	MissingEffects    []uint32    `json:"missing_effects,omitempty"`
	MissingFamilies   []string    `json:"missing_families,omitempty"`
	Excluded          bool        `json:"excluded"`
	CurseOverflow     []uint32    `json:"curse_overflow,omitempty"`
}

// Evaluate scores relics placed in slot order; nil entries are empty slots.
// Earlier slots claim non-stacking effects first, except that a stronger
// member of an exclusive family demotes a weaker one wherever it sits.
func (s *Scorer) Evaluate(relics []*types.OwnedRelic) Evaluation {
	st := s.NewState()
	st.winners = make(map[string]*types.BreakdownEntry)
	ev := Evaluation{Slots: make([]SlotScore, len(relics))}
	for i, r := range relics {
		if r == nil {
			ev.Slots[i] = SlotScore{Breakdown: []types.BreakdownEntry{}}
			continue
		}
		ev.Slots[i] = SlotScore{Breakdown: st.push(r, true)}
	}
	// Scores are summed last: a later slot may demote an earlier entry.
	for i := range ev.Slots {
		for _, e := range ev.Slots[i].Breakdown {
			ev.Slots[i].Score += e.Score
		}
		ev.Total += ev.Slots[i].Score
	}

	ev.MissingEffects, ev.MissingFamilies = st.Missing()
	ev.Excluded = st.Excluded()
	ev.CurseOverflow = st.CurseOverflow()
	ev.MeetsRequirements = len(ev.MissingEffects) == 0 && len(ev.MissingFamilies) == 0 &&
		!ev.Excluded && len(ev.CurseOverflow) == 0
	return ev
}
