// Package checker decides whether a raw relic record is well-formed and
// game-legal. Every function is pure.
package checker

import (
	"sort"

	"github.com/jonathan/relic-planner/internal/types"
)

// Reason is why a relic is invalid. Valid means no problem was found.
type Reason int

const (
	Valid Reason = iota
	IllegalRange
	InvalidItem
	EffectIDOutOfRange
	TierMismatch
	DuplicateEffect
	EffectMustBeEmpty
	EffectNotInPool
	EffectConflict
	CurseMustBeEmpty
	CurseRequiredByEffect
	CurseNotInPool
	CurseConflict
	CursesNotEnough
	EffectsNotSorted
)

var reasonNames = map[Reason]string{
	Valid:                 "valid",
	IllegalRange:          "relic id in illegal range",
	InvalidItem:           "relic id outside the item range",
	EffectIDOutOfRange:    "effect id out of range",
	TierMismatch:          "tier does not match effect count",
	DuplicateEffect:       "duplicate effect",
	EffectMustBeEmpty:     "effect slot must be empty",
	EffectNotInPool:       "effect cannot roll on this relic",
	EffectConflict:        "conflicting effects",
	CurseMustBeEmpty:      "curse slot must be empty",
	CurseRequiredByEffect: "effect requires a curse",
	CurseNotInPool:        "curse cannot roll on this relic",
	CurseConflict:         "conflicting curses",
	CursesNotEnough:       "not enough curses for curse-bound effects",
	EffectsNotSorted:      "effects not in game order",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return "unknown reason"
}

func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// IsCurse reports whether the reason concerns the curse slots.
func (r Reason) IsCurse() bool {
	switch r {
	case CurseMustBeEmpty, CurseRequiredByEffect, CurseNotInPool, CurseConflict, CursesNotEnough:
		return true
	}
	return false
}

// Game id ranges.
const (
	illegalLow    = 20000
	illegalHigh   = 30035
	itemLow       = 100
	itemHigh      = 2013322
	maxEffectID   = 0x0FFFFFFF
	slotsPerRelic = 3
)

// Rules supplies effect metadata. A nil Rules limits Check to structural checks.
type Rules interface {
	Effect(id uint32) (types.EffectDescriptor, bool)
}

// PoolRules additionally knows which effects each relic slot can roll.
type PoolRules interface {
	Rules
	RelicPools(realID uint32) ([6]int32, bool)
	PoolAllows(pool int32, id uint32) bool
}

// Result is the verdict for one relic. Index is the 0-based position among
// the three effects then three curses that triggered the reason, or -1.
type Result struct {
	Handle uint32 `json:"handle"`
	Reason Reason `json:"reason"`
	Index  int    `json:"index"`
}

// OK reports whether the relic passed every check.
func (r Result) OK() bool {
	return r.Reason == Valid
}

func (r Result) String() string {
	return r.Reason.String()
}

// Check runs every rule against r and returns the first failure.
func Check(r types.RawRelic, rules Rules) Result {
	res := func(reason Reason, idx int) Result {
		return Result{Handle: r.Handle, Reason: reason, Index: idx}
	}

	realID := r.RealID()
	if realID >= illegalLow && realID <= illegalHigh {
		return res(IllegalRange, -1)
	}
	if realID < itemLow || realID > itemHigh {
		return res(InvalidItem, -1)
	}

	all := slots(r)
	for i, id := range all {
		if !types.IsEmptyEffect(id) && id > maxEffectID {
			return res(EffectIDOutOfRange, i)
		}
	}
	if r.Tier != types.CountEffects(r.Effects) {
		return res(TierMismatch, -1)
	}
	seen := make(map[uint32]bool, len(all))
	for i, id := range all {
		if types.IsEmptyEffect(id) {
			continue
		}
		if seen[id] {
			return res(DuplicateEffect, i)
		}
		seen[id] = true
	}

	if rules == nil {
		return res(Valid, -1)
	}

	if pr, ok := rules.(PoolRules); ok {
		if reason, idx := checkPools(r, pr); reason != Valid {
			return res(reason, idx)
		}
	}

	needed, given := 0, 0
	for _, e := range r.Effects {
		if needsCurse(rules, e) {
			needed++
		}
	}
	for _, c := range r.Curses {
		if !types.IsEmptyEffect(c) {
			given++
		}
	}
	if needed > given {
		return res(CursesNotEnough, -1)
	}

	groups := make(map[int32]bool)
	for i, id := range all {
		if types.IsEmptyEffect(id) {
			continue
		}
		desc, ok := rules.Effect(id)
		if !ok || desc.ConflictGroup == 0 {
			continue
		}
		if groups[desc.ConflictGroup] {
			if i < slotsPerRelic {
				return res(EffectConflict, i)
			}
			return res(CurseConflict, i)
		}
		groups[desc.ConflictGroup] = true
	}

	if !effectsSorted(r.Effects, rules) {
		return res(EffectsNotSorted, -1)
	}
	return res(Valid, -1)
}

// CheckAll checks each relic in order.
func CheckAll(relics []types.RawRelic, rules Rules) []Result {
	out := make([]Result, len(relics))
	for i, r := range relics {
		out[i] = Check(r, rules)
	}
	return out
}

func slots(r types.RawRelic) []uint32 {
	return []uint32{r.Effects[0], r.Effects[1], r.Effects[2], r.Curses[0], r.Curses[1], r.Curses[2]}
}

func needsCurse(rules Rules, id uint32) bool {
	if types.IsEmptyEffect(id) {
		return false
	}
	desc, ok := rules.Effect(id)
	return ok && desc.NeedsCurse
}

// effectsSorted reports whether the effects appear in (sort key, id) order
// with empty slots last. Relics with an effect lacking a sort key pass.
func effectsSorted(effects [3]uint32, rules Rules) bool {
	type keyed struct {
		key   int64
		empty bool
		id    uint32
	}
	ks := make([]keyed, len(effects))
	for i, id := range effects {
		if types.IsEmptyEffect(id) {
			ks[i] = keyed{empty: true, id: id}
			continue
		}
		desc, ok := rules.Effect(id)
		if !ok || desc.SortKey == 0 {
			return true
		}
		ks[i] = keyed{key: desc.SortKey, id: id}
	}
	sorted := append([]keyed(nil), ks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.empty || b.empty {
			return !a.empty && b.empty
		}
		if a.key != b.key {
			return a.key < b.key
		}
		return a.id < b.id
	})
	for i := range ks {
		if sorted[i].id != ks[i].id {
			return false
		}
	}
	return true
}

var permutations = [][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}

// checkPools accepts the relic if some ordering of its effect/curse pairs
// fits the relic's pools. Otherwise it reports the first problem of the
// stored ordering.
func checkPools(r types.RawRelic, rules PoolRules) (Reason, int) {
	pools, ok := rules.RelicPools(r.RealID())
	if !ok {
		return Valid, -1
	}

	var first [6]Reason
	for n, seq := range permutations {
		row := poolRow(r, seq, pools, rules)
		if n == 0 {
			first = row
		}
		if rowValid(row) {
			return Valid, -1
		}
	}
	for i, reason := range first {
		if reason != Valid {
			return reason, i
		}
	}
	return Valid, -1
}

func poolRow(r types.RawRelic, seq [3]int, pools [6]int32, rules PoolRules) [6]Reason {
	var row [6]Reason
	for i := 0; i < slotsPerRelic; i++ {
		eff := r.Effects[seq[i]]
		pool := pools[i]
		switch {
		case pool < 0:
			if !types.IsEmptyEffect(eff) {
				row[i] = EffectMustBeEmpty
			}
		case types.IsEmptyEffect(eff):
		case !rules.PoolAllows(pool, eff):
			row[i] = EffectNotInPool
		}
	}
	for i := 0; i < slotsPerRelic; i++ {
		curse := r.Curses[seq[i]]
		eff := r.Effects[seq[i]]
		pool := pools[i+slotsPerRelic]
		switch {
		case pool < 0:
			if !types.IsEmptyEffect(curse) {
				row[i+slotsPerRelic] = CurseMustBeEmpty
			}
		case types.IsEmptyEffect(curse):
			if needsCurse(rules, eff) {
				row[i+slotsPerRelic] = CurseRequiredByEffect
			}
		case !rules.PoolAllows(pool, curse):
			row[i+slotsPerRelic] = CurseNotInPool
		}
	}
	return row
}

func rowValid(row [6]Reason) bool {
	for _, r := range row {
		if r != Valid {
			return false
		}
	}
	return true
}
