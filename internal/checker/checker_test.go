package checker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/relic-planner/internal/gamedata"
	"github.com/jonathan/relic-planner/internal/types"
)

const E = types.EmptyEffect

func testRules(t *testing.T) *gamedata.Dataset {
	t.Helper()
	d, err := gamedata.New(gamedata.Dataset{
		Effects: []types.EffectDescriptor{
			{ID: 1, Name: "one", SortKey: 10},
			{ID: 2, Name: "two", SortKey: 20},
			{ID: 3, Name: "three", SortKey: 30, ConflictGroup: 5},
			{ID: 4, Name: "four", SortKey: 40, ConflictGroup: 5},
			{ID: 5, Name: "cursed power", SortKey: 50, NeedsCurse: true},
			{ID: 90, Name: "curse a", SortKey: 1},
			{ID: 91, Name: "curse b", SortKey: 2, ConflictGroup: 7},
			{ID: 92, Name: "curse c", SortKey: 3, ConflictGroup: 7},
		},
		Relics: []gamedata.RelicItem{
			{ID: 100, Name: "standard", Color: types.ColorRed, Pools: []int32{10, 10, 10, 20, 20, 20}},
			{ID: 200, Name: "single", Color: types.ColorRed, Pools: []int32{10, -1, -1, -1, -1, -1}},
			{ID: 300, Name: "picky", Color: types.ColorBlue, Pools: []int32{30, 10, -1, -1, -1, -1}},
		},
		Pools: []gamedata.Pool{
			{ID: 10, Effects: []uint32{1, 2, 3, 4, 5}},
			{ID: 20, Effects: []uint32{90, 91, 92}},
			{ID: 30, Effects: []uint32{2}},
		},
	})
	require.NoError(t, err)
	return d
}

// effectsOnly hides the pool tables of a dataset.
type effectsOnly struct{ d *gamedata.Dataset }

func (e effectsOnly) Effect(id uint32) (types.EffectDescriptor, bool) { return e.d.Effect(id) }

func relic(realID uint32, effects, curses [3]uint32) types.RawRelic {
	return types.RawRelic{
		Handle:  0xC0000001,
		ItemID:  types.RelicItemBase + realID,
		Effects: effects,
		Curses:  curses,
		Tier:    types.CountEffects(effects),
	}
}

func TestCheck(t *testing.T) {
	rules := testRules(t)
	noCurses := [3]uint32{E, E, E}

	tests := []struct {
		name      string
		relic     types.RawRelic
		rules     Rules
		want      Reason
		wantIndex int
	}{
		{"valid", relic(100, [3]uint32{1, 2, E}, noCurses), rules, Valid, -1},
		{"illegal range", relic(20000, [3]uint32{1, E, E}, noCurses), rules, IllegalRange, -1},
		{"below item range", relic(50, [3]uint32{1, E, E}, noCurses), rules, InvalidItem, -1},
		{"above item range", relic(2013323, [3]uint32{1, E, E}, noCurses), rules, InvalidItem, -1},
		{"effect id out of range", relic(100, [3]uint32{0x10000000, E, E}, noCurses), rules, EffectIDOutOfRange, 0},
		{"duplicate effect", relic(100, [3]uint32{1, 1, E}, noCurses), rules, DuplicateEffect, 1},
		{"slot must be empty", relic(200, [3]uint32{1, 2, E}, noCurses), rules, EffectMustBeEmpty, 1},
		{"effect not in pool", relic(100, [3]uint32{1, 77, E}, noCurses), rules, EffectNotInPool, 1},
		{"curse required by pool check", relic(100, [3]uint32{5, E, E}, noCurses), rules, CurseRequiredByEffect, 3},
		{"curses not enough", relic(100, [3]uint32{5, E, E}, noCurses), effectsOnly{rules}, CursesNotEnough, -1},
		{"effect conflict", relic(100, [3]uint32{3, 4, E}, noCurses), rules, EffectConflict, 1},
		{"curse conflict", relic(100, [3]uint32{1, 2, 3}, [3]uint32{91, 92, E}), rules, CurseConflict, 4},
		{"not sorted", relic(100, [3]uint32{2, 1, E}, noCurses), rules, EffectsNotSorted, -1},
		{"nil rules is structural only", relic(100, [3]uint32{2, 1, E}, noCurses), nil, Valid, -1},
		{"another permutation fits", relic(300, [3]uint32{1, 2, E}, noCurses), rules, Valid, -1},
		{"unknown relic skips pools", relic(150, [3]uint32{1, 2, E}, noCurses), rules, Valid, -1},
		{"cursed effect with curse", relic(100, [3]uint32{1, 5, E}, [3]uint32{E, 90, E}), rules, Valid, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.relic, tt.rules)
			assert.Equal(t, tt.want, got.Reason, "got %s", got.Reason)
			assert.Equal(t, tt.wantIndex, got.Index)
			assert.Equal(t, tt.relic.Handle, got.Handle)
			assert.Equal(t, tt.want == Valid, got.OK())
		})
	}
}

func TestCheck_TierMismatch(t *testing.T) {
	r := relic(100, [3]uint32{1, 2, E}, [3]uint32{E, E, E})
	r.Tier = 3
	assert.Equal(t, TierMismatch, Check(r, nil).Reason)
}

func TestCheck_IsPure(t *testing.T) {
	rules := testRules(t)
	r := relic(100, [3]uint32{3, 4, E}, [3]uint32{E, E, E})
	first := Check(r, rules)
	second := Check(r, rules)
	assert.Equal(t, first, second)
}

func TestCheckAll(t *testing.T) {
	relics := []types.RawRelic{
		relic(100, [3]uint32{1, E, E}, [3]uint32{E, E, E}),
		relic(25000, [3]uint32{1, E, E}, [3]uint32{E, E, E}),
	}
	results := CheckAll(relics, testRules(t))
	require.Len(t, results, 2)
	assert.True(t, results[0].OK())
	assert.Equal(t, IllegalRange, results[1].Reason)
}

func TestReason(t *testing.T) {
	assert.True(t, CursesNotEnough.IsCurse())
	assert.True(t, CurseConflict.IsCurse())
	assert.False(t, EffectConflict.IsCurse())
	assert.Equal(t, "unknown reason", Reason(99).String())

	data, err := json.Marshal(Result{Handle: 1, Reason: DuplicateEffect, Index: 2})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"reason":"duplicate effect"`)
}
