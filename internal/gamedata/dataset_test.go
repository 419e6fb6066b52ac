package gamedata

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/relic-planner/internal/types"
)

func loadSample(t *testing.T) *Dataset {
	t.Helper()
	d, err := Load(filepath.Join("testdata", "dataset.yaml"))
	require.NoError(t, err)
	return d
}

func TestLoad_Sample(t *testing.T) {
	d := loadSample(t)

	assert.Equal(t, "1.03-sample", d.Version)
	assert.Equal(t, types.DefaultTiers(), d.TierTable(), "missing tier table falls back to defaults")

	e, ok := d.Effect(7000000)
	require.True(t, ok)
	assert.Equal(t, "Improved Attack Power", e.Name)
	assert.Equal(t, types.StackingNoStack, e.Policy())

	_, ok = d.Effect(123)
	assert.False(t, ok)
}

func TestEffectAliasesResolveToCanonical(t *testing.T) {
	d := loadSample(t)

	e, ok := d.Effect(7000191)
	require.True(t, ok)
	assert.Equal(t, uint32(7000101), e.ID)

	fam, ok := d.FamilyOf(7000191)
	require.True(t, ok)
	assert.Equal(t, "Physical Attack Up", fam)
}

func TestFamilies(t *testing.T) {
	d := loadSample(t)

	f, ok := d.Family("Physical Attack Up")
	require.True(t, ok)
	assert.True(t, f.Exclusive)
	assert.ElementsMatch(t, []uint32{7000100, 7000101}, f.Members)

	_, ok = d.FamilyOf(7000000)
	assert.False(t, ok)
}

func TestFamilyCreatedFromEffectField(t *testing.T) {
	d, err := New(Dataset{
		Effects: []types.EffectDescriptor{
			{ID: 1, Name: "Guard +1", Family: "Guard"},
			{ID: 2, Name: "Guard +2", Family: "Guard"},
		},
	})
	require.NoError(t, err)

	f, ok := d.Family("Guard")
	require.True(t, ok)
	assert.Equal(t, []uint32{1, 2}, f.Members)
	assert.False(t, f.Exclusive)
}

func TestRelicsAndPools(t *testing.T) {
	d := loadSample(t)

	r, ok := d.Relic(100)
	require.True(t, ok)
	assert.Equal(t, types.ColorRed, r.Color)

	flat, ok := d.Relic(5000)
	require.True(t, ok)
	assert.Empty(t, flat.Color)

	pools, ok := d.RelicPools(2000001)
	require.True(t, ok)
	assert.Equal(t, [6]int32{2000000, 2100000, -1, 3000000, -1, -1}, pools)

	_, ok = d.RelicPools(101)
	assert.False(t, ok)

	assert.True(t, d.PoolAllows(100, 7000000))
	assert.False(t, d.PoolAllows(100, 7000200))
	assert.True(t, d.PoolAllows(2000000, 7000200), "grouped pools are interchangeable")
	assert.False(t, d.PoolAllows(NoPool, 7000000))
}

func TestVesselsFor(t *testing.T) {
	d := loadSample(t)

	vessels := d.VesselsFor("Wylder")
	require.Len(t, vessels, 2)
	assert.Equal(t, uint32(19000), vessels[0].ID)
	assert.Equal(t, uint32(19010), vessels[1].ID)

	vessels = d.VesselsFor("Duchess")
	require.Len(t, vessels, 2)
	assert.Equal(t, uint32(19020), vessels[1].ID)

	v, ok := d.Vessel(19030)
	require.True(t, ok)
	assert.True(t, v.Disabled)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", "effects: []\nbogus: 1\n"},
		{"duplicate effect", "effects:\n  - {id: 1, name: a}\n  - {id: 1, name: b}\n"},
		{"alias collides", "effects:\n  - {id: 1, name: a, aliases: [2]}\n  - {id: 2, name: b}\n"},
		{"reserved id", "effects:\n  - {id: 4294967295, name: a}\n"},
		{"bad stacking", "effects:\n  - {id: 1, name: a, stacking: sometimes}\n"},
		{"bad relic color", "effects: []\nrelics:\n  - {id: 1, name: x, color: Purple}\n"},
		{"short pools", "effects: []\nrelics:\n  - {id: 1, name: x, color: Red, pools: [1, 2]}\n"},
		{"bad vessel slots", "effects: []\nvessels:\n  - {id: 1, name: v, character: All, slots: [Red]}\n"},
		{"bad vessel color", "effects: []\nvessels:\n  - {id: 1, name: v, character: All, slots: [Red, Red, Pink]}\n"},
		{"tier without key", "effects: []\ntiers:\n  - {display_name: x}\n"},
		{"duplicate tier", "effects: []\ntiers:\n  - {key: a}\n  - {key: a}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestStore_SwapKeepsSnapshots(t *testing.T) {
	first := loadSample(t)
	s := NewStore(first)

	snapshot := s.Current()
	second, err := New(Dataset{Version: "next"})
	require.NoError(t, err)

	prev, err := s.Swap(second)
	require.NoError(t, err)
	assert.Same(t, first, prev)
	assert.Same(t, second, s.Current())
	assert.Equal(t, "1.03-sample", snapshot.Version)

	_, err = s.Swap(nil)
	assert.Error(t, err)
	assert.Same(t, second, s.Current())
}

func TestStore_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: v2\neffects: []\n"), 0o600))

	s := NewStore(loadSample(t))
	require.NoError(t, s.Reload(path))
	assert.Equal(t, "v2", s.Current().Version)

	require.NoError(t, os.WriteFile(path, []byte("effects: [\n"), 0o600))
	assert.Error(t, s.Reload(path))
	assert.Equal(t, "v2", s.Current().Version)
}

func TestStore_ConcurrentReaders(t *testing.T) {
	s := NewStore(loadSample(t))
	next, err := New(Dataset{Version: "swapped"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d := s.Current()
			_, _ = d.Effect(7000000)
			assert.NotEmpty(t, d.Version)
		}()
	}
	_, err = s.Swap(next)
	require.NoError(t, err)
	wg.Wait()
}
