// Package gamedata holds the read-only reference dataset: effects, families,
// tiers, relic items, effect pools and vessels.
package gamedata

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/relic-planner/internal/types"
)

// NoPool marks an absent effect or curse slot in a relic item's pool list.
const NoPool int32 = -1

// RelicItem is the catalog entry for one relic real id.
type RelicItem struct {
	ID   uint32 `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	// Color is empty for items that cannot be equipped (e.g. flatstones).
	Color types.Color `yaml:"color,omitempty" json:"color,omitempty"`
	// Pools lists the effect pool of each effect slot then each curse slot.
	Pools []int32 `yaml:"pools,omitempty" json:"pools,omitempty"`
}

// Pool is a set of effects that can roll into a relic slot.
type Pool struct {
	ID      int32    `yaml:"id" json:"id"`
	Effects []uint32 `yaml:"effects" json:"effects"`
}

// Dataset is the complete reference table. Build one with Parse or Load and
// never mutate it afterwards; share it by pointer.
type Dataset struct {
	Version  string                      `yaml:"version"`
	Tiers    []types.TierConfig          `yaml:"tiers,omitempty" validate:"dive"`
	Effects  []types.EffectDescriptor    `yaml:"effects"`
	Families []types.FamilyDescriptor    `yaml:"families,omitempty"`
	Relics   []RelicItem                 `yaml:"relics,omitempty"`
	Pools    []Pool                      `yaml:"pools,omitempty"`
	Vessels  []types.VesselConfiguration `yaml:"vessels,omitempty"`
	// PoolGroups lists pools the game treats as interchangeable when rolling.
	PoolGroups [][]int32 `yaml:"pool_groups,omitempty"`

	effects    map[uint32]*types.EffectDescriptor
	familyOf   map[uint32]string
	families   map[string]*types.FamilyDescriptor
	tiers      map[string]types.TierConfig
	relics     map[uint32]*RelicItem
	pools      map[int32]map[uint32]bool
	poolGroups map[int32][]int32
	vessels    map[uint32]*types.VesselConfiguration
}

// Reference is the read-only lookup surface the resolver, scorer and
// optimizer consume.
type Reference interface {
	Effect(id uint32) (types.EffectDescriptor, bool)
	Family(name string) (types.FamilyDescriptor, bool)
	FamilyOf(id uint32) (string, bool)
	TierTable() []types.TierConfig
	Tier(key string) (types.TierConfig, bool)
	Relic(realID uint32) (RelicItem, bool)
	Vessel(id uint32) (types.VesselConfiguration, bool)
	VesselsFor(character string) []types.VesselConfiguration
}

var _ Reference = (*Dataset)(nil)

// New indexes a dataset assembled in code. It applies the same checks as Parse.
func New(d Dataset) (*Dataset, error) {
	if err := d.index(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Dataset) index() error {
	if len(d.Tiers) == 0 {
		d.Tiers = types.DefaultTiers()
	}
	if err := validator.New().Struct(d); err != nil {
		return fmt.Errorf("invalid dataset: %w", err)
	}

	d.tiers = make(map[string]types.TierConfig, len(d.Tiers))
	for _, t := range d.Tiers {
		if _, dup := d.tiers[t.Key]; dup {
			return fmt.Errorf("duplicate tier key %q", t.Key)
		}
		d.tiers[t.Key] = t
	}

	d.effects = make(map[uint32]*types.EffectDescriptor, len(d.Effects))
	d.familyOf = make(map[uint32]string)
	d.families = make(map[string]*types.FamilyDescriptor, len(d.Families))
	for i := range d.Families {
		f := &d.Families[i]
		if f.Name == "" {
			return fmt.Errorf("family %d has no name", i)
		}
		if _, dup := d.families[f.Name]; dup {
			return fmt.Errorf("duplicate family %q", f.Name)
		}
		d.families[f.Name] = f
		for _, m := range f.Members {
			d.familyOf[m] = f.Name
		}
	}

	for i := range d.Effects {
		e := &d.Effects[i]
		if e.Stacking != "" && !e.Stacking.Valid() {
			return fmt.Errorf("effect %d: unknown stacking policy %q", e.ID, e.Stacking)
		}
		for _, id := range append([]uint32{e.ID}, e.Aliases...) {
			if types.IsEmptyEffect(id) {
				return fmt.Errorf("effect %q uses reserved id %d", e.Name, id)
			}
			if _, dup := d.effects[id]; dup {
				return fmt.Errorf("duplicate effect id %d", id)
			}
			d.effects[id] = e
		}
		if e.Family == "" {
			continue
		}
		f, ok := d.families[e.Family]
		if !ok {
			d.Families = append(d.Families, types.FamilyDescriptor{Name: e.Family})
			d.rebuildFamilyIndex()
			f = d.families[e.Family]
		}
		if !f.Contains(e.ID) {
			f.Members = append(f.Members, e.ID)
		}
		d.familyOf[e.ID] = e.Family
	}
	// Aliases inherit the family of their canonical effect.
	for id, e := range d.effects {
		if name, ok := d.familyOf[e.ID]; ok {
			d.familyOf[id] = name
		}
	}

	d.relics = make(map[uint32]*RelicItem, len(d.Relics))
	for i := range d.Relics {
		r := &d.Relics[i]
		if r.Color != "" && !r.Color.Valid() {
			return fmt.Errorf("relic %d: unknown color %q", r.ID, r.Color)
		}
		if len(r.Pools) != 0 && len(r.Pools) != 6 {
			return fmt.Errorf("relic %d: pools must list 6 entries, got %d", r.ID, len(r.Pools))
		}
		d.relics[r.ID] = r
	}

	d.pools = make(map[int32]map[uint32]bool, len(d.Pools))
	for _, p := range d.Pools {
		set := d.pools[p.ID]
		if set == nil {
			set = make(map[uint32]bool, len(p.Effects))
			d.pools[p.ID] = set
		}
		for _, id := range p.Effects {
			set[id] = true
		}
	}
	d.poolGroups = make(map[int32][]int32)
	for _, group := range d.PoolGroups {
		for _, id := range group {
			d.poolGroups[id] = group
		}
	}

	d.vessels = make(map[uint32]*types.VesselConfiguration, len(d.Vessels))
	for i := range d.Vessels {
		v := &d.Vessels[i]
		if len(v.Slots) != types.StandardSlots {
			return fmt.Errorf("vessel %d: expected %d slots, got %d", v.ID, types.StandardSlots, len(v.Slots))
		}
		if len(v.DeepSlots) != 0 && len(v.DeepSlots) != types.StandardSlots {
			return fmt.Errorf("vessel %d: expected 0 or %d deep slots, got %d", v.ID, types.StandardSlots, len(v.DeepSlots))
		}
		for _, c := range v.SlotColors(true) {
			if !c.Valid() {
				return fmt.Errorf("vessel %d: unknown slot color %q", v.ID, c)
			}
		}
		if _, dup := d.vessels[v.ID]; dup {
			return fmt.Errorf("duplicate vessel id %d", v.ID)
		}
		d.vessels[v.ID] = v
	}
	return nil
}

func (d *Dataset) rebuildFamilyIndex() {
	for i := range d.Families {
		d.families[d.Families[i].Name] = &d.Families[i]
	}
}

// Effect resolves an effect or alias id to its canonical descriptor.
func (d *Dataset) Effect(id uint32) (types.EffectDescriptor, bool) {
	e, ok := d.effects[id]
	if !ok {
		return types.EffectDescriptor{}, false
	}
	return *e, true
}

func (d *Dataset) Family(name string) (types.FamilyDescriptor, bool) {
	f, ok := d.families[name]
	if !ok {
		return types.FamilyDescriptor{}, false
	}
	return *f, true
}

// FamilyOf returns the family an effect or alias id belongs to.
func (d *Dataset) FamilyOf(id uint32) (string, bool) {
	name, ok := d.familyOf[id]
	return name, ok
}

// TierTable returns the tiers in priority order.
func (d *Dataset) TierTable() []types.TierConfig {
	return d.Tiers
}

func (d *Dataset) Tier(key string) (types.TierConfig, bool) {
	t, ok := d.tiers[key]
	return t, ok
}

// Relic returns the catalog entry for a real relic id.
func (d *Dataset) Relic(realID uint32) (RelicItem, bool) {
	r, ok := d.relics[realID]
	if !ok {
		return RelicItem{}, false
	}
	return *r, true
}

// RelicPools returns the six pool ids of a relic item, if the dataset lists them.
func (d *Dataset) RelicPools(realID uint32) ([6]int32, bool) {
	var out [6]int32
	r, ok := d.relics[realID]
	if !ok || len(r.Pools) != 6 {
		return out, false
	}
	copy(out[:], r.Pools)
	return out, true
}

// PoolAllows reports whether effect id can roll from pool, counting every
// pool in the same interchangeable group.
func (d *Dataset) PoolAllows(pool int32, id uint32) bool {
	if pool == NoPool {
		return false
	}
	if group, ok := d.poolGroups[pool]; ok {
		for _, p := range group {
			if d.pools[p][id] {
				return true
			}
		}
		return false
	}
	return d.pools[pool][id]
}

func (d *Dataset) Vessel(id uint32) (types.VesselConfiguration, bool) {
	v, ok := d.vessels[id]
	if !ok {
		return types.VesselConfiguration{}, false
	}
	return *v, true
}

// VesselsFor returns the enabled vessels usable by character, including the
// shared ones, ordered by id.
func (d *Dataset) VesselsFor(character string) []types.VesselConfiguration {
	var out []types.VesselConfiguration
	for _, v := range d.Vessels {
		if v.Disabled {
			continue
		}
		if v.Character == character || v.Character == types.SharedCharacter {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
