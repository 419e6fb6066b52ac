// Package types provides type definitions for structured data used throughout the relic-planner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "encoding/json"

// Character is one populated save slot.
type Character struct {
	Slot     int        `json:"slot"`
	Name     string     `json:"name"`
	Relics   []RawRelic `json:"relics,omitempty"`
	Loadouts []Loadout  `json:"loadouts,omitempty"`
	// HeroVessels are vessels stored after the hero blocks, keyed only by vessel id.
	HeroVessels []EquippedVessel `json:"hero_vessels,omitempty"`
	Presets     []Preset         `json:"presets,omitempty"`
}

// RelicCount returns the number of relic records owned by the character.
func (c *Character) RelicCount() int {
	return len(c.Relics)
}

// MarshalJSON adds relic_count to the encoded character.
func (c Character) MarshalJSON() ([]byte, error) {
	type alias Character
	return json.Marshal(struct {
		alias
		RelicCount int `json:"relic_count"`
	}{alias: alias(c), RelicCount: len(c.Relics)})
}

// Loadout is a hero's equipped vessels as stored in the save.
type Loadout struct {
	HeroType      uint8            `json:"hero_type"`
	CurrentPreset uint8            `json:"current_preset"`
	CurrentVessel uint32           `json:"current_vessel"`
	Vessels       []EquippedVessel `json:"vessels"`
}

// EquippedVessel lists the relic handles placed in one vessel.
type EquippedVessel struct {
	VesselID uint32    `json:"vessel_id"`
	Handles  [6]uint32 `json:"handles"`
}

// Preset is a user-named saved loadout.
type Preset struct {
	Index     int       `json:"index"`
	HeroType  uint16    `json:"hero_type"`
	Counter   uint8     `json:"counter"`
	Name      string    `json:"name"`
	VesselID  uint32    `json:"vessel_id"`
	Handles   [6]uint32 `json:"handles"`
	Timestamp uint64    `json:"timestamp"`
}

// EquippedHandles returns every relic handle referenced by the character's
// loadouts, hero vessels and presets, without duplicates, in first-seen order.
func (c *Character) EquippedHandles() []uint32 {
	seen := make(map[uint32]bool)
	var out []uint32
	add := func(handles [6]uint32) {
		for _, h := range handles {
			if h == 0 || h == EmptyEffect || seen[h] {
				continue
			}
			seen[h] = true
			out = append(out, h)
		}
	}
	for _, l := range c.Loadouts {
		for _, v := range l.Vessels {
			add(v.Handles)
		}
	}
	for _, v := range c.HeroVessels {
		add(v.Handles)
	}
	for _, p := range c.Presets {
		add(p.Handles)
	}
	return out
}
