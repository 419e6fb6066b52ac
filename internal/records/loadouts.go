package records

import (
	"bytes"

	"github.com/jonathan/relic-planner/internal/types"
)

// loadoutMagic precedes the hero loadout section.
var loadoutMagic = []byte{
	0xC2, 0x00, 0x03, 0x00, 0x00, 0x2C, 0x00, 0x00,
	0x03, 0x00, 0x0A, 0x00, 0x04, 0x00, 0x46, 0x00,
	0x64, 0x00, 0x00, 0x00,
}

const (
	heroCount           = 10
	heroVesselsPerBlock = 4
	vesselEntryLen      = 4 + 24
	presetMarker        = 0x01
	presetLen           = 80
	presetNameLen       = 36
)

type loadoutSection struct {
	heroes      []types.Loadout
	heroVessels []types.EquippedVessel
	presets     []types.Preset
}

// parseLoadouts reads the hero loadout section. A block without the section
// magic has no loadouts.
func parseLoadouts(b block) (loadoutSection, error) {
	var sec loadoutSection
	start := bytes.Index(b.data, loadoutMagic)
	if start < 0 {
		return sec, nil
	}
	cur := start + len(loadoutMagic)

	for h := 0; h < heroCount; h++ {
		heroType, err := b.u8(cur, "loadout.hero_type")
		if err != nil {
			return sec, err
		}
		preset, err := b.u8(cur+1, "loadout.preset_index")
		if err != nil {
			return sec, err
		}
		current, err := b.u32(cur+4, "loadout.current_vessel")
		if err != nil {
			return sec, err
		}
		cur += 8

		l := types.Loadout{HeroType: heroType, CurrentPreset: preset, CurrentVessel: current}
		for v := 0; v < heroVesselsPerBlock; v++ {
			ev, err := readVessel(b, cur)
			if err != nil {
				return sec, err
			}
			l.Vessels = append(l.Vessels, ev)
			cur += vesselEntryLen
		}
		sec.heroes = append(sec.heroes, l)
	}

	for cur+4 <= len(b.data) {
		id, _ := b.u32(cur, "loadout.vessel_id")
		if id == 0 {
			cur += 4
			break
		}
		ev, err := readVessel(b, cur)
		if err != nil {
			return sec, err
		}
		sec.heroVessels = append(sec.heroVessels, ev)
		cur += vesselEntryLen
	}

	for idx := 0; cur < len(b.data) && b.data[cur] == presetMarker; idx++ {
		p, err := readPreset(b, cur, idx)
		if err != nil {
			return sec, err
		}
		sec.presets = append(sec.presets, p)
		cur += presetLen
		// A zero counter marks the last preset written.
		if p.Counter == 0 {
			break
		}
	}
	return sec, nil
}

func readVessel(b block, off int) (types.EquippedVessel, error) {
	id, err := b.u32(off, "loadout.vessel_id")
	if err != nil {
		return types.EquippedVessel{}, err
	}
	handles, err := b.handles(off+4, "loadout.vessel_relics")
	if err != nil {
		return types.EquippedVessel{}, err
	}
	return types.EquippedVessel{VesselID: id, Handles: handles}, nil
}

// Preset layout: marker(1) hero(2) counter(1) name(36) pad(4) vessel(4) relics(24) timestamp(8).
func readPreset(b block, off, idx int) (types.Preset, error) {
	if err := b.need(off, presetLen, "preset"); err != nil {
		return types.Preset{}, err
	}
	hero, _ := b.u16(off+1, "preset.hero_type")
	counter, _ := b.u8(off+3, "preset.counter")
	vessel, _ := b.u32(off+44, "preset.vessel_id")
	handles, _ := b.handles(off+48, "preset.relics")
	ts, _ := b.u64(off+72, "preset.timestamp")

	return types.Preset{
		Index:     idx,
		HeroType:  hero,
		Counter:   counter,
		Name:      utf16String(b.data[off+4:off+4+presetNameLen], presetNameLen/2),
		VesselID:  vessel,
		Handles:   handles,
		Timestamp: ts,
	}, nil
}
