// Package types provides type definitions for structured data used throughout the relic-planner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// EmptyEffect is the sentinel the save format uses for an unused effect or curse slot.
const EmptyEffect uint32 = 0xFFFFFFFF

// RelicItemBase is subtracted from a relic's raw item id to obtain its real (catalog) id.
const RelicItemBase uint32 = 0x80000000

// IsEmptyEffect reports whether an effect id denotes an unused slot.
func IsEmptyEffect(id uint32) bool {
	return id == 0 || id == EmptyEffect
}

// Color is a relic or vessel slot color.
type Color string

// Relic colors, in the order the game data indexes them.
const (
	ColorRed    Color = "Red"
	ColorBlue   Color = "Blue"
	ColorYellow Color = "Yellow"
	ColorGreen  Color = "Green"
	ColorWhite  Color = "White"
)

var colorsByIndex = []Color{ColorRed, ColorBlue, ColorYellow, ColorGreen, ColorWhite}

// ColorFromIndex maps the game's numeric color index to a Color.
func ColorFromIndex(idx int) (Color, error) {
	if idx < 0 || idx >= len(colorsByIndex) {
		return "", fmt.Errorf("unknown color index %d", idx)
	}
	return colorsByIndex[idx], nil
}

// Valid reports whether c is one of the known colors.
func (c Color) Valid() bool {
	for _, known := range colorsByIndex {
		if c == known {
			return true
		}
	}
	return false
}

// Accepts reports whether a slot of color c may hold a relic of color relic.
// White slots are universal.
func (c Color) Accepts(relic Color) bool {
	return c == ColorWhite || c == relic
}

// RecordExtras holds the relic record words that carry no planner meaning but
// must survive a decode/encode round trip.
type RecordExtras struct {
	Durability uint32
	Unk1       uint32
	Padding    [7]uint32
	Unk2       uint32
	Trailer    [8]byte
}

// RawRelic is a relic record exactly as decoded from a character block.
// Identity is Handle; values are never mutated after decoding.
type RawRelic struct {
	Handle  uint32    `json:"handle"`
	ItemID  uint32    `json:"item_id"`
	Effects [3]uint32 `json:"effects"`
	Curses  [3]uint32 `json:"curses"`
	// Tier is the number of non-empty effect slots (1 Delicate, 2 Polished, 3 Grand).
	Tier   int          `json:"tier"`
	Deep   bool         `json:"deep"`
	Offset int          `json:"offset"`
	Extras RecordExtras `json:"-"`
}

// RealID returns the catalog id of the relic item.
func (r RawRelic) RealID() uint32 {
	return r.ItemID - RelicItemBase
}

// AllEffects returns non-empty effect ids followed by non-empty curse ids.
func (r RawRelic) AllEffects() []uint32 {
	out := make([]uint32, 0, 6)
	for _, e := range r.Effects {
		if !IsEmptyEffect(e) {
			out = append(out, e)
		}
	}
	for _, c := range r.Curses {
		if !IsEmptyEffect(c) {
			out = append(out, c)
		}
	}
	return out
}

// CountEffects returns the number of non-empty effect slots.
func CountEffects(effects [3]uint32) int {
	n := 0
	for _, e := range effects {
		if !IsEmptyEffect(e) {
			n++
		}
	}
	return n
}

// TierLabel names a relic tier ordinal.
func TierLabel(tier int) string {
	switch {
	case tier >= 3:
		return "Grand"
	case tier == 2:
		return "Polished"
	default:
		return "Delicate"
	}
}

// Deep relic catalog ranges.
var deepRanges = [][2]uint32{
	{2000000, 2009999},
	{2010000, 2019999},
}

// Unique (non-duplicable) relic catalog ranges.
var uniqueRanges = [][2]uint32{
	{1000, 2100},
	{10000, 19999},
}

func inRanges(id uint32, ranges [][2]uint32) bool {
	for _, r := range ranges {
		if id >= r[0] && id <= r[1] {
			return true
		}
	}
	return false
}

// IsDeepRelic reports whether a real relic id belongs to a deep relic range.
func IsDeepRelic(realID uint32) bool {
	return inRanges(realID, deepRanges)
}

// IsUniqueRelic reports whether a real relic id belongs to a unique relic range.
func IsUniqueRelic(realID uint32) bool {
	return inRanges(realID, uniqueRanges)
}

// OwnedRelic is a RawRelic joined with the reference dataset.
type OwnedRelic struct {
	Handle      uint32    `json:"handle"`
	ItemID      uint32    `json:"item_id"`
	RealID      uint32    `json:"real_id"`
	Color       Color     `json:"color"`
	Effects     [3]uint32 `json:"effects"`
	Curses      [3]uint32 `json:"curses"`
	Deep        bool      `json:"deep"`
	Name        string    `json:"name"`
	Tier        string    `json:"tier"`
	EffectNames []string  `json:"effect_names"`
	CurseNames  []string  `json:"curse_names"`
	// Families lists the distinct family names among the relic's effects and curses.
	Families []string `json:"families,omitempty"`
	// InvalidReason is set only when the resolver was asked to keep invalid relics.
	InvalidReason string `json:"invalid_reason,omitempty"`
	// Equipped is set when a loadout, hero vessel or preset references the relic.
	Equipped bool `json:"equipped,omitempty"`
}

// AllEffects returns non-empty effect ids followed by non-empty curse ids.
func (r *OwnedRelic) AllEffects() []uint32 {
	return RawRelic{Effects: r.Effects, Curses: r.Curses}.AllEffects()
}

// ActiveCurses returns the non-empty curse ids.
func (r *OwnedRelic) ActiveCurses() []uint32 {
	out := make([]uint32, 0, 3)
	for _, c := range r.Curses {
		if !IsEmptyEffect(c) {
			out = append(out, c)
		}
	}
	return out
}

// EffectCount returns the number of non-empty effect slots.
func (r *OwnedRelic) EffectCount() int {
	return CountEffects(r.Effects)
}
