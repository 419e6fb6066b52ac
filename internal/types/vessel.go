// Package types provides type definitions for structured data used throughout the relic-planner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// StandardSlots is the number of non-deep slots every vessel has.
const StandardSlots = 3

// VesselSource tells whether a vessel is available from the start or unlocked later.
type VesselSource string

const (
	VesselStarting VesselSource = "starting"
	VesselUnlocked VesselSource = "unlocked"
)

// SharedCharacter is the character name of vessels usable by every hero.
const SharedCharacter = "All"

// VesselConfiguration is a named slot color sequence.
type VesselConfiguration struct {
	ID         uint32       `yaml:"id" json:"id"`
	Name       string       `yaml:"name" json:"name"`
	Character  string       `yaml:"character" json:"character"`
	Source     VesselSource `yaml:"source" json:"source"`
	UnlockFlag uint32       `yaml:"unlock_flag,omitempty" json:"unlock_flag,omitempty"`
	Slots      []Color      `yaml:"slots" json:"slots"`
	DeepSlots  []Color      `yaml:"deep_slots,omitempty" json:"deep_slots,omitempty"`
	Disabled   bool         `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

// SlotColors returns the standard slots followed by the deep slots when includeDeep is set.
func (v *VesselConfiguration) SlotColors(includeDeep bool) []Color {
	out := make([]Color, 0, len(v.Slots)+len(v.DeepSlots))
	out = append(out, v.Slots...)
	if includeDeep {
		out = append(out, v.DeepSlots...)
	}
	return out
}

// IsDeepSlot reports whether slot index i is a deep slot.
func IsDeepSlot(i int) bool {
	return i >= StandardSlots
}

// BreakdownEntry explains one effect's contribution within a slot.
type BreakdownEntry struct {
	EffectID uint32 `json:"effect_id"`
	Name     string `json:"name"`
	Tier     string `json:"tier,omitempty"`
	Score    int    `json:"score"`
	IsCurse  bool   `json:"is_curse"`
	// Redundant entries were already provided by an earlier slot and score 0.
	Redundant bool `json:"redundant"`
	// OverrideStatus is "duplicate" for a repeated id and "overridden" for a
	// repeated family member; empty otherwise.
	OverrideStatus string `json:"override_status,omitempty"`
	Excluded       bool   `json:"excluded,omitempty"`
	Unknown        bool   `json:"unknown,omitempty"`
}

// SlotAssignment is one slot of a vessel result.
type SlotAssignment struct {
	SlotIndex int              `json:"slot_index"`
	SlotColor Color            `json:"slot_color"`
	IsDeep    bool             `json:"is_deep"`
	Relic     *OwnedRelic      `json:"relic,omitempty"`
	Score     int              `json:"score"`
	Breakdown []BreakdownEntry `json:"breakdown"`
}

// VesselResult is one complete assignment for one vessel.
type VesselResult struct {
	VesselID          uint32           `json:"vessel_id"`
	VesselName        string           `json:"vessel_name"`
	VesselCharacter   string           `json:"vessel_character"`
	Source            VesselSource     `json:"source"`
	SlotColors        []Color          `json:"slot_colors"`
	Assignments       []SlotAssignment `json:"assignments"`
	TotalScore        int              `json:"total_score"`
	MeetsRequirements bool             `json:"meets_requirements"`
	MissingEffects    []uint32         `json:"missing_effects,omitempty"`
	MissingFamilies   []string         `json:"missing_families,omitempty"`
	// Excluded is set when any assigned relic carries an exclusion-tier effect.
	Excluded bool `json:"excluded,omitempty"`
	// CurseOverflow lists curse ids present more often than the build allows.
	CurseOverflow []uint32 `json:"curse_overflow,omitempty"`
	Strategy      string   `json:"strategy"`
	// Complete is false when the search budget ran out before the search finished.
	Complete bool `json:"complete"`
	Steps    int  `json:"steps"`
}
