// Package types provides type definitions for structured data used throughout the relic-planner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// TierConfig is one named priority bucket. Tier order is priority order.
type TierConfig struct {
	Key         string `yaml:"key" json:"key" validate:"required"`
	DisplayName string `yaml:"display_name" json:"display_name"`
	Color       string `yaml:"color" json:"color"`
	Weight      int    `yaml:"weight" json:"weight"`
	Scored      bool   `yaml:"scored" json:"scored"`
	IsExclusion bool   `yaml:"is_exclusion" json:"is_exclusion"`
}

// DefaultTiers returns the stock tier table, highest priority first.
func DefaultTiers() []TierConfig {
	return []TierConfig{
		{Key: "required", DisplayName: "Essential", Color: "#FF4444", Weight: 100, Scored: true},
		{Key: "preferred", DisplayName: "Preferred", Color: "#4488FF", Weight: 50, Scored: true},
		{Key: "nice_to_have", DisplayName: "Nice-to-Have", Color: "#44BB88", Weight: 25, Scored: true},
		{Key: "bonus", DisplayName: "Bonus", Color: "#9966CC", Weight: 10, Scored: true},
		{Key: "avoid", DisplayName: "Avoid", Color: "#888888", Weight: -20, Scored: true},
		{Key: "blacklist", DisplayName: "Excluded", Color: "#FF8C00", Weight: 0, IsExclusion: true},
	}
}

// RequiredTier returns the first scored, non-exclusion tier: the one whose
// effects must all be present for an assignment to meet requirements.
func RequiredTier(tiers []TierConfig) (TierConfig, bool) {
	for _, t := range tiers {
		if t.Scored && !t.IsExclusion {
			return t, true
		}
	}
	return TierConfig{}, false
}
