// Package types provides type definitions for structured data used throughout the relic-planner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// BuildDefinition is a user's scoring specification for one character.
type BuildDefinition struct {
	ID          string              `json:"id" yaml:"id"`
	Name        string              `json:"name" yaml:"name" validate:"required,min=1"`
	Character   string              `json:"character" yaml:"character" validate:"required"`
	Tiers       map[string][]uint32 `json:"tiers" yaml:"tiers"`
	FamilyTiers map[string][]string `json:"family_tiers" yaml:"family_tiers"`
	IncludeDeep bool                `json:"include_deep" yaml:"include_deep"`
	// CurseMax is how many times the same curse may appear in one assignment (0 avoids all).
	CurseMax     int            `json:"curse_max" yaml:"curse_max" validate:"gte=0"`
	TierWeights  map[string]int `json:"tier_weights,omitempty" yaml:"tier_weights,omitempty"`
	PinnedRelics []uint32       `json:"pinned_relics,omitempty" yaml:"pinned_relics,omitempty" validate:"omitempty,unique,max=6"`
}

// NewBuildDefinition returns a build with the stock defaults: deep slots
// enabled and each curse tolerated once. Decoding a file into the returned
// value keeps these defaults for omitted fields.
func NewBuildDefinition() *BuildDefinition {
	return &BuildDefinition{
		Tiers:       map[string][]uint32{},
		FamilyTiers: map[string][]string{},
		IncludeDeep: true,
		CurseMax:    1,
	}
}

// EnsureID assigns a random ID to builds loaded without one.
func (b *BuildDefinition) EnsureID() {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
}

// Validate checks field constraints and that every tier key used by the
// build exists in tiers.
func (b *BuildDefinition) Validate(tiers []TierConfig) error {
	validate := validator.New()
	if err := validate.Struct(b); err != nil {
		return err
	}

	known := make(map[string]bool, len(tiers))
	for _, t := range tiers {
		known[t.Key] = true
	}
	for key := range b.Tiers {
		if !known[key] {
			return fmt.Errorf("build %q: unknown tier %q in tiers", b.Name, key)
		}
	}
	for key := range b.FamilyTiers {
		if !known[key] {
			return fmt.Errorf("build %q: unknown tier %q in family_tiers", b.Name, key)
		}
	}
	for key := range b.TierWeights {
		if !known[key] {
			return fmt.Errorf("build %q: unknown tier %q in tier_weights", b.Name, key)
		}
	}
	return nil
}

// EffectiveWeight returns the build's override for t, or t's default weight.
func (b *BuildDefinition) EffectiveWeight(t TierConfig) int {
	if w, ok := b.TierWeights[t.Key]; ok {
		return w
	}
	return t.Weight
}

// IsPinned reports whether handle must appear in every assignment.
func (b *BuildDefinition) IsPinned(handle uint32) bool {
	for _, h := range b.PinnedRelics {
		if h == handle {
			return true
		}
	}
	return false
}
