// Package types provides type definitions for structured data used throughout the relic-planner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// StackingPolicy describes how repeated occurrences of an effect combine.
type StackingPolicy string

const (
	// StackingStack effects add up every time they appear.
	StackingStack StackingPolicy = "stack"
	// StackingNoStack effects count once per assignment, also per exclusive family.
	StackingNoStack StackingPolicy = "no_stack"
	// StackingUnique effects only block exact duplicates of themselves.
	StackingUnique StackingPolicy = "unique"
)

// Valid reports whether p is a known policy.
func (p StackingPolicy) Valid() bool {
	switch p {
	case StackingStack, StackingNoStack, StackingUnique:
		return true
	}
	return false
}

// EffectDescriptor is the reference entry for one effect id.
type EffectDescriptor struct {
	ID      uint32   `yaml:"id" json:"id"`
	Name    string   `yaml:"name" json:"name"`
	Aliases []uint32 `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Family  string   `yaml:"family,omitempty" json:"family,omitempty"`
	// Stacking defaults to no_stack when empty.
	Stacking StackingPolicy `yaml:"stacking,omitempty" json:"stacking,omitempty"`
	// ConflictGroup groups effects that may not share one relic; zero means none.
	ConflictGroup int32 `yaml:"conflict_group,omitempty" json:"conflict_group,omitempty"`
	// NeedsCurse marks effects that only roll alongside a curse.
	NeedsCurse bool  `yaml:"needs_curse,omitempty" json:"needs_curse,omitempty"`
	SortKey    int64 `yaml:"sort_key,omitempty" json:"sort_key,omitempty"`
	// Unknown is set on the sentinel returned for ids missing from the dataset.
	Unknown bool `yaml:"-" json:"unknown,omitempty"`
}

// Policy returns the effective stacking policy.
func (d EffectDescriptor) Policy() StackingPolicy {
	if d.Stacking == "" {
		return StackingNoStack
	}
	return d.Stacking
}

// UnknownEffect builds the sentinel descriptor for an id absent from the dataset.
func UnknownEffect(id uint32) EffectDescriptor {
	return EffectDescriptor{
		ID:       id,
		Name:     fmt.Sprintf("Unknown effect %d", id),
		Stacking: StackingNoStack,
		Unknown:  true,
	}
}

// FamilyDescriptor groups magnitude variants of one ability, weakest first.
type FamilyDescriptor struct {
	Name    string   `yaml:"name" json:"name"`
	Members []uint32 `yaml:"members" json:"members"`
	// Exclusive families credit only their strongest present member per assignment.
	Exclusive bool `yaml:"exclusive,omitempty" json:"exclusive,omitempty"`
}

// Contains reports whether id is a member of the family.
func (f FamilyDescriptor) Contains(id uint32) bool {
	for _, m := range f.Members {
		if m == id {
			return true
		}
	}
	return false
}
