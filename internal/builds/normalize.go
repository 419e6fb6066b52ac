package builds

import (
	"fmt"
	"strings"

	"github.com/jonathan/relic-planner/internal/gamedata"
	"github.com/jonathan/relic-planner/internal/types"
)

// Normalize applies all normalization steps to a build
func Normalize(b *types.BuildDefinition, ref gamedata.Reference) error {
	tiers := ref.TierTable()
	if err := b.Validate(tiers); err != nil {
		return &NormalizationError{Message: "invalid build", Cause: err}
	}

	NormalizeFamilies(b)
	DedupeTiers(b, tiers)

	if err := ValidateFamilies(b, ref); err != nil {
		return err
	}
	return nil
}

// DedupeTiers removes repeated effect ids and family names. An entry listed
// under several tiers stays only in the highest-priority one.
func DedupeTiers(b *types.BuildDefinition, tiers []types.TierConfig) {
	seenIDs := make(map[uint32]struct{})
	seenFams := make(map[string]struct{})

	for _, t := range tiers {
		if ids, ok := b.Tiers[t.Key]; ok {
			kept := make([]uint32, 0, len(ids))
			for _, id := range ids {
				if _, dup := seenIDs[id]; dup {
					continue
				}
				seenIDs[id] = struct{}{}
				kept = append(kept, id)
			}
			b.Tiers[t.Key] = kept
		}
		if fams, ok := b.FamilyTiers[t.Key]; ok {
			kept := make([]string, 0, len(fams))
			for _, f := range fams {
				if _, dup := seenFams[f]; dup {
					continue
				}
				seenFams[f] = struct{}{}
				kept = append(kept, f)
			}
			b.FamilyTiers[t.Key] = kept
		}
	}
}

// NormalizeFamilies trims family names and drops empty ones
func NormalizeFamilies(b *types.BuildDefinition) {
	for key, fams := range b.FamilyTiers {
		kept := make([]string, 0, len(fams))
		for _, f := range fams {
			if f = strings.TrimSpace(f); f != "" {
				kept = append(kept, f)
			}
		}
		b.FamilyTiers[key] = kept
	}
}

// ValidateFamilies checks that every family the build names exists in the dataset
func ValidateFamilies(b *types.BuildDefinition, ref gamedata.Reference) error {
	for _, t := range ref.TierTable() {
		for _, f := range b.FamilyTiers[t.Key] {
			if _, ok := ref.Family(f); !ok {
				return &NormalizationError{
					Message: fmt.Sprintf("unknown family '%s' in tier '%s' of build '%s'", f, t.Key, b.Name),
				}
			}
		}
	}
	return nil
}

// UnknownEffects lists effect ids the build names that the dataset lacks, in
// tier priority order
func UnknownEffects(b *types.BuildDefinition, ref gamedata.Reference) []uint32 {
	var out []uint32
	for _, t := range ref.TierTable() {
		for _, id := range b.Tiers[t.Key] {
			if _, ok := ref.Effect(id); !ok {
				out = append(out, id)
			}
		}
	}
	return out
}
