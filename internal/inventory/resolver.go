package inventory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/relic-planner/internal/checker"
	"github.com/jonathan/relic-planner/internal/gamedata"
	"github.com/jonathan/relic-planner/internal/types"
)

// Resolution is the outcome of resolving one character's relics.
type Resolution struct {
	Inventory *Inventory             `json:"-"`
	Relics    []types.OwnedRelic     `json:"relics"`
	Warnings  []UnknownEffectWarning `json:"warnings,omitempty"`
	// Rejected lists relics that failed validity checks.
	Rejected []checker.Result `json:"rejected,omitempty"`
	// UnknownItems lists real ids absent from the dataset's relic table.
	UnknownItems []uint32 `json:"unknown_items,omitempty"`
}

// Resolver turns raw relic records into owned relics.
type Resolver struct {
	ref         gamedata.Reference
	logger      *zap.Logger
	keepInvalid bool
}

// NewResolver creates a Resolver over ref. With keepInvalid, relics failing
// validity checks are kept and carry their reason in InvalidReason.
func NewResolver(ref gamedata.Reference, logger *zap.Logger, keepInvalid bool) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{ref: ref, logger: logger, keepInvalid: keepInvalid}
}

// Resolve enriches raw relics in order. Invalid relics are dropped unless the
// resolver keeps them, repeated unique relics keep only their first copy, and
// items the dataset marks as colorless are skipped.
func (r *Resolver) Resolve(raw []types.RawRelic) *Resolution {
	return r.resolve(raw, nil)
}

// ResolveCharacter resolves every relic a character owns and flags the ones
// its loadouts, hero vessels and presets reference.
func (r *Resolver) ResolveCharacter(c *types.Character) *Resolution {
	equipped := make(map[uint32]bool)
	for _, h := range c.EquippedHandles() {
		equipped[h] = true
	}
	return r.resolve(c.Relics, equipped)
}

func (r *Resolver) resolve(raw []types.RawRelic, equipped map[uint32]bool) *Resolution {
	res := &Resolution{}
	seenUnique := make(map[uint32]bool)
	warned := make(map[uint32]bool)

	for _, rr := range raw {
		verdict := checker.Check(rr, r.ref)
		if !verdict.OK() {
			res.Rejected = append(res.Rejected, verdict)
			r.logger.Debug("relic failed validity check",
				zap.Uint32("handle", rr.Handle),
				zap.String("reason", verdict.Reason.String()),
				zap.Int("index", verdict.Index))
			if !r.keepInvalid {
				continue
			}
		}

		realID := rr.RealID()
		if types.IsUniqueRelic(realID) {
			if seenUnique[realID] {
				continue
			}
			seenUnique[realID] = true
		}

		owned := types.OwnedRelic{
			Handle:   rr.Handle,
			ItemID:   rr.ItemID,
			RealID:   realID,
			Effects:  rr.Effects,
			Curses:   rr.Curses,
			Deep:     types.IsDeepRelic(realID),
			Tier:     types.TierLabel(types.CountEffects(rr.Effects)),
			Equipped: equipped[rr.Handle],
		}
		if !verdict.OK() {
			owned.InvalidReason = verdict.Reason.String()
		}

		item, ok := r.ref.Relic(realID)
		switch {
		case ok && item.Color == "":
			continue
		case ok:
			owned.Name = item.Name
			owned.Color = item.Color
		default:
			owned.Name = fmt.Sprintf("Relic %d", realID)
			owned.Color = types.ColorRed
			res.UnknownItems = append(res.UnknownItems, realID)
			r.logger.Warn("relic item missing from dataset",
				zap.Uint32("handle", rr.Handle),
				zap.Uint32("real_id", realID))
		}

		families := make(map[string]bool)
		name := func(id uint32) string {
			desc, ok := r.ref.Effect(id)
			if !ok {
				res.Warnings = append(res.Warnings, UnknownEffectWarning{Handle: rr.Handle, EffectID: id})
				if !warned[id] {
					warned[id] = true
					r.logger.Warn("unknown effect", zap.Uint32("effect_id", id), zap.Uint32("handle", rr.Handle))
				}
				desc = types.UnknownEffect(id)
			}
			if fam, ok := r.ref.FamilyOf(id); ok && !families[fam] {
				families[fam] = true
				owned.Families = append(owned.Families, fam)
			}
			return desc.Name
		}
		for _, e := range rr.Effects {
			if !types.IsEmptyEffect(e) {
				owned.EffectNames = append(owned.EffectNames, name(e))
			}
		}
		for _, c := range rr.Curses {
			if !types.IsEmptyEffect(c) {
				owned.CurseNames = append(owned.CurseNames, name(c))
			}
		}

		res.Relics = append(res.Relics, owned)
	}

	res.Inventory = New(res.Relics)
	r.logger.Debug("inventory resolved",
		zap.Int("raw", len(raw)),
		zap.Int("owned", res.Inventory.Len()),
		zap.Int("rejected", len(res.Rejected)),
		zap.Int("unknown_effects", len(res.Warnings)))
	return res
}
