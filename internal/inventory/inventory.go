// Package inventory joins raw relic records with the reference dataset and
// exposes the result as a queryable relic collection.
package inventory

import (
	"fmt"

	"github.com/jonathan/relic-planner/internal/types"
)

// UnknownEffectWarning records an effect id missing from the dataset. The
// effect resolves to the unknown sentinel and scores zero.
type UnknownEffectWarning struct {
	Handle   uint32 `json:"handle"`
	EffectID uint32 `json:"effect_id"`
}

func (w UnknownEffectWarning) String() string {
	return fmt.Sprintf("relic 0x%08X: unknown effect %d", w.Handle, w.EffectID)
}

// Inventory is an ordered, read-only collection of owned relics.
type Inventory struct {
	relics   []types.OwnedRelic
	byHandle map[uint32]int
}

// New builds an inventory from already-resolved relics, keeping their order.
// Later duplicates of a handle are dropped.
func New(relics []types.OwnedRelic) *Inventory {
	inv := &Inventory{byHandle: make(map[uint32]int, len(relics))}
	for _, r := range relics {
		if _, dup := inv.byHandle[r.Handle]; dup {
			continue
		}
		inv.byHandle[r.Handle] = len(inv.relics)
		inv.relics = append(inv.relics, r)
	}
	return inv
}

// Len returns the number of relics.
func (inv *Inventory) Len() int {
	return len(inv.relics)
}

// All returns the relics in insertion order. The slice must not be modified.
func (inv *Inventory) All() []types.OwnedRelic {
	return inv.relics
}

// ByHandle looks up a relic by its handle.
func (inv *Inventory) ByHandle(handle uint32) (*types.OwnedRelic, bool) {
	i, ok := inv.byHandle[handle]
	if !ok {
		return nil, false
	}
	return &inv.relics[i], true
}

// ByColor returns the relics of exactly color c.
func (inv *Inventory) ByColor(c types.Color) []*types.OwnedRelic {
	return inv.filter(func(r *types.OwnedRelic) bool { return r.Color == c })
}

// Deep returns the deep relics.
func (inv *Inventory) Deep() []*types.OwnedRelic {
	return inv.filter(func(r *types.OwnedRelic) bool { return r.Deep })
}

// Candidates returns the relics a slot can hold: matching deep-ness and a
// color the slot accepts.
func (inv *Inventory) Candidates(slot types.Color, deepSlot bool) []*types.OwnedRelic {
	return inv.filter(func(r *types.OwnedRelic) bool {
		return r.Deep == deepSlot && slot.Accepts(r.Color)
	})
}

func (inv *Inventory) filter(keep func(*types.OwnedRelic) bool) []*types.OwnedRelic {
	var out []*types.OwnedRelic
	for i := range inv.relics {
		if keep(&inv.relics[i]) {
			out = append(out, &inv.relics[i])
		}
	}
	return out
}
