package records

import (
	"github.com/jonathan/relic-planner/internal/types"
)

// Item-state table layout within a slot buffer.
const (
	itemsStart     = 0x14
	itemSlotCount  = 5120
	itemHeaderLen  = 8
	weaponExtraLen = 80
	armorExtraLen  = 8
)

// Character name location relative to the end of the item table.
const (
	nameOffset   = 0x94
	nameMaxUnits = 16
)

// MinSlotLen is the smallest buffer that can hold a populated character.
const MinSlotLen = 0x1000

// walkItems steps through the item-state table and returns the relic records
// in table order together with the offset just past the table.
func walkItems(b block) ([]types.RawRelic, int, error) {
	var relics []types.RawRelic
	off := itemsStart
	for i := 0; i < itemSlotCount; i++ {
		handle, err := b.u32(off, "item.handle")
		if err != nil {
			return nil, 0, err
		}
		if _, err := b.u32(off+4, "item.id"); err != nil {
			return nil, 0, err
		}

		size := itemHeaderLen
		if handle != 0 {
			switch handle & TypeMask {
			case TypeWeapon:
				size += weaponExtraLen
				if err := b.need(off, size, "item.weapon"); err != nil {
					return nil, 0, err
				}
			case TypeArmor:
				size += armorExtraLen
				if err := b.need(off, size, "item.armor"); err != nil {
					return nil, 0, err
				}
			case TypeRelic:
				relic, ok, err := decodeRelic(b, off)
				if err != nil {
					return nil, 0, err
				}
				if ok {
					relics = append(relics, relic)
				}
				size = RelicRecordLen
			}
		}
		off += size
	}
	return relics, off, nil
}

// readName reads the UTF-16LE character name that follows the item table.
func readName(b block, itemsEnd int) (string, error) {
	off := itemsEnd + nameOffset
	if err := b.need(off, 2, "character.name"); err != nil {
		return "", err
	}
	end := min(off+2*nameMaxUnits, len(b.data))
	return utf16String(b.data[off:end], nameMaxUnits), nil
}
