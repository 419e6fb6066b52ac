package records

import (
	"encoding/binary"
	"fmt"

	"github.com/jonathan/relic-planner/internal/types"
)

// Item handle type bits.
const (
	TypeMask   uint32 = 0xF0000000
	TypeWeapon uint32 = 0x80000000
	TypeArmor  uint32 = 0x90000000
	TypeRelic  uint32 = 0xC0000000
)

// RelicRecordLen is the byte length of one relic item record.
const RelicRecordLen = 80

// Relic record field offsets.
const (
	offHandle     = 0
	offItemID     = 4
	offDurability = 8
	offUnk1       = 12
	offEffects    = 16
	offPadding    = 28
	offCurses     = 56
	offUnk2       = 68
	offTrailer    = 72
)

// maxRecordID bounds effect ids and real relic ids; anything larger means
// the walk is misaligned or the block is corrupted.
const maxRecordID uint32 = 0x0FFFFFFF

// decodeRelic reads the relic record at off and checks its fields for sane
// ranges. ok is false for a vacant record (item id 0 or all ones).
func decodeRelic(b block, off int) (relic types.RawRelic, ok bool, err error) {
	if err := b.need(off, RelicRecordLen, "relic"); err != nil {
		return relic, false, err
	}
	rec := b.data[off : off+RelicRecordLen]
	word := func(at int) uint32 { return binary.LittleEndian.Uint32(rec[at:]) }

	relic.Handle = word(offHandle)
	relic.ItemID = word(offItemID)
	if relic.ItemID == 0 || relic.ItemID == types.EmptyEffect {
		return relic, false, nil
	}
	if relic.ItemID < types.RelicItemBase || relic.RealID() > maxRecordID {
		return relic, false, &ParseError{
			Slot:    b.slot,
			Offset:  off + offItemID,
			Field:   "relic.item_id",
			Message: fmt.Sprintf("item id 0x%08X is outside the relic range", relic.ItemID),
		}
	}

	for i := range relic.Effects {
		relic.Effects[i] = word(offEffects + 4*i)
		if err := checkEffectID(b.slot, off+offEffects+4*i, fmt.Sprintf("relic.effect[%d]", i), relic.Effects[i]); err != nil {
			return relic, false, err
		}
	}
	for i := range relic.Curses {
		relic.Curses[i] = word(offCurses + 4*i)
		if err := checkEffectID(b.slot, off+offCurses+4*i, fmt.Sprintf("relic.curse[%d]", i), relic.Curses[i]); err != nil {
			return relic, false, err
		}
	}

	relic.Extras.Durability = word(offDurability)
	relic.Extras.Unk1 = word(offUnk1)
	for i := range relic.Extras.Padding {
		relic.Extras.Padding[i] = word(offPadding + 4*i)
	}
	relic.Extras.Unk2 = word(offUnk2)
	copy(relic.Extras.Trailer[:], rec[offTrailer:])

	relic.Tier = types.CountEffects(relic.Effects)
	relic.Deep = types.IsDeepRelic(relic.RealID())
	relic.Offset = off
	return relic, true, nil
}

func checkEffectID(slot, offset int, field string, id uint32) error {
	if types.IsEmptyEffect(id) || id <= maxRecordID {
		return nil
	}
	return &ParseError{
		Slot:    slot,
		Offset:  offset,
		Field:   field,
		Message: fmt.Sprintf("effect id 0x%08X is out of range", id),
	}
}

// EncodeRelic writes r as an 80-byte relic record. Decoding a record and
// encoding the result reproduces the original bytes.
func EncodeRelic(r types.RawRelic) []byte {
	rec := make([]byte, RelicRecordLen)
	put := func(at int, v uint32) { binary.LittleEndian.PutUint32(rec[at:], v) }

	put(offHandle, r.Handle)
	put(offItemID, r.ItemID)
	put(offDurability, r.Extras.Durability)
	put(offUnk1, r.Extras.Unk1)
	for i, e := range r.Effects {
		put(offEffects+4*i, e)
	}
	for i, p := range r.Extras.Padding {
		put(offPadding+4*i, p)
	}
	for i, c := range r.Curses {
		put(offCurses+4*i, c)
	}
	put(offUnk2, r.Extras.Unk2)
	copy(rec[offTrailer:], r.Extras.Trailer[:])
	return rec
}

// DecodeRelic decodes a single standalone relic record.
func DecodeRelic(rec []byte) (types.RawRelic, error) {
	relic, ok, err := decodeRelic(block{data: rec, slot: -1}, 0)
	if err != nil {
		return relic, err
	}
	if !ok {
		return relic, &ParseError{Slot: -1, Offset: offItemID, Field: "relic.item_id", Message: "vacant relic record"}
	}
	return relic, nil
}
