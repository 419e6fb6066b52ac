package records

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/relic-planner/internal/container"
	"github.com/jonathan/relic-planner/internal/types"
)

// Result is the outcome of decoding every slot of one save.
type Result struct {
	Platform   container.Platform `json:"platform"`
	Characters []types.Character  `json:"characters"`
	// Failures holds one ParseError per character whose block was malformed.
	Failures []*ParseError `json:"failures,omitempty"`
}

// Character returns the decoded character in the given slot.
func (r *Result) Character(slot int) (*types.Character, bool) {
	for i := range r.Characters {
		if r.Characters[i].Slot == slot {
			return &r.Characters[i], true
		}
	}
	return nil, false
}

// Decoder turns slot buffers into characters.
type Decoder struct {
	logger  *zap.Logger
	workers int
}

// NewDecoder creates a Decoder. A nil logger discards output; workers <= 0
// decodes one character per slot concurrently.
func NewDecoder(logger *zap.Logger, workers int) *Decoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decoder{logger: logger, workers: workers}
}

// DecodeCharacter decodes one slot buffer. It returns nil without error when
// the slot holds no character.
func (d *Decoder) DecodeCharacter(slot container.Slot) (*types.Character, error) {
	if len(slot.Data) < MinSlotLen {
		return nil, nil
	}
	b := block{data: slot.Data, slot: slot.Index}

	relics, itemsEnd, err := walkItems(b)
	if err != nil {
		return nil, err
	}
	name, err := readName(b, itemsEnd)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}

	sec, err := parseLoadouts(b)
	if err != nil {
		return nil, err
	}

	return &types.Character{
		Slot:        slot.Index,
		Name:        name,
		Relics:      relics,
		Loadouts:    sec.heroes,
		HeroVessels: sec.heroVessels,
		Presets:     sec.presets,
	}, nil
}

// DecodeSlots decodes every slot concurrently. A malformed slot is recorded
// in Result.Failures and does not affect its siblings.
func (d *Decoder) DecodeSlots(ctx context.Context, slots []container.Slot) (*Result, error) {
	chars := make([]*types.Character, len(slots))
	failures := make([]*ParseError, len(slots))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	if d.workers > 0 {
		g.SetLimit(d.workers)
	}
	for i, slot := range slots {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			c, err := d.DecodeCharacter(slot)
			if err != nil {
				var perr *ParseError
				if !errors.As(err, &perr) {
					return fmt.Errorf("slot %d: %w", slot.Index, err)
				}
				d.logger.Warn("character parse failed",
					zap.Int("slot", perr.Slot),
					zap.Int("offset", perr.Offset),
					zap.String("field", perr.Field),
					zap.String("reason", perr.Message))
				mu.Lock()
				failures[i] = perr
				mu.Unlock()
				return nil
			}
			mu.Lock()
			chars[i] = c
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{}
	for i := range slots {
		if chars[i] != nil {
			res.Characters = append(res.Characters, *chars[i])
			d.logger.Debug("character discovered",
				zap.Int("slot", chars[i].Slot),
				zap.String("name", chars[i].Name),
				zap.Int("relics", chars[i].RelicCount()))
		}
		if failures[i] != nil {
			res.Failures = append(res.Failures, failures[i])
		}
	}
	return res, nil
}

// DecodeSave decrypts a save container and decodes all of its characters.
// Container failures are returned as errors; per-character failures are
// reported in Result.Failures.
func DecodeSave(ctx context.Context, data []byte, platform container.Platform, logger *zap.Logger) (*Result, error) {
	if platform == "" || platform == container.PlatformAuto {
		detected, err := container.Detect(data)
		if err != nil {
			return nil, err
		}
		platform = detected
	}

	slots, err := container.NewDecoder(logger).Decode(data, platform)
	if err != nil {
		return nil, err
	}
	res, err := NewDecoder(logger, 0).DecodeSlots(ctx, slots)
	if err != nil {
		return nil, err
	}
	res.Platform = platform
	return res, nil
}
