package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/relic-planner/internal/container"
	"github.com/jonathan/relic-planner/internal/gamedata"
	"github.com/jonathan/relic-planner/internal/records"
	"github.com/jonathan/relic-planner/internal/types"
)

// readSave decodes every character in the save at path.
func readSave(ctx context.Context, path, platform string) (*records.Result, error) {
	p, err := container.ParsePlatform(platform)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read save file: %w", err)
	}
	res, err := records.DecodeSave(ctx, data, p, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to decode save file: %w", err)
	}
	return res, nil
}

// readCharacter decodes the save and returns the character in slot.
func readCharacter(ctx context.Context, path, platform string, slot int) (*types.Character, error) {
	res, err := readSave(ctx, path, platform)
	if err != nil {
		return nil, err
	}
	c, ok := res.Character(slot)
	if ok {
		return c, nil
	}
	for _, f := range res.Failures {
		if f.Slot == slot {
			return nil, fmt.Errorf("character %d could not be decoded: %w", slot, f)
		}
	}
	return nil, fmt.Errorf("no character in slot %d", slot)
}

// loadDataset validates the effective config and loads its dataset.
func loadDataset() (*gamedata.Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ds, err := gamedata.Load(cfg.Dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	return ds, nil
}
