package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/relic-planner/internal/container"
	"github.com/jonathan/relic-planner/internal/inventory"
	"github.com/jonathan/relic-planner/internal/records"
	"github.com/jonathan/relic-planner/internal/types"
)

func TestPrintCharacters(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCharacters(&records.Result{
		Platform: container.PlatformPC,
		Characters: []types.Character{
			{Slot: 0, Name: "Tarnished", Relics: make([]types.RawRelic, 3)},
			{Slot: 2, Name: "Nightfarer"},
		},
		Failures: []*records.ParseError{{Slot: 1, Offset: 0x40, Field: "relic.item_id", Message: "outside the item range"}},
	})
	output := buf.String()

	assert.Contains(t, output, "CHARACTERS")
	assert.Contains(t, output, "Platform: pc")
	assert.Contains(t, output, "[0] Tarnished")
	assert.Contains(t, output, "3 relics")
	assert.Contains(t, output, "Unreadable slots:")
	assert.Contains(t, output, "slot 1")
}

func TestPrintCharacters_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCharacters(nil)
	assert.Empty(t, buf.String())

	p.PrintCharacters(&records.Result{Platform: container.PlatformConsole})
	assert.Contains(t, buf.String(), "No characters found")
}

func TestPrintInventory(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	warnings := make([]inventory.UnknownEffectWarning, 7)
	for i := range warnings {
		warnings[i] = inventory.UnknownEffectWarning{Handle: uint32(i + 1), EffectID: 999}
	}
	p.PrintInventory(&inventory.Resolution{
		Inventory: inventory.New([]types.OwnedRelic{
			{Handle: 1, Color: types.ColorRed},
			{Handle: 2, Color: types.ColorRed, Deep: true},
			{Handle: 3, Color: types.ColorBlue},
		}),
		Warnings: warnings,
	})
	output := buf.String()

	assert.Contains(t, output, "RELIC INVENTORY")
	assert.Contains(t, output, "Relics: 3 (1 deep)")
	assert.Contains(t, output, "Red     2")
	assert.Contains(t, output, "Unknown effects: 7")
	assert.Contains(t, output, "... and 2 more")
}

func TestPrintVesselResults(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintVesselResults([]types.VesselResult{
		{
			VesselName:        "Wylder's Urn",
			TotalScore:        150,
			MeetsRequirements: true,
			Complete:          true,
			Assignments: []types.SlotAssignment{
				{SlotIndex: 0, SlotColor: types.ColorRed, Relic: &types.OwnedRelic{Name: "Burning Scene"}, Score: 150},
				{SlotIndex: 3, SlotColor: types.ColorGreen, IsDeep: true},
			},
		},
		{VesselName: "Sacred Chalice", Excluded: true, Steps: 42},
	})
	output := buf.String()

	assert.Contains(t, output, "VESSEL ASSIGNMENTS")
	assert.Contains(t, output, "#1  Wylder's Urn  score 150  (meets requirements)")
	assert.Contains(t, output, "Burning Scene (+150)")
	assert.Contains(t, output, "Green  deep -")
	assert.Contains(t, output, "(excluded effect present)")
	assert.Contains(t, output, "after 42 steps")
}

func TestPrintVesselResults_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintVesselResults(nil)
	assert.Empty(t, buf.String())
}

func TestPrintBox_LineWidth(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", "short\n"+strings.Repeat("ü", 100))
	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), "line %q", line)
	}
	assert.Contains(t, buf.String(), "...")
}
