package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonathan/relic-planner/internal/types"
)

func sampleResults() []types.VesselResult {
	relic := &types.OwnedRelic{
		Handle:      0xC0000001,
		Name:        "Delicate Burning Scene",
		Color:       types.ColorRed,
		EffectNames: []string{"Improved Attack Power"},
		CurseNames:  []string{"Reduced Max HP"},
	}
	return []types.VesselResult{
		{
			VesselID:          19000,
			VesselName:        "Wylder's Urn",
			VesselCharacter:   "Wylder",
			SlotColors:        []types.Color{types.ColorRed, types.ColorBlue},
			TotalScore:        100,
			MeetsRequirements: true,
			Strategy:          "backtracking",
			Complete:          true,
			Assignments: []types.SlotAssignment{
				{SlotIndex: 0, SlotColor: types.ColorRed, Relic: relic, Score: 100,
					Breakdown: []types.BreakdownEntry{{EffectID: 7000000, Score: 100}, {EffectID: 1, Redundant: true}}},
				{SlotIndex: 1, SlotColor: types.ColorBlue, Breakdown: []types.BreakdownEntry{}},
			},
		},
		{
			VesselID:        19010,
			VesselName:      "Sacred Chalice",
			VesselCharacter: "All",
			MissingEffects:  []uint32{7000000, 7000100},
			Strategy:        "greedy",
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestWriteJSONFile(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, WriteJSONFile("-", []int{1}, &stdout))
	assert.Contains(t, stdout.String(), "1")

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteJSONFile(path, sampleResults(), &stdout))

	var back []types.VesselResult
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, uint32(19000), back[0].VesselID)

	assert.Error(t, WriteJSONFile(filepath.Join(t.TempDir(), "missing", "out.json"), 1, &stdout))
}

func TestWorkbook(t *testing.T) {
	relics := []types.OwnedRelic{{Handle: 0xC0000002, Name: "Deep Scene", Color: types.ColorGreen, Deep: true, Tier: "Grand"}}
	f, err := Workbook(sampleResults(), relics)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetResults, SheetSlots, SheetInventory}, f.GetSheetList())

	cell := func(sheet, axis string) string {
		v, err := f.GetCellValue(sheet, axis)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Rank", cell(SheetResults, "A1"))
	assert.Equal(t, "Wylder's Urn", cell(SheetResults, "B2"))
	assert.Equal(t, "100", cell(SheetResults, "D2"))
	assert.Equal(t, "TRUE", cell(SheetResults, "E2"))
	assert.Equal(t, "7000000, 7000100", cell(SheetResults, "G3"))

	assert.Equal(t, "0xC0000001", cell(SheetSlots, "F2"))
	assert.Equal(t, "Improved Attack Power", cell(SheetSlots, "H2"))
	assert.Equal(t, "1", cell(SheetSlots, "K2"))
	assert.Equal(t, "", cell(SheetSlots, "F3"), "empty slot has no handle")

	assert.Equal(t, "0xC0000002", cell(SheetInventory, "A2"))
	assert.Equal(t, "Grand", cell(SheetInventory, "D2"))
}

func TestWorkbook_WithoutInventory(t *testing.T) {
	f, err := Workbook(nil, nil)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{SheetResults, SheetSlots}, f.GetSheetList())
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")
	require.NoError(t, WriteXLSX(path, sampleResults(), nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	v, err := f.GetCellValue(SheetResults, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Sacred Chalice", v)
}
