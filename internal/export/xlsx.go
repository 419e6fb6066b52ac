package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/relic-planner/internal/types"
)

// Sheet names in the results workbook.
const (
	SheetResults   = "Results"
	SheetSlots     = "Slots"
	SheetInventory = "Inventory"
)

var (
	resultsHeader   = []string{"Rank", "Vessel", "Character", "Score", "Meets Requirements", "Excluded", "Missing Effects", "Missing Families", "Curse Overflow", "Strategy", "Complete"}
	slotsHeader     = []string{"Rank", "Vessel", "Slot", "Color", "Deep", "Handle", "Relic", "Effects", "Curses", "Score", "Redundant"}
	inventoryHeader = []string{"Handle", "Relic", "Color", "Tier", "Deep", "Effects", "Curses", "Families", "Invalid"}
)

// Workbook lays ranked results out over a results sheet and a per-slot
// sheet. An inventory sheet is added when relics is non-empty.
// The caller owns the returned file and must Close it.
func Workbook(results []types.VesselResult, relics []types.OwnedRelic) (_ *excelize.File, err error) {
	f := excelize.NewFile()
	defer func() {
		if err != nil {
			_ = f.Close()
		}
	}()
	if err := f.SetSheetName("Sheet1", SheetResults); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetSlots); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	if err := writeRow(f, SheetResults, 1, toAny(resultsHeader)); err != nil {
		return nil, err
	}
	if err := writeRow(f, SheetSlots, 1, toAny(slotsHeader)); err != nil {
		return nil, err
	}

	slotRow := 2
	for i, r := range results {
		rank := i + 1
		if err := writeRow(f, SheetResults, rank+1, []any{
			rank, r.VesselName, r.VesselCharacter, r.TotalScore,
			r.MeetsRequirements, r.Excluded,
			joinIDs(r.MissingEffects), strings.Join(r.MissingFamilies, ", "), joinIDs(r.CurseOverflow),
			r.Strategy, r.Complete,
		}); err != nil {
			return nil, err
		}

		for _, a := range r.Assignments {
			row := []any{rank, r.VesselName, a.SlotIndex, string(a.SlotColor), a.IsDeep, "", "", "", "", a.Score, redundantCount(a.Breakdown)}
			if a.Relic != nil {
				row[5] = fmt.Sprintf("0x%08X", a.Relic.Handle)
				row[6] = a.Relic.Name
				row[7] = strings.Join(a.Relic.EffectNames, "; ")
				row[8] = strings.Join(a.Relic.CurseNames, "; ")
			}
			if err := writeRow(f, SheetSlots, slotRow, row); err != nil {
				return nil, err
			}
			slotRow++
		}
	}

	sheets := []string{SheetResults, SheetSlots}
	widths := map[string]int{SheetResults: len(resultsHeader), SheetSlots: len(slotsHeader)}

	if len(relics) > 0 {
		if _, err := f.NewSheet(SheetInventory); err != nil {
			return nil, err
		}
		if err := writeRow(f, SheetInventory, 1, toAny(inventoryHeader)); err != nil {
			return nil, err
		}
		for i, r := range relics {
			if err := writeRow(f, SheetInventory, i+2, []any{
				fmt.Sprintf("0x%08X", r.Handle), r.Name, string(r.Color), r.Tier, r.Deep,
				strings.Join(r.EffectNames, "; "), strings.Join(r.CurseNames, "; "),
				strings.Join(r.Families, ", "), r.InvalidReason,
			}); err != nil {
				return nil, err
			}
		}
		sheets = append(sheets, SheetInventory)
		widths[SheetInventory] = len(inventoryHeader)
	}

	for _, sh := range sheets {
		last, err := excelize.ColumnNumberToName(widths[sh])
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sh, "A1", last+"1", headerStyle); err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sh, "A", last, 16); err != nil {
			return nil, err
		}
		if err := f.SetPanes(sh, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// WriteXLSX saves the results workbook to path.
func WriteXLSX(path string, results []types.VesselResult, relics []types.OwnedRelic) error {
	f, err := Workbook(results, relics)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func joinIDs(ids []uint32) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}

func redundantCount(entries []types.BreakdownEntry) int {
	n := 0
	for _, e := range entries {
		if e.Redundant {
			n++
		}
	}
	return n
}
