// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/relic-planner/internal/inventory"
	"github.com/jonathan/relic-planner/internal/records"
	"github.com/jonathan/relic-planner/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads line to the box's inner width, counting runes.
func pad(line string) string {
	width := boxWidth - 4
	if n := utf8.RuneCountInString(line); n > width {
		runes := []rune(line)
		return string(runes[:width-3]) + "..."
	} else if n < width {
		return line + strings.Repeat(" ", width-n)
	}
	return line
}

// PrintCharacters lists decoded characters and any slots that failed to parse.
func (p *Printer) PrintCharacters(res *records.Result) {
	if res == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Platform: %s\n\n", res.Platform)
	if len(res.Characters) == 0 {
		sb.WriteString("No characters found\n")
	}
	for _, c := range res.Characters {
		fmt.Fprintf(&sb, "[%d] %-20s %4d relics\n", c.Slot, c.Name, c.RelicCount())
	}
	if len(res.Failures) > 0 {
		sb.WriteString("\nUnreadable slots:\n")
		for _, f := range res.Failures {
			fmt.Fprintf(&sb, "  • %s\n", f.Error())
		}
	}

	p.printBox("CHARACTERS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintInventory summarizes a resolved relic inventory by color.
func (p *Printer) PrintInventory(res *inventory.Resolution) {
	if res == nil || res.Inventory == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Relics: %d (%d deep)\n", res.Inventory.Len(), len(res.Inventory.Deep()))
	for _, c := range []types.Color{types.ColorRed, types.ColorBlue, types.ColorYellow, types.ColorGreen} {
		fmt.Fprintf(&sb, "  %-7s %d\n", c, len(res.Inventory.ByColor(c)))
	}
	if len(res.Rejected) > 0 {
		fmt.Fprintf(&sb, "\nRejected by validity checks: %d\n", len(res.Rejected))
	}
	if len(res.Warnings) > 0 {
		fmt.Fprintf(&sb, "\nUnknown effects: %d\n", len(res.Warnings))
		count := min(len(res.Warnings), maxItemsToShow)
		for i := 0; i < count; i++ {
			fmt.Fprintf(&sb, "  • %s\n", res.Warnings[i])
		}
		if len(res.Warnings) > maxItemsToShow {
			fmt.Fprintf(&sb, "  ... and %d more\n", len(res.Warnings)-maxItemsToShow)
		}
	}

	p.printBox("RELIC INVENTORY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintVesselResults outputs the top ranked vessel assignments with their slots.
func (p *Printer) PrintVesselResults(results []types.VesselResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(results), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := results[i]
		status := "meets requirements"
		switch {
		case r.Excluded:
			status = "excluded effect present"
		case !r.MeetsRequirements:
			status = "requirements not met"
		}
		fmt.Fprintf(&sb, "#%d  %s  score %d  (%s)\n", i+1, r.VesselName, r.TotalScore, status)
		for _, a := range r.Assignments {
			name := "-"
			if a.Relic != nil {
				name = a.Relic.Name
			}
			deep := ""
			if a.IsDeep {
				deep = " deep"
			}
			fmt.Fprintf(&sb, "    %d %-6s%s %s (%+d)\n", a.SlotIndex, a.SlotColor, deep, name, a.Score)
		}
		if !r.Complete {
			fmt.Fprintf(&sb, "    search stopped on budget after %d steps\n", r.Steps)
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(results) > maxItemsToShow {
		fmt.Fprintf(&sb, "\n... and %d more\n", len(results)-maxItemsToShow)
	}

	p.printBox("VESSEL ASSIGNMENTS", strings.TrimSuffix(sb.String(), "\n"))
}
