package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/relic-planner/internal/export"
	"github.com/jonathan/relic-planner/internal/observability"
)

var charactersCmd = &cobra.Command{
	Use:   "characters",
	Short: "List the characters stored in a save file",
	Long:  "Decrypts a PC save (.sl2) or splits a console memory.dat and lists each populated character slot with its relic count. Slots that fail to decode are reported without aborting the others.",
	RunE:  runCharacters,
}

var (
	charactersSaveFile string
	charactersPlatform string
)

func init() {
	charactersCmd.Flags().StringVarP(&charactersSaveFile, "save", "s", "", "Path to the save file (required)")
	charactersCmd.Flags().StringVar(&charactersPlatform, "platform", "", "Save platform: auto, pc or console (default from config)")

	if err := charactersCmd.MarkFlagRequired("save"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(charactersCmd)
}

type characterSummary struct {
	Slot       int    `json:"slot"`
	Name       string `json:"name"`
	RelicCount int    `json:"relic_count"`
}

type charactersOutput struct {
	Platform   string             `json:"platform"`
	Characters []characterSummary `json:"characters"`
	Failures   []string           `json:"failures,omitempty"`
}

func runCharacters(cmd *cobra.Command, _ []string) error {
	platform := charactersPlatform
	if platform == "" {
		platform = cfg.Platform
	}

	res, err := readSave(cmd.Context(), charactersSaveFile, platform)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintCharacters(res)
	}

	out := charactersOutput{
		Platform:   string(res.Platform),
		Characters: make([]characterSummary, 0, len(res.Characters)),
	}
	for i := range res.Characters {
		c := &res.Characters[i]
		out.Characters = append(out.Characters, characterSummary{Slot: c.Slot, Name: c.Name, RelicCount: c.RelicCount()})
	}
	for _, f := range res.Failures {
		out.Failures = append(out.Failures, f.Error())
	}
	return export.WriteJSON(cmd.OutOrStdout(), out)
}
