package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/relic-planner/internal/export"
	"github.com/jonathan/relic-planner/internal/inventory"
	"github.com/jonathan/relic-planner/internal/observability"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Resolve a character's relics against the reference dataset",
	Long:  "Decodes one character from a save file, joins its relics with the reference dataset and writes the owned relics as JSON together with unknown-effect warnings.",
	RunE:  runInventory,
}

var (
	inventorySaveFile    string
	inventoryCharacter   int
	inventoryDataset     string
	inventoryOutputFile  string
	inventoryKeepInvalid bool
)

func init() {
	inventoryCmd.Flags().StringVarP(&inventorySaveFile, "save", "s", "", "Path to the save file (required)")
	inventoryCmd.Flags().IntVarP(&inventoryCharacter, "character", "c", 0, "Character slot index (required)")
	inventoryCmd.Flags().StringVarP(&inventoryDataset, "dataset", "d", "", "Path to the reference dataset (default from config)")
	inventoryCmd.Flags().StringVarP(&inventoryOutputFile, "out", "o", "", "Output JSON file (default stdout)")
	inventoryCmd.Flags().BoolVar(&inventoryKeepInvalid, "keep-invalid", false, "Keep relics that fail validity checks, marked with their reason")

	for _, name := range []string{"save", "character"} {
		if err := inventoryCmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(inventoryCmd)
}

type inventoryOutput struct {
	Character string `json:"character"`
	Slot      int    `json:"slot"`
	*inventory.Resolution
}

func runInventory(cmd *cobra.Command, _ []string) error {
	if inventoryDataset != "" {
		cfg.Dataset = inventoryDataset
	}
	if inventoryKeepInvalid {
		cfg.KeepInvalid = true
	}

	ds, err := loadDataset()
	if err != nil {
		return err
	}
	c, err := readCharacter(cmd.Context(), inventorySaveFile, cfg.Platform, inventoryCharacter)
	if err != nil {
		return err
	}

	res := inventory.NewResolver(ds, logger, cfg.KeepInvalid).ResolveCharacter(c)
	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintInventory(res)
	}

	return export.WriteJSONFile(inventoryOutputFile, inventoryOutput{
		Character:  c.Name,
		Slot:       c.Slot,
		Resolution: res,
	}, cmd.OutOrStdout())
}
