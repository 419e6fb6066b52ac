package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/relic-planner/internal/checker"
	"github.com/jonathan/relic-planner/internal/export"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report relics that could not have been rolled legitimately",
	Long:  "Runs the validity checks over every relic a character owns and reports the first failed rule for each relic.",
	RunE:  runCheck,
}

var (
	checkSaveFile  string
	checkCharacter int
	checkDataset   string
	checkAll       bool
)

func init() {
	checkCmd.Flags().StringVarP(&checkSaveFile, "save", "s", "", "Path to the save file (required)")
	checkCmd.Flags().IntVarP(&checkCharacter, "character", "c", 0, "Character slot index (required)")
	checkCmd.Flags().StringVarP(&checkDataset, "dataset", "d", "", "Path to the reference dataset (default from config)")
	checkCmd.Flags().BoolVar(&checkAll, "all", false, "Include relics that passed every check")

	for _, name := range []string{"save", "character"} {
		if err := checkCmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(checkCmd)
}

type checkOutput struct {
	Character string           `json:"character"`
	Checked   int              `json:"checked"`
	Invalid   int              `json:"invalid"`
	Results   []checker.Result `json:"results"`
}

func runCheck(cmd *cobra.Command, _ []string) error {
	if checkDataset != "" {
		cfg.Dataset = checkDataset
	}

	ds, err := loadDataset()
	if err != nil {
		return err
	}
	c, err := readCharacter(cmd.Context(), checkSaveFile, cfg.Platform, checkCharacter)
	if err != nil {
		return err
	}

	out := checkOutput{Character: c.Name, Checked: len(c.Relics), Results: []checker.Result{}}
	for _, r := range checker.CheckAll(c.Relics, ds) {
		if !r.OK() {
			out.Invalid++
		} else if !checkAll {
			continue
		}
		out.Results = append(out.Results, r)
	}
	return export.WriteJSON(cmd.OutOrStdout(), out)
}
