package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/relic-planner/internal/builds"
	"github.com/jonathan/relic-planner/internal/export"
	"github.com/jonathan/relic-planner/internal/inventory"
	"github.com/jonathan/relic-planner/internal/observability"
	"github.com/jonathan/relic-planner/internal/optimizer"
	"github.com/jonathan/relic-planner/internal/types"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Rank vessel assignments for a build",
	Long: `Decodes one character, resolves its relics and searches every vessel the
character can equip for the assignment that best satisfies the build definition.
The top results are written as JSON and optionally as an xlsx workbook.`,
	RunE: runOptimize,
}

var (
	optimizeSaveFile   string
	optimizeCharacter  int
	optimizeDataset    string
	optimizeBuildFile  string
	optimizeTopK       int
	optimizeOutputFile string
	optimizeXLSXFile   string
	optimizeMaxSteps   int
	optimizeTimeBudget time.Duration
)

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeSaveFile, "save", "s", "", "Path to the save file (required)")
	optimizeCmd.Flags().IntVarP(&optimizeCharacter, "character", "c", 0, "Character slot index (required)")
	optimizeCmd.Flags().StringVarP(&optimizeDataset, "dataset", "d", "", "Path to the reference dataset (default from config)")
	optimizeCmd.Flags().StringVarP(&optimizeBuildFile, "build", "b", "", "Path to the build definition, JSON or YAML (required)")
	optimizeCmd.Flags().IntVar(&optimizeTopK, "top", 0, "Number of results to keep (default from config)")
	optimizeCmd.Flags().StringVarP(&optimizeOutputFile, "out", "o", "", "Output JSON file (default stdout)")
	optimizeCmd.Flags().StringVar(&optimizeXLSXFile, "xlsx", "", "Also write the results to this xlsx workbook")
	optimizeCmd.Flags().IntVar(&optimizeMaxSteps, "max-steps", 0, "Search step budget per vessel (default from config)")
	optimizeCmd.Flags().DurationVar(&optimizeTimeBudget, "time-budget", 0, "Search time budget per vessel (default from config)")

	for _, name := range []string{"save", "character", "build"} {
		if err := optimizeCmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(optimizeCmd)
}

type optimizeOutput struct {
	Character string               `json:"character"`
	Build     string               `json:"build"`
	BuildID   string               `json:"build_id"`
	Results   []types.VesselResult `json:"results"`
	Warnings  []string             `json:"warnings,omitempty"`
}

func runOptimize(cmd *cobra.Command, _ []string) error {
	if optimizeDataset != "" {
		cfg.Dataset = optimizeDataset
	}
	if optimizeTopK > 0 {
		cfg.TopK = optimizeTopK
	}
	if optimizeMaxSteps > 0 {
		cfg.MaxSteps = optimizeMaxSteps
	}
	if optimizeTimeBudget > 0 {
		cfg.TimeBudget = optimizeTimeBudget
	}

	ds, err := loadDataset()
	if err != nil {
		return err
	}

	build, err := builds.Load(optimizeBuildFile)
	if err != nil {
		return fmt.Errorf("failed to load build: %w", err)
	}
	if err := builds.Normalize(build, ds); err != nil {
		return fmt.Errorf("failed to normalize build: %w", err)
	}

	var warnings []string
	for _, id := range builds.UnknownEffects(build, ds) {
		logger.Warn("build references unknown effect", zap.Uint32("effect_id", id))
		warnings = append(warnings, fmt.Sprintf("build references unknown effect %d", id))
	}

	c, err := readCharacter(cmd.Context(), optimizeSaveFile, cfg.Platform, optimizeCharacter)
	if err != nil {
		return err
	}
	res := inventory.NewResolver(ds, logger, false).ResolveCharacter(c)
	for _, w := range res.Warnings {
		warnings = append(warnings, w.String())
	}

	opt, err := optimizer.New(ds, build, optimizer.Options{
		TopK:                 cfg.TopK,
		Workers:              cfg.Workers,
		MaxCandidatesTotal:   cfg.MaxCandidatesTotal,
		MaxCandidatesPerSlot: cfg.MaxCandidatesPerSlot,
		MaxSteps:             cfg.MaxSteps,
		TimeBudget:           cfg.TimeBudget,
		Logger:               logger,
	})
	if err != nil {
		return err
	}
	results, err := opt.OptimizeCharacter(cmd.Context(), res.Inventory)
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}

	if cfg.Verbose {
		p := observability.NewPrinter(cmd.ErrOrStderr())
		p.PrintInventory(res)
		p.PrintVesselResults(results)
	}

	if optimizeXLSXFile != "" {
		if err := export.WriteXLSX(optimizeXLSXFile, results, res.Relics); err != nil {
			return err
		}
	}

	return export.WriteJSONFile(optimizeOutputFile, optimizeOutput{
		Character: c.Name,
		Build:     build.Name,
		BuildID:   build.ID,
		Results:   results,
		Warnings:  warnings,
	}, cmd.OutOrStdout())
}
