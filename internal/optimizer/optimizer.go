package optimizer

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/relic-planner/internal/gamedata"
	"github.com/jonathan/relic-planner/internal/inventory"
	"github.com/jonathan/relic-planner/internal/scoring"
	"github.com/jonathan/relic-planner/internal/types"
)

// Options tune the search.
type Options struct {
	TopK                 int
	Workers              int
	MaxCandidatesTotal   int
	MaxCandidatesPerSlot int
	MaxSteps             int
	// TimeBudget bounds each vessel's search; zero means unbounded.
	TimeBudget time.Duration
	Logger     *zap.Logger
}

// DefaultOptions returns the stock search settings.
func DefaultOptions() Options {
	return Options{
		TopK:                 10,
		Workers:              4,
		MaxCandidatesTotal:   200,
		MaxCandidatesPerSlot: 80,
		MaxSteps:             2_000_000,
		TimeBudget:           2 * time.Second,
	}
}

// Optimizer ranks vessel assignments for one build.
type Optimizer struct {
	ref    gamedata.Reference
	build  *types.BuildDefinition
	scorer *scoring.Scorer
	opts   Options
	logger *zap.Logger
}

// New prepares an optimizer for build.
func New(ref gamedata.Reference, build *types.BuildDefinition, opts Options) (*Optimizer, error) {
	if ref == nil {
		return nil, &Error{Message: "reference dataset is required"}
	}
	if build == nil {
		return nil, &Error{Message: "build is required"}
	}
	scorer, err := scoring.New(ref, build)
	if err != nil {
		return nil, &Error{Message: "invalid build", Cause: err}
	}

	defaults := DefaultOptions()
	if opts.TopK <= 0 {
		opts.TopK = defaults.TopK
	}
	if opts.Workers <= 0 {
		opts.Workers = defaults.Workers
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{ref: ref, build: build, scorer: scorer, opts: opts, logger: logger}, nil
}

// Scorer exposes the optimizer's scorer.
func (o *Optimizer) Scorer() *scoring.Scorer {
	return o.scorer
}

// OptimizeCharacter ranks every vessel available to the build's character.
func (o *Optimizer) OptimizeCharacter(ctx context.Context, inv *inventory.Inventory) ([]types.VesselResult, error) {
	return o.OptimizeAll(ctx, inv, o.ref.VesselsFor(o.build.Character))
}

// OptimizeAll searches each vessel concurrently and returns the global top-K,
// by score descending with ties broken by vessel id. Vessels whose slots
// cannot hold the pinned relics produce no result.
func (o *Optimizer) OptimizeAll(ctx context.Context, inv *inventory.Inventory, vessels []types.VesselConfiguration) ([]types.VesselResult, error) {
	runID := uuid.New()
	logger := o.logger.With(zap.String("run_id", runID.String()), zap.String("build", o.build.Name))
	logger.Info("optimizing",
		zap.Int("vessels", len(vessels)),
		zap.Int("relics", inv.Len()),
		zap.Int("workers", o.opts.Workers))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.Workers)

	var mu sync.Mutex // Protects results
	results := make([]types.VesselResult, 0, len(vessels))

	for i := range vessels {
		v := vessels[i]
		g.Go(func() error {
			res, ok := o.optimizeVessel(gCtx, inv, &v, logger)
			if !ok {
				return nil
			}
			mu.Lock()
			results = append(results, *res)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &Error{Message: "vessel search failed", Cause: err}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].TotalScore != results[j].TotalScore {
			return results[i].TotalScore > results[j].TotalScore
		}
		return results[i].VesselID < results[j].VesselID
	})
	if len(results) > o.opts.TopK {
		results = results[:o.opts.TopK]
	}
	logger.Info("optimization finished", zap.Int("results", len(results)))
	return results, nil
}

// OptimizeVessel finds the best assignment for one vessel. ok is false when
// the pinned relics do not fit the vessel.
func (o *Optimizer) OptimizeVessel(ctx context.Context, inv *inventory.Inventory, v *types.VesselConfiguration) (*types.VesselResult, bool) {
	return o.optimizeVessel(ctx, inv, v, o.logger)
}

func (o *Optimizer) optimizeVessel(ctx context.Context, inv *inventory.Inventory, v *types.VesselConfiguration, logger *zap.Logger) (*types.VesselResult, bool) {
	start := time.Now()
	logger = logger.With(zap.Uint32("vessel_id", v.ID))

	p, ok := o.problem(inv, v, logger)
	if !ok {
		logger.Debug("vessel cannot hold pinned relics")
		return nil, false
	}

	if o.opts.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.TimeBudget)
		defer cancel()
	}

	strategy := Select(p, Limits{
		MaxCandidatesTotal:   o.opts.MaxCandidatesTotal,
		MaxCandidatesPerSlot: o.opts.MaxCandidatesPerSlot,
	})
	logger.Debug("strategy selected", zap.String("strategy", strategy.Name()), zap.Int("candidates", p.Size()))

	sol := strategy.Solve(ctx, p)
	if !sol.Complete {
		logger.Info("search budget exhausted, keeping best assignment found",
			zap.String("strategy", strategy.Name()),
			zap.Int("steps", sol.Steps))
	}

	res := o.result(v, p.Slots, sol, strategy.Name())
	logger.Debug("vessel optimized",
		zap.Int("score", res.TotalScore),
		zap.Int("steps", sol.Steps),
		zap.Duration("elapsed", time.Since(start)))
	return res, true
}

// problem places pinned relics in their first compatible slot and gathers
// candidates for the rest.
func (o *Optimizer) problem(inv *inventory.Inventory, v *types.VesselConfiguration, logger *zap.Logger) (*Problem, bool) {
	slots := v.SlotColors(o.build.IncludeDeep)
	p := &Problem{
		Scorer:     o.scorer,
		Slots:      slots,
		Fixed:      make([]*types.OwnedRelic, len(slots)),
		Candidates: make([][]*types.OwnedRelic, len(slots)),
		CurseMax:   o.build.CurseMax,
		MaxSteps:   o.opts.MaxSteps,
	}

	for _, h := range o.build.PinnedRelics {
		r, ok := inv.ByHandle(h)
		if !ok {
			logger.Debug("pinned relic not in inventory", zap.Uint32("handle", h))
			continue
		}
		placed := false
		for i, c := range slots {
			if p.Fixed[i] == nil && r.Deep == types.IsDeepSlot(i) && c.Accepts(r.Color) {
				p.Fixed[i] = r
				placed = true
				break
			}
		}
		if !placed {
			return nil, false
		}
	}

	for i, c := range slots {
		if p.Fixed[i] != nil {
			continue
		}
		var cands []*types.OwnedRelic
		for _, r := range inv.Candidates(c, types.IsDeepSlot(i)) {
			if o.build.IsPinned(r.Handle) || o.scorer.HasExclusion(r) || o.scorer.UpperBound(r) <= 0 {
				continue
			}
			cands = append(cands, r)
		}
		pre := make(map[uint32]int, len(cands))
		for _, r := range cands {
			pre[r.Handle] = o.scorer.PreScore(r)
		}
		sort.SliceStable(cands, func(a, b int) bool {
			if pre[cands[a].Handle] != pre[cands[b].Handle] {
				return pre[cands[a].Handle] > pre[cands[b].Handle]
			}
			return cands[a].Handle < cands[b].Handle
		})
		p.Candidates[i] = cands
	}
	return p, true
}

func (o *Optimizer) result(v *types.VesselConfiguration, slots []types.Color, sol Solution, strategy string) *types.VesselResult {
	ev := o.scorer.Evaluate(sol.Relics)
	res := &types.VesselResult{
		VesselID:          v.ID,
		VesselName:        v.Name,
		VesselCharacter:   v.Character,
		Source:            v.Source,
		SlotColors:        slots,
		Assignments:       make([]types.SlotAssignment, len(slots)),
		TotalScore:        ev.Total,
		MeetsRequirements: ev.MeetsRequirements,
		MissingEffects:    ev.MissingEffects,
		MissingFamilies:   ev.MissingFamilies,
		Excluded:          ev.Excluded,
		CurseOverflow:     ev.CurseOverflow,
		Strategy:          strategy,
		Complete:          sol.Complete,
		Steps:             sol.Steps,
	}
	for i, c := range slots {
		res.Assignments[i] = types.SlotAssignment{
			SlotIndex: i,
			SlotColor: c,
			IsDeep:    types.IsDeepSlot(i),
			Relic:     sol.Relics[i],
			Score:     ev.Slots[i].Score,
			Breakdown: ev.Slots[i].Breakdown,
		}
	}
	return res
}
