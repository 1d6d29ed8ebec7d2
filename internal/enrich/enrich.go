// Package enrich derives the PER and school-to-birthplace distance columns for
// a batch of players.
package enrich

import (
	"context"
	"errors"
	"math"
	"slices"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/player-enrich/internal/geodist"
	"github.com/sells-group/player-enrich/internal/model"
	"github.com/sells-group/player-enrich/internal/per"
	"github.com/sells-group/player-enrich/internal/resilience"
	"github.com/sells-group/player-enrich/pkg/geocode"
)

// Config controls the distance pass.
type Config struct {
	Concurrency   int  // geocoding workers; default 4
	ProgressEvery int  // log progress every N rows; default 50, negative disables
	SkipDistance  bool // compute PER only
}

// Enricher computes derived columns. It is safe for concurrent use when the
// geocoder is.
type Enricher struct {
	geocoder geocode.Client
	cfg      Config
}

// New returns an Enricher. gc may be nil when cfg.SkipDistance is set.
func New(gc geocode.Client, cfg Config) *Enricher {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.ProgressEvery == 0 {
		cfg.ProgressEvery = 50
	}
	return &Enricher{geocoder: gc, cfg: cfg}
}

// Enrich runs the PER pass and the distance pass, then sorts by PER. Every
// input row yields exactly one output row.
func (e *Enricher) Enrich(ctx context.Context, players []model.Player) []model.EnrichedPlayer {
	out := make([]model.EnrichedPlayer, len(players))
	for i, p := range players {
		out[i] = model.EnrichedPlayer{Player: p, Index: i, PER: ComputePER(p)}
	}

	if !e.cfg.SkipDistance {
		for i, d := range e.ResolveAll(ctx, players) {
			out[i].Distance = d
		}
	}

	SortByPER(out)
	return out
}

// ComputePER returns the player's PER, or nil when the stats are unusable or
// minutes are not positive.
func ComputePER(p model.Player) *float64 {
	if p.StatsErr != nil {
		zap.L().Debug("enrich: per undefined",
			zap.String("first_name", p.FirstName),
			zap.String("last_name", p.LastName),
			zap.Error(p.StatsErr),
		)
		return nil
	}
	v, err := per.Calculate(p.Stats)
	if err != nil {
		zap.L().Debug("enrich: per undefined",
			zap.String("first_name", p.FirstName),
			zap.String("last_name", p.LastName),
			zap.Error(err),
		)
		return nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ResolveAll resolves every player's distance with a bounded worker pool.
// Results are index-aligned with players. Row failures never stop the batch.
func (e *Enricher) ResolveAll(ctx context.Context, players []model.Player) []model.DistanceResult {
	results := make([]model.DistanceResult, len(players))
	if len(players) == 0 {
		return results
	}

	log := zap.L().With(zap.Int("total", len(players)), zap.Int("concurrency", e.cfg.Concurrency))
	log.Info("enrich: distance pass starting")
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)

	var done, resolved atomic.Int64
	for i := range players {
		g.Go(func() error {
			results[i] = e.ResolveDistance(gctx, players[i])
			if results[i].Resolved {
				resolved.Add(1)
			}
			n := done.Add(1)
			if e.cfg.ProgressEvery > 0 && n%int64(e.cfg.ProgressEvery) == 0 {
				log.Info("enrich: progress",
					zap.Int64("done", n),
					zap.Int64("resolved", resolved.Load()),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	log.Info("enrich: distance pass complete",
		zap.Int64("resolved", resolved.Load()),
		zap.Int64("unresolved", int64(len(players))-resolved.Load()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results
}

// ResolveDistance geocodes the school and the birthplace and returns the
// geodesic miles between them. Any failure on either side is contained in the
// result and logged once.
func (e *Enricher) ResolveDistance(ctx context.Context, p model.Player) model.DistanceResult {
	schoolAddr := SchoolAddress(p)
	school, fail := e.locate(ctx, model.SideSchool, schoolAddr)
	if fail != nil {
		return e.unresolved(p, fail)
	}

	birthAddr := BirthplaceAddress(p)
	birth, fail := e.locate(ctx, model.SideBirthplace, birthAddr)
	if fail != nil {
		return e.unresolved(p, fail)
	}

	return model.DistanceResult{
		Resolved:   true,
		Miles:      geodist.Miles(*school, *birth),
		School:     school,
		Birthplace: birth,
	}
}

func (e *Enricher) locate(ctx context.Context, side model.Side, address string) (*geodist.Point, *model.ResolutionFailure) {
	failure := func(reason model.FailureReason, err error) *model.ResolutionFailure {
		return &model.ResolutionFailure{Side: side, Address: address, Reason: reason, Err: err}
	}

	if address == "" {
		return nil, failure(model.ReasonEmptyAddress, nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, failure(model.ReasonCancelled, err)
	}
	if e.geocoder == nil {
		return nil, failure(model.ReasonGeocodeError, eris.New("enrich: no geocoder configured"))
	}

	res, err := e.geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, failure(classify(ctx, err), err)
	}
	if res == nil || !res.Matched {
		return nil, failure(model.ReasonNotFound, nil)
	}

	pt := res.Point()
	if !pt.Valid() {
		return nil, failure(model.ReasonGeocodeError,
			eris.Errorf("enrich: invalid coordinates %f,%f", pt.Lat, pt.Lon))
	}
	return &pt, nil
}

func classify(ctx context.Context, err error) model.FailureReason {
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return model.ReasonCircuitOpen
	case ctx.Err() != nil:
		return model.ReasonCancelled
	default:
		return model.ReasonGeocodeError
	}
}

func (e *Enricher) unresolved(p model.Player, f *model.ResolutionFailure) model.DistanceResult {
	fields := []zap.Field{
		zap.String("first_name", p.FirstName),
		zap.String("last_name", p.LastName),
		zap.String("birthplace_city", p.BirthplaceCity),
		zap.String("side", string(f.Side)),
		zap.String("address", f.Address),
		zap.String("reason", string(f.Reason)),
	}
	if f.Err != nil {
		fields = append(fields, zap.Error(f.Err))
	}
	zap.L().Warn("enrich: distance unresolved", fields...)
	return model.DistanceResult{Failure: f}
}

// SortByPER orders players by PER descending with undefined PER last. Ties
// keep their relative order. Index is reassigned to the new positions.
func SortByPER(players []model.EnrichedPlayer) {
	slices.SortStableFunc(players, func(a, b model.EnrichedPlayer) int {
		switch {
		case a.PER == nil && b.PER == nil:
			return 0
		case a.PER == nil:
			return 1
		case b.PER == nil:
			return -1
		case *a.PER > *b.PER:
			return -1
		case *a.PER < *b.PER:
			return 1
		}
		return 0
	})
	for i := range players {
		players[i].Index = i
	}
}
