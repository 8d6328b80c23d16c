package graphcheck

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/lintang-b-s/roadgraph/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/roadgraph/pkg/errs"
	"github.com/lintang-b-s/roadgraph/pkg/graph"
	"github.com/lintang-b-s/roadgraph/pkg/logging"
	"github.com/lintang-b-s/roadgraph/pkg/weighting"
)

type CrossCheckConfig struct {
	Queries int
	// Workers. <= 0 uses GOMAXPROCS.
	Workers int
	Seed    uint64

	Metrics *routingalgorithm.Metrics
	Logger  *slog.Logger
}

// CrossCheck. run Queries random source/target pairs and compare A* and bidirectional Dijkstra against
// plain Dijkstra. every query gets fresh algorithm instances, workers only share the read only graph.
// violations come back in query order, the same seed gives the same queries.
func CrossCheck(ctx context.Context, g *graph.BaseGraph, w weighting.Weighting, cfg CrossCheckConfig) ([]string, error) {
	if cfg.Queries < 0 {
		return nil, errs.NewErrorf(errs.ErrInvalidArgument, "negative query count %d", cfg.Queries)
	}
	nodes := g.Nodes()
	if nodes == 0 {
		return nil, errs.NewErrorf(errs.ErrIllegalState, "cross check on an empty graph")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger := logging.OrDefault(cfg.Logger)

	rd := rand.New(rand.NewSource(cfg.Seed))
	pairs := make([][2]int32, cfg.Queries)
	for i := range pairs {
		pairs[i] = [2]int32{int32(rd.Int31n(nodes)), int32(rd.Int31n(nodes))}
	}

	start := time.Now()
	results := make([][]string, cfg.Queries)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, pair := range pairs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			v, err := checkQuery(g, w, cfg, pair[0], pair[1])
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	violations := make([]string, 0)
	for _, r := range results {
		violations = append(violations, r...)
	}
	logger.Info("cross check finished",
		"queries", cfg.Queries,
		"workers", workers,
		"seed", cfg.Seed,
		"violations", len(violations),
		"took", time.Since(start))
	return violations, nil
}

func checkQuery(g *graph.BaseGraph, w weighting.Weighting, cfg CrossCheckConfig, from, to int32) ([]string, error) {
	ref := routingalgorithm.NewDijkstra(g, w)
	ref.SetMetrics(cfg.Metrics)
	refPath, err := ref.CalcPath(from, to)
	if err != nil {
		return nil, fmt.Errorf("reference query %d->%d: %w", from, to, err)
	}

	astar := routingalgorithm.NewAStar(g, w)
	astar.SetMetrics(cfg.Metrics)
	bidir := routingalgorithm.NewBidirectionalDijkstra(g, w)
	bidir.SetMetrics(cfg.Metrics)

	violations := make([]string, 0)
	for _, algo := range []routingalgorithm.RoutingAlgorithm{astar, bidir} {
		p, err := algo.CalcPath(from, to)
		if err != nil {
			return nil, fmt.Errorf("%s query %d->%d: %w", algo.Name(), from, to, err)
		}
		for _, v := range ComparePaths(refPath, p, from, to, int64(cfg.Seed)) {
			violations = append(violations, algo.Name()+": "+v)
		}
	}
	return violations, nil
}
