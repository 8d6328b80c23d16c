package urbandensity

import (
	"context"
	"log/slog"
	"time"

	"github.com/lintang-b-s/roadgraph/pkg/errs"
	"github.com/lintang-b-s/roadgraph/pkg/ev"
	"github.com/lintang-b-s/roadgraph/pkg/graph"
	"github.com/lintang-b-s/roadgraph/pkg/logging"
)

type options struct {
	logger *slog.Logger
	ctx    context.Context
}

type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithContext. stop between edges once ctx is done.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		o.ctx = ctx
	}
}

// CalcUrbanDensity. classify every edge of g as rural, residential or city and store it in urbanDensityEnc.
//
// residential pass: an edge is residential when the density of the roads around it (within residentialRadius
// meters, motorways, trunks, tracks and link roads do not count) times residentialSensitivity is >= 1.
// city pass, only when cityRadius > 1: a residential edge becomes city when the density of residential
// roads within cityRadius times citySensitivity is >= 1.
// each pass computes all results before writing any of them, so the threads workers never read bits another one writes.
func CalcUrbanDensity(g *graph.BaseGraph, urbanDensityEnc *ev.EnumEncodedValue[ev.UrbanDensity],
	roadClassEnc *ev.EnumEncodedValue[ev.RoadClass], roadClassLinkEnc *ev.BooleanEncodedValue,
	residentialRadius, residentialSensitivity, cityRadius, citySensitivity float64, threads int, opts ...Option) error {

	o := options{ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}
	logger := logging.OrDefault(o.logger)

	if residentialRadius <= 0 {
		return errs.NewErrorf(errs.ErrInvalidArgument, "residential radius must be positive, got %v", residentialRadius)
	}
	if g.IsClosed() {
		return errs.WrapErrorf(graph.ErrGraphClosed, errs.ErrIllegalState, "urban density")
	}

	logger.Info("calculating residential areas",
		"radius", residentialRadius,
		"sensitivity", residentialSensitivity,
		"threads", threads)
	start := time.Now()
	if err := calcResidential(o.ctx, g, urbanDensityEnc, roadClassEnc, roadClassLinkEnc, residentialRadius, residentialSensitivity, threads); err != nil {
		return err
	}
	logger.Info("finished residential areas", "took", time.Since(start))

	if cityRadius > 1 {
		logger.Info("calculating city areas",
			"radius", cityRadius,
			"sensitivity", citySensitivity,
			"threads", threads)
		start = time.Now()
		if err := calcCity(o.ctx, g, urbanDensityEnc, cityRadius, citySensitivity, threads); err != nil {
			return err
		}
		logger.Info("finished city areas", "took", time.Since(start))
	}
	return nil
}

func calcResidential(ctx context.Context, g *graph.BaseGraph, urbanDensityEnc *ev.EnumEncodedValue[ev.UrbanDensity],
	roadClassEnc *ev.EnumEncodedValue[ev.RoadClass], roadClassLinkEnc *ev.BooleanEncodedValue,
	radius, sensitivity float64, threads int) error {

	// dense networks of highways or tracks say nothing about a settlement
	roadFactor := func(edge graph.EdgeIteratorState) float64 {
		if edge.GetBool(roadClassLinkEnc) {
			return 0
		}
		switch graph.GetEnum(edge, roadClassEnc) {
		case ev.RoadClassMotorway, ev.RoadClassTrunk, ev.RoadClassTrack:
			return 0
		default:
			return 1
		}
	}

	isResidential := make([]bool, g.Edges())
	err := calcRoadDensities(ctx, g, threads, func(c *RoadDensityCalculator, edge graph.EdgeIteratorState) error {
		density := c.CalcRoadDensity(edge, radius, roadFactor)
		isResidential[edge.Edge()] = density*sensitivity >= 1
		return nil
	})
	if err != nil {
		return err
	}

	for e, residential := range isResidential {
		value := ev.UrbanDensityRural
		if residential {
			value = ev.UrbanDensityResidential
		}
		if err := urbanDensityEnc.SetEnum(false, int32(e), g, value); err != nil {
			return err
		}
	}
	return nil
}

func calcCity(ctx context.Context, g *graph.BaseGraph, urbanDensityEnc *ev.EnumEncodedValue[ev.UrbanDensity],
	radius, sensitivity float64, threads int) error {

	roadFactor := func(edge graph.EdgeIteratorState) float64 {
		if graph.GetEnum(edge, urbanDensityEnc) == ev.UrbanDensityResidential {
			return 1
		}
		return 0
	}

	isCity := make([]bool, g.Edges())
	err := calcRoadDensities(ctx, g, threads, func(c *RoadDensityCalculator, edge graph.EdgeIteratorState) error {
		if graph.GetEnum(edge, urbanDensityEnc) == ev.UrbanDensityRural {
			return nil
		}
		density := c.CalcRoadDensity(edge, radius, roadFactor)
		isCity[edge.Edge()] = density*sensitivity >= 1
		return nil
	})
	if err != nil {
		return err
	}

	for e, city := range isCity {
		if !city {
			continue
		}
		if err := urbanDensityEnc.SetEnum(false, int32(e), g, ev.UrbanDensityCity); err != nil {
			return err
		}
	}
	return nil
}
