package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lintang-b-s/roadgraph/pkg/ev"
	"github.com/lintang-b-s/roadgraph/pkg/graph"
	"github.com/lintang-b-s/roadgraph/pkg/graphcheck"
	"github.com/lintang-b-s/roadgraph/pkg/osmparser"
	"github.com/lintang-b-s/roadgraph/pkg/urbandensity"
)

const vehicle = "car"

type graphFlags struct {
	osmFile string

	rows, cols  int32
	seed        uint64
	oneWayRatio float64

	urbanDensity           bool
	residentialRadius      float64
	residentialSensitivity float64
	cityRadius             float64
	citySensitivity        float64
	threads                int
}

// newEncodingManager. speed and road attributes of one vehicle. access is only registered for OSM imports,
// generated graphs close directions through a zero speed.
func newEncodingManager(withAccess bool) (*ev.EncodingManager, error) {
	b := ev.NewBuilder()
	values := []ev.EncodedValue{
		ev.NewDecimal(ev.VehicleSpeedKey(vehicle), 5, 5, true),
		ev.NewRoadClassEnc(),
		ev.NewRoadClassLinkEnc(),
		ev.NewUrbanDensityEnc(),
	}
	if withAccess {
		values = append(values, ev.NewBoolean(ev.VehicleAccessKey(vehicle), true))
	}
	for _, v := range values {
		if err := b.Add(v); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// buildGraph. import the OSM file if one is given, otherwise generate a random grid.
func buildGraph(ctx context.Context, f graphFlags, logger *slog.Logger) (*graph.BaseGraph, error) {
	em, err := newEncodingManager(f.osmFile != "")
	if err != nil {
		return nil, err
	}
	for _, l := range em.Layout() {
		logger.Debug("encoded value", "layout", l.String())
	}

	g, err := graph.NewBuilder(em).SetLogger(logger).CreateGraph()
	if err != nil {
		return nil, err
	}

	if f.osmFile != "" {
		enc, err := osmparser.NewTagEncoders(em, vehicle)
		if err != nil {
			g.Close()
			return nil, err
		}
		if err := osmparser.NewWayImporter(g, enc, logger).ImportPBF(ctx, f.osmFile); err != nil {
			g.Close()
			return nil, err
		}
	} else {
		speedEnc, err := em.DecimalEncodedValue(ev.VehicleSpeedKey(vehicle))
		if err != nil {
			g.Close()
			return nil, err
		}
		cfg := graphcheck.DefaultRandomGraphConfig()
		cfg.Rows, cfg.Cols, cfg.Seed = f.rows, f.cols, f.seed
		cfg.OneWayRatio = f.oneWayRatio
		if err := graphcheck.NewRandomGraph(g, speedEnc, cfg); err != nil {
			g.Close()
			return nil, err
		}
		logger.Info("generated random graph", "rows", f.rows, "cols", f.cols, "seed", f.seed,
			"nodes", g.Nodes(), "edges", g.Edges())
	}

	if f.urbanDensity {
		if err := calcUrbanDensity(ctx, g, em, f, logger); err != nil {
			g.Close()
			return nil, err
		}
	}
	return g, nil
}

func calcUrbanDensity(ctx context.Context, g *graph.BaseGraph, em *ev.EncodingManager, f graphFlags, logger *slog.Logger) error {
	urbanDensityEnc, err := ev.GetEnumEncodedValue[ev.UrbanDensity](em, ev.UrbanDensityKey)
	if err != nil {
		return err
	}
	roadClassEnc, err := ev.GetEnumEncodedValue[ev.RoadClass](em, ev.RoadClassKey)
	if err != nil {
		return err
	}
	roadClassLinkEnc, err := em.BooleanEncodedValue(ev.RoadClassLinkKey)
	if err != nil {
		return err
	}
	err = urbandensity.CalcUrbanDensity(g, urbanDensityEnc, roadClassEnc, roadClassLinkEnc,
		f.residentialRadius, f.residentialSensitivity, f.cityRadius, f.citySensitivity, f.threads,
		urbandensity.WithContext(ctx), urbandensity.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("urban density: %w", err)
	}

	counts := make(map[ev.UrbanDensity]int)
	for e := int32(0); e < g.Edges(); e++ {
		state, err := g.EdgeIteratorState(e, -1)
		if err != nil {
			return err
		}
		counts[graph.GetEnum(state, urbanDensityEnc)]++
	}
	logger.Info("urban density",
		"rural", counts[ev.UrbanDensityRural],
		"residential", counts[ev.UrbanDensityResidential],
		"city", counts[ev.UrbanDensityCity])
	return nil
}
