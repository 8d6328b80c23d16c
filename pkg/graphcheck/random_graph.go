package graphcheck

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/lintang-b-s/roadgraph/pkg/errs"
	"github.com/lintang-b-s/roadgraph/pkg/ev"
	"github.com/lintang-b-s/roadgraph/pkg/geo"
	"github.com/lintang-b-s/roadgraph/pkg/graph"
	"github.com/lintang-b-s/roadgraph/pkg/util"
)

// RandomGraphConfig . jittered grid road network.
type RandomGraphConfig struct {
	Rows, Cols int32
	Seed       uint64
	// Spacing. grid cell size in degrees.
	Spacing          float64
	BaseLat, BaseLon float64
	// OneWayRatio. share of edges with one direction blocked (speed 0).
	OneWayRatio float64
	// MissingRatio. share of grid edges that are left out.
	MissingRatio float64
	// DiagonalRatio. share of cells that get a diagonal edge.
	DiagonalRatio float64
}

func DefaultRandomGraphConfig() RandomGraphConfig {
	return RandomGraphConfig{
		Rows:          20,
		Cols:          20,
		Seed:          1,
		Spacing:       0.001,
		BaseLat:       -6.2,
		BaseLon:       106.8,
		OneWayRatio:   0.1,
		MissingRatio:  0.1,
		DiagonalRatio: 0.2,
	}
}

// NewRandomGraph. fill g (created, empty) with a seeded random grid. node ids are row*Cols+col.
// edge distances are never shorter than the beeline between their nodes, so beeline heuristics stay admissible.
// the same config always produces the same graph.
func NewRandomGraph(g *graph.BaseGraph, speedEnc *ev.DecimalEncodedValue, cfg RandomGraphConfig) error {
	if cfg.Rows <= 0 || cfg.Cols <= 0 {
		return errs.NewErrorf(errs.ErrInvalidArgument, "random graph needs positive rows and cols, got %dx%d", cfg.Rows, cfg.Cols)
	}
	if cfg.Spacing <= 0 {
		return errs.NewErrorf(errs.ErrInvalidArgument, "random graph spacing must be positive, got %v", cfg.Spacing)
	}
	rd := rand.New(rand.NewSource(cfg.Seed))
	na := g.NodeAccess()

	for r := int32(0); r < cfg.Rows; r++ {
		for c := int32(0); c < cfg.Cols; c++ {
			jitterLat := (rd.Float64() - 0.5) * cfg.Spacing * 0.4
			jitterLon := (rd.Float64() - 0.5) * cfg.Spacing * 0.4
			lat := cfg.BaseLat + float64(r)*cfg.Spacing + jitterLat
			lon := cfg.BaseLon + float64(c)*cfg.Spacing + jitterLon
			if err := na.SetNode(r*cfg.Cols+c, lat, lon); err != nil {
				return err
			}
		}
	}

	// speeds are multiples of the encoder's factor so they are stored exactly
	factor := speedEnc.Factor()
	maxSteps := int(speedEnc.MaxStorableDecimal() / factor)
	minSteps := int(math.Ceil(10 / factor))
	if minSteps < 1 {
		minSteps = 1
	}
	if maxSteps <= minSteps {
		maxSteps = minSteps + 1
	}
	randomSpeed := func() float64 {
		return float64(util.GenerateRandomInt(rd, minSteps, maxSteps+1)) * factor
	}

	connect := func(a, b int32) error {
		if rd.Float64() < cfg.MissingRatio {
			return nil
		}
		ca, cb := na.Coordinate(a), na.Coordinate(b)
		beeline := geo.DistanceMeters(ca.Lat, ca.Lon, cb.Lat, cb.Lon)
		dist := beeline*(1+rd.Float64()*0.3) + 1

		e, err := g.Edge(a, b, dist)
		if err != nil {
			return err
		}
		fwd, bwd := randomSpeed(), randomSpeed()
		if rd.Float64() < cfg.OneWayRatio {
			if rd.Intn(2) == 0 {
				fwd = 0
			} else {
				bwd = 0
			}
		}
		return e.SetDecimalBothDirections(speedEnc, fwd, bwd)
	}

	for r := int32(0); r < cfg.Rows; r++ {
		for c := int32(0); c < cfg.Cols; c++ {
			n := r*cfg.Cols + c
			if c+1 < cfg.Cols {
				if err := connect(n, n+1); err != nil {
					return err
				}
			}
			if r+1 < cfg.Rows {
				if err := connect(n, n+cfg.Cols); err != nil {
					return err
				}
			}
			if c+1 < cfg.Cols && r+1 < cfg.Rows && rd.Float64() < cfg.DiagonalRatio {
				if err := connect(n, n+cfg.Cols+1); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
