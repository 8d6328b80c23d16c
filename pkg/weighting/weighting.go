package weighting

import (
	"fmt"
	"math"

	"github.com/lintang-b-s/roadgraph/pkg/errs"
	"github.com/lintang-b-s/roadgraph/pkg/ev"
	"github.com/lintang-b-s/roadgraph/pkg/graph"
)

// Weighting. cost of traversing an edge. implementations are stateless and safe for concurrent use.
//
// reverse == false means the edge is traversed from state.BaseNode() to state.AdjNode(),
// reverse == true means it is traversed from state.AdjNode() to state.BaseNode() (backward searches).
// impassable edges cost +Inf.
type Weighting interface {
	CalcEdgeWeight(state graph.EdgeIteratorState, reverse bool) float64
	CalcEdgeMillis(state graph.EdgeIteratorState, reverse bool) int64
	// MinWeightPerDistance. lower bound of weight per meter over all edges, used by A* heuristics.
	MinWeightPerDistance() float64
	Name() string
}

const (
	SPEED    = "speed"
	FASTEST  = "fastest"
	SHORTEST = "shortest"
)

type options struct {
	access   *ev.BooleanEncodedValue
	maxSpeed float64
}

type Option func(*options)

// WithAccess. edges whose access flag is false in the traversal direction become impassable.
func WithAccess(access *ev.BooleanEncodedValue) Option {
	return func(o *options) {
		o.access = access
	}
}

// WithMaxSpeed. known upper bound of the stored speeds in km/h. tightens MinWeightPerDistance.
func WithMaxSpeed(kmh float64) Option {
	return func(o *options) {
		o.maxSpeed = kmh
	}
}

// SpeedWeighting . weight is the travel time in seconds: distance / speed.
type SpeedWeighting struct {
	speedEnc             *ev.DecimalEncodedValue
	accessEnc            *ev.BooleanEncodedValue
	minWeightPerDistance float64
}

// NewSpeedWeighting. speedEnc holds km/h.
func NewSpeedWeighting(speedEnc *ev.DecimalEncodedValue, opts ...Option) *SpeedWeighting {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	maxSpeed := speedEnc.MaxStorableDecimal()
	if o.maxSpeed > 0 && o.maxSpeed < maxSpeed {
		maxSpeed = o.maxSpeed
	}
	return &SpeedWeighting{
		speedEnc:             speedEnc,
		accessEnc:            o.access,
		minWeightPerDistance: 1 / (maxSpeed / 3.6),
	}
}

func (w *SpeedWeighting) speedMS(state graph.EdgeIteratorState, reverse bool) float64 {
	if w.accessEnc != nil {
		var ok bool
		if reverse {
			ok = state.GetReverseBool(w.accessEnc)
		} else {
			ok = state.GetBool(w.accessEnc)
		}
		if !ok {
			return 0
		}
	}
	var speed float64
	if reverse {
		speed = state.GetReverseDecimal(w.speedEnc)
	} else {
		speed = state.GetDecimal(w.speedEnc)
	}
	return speed / 3.6
}

func (w *SpeedWeighting) CalcEdgeWeight(state graph.EdgeIteratorState, reverse bool) float64 {
	speed := w.speedMS(state, reverse)
	if speed == 0 {
		return math.Inf(1)
	}
	return state.Distance() / speed
}

func (w *SpeedWeighting) CalcEdgeMillis(state graph.EdgeIteratorState, reverse bool) int64 {
	speed := w.speedMS(state, reverse)
	if speed == 0 {
		return math.MaxInt64
	}
	return int64(math.Round(state.Distance() / speed * 1000))
}

func (w *SpeedWeighting) MinWeightPerDistance() float64 {
	return w.minWeightPerDistance
}

func (w *SpeedWeighting) Name() string {
	return SPEED
}

// ShortestWeighting . weight is the distance in meters, time still follows the speed.
type ShortestWeighting struct {
	speed *SpeedWeighting
}

func NewShortestWeighting(speedEnc *ev.DecimalEncodedValue, opts ...Option) *ShortestWeighting {
	return &ShortestWeighting{speed: NewSpeedWeighting(speedEnc, opts...)}
}

func (w *ShortestWeighting) CalcEdgeWeight(state graph.EdgeIteratorState, reverse bool) float64 {
	if w.speed.speedMS(state, reverse) == 0 {
		return math.Inf(1)
	}
	return state.Distance()
}

func (w *ShortestWeighting) CalcEdgeMillis(state graph.EdgeIteratorState, reverse bool) int64 {
	return w.speed.CalcEdgeMillis(state, reverse)
}

func (w *ShortestWeighting) MinWeightPerDistance() float64 {
	return 1
}

func (w *ShortestWeighting) Name() string {
	return SHORTEST
}

// Create. weighting by name for vehicle, looking up "<vehicle>_speed" and (if registered) "<vehicle>_access".
func Create(name, vehicle string, em *ev.EncodingManager) (Weighting, error) {
	speedEnc, err := em.DecimalEncodedValue(ev.VehicleSpeedKey(vehicle))
	if err != nil {
		return nil, fmt.Errorf("weighting %s: %w", name, err)
	}
	opts := make([]Option, 0, 1)
	if em.Has(ev.VehicleAccessKey(vehicle)) {
		accessEnc, err := em.BooleanEncodedValue(ev.VehicleAccessKey(vehicle))
		if err != nil {
			return nil, fmt.Errorf("weighting %s: %w", name, err)
		}
		opts = append(opts, WithAccess(accessEnc))
	}

	switch name {
	case SPEED, FASTEST, "":
		return NewSpeedWeighting(speedEnc, opts...), nil
	case SHORTEST:
		return NewShortestWeighting(speedEnc, opts...), nil
	default:
		return nil, errs.NewErrorf(errs.ErrInvalidArgument, "unknown weighting %q", name)
	}
}
