package graph

import (
	"fmt"
	"math"

	"github.com/lintang-b-s/roadgraph/pkg/errs"
	"github.com/lintang-b-s/roadgraph/pkg/ev"
)

// EdgeIteratorState . value view of one edge in one direction (baseNode -> adjNode).
// it holds no storage itself, reads and writes go straight to the graph.
// Get* reads the value for the state's direction, GetReverse* for the opposite one.
type EdgeIteratorState struct {
	g        *BaseGraph
	edge     int32
	baseNode int32
	adjNode  int32
	reverse  bool
}

func (s EdgeIteratorState) Edge() int32 {
	return s.edge
}

func (s EdgeIteratorState) EdgeKey() int32 {
	return CreateEdgeKey(s.edge, s.reverse)
}

func (s EdgeIteratorState) ReverseEdgeKey() int32 {
	return CreateEdgeKey(s.edge, !s.reverse)
}

func (s EdgeIteratorState) BaseNode() int32 {
	return s.baseNode
}

func (s EdgeIteratorState) AdjNode() int32 {
	return s.adjNode
}

// IsReverse. true when the state points from nodeB to nodeA.
func (s EdgeIteratorState) IsReverse() bool {
	return s.reverse
}

// Detach. the same edge, optionally flipped.
func (s EdgeIteratorState) Detach(flip bool) EdgeIteratorState {
	if !flip {
		return s
	}
	return s.g.newState(s.edge, s.adjNode, s.baseNode, !s.reverse)
}

// Distance. length in meters.
func (s EdgeIteratorState) Distance() float64 {
	return float64(s.g.distanceMM(s.edge)) / DIST_FACTOR
}

// SetDistance. distance in meters, stored with millimeter precision. values above MAX_DIST are clamped.
func (s EdgeIteratorState) SetDistance(distance float64) error {
	if math.IsNaN(distance) || distance < 0 {
		return errs.NewErrorf(errs.ErrInvalidArgument, "edge %d: distance must be a non-negative number, got %v", s.edge, distance)
	}
	if distance > MAX_DIST {
		s.g.logger.Warn("edge distance clamped", "edge", s.edge, "distance", distance, "max", MAX_DIST)
		distance = MAX_DIST
	}
	s.g.setDistanceMM(s.edge, int32(math.Round(distance*DIST_FACTOR)))
	return nil
}

func (s EdgeIteratorState) GetBool(enc *ev.BooleanEncodedValue) bool {
	return enc.GetBool(s.reverse, s.edge, s.g)
}

func (s EdgeIteratorState) GetReverseBool(enc *ev.BooleanEncodedValue) bool {
	return enc.GetBool(!s.reverse, s.edge, s.g)
}

func (s EdgeIteratorState) SetBool(enc *ev.BooleanEncodedValue, value bool) EdgeIteratorState {
	enc.SetBool(s.reverse, s.edge, s.g, value)
	return s
}

func (s EdgeIteratorState) SetReverseBool(enc *ev.BooleanEncodedValue, value bool) EdgeIteratorState {
	enc.SetBool(!s.reverse, s.edge, s.g, value)
	return s
}

func (s EdgeIteratorState) GetInt(enc *ev.IntEncodedValue) int32 {
	return enc.GetInt(s.reverse, s.edge, s.g)
}

func (s EdgeIteratorState) GetReverseInt(enc *ev.IntEncodedValue) int32 {
	return enc.GetInt(!s.reverse, s.edge, s.g)
}

func (s EdgeIteratorState) SetInt(enc *ev.IntEncodedValue, value int32) error {
	return enc.SetInt(s.reverse, s.edge, s.g, value)
}

func (s EdgeIteratorState) SetReverseInt(enc *ev.IntEncodedValue, value int32) error {
	return enc.SetInt(!s.reverse, s.edge, s.g, value)
}

func (s EdgeIteratorState) GetDecimal(enc *ev.DecimalEncodedValue) float64 {
	return enc.GetDecimal(s.reverse, s.edge, s.g)
}

func (s EdgeIteratorState) GetReverseDecimal(enc *ev.DecimalEncodedValue) float64 {
	return enc.GetDecimal(!s.reverse, s.edge, s.g)
}

func (s EdgeIteratorState) SetDecimal(enc *ev.DecimalEncodedValue, value float64) error {
	return enc.SetDecimal(s.reverse, s.edge, s.g, value)
}

func (s EdgeIteratorState) SetReverseDecimal(enc *ev.DecimalEncodedValue, value float64) error {
	return enc.SetDecimal(!s.reverse, s.edge, s.g, value)
}

// SetDecimalBothDirections. forward and reverse value in one call.
func (s EdgeIteratorState) SetDecimalBothDirections(enc *ev.DecimalEncodedValue, fwd, bwd float64) error {
	if err := s.SetDecimal(enc, fwd); err != nil {
		return err
	}
	return s.SetReverseDecimal(enc, bwd)
}

func GetEnum[E ev.Enum](s EdgeIteratorState, enc *ev.EnumEncodedValue[E]) E {
	return enc.GetEnum(s.reverse, s.edge, s.g)
}

func SetEnum[E ev.Enum](s EdgeIteratorState, enc *ev.EnumEncodedValue[E], value E) error {
	return enc.SetEnum(s.reverse, s.edge, s.g, value)
}

func (s EdgeIteratorState) String() string {
	return fmt.Sprintf("%d %d-%d", s.edge, s.baseNode, s.adjNode)
}
