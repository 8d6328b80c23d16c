package ev

import (
	"math"

	"github.com/lintang-b-s/roadgraph/pkg/errs"
	"github.com/lintang-b-s/roadgraph/pkg/util"
)

// DecimalEncodedValue . a float quantized to multiples of factor.
// with WithInfinity the largest raw value is reserved for +Inf.
type DecimalEncodedValue struct {
	intEnc
	factor               float64
	useMaximumAsInfinity bool
}

type DecimalOption func(*DecimalEncodedValue)

// WithInfinity. store +Inf as the maximum raw value.
func WithInfinity() DecimalOption {
	return func(d *DecimalEncodedValue) {
		d.useMaximumAsInfinity = true
	}
}

// NewDecimal. unsigned decimal with the given bits, storing values in [0, (2^bits-1)*factor].
func NewDecimal(name string, bits int32, factor float64, twoDirections bool, opts ...DecimalOption) *DecimalEncodedValue {
	util.AssertPanic(factor > 0, "factor must be positive")
	d := &DecimalEncodedValue{intEnc: newIntEnc(name, bits, 0, twoDirections), factor: factor}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewDecimalWithRange. decimal able to store every multiple of factor in [minValue, maxValue].
// the bit width is derived from the range; a negative minValue makes the value signed.
func NewDecimalWithRange(name string, factor, minValue, maxValue float64, twoDirections bool, opts ...DecimalOption) *DecimalEncodedValue {
	util.AssertPanic(factor > 0, "factor must be positive")
	util.AssertPanic(maxValue > minValue, "maxValue must be greater than minValue")

	d := &DecimalEncodedValue{factor: factor}
	for _, opt := range opts {
		opt(d)
	}

	minStorable := int32(math.Floor(minValue / factor))
	maxRaw := uint64(int64(math.Ceil(maxValue/factor)) - int64(minStorable))
	if d.useMaximumAsInfinity {
		maxRaw++
	}
	d.intEnc = newIntEnc(name, util.BitsFor(maxRaw), minStorable, twoDirections)
	return d
}

func (d *DecimalEncodedValue) Factor() float64 {
	return d.factor
}

func (d *DecimalEncodedValue) UseMaximumAsInfinity() bool {
	return d.useMaximumAsInfinity
}

// MaxStorableDecimal. largest finite value that can be stored.
func (d *DecimalEncodedValue) MaxStorableDecimal() float64 {
	if d.useMaximumAsInfinity {
		return float64(d.maxStorable-1) * d.factor
	}
	return float64(d.maxStorable) * d.factor
}

func (d *DecimalEncodedValue) MinStorableDecimal() float64 {
	return float64(d.minStorable) * d.factor
}

func (d *DecimalEncodedValue) GetDecimal(reverse bool, edgeID int32, access EdgeIntAccess) float64 {
	v := d.getInt(reverse, edgeID, access)
	if d.useMaximumAsInfinity && v == d.maxStorable {
		return math.Inf(1)
	}
	return float64(v) * d.factor
}

func (d *DecimalEncodedValue) SetDecimal(reverse bool, edgeID int32, access EdgeIntAccess, value float64) error {
	if math.IsNaN(value) {
		return errs.NewErrorf(errs.ErrInvalidArgument, "%s: NaN cannot be stored", d.name)
	}
	if math.IsInf(value, 1) {
		if !d.useMaximumAsInfinity {
			return errs.NewErrorf(errs.ErrInvalidArgument, "%s: +Inf cannot be stored, use WithInfinity", d.name)
		}
		return d.setInt(reverse, edgeID, access, d.maxStorable)
	}

	scaled := math.Round(value / d.factor)
	if scaled < float64(d.minStorable) || value > d.MaxStorableDecimal() {
		return errs.NewErrorf(errs.ErrInvalidArgument, "%s value %v outside storable range [%v, %v]",
			d.name, value, d.MinStorableDecimal(), d.MaxStorableDecimal())
	}
	if d.useMaximumAsInfinity && int32(scaled) >= d.maxStorable {
		scaled = float64(d.maxStorable - 1)
	}
	return d.setInt(reverse, edgeID, access, int32(scaled))
}
