package ev

import (
	"github.com/lintang-b-s/roadgraph/pkg/errs"
	"github.com/lintang-b-s/roadgraph/pkg/util"
)

const wordBits = 32

// EncodedValue. a named, typed range of bits inside the per-edge flags.
// the concrete variants are BooleanEncodedValue, IntEncodedValue, DecimalEncodedValue and EnumEncodedValue.
// a value is unbound (Offset() == -1) until an EncodingManager is built with it.
type EncodedValue interface {
	Name() string
	// Bits. total width, both direction slots included.
	Bits() int32
	IsStoreTwoDirections() bool
	Offset() int32

	bind(offset int32)
}

/*
intEnc. shared core of every variant.

an unsigned raw value r of `bits` bits is stored per direction, the logical value is r + minStorable.
two direction values keep the forward slot at offset and the reverse slot right after it:

	word i:  ... | reverse (bits) | forward (bits) | ...
	                               ^ fwdShift
*/
type intEnc struct {
	name          string
	bits          int32
	minStorable   int32
	maxStorable   int32
	twoDirections bool

	offset       int32
	fwdDataIndex int32
	fwdShift     int32
	bwdDataIndex int32
	bwdShift     int32
}

func newIntEnc(name string, bits int32, minStorable int32, twoDirections bool) intEnc {
	util.AssertPanic(bits > 0 && bits <= wordBits, "bits must be in [1,32]")
	maxRaw := int64(util.BitMask(bits))
	maxStorable := int64(minStorable) + maxRaw
	if maxStorable > int64(^uint32(0)>>1) {
		maxStorable = int64(^uint32(0) >> 1)
	}
	return intEnc{
		name:          name,
		bits:          bits,
		minStorable:   minStorable,
		maxStorable:   int32(maxStorable),
		twoDirections: twoDirections,
		offset:        -1,
	}
}

func (e *intEnc) Name() string {
	return e.name
}

func (e *intEnc) Bits() int32 {
	if e.twoDirections {
		return 2 * e.bits
	}
	return e.bits
}

func (e *intEnc) IsStoreTwoDirections() bool {
	return e.twoDirections
}

func (e *intEnc) Offset() int32 {
	return e.offset
}

func (e *intEnc) bind(offset int32) {
	e.offset = offset
	e.fwdDataIndex = offset / wordBits
	e.fwdShift = offset % wordBits
	if e.twoDirections {
		bwd := offset + e.bits
		e.bwdDataIndex = bwd / wordBits
		e.bwdShift = bwd % wordBits
	} else {
		e.bwdDataIndex = e.fwdDataIndex
		e.bwdShift = e.fwdShift
	}
}

func (e *intEnc) slot(reverse bool) (int32, int32) {
	util.AssertPanic(e.offset >= 0, "encoded value "+e.name+" is not bound to an EncodingManager")
	if reverse && e.twoDirections {
		return e.bwdDataIndex, e.bwdShift
	}
	return e.fwdDataIndex, e.fwdShift
}

func (e *intEnc) getRaw(reverse bool, edgeID int32, access EdgeIntAccess) uint32 {
	index, shift := e.slot(reverse)
	return util.UnpackBits(access.GetInt(edgeID, index), shift, e.bits)
}

func (e *intEnc) setRaw(reverse bool, edgeID int32, access EdgeIntAccess, raw uint32) {
	index, shift := e.slot(reverse)
	word := access.GetInt(edgeID, index)
	access.SetInt(edgeID, index, util.PackBits(word, raw, shift, e.bits))
}

func (e *intEnc) getInt(reverse bool, edgeID int32, access EdgeIntAccess) int32 {
	return int32(int64(e.getRaw(reverse, edgeID, access)) + int64(e.minStorable))
}

func (e *intEnc) setInt(reverse bool, edgeID int32, access EdgeIntAccess, value int32) error {
	if value < e.minStorable || value > e.maxStorable {
		return errs.NewErrorf(errs.ErrInvalidArgument, "%s value %d outside storable range [%d, %d]",
			e.name, value, e.minStorable, e.maxStorable)
	}
	e.setRaw(reverse, edgeID, access, uint32(int64(value)-int64(e.minStorable)))
	return nil
}

// IntEncodedValue . integer in [MinStorableInt, MaxStorableInt].
type IntEncodedValue struct {
	intEnc
}

func NewInt(name string, bits int32, twoDirections bool) *IntEncodedValue {
	return &IntEncodedValue{newIntEnc(name, bits, 0, twoDirections)}
}

// NewSignedInt. integer whose smallest storable value is minValue (may be negative).
func NewSignedInt(name string, bits int32, minValue int32, twoDirections bool) *IntEncodedValue {
	return &IntEncodedValue{newIntEnc(name, bits, minValue, twoDirections)}
}

func (e *IntEncodedValue) GetInt(reverse bool, edgeID int32, access EdgeIntAccess) int32 {
	return e.getInt(reverse, edgeID, access)
}

func (e *IntEncodedValue) SetInt(reverse bool, edgeID int32, access EdgeIntAccess, value int32) error {
	return e.setInt(reverse, edgeID, access, value)
}

func (e *IntEncodedValue) MinStorableInt() int32 {
	return e.minStorable
}

func (e *IntEncodedValue) MaxStorableInt() int32 {
	return e.maxStorable
}

// BooleanEncodedValue . one bit per direction.
type BooleanEncodedValue struct {
	intEnc
}

func NewBoolean(name string, twoDirections bool) *BooleanEncodedValue {
	return &BooleanEncodedValue{newIntEnc(name, 1, 0, twoDirections)}
}

func (e *BooleanEncodedValue) GetBool(reverse bool, edgeID int32, access EdgeIntAccess) bool {
	return e.getRaw(reverse, edgeID, access) == 1
}

func (e *BooleanEncodedValue) SetBool(reverse bool, edgeID int32, access EdgeIntAccess, value bool) {
	raw := uint32(0)
	if value {
		raw = 1
	}
	e.setRaw(reverse, edgeID, access, raw)
}
