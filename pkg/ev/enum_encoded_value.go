package ev

import (
	"fmt"

	"github.com/lintang-b-s/roadgraph/pkg/errs"
	"github.com/lintang-b-s/roadgraph/pkg/util"
)

type Enum interface {
	~int
	fmt.Stringer
}

// EnumEncodedValue . one of a fixed list of values, stored as its index in that list.
// index 0 is what an untouched edge reads, so the first value should be the default.
type EnumEncodedValue[E Enum] struct {
	intEnc
	values []E
}

func NewEnum[E Enum](name string, values []E, twoDirections bool) *EnumEncodedValue[E] {
	util.AssertPanic(len(values) > 0, "enum needs at least one value")
	cp := make([]E, len(values))
	copy(cp, values)
	return &EnumEncodedValue[E]{
		intEnc: newIntEnc(name, util.BitsFor(uint64(len(values)-1)), 0, twoDirections),
		values: cp,
	}
}

func (e *EnumEncodedValue[E]) Values() []E {
	return e.values
}

func (e *EnumEncodedValue[E]) GetEnum(reverse bool, edgeID int32, access EdgeIntAccess) E {
	raw := e.getRaw(reverse, edgeID, access)
	if int(raw) >= len(e.values) {
		return e.values[0]
	}
	return e.values[raw]
}

func (e *EnumEncodedValue[E]) SetEnum(reverse bool, edgeID int32, access EdgeIntAccess, value E) error {
	for i, v := range e.values {
		if v == value {
			e.setRaw(reverse, edgeID, access, uint32(i))
			return nil
		}
	}
	return errs.NewErrorf(errs.ErrInvalidArgument, "%s: unknown value %s", e.name, value)
}
