package ev

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lintang-b-s/roadgraph/pkg/errs"
)

var (
	ErrRegistryBuilt  = errors.New("encoding manager already built")
	ErrUnknownEncoded = errors.New("unknown encoded value")
)

type registration struct {
	ev     EncodedValue
	pinned bool
	offset int32
}

// Builder . mutable first phase of the registry. Build turns it into an immutable EncodingManager.
type Builder struct {
	registrations []registration
	intsPerEdge   int32
	built         bool
}

func NewBuilder() *Builder {
	return &Builder{registrations: make([]registration, 0)}
}

// SetIntsPerEdge. fix the per-edge flag capacity to n 32-bit words. 0 (default) sizes the flags to fit.
func (b *Builder) SetIntsPerEdge(n int32) *Builder {
	b.intsPerEdge = n
	return b
}

// Add. register ev, its place is chosen at Build (lowest free range that does not cross a word boundary).
func (b *Builder) Add(ev EncodedValue) error {
	return b.add(registration{ev: ev})
}

// AddAt. register ev pinned at a global bit offset.
func (b *Builder) AddAt(ev EncodedValue, bitOffset int32) error {
	if bitOffset < 0 {
		return errs.NewErrorf(errs.ErrInvalidArgument, "negative bit offset %d", bitOffset)
	}
	return b.add(registration{ev: ev, pinned: true, offset: bitOffset})
}

func (b *Builder) add(r registration) error {
	if b.built {
		return errs.WrapErrorf(ErrRegistryBuilt, errs.ErrIllegalState, "cannot add %s", nameOf(r.ev))
	}
	if r.ev == nil {
		return errs.NewErrorf(errs.ErrInvalidArgument, "encoded value must not be nil")
	}
	b.registrations = append(b.registrations, r)
	return nil
}

func nameOf(ev EncodedValue) string {
	if ev == nil {
		return "<nil>"
	}
	return ev.Name()
}

type bitRange struct {
	start, end int32
	name       string
}

func (r bitRange) overlaps(o bitRange) bool {
	return r.start < o.end && o.start < r.end
}

func crossesWord(start, width int32) bool {
	return start%wordBits+width > wordBits
}

// Build. place every registered value and return the immutable registry.
// nothing is bound when Build fails, so the same values can be registered again.
func (b *Builder) Build() (*EncodingManager, error) {
	if b.built {
		return nil, errs.WrapErrorf(ErrRegistryBuilt, errs.ErrIllegalState, "build")
	}

	names := make(map[string]struct{}, len(b.registrations))
	for _, r := range b.registrations {
		name := r.ev.Name()
		if name == "" {
			return nil, errs.NewErrorf(errs.ErrInvalidArgument, "encoded value without name")
		}
		if _, ok := names[name]; ok {
			return nil, errs.NewErrorf(errs.ErrInvalidArgument, "duplicate encoded value %q", name)
		}
		names[name] = struct{}{}
		if r.ev.Offset() >= 0 {
			return nil, errs.NewErrorf(errs.ErrInvalidArgument, "encoded value %q already belongs to another encoding manager", name)
		}
		if r.ev.Bits() > wordBits {
			return nil, errs.NewErrorf(errs.ErrInvalidArgument, "encoded value %q needs %d bits, more than one %d-bit word",
				name, r.ev.Bits(), wordBits)
		}
	}

	occupied := make([]bitRange, 0, len(b.registrations))
	offsets := make([]int32, len(b.registrations))

	// pinned values first, in offset order, so that auto placement works around them
	pinnedIdx := make([]int, 0)
	for i, r := range b.registrations {
		if r.pinned {
			pinnedIdx = append(pinnedIdx, i)
		}
	}
	sort.SliceStable(pinnedIdx, func(i, j int) bool {
		return b.registrations[pinnedIdx[i]].offset < b.registrations[pinnedIdx[j]].offset
	})
	for _, i := range pinnedIdx {
		r := b.registrations[i]
		rng := bitRange{start: r.offset, end: r.offset + r.ev.Bits(), name: r.ev.Name()}
		if crossesWord(rng.start, r.ev.Bits()) {
			return nil, errs.NewErrorf(errs.ErrInvalidArgument, "encoded value %q at bits [%d,%d) crosses a word boundary",
				rng.name, rng.start, rng.end)
		}
		for _, o := range occupied {
			if rng.overlaps(o) {
				return nil, errs.NewErrorf(errs.ErrInvalidArgument, "encoded value %q at bits [%d,%d) overlaps %q at bits [%d,%d)",
					rng.name, rng.start, rng.end, o.name, o.start, o.end)
			}
		}
		occupied = append(occupied, rng)
		offsets[i] = r.offset
	}

	for i, r := range b.registrations {
		if r.pinned {
			continue
		}
		width := r.ev.Bits()
		start := firstFit(occupied, width)
		occupied = append(occupied, bitRange{start: start, end: start + width, name: r.ev.Name()})
		offsets[i] = start
	}

	usedBits := int32(0)
	for _, o := range occupied {
		if o.end > usedBits {
			usedBits = o.end
		}
	}
	intsPerEdge := b.intsPerEdge
	if intsPerEdge > 0 {
		if usedBits > intsPerEdge*wordBits {
			return nil, errs.NewErrorf(errs.ErrInvalidArgument, "encoded values need %d bits but only %d ints per edge (%d bits) are configured",
				usedBits, intsPerEdge, intsPerEdge*wordBits)
		}
	} else {
		intsPerEdge = (usedBits + wordBits - 1) / wordBits
		if intsPerEdge == 0 {
			intsPerEdge = 1
		}
	}

	em := &EncodingManager{
		values:      make(map[string]EncodedValue, len(b.registrations)),
		order:       make([]EncodedValue, 0, len(b.registrations)),
		intsPerEdge: intsPerEdge,
	}
	for i, r := range b.registrations {
		r.ev.bind(offsets[i])
		em.values[r.ev.Name()] = r.ev
		em.order = append(em.order, r.ev)
	}
	b.built = true
	return em, nil
}

// firstFit. lowest start bit for width bits that overlaps nothing in occupied and stays inside one word.
func firstFit(occupied []bitRange, width int32) int32 {
	start := int32(0)
	for {
		if crossesWord(start, width) {
			start = (start/wordBits + 1) * wordBits
			continue
		}
		cand := bitRange{start: start, end: start + width}
		moved := false
		for _, o := range occupied {
			if cand.overlaps(o) {
				start = o.end
				moved = true
				break
			}
		}
		if !moved {
			return start
		}
	}
}

// EncodingManager . immutable registry of bound encoded values.
type EncodingManager struct {
	values      map[string]EncodedValue
	order       []EncodedValue
	intsPerEdge int32
}

func (em *EncodingManager) IntsPerEdge() int32 {
	return em.intsPerEdge
}

func (em *EncodingManager) Has(name string) bool {
	_, ok := em.values[name]
	return ok
}

func (em *EncodingManager) EncodedValue(name string) (EncodedValue, bool) {
	v, ok := em.values[name]
	return v, ok
}

// EncodedValues. registered values in registration order.
func (em *EncodingManager) EncodedValues() []EncodedValue {
	cp := make([]EncodedValue, len(em.order))
	copy(cp, em.order)
	return cp
}

func lookup[T EncodedValue](em *EncodingManager, name string) (T, error) {
	var zero T
	v, ok := em.values[name]
	if !ok {
		return zero, errs.WrapErrorf(ErrUnknownEncoded, errs.ErrInvalidArgument, "%q", name)
	}
	typed, ok := v.(T)
	if !ok {
		return zero, errs.NewErrorf(errs.ErrInvalidArgument, "encoded value %q is a %T, not a %T", name, v, zero)
	}
	return typed, nil
}

func (em *EncodingManager) BooleanEncodedValue(name string) (*BooleanEncodedValue, error) {
	return lookup[*BooleanEncodedValue](em, name)
}

func (em *EncodingManager) IntEncodedValue(name string) (*IntEncodedValue, error) {
	return lookup[*IntEncodedValue](em, name)
}

func (em *EncodingManager) DecimalEncodedValue(name string) (*DecimalEncodedValue, error) {
	return lookup[*DecimalEncodedValue](em, name)
}

func GetEnumEncodedValue[E Enum](em *EncodingManager, name string) (*EnumEncodedValue[E], error) {
	return lookup[*EnumEncodedValue[E]](em, name)
}

type FieldLayout struct {
	Name   string
	Offset int32
	Bits   int32
}

func (f FieldLayout) String() string {
	return fmt.Sprintf("%s[%d:%d]", f.Name, f.Offset, f.Offset+f.Bits)
}

// Layout. bit placement of every value, sorted by offset.
func (em *EncodingManager) Layout() []FieldLayout {
	layout := make([]FieldLayout, 0, len(em.order))
	for _, v := range em.order {
		layout = append(layout, FieldLayout{Name: v.Name(), Offset: v.Offset(), Bits: v.Bits()})
	}
	sort.Slice(layout, func(i, j int) bool {
		return layout[i].Offset < layout[j].Offset
	})
	return layout
}

func (em *EncodingManager) Offset(name string) (int32, bool) {
	v, ok := em.values[name]
	if !ok {
		return -1, false
	}
	return v.Offset(), true
}
