package storage

import (
	"errors"
	"log/slog"
	"math/bits"

	"github.com/dustin/go-humanize"
	"github.com/lintang-b-s/roadgraph/pkg/errs"
)

var ErrDataAccessClosed = errors.New("data access closed")

// DataAccess. growable byte storage addressed by absolute byte position.
// reads and writes must stay inside Capacity(); callers grow first via EnsureCapacity.
type DataAccess interface {
	Name() string
	Create(bytes int64) error
	EnsureCapacity(bytes int64) (bool, error)
	Capacity() int64
	Segments() int
	SegmentSize() int

	GetInt(pos int64) int32
	SetInt(pos int64, val int32)
	GetLong(pos int64) int64
	SetLong(pos int64, val int64)
	GetDouble(pos int64) float64
	SetDouble(pos int64, val float64)

	Close() error
	IsClosed() bool
}

// RAMDataAccess . DataAccess backed by a list of equally sized in-memory pages.
// a value never straddles two pages as long as callers keep every value aligned to its own size.
type RAMDataAccess struct {
	name         string
	segmentSize  int
	segmentShift uint
	indexMask    int64
	pages        []*Page
	closed       bool
	logger       *slog.Logger
}

func NewRAMDataAccess(name string, segmentSize int, logger *slog.Logger) *RAMDataAccess {
	if segmentSize < MIN_SEGMENT_SIZE {
		segmentSize = MIN_SEGMENT_SIZE
	}
	// round up to the next power of two
	shift := uint(bits.Len(uint(segmentSize - 1)))
	segmentSize = 1 << shift

	if logger == nil {
		logger = slog.Default()
	}
	return &RAMDataAccess{
		name:         name,
		segmentSize:  segmentSize,
		segmentShift: shift,
		indexMask:    int64(segmentSize - 1),
		pages:        make([]*Page, 0),
		logger:       logger,
	}
}

func (da *RAMDataAccess) Name() string {
	return da.name
}

// Create. allocate the initial segments. must be called once before any access.
func (da *RAMDataAccess) Create(bytes int64) error {
	if da.closed {
		return errs.WrapErrorf(ErrDataAccessClosed, errs.ErrIllegalState, "create %s", da.name)
	}
	if len(da.pages) > 0 {
		return errs.NewErrorf(errs.ErrIllegalState, "%s already created", da.name)
	}
	if bytes < int64(da.segmentSize) {
		bytes = int64(da.segmentSize)
	}
	_, err := da.EnsureCapacity(bytes)
	return err
}

// EnsureCapacity. grow to at least `bytes`. returns true if new segments were allocated.
func (da *RAMDataAccess) EnsureCapacity(bytes int64) (bool, error) {
	if da.closed {
		return false, errs.WrapErrorf(ErrDataAccessClosed, errs.ErrIllegalState, "ensure capacity of %s", da.name)
	}
	if bytes < 0 {
		return false, errs.NewErrorf(errs.ErrInvalidArgument, "negative capacity %d for %s", bytes, da.name)
	}
	if bytes <= da.Capacity() {
		return false, nil
	}

	segmentsNeeded := int((bytes + int64(da.segmentSize) - 1) >> da.segmentShift)
	for len(da.pages) < segmentsNeeded {
		da.pages = append(da.pages, NewPage(da.segmentSize))
	}

	da.logger.Debug("data access grown",
		"name", da.name,
		"segments", len(da.pages),
		"capacity", humanize.IBytes(uint64(da.Capacity())))
	return true, nil
}

func (da *RAMDataAccess) Capacity() int64 {
	return int64(len(da.pages)) * int64(da.segmentSize)
}

func (da *RAMDataAccess) Segments() int {
	return len(da.pages)
}

func (da *RAMDataAccess) SegmentSize() int {
	return da.segmentSize
}

func (da *RAMDataAccess) GetInt(pos int64) int32 {
	return da.pages[pos>>da.segmentShift].GetInt(pos & da.indexMask)
}

func (da *RAMDataAccess) SetInt(pos int64, val int32) {
	da.pages[pos>>da.segmentShift].PutInt(pos&da.indexMask, val)
}

func (da *RAMDataAccess) GetLong(pos int64) int64 {
	return da.pages[pos>>da.segmentShift].GetLong(pos & da.indexMask)
}

func (da *RAMDataAccess) SetLong(pos int64, val int64) {
	da.pages[pos>>da.segmentShift].PutLong(pos&da.indexMask, val)
}

func (da *RAMDataAccess) GetDouble(pos int64) float64 {
	return da.pages[pos>>da.segmentShift].GetDouble(pos & da.indexMask)
}

func (da *RAMDataAccess) SetDouble(pos int64, val float64) {
	da.pages[pos>>da.segmentShift].PutDouble(pos&da.indexMask, val)
}

// Close. drop every segment. calling Close twice is a no-op.
func (da *RAMDataAccess) Close() error {
	if da.closed {
		return nil
	}
	freed := da.Capacity()
	da.pages = nil
	da.closed = true
	da.logger.Debug("data access released", "name", da.name, "freed", humanize.IBytes(uint64(freed)))
	return nil
}

func (da *RAMDataAccess) IsClosed() bool {
	return da.closed
}
