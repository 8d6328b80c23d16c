package storage

import (
	"errors"
	"log/slog"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/lintang-b-s/roadgraph/pkg/errs"
)

// Directory. owner of every DataAccess of one graph. closing the directory releases all of them.
type Directory interface {
	Create(name string, segmentSize int) (DataAccess, error)
	Find(name string) (DataAccess, bool)
	Names() []string
	Close() error
}

type RAMDirectory struct {
	dataAccess map[string]DataAccess
	logger     *slog.Logger
	closed     bool
}

func NewRAMDirectory(logger *slog.Logger) *RAMDirectory {
	if logger == nil {
		logger = slog.Default()
	}
	return &RAMDirectory{
		dataAccess: make(map[string]DataAccess),
		logger:     logger,
	}
}

func (d *RAMDirectory) Create(name string, segmentSize int) (DataAccess, error) {
	if d.closed {
		return nil, errs.NewErrorf(errs.ErrIllegalState, "directory closed")
	}
	if _, ok := d.dataAccess[name]; ok {
		return nil, errs.NewErrorf(errs.ErrInvalidArgument, "data access %q already exists", name)
	}
	da := NewRAMDataAccess(name, segmentSize, d.logger)
	d.dataAccess[name] = da
	return da, nil
}

func (d *RAMDirectory) Find(name string) (DataAccess, bool) {
	da, ok := d.dataAccess[name]
	return da, ok
}

func (d *RAMDirectory) Names() []string {
	names := make([]string, 0, len(d.dataAccess))
	for name := range d.dataAccess {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Capacity. sum of the capacities of all open DataAccess.
func (d *RAMDirectory) Capacity() int64 {
	total := int64(0)
	for _, da := range d.dataAccess {
		total += da.Capacity()
	}
	return total
}

func (d *RAMDirectory) Close() error {
	if d.closed {
		return nil
	}
	total := d.Capacity()
	var err error
	for _, name := range d.Names() {
		err = errors.Join(err, d.dataAccess[name].Close())
	}
	d.closed = true
	d.logger.Debug("directory closed", "released", humanize.IBytes(uint64(total)))
	return err
}
