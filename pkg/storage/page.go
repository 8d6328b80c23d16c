package storage

import (
	"encoding/binary"
	"math"
)

// Page . one fixed size segment of a DataAccess. values are little endian.
type Page struct {
	bb []byte
}

func NewPage(blockSize int) *Page {
	return &Page{bb: make([]byte, blockSize)}
}

func (p *Page) GetInt(offset int64) int32 {
	return int32(binary.LittleEndian.Uint32(p.bb[offset:]))
}

// PutInt. set int ke byte array page di posisi = offset.
func (p *Page) PutInt(offset int64, val int32) {
	binary.LittleEndian.PutUint32(p.bb[offset:], uint32(val))
}

func (p *Page) GetLong(offset int64) int64 {
	return int64(binary.LittleEndian.Uint64(p.bb[offset:]))
}

func (p *Page) PutLong(offset int64, val int64) {
	binary.LittleEndian.PutUint64(p.bb[offset:], uint64(val))
}

func (p *Page) GetDouble(offset int64) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(p.bb[offset:]))
}

func (p *Page) PutDouble(offset int64, val float64) {
	binary.LittleEndian.PutUint64(p.bb[offset:], math.Float64bits(val))
}

func (p *Page) Len() int {
	return len(p.bb)
}

func (p *Page) Contents() []byte {
	return p.bb
}
