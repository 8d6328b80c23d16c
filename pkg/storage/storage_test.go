package storage

import (
	"math"
	"testing"

	"github.com/lintang-b-s/roadgraph/pkg/errs"
	"github.com/lintang-b-s/roadgraph/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPage(t *testing.T) {
	page := NewPage(32)
	page.PutInt(0, 1)
	page.PutInt(4, -2)
	page.PutLong(8, math.MaxInt64)
	page.PutDouble(16, -122.18003)

	assert.Equal(t, int32(1), page.GetInt(0))
	assert.Equal(t, int32(-2), page.GetInt(4))
	assert.Equal(t, int64(math.MaxInt64), page.GetLong(8))
	assert.Equal(t, -122.18003, page.GetDouble(16))
	assert.Equal(t, 32, page.Len())
	assert.Len(t, page.Contents(), 32)
}

func TestRAMDataAccessGrowAcrossSegments(t *testing.T) {
	da := NewRAMDataAccess("edges", 200, logging.Discard())
	// rounded up to a power of two
	assert.Equal(t, 256, da.SegmentSize())

	require.NoError(t, da.Create(10))
	assert.Equal(t, 1, da.Segments())
	assert.Equal(t, int64(256), da.Capacity())

	grown, err := da.EnsureCapacity(1000)
	require.NoError(t, err)
	assert.True(t, grown)
	assert.Equal(t, 4, da.Segments())

	grown, err = da.EnsureCapacity(1000)
	require.NoError(t, err)
	assert.False(t, grown)

	for i := int64(0); i < 1024; i += 4 {
		da.SetInt(i, int32(i))
	}
	for i := int64(0); i < 1024; i += 4 {
		assert.Equal(t, int32(i), da.GetInt(i))
	}

	da.SetDouble(512, 47.5)
	assert.Equal(t, 47.5, da.GetDouble(512))
}

func TestRAMDataAccessLifecycle(t *testing.T) {
	da := NewRAMDataAccess("nodes", 128, logging.Discard())
	require.NoError(t, da.Create(0))

	err := da.Create(0)
	assert.True(t, errs.Is(err, errs.ErrIllegalState))

	require.NoError(t, da.Close())
	require.NoError(t, da.Close())
	assert.True(t, da.IsClosed())
	assert.Equal(t, int64(0), da.Capacity())

	_, err = da.EnsureCapacity(10)
	assert.ErrorIs(t, err, ErrDataAccessClosed)
}

func TestRAMDirectory(t *testing.T) {
	dir := NewRAMDirectory(logging.Discard())
	nodes, err := dir.Create(NODES_FILE_NAME, 128)
	require.NoError(t, err)
	edges, err := dir.Create(EDGES_FILE_NAME, 128)
	require.NoError(t, err)
	require.NoError(t, nodes.Create(100))
	require.NoError(t, edges.Create(300))

	_, err = dir.Create(NODES_FILE_NAME, 128)
	assert.True(t, errs.Is(err, errs.ErrInvalidArgument))

	found, ok := dir.Find(EDGES_FILE_NAME)
	assert.True(t, ok)
	assert.Same(t, edges, found)
	assert.Equal(t, []string{EDGES_FILE_NAME, NODES_FILE_NAME}, dir.Names())
	assert.Equal(t, int64(128+384), dir.Capacity())

	require.NoError(t, dir.Close())
	assert.True(t, nodes.IsClosed())
	assert.True(t, edges.IsClosed())

	_, err = dir.Create("other", 128)
	assert.Error(t, err)
}
