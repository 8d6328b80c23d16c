package graph

import (
	"errors"
	"iter"
	"log/slog"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/lintang-b-s/roadgraph/pkg/errs"
	"github.com/lintang-b-s/roadgraph/pkg/ev"
	"github.com/lintang-b-s/roadgraph/pkg/storage"
)

var (
	ErrGraphClosed     = errors.New("graph closed")
	ErrGraphNotCreated = errors.New("graph not created")
)

/*
node record (nodes DataAccess):

	| firstEdge | lastEdge | lat     | lon     | ele (3D only) |
	  4 byte      4 byte     8 byte    8 byte    8 byte

edge record (edges DataAccess):

	| nodeA | nodeB | linkA | linkB | distance (mm) | flags[0] ... flags[intsPerEdge-1] |
	  4 byte  4 byte  4 byte  4 byte  4 byte          4 byte each

linkA/linkB point to the next edge in the adjacency list of nodeA/nodeB. new edges are appended at the
tail (lastEdge), so iterating a node's list follows insertion order.
*/
const (
	N_EDGE_REF  = 0
	N_LAST_EDGE = 4
	N_LAT       = 8
	N_LON       = 16
	N_ELE       = 24

	E_NODEA = 0
	E_NODEB = 4
	E_LINKA = 8
	E_LINKB = 12
	E_DIST  = 16
	E_FLAGS = 20

	// distances are stored as int32 millimeters
	DIST_FACTOR = 1000.0
	MAX_DIST    = float64(math.MaxInt32) / DIST_FACTOR
)

type Builder struct {
	em            *ev.EncodingManager
	dir           storage.Directory
	withElevation bool
	segmentSize   int
	logger        *slog.Logger
}

func NewBuilder(em *ev.EncodingManager) *Builder {
	return &Builder{em: em, segmentSize: storage.DEFAULT_SEGMENT_SIZE}
}

func (b *Builder) SetDir(dir storage.Directory) *Builder {
	b.dir = dir
	return b
}

func (b *Builder) WithElevation(withElevation bool) *Builder {
	b.withElevation = withElevation
	return b
}

func (b *Builder) SetSegmentSize(segmentSize int) *Builder {
	b.segmentSize = segmentSize
	return b
}

func (b *Builder) SetLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build. the returned graph still needs Create before use.
func (b *Builder) Build() *BaseGraph {
	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}
	dir := b.dir
	if dir == nil {
		dir = storage.NewRAMDirectory(logger)
	}

	nodeEntryBytes := int64(N_ELE)
	if b.withElevation {
		nodeEntryBytes += 8
	}
	g := &BaseGraph{
		em:             b.em,
		intsPerEdge:    b.em.IntsPerEdge(),
		dir:            dir,
		segmentSize:    b.segmentSize,
		withElevation:  b.withElevation,
		nodeEntryBytes: nodeEntryBytes,
		edgeEntryBytes: int64(E_FLAGS) + 4*int64(b.em.IntsPerEdge()),
		logger:         logger,
	}
	g.nodeAccess = &NodeAccess{g: g}
	return g
}

// CreateGraph. Build followed by Create with a small capacity hint.
func (b *Builder) CreateGraph() (*BaseGraph, error) {
	g := b.Build()
	if err := g.Create(100); err != nil {
		return nil, err
	}
	return g, nil
}

// BaseGraph . node and edge arena on top of paged storage.
// not synchronized: concurrent reads are fine, any write must be exclusive.
type BaseGraph struct {
	em          *ev.EncodingManager
	intsPerEdge int32

	dir            storage.Directory
	nodes          storage.DataAccess
	edges          storage.DataAccess
	segmentSize    int
	nodeEntryBytes int64
	edgeEntryBytes int64
	withElevation  bool

	nodeCount int32
	edgeCount int32
	// nodes whose latitude or longitude is NaN
	missingCoords int32

	created bool
	closed  bool

	nodeAccess *NodeAccess
	logger     *slog.Logger
}

// Create. allocate storage for about capacityHint nodes and edges. storage grows on demand afterwards.
func (g *BaseGraph) Create(capacityHint int) error {
	if g.closed {
		return errs.WrapErrorf(ErrGraphClosed, errs.ErrIllegalState, "create")
	}
	if g.created {
		return errs.NewErrorf(errs.ErrIllegalState, "graph already created")
	}
	if capacityHint < 0 {
		return errs.NewErrorf(errs.ErrInvalidArgument, "negative capacity hint %d", capacityHint)
	}

	nodes, err := g.dir.Create(storage.NODES_FILE_NAME, g.segmentSize)
	if err != nil {
		return err
	}
	edges, err := g.dir.Create(storage.EDGES_FILE_NAME, g.segmentSize)
	if err != nil {
		return err
	}
	if err := nodes.Create(int64(capacityHint) * g.nodeEntryBytes); err != nil {
		return err
	}
	if err := edges.Create(int64(capacityHint) * g.edgeEntryBytes); err != nil {
		return err
	}
	g.nodes, g.edges = nodes, edges
	g.created = true

	g.logger.Debug("graph created",
		"ints_per_edge", g.intsPerEdge,
		"elevation", g.withElevation,
		"capacity", humanize.IBytes(uint64(nodes.Capacity()+edges.Capacity())))
	return nil
}

// Close. release all storage. safe to call more than once, typically deferred right after Create.
func (g *BaseGraph) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	g.logger.Debug("graph closed", "nodes", g.nodeCount, "edges", g.edgeCount)
	return g.dir.Close()
}

func (g *BaseGraph) IsClosed() bool {
	return g.closed
}

func (g *BaseGraph) checkUsable(op string) error {
	if g.closed {
		return errs.WrapErrorf(ErrGraphClosed, errs.ErrIllegalState, "%s", op)
	}
	if !g.created {
		return errs.WrapErrorf(ErrGraphNotCreated, errs.ErrIllegalState, "%s", op)
	}
	return nil
}

// Nodes. node count, i.e. one more than the highest node id seen.
func (g *BaseGraph) Nodes() int32 {
	return g.nodeCount
}

func (g *BaseGraph) Edges() int32 {
	return g.edgeCount
}

func (g *BaseGraph) EncodingManager() *ev.EncodingManager {
	return g.em
}

func (g *BaseGraph) NodeAccess() *NodeAccess {
	return g.nodeAccess
}

func (g *BaseGraph) Is3D() bool {
	return g.withElevation
}

func (g *BaseGraph) nodePointer(node int32) int64 {
	return int64(node) * g.nodeEntryBytes
}

func (g *BaseGraph) edgePointer(edge int32) int64 {
	return int64(edge) * g.edgeEntryBytes
}

// ensureNode. grow the node range to include node. new nodes have no edges and NaN coordinates.
func (g *BaseGraph) ensureNode(node int32) error {
	if node < 0 {
		return errs.NewErrorf(errs.ErrOutOfRange, "negative node id %d", node)
	}
	if node < g.nodeCount {
		return nil
	}
	if _, err := g.nodes.EnsureCapacity(g.nodePointer(node + 1)); err != nil {
		return err
	}
	for n := g.nodeCount; n <= node; n++ {
		p := g.nodePointer(n)
		g.nodes.SetInt(p+N_EDGE_REF, NO_EDGE)
		g.nodes.SetInt(p+N_LAST_EDGE, NO_EDGE)
		g.nodes.SetDouble(p+N_LAT, math.NaN())
		g.nodes.SetDouble(p+N_LON, math.NaN())
		if g.withElevation {
			g.nodes.SetDouble(p+N_ELE, math.NaN())
		}
	}
	g.missingCoords += node + 1 - g.nodeCount
	g.nodeCount = node + 1
	return nil
}

func (g *BaseGraph) isValidNode(node int32) bool {
	return node >= 0 && node < g.nodeCount
}

// checkNode. node must be allocated in an open graph.
func (g *BaseGraph) checkNode(node int32) error {
	if err := g.checkUsable("read node"); err != nil {
		return err
	}
	if !g.isValidNode(node) {
		return errs.NewErrorf(errs.ErrOutOfRange, "node %d out of range [0, %d)", node, g.nodeCount)
	}
	return nil
}

// Edge. create an edge between a and b with the given distance in meters and append it to the adjacency
// lists of both nodes. nodes that do not exist yet are allocated. the returned state points from a to b.
func (g *BaseGraph) Edge(a, b int32, distance float64) (EdgeIteratorState, error) {
	if err := g.checkUsable("create edge"); err != nil {
		return EdgeIteratorState{}, err
	}
	if a < 0 || b < 0 {
		return EdgeIteratorState{}, errs.NewErrorf(errs.ErrOutOfRange, "invalid edge nodes %d-%d", a, b)
	}
	if math.IsNaN(distance) || distance < 0 {
		return EdgeIteratorState{}, errs.NewErrorf(errs.ErrInvalidArgument, "edge %d-%d: distance must be a non-negative number, got %v", a, b, distance)
	}
	if g.edgeCount == math.MaxInt32/2 {
		return EdgeIteratorState{}, errs.NewErrorf(errs.ErrOutOfRange, "too many edges")
	}
	if err := g.ensureNode(max(a, b)); err != nil {
		return EdgeIteratorState{}, err
	}

	edge := g.edgeCount
	if _, err := g.edges.EnsureCapacity(g.edgePointer(edge + 1)); err != nil {
		return EdgeIteratorState{}, err
	}
	g.edgeCount++

	p := g.edgePointer(edge)
	g.edges.SetInt(p+E_NODEA, a)
	g.edges.SetInt(p+E_NODEB, b)
	g.edges.SetInt(p+E_LINKA, NO_EDGE)
	g.edges.SetInt(p+E_LINKB, NO_EDGE)
	g.edges.SetInt(p+E_DIST, 0)
	for i := int32(0); i < g.intsPerEdge; i++ {
		g.edges.SetInt(p+E_FLAGS+int64(4*i), 0)
	}

	g.connect(edge, a)
	if a != b {
		// loops are listed once
		g.connect(edge, b)
	}

	state := g.newState(edge, a, b, false)
	return state, state.SetDistance(distance)
}

// connect. append edge at the tail of node's adjacency list.
func (g *BaseGraph) connect(edge, node int32) {
	np := g.nodePointer(node)
	last := g.nodes.GetInt(np + N_LAST_EDGE)
	if last == NO_EDGE {
		g.nodes.SetInt(np+N_EDGE_REF, edge)
	} else {
		g.edges.SetInt(g.linkPos(last, node), edge)
	}
	g.nodes.SetInt(np+N_LAST_EDGE, edge)
}

// linkPos. position of the "next edge" pointer of edge inside node's list.
func (g *BaseGraph) linkPos(edge, node int32) int64 {
	p := g.edgePointer(edge)
	if g.edges.GetInt(p+E_NODEA) == node {
		return p + E_LINKA
	}
	return p + E_LINKB
}

func (g *BaseGraph) nodeA(edge int32) int32 {
	return g.edges.GetInt(g.edgePointer(edge) + E_NODEA)
}

func (g *BaseGraph) nodeB(edge int32) int32 {
	return g.edges.GetInt(g.edgePointer(edge) + E_NODEB)
}

func (g *BaseGraph) firstEdge(node int32) int32 {
	return g.nodes.GetInt(g.nodePointer(node) + N_EDGE_REF)
}

func (g *BaseGraph) nextEdge(edge, node int32) int32 {
	return g.edges.GetInt(g.linkPos(edge, node))
}

func (g *BaseGraph) distanceMM(edge int32) int32 {
	return g.edges.GetInt(g.edgePointer(edge) + E_DIST)
}

func (g *BaseGraph) setDistanceMM(edge int32, mm int32) {
	g.edges.SetInt(g.edgePointer(edge)+E_DIST, mm)
}

// GetInt. flag word `index` of edge, makes BaseGraph an ev.EdgeIntAccess.
func (g *BaseGraph) GetInt(edgeID int32, index int32) int32 {
	return g.edges.GetInt(g.edgePointer(edgeID) + E_FLAGS + int64(4*index))
}

func (g *BaseGraph) SetInt(edgeID int32, index int32, value int32) {
	g.edges.SetInt(g.edgePointer(edgeID)+E_FLAGS+int64(4*index), value)
}

func (g *BaseGraph) newState(edge, base, adj int32, reverse bool) EdgeIteratorState {
	return EdgeIteratorState{g: g, edge: edge, baseNode: base, adjNode: adj, reverse: reverse}
}

func (g *BaseGraph) checkEdge(edge int32) error {
	if edge < 0 || edge >= g.edgeCount {
		return errs.NewErrorf(errs.ErrOutOfRange, "edge %d out of range [0, %d)", edge, g.edgeCount)
	}
	return nil
}

// EdgeIteratorStateForKey. state of the edge behind key, oriented as the key says (odd keys point from nodeB to nodeA).
func (g *BaseGraph) EdgeIteratorStateForKey(key int32) (EdgeIteratorState, error) {
	if err := g.checkUsable("resolve edge key"); err != nil {
		return EdgeIteratorState{}, err
	}
	if key < 0 {
		return EdgeIteratorState{}, errs.NewErrorf(errs.ErrOutOfRange, "negative edge key %d", key)
	}
	edge := EdgeFromKey(key)
	if err := g.checkEdge(edge); err != nil {
		return EdgeIteratorState{}, errs.WrapErrorf(err, errs.ErrOutOfRange, "edge key %d", key)
	}
	return g.stateForKey(key), nil
}

// stateForKey. unchecked variant for keys known to be valid.
func (g *BaseGraph) stateForKey(key int32) EdgeIteratorState {
	edge := EdgeFromKey(key)
	a, b := g.nodeA(edge), g.nodeB(edge)
	if IsReverseKey(key) {
		return g.newState(edge, b, a, true)
	}
	return g.newState(edge, a, b, false)
}

// EdgeIteratorState. state of edge pointing towards adjNode. adjNode == -1 gives the nodeA->nodeB orientation.
func (g *BaseGraph) EdgeIteratorState(edge int32, adjNode int32) (EdgeIteratorState, error) {
	if err := g.checkUsable("get edge"); err != nil {
		return EdgeIteratorState{}, err
	}
	if err := g.checkEdge(edge); err != nil {
		return EdgeIteratorState{}, err
	}
	a, b := g.nodeA(edge), g.nodeB(edge)
	switch adjNode {
	case b, -1:
		return g.newState(edge, a, b, false), nil
	case a:
		return g.newState(edge, b, a, true), nil
	default:
		return EdgeIteratorState{}, errs.NewErrorf(errs.ErrInvalidArgument, "node %d is not adjacent to edge %d (%d-%d)", adjNode, edge, a, b)
	}
}

// EdgesOf. lazy sequence of node's edges in insertion order, each oriented away from node.
// ranging over it again restarts from the first edge. unknown nodes and closed graphs yield nothing.
func (g *BaseGraph) EdgesOf(node int32) iter.Seq[EdgeIteratorState] {
	return func(yield func(EdgeIteratorState) bool) {
		if g.closed || !g.created || !g.isValidNode(node) {
			return
		}
		it := g.CreateEdgeExplorer().SetBaseNode(node)
		for it.Next() {
			if !yield(it.EdgeIteratorState) {
				return
			}
		}
	}
}

// CommonNode. the single node shared by the edges behind key1 and key2.
func (g *BaseGraph) CommonNode(key1, key2 int32) (int32, error) {
	s1, err := g.EdgeIteratorStateForKey(key1)
	if err != nil {
		return -1, err
	}
	s2, err := g.EdgeIteratorStateForKey(key2)
	if err != nil {
		return -1, err
	}

	common := make([]int32, 0, 2)
	for _, n := range [2]int32{s1.baseNode, s1.adjNode} {
		if (n == s2.baseNode || n == s2.adjNode) && (len(common) == 0 || common[0] != n) {
			common = append(common, n)
		}
	}
	if len(common) != 1 {
		return -1, errs.NewErrorf(errs.ErrInvalidArgument, "edges %d (%d-%d) and %d (%d-%d) share %d nodes, expected exactly one",
			s1.edge, s1.baseNode, s1.adjNode, s2.edge, s2.baseNode, s2.adjNode, len(common))
	}
	return common[0], nil
}

// AdjNode. endpoint of the edge behind key that is not knownNode.
func (g *BaseGraph) AdjNode(key int32, knownNode int32) (int32, error) {
	s, err := g.EdgeIteratorStateForKey(key)
	if err != nil {
		return -1, err
	}
	switch knownNode {
	case s.baseNode:
		return s.adjNode, nil
	case s.adjNode:
		return s.baseNode, nil
	default:
		return -1, errs.NewErrorf(errs.ErrInvalidArgument, "node %d is not an endpoint of edge %d (%d-%d)", knownNode, s.edge, s.baseNode, s.adjNode)
	}
}
