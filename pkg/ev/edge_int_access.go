package ev

// EdgeIntAccess. the int slots of an edge that encoded values read and write through.
// index is the word index inside the edge's flags, in [0, IntsPerEdge).
type EdgeIntAccess interface {
	GetInt(edgeID int32, index int32) int32
	SetInt(edgeID int32, index int32, value int32)
}

// ArrayEdgeIntAccess . EdgeIntAccess backed by a plain slice, grows on write.
type ArrayEdgeIntAccess struct {
	intsPerEdge int32
	arr         []int32
}

func NewArrayEdgeIntAccess(intsPerEdge int32) *ArrayEdgeIntAccess {
	return &ArrayEdgeIntAccess{intsPerEdge: intsPerEdge, arr: make([]int32, 0)}
}

func (a *ArrayEdgeIntAccess) GetInt(edgeID int32, index int32) int32 {
	pos := int(edgeID*a.intsPerEdge + index)
	if pos >= len(a.arr) {
		return 0
	}
	return a.arr[pos]
}

func (a *ArrayEdgeIntAccess) SetInt(edgeID int32, index int32, value int32) {
	pos := int(edgeID*a.intsPerEdge + index)
	for pos >= len(a.arr) {
		a.arr = append(a.arr, 0)
	}
	a.arr[pos] = value
}
