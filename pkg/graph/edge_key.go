package graph

const NO_EDGE = int32(-1)

// CreateEdgeKey. 2*edge for the direction nodeA->nodeB, 2*edge+1 for nodeB->nodeA.
func CreateEdgeKey(edge int32, reverse bool) int32 {
	key := edge << 1
	if reverse {
		key++
	}
	return key
}

func EdgeFromKey(key int32) int32 {
	return key >> 1
}

func IsReverseKey(key int32) bool {
	return key&1 == 1
}

// ReverseEdgeKey. key of the same edge in the opposite direction.
func ReverseEdgeKey(key int32) int32 {
	return key ^ 1
}
