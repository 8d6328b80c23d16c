package storage

const (
	DEFAULT_SEGMENT_SIZE = 1 << 20 // 1 MiB
	MIN_SEGMENT_SIZE     = 1 << 7

	NODES_FILE_NAME = "nodes"
	EDGES_FILE_NAME = "edges"
)
