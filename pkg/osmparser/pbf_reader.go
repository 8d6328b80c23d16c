package osmparser

import (
	"context"
	"fmt"
	"os"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"github.com/lintang-b-s/roadgraph/pkg/geo"
)

// ImportPBF. read an .osm.pbf file in two passes: the first keeps the road ways, the second the coordinates of
// their nodes. then every way is added with AddWay.
func (wi *WayImporter) ImportPBF(ctx context.Context, mapFile string) error {
	ways := make(osm.Ways, 0)
	needed := make(map[osm.NodeID]struct{})

	err := scanPBF(ctx, mapFile, func(o osm.Object) {
		way, ok := o.(*osm.Way)
		if !ok || len(way.Nodes) < 2 || !AcceptWay(way) {
			return
		}
		ways = append(ways, way)
		for _, n := range way.Nodes {
			needed[n.ID] = struct{}{}
		}
		if len(ways)%50000 == 0 {
			wi.logger.Info("reading openstreetmap ways", "ways", len(ways))
		}
	})
	if err != nil {
		return err
	}

	coords := make(map[osm.NodeID]geo.Coordinate, len(needed))
	err = scanPBF(ctx, mapFile, func(o osm.Object) {
		node, ok := o.(*osm.Node)
		if !ok {
			return
		}
		if _, ok := needed[node.ID]; ok {
			coords[node.ID] = geo.NewCoordinate(node.Lat, node.Lon)
		}
	})
	if err != nil {
		return err
	}

	edges := 0
	for _, way := range ways {
		n, err := wi.AddWay(way, coords)
		if err != nil {
			// extracts cut at a bounding box reference nodes they do not contain
			wi.logger.Warn("skipping way", "way", way.ID, "error", err)
			continue
		}
		edges += n
	}
	wi.logger.Info("imported openstreetmap file",
		"file", mapFile,
		"ways", wi.ways,
		"edges", edges,
		"nodes", len(wi.nodeIDMap))
	return nil
}

func scanPBF(ctx context.Context, mapFile string, fn func(o osm.Object)) error {
	f, err := os.Open(mapFile)
	if err != nil {
		return fmt.Errorf("open %s: %w", mapFile, err)
	}
	defer f.Close()

	scanner := osmpbf.New(ctx, f, 1)
	defer scanner.Close()
	scanner.SkipRelations = true

	for scanner.Scan() {
		fn(scanner.Object())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan %s: %w", mapFile, err)
	}
	return nil
}
