package geo

type span struct {
	from, to int
}

// RamerDouglasPeucker. keep only the points that deviate more than thresholdMeters from the simplified line.
// the endpoints always survive. ranges are processed from an explicit stack, long paths do not recurse.
func RamerDouglasPeucker(coords []Coordinate, thresholdMeters float64) []Coordinate {
	n := len(coords)
	if n < 3 {
		return coords
	}

	keep := make([]bool, n)
	keep[0], keep[n-1] = true, true

	pending := []span{{0, n - 1}}
	for len(pending) > 0 {
		s := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if s.to-s.from < 2 {
			continue
		}

		split, worst := -1, thresholdMeters
		for i := s.from + 1; i < s.to; i++ {
			if d := PointLinePerpendicularDistance(coords[s.from], coords[s.to], coords[i]); d > worst {
				split, worst = i, d
			}
		}
		if split < 0 {
			continue
		}
		keep[split] = true
		pending = append(pending, span{s.from, split}, span{split, s.to})
	}

	out := make([]Coordinate, 0, n)
	for i, c := range coords {
		if keep[i] {
			out = append(out, c)
		}
	}
	return out
}
