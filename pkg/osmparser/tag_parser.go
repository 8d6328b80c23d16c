package osmparser

import (
	"strconv"
	"strings"

	"github.com/paulmach/osm"

	"github.com/lintang-b-s/roadgraph/pkg/errs"
	"github.com/lintang-b-s/roadgraph/pkg/ev"
	"github.com/lintang-b-s/roadgraph/pkg/graph"
	"github.com/lintang-b-s/roadgraph/pkg/util"
)

var (
	skipHighway = map[string]struct{}{
		"footway":                {},
		"construction":           {},
		"cycleway":               {},
		"path":                   {},
		"pedestrian":             {},
		"busway":                 {},
		"steps":                  {},
		"bridleway":              {},
		"corridor":               {},
		"street_lamp":            {},
		"bus_stop":               {},
		"crossing":               {},
		"elevator":               {},
		"emergency_bay":          {},
		"emergency_access_point": {},
		"give_way":               {},
		"platform":               {},
		"proposed":               {},
		"raceway":                {},
		"speed_camera":           {},
		"bus_guideway":           {},
	}
)

// AcceptWay. whether the way is a road for motor vehicles.
func AcceptWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	if highway != "" {
		_, skip := skipHighway[highway]
		return !skip
	}
	return way.Tags.Find("route") == "road"
}

// WayAttributes . routing relevant values of one way.
type WayAttributes struct {
	RoadClass ev.RoadClass
	IsLink    bool
	// SpeedKMH. maxspeed tag, or the default speed of the road class.
	SpeedKMH float64
	Forward  bool
	Backward bool
}

// ParseWayTags. a malformed maxspeed falls back to the road class default and is reported with the error.
func ParseWayTags(tags osm.Tags) (WayAttributes, error) {
	highway := tags.Find("highway")
	attrs := WayAttributes{
		RoadClass: ev.RoadClassFromString(strings.TrimSuffix(highway, "_link")),
		IsLink:    strings.HasSuffix(highway, "_link"),
		SpeedKMH:  RoadTypeMaxSpeed(highway),
	}
	attrs.Forward, attrs.Backward = directions(tags)

	var err error
	if v := tags.Find("maxspeed"); v != "" {
		speed, perr := ParseMaxSpeed(v)
		if perr != nil {
			err = perr
		} else if speed > 0 {
			attrs.SpeedKMH = speed
		}
	}
	return attrs, err
}

// ParseMaxSpeed. km/h value of a maxspeed tag, "50", "50 km/h", "30 mph", "10 knots".
// "none" and "walk" give 0 (use the default).
func ParseMaxSpeed(value string) (float64, error) {
	v := strings.TrimSpace(strings.ToLower(value))
	factor := 1.0
	switch {
	case v == "none" || v == "signals" || v == "walk" || v == "variable":
		return 0, nil
	case strings.HasSuffix(v, "mph"):
		v = strings.TrimSuffix(v, "mph")
		factor = 1.60934
	case strings.HasSuffix(v, "knots"):
		v = strings.TrimSuffix(v, "knots")
		factor = 1.852
	case strings.HasSuffix(v, "km/h"):
		v = strings.TrimSuffix(v, "km/h")
	case strings.HasSuffix(v, "kmh"):
		v = strings.TrimSuffix(v, "kmh")
	}
	speed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, errs.WrapErrorf(err, errs.ErrInvalidArgument, "maxspeed %q", value)
	}
	if speed < 0 {
		return 0, errs.NewErrorf(errs.ErrInvalidArgument, "negative maxspeed %q", value)
	}
	return speed * factor, nil
}

// RoadTypeMaxSpeed. default speed in km/h of a highway value.
func RoadTypeMaxSpeed(roadType string) float64 {
	switch roadType {
	case "motorway":
		return 100
	case "trunk":
		return 70
	case "primary":
		return 65
	case "secondary":
		return 60
	case "tertiary":
		return 50
	case "unclassified":
		return 30
	case "residential":
		return 30
	case "service":
		return 20
	case "motorway_link":
		return 70
	case "trunk_link":
		return 65
	case "primary_link":
		return 60
	case "secondary_link":
		return 50
	case "tertiary_link":
		return 40
	case "living_street":
		return 10
	case "road":
		return 20
	case "track":
		return 15
	default:
		return 40
	}
}

func isRestricted(value string) bool {
	switch value {
	case "no", "restricted", "military", "emergency", "private", "permit":
		return true
	}
	return false
}

// directions. whether a vehicle may drive along (forward) and against (backward) the way's node order.
func directions(tags osm.Tags) (bool, bool) {
	forward, backward := true, true
	switch tags.Find("oneway") {
	case "yes", "true", "1":
		backward = false
	case "-1", "reverse":
		forward = false
	case "no", "false", "0":
	default:
		if tags.Find("junction") == "roundabout" || tags.Find("highway") == "motorway" {
			backward = false
		}
	}
	if isRestricted(tags.Find("vehicle:forward")) || isRestricted(tags.Find("motor_vehicle:forward")) {
		forward = false
	}
	if isRestricted(tags.Find("vehicle:backward")) || isRestricted(tags.Find("motor_vehicle:backward")) {
		backward = false
	}
	return forward, backward
}

// TagEncoders . where parsed way attributes are stored. nil fields are skipped.
type TagEncoders struct {
	Speed         *ev.DecimalEncodedValue
	Access        *ev.BooleanEncodedValue
	RoadClass     *ev.EnumEncodedValue[ev.RoadClass]
	RoadClassLink *ev.BooleanEncodedValue
}

// NewTagEncoders. look up the vehicle's speed/access values and the road class values registered in em.
func NewTagEncoders(em *ev.EncodingManager, vehicle string) (TagEncoders, error) {
	enc := TagEncoders{}
	var err error
	if enc.Speed, err = em.DecimalEncodedValue(ev.VehicleSpeedKey(vehicle)); err != nil {
		return TagEncoders{}, err
	}
	if em.Has(ev.VehicleAccessKey(vehicle)) {
		if enc.Access, err = em.BooleanEncodedValue(ev.VehicleAccessKey(vehicle)); err != nil {
			return TagEncoders{}, err
		}
	}
	if em.Has(ev.RoadClassKey) {
		if enc.RoadClass, err = ev.GetEnumEncodedValue[ev.RoadClass](em, ev.RoadClassKey); err != nil {
			return TagEncoders{}, err
		}
	}
	if em.Has(ev.RoadClassLinkKey) {
		if enc.RoadClassLink, err = em.BooleanEncodedValue(ev.RoadClassLinkKey); err != nil {
			return TagEncoders{}, err
		}
	}
	return enc, nil
}

// Apply. write attrs to an edge stored in way direction. a closed direction gets speed 0 (and access false).
// speeds are clamped to what the speed value can store.
func (a WayAttributes) Apply(state graph.EdgeIteratorState, enc TagEncoders) error {
	if enc.RoadClass != nil {
		if err := graph.SetEnum(state, enc.RoadClass, a.RoadClass); err != nil {
			return err
		}
	}
	if enc.RoadClassLink != nil {
		state.SetBool(enc.RoadClassLink, a.IsLink)
	}
	if enc.Access != nil {
		state.SetBool(enc.Access, a.Forward)
		if enc.Access.IsStoreTwoDirections() {
			state.SetReverseBool(enc.Access, a.Backward)
		}
	}
	if enc.Speed == nil {
		return nil
	}

	speed := util.Clamp(a.SpeedKMH, 0, enc.Speed.MaxStorableDecimal())
	fwd, bwd := speed, speed
	if !a.Forward {
		fwd = 0
	}
	if !a.Backward {
		bwd = 0
	}
	if enc.Speed.IsStoreTwoDirections() {
		return state.SetDecimalBothDirections(enc.Speed, fwd, bwd)
	}
	return state.SetDecimal(enc.Speed, fwd)
}
