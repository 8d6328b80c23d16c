package ev

import "strings"

const (
	RoadClassKey     = "road_class"
	RoadClassLinkKey = "road_class_link"
	UrbanDensityKey  = "urban_density"
)

// VehicleSpeedKey. conventional name of a vehicle's speed value, e.g. "car_speed".
func VehicleSpeedKey(vehicle string) string {
	return vehicle + "_speed"
}

func VehicleAccessKey(vehicle string) string {
	return vehicle + "_access"
}

// RoadClass. value of the OSM highway tag with the _link suffix removed.
type RoadClass int

const (
	RoadClassOther RoadClass = iota
	RoadClassMotorway
	RoadClassTrunk
	RoadClassPrimary
	RoadClassSecondary
	RoadClassTertiary
	RoadClassResidential
	RoadClassUnclassified
	RoadClassService
	RoadClassRoad
	RoadClassTrack
	RoadClassBridleway
	RoadClassSteps
	RoadClassCycleway
	RoadClassPath
	RoadClassLivingStreet
	RoadClassFootway
	RoadClassPedestrian
	RoadClassPlatform
	RoadClassCorridor
	RoadClassConstruction
	RoadClassBusway
)

var roadClassNames = []string{
	"other", "motorway", "trunk", "primary", "secondary", "tertiary", "residential",
	"unclassified", "service", "road", "track", "bridleway", "steps", "cycleway", "path",
	"living_street", "footway", "pedestrian", "platform", "corridor", "construction", "busway",
}

func (r RoadClass) String() string {
	if r < 0 || int(r) >= len(roadClassNames) {
		return roadClassNames[0]
	}
	return roadClassNames[r]
}

// RoadClassFromString. unknown names map to RoadClassOther.
func RoadClassFromString(s string) RoadClass {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range roadClassNames {
		if name == s {
			return RoadClass(i)
		}
	}
	return RoadClassOther
}

func RoadClasses() []RoadClass {
	values := make([]RoadClass, len(roadClassNames))
	for i := range roadClassNames {
		values[i] = RoadClass(i)
	}
	return values
}

func NewRoadClassEnc() *EnumEncodedValue[RoadClass] {
	return NewEnum(RoadClassKey, RoadClasses(), false)
}

func NewRoadClassLinkEnc() *BooleanEncodedValue {
	return NewBoolean(RoadClassLinkKey, false)
}

type UrbanDensity int

const (
	UrbanDensityRural UrbanDensity = iota
	UrbanDensityResidential
	UrbanDensityCity
)

func (u UrbanDensity) String() string {
	switch u {
	case UrbanDensityResidential:
		return "residential"
	case UrbanDensityCity:
		return "city"
	default:
		return "rural"
	}
}

func UrbanDensities() []UrbanDensity {
	return []UrbanDensity{UrbanDensityRural, UrbanDensityResidential, UrbanDensityCity}
}

func NewUrbanDensityEnc() *EnumEncodedValue[UrbanDensity] {
	return NewEnum(UrbanDensityKey, UrbanDensities(), false)
}
