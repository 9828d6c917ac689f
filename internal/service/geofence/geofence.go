// Package geofence decides whether a coordinate is close enough to one
// of the tenant offices to accept a clock event. The check fails closed:
// with the fence enabled and no offices configured nothing passes.
package geofence

import (
	"math"
)

type Point struct {
	Latitude  float64
	Longitude float64
}

type Office struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// Result carries the decision plus the measured distance so callers can
// log and return it. DistanceMeters is -1 when no office was available
// to measure against.
type Result struct {
	Allowed        bool
	DistanceMeters float64
	NearestOffice  string
}

// Distance returns the great-circle distance between two coordinates in
// meters using the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	R := 6371.0 // Earth's radius in kilometers
	φ1 := lat1 * math.Pi / 180.0
	φ2 := lat2 * math.Pi / 180.0
	Δφ := (lat2 - lat1) * math.Pi / 180.0
	Δλ := (lon2 - lon1) * math.Pi / 180.0

	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) + math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * c * 1000 // meters
}

// Validate checks point against every office and the shared radius. A
// point sitting exactly on the radius is allowed. With the fence
// disabled the point always passes, though the nearest distance is
// still measured when offices exist.
func Validate(point Point, offices []Office, enabled bool, radiusMeters float64) Result {
	result := Result{
		Allowed:        !enabled,
		DistanceMeters: -1,
	}

	for _, office := range offices {
		distance := Distance(point.Latitude, point.Longitude, office.Latitude, office.Longitude)
		if result.DistanceMeters < 0 || distance < result.DistanceMeters {
			result.DistanceMeters = distance
			result.NearestOffice = office.Name
		}
	}

	if !enabled {
		return result
	}

	// Fail closed: no offices or a non-positive radius rejects every
	// point.
	if len(offices) == 0 || radiusMeters <= 0 {
		result.Allowed = false
		return result
	}

	result.Allowed = result.DistanceMeters <= radiusMeters

	return result
}
