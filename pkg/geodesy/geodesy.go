package geodesy

import "github.com/tidwall/geodesic"

// DistanceM returns the geodesic distance in meters between two WGS84
// points. Ellipsoidal, not haversine: the service area spans enough
// latitude for spherical error to matter at audit precision.
func DistanceM(lat1, lon1, lat2, lon2 float64) float64 {
	var meters float64
	geodesic.WGS84.Inverse(lat1, lon1, lat2, lon2, &meters, nil, nil)
	return meters
}
