package geocode

import (
	"ftth-viability-be/internal/pkg/apperrors"
	"ftth-viability-be/pkg/geodesy"
)

// Region is the configured service area: a reference point plus a maximum
// radius. Requests and cabinets outside it are rejected at intake/load.
type Region struct {
	Lat     float64
	Lon     float64
	RadiusM float64
}

func (r Region) Contains(lat, lon float64) bool {
	return geodesy.DistanceM(r.Lat, r.Lon, lat, lon) <= r.RadiusM
}

// CheckCode decodes a location code and verifies it falls inside the
// region. Returns the decoded coordinate on success.
func (r Region) CheckCode(code string) (lat, lon float64, err error) {
	lat, lon, err = Decode(code)
	if err != nil {
		return 0, 0, err
	}
	if !r.Contains(lat, lon) {
		return 0, 0, apperrors.ErrOutOfServiceArea.WithMessage("location code %q decodes outside the service region", code)
	}
	return lat, lon, nil
}
