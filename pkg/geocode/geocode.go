package geocode

import (
	"strings"

	olc "github.com/google/open-location-code/go"

	"ftth-viability-be/internal/pkg/apperrors"
)

// CodeLength is the number of significant digits in a full plus code.
// Eleven digits resolve to roughly a 3m cell, which is the precision the
// field teams record addresses at. Round-tripping through Encode/Decode is
// lossy below that cell size on purpose.
const CodeLength = 11

// Encode converts a coordinate into its canonical plus code.
func Encode(lat, lon float64) string {
	return olc.Encode(lat, lon, CodeLength)
}

// Validate reports whether code is a well-formed full plus code. It checks
// charset and layout only; it does not decode.
func Validate(code string) bool {
	return olc.CheckFull(strings.ToUpper(strings.TrimSpace(code))) == nil
}

// Decode resolves a full plus code to the center of its cell.
func Decode(code string) (lat, lon float64, err error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if !Validate(normalized) {
		return 0, 0, apperrors.ErrInvalidCode.WithMessage("location code %q is malformed", code)
	}
	area, decodeErr := olc.Decode(normalized)
	if decodeErr != nil {
		return 0, 0, apperrors.ErrInvalidCode.WithCause(decodeErr)
	}
	lat, lon = area.Center()
	return lat, lon, nil
}

// Normalize returns the canonical uppercase form of a code, preserving it
// verbatim otherwise. The stored user-facing form of a location.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
